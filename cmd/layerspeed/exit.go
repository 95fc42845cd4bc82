package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"layerspeed/internal/gcode"
)

const (
	exitFailure  = 1
	exitNotFound = 2
)

// exitError carries the process exit code for an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func notFoundError(layer, file string) error {
	return &exitError{
		code: exitNotFound,
		err:  fmt.Errorf("%w: layer %s not found in %s", gcode.ErrLayerNotFound, layer, file),
	}
}

func usageError(format string, args ...any) error {
	return &exitError{code: exitFailure, err: fmt.Errorf(format, args...)}
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitFailure
}

var errorLabel = color.New(color.FgRed, color.Bold)

func reportError(out io.Writer, err error) {
	_, _ = errorLabel.Fprint(out, "error: ")
	_, _ = fmt.Fprintln(out, err)
}
