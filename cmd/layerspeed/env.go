package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"layerspeed/internal/config"
	"layerspeed/internal/observ"
)

// runEnv is what every command needs after global flags are applied.
type runEnv struct {
	ctx     context.Context
	cfg     config.Config
	quiet   bool
	timer   *observ.Timer
	timings bool
}

// prepare loads configuration, applies --color, and sets up tracing.
// Callers must defer the returned cleanup.
func prepare(cmd *cobra.Command) (*runEnv, func(), error) {
	flags := cmd.Root().PersistentFlags()

	colorMode, err := flags.GetString("color")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get color flag: %w", err)
	}
	if err := applyColorMode(colorMode); err != nil {
		return nil, nil, err
	}
	quiet, err := flags.GetBool("quiet")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	timings, err := flags.GetBool("timings")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	var cfg config.Config
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.Discover(".")
	}
	if err != nil {
		return nil, nil, err
	}

	if cmd.Context() == nil {
		cmd.SetContext(context.Background())
	}
	cleanup, err := setupTracing(cmd, cfg)
	if err != nil {
		return nil, nil, err
	}

	env := &runEnv{
		ctx:     cmd.Context(),
		cfg:     cfg,
		quiet:   quiet,
		timings: timings,
	}
	if timings {
		env.timer = observ.NewTimer()
	}
	return env, cleanup, nil
}

func (e *runEnv) printTimings(out io.Writer) {
	if !e.timings || e.timer == nil {
		return
	}
	_, _ = fmt.Fprint(out, e.timer.Summary())
}
