package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"layerspeed/internal/gcode"
	"layerspeed/internal/observ"
	"layerspeed/internal/trace"
)

// ErrNoFile is returned by ParseRequest when no G-code file was chosen.
var ErrNoFile = errors.New("no G-code file selected")

// Request is a validated edit. Layer and Speed are the digit text the user
// entered; they are searched for, written and logged verbatim.
type Request struct {
	Path  string
	Layer string
	Speed string
}

// ParseRequest validates user-entered values. Numeric fields are checked
// before the path, matching the order the prompts appear in.
func ParseRequest(path, layerText, speedText string) (Request, error) {
	if err := gcode.ValidateNumber(layerText); err != nil {
		return Request{}, fmt.Errorf("layer: %w", err)
	}
	if err := gcode.ValidateNumber(speedText); err != nil {
		return Request{}, fmt.Errorf("speed: %w", err)
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Request{}, ErrNoFile
	}
	return Request{Path: path, Layer: layerText, Speed: speedText}, nil
}

// Result describes the outcome of Apply. Applied is false when the layer
// marker could not be used; the file is untouched then.
type Result struct {
	Request Request
	Applied bool
	Entry   Entry
}

// Apply edits the requested file and records the edit on success.
// A missing marker is not an error; I/O failures are.
func (s *Session) Apply(ctx context.Context, req Request) (Result, error) {
	res, err := Edit(ctx, req, s.timer)
	if err != nil || !res.Applied {
		return res, err
	}
	return s.Commit(res), nil
}

// Commit records an applied result produced by Edit and returns it with the
// entry filled in. Results that were not applied are returned unchanged.
func (s *Session) Commit(res Result) Result {
	if !res.Applied {
		return res
	}
	res.Entry = s.Record(res.Request.Path, res.Request.Layer, res.Request.Speed)
	return res
}

// Edit performs the file edit without touching any session state, so it can
// run off the goroutine that owns the Session. timer may be nil.
func Edit(ctx context.Context, req Request, timer *observ.Timer) (Result, error) {
	res := Result{Request: req}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeEdit, "edit", trace.CurrentSpan(ctx))
	span.WithExtra("file", req.Path).
		WithExtra("layer", req.Layer).
		WithExtra("speed", req.Speed)

	idx := timer.Begin("read")
	trace.Point(tracer, trace.ScopeIO, "read", req.Path, span.ID())
	doc, err := gcode.ReadDocument(req.Path)
	if err != nil {
		timer.End(idx, "failed")
		trace.Error(tracer, trace.ScopeIO, "read", err, span.ID())
		span.End("io error")
		return res, err
	}
	timer.End(idx, fmt.Sprintf("%d bytes", len(doc.Content)))

	idx = timer.Begin("splice")
	out, ok := gcode.Splice(doc.Content, req.Layer, req.Speed)
	if !ok {
		timer.End(idx, "marker not found")
		span.End("not found")
		return res, nil
	}
	timer.End(idx, gcode.Marker(req.Layer))

	idx = timer.Begin("write")
	trace.Point(tracer, trace.ScopeIO, "write", req.Path, span.ID())
	if err := doc.Overwrite(out); err != nil {
		timer.End(idx, "failed")
		trace.Error(tracer, trace.ScopeIO, "write", err, span.ID())
		span.End("io error")
		return res, err
	}
	timer.End(idx, fmt.Sprintf("%d bytes", len(out)))

	res.Applied = true
	span.End("applied")
	return res, nil
}
