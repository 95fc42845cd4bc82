package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"layerspeed/internal/config"
	"layerspeed/internal/trace"
)

// setupTracing reads the trace flags, falling back to the config file, and
// attaches a tracer plus a command-scope span to the command context.
// The returned cleanup ends the span and closes the tracer.
func setupTracing(cmd *cobra.Command, cfg config.Config) (func(), error) {
	root := cmd.Root()

	traceOutput, err := root.PersistentFlags().GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := root.PersistentFlags().GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	modeStr, err := root.PersistentFlags().GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	ringSize, err := root.PersistentFlags().GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}

	if levelStr == "" {
		levelStr = cfg.TraceLevel
		// --trace alone means "show me something".
		if traceOutput != "" && (levelStr == "" || levelStr == "off") {
			levelStr = "command"
		}
	}
	if traceOutput == "" {
		traceOutput = cfg.TraceOutput
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, usageError("%v", err)
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, usageError("%v", err)
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: traceOutput,
		RingSize:   ringSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	span := trace.Begin(tracer, trace.ScopeCommand, cmd.Name(), 0)
	if cfg.Path != "" {
		span.WithExtra("config", cfg.Path)
	}
	ctx := trace.WithTracer(cmd.Context(), tracer)
	ctx = trace.WithSpan(ctx, span)
	cmd.SetContext(ctx)

	cleanup := func() {
		span.End("")
		// Ring mode only keeps the tail in memory; print it on the way out.
		// In both mode the tail goes to stderr when the stream went to a file.
		toFile := traceOutput != "" && traceOutput != "-"
		if ring := trace.RingOf(tracer); ring != nil && (mode == trace.ModeRing || toFile) {
			if err := ring.Dump(cmd.ErrOrStderr(), trace.FormatText); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
			}
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return cleanup, nil
}
