package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"lowerer/internal/config"
	"lowerer/internal/trace"
)

// activeTracer is the tracer of the running command, kept for failure dumps.
var activeTracer trace.Tracer = trace.Nop

func registerTraceFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("trace", "", "trace output file (- for stderr, *.ndjson for NDJSON)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "ring", "trace storage (stream|ring|both)")
	flags.Int("trace-ring-size", 4096, "events kept by the in-memory ring")
	flags.Duration("trace-heartbeat", 0, "emit heartbeat events at this interval (0 disables)")
}

// setupTracing inspects trace-related flags (falling back to the [trace] config section)
// and attaches the tracer to the command context. It returns a cleanup function.
func setupTracing(cmd *cobra.Command, cfg config.TraceConfig) (func(), error) {
	root := cmd.Root()

	traceOutput, err := stringFlagOr(root, "trace", cfg.Output)
	if err != nil {
		return nil, err
	}
	levelStr, err := stringFlagOr(root, "trace-level", cfg.Level)
	if err != nil {
		return nil, err
	}
	modeStr, err := stringFlagOr(root, "trace-mode", cfg.Mode)
	if err != nil {
		return nil, err
	}
	ringSize, err := root.PersistentFlags().GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	heartbeatInterval, err := root.PersistentFlags().GetDuration("trace-heartbeat")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}

	// If level is off and no output specified, skip tracing
	if level == trace.LevelOff && traceOutput == "" {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		activeTracer = trace.Nop
		return func() {}, nil
	}
	if level == trace.LevelOff {
		// an explicit output without a level means "phase"
		level = trace.LevelPhase
	}

	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace mode: %w", err)
	}
	if mode == trace.ModeRing && traceOutput != "" {
		// a ring alone never writes; keep it for failure dumps and stream to the output
		mode = trace.ModeBoth
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: traceOutput,
		RingSize:   ringSize,
		Heartbeat:  heartbeatInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	activeTracer = tracer

	root.SetContext(trace.WithTracer(cmd.Context(), tracer))
	span := trace.Begin(tracer, trace.ScopeDriver, cmd.Name(), 0)
	cmd.SetContext(trace.WithSpan(root.Context(), span))

	var heartbeat *trace.Heartbeat
	if heartbeatInterval > 0 {
		heartbeat = trace.StartHeartbeat(tracer, heartbeatInterval)
	}

	cleanup := func() {
		// Stop heartbeat first
		if heartbeat != nil {
			heartbeat.Stop()
		}
		span.End("")

		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
		activeTracer = trace.Nop
	}
	return cleanup, nil
}

// stringFlagOr returns the flag value when set on the command line, otherwise fallback
// (when non-empty) or the flag default.
func stringFlagOr(root *cobra.Command, name, fallback string) (string, error) {
	value, err := root.PersistentFlags().GetString(name)
	if err != nil {
		return "", fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	if root.PersistentFlags().Changed(name) || fallback == "" {
		return value, nil
	}
	return fallback, nil
}

type dumper interface {
	Dump(w io.Writer, format trace.Format) error
}

// dumpTraceOnFailure writes the in-memory ring, if any, so a failed run leaves context.
func dumpTraceOnFailure(w io.Writer) {
	d, ok := activeTracer.(dumper)
	if !ok {
		return
	}
	fmt.Fprintf(w, "trace: last events before failure (%s):\n", time.Now().Format(time.RFC3339))
	if err := d.Dump(w, trace.FormatText); err != nil {
		fmt.Fprintf(w, "trace: dump error: %v\n", err)
	}
}
