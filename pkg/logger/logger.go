// Package logger holds the process-wide structured logger.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// L is the global logger instance. It discards all output until Init is
// called.
var L *slog.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

type Options struct {
	Enabled bool       // If false, all logging is discarded
	Output  io.Writer  // Default: os.Stderr
	Level   slog.Level // Minimum log level
}

// Init configures logging. Call from main() before any log calls.
func Init(opts Options) {
	if !opts.Enabled {
		L = slog.New(slog.NewTextHandler(io.Discard, nil))
		return
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	L = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: opts.Level}))
}
