package runner

import (
	"log/slog"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithFormatter configures the output formatter (default: TextFormatter on the output).
func WithFormatter(f Formatter) Option {
	return func(r *Runner) {
		r.Formatter = f
	}
}

// WithFlushEachWord flushes output after every word, for interactive use.
func WithFlushEachWord(on bool) Option {
	return func(r *Runner) {
		r.FlushEachWord = on
	}
}
