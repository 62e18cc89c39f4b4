package worker

import (
	"time"

	"github.com/okian/mindarcade/internal/adapters/mq/queue"
	"github.com/okian/mindarcade/pkg/logger"
)

// Option applies a configuration option to the Writer.
type Option func(*Writer)

// WithName sets the writer name for identification and logging.
func WithName(name string) Option {
	return func(w *Writer) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the writer.
func WithLogger(l logger.Logger) Option {
	return func(w *Writer) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithWriteTimeout bounds every store call.
func WithWriteTimeout(d time.Duration) Option {
	return func(w *Writer) {
		if d > 0 {
			w.writeTimeout = d
		}
	}
}

// WithOnApplied registers a callback invoked after each data operation with
// its sequence number and error, from the writer goroutine.
func WithOnApplied(fn func(op queue.WriteOp, err error)) Option {
	return func(w *Writer) {
		w.onApplied = fn
	}
}
