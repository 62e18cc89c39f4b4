// Package worker applies queued persistence writes to the durable store in
// the background, so the engine never blocks on storage.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/mindarcade/internal/adapters/mq/queue"
	"github.com/okian/mindarcade/pkg/logger"
	"github.com/okian/mindarcade/pkg/metrics"
)

const defaultWriteTimeout = 5 * time.Second

// Sink receives the writes. repository.Store satisfies it.
type Sink interface {
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Source defines how the writer receives operations.
type Source interface {
	Dequeue(ctx context.Context) <-chan queue.WriteOp
}

// Writer is a single goroutine draining operations into a Sink in order.
// A single consumer keeps last-write-wins ordering per key.
type Writer struct {
	source       Source
	sink         Sink
	name         string
	writeTimeout time.Duration
	onApplied    func(op queue.WriteOp, err error)

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewWriter creates a writer with configuration options.
func NewWriter(source Source, sink Sink, opts ...Option) *Writer {
	w := &Writer{
		source:       source,
		sink:         sink,
		name:         "writer",
		writeTimeout: defaultWriteTimeout,
		shutdown:     make(chan struct{}),
		done:         make(chan struct{}),
		logger:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named(w.name)
	return w
}

// Run drains the source until it is closed, Stop is called or ctx is done.
func (w *Writer) Run(ctx context.Context) {
	defer close(w.done)

	ops := w.source.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case op, ok := <-ops:
			if !ok {
				return
			}
			w.apply(ctx, op)
		}
	}
}

// Done is closed when Run returns.
func (w *Writer) Done() <-chan struct{} {
	return w.done
}

// Stop makes Run return without draining. Pending operations are lost.
func (w *Writer) Stop() {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}
}

// Wait blocks until Run returns or ctx is done. Close the source first to
// drain everything that was queued.
func (w *Writer) Wait(ctx context.Context) error {
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "writer shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *Writer) apply(ctx context.Context, op queue.WriteOp) {
	if op.Kind == queue.OpBarrier {
		if op.Done != nil {
			close(op.Done)
		}
		return
	}

	start := time.Now()
	wctx, cancel := context.WithTimeout(ctx, w.writeTimeout)
	var err error
	switch op.Kind {
	case queue.OpSet:
		err = w.sink.Set(wctx, op.Key, op.Value)
	case queue.OpDelete:
		err = w.sink.Delete(wctx, op.Key)
	default:
		err = fmt.Errorf("unknown op kind %d", op.Kind)
	}
	cancel()

	metrics.RecordPersistWrite(err == nil, float64(time.Since(start).Microseconds())/1000)
	if err != nil {
		w.logger.Warn(ctx, "persist failed",
			logger.String("key", op.Key),
			logger.Any("seq", op.Seq),
			logger.Error(err),
		)
	}
	if w.onApplied != nil {
		w.onApplied(op, err)
	}
}
