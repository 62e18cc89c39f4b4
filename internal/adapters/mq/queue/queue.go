// Package queue carries pending persistence writes from the engine to the
// background writer.
package queue

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/okian/mindarcade/pkg/metrics"
)

const defaultQueueCapacity = 1024

// OpKind distinguishes write operations.
type OpKind int

// Operation kinds.
const (
	OpSet OpKind = iota
	OpDelete
	// OpBarrier carries no data; the consumer closes Done once every earlier
	// operation has been applied.
	OpBarrier
)

// WriteOp is one pending store mutation. Seq is assigned on enqueue and grows
// monotonically.
type WriteOp struct {
	Kind  OpKind
	Key   string
	Value []byte
	Seq   uint64
	Done  chan struct{}
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds op without blocking. It returns the assigned sequence
	// number, or ErrFull / ErrClosed.
	Enqueue(ctx context.Context, op WriteOp) (uint64, error)

	// EnqueueWait adds op, waiting for room until ctx is done.
	EnqueueWait(ctx context.Context, op WriteOp) (uint64, error)

	// Dequeue returns the channel operations are delivered on, in enqueue
	// order. The channel is closed after Close once drained.
	Dequeue(ctx context.Context) <-chan WriteOp

	// Len returns the current number of queued operations.
	Len(ctx context.Context) int

	// Close stops accepting operations. Already queued ones stay deliverable.
	Close() error
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	ops      chan WriteOp
	capacity int
	seq      atomic.Uint64

	// mu orders enqueues so sequence numbers match channel order, and guards
	// against sends on a closed channel.
	mu     sync.Mutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.ops = make(chan WriteOp, q.capacity)
	metrics.UpdateWriteQueue(0, q.capacity)
	return q
}

func (q *InMemoryQueue) Enqueue(_ context.Context, op WriteOp) (uint64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		metrics.RecordWriteQueueDropped()
		return 0, ErrClosed
	}
	op.Seq = q.seq.Load() + 1
	select {
	case q.ops <- op:
		q.seq.Store(op.Seq)
		metrics.UpdateWriteQueue(len(q.ops), q.capacity)
		return op.Seq, nil
	default:
		metrics.RecordWriteQueueDropped()
		return 0, ErrFull
	}
}

func (q *InMemoryQueue) EnqueueWait(ctx context.Context, op WriteOp) (uint64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return 0, ErrClosed
	}
	op.Seq = q.seq.Load() + 1
	select {
	case q.ops <- op:
		q.seq.Store(op.Seq)
		metrics.UpdateWriteQueue(len(q.ops), q.capacity)
		return op.Seq, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func (q *InMemoryQueue) Dequeue(_ context.Context) <-chan WriteOp {
	return q.ops
}

func (q *InMemoryQueue) Len(_ context.Context) int {
	size := len(q.ops)
	metrics.UpdateWriteQueue(size, q.capacity)
	return size
}

// Capacity returns the configured bound.
func (q *InMemoryQueue) Capacity() int {
	return q.capacity
}

func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.ops)
	q.closed = true
	return nil
}
