package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/okian/mindarcade/internal/adapters/mq/queue"
	"github.com/okian/mindarcade/internal/adapters/repository"
	"github.com/okian/mindarcade/pkg/logger"
)

type pending struct {
	seq     uint64
	value   []byte
	deleted bool
}

// WriteBehindStore is a repository.Store whose writes return as soon as they
// are queued. Reads see queued writes before they reach the backing store.
type WriteBehindStore struct {
	backing repository.Store
	queue   *queue.InMemoryQueue
	writer  *Writer

	mu      sync.Mutex
	pending map[string]pending

	failures atomic.Int64
	closed   atomic.Bool
}

// NewWriteBehindStore starts a writer goroutine in front of backing.
// ctx bounds the writer's lifetime; Close drains and stops it.
func NewWriteBehindStore(ctx context.Context, backing repository.Store, capacity int, l logger.Logger) *WriteBehindStore {
	s := &WriteBehindStore{
		backing: backing,
		queue:   queue.NewInMemoryQueue(queue.WithCapacity(capacity)),
		pending: make(map[string]pending),
	}
	s.writer = NewWriter(s.queue, backing,
		WithName("write-behind"),
		WithLogger(l),
		WithOnApplied(s.applied),
	)
	go s.writer.Run(ctx)
	return s
}

func (s *WriteBehindStore) applied(op queue.WriteOp, err error) {
	if err != nil {
		s.failures.Add(1)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.pending[op.Key]; ok && p.seq == op.Seq {
		delete(s.pending, op.Key)
	}
}

func (s *WriteBehindStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	p, ok := s.pending[key]
	s.mu.Unlock()
	if ok {
		if p.deleted {
			return nil, repository.ErrNotFound
		}
		return append([]byte(nil), p.value...), nil
	}
	return s.backing.Get(ctx, key)
}

func (s *WriteBehindStore) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return repository.ErrEmptyKey
	}
	return s.enqueue(ctx, queue.WriteOp{Kind: queue.OpSet, Key: key, Value: append([]byte(nil), value...)})
}

func (s *WriteBehindStore) Delete(ctx context.Context, key string) error {
	return s.enqueue(ctx, queue.WriteOp{Kind: queue.OpDelete, Key: key})
}

func (s *WriteBehindStore) enqueue(ctx context.Context, op queue.WriteOp) error {
	// The pending entry is recorded under the same lock as the enqueue so a
	// fast writer cannot apply the op before it is tracked.
	s.mu.Lock()
	defer s.mu.Unlock()
	seq, err := s.queue.Enqueue(ctx, op)
	if err != nil {
		return err
	}
	s.pending[op.Key] = pending{seq: seq, value: op.Value, deleted: op.Kind == queue.OpDelete}
	return nil
}

// Flush blocks until every write queued before the call has been applied.
func (s *WriteBehindStore) Flush(ctx context.Context) error {
	done := make(chan struct{})
	if _, err := s.queue.EnqueueWait(ctx, queue.WriteOp{Kind: queue.OpBarrier, Done: done}); err != nil {
		if errors.Is(err, queue.ErrClosed) {
			return s.writer.Wait(ctx)
		}
		return err
	}
	select {
	case <-done:
		return nil
	case <-s.writer.Done():
		return queue.ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending returns the number of queued operations.
func (s *WriteBehindStore) Pending(ctx context.Context) int {
	return s.queue.Len(ctx)
}

// Failures returns how many background writes failed so far.
func (s *WriteBehindStore) Failures() int64 {
	return s.failures.Load()
}

// Capacity returns the bound of the write queue.
func (s *WriteBehindStore) Capacity() int {
	return s.queue.Capacity()
}

// Close drains queued writes, stops the writer and closes the backing store.
func (s *WriteBehindStore) Close() error {
	return s.Shutdown(context.Background())
}

// Shutdown drains queued writes until ctx is done. Writes still queued at
// that point are dropped. The backing store is closed either way.
func (s *WriteBehindStore) Shutdown(ctx context.Context) error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	_ = s.queue.Close()
	err := s.writer.Wait(ctx)
	if err != nil {
		s.writer.Stop()
		<-s.writer.Done()
	}
	return errors.Join(err, s.backing.Close())
}
