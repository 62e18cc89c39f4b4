package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/mindarcade/internal/adapters/mq/queue"
	"github.com/okian/mindarcade/internal/adapters/mq/worker"
	"github.com/okian/mindarcade/internal/adapters/repository"
	"github.com/smartystreets/goconvey/convey"
)

// flakyStore fails writes for keys listed in failKeys and can be slowed down.
type flakyStore struct {
	*repository.MemoryStore
	mu       sync.Mutex
	failKeys map[string]bool
	delay    time.Duration
	order    []string
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: repository.NewMemoryStore(), failKeys: map[string]bool{}}
}

func (f *flakyStore) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	fail, delay := f.failKeys[key], f.delay
	f.order = append(f.order, string(value))
	f.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}
	if fail {
		return errors.New("disk on fire")
	}
	return f.MemoryStore.Set(ctx, key, value)
}

func (f *flakyStore) setFail(key string) {
	f.mu.Lock()
	f.failKeys[key] = true
	f.mu.Unlock()
}

func (f *flakyStore) setDelay(d time.Duration) {
	f.mu.Lock()
	f.delay = d
	f.mu.Unlock()
}

func (f *flakyStore) writes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.order...)
}

func TestWriter(t *testing.T) {
	convey.Convey("Given a writer draining a queue", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(16))
		sink := newFlakyStore()

		var mu sync.Mutex
		var applied []uint64
		var failed int
		w := worker.NewWriter(q, sink, worker.WithName("test-writer"), worker.WithOnApplied(func(op queue.WriteOp, err error) {
			mu.Lock()
			defer mu.Unlock()
			applied = append(applied, op.Seq)
			if err != nil {
				failed++
			}
		}))
		go w.Run(ctx)

		convey.Convey("When operations are queued and the queue is closed", func() {
			_, _ = q.Enqueue(ctx, queue.WriteOp{Kind: queue.OpSet, Key: "k", Value: []byte("1")})
			_, _ = q.Enqueue(ctx, queue.WriteOp{Kind: queue.OpSet, Key: "k", Value: []byte("2")})
			_, _ = q.Enqueue(ctx, queue.WriteOp{Kind: queue.OpDelete, Key: "other"})
			_ = q.Close()

			waitCtx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			err := w.Wait(waitCtx)

			convey.Convey("Then every op is applied in order and the last write wins", func() {
				convey.So(err, convey.ShouldBeNil)
				v, getErr := sink.Get(ctx, "k")
				convey.So(getErr, convey.ShouldBeNil)
				convey.So(string(v), convey.ShouldEqual, "2")
				convey.So(sink.writes(), convey.ShouldResemble, []string{"1", "2"})
				mu.Lock()
				convey.So(applied, convey.ShouldResemble, []uint64{1, 2, 3})
				mu.Unlock()
			})
		})

		convey.Convey("When a write fails", func() {
			sink.setFail("bad")
			_, _ = q.Enqueue(ctx, queue.WriteOp{Kind: queue.OpSet, Key: "bad", Value: []byte("x")})
			_, _ = q.Enqueue(ctx, queue.WriteOp{Kind: queue.OpSet, Key: "good", Value: []byte("y")})
			_ = q.Close()
			_ = w.Wait(ctx)

			convey.Convey("Then the writer keeps going", func() {
				mu.Lock()
				convey.So(failed, convey.ShouldEqual, 1)
				mu.Unlock()
				v, err := sink.Get(ctx, "good")
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(v), convey.ShouldEqual, "y")
			})
		})

		convey.Convey("When a barrier is queued", func() {
			done := make(chan struct{})
			_, _ = q.Enqueue(ctx, queue.WriteOp{Kind: queue.OpSet, Key: "k", Value: []byte("v")})
			_, _ = q.Enqueue(ctx, queue.WriteOp{Kind: queue.OpBarrier, Done: done})

			convey.Convey("Then it is released after earlier writes", func() {
				select {
				case <-done:
				case <-time.After(time.Second):
					convey.So("barrier not released", convey.ShouldBeEmpty)
				}
				v, err := sink.Get(ctx, "k")
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(v), convey.ShouldEqual, "v")
				_ = q.Close()
			})
		})

		convey.Convey("When stopped", func() {
			w.Stop()
			w.Stop()

			convey.Convey("Then Run returns", func() {
				convey.So(w.Wait(ctx), convey.ShouldBeNil)
			})
		})
	})
}

func TestWriteBehindStore(t *testing.T) {
	convey.Convey("Given a write-behind store over a slow backing store", t, func() {
		ctx := context.Background()
		backing := newFlakyStore()
		backing.setDelay(5 * time.Millisecond)
		s := worker.NewWriteBehindStore(ctx, backing, 8, nil)

		convey.Convey("When a value is set", func() {
			convey.So(s.Set(ctx, repository.KeyProgress, []byte(`{"a":1}`)), convey.ShouldBeNil)

			convey.Convey("Then it is readable before the backing store has it", func() {
				v, err := s.Get(ctx, repository.KeyProgress)
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(v), convey.ShouldEqual, `{"a":1}`)
			})

			convey.Convey("Then Flush makes it durable", func() {
				convey.So(s.Flush(ctx), convey.ShouldBeNil)
				v, err := backing.Get(ctx, repository.KeyProgress)
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(v), convey.ShouldEqual, `{"a":1}`)
				convey.So(s.Pending(ctx), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When a key is deleted after being set", func() {
			_ = s.Set(ctx, "k", []byte("v"))
			_ = s.Delete(ctx, "k")

			convey.Convey("Then reads report it missing", func() {
				_, err := s.Get(ctx, "k")
				convey.So(errors.Is(err, repository.ErrNotFound), convey.ShouldBeTrue)
				convey.So(s.Flush(ctx), convey.ShouldBeNil)
				_, err = s.Get(ctx, "k")
				convey.So(errors.Is(err, repository.ErrNotFound), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the backing store rejects a write", func() {
			backing.setFail("broken")
			_ = s.Set(ctx, "broken", []byte("x"))
			convey.So(s.Flush(ctx), convey.ShouldBeNil)

			convey.Convey("Then the failure is counted, not returned", func() {
				convey.So(s.Failures(), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When the queue overflows", func() {
			backing.setDelay(50 * time.Millisecond)
			var full error
			for i := 0; i < 20 && full == nil; i++ {
				full = s.Set(ctx, "k", []byte("v"))
			}

			convey.Convey("Then Set reports ErrFull", func() {
				convey.So(errors.Is(full, queue.ErrFull), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When closed", func() {
			_ = s.Set(ctx, "last", []byte("z"))
			convey.So(s.Close(), convey.ShouldBeNil)
			convey.So(s.Close(), convey.ShouldBeNil)

			convey.Convey("Then queued writes were drained and further writes fail", func() {
				convey.So(backing.writes(), convey.ShouldContain, "z")
				convey.So(errors.Is(s.Set(ctx, "k", nil), queue.ErrClosed), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When shutdown runs out of time", func() {
			backing.setDelay(100 * time.Millisecond)
			for _, v := range []string{"a", "b", "c", "d"} {
				convey.So(s.Set(ctx, "slow", []byte(v)), convey.ShouldBeNil)
			}
			shutdownCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
			defer cancel()
			err := s.Shutdown(shutdownCtx)

			convey.Convey("Then it gives up, closes the backing store and rejects writes", func() {
				convey.So(errors.Is(err, context.DeadlineExceeded), convey.ShouldBeTrue)
				_, getErr := backing.Get(ctx, "slow")
				convey.So(errors.Is(getErr, repository.ErrClosed), convey.ShouldBeTrue)
				convey.So(errors.Is(s.Set(ctx, "k", nil), queue.ErrClosed), convey.ShouldBeTrue)
				convey.So(s.Shutdown(ctx), convey.ShouldBeNil)
			})
		})

		convey.Convey("When asked for its capacity", func() {
			convey.So(s.Capacity(), convey.ShouldEqual, 8)
		})

		convey.Reset(func() { _ = s.Close() })
	})
}
