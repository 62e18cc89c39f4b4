package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	dedupe "github.com/okian/mindarcade/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new InMemoryDeduper", t, func() {
		d := dedupe.NewInMemoryDeduper()

		Convey("When a session is new", func() {
			seen := d.SeenAndRecord(ctx, "session-1")

			Convey("Then it is recorded", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When a session is recorded twice", func() {
			d.SeenAndRecord(ctx, "session-1")
			seen := d.SeenAndRecord(ctx, "session-1")

			Convey("Then the second call reports it as seen", func() {
				So(seen, ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When the session id is empty", func() {
			So(d.SeenAndRecord(ctx, ""), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, ""), ShouldBeFalse)
			So(d.Size(), ShouldEqual, 0)
		})

		Convey("When reset", func() {
			d.SeenAndRecord(ctx, "a")
			d.SeenAndRecord(ctx, "b")
			d.Reset(ctx)

			Convey("Then every id is forgotten", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(ctx, "a"), ShouldBeFalse)
			})
		})
	})

	Convey("Given a bounded deduper at capacity", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
		for _, id := range []string{"s1", "s2", "s3"} {
			So(d.SeenAndRecord(ctx, id), ShouldBeFalse)
		}

		Convey("When one more session arrives", func() {
			So(d.SeenAndRecord(ctx, "s4"), ShouldBeFalse)

			Convey("Then the oldest is evicted and the rest are kept", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "s2"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "s3"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "s4"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "s1"), ShouldBeFalse)
				So(d.Size(), ShouldEqual, 3)
			})
		})
	})

	Convey("Given an unbounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))

		Convey("Then nothing is evicted", func() {
			for i := 0; i < 1000; i++ {
				So(d.SeenAndRecord(ctx, fmt.Sprintf("s-%d", i)), ShouldBeFalse)
			}
			So(d.Size(), ShouldEqual, 1000)
			So(d.SeenAndRecord(ctx, "s-0"), ShouldBeTrue)
		})
	})
}

func TestDedupeConcurrency(t *testing.T) {
	Convey("Given a deduper shared by goroutines", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(5000))
		const workers = 10
		const perWorker = 100

		Convey("When every goroutine records the same ids", func() {
			var wg sync.WaitGroup
			var mu sync.Mutex
			firsts := 0
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for j := 0; j < perWorker; j++ {
						if !d.SeenAndRecord(context.Background(), fmt.Sprintf("s-%d", j)) {
							mu.Lock()
							firsts++
							mu.Unlock()
						}
					}
				}()
			}
			wg.Wait()

			Convey("Then each id is recorded exactly once", func() {
				So(firsts, ShouldEqual, perWorker)
				So(d.Size(), ShouldEqual, perWorker)
			})
		})
	})
}
