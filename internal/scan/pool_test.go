package scan_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/racegate/internal/domain/model"
	"github.com/okian/racegate/internal/scan"
)

func descriptors(ids ...string) []model.EventDescriptor {
	out := make([]model.EventDescriptor, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.EventDescriptor{ID: id, Name: id, URL: "https://example.test/" + id})
	}
	return out
}

func TestPoolRun(t *testing.T) {
	Convey("Given a pool over a recording capture function", t, func() {
		var mu sync.Mutex
		seen := make(map[string]int)
		capture := func(ctx context.Context, ev model.EventDescriptor) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			seen[ev.ID]++
			if ev.ID == "bad" {
				return errors.New("boom")
			}
			return nil
		}
		pool := scan.New(capture, scan.WithWorkerCount(4), scan.WithQueueSize(2))

		Convey("When running a batch with a failing event", func() {
			captured := pool.Run(context.Background(), descriptors("a", "b", "bad", "c"))

			Convey("Then the failure is isolated to its event", func() {
				So(captured, ShouldEqual, 3)
				So(seen, ShouldHaveLength, 4)
				So(seen["bad"], ShouldEqual, 1)
			})
		})

		Convey("When the batch repeats an event id", func() {
			captured := pool.Run(context.Background(), append(descriptors("a", "b"), descriptors("a")...))

			Convey("Then the duplicate is dropped, not captured twice", func() {
				So(captured, ShouldEqual, 2)
				So(seen["a"], ShouldEqual, 1)
			})
		})

		Convey("When the batch is empty", func() {
			So(pool.Run(context.Background(), nil), ShouldEqual, 0)
		})

		Convey("When the context is already canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			Convey("Then the run returns with nothing captured", func() {
				captured := pool.Run(ctx, descriptors("a", "b", "c", "d", "e", "f", "g", "h"))
				So(captured, ShouldEqual, 0)
			})
		})
	})
}
