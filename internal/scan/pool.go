// Package scan runs the per-event capture pipeline across a worker pool.
//
// A scan run is a fixed batch: every tracked event becomes one job, each
// event id is handed to exactly one worker, and workers never share
// per-event state. Failures are isolated per event id.
package scan

import (
	"context"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/okian/racegate/internal/domain/model"
	"github.com/okian/racegate/pkg/logger"
	"github.com/okian/racegate/pkg/metrics"
)

// Capture runs the per-event pipeline (fetch, normalize, record) for one
// descriptor. Implementations must be safe for concurrent use across
// distinct event ids.
type Capture func(ctx context.Context, ev model.EventDescriptor) error

// Pool fans a batch of event descriptors out to capture workers.
type Pool struct {
	capture   Capture
	workers   int
	queueSize int
	logger    logger.Logger
}

// New creates a Pool with configuration options.
func New(capture Capture, opts ...Option) *Pool {
	p := &Pool{
		capture:   capture,
		workers:   runtime.NumCPU() * 2,
		queueSize: 256,
		logger:    logger.Get().Named("scan"),
	}
	for _, opt := range opts {
		opt(p)
	}

	metrics.UpdateWorkerCount(p.workers)
	return p
}

// Run captures every event in the batch and returns how many succeeded.
// Duplicate ids in the batch are dropped so no event id is ever handled
// by two workers in the same run. Run blocks until all workers drain the
// queue or ctx is canceled.
func (p *Pool) Run(ctx context.Context, events []model.EventDescriptor) int {
	jobs := make(chan model.EventDescriptor, p.queueSize)
	var captured atomic.Int64

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			log := p.logger.Named(name)
			for {
				select {
				case <-ctx.Done():
					return
				case ev, ok := <-jobs:
					if !ok {
						return
					}
					if err := p.capture(ctx, ev); err != nil {
						metrics.RecordFetchError()
						log.Error(ctx, "capture failed",
							logger.String("eventID", ev.ID),
							logger.Error(err),
						)
						continue
					}
					captured.Add(1)
				}
			}
		}("worker-" + strconv.Itoa(i))
	}

	seen := make(map[string]struct{}, len(events))
enqueue:
	for _, ev := range events {
		if _, dup := seen[ev.ID]; dup {
			p.logger.Warn(ctx, "duplicate event id in batch, dropped",
				logger.String("eventID", ev.ID),
			)
			continue
		}
		seen[ev.ID] = struct{}{}

		select {
		case jobs <- ev:
			metrics.UpdateQueueSize(len(jobs))
		case <-ctx.Done():
			break enqueue
		}
	}
	close(jobs)

	wg.Wait()
	metrics.UpdateQueueSize(0)
	return int(captured.Load())
}
