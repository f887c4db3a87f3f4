package tracker

import (
	"context"
	"sync"

	"github.com/nerrad567/trackcast/internal/snapshot"
)

// sinkQueueSize is the number of snapshots a sink may fall behind before
// new ones are dropped for it.
const sinkQueueSize = 8

type delivery struct {
	snap    snapshot.Snapshot
	payload []byte
}

// sinkWorker feeds one sink from its own goroutine.
type sinkWorker struct {
	sink  Sink
	queue chan delivery

	// Only touched by the loop goroutine.
	dropping bool
	dropped  uint64
}

// startSinks launches one worker per sink. The returned function closes the
// queues and waits for every queued snapshot to be handed over.
func (l *Loop) startSinks(ctx context.Context) func() {
	var wg sync.WaitGroup
	l.workers = make([]*sinkWorker, 0, len(l.sinks))

	for _, s := range l.sinks {
		w := &sinkWorker{sink: s, queue: make(chan delivery, sinkQueueSize)}
		l.workers = append(l.workers, w)

		wg.Add(1)
		go func() {
			defer wg.Done()
			l.drain(ctx, w)
		}()
	}

	return func() {
		for _, w := range l.workers {
			close(w.queue)
		}
		wg.Wait()
		l.workers = nil
	}
}

// drain publishes queued snapshots. Only the first failure after a success
// and the first success after a failure are logged above Debug.
func (l *Loop) drain(ctx context.Context, w *sinkWorker) {
	failing := false
	for d := range w.queue {
		err := w.sink.Publish(ctx, d.snap, d.payload)
		switch {
		case err != nil:
			l.sinkFailures.Add(1)
			if !failing {
				l.logger.Warn("sink publish failed", "sink", w.sink.Name(), "error", err)
			} else {
				l.logger.Debug("sink publish failed", "sink", w.sink.Name(), "error", err)
			}
			failing = true
		case failing:
			l.logger.Info("sink recovered", "sink", w.sink.Name())
			failing = false
		}
	}
}

// dispatch queues a broadcast snapshot for every sink without blocking.
func (l *Loop) dispatch(d delivery) {
	for _, w := range l.workers {
		select {
		case w.queue <- d:
			if w.dropping {
				l.logger.Info("sink caught up", "sink", w.sink.Name(), "dropped", w.dropped)
				w.dropping = false
				w.dropped = 0
			}
		default:
			l.sinkDrops.Add(1)
			w.dropped++
			if !w.dropping {
				l.logger.Warn("sink falling behind, dropping snapshots", "sink", w.sink.Name())
				w.dropping = true
			}
		}
	}
}
