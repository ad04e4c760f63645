// Package export re-times an irregular stream of rendered frames into a
// steady sequence of encoder writes, without blocking the producer.
//
// The producer calls Export for every frame it renders, at whatever rate it
// likes. The pacing logic decides synchronously whether the frame is dropped,
// forwarded, or used to repeat the previous frame across a timing gap, and
// hands the resulting tasks to a single background worker that performs the
// actual encoder writes in strict submission order.
package export

import (
	"fmt"
	"image"
	"sync/atomic"
	"time"

	"github.com/gifcast/gifcast/internal/clock"
	"github.com/gifcast/gifcast/internal/encoder"
	"github.com/gifcast/gifcast/internal/logger"
)

// NoWait makes Terminate skip the drain wait entirely and force-stop the
// worker straight away.
const NoWait time.Duration = -1

// Exporter composes the pacer, the task queue, the worker, and the counters
// around a target encoder.
//
// Contract: Export and Terminate must be called from a single producer
// goroutine. Counter accessors and Err are safe from any goroutine at any
// time.
type Exporter struct {
	enc   encoder.Encoder
	pacer *pacer
	queue *taskQueue
	stats counters

	done       chan struct{} // closed when the worker exits
	terminated atomic.Bool
	flushed    bool

	workerErr atomic.Value // error
}

// NewFixedRate creates an exporter targeting a constant output frame period.
// Frames arriving faster than the period are dropped; gaps are covered by
// repeating the last known frame.
func NewFixedRate(enc encoder.Encoder, period time.Duration) *Exporter {
	return newExporter(enc, FixedRate, float64(period)/float64(time.Millisecond))
}

// NewVariableRate creates an exporter that forwards every frame with its
// measured display duration instead of targeting a fixed period.
func NewVariableRate(enc encoder.Encoder) *Exporter {
	return newExporter(enc, VariableRate, 0)
}

func newExporter(enc encoder.Encoder, mode Mode, periodMillis float64) *Exporter {
	e := &Exporter{
		enc:   enc,
		pacer: newPacer(mode, periodMillis, clock.New()),
		queue: newTaskQueue(),
		done:  make(chan struct{}),
	}
	go e.run()
	return e
}

// SetClock replaces the pacing clock. Intended for tests that script elapsed
// values; must be called before the first Export.
func (e *Exporter) SetClock(c clock.Clock) {
	e.pacer.clk = c
}

// Export schedules zero or more encoder writes for a newly rendered frame.
//
// It never blocks beyond in-memory enqueue operations and never calls the
// encoder itself. Calls after Terminate are rejected silently.
func (e *Exporter) Export(frame image.Image) {
	if e.terminated.Load() {
		logger.WithComponent("exporter").Warn().Msg("Export called after Terminate, frame dropped")
		return
	}

	tasks, skipped := e.pacer.decide(frame)
	if skipped {
		e.stats.addSkipped()
		return
	}
	for _, t := range tasks {
		e.submit(t)
	}
}

// Terminate flushes the last-seen frame, lets the worker drain the queue for
// at most timeout, then forcibly stops it. Returns true iff no queued task
// was left unexecuted. Pass NoWait to skip the drain wait.
//
// The encoder is closed regardless of the outcome: a partial output is still
// preferable to none. Terminate is terminal; repeat calls return the first
// outcome.
func (e *Exporter) Terminate(timeout time.Duration) bool {
	if !e.terminated.CompareAndSwap(false, true) {
		return e.flushed
	}

	log := logger.WithComponent("exporter")

	// Flush the last-seen frame so it always reaches the output, even if it
	// never crossed a period boundary.
	if t, ok := e.pacer.finalTask(); ok {
		e.submit(t)
	} else {
		log.Warn().Msg("Terminating without any exported frame")
	}

	e.queue.close()

	// Bounded natural drain. The worker closes done when the queue is empty,
	// when it is force-stopped, or when a write fails.
	if timeout >= 0 {
		select {
		case <-e.done:
		case <-time.After(timeout):
			log.Warn().
				Dur("timeout", timeout).
				Int("queued", e.queue.length()).
				Msg("Drain timeout elapsed, forcing worker stop")
		}
	}

	remaining := e.queue.forceStop()

	// The force stop does not abort an in-flight write; wait for the worker
	// to finish it before touching the encoder.
	<-e.done

	e.flushed = remaining == 0
	if !e.flushed {
		log.Warn().
			Int("remaining", remaining).
			Msg("Tasks left unexecuted; grow the timeout or the frame period")
	}

	if err := e.enc.Close(); err != nil {
		log.Error().Err(err).Msg("Encoder close failed")
	}

	stats := e.stats.snapshot()
	log.Info().
		Uint64("submitted", stats.Submitted).
		Uint64("skipped", stats.Skipped).
		Uint64("saved", stats.Saved).
		Bool("complete", e.flushed).
		Msg("Export terminated")
	return e.flushed
}

// Err returns the failure that stopped the worker, if any.
func (e *Exporter) Err() error {
	if err, ok := e.workerErr.Load().(error); ok {
		return err
	}
	return nil
}

// Stats returns a snapshot of all counters.
func (e *Exporter) Stats() Stats { return e.stats.snapshot() }

// Submitted returns the number of tasks handed to the queue.
func (e *Exporter) Submitted() uint64 { return e.stats.snapshot().Submitted }

// Skipped returns the number of frames dropped for arriving too early.
func (e *Exporter) Skipped() uint64 { return e.stats.snapshot().Skipped }

// Pending returns the number of tasks the worker has started.
func (e *Exporter) Pending() uint64 { return e.stats.snapshot().Pending }

// Saved returns the number of frames successfully written.
func (e *Exporter) Saved() uint64 { return e.stats.snapshot().Saved }

// submit counts the task as submitted the moment it is handed to the queue,
// on the producer goroutine.
func (e *Exporter) submit(t Task) {
	if e.queue.push(t) {
		e.stats.addSubmitted()
	}
}

// run is the worker goroutine: it drains the queue in strict submission
// order, performing every encoder write serially so the encoder never sees
// concurrent writers.
func (e *Exporter) run() {
	defer close(e.done)
	log := logger.WithComponent("export-worker")

	for {
		t, ok := e.queue.pop()
		if !ok {
			return
		}
		e.stats.addPending()

		if err := e.enc.WriteFrame(t.frame, t.timing, t.final); err != nil {
			// Fatal to the worker: no retry, leftover tasks surface in
			// Terminate's remaining count.
			e.workerErr.Store(fmt.Errorf("write frame: %w", err))
			log.Error().Err(err).Msg("Frame write failed, worker stopping")
			return
		}
		e.stats.addSaved()
	}
}
