// Package sync pushes task-list snapshots to remote storage off the caller's
// goroutine.
//
// A Worker holds at most one pending snapshot. Pushing while a write is in
// flight replaces the pending snapshot, so intermediate states may be
// skipped but the remote never moves backwards: writes happen one at a time
// in push order and the last snapshot pushed is always the last one written.
package sync

import (
	"context"
	gosync "sync"
	"time"

	"github.com/rs/zerolog"
)

// WriteFunc stores one snapshot remotely.
type WriteFunc func(ctx context.Context, snapshot []byte) error

// Status describes the worker's progress.
type Status struct {
	Pending   bool      // a pushed snapshot has not been written yet
	LastErr   error     // result of the most recent write
	LastWrite time.Time // when the most recent write finished
}

// Worker writes snapshots with a single background goroutine.
type Worker struct {
	write   WriteFunc
	timeout time.Duration
	logger  zerolog.Logger

	mu       gosync.Mutex
	pending  []byte
	pushed   uint64 // version of the newest pushed snapshot
	written  uint64 // version of the newest snapshot written (or failed)
	lastErr  error
	lastDone time.Time
	changed  chan struct{} // closed and replaced after every write
	closed   bool

	wake    chan struct{}
	stop    chan struct{}
	stopped chan struct{}
	cancel  context.CancelFunc
}

// NewWorker starts a worker that calls write for each snapshot, giving each
// call at most timeout (no limit when timeout is zero).
func NewWorker(write WriteFunc, timeout time.Duration, logger zerolog.Logger) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Worker{
		write:   write,
		timeout: timeout,
		logger:  logger,
		changed: make(chan struct{}),
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
		cancel:  cancel,
	}
	go w.run(ctx)
	return w
}

// Push queues snapshot for writing, replacing any snapshot not yet started.
// It never blocks on I/O. The worker keeps its own copy.
func (w *Worker) Push(snapshot []byte) {
	snap := make([]byte, len(snapshot))
	copy(snap, snapshot)

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.logger.Warn().Msg("sync: push after close dropped")
		return
	}
	if w.pending != nil {
		w.logger.Debug().Uint64("version", w.pushed).Msg("sync: pending snapshot superseded")
	}
	w.pending = snap
	w.pushed++
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Flush waits until every snapshot pushed before the call has been written
// or superseded, and returns the error of the most recent write.
func (w *Worker) Flush(ctx context.Context) error {
	w.mu.Lock()
	target := w.pushed
	w.mu.Unlock()

	for {
		w.mu.Lock()
		if w.written >= target {
			err := w.lastErr
			w.mu.Unlock()
			return err
		}
		ch := w.changed
		w.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close writes any pending snapshot and stops the worker. If ctx expires
// first the in-flight write is cancelled.
func (w *Worker) Close(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.stop)
	}
	w.mu.Unlock()

	select {
	case <-w.stopped:
		return nil
	case <-ctx.Done():
		w.cancel()
		<-w.stopped
		return ctx.Err()
	}
}

// Status reports the worker's current state.
func (w *Worker) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Status{
		Pending:   w.written < w.pushed,
		LastErr:   w.lastErr,
		LastWrite: w.lastDone,
	}
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.stopped)
	defer w.cancel()

	for {
		select {
		case <-w.wake:
			w.drain(ctx)
		case <-w.stop:
			w.drain(ctx)
			return
		}
	}
}

// drain writes pending snapshots until none is left.
func (w *Worker) drain(ctx context.Context) {
	for {
		w.mu.Lock()
		snap, version := w.pending, w.pushed
		w.pending = nil
		w.mu.Unlock()

		if snap == nil {
			return
		}

		err := w.writeOne(ctx, snap)
		if err != nil {
			w.logger.Warn().Err(err).Uint64("version", version).Msg("sync: remote write failed")
		} else {
			w.logger.Debug().Uint64("version", version).Int("bytes", len(snap)).Msg("sync: remote write done")
		}

		w.mu.Lock()
		w.written = version
		w.lastErr = err
		w.lastDone = time.Now()
		close(w.changed)
		w.changed = make(chan struct{})
		w.mu.Unlock()
	}
}

func (w *Worker) writeOne(ctx context.Context, snap []byte) error {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}
	return w.write(ctx, snap)
}
