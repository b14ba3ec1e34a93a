package sync

import (
	"context"
	"errors"
	gosync "sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a WriteFunc target that can hold writes until released.
type recorder struct {
	mu     gosync.Mutex
	writes []string
	gate   chan struct{}
	err    error
}

func (r *recorder) write(ctx context.Context, snap []byte) error {
	if r.gate != nil {
		select {
		case <-r.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = append(r.writes, string(snap))
	return r.err
}

func (r *recorder) got() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.writes...)
}

func setupTestWorker(t *testing.T, r *recorder, timeout time.Duration) *Worker {
	t.Helper()
	w := NewWorker(r.write, timeout, zerolog.Nop())
	t.Cleanup(func() { _ = w.Close(context.Background()) })
	return w
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestPushWrites(t *testing.T) {
	r := &recorder{}
	w := setupTestWorker(t, r, 0)

	w.Push([]byte("v1"))
	require.NoError(t, w.Flush(testContext(t)))
	assert.Equal(t, []string{"v1"}, r.got())

	w.Push([]byte("v2"))
	require.NoError(t, w.Flush(testContext(t)))
	assert.Equal(t, []string{"v1", "v2"}, r.got())
	assert.False(t, w.Status().Pending)
	assert.False(t, w.Status().LastWrite.IsZero())
}

func TestPushCoalescesWhileBusy(t *testing.T) {
	r := &recorder{gate: make(chan struct{})}
	w := setupTestWorker(t, r, 0)

	w.Push([]byte("v1"))
	// v1 is either in flight or still pending; either way the later pushes
	// collapse into a single write of v4.
	w.Push([]byte("v2"))
	w.Push([]byte("v3"))
	w.Push([]byte("v4"))
	assert.True(t, w.Status().Pending)

	close(r.gate)
	require.NoError(t, w.Flush(testContext(t)))

	got := r.got()
	require.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), 2)
	assert.Equal(t, "v4", got[len(got)-1], "the newest snapshot is written last")
}

func TestPushCopiesSnapshot(t *testing.T) {
	r := &recorder{gate: make(chan struct{})}
	w := setupTestWorker(t, r, 0)

	buf := []byte("abc")
	w.Push(buf)
	buf[0] = 'X'

	close(r.gate)
	require.NoError(t, w.Flush(testContext(t)))
	assert.Equal(t, []string{"abc"}, r.got())
}

func TestFlushReturnsWriteError(t *testing.T) {
	r := &recorder{err: errors.New("remote down")}
	w := setupTestWorker(t, r, 0)

	w.Push([]byte("v1"))
	assert.EqualError(t, w.Flush(testContext(t)), "remote down")
	assert.EqualError(t, w.Status().LastErr, "remote down")

	r.mu.Lock()
	r.err = nil
	r.mu.Unlock()

	w.Push([]byte("v2"))
	assert.NoError(t, w.Flush(testContext(t)), "a later success clears the error")
}

func TestWriteTimeout(t *testing.T) {
	r := &recorder{gate: make(chan struct{})}
	w := setupTestWorker(t, r, 20*time.Millisecond)

	w.Push([]byte("v1"))
	assert.ErrorIs(t, w.Flush(testContext(t)), context.DeadlineExceeded)
	assert.Empty(t, r.got())
}

func TestFlushHonoursContext(t *testing.T) {
	r := &recorder{gate: make(chan struct{})}
	w := setupTestWorker(t, r, 0)
	t.Cleanup(func() { close(r.gate) })

	w.Push([]byte("v1"))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, w.Flush(ctx), context.DeadlineExceeded)
}

func TestCloseDrainsPending(t *testing.T) {
	r := &recorder{}
	w := NewWorker(r.write, 0, zerolog.Nop())

	w.Push([]byte("last"))
	require.NoError(t, w.Close(testContext(t)))
	assert.Equal(t, []string{"last"}, r.got())

	w.Push([]byte("ignored"))
	assert.Equal(t, []string{"last"}, r.got())
	require.NoError(t, w.Close(testContext(t)), "close is idempotent")
}

func TestCloseCancelsHungWrite(t *testing.T) {
	r := &recorder{gate: make(chan struct{})}
	w := NewWorker(r.write, 0, zerolog.Nop())

	w.Push([]byte("stuck"))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, w.Close(ctx), context.DeadlineExceeded)
	assert.Empty(t, r.got())
}

func TestFlushWithNothingPushed(t *testing.T) {
	w := setupTestWorker(t, &recorder{}, 0)
	assert.NoError(t, w.Flush(testContext(t)))
}
