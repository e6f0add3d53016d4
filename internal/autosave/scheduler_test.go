package autosave

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripdocs/tripdocs/internal/logging"
)

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestCoalescing_BurstProducesOneSave(t *testing.T) {
	var saves atomic.Int64
	s := New(20*time.Millisecond, 50*time.Millisecond, func(ctx context.Context) error {
		saves.Add(1)
		return nil
	}, discardLogger())

	for i := 0; i < 5; i++ {
		s.NoteEdit()
		time.Sleep(5 * time.Millisecond) // within the quiescence window
	}
	assert.Equal(t, StatusPending, s.Status())

	waitFor(t, time.Second, func() bool { return saves.Load() == 1 })
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int64(1), saves.Load(), "only the last edit in a burst triggers a write")
}

func TestStatusMachine_SavedThenIdle(t *testing.T) {
	var mu sync.Mutex
	var transitions []Status

	s := New(10*time.Millisecond, 20*time.Millisecond, func(ctx context.Context) error {
		return nil
	}, discardLogger())
	s.OnStatusChange(func(st Status) {
		mu.Lock()
		transitions = append(transitions, st)
		mu.Unlock()
	})

	s.NoteEdit()
	waitFor(t, time.Second, func() bool { return s.Status() == StatusIdle })

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []Status{StatusPending, StatusSaving, StatusSaved, StatusIdle}, transitions)
}

func TestErrorPath(t *testing.T) {
	boom := errors.New("store down")
	s := New(10*time.Millisecond, 20*time.Millisecond, func(ctx context.Context) error {
		return boom
	}, discardLogger())

	s.NoteEdit()
	waitFor(t, time.Second, func() bool { return s.Status() == StatusError })
	require.ErrorIs(t, s.Err(), boom)

	// Error auto-returns to Idle after the display window
	waitFor(t, time.Second, func() bool { return s.Status() == StatusIdle })

	// the next edit re-arms normally
	s.NoteEdit()
	assert.Equal(t, StatusPending, s.Status())
}

func TestFlush_SavesSynchronously(t *testing.T) {
	var saves atomic.Int64
	s := New(time.Hour, 20*time.Millisecond, func(ctx context.Context) error {
		saves.Add(1)
		return nil
	}, discardLogger())

	s.NoteEdit()
	require.NoError(t, s.Flush(context.Background()))
	assert.Equal(t, int64(1), saves.Load(), "flush must not wait for the timer")
	assert.Equal(t, StatusSaved, s.Status())

	// the cancelled timer must not fire a second save later
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int64(1), saves.Load())
}

func TestFlush_NothingPendingIsNoop(t *testing.T) {
	var saves atomic.Int64
	s := New(10*time.Millisecond, 20*time.Millisecond, func(ctx context.Context) error {
		saves.Add(1)
		return nil
	}, discardLogger())

	require.NoError(t, s.Flush(context.Background()))
	assert.Equal(t, int64(0), saves.Load())
	assert.Equal(t, StatusIdle, s.Status())
}

func TestFlush_PropagatesError(t *testing.T) {
	boom := errors.New("store down")
	s := New(time.Hour, 20*time.Millisecond, func(ctx context.Context) error {
		return boom
	}, discardLogger())

	s.NoteEdit()
	require.ErrorIs(t, s.Flush(context.Background()), boom)
	assert.Equal(t, StatusError, s.Status())
}

func TestCancel_Idempotent(t *testing.T) {
	var saves atomic.Int64
	s := New(10*time.Millisecond, 20*time.Millisecond, func(ctx context.Context) error {
		saves.Add(1)
		return nil
	}, discardLogger())

	s.NoteEdit()
	s.Cancel()
	s.Cancel() // cancelling an already-cancelled timer is a no-op
	assert.Equal(t, StatusIdle, s.Status())

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int64(0), saves.Load(), "cancelled timer must not save")

	s.Cancel() // nothing armed at all
	assert.Equal(t, StatusIdle, s.Status())
}

func TestEditDuringSavedWindowRearms(t *testing.T) {
	var saves atomic.Int64
	s := New(10*time.Millisecond, time.Hour, func(ctx context.Context) error {
		saves.Add(1)
		return nil
	}, discardLogger())

	s.NoteEdit()
	waitFor(t, time.Second, func() bool { return s.Status() == StatusSaved })

	s.NoteEdit()
	assert.Equal(t, StatusPending, s.Status())
	waitFor(t, time.Second, func() bool { return saves.Load() == 2 })
}
