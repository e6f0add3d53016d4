// Package autosave coalesces bursts of field edits into a single persisted
// write after a quiescence window, with an explicit save-status state
// machine: Idle -> Pending -> Saving -> {Saved, Error} -> Idle.
package autosave

import (
	"context"
	"sync"
	"time"

	"github.com/tripdocs/tripdocs/internal/logging"
)

// Status is the user-visible save state of one editing session.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSaving
	StatusSaved
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusSaving:
		return "saving"
	case StatusSaved:
		return "saved"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// SaveFunc performs the debounced write. On success the implementation is
// responsible for invalidating the relevant cache keys; on failure the
// cache must be left at its last-known-good state.
type SaveFunc func(ctx context.Context) error

// Scheduler owns the quiescence timer for one editing session. Edits re-arm
// the timer; only the last edit in a burst triggers a write.
type Scheduler struct {
	mu      sync.Mutex
	delay   time.Duration
	display time.Duration
	save    SaveFunc
	log     logging.Logger

	status   Status
	lastErr  error
	onStatus func(Status)

	// gen invalidates timers armed before the latest re-arm or cancel, so
	// a stale timer firing late cannot trigger an early save.
	gen        uint64
	timer      *time.Timer
	resetTimer *time.Timer
}

// New returns an idle Scheduler. delay is the quiescence window, display is
// how long Saved/Error is shown before returning to Idle.
func New(delay, display time.Duration, save SaveFunc, log logging.Logger) *Scheduler {
	return &Scheduler{
		delay:   delay,
		display: display,
		save:    save,
		log:     log.With("component", "autosave"),
		status:  StatusIdle,
	}
}

// OnStatusChange registers a callback invoked on every transition. The
// callback runs with the scheduler lock held and must not call back in.
func (s *Scheduler) OnStatusChange(fn func(Status)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onStatus = fn
}

// Status returns the current save state.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Err returns the error from the most recent failed save, nil otherwise.
func (s *Scheduler) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// NoteEdit records that a field changed and (re-)arms the quiescence timer.
// An edit arriving while Pending cancels and restarts the timer, so a burst
// of edits produces exactly one write.
func (s *Scheduler) NoteEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopTimerLocked()
	s.gen++
	gen := s.gen
	s.setStatusLocked(StatusPending)
	s.timer = time.AfterFunc(s.delay, func() { s.fire(gen) })
}

func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.status != StatusPending {
		// re-armed, cancelled, or flushed after this timer was set
		s.mu.Unlock()
		return
	}
	s.setStatusLocked(StatusSaving)
	s.mu.Unlock()

	s.finishSave(s.save(context.Background()))
}

// Flush cancels any pending timer and performs the save synchronously.
// Called on navigation-away so pending edits are never silently lost. A
// flush with nothing pending is a no-op.
func (s *Scheduler) Flush(ctx context.Context) error {
	s.mu.Lock()
	s.stopTimerLocked()
	s.gen++
	if s.status != StatusPending {
		s.mu.Unlock()
		return nil
	}
	s.setStatusLocked(StatusSaving)
	s.mu.Unlock()

	err := s.save(ctx)
	s.finishSave(err)
	return err
}

func (s *Scheduler) finishSave(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.lastErr = err
		s.log.Error(context.Background(), "autosave failed", "error", err)
	} else {
		s.lastErr = nil
	}

	if s.status != StatusSaving {
		// a new edit re-armed the timer mid-save; its own cycle reports
		return
	}
	if err != nil {
		s.setStatusLocked(StatusError)
	} else {
		s.setStatusLocked(StatusSaved)
	}
	s.armDisplayResetLocked()
}

// Cancel stops the pending timer without saving. Cancelling an already
// fired or already cancelled timer is a no-op.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopTimerLocked()
	s.gen++
	if s.status == StatusPending {
		s.setStatusLocked(StatusIdle)
	}
}

func (s *Scheduler) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// armDisplayResetLocked schedules the Saved/Error -> Idle transition after
// the display window, unless a new edit intervenes.
func (s *Scheduler) armDisplayResetLocked() {
	if s.resetTimer != nil {
		s.resetTimer.Stop()
	}
	gen := s.gen
	s.resetTimer = time.AfterFunc(s.display, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if gen != s.gen {
			return
		}
		if s.status == StatusSaved || s.status == StatusError {
			s.setStatusLocked(StatusIdle)
		}
	})
}

func (s *Scheduler) setStatusLocked(st Status) {
	if s.status == st {
		return
	}
	s.status = st
	if s.onStatus != nil {
		s.onStatus(st)
	}
}
