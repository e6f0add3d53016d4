package userdata

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tripdocs/tripdocs/internal/autosave"
	"github.com/tripdocs/tripdocs/internal/common"
	"github.com/tripdocs/tripdocs/internal/merge"
	"github.com/tripdocs/tripdocs/internal/models"
	"github.com/tripdocs/tripdocs/internal/tracker"
)

// SessionConfig describes one editing screen bound to one entity record.
type SessionConfig struct {
	// Namespace scopes the interaction tracker, e.g. "korea_travel_info".
	// Defaults to entityType + ":" + userID when empty.
	Namespace string

	EntityType models.EntityType
	UserID     string

	// EntityID is the row id for passport and personal-info sessions.
	EntityID string

	// Destination selects the record for travel-info sessions.
	Destination string

	// AlwaysSave fields bypass the interaction filter on every save.
	AlwaysSave []string

	// DebounceWindow and StatusDisplayWindow default to the configured
	// application values when zero.
	DebounceWindow      time.Duration
	StatusDisplayWindow time.Duration
}

// Session ties a screen's form state to the tracker, the save-eligibility
// filter, and the debounced save pipeline. Loads mark fields pre-filled,
// edits mark them user-modified and arm the autosave timer, and the eventual
// write carries only the fields the user actually touched.
type Session struct {
	svc   *Service
	cfg   SessionConfig
	sched *autosave.Scheduler

	mu   sync.Mutex
	form map[string]string
}

const (
	defaultDebounceWindow      = time.Second
	defaultStatusDisplayWindow = 2 * time.Second
)

// NewSession creates an editing session. Fund items are replaced as a set
// rather than merged field by field, so they have no session form.
func (s *Service) NewSession(cfg SessionConfig) (*Session, error) {
	switch cfg.EntityType {
	case models.EntityPassport, models.EntityPersonalInfo:
		if cfg.EntityID == "" {
			return nil, fmt.Errorf("%w: session requires an entity id", common.ErrorValidation)
		}
	case models.EntityTravelInfo:
		if cfg.Destination == "" {
			return nil, fmt.Errorf("%w: travel session requires a destination", common.ErrorValidation)
		}
	case models.EntityFundItems:
		return nil, fmt.Errorf("%w: fund items are saved as a set, not per field", common.ErrorValidation)
	default:
		return nil, fmt.Errorf("%w: %q", common.ErrorUnknownEntity, cfg.EntityType)
	}
	if cfg.UserID == "" {
		return nil, fmt.Errorf("%w: session requires a user id", common.ErrorValidation)
	}
	if cfg.Namespace == "" {
		cfg.Namespace = string(cfg.EntityType) + ":" + cfg.UserID
	}
	if cfg.DebounceWindow <= 0 {
		cfg.DebounceWindow = defaultDebounceWindow
	}
	if cfg.StatusDisplayWindow <= 0 {
		cfg.StatusDisplayWindow = defaultStatusDisplayWindow
	}

	sess := &Session{
		svc:  s,
		cfg:  cfg,
		form: make(map[string]string),
	}
	sess.sched = autosave.New(cfg.DebounceWindow, cfg.StatusDisplayWindow, sess.save, s.log)
	return sess, nil
}

// SetLoaded feeds loaded values into the form, marking each field
// pre-filled. Values never overwrite fields the user already edited this
// session.
func (sess *Session) SetLoaded(fields map[string]string) {
	tr := sess.tracker()
	sess.mu.Lock()
	defer sess.mu.Unlock()

	for field, value := range fields {
		tr.MarkPreFilled(field, value)
		if !tr.IsUserModified(field) {
			sess.form[field] = value
		}
	}
}

// Edit records a user edit and arms the debounced save.
func (sess *Session) Edit(field, value string) {
	tr := sess.tracker()
	sess.mu.Lock()
	tr.MarkUserModified(field, value)
	sess.form[field] = value
	sess.mu.Unlock()

	sess.sched.NoteEdit()
}

// Flush saves pending edits synchronously. Call it on navigation-away.
func (sess *Session) Flush(ctx context.Context) error {
	return sess.sched.Flush(ctx)
}

// Cancel drops any pending save without writing.
func (sess *Session) Cancel() {
	sess.sched.Cancel()
}

// Status returns the current autosave state for display.
func (sess *Session) Status() autosave.Status {
	return sess.sched.Status()
}

// OnStatusChange registers a display callback for save-state transitions.
func (sess *Session) OnStatusChange(fn func(autosave.Status)) {
	sess.sched.OnStatusChange(fn)
}

// Reset clears the interaction state, starting a fresh session over the
// same record. Pending saves are cancelled, not flushed.
func (sess *Session) Reset() {
	sess.sched.Cancel()
	sess.svc.trackers.Reset(sess.cfg.Namespace)

	sess.mu.Lock()
	clear(sess.form)
	sess.mu.Unlock()
}

func (sess *Session) tracker() *tracker.Tracker {
	return sess.svc.trackers.Tracker(sess.cfg.Namespace)
}

// save is the debounced write. It filters the form down to the fields the
// user actually changed; an empty result means no storage call at all.
func (sess *Session) save(ctx context.Context) error {
	sess.mu.Lock()
	form := make(map[string]string, len(sess.form))
	for k, v := range sess.form {
		form[k] = v
	}
	sess.mu.Unlock()

	fields := merge.Eligible(form, sess.tracker(), sess.cfg.AlwaysSave)
	if len(fields) == 0 {
		return nil
	}

	// partial autosaves legitimately carry incomplete records
	opts := SaveOptions{SkipValidation: true}
	switch sess.cfg.EntityType {
	case models.EntityPassport:
		_, err := sess.svc.UpdatePassport(ctx, sess.cfg.EntityID, models.PassportPatch(fields), opts)
		return err
	case models.EntityPersonalInfo:
		_, err := sess.svc.UpdatePersonalInfo(ctx, sess.cfg.EntityID, models.PersonalInfoPatch(fields), opts)
		return err
	case models.EntityTravelInfo:
		_, err := sess.svc.UpdateTravelInfo(ctx, sess.cfg.UserID, sess.cfg.Destination, models.TravelInfoPatch(fields))
		return err
	}
	return fmt.Errorf("%w: %q", common.ErrorUnknownEntity, sess.cfg.EntityType)
}
