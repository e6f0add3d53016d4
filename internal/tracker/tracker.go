// Package tracker records, per screen session, which form fields were
// pre-filled by a load and which the user actually touched. The state is
// working memory for the current editing session only; it is never
// persisted and is rebuilt each time a screen mounts.
package tracker

import (
	"sync"
	"time"
)

// FieldInteraction is the interaction record for one field.
type FieldInteraction struct {
	// UserModified is true once the user has edited the field in this
	// session. It never goes back to false within the session.
	UserModified bool

	// InitialValue is the field's value at first observation. Fixed for the
	// session; later loads never change it.
	InitialValue string

	// LastValue is the most recent value observed, from a load or an edit.
	LastValue string

	// LastModified is the time of the last user edit, nil if never edited.
	LastModified *time.Time
}

// Tracker holds interaction records for one namespace (screen/session key,
// e.g. "korea_travel_info"). The same physical field name in two different
// namespaces shares no state.
type Tracker struct {
	mu        sync.Mutex
	namespace string
	fields    map[string]*FieldInteraction
	now       func() time.Time
}

func New(namespace string) *Tracker {
	return &Tracker{
		namespace: namespace,
		fields:    make(map[string]*FieldInteraction),
		now:       time.Now,
	}
}

// Namespace returns the session key this tracker is scoped to.
func (t *Tracker) Namespace() string {
	return t.namespace
}

// MarkPreFilled records that a field's value came from a load. Called once
// per field right after loading. It never downgrades a user-modified field
// and never changes a previously fixed initial value.
func (t *Tracker) MarkPreFilled(field, value string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.fields[field]
	if !ok {
		t.fields[field] = &FieldInteraction{InitialValue: value, LastValue: value}
		return
	}
	if rec.UserModified {
		return
	}
	rec.LastValue = value
}

// MarkUserModified records a user edit. A field observed for the first time
// through an edit gets an empty initial value: the session never saw its
// pre-edit state.
func (t *Tracker) MarkUserModified(field, value string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	rec, ok := t.fields[field]
	if !ok {
		t.fields[field] = &FieldInteraction{UserModified: true, LastValue: value, LastModified: &now}
		return
	}
	rec.UserModified = true
	rec.LastValue = value
	rec.LastModified = &now
}

// IsUserModified reports whether the user touched the field this session.
func (t *Tracker) IsUserModified(field string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.fields[field]
	return ok && rec.UserModified
}

// Details returns a copy of the field's interaction record.
func (t *Tracker) Details(field string) (FieldInteraction, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.fields[field]
	if !ok {
		return FieldInteraction{}, false
	}
	return *rec, true
}

// Reset drops every record, starting a fresh session.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.fields)
}

// Registry hands out one Tracker per namespace.
type Registry struct {
	mu       sync.Mutex
	trackers map[string]*Tracker
}

func NewRegistry() *Registry {
	return &Registry{trackers: make(map[string]*Tracker)}
}

// Tracker returns the namespace's tracker, creating it on first use.
func (r *Registry) Tracker(namespace string) *Tracker {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.trackers[namespace]
	if !ok {
		t = New(namespace)
		r.trackers[namespace] = t
	}
	return t
}

// Reset discards the namespace's tracker so the next screen mount starts
// from a clean session.
func (r *Registry) Reset(namespace string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.trackers, namespace)
}
