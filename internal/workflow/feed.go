package workflow

import (
	"sync"
	"time"

	"hireflow/workflow-service/internal/catalog"
)

// UndoableNotification represents one committed transition as an undoable
// unit. Notifications live only in the active session's feed; they are not
// durable and their removal never touches the audit trail.
type UndoableNotification struct {
	ID          string `json:"id"`
	ProgressID  string `json:"progress_id"`
	ApplicantID string `json:"applicant_id"`

	Status                catalog.Status `json:"status"`
	PreviousStatus        catalog.Status `json:"previous_status"`
	PreviousBackendStatus catalog.Status `json:"previous_backend_status"`

	CreatedAt time.Time `json:"created_at"`
}

// Feed is a bounded, insertion-ordered collection of undoable notifications.
// When the bound is exceeded the oldest entry is dropped. Safe for
// concurrent use.
type Feed struct {
	mu    sync.Mutex
	max   int
	items []UndoableNotification
}

// NewFeed returns a Feed holding at most max notifications. max <= 0 means
// unbounded.
func NewFeed(max int) *Feed {
	return &Feed{max: max}
}

// Add appends n, evicting the oldest entry when the feed is full.
func (f *Feed) Add(n UndoableNotification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, n)
	if f.max > 0 && len(f.items) > f.max {
		// Copy into a fresh slice so evicted entries become collectable
		// instead of lingering in the old backing array.
		trimmed := make([]UndoableNotification, f.max)
		copy(trimmed, f.items[len(f.items)-f.max:])
		f.items = trimmed
	}
}

// Get returns the notification with the given id.
func (f *Feed) Get(id string) (UndoableNotification, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.items {
		if n.ID == id {
			return n, true
		}
	}
	return UndoableNotification{}, false
}

// Remove deletes the notification with the given id, reporting whether it
// was present.
func (f *Feed) Remove(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, n := range f.items {
		if n.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return true
		}
	}
	return false
}

// List returns the notifications in insertion order (a copy).
func (f *Feed) List() []UndoableNotification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]UndoableNotification(nil), f.items...)
}

// Len returns the number of notifications in the feed.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

// ExpireBefore drops every notification created before cutoff and returns
// how many were dropped. Used by the optional TTL sweep; with the sweep
// disabled, notifications stay until dismissed or undone.
func (f *Feed) ExpireBefore(cutoff time.Time) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.items[:0]
	dropped := 0
	for _, n := range f.items {
		if n.CreatedAt.Before(cutoff) {
			dropped++
			continue
		}
		kept = append(kept, n)
	}
	f.items = kept
	return dropped
}
