// Package workflow contains the pure business logic of the applicant status
// workflow engine: transition validation and skip detection, transition
// commit with update-after-success semantics, history reconstruction, and
// the undo/compensation layer. It is transport-agnostic; the httpserver
// package is its only transport.
package workflow

import (
	"fmt"
	"time"

	"hireflow/workflow-service/internal/catalog"
)

// EffectiveAtNotApplicable is the sentinel sent instead of a timestamp when
// the user declared the change date inapplicable.
const EffectiveAtNotApplicable = "N/A"

// TransitionRequest carries one requested status change. Side-effect fields
// (blacklist type/reason, rejection reason) travel on the request itself,
// populated by whichever prompt collected them.
type TransitionRequest struct {
	ProgressID  string         `json:"progress_id"`
	ApplicantID string         `json:"applicant_id"`
	ToStatus    catalog.Status `json:"status"`
	FromStatus  catalog.Status `json:"previous_status"`
	ActorID     string         `json:"user_id"`
	// EffectiveAt is an RFC 3339 timestamp or EffectiveAtNotApplicable.
	EffectiveAt string `json:"change_date"`

	BlacklistType   catalog.BlacklistType   `json:"blacklisted_type,omitempty"`
	BlacklistReason catalog.BlacklistReason `json:"reason,omitempty"`
	RejectionReason catalog.RejectionReason `json:"reason_for_rejection,omitempty"`

	// EmailPreviewAcknowledged records that the caller confirmed the
	// outbound-email preview required before a TEST_SENT commit.
	EmailPreviewAcknowledged bool `json:"email_preview_acknowledged,omitempty"`

	// Compensating marks the request as an undo of a prior transition. The
	// store soft-deletes the undone history record, never removes it. Only
	// the engine's undo path sets it; it is never accepted from the wire.
	Compensating bool `json:"-"`
}

// TransitionRecord is one immutable entry of an applicant's status audit
// trail. Deleted records were undone by a compensating transition; they stay
// in the log and still participate in skip reconstruction.
type TransitionRecord struct {
	ID             string         `json:"id"`
	ProgressID     string         `json:"progress_id"`
	Status         catalog.Status `json:"status"`
	PreviousStatus catalog.Status `json:"previous_status"`
	ChangedBy      string         `json:"changed_by"`
	ChangedAt      time.Time      `json:"changed_at"`
	Deleted        bool           `json:"deleted"`
}

// ErrNotFound is returned when an applicant progress record is missing.
var ErrNotFound = fmt.Errorf("applicant progress not found")

// ErrStaleStatus is returned by the store when the recorded status no longer
// matches the request's FromStatus at commit time.
var ErrStaleStatus = fmt.Errorf("applicant status changed concurrently")

// ErrNotificationNotFound is returned when undoing or dismissing a
// notification that is no longer in the feed.
var ErrNotificationNotFound = fmt.Errorf("notification not found")

// ValidationError wraps a user-facing validation message. It always blocks
// commit before any store call.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }
