package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"hireflow/workflow-service/internal/catalog"
)

// Redis pub/sub channels consumed by the Gateway / UI layer.
const (
	EventStatusChanged  = "EVENT_STATUS_CHANGED"
	EventStatusReverted = "EVENT_STATUS_REVERTED"
)

// StatusStore is the external collaborator owning applicant status state.
// Optimistic concurrency (a stale FromStatus) is its responsibility, not the
// engine's.
type StatusStore interface {
	// UpdateStatus persists one transition and returns the resulting record.
	UpdateStatus(ctx context.Context, req TransitionRequest) (*TransitionRecord, error)
	// History returns the applicant's transition records, newest-first.
	History(ctx context.Context, progressID string) ([]TransitionRecord, error)
}

// Service encapsulates the workflow engine. It holds a read-only projection
// of each applicant's last confirmed status; the store stays the source of
// truth.
type Service struct {
	store StatusStore
	cat   *catalog.Catalog
	feed  *Feed
	rdb   *redis.Client // nil disables event publishing

	mu      sync.Mutex
	current map[string]catalog.Status
}

// NewService returns a configured Service. rdb may be nil, in which case no
// events are published.
func NewService(store StatusStore, cat *catalog.Catalog, feed *Feed, rdb *redis.Client) *Service {
	return &Service{
		store:   store,
		cat:     cat,
		feed:    feed,
		rdb:     rdb,
		current: make(map[string]catalog.Status),
	}
}

// Catalog exposes the stage catalog the engine was built with.
func (s *Service) Catalog() *catalog.Catalog { return s.cat }

// Validate computes the transition verdict for current → requested.
func (s *Service) Validate(current, requested catalog.Status) Validation {
	return Validate(s.cat, current, requested)
}

// Commit validates and persists one transition.
//
// The cached projection is updated only after the store confirms the change;
// on failure nothing was flipped, so the caller keeps seeing FromStatus and
// gets the error to display. Failed commits are never retried here — a fresh
// user-initiated request is required.
func (s *Service) Commit(ctx context.Context, req TransitionRequest) (*TransitionRecord, error) {
	if req.ProgressID == "" {
		return nil, &ValidationError{Msg: "progress_id is required"}
	}
	v := Validate(s.cat, req.FromStatus, req.ToStatus)
	if err := CheckSideEffects(s.cat, req); err != nil {
		return nil, err
	}
	switch req.EffectiveAt {
	case "":
		req.EffectiveAt = time.Now().UTC().Format(time.RFC3339)
	case EffectiveAtNotApplicable:
	default:
		if _, err := time.Parse(time.RFC3339, req.EffectiveAt); err != nil {
			return nil, &ValidationError{Msg: "change_date must be RFC 3339 or " + EffectiveAtNotApplicable}
		}
	}

	rec, err := s.store.UpdateStatus(ctx, req)
	if err != nil {
		slog.Warn("status update failed",
			"progressId", req.ProgressID, "to", req.ToStatus, "err", err)
		return nil, fmt.Errorf("update status: %w", err)
	}

	s.setCurrent(req.ProgressID, req.ToStatus)

	n := s.RecordTransition(req.ApplicantID, req.ProgressID, req.ToStatus, req.FromStatus, req.FromStatus)
	s.publish(ctx, EventStatusChanged, map[string]string{
		"type":           EventStatusChanged,
		"progressId":     req.ProgressID,
		"applicantId":    req.ApplicantID,
		"userId":         req.ActorID,
		"from":           string(req.FromStatus),
		"to":             string(req.ToStatus),
		"notificationId": n.ID,
		"skipped":        fmt.Sprintf("%d", len(v.Skipped)),
	})

	return rec, nil
}

// RecordTransition appends an undoable unit for a committed transition to
// the feed and returns it. previousStatus is the display value shown in the
// notification; previousBackend is the raw status the compensating
// transition will restore.
func (s *Service) RecordTransition(applicantID, progressID string, to, previousStatus, previousBackend catalog.Status) UndoableNotification {
	n := UndoableNotification{
		ID:                    uuid.NewString(),
		ProgressID:            progressID,
		ApplicantID:           applicantID,
		Status:                to,
		PreviousStatus:        previousStatus,
		PreviousBackendStatus: previousBackend,
		CreatedAt:             time.Now().UTC(),
	}
	s.feed.Add(n)
	return n
}

// Undo issues the compensating transition for a feed notification, moving
// the applicant back to the status it held before the original commit.
//
// Side-effect fields (blacklist type/reason, rejection reason) are not
// restored by the compensating request. On failure the notification stays in
// the feed so undo can be retried by the user.
func (s *Service) Undo(ctx context.Context, actorID, notificationID string) error {
	n, ok := s.feed.Get(notificationID)
	if !ok {
		return ErrNotificationNotFound
	}

	req := TransitionRequest{
		ProgressID:   n.ProgressID,
		ApplicantID:  n.ApplicantID,
		ToStatus:     n.PreviousBackendStatus,
		FromStatus:   n.Status,
		ActorID:      actorID,
		EffectiveAt:  EffectiveAtNotApplicable,
		Compensating: true,
	}
	if _, err := s.store.UpdateStatus(ctx, req); err != nil {
		slog.Warn("undo failed",
			"progressId", n.ProgressID, "notificationId", n.ID, "err", err)
		return fmt.Errorf("revert status: %w", err)
	}

	s.setCurrent(n.ProgressID, n.PreviousBackendStatus)
	s.feed.Remove(n.ID)
	s.publish(ctx, EventStatusReverted, map[string]string{
		"type":        EventStatusReverted,
		"progressId":  n.ProgressID,
		"applicantId": n.ApplicantID,
		"userId":      actorID,
		"from":        string(n.Status),
		"to":          string(n.PreviousBackendStatus),
	})
	return nil
}

// History fetches the applicant's audit trail and reconstructs the skip map.
// Records come back oldest-first; the skip map is sparse, keyed by record
// index, holding only non-empty skip slices.
func (s *Service) History(ctx context.Context, progressID string) ([]TransitionRecord, map[int][]catalog.Status, error) {
	newestFirst, err := s.store.History(ctx, progressID)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch history: %w", err)
	}
	oldestFirst := ReverseRecords(newestFirst)
	return oldestFirst, ReconstructSkips(s.cat, oldestFirst), nil
}

// Dismiss removes a notification from the feed without undoing anything.
func (s *Service) Dismiss(notificationID string) error {
	if !s.feed.Remove(notificationID) {
		return ErrNotificationNotFound
	}
	return nil
}

// Notifications returns the current feed contents in insertion order.
func (s *Service) Notifications() []UndoableNotification {
	return s.feed.List()
}

// CurrentStatus returns the last confirmed status in the local projection.
// Absent until the first successful commit for that applicant this session.
func (s *Service) CurrentStatus(progressID string) (catalog.Status, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.current[progressID]
	return st, ok
}

func (s *Service) setCurrent(progressID string, st catalog.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current[progressID] = st
}

// publish sends an event to Redis for the SSE gateway. Publish failures are
// non-fatal: the transition already committed.
func (s *Service) publish(ctx context.Context, channel string, payload map[string]string) {
	if s.rdb == nil {
		return
	}
	event, _ := json.Marshal(payload)
	if err := s.rdb.Publish(ctx, channel, event).Err(); err != nil {
		slog.Warn("publish failed", "channel", channel, "err", err)
	}
}
