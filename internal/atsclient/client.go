// Package atsclient implements workflow.StatusStore against a remote ATS
// HTTP API. Used instead of the Postgres store when the applicant records
// live in an external system.
package atsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"hireflow/workflow-service/internal/catalog"
	"hireflow/workflow-service/internal/workflow"
)

const httpTimeout = 15 * time.Second

// Client talks to the ATS status endpoints:
//
//	PUT {base}/applicant/update/status
//	GET {base}/applicant/status-history/{progress_id}
type Client struct {
	baseURL string
	client  *http.Client
}

// New constructs a Client with a shared HTTP client.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: httpTimeout},
	}
}

// updatePayload mirrors the ATS update-status request body.
type updatePayload struct {
	ProgressID         string `json:"progress_id"`
	ApplicantID        string `json:"applicant_id,omitempty"`
	Status             string `json:"status"`
	UserID             string `json:"user_id"`
	ChangeDate         string `json:"change_date,omitempty"`
	PreviousStatus     string `json:"previous_status,omitempty"`
	BlacklistedType    string `json:"blacklisted_type,omitempty"`
	Reason             string `json:"reason,omitempty"`
	ReasonForRejection string `json:"reason_for_rejection,omitempty"`
}

// historyEntry mirrors one record of the ATS status-history response.
type historyEntry struct {
	ID             string    `json:"id"`
	ProgressID     string    `json:"progress_id"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status"`
	ChangedBy      string    `json:"changed_by"`
	ChangedAt      time.Time `json:"changed_at"`
	Deleted        bool      `json:"deleted"`
}

// UpdateStatus sends the transition to the ATS. The remote API acknowledges
// without a body, so the returned record is synthesized from the request
// with a locally assigned id; History remains the authoritative view.
func (c *Client) UpdateStatus(ctx context.Context, req workflow.TransitionRequest) (*workflow.TransitionRecord, error) {
	payload := updatePayload{
		ProgressID:         req.ProgressID,
		ApplicantID:        req.ApplicantID,
		Status:             string(req.ToStatus),
		UserID:             req.ActorID,
		ChangeDate:         req.EffectiveAt,
		PreviousStatus:     string(req.FromStatus),
		BlacklistedType:    string(req.BlacklistType),
		Reason:             string(req.BlacklistReason),
		ReasonForRejection: string(req.RejectionReason),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal update payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut,
		c.baseURL+"/applicant/update/status", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build update request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("update status request: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
	case http.StatusNotFound:
		return nil, workflow.ErrNotFound
	case http.StatusConflict:
		return nil, workflow.ErrStaleStatus
	default:
		return nil, fmt.Errorf("update status: ATS returned %s", resp.Status)
	}

	return &workflow.TransitionRecord{
		ID:             uuid.NewString(),
		ProgressID:     req.ProgressID,
		Status:         req.ToStatus,
		PreviousStatus: req.FromStatus,
		ChangedBy:      req.ActorID,
		ChangedAt:      time.Now().UTC(),
	}, nil
}

// History fetches the applicant's transition records, newest-first as the
// ATS serves them.
func (c *Client) History(ctx context.Context, progressID string) ([]workflow.TransitionRecord, error) {
	u := c.baseURL + "/applicant/status-history/" + url.PathEscape(progressID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build history request: %w", err)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("history request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, workflow.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("history: ATS returned %s", resp.Status)
	}

	var entries []historyEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode history response: %w", err)
	}

	records := make([]workflow.TransitionRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, workflow.TransitionRecord{
			ID:             e.ID,
			ProgressID:     e.ProgressID,
			Status:         catalog.Status(e.Status),
			PreviousStatus: catalog.Status(e.PreviousStatus),
			ChangedBy:      e.ChangedBy,
			ChangedAt:      e.ChangedAt,
			Deleted:        e.Deleted,
		})
	}
	return records, nil
}
