// Package httpserver implements the HTTP handlers for the workflow service.
//
// All mutating routes expect an x-user-id header forwarded by the Gateway.
//
// Routes:
//
//	GET    /catalog                              → stage catalog + reason enumerations
//	GET    /applicants/{progress_id}/history     → audit trail + skip map
//	POST   /applicants/{progress_id}/validate    → transition verdict (no commit)
//	PUT    /applicants/{progress_id}/status      → commit a transition
//	GET    /notifications                        → undoable notification feed
//	POST   /notifications/{id}/undo              → compensating transition
//	DELETE /notifications/{id}                   → dismiss without undo
package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"hireflow/workflow-service/internal/catalog"
	"hireflow/workflow-service/internal/workflow"
)

// Handler holds shared dependencies.
type Handler struct {
	svc *workflow.Service
}

// NewHandler returns a configured Handler.
func NewHandler(svc *workflow.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts all workflow-service routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/catalog", h.handleCatalog)
	mux.HandleFunc("/applicants/", h.handleApplicantAction)
	mux.HandleFunc("/notifications", h.handleNotifications)
	mux.HandleFunc("/notifications/", h.handleNotificationAction)
}

// ─── Route dispatch ───────────────────────────────────────────────────────────

// handleApplicantAction handles /applicants/{progress_id}/{history|validate|status}
func (h *Handler) handleApplicantAction(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 {
		jsonError(w, "invalid path", http.StatusNotFound)
		return
	}
	progressID := parts[1]

	switch parts[2] {
	case "history":
		if r.Method != http.MethodGet {
			jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.history(w, r, progressID)
	case "validate":
		if r.Method != http.MethodPost {
			jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.validate(w, r)
	case "status":
		if r.Method != http.MethodPut {
			jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.updateStatus(w, r, progressID)
	default:
		jsonError(w, fmt.Sprintf("unknown action %q", parts[2]), http.StatusNotFound)
	}
}

// handleNotificationAction handles /notifications/{id}[/undo]
func (h *Handler) handleNotificationAction(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case len(parts) == 2 && r.Method == http.MethodDelete:
		h.dismiss(w, parts[1])
	case len(parts) == 3 && parts[2] == "undo" && r.Method == http.MethodPost:
		h.undo(w, r, parts[1])
	default:
		jsonError(w, "invalid path", http.StatusNotFound)
	}
}

// ─── Individual handlers ──────────────────────────────────────────────────────

func (h *Handler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	cat := h.svc.Catalog()
	jsonOK(w, map[string]any{
		"statuses":          cat.Statuses(),
		"stages":            cat.Stages(),
		"blacklist_types":   []catalog.BlacklistType{catalog.BlacklistSoft, catalog.BlacklistHard},
		"blacklist_reasons": catalog.BlacklistReasons,
		"rejection_reasons": catalog.RejectionReasons,
	})
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request, progressID string) {
	records, skips, err := h.svc.History(r.Context(), progressID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	jsonOK(w, map[string]any{
		"records": records,
		"skipped": skips,
	})
}

func (h *Handler) validate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CurrentStatus catalog.Status `json:"current_status"`
		NewStatus     catalog.Status `json:"new_status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.NewStatus == "" {
		jsonError(w, "body must contain new_status", http.StatusBadRequest)
		return
	}
	// Guard here: inside the engine an unknown target is a programming
	// error, at this boundary it is user input.
	if !h.svc.Catalog().Contains(body.NewStatus) {
		jsonError(w, fmt.Sprintf("unknown status %q", body.NewStatus), http.StatusBadRequest)
		return
	}
	jsonOK(w, h.svc.Validate(body.CurrentStatus, body.NewStatus))
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request, progressID string) {
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}

	var req workflow.TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ToStatus == "" {
		jsonError(w, "body must contain status", http.StatusBadRequest)
		return
	}
	req.ProgressID = progressID
	req.ActorID = userID
	// Compensating requests are built internally by the undo path; a client
	// must not be able to claim the side-effect exemption or the store's
	// soft-delete branch.
	req.Compensating = false

	if !h.svc.Catalog().Contains(req.ToStatus) {
		jsonError(w, fmt.Sprintf("unknown status %q", req.ToStatus), http.StatusBadRequest)
		return
	}

	rec, err := h.svc.Commit(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	jsonOK(w, rec)
}

func (h *Handler) handleNotifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	jsonOK(w, h.svc.Notifications())
}

func (h *Handler) undo(w http.ResponseWriter, r *http.Request, notificationID string) {
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}
	if err := h.svc.Undo(r.Context(), userID, notificationID); err != nil {
		h.writeError(w, err)
		return
	}
	jsonOK(w, map[string]string{"status": "reverted"})
}

func (h *Handler) dismiss(w http.ResponseWriter, notificationID string) {
	if err := h.svc.Dismiss(notificationID); err != nil {
		h.writeError(w, err)
		return
	}
	jsonOK(w, map[string]string{"status": "dismissed"})
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// writeError maps domain errors to HTTP status codes.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var ve *workflow.ValidationError
	switch {
	case errors.As(err, &ve):
		jsonError(w, ve.Msg, http.StatusBadRequest)
	case errors.Is(err, workflow.ErrNotFound), errors.Is(err, workflow.ErrNotificationNotFound):
		jsonError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, workflow.ErrStaleStatus):
		jsonError(w, err.Error(), http.StatusConflict)
	default:
		jsonError(w, "internal server error", http.StatusInternalServerError)
	}
}

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
