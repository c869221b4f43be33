package workflow

import (
	"fmt"
	"strings"

	"hireflow/workflow-service/internal/catalog"
)

// Validation is the verdict on a requested transition: which statuses would
// be skipped and which prompts must be resolved before commit.
type Validation struct {
	Skipped []catalog.Status `json:"skipped,omitempty"`

	RequiresDatePrompt      bool `json:"requires_date_prompt"`
	RequiresEmailPreview    bool `json:"requires_email_preview"`
	RequiresBlacklistFields bool `json:"requires_blacklist_fields"`
	RequiresRejectionReason bool `json:"requires_rejection_reason"`
}

// Validate computes the verdict for moving current → requested.
//
// Skips are only flagged, never blocked: a forward jump with index gap > 1
// yields the catalog slice strictly between the two statuses, and the caller
// must surface a confirmation naming each one. Backward moves and single
// forward steps yield no skips and are permitted.
//
// requested must be a catalog member; passing anything else panics. A
// current status outside the catalog (legacy imports) is treated as
// preceding the whole pipeline.
func Validate(cat *catalog.Catalog, current, requested catalog.Status) Validation {
	ri := cat.MustIndex(requested)
	ci, ok := cat.Index(current)
	if !ok {
		ci = -1
	}

	return Validation{
		Skipped:                 cat.Between(ci, ri),
		RequiresDatePrompt:      true,
		RequiresEmailPreview:    requested == catalog.StatusTestSent,
		RequiresBlacklistFields: requested == catalog.StatusBlacklisted,
		RequiresRejectionReason: requested == catalog.StatusNotFit,
	}
}

// CheckSideEffects verifies that every mandatory side-effect field for the
// request's target status is present and valid. A nil return means the
// request may be committed; otherwise a *ValidationError names what is
// missing. Compensating (undo) requests carry no side-effect fields and are
// exempt.
func CheckSideEffects(cat *catalog.Catalog, req TransitionRequest) error {
	if req.Compensating {
		return nil
	}

	var missing []string

	switch req.ToStatus {
	case catalog.StatusTestSent:
		if !req.EmailPreviewAcknowledged {
			missing = append(missing, "email preview confirmation")
		}
	case catalog.StatusBlacklisted:
		if req.BlacklistType == "" {
			missing = append(missing, "blacklist type")
		} else if _, err := catalog.ParseBlacklistType(string(req.BlacklistType)); err != nil {
			return &ValidationError{Msg: err.Error()}
		}
		if req.BlacklistReason == "" {
			missing = append(missing, "blacklist reason")
		} else if !catalog.ValidBlacklistReason(req.BlacklistReason) {
			return &ValidationError{Msg: fmt.Sprintf("unknown blacklist reason %q", req.BlacklistReason)}
		}
	case catalog.StatusNotFit:
		if req.RejectionReason == "" {
			missing = append(missing, "rejection reason")
		} else if !catalog.ValidRejectionReason(req.RejectionReason) {
			return &ValidationError{Msg: fmt.Sprintf("unknown rejection reason %q", req.RejectionReason)}
		}
	}

	if len(missing) > 0 {
		return &ValidationError{
			Msg: fmt.Sprintf("transition to %s requires: %s", req.ToStatus, strings.Join(missing, ", ")),
		}
	}
	return nil
}
