package workflow_test

import (
	"testing"

	"hireflow/workflow-service/internal/catalog"
	"hireflow/workflow-service/internal/workflow"
)

// testCatalog is the five-status pipeline used across the engine tests.
func testCatalog() *catalog.Catalog {
	return catalog.MustNew([]catalog.Stage{
		{Name: "Pipeline", Statuses: []catalog.Status{
			"APPLIED", "SCREENED", "TEST_SENT", "INTERVIEW", "OFFER",
		}},
	})
}

// ── Skip detection ─────────────────────────────────────────────────────────

func TestValidate_ForwardJumpFlagsSkipped(t *testing.T) {
	cat := testCatalog()

	cases := []struct {
		from, to catalog.Status
		want     []catalog.Status
	}{
		{"APPLIED", "TEST_SENT", []catalog.Status{"SCREENED"}},
		{"APPLIED", "INTERVIEW", []catalog.Status{"SCREENED", "TEST_SENT"}},
		{"APPLIED", "OFFER", []catalog.Status{"SCREENED", "TEST_SENT", "INTERVIEW"}},
		{"SCREENED", "INTERVIEW", []catalog.Status{"TEST_SENT"}},
	}
	for _, c := range cases {
		v := workflow.Validate(cat, c.from, c.to)
		if len(v.Skipped) != len(c.want) {
			t.Errorf("Validate(%s → %s).Skipped = %v, want %v", c.from, c.to, v.Skipped, c.want)
			continue
		}
		for i := range c.want {
			if v.Skipped[i] != c.want[i] {
				t.Errorf("Validate(%s → %s).Skipped[%d] = %s, want %s", c.from, c.to, i, v.Skipped[i], c.want[i])
			}
		}
	}
}

func TestValidate_SingleStepHasNoSkips(t *testing.T) {
	cat := testCatalog()
	steps := []struct{ from, to catalog.Status }{
		{"APPLIED", "SCREENED"},
		{"SCREENED", "TEST_SENT"},
		{"TEST_SENT", "INTERVIEW"},
		{"INTERVIEW", "OFFER"},
	}
	for _, c := range steps {
		if v := workflow.Validate(cat, c.from, c.to); len(v.Skipped) != 0 {
			t.Errorf("Validate(%s → %s).Skipped = %v, want empty", c.from, c.to, v.Skipped)
		}
	}
}

// Backward transitions are regressions: permitted and never flagged.
func TestValidate_BackwardHasNoSkips(t *testing.T) {
	cat := testCatalog()
	cases := []struct{ from, to catalog.Status }{
		{"INTERVIEW", "APPLIED"},
		{"OFFER", "APPLIED"},
		{"SCREENED", "SCREENED"},
		{"TEST_SENT", "SCREENED"},
	}
	for _, c := range cases {
		if v := workflow.Validate(cat, c.from, c.to); len(v.Skipped) != 0 {
			t.Errorf("Validate(%s → %s).Skipped = %v, want empty", c.from, c.to, v.Skipped)
		}
	}
}

// A current status outside the catalog (legacy import) counts as preceding
// the whole pipeline.
func TestValidate_UnknownCurrentStatus(t *testing.T) {
	cat := testCatalog()
	v := workflow.Validate(cat, "LEGACY_STATUS", "TEST_SENT")
	want := []catalog.Status{"APPLIED", "SCREENED"}
	if len(v.Skipped) != len(want) {
		t.Fatalf("Skipped = %v, want %v", v.Skipped, want)
	}
	for i := range want {
		if v.Skipped[i] != want[i] {
			t.Errorf("Skipped[%d] = %s, want %s", i, v.Skipped[i], want[i])
		}
	}
}

// Requesting a status outside the catalog is a programming error.
func TestValidate_PanicsOnUnknownRequestedStatus(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Validate with unknown requested status should panic")
		}
	}()
	workflow.Validate(testCatalog(), "APPLIED", "NOT_A_STATUS")
}

// ── Required prompts ───────────────────────────────────────────────────────

func TestValidate_PromptFlags(t *testing.T) {
	cat := catalog.Default()

	v := workflow.Validate(cat, "UNPROCESSED", catalog.StatusTestSent)
	if !v.RequiresEmailPreview {
		t.Error("transition to TEST_SENT must require an email preview")
	}
	if !v.RequiresDatePrompt {
		t.Error("every transition must require the date prompt")
	}

	v = workflow.Validate(cat, "UNPROCESSED", catalog.StatusBlacklisted)
	if !v.RequiresBlacklistFields {
		t.Error("transition to BLACKLISTED must require blacklist fields")
	}
	if v.RequiresRejectionReason {
		t.Error("transition to BLACKLISTED must not require a rejection reason")
	}

	v = workflow.Validate(cat, "UNPROCESSED", catalog.StatusNotFit)
	if !v.RequiresRejectionReason {
		t.Error("transition to NOT_FIT must require a rejection reason")
	}
	if v.RequiresBlacklistFields {
		t.Error("transition to NOT_FIT must not require blacklist fields")
	}

	v = workflow.Validate(cat, "UNPROCESSED", "PRE_SCREENING")
	if v.RequiresEmailPreview || v.RequiresBlacklistFields || v.RequiresRejectionReason {
		t.Errorf("plain transition should require no special prompts, got %+v", v)
	}
}

// ── Side-effect gating ─────────────────────────────────────────────────────

func TestCheckSideEffects_TestSentNeedsPreviewAck(t *testing.T) {
	cat := testCatalog()
	req := workflow.TransitionRequest{
		ProgressID: "p1",
		FromStatus: "SCREENED",
		ToStatus:   "TEST_SENT",
	}
	if err := workflow.CheckSideEffects(cat, req); err == nil {
		t.Error("TEST_SENT without email preview acknowledgement must be blocked")
	}

	req.EmailPreviewAcknowledged = true
	if err := workflow.CheckSideEffects(cat, req); err != nil {
		t.Errorf("TEST_SENT with acknowledgement should pass, got %v", err)
	}
}

func TestCheckSideEffects_BlacklistFields(t *testing.T) {
	cat := catalog.Default()
	req := workflow.TransitionRequest{
		ProgressID: "p1",
		ToStatus:   catalog.StatusBlacklisted,
	}
	if err := workflow.CheckSideEffects(cat, req); err == nil {
		t.Error("BLACKLISTED without type and reason must be blocked")
	}

	req.BlacklistType = catalog.BlacklistSoft
	if err := workflow.CheckSideEffects(cat, req); err == nil {
		t.Error("BLACKLISTED without reason must be blocked")
	}

	req.BlacklistReason = catalog.BlacklistNoShow
	if err := workflow.CheckSideEffects(cat, req); err != nil {
		t.Errorf("BLACKLISTED with type and reason should pass, got %v", err)
	}

	req.BlacklistReason = "MADE_UP_REASON"
	if err := workflow.CheckSideEffects(cat, req); err == nil {
		t.Error("unknown blacklist reason must be rejected")
	}
}

func TestCheckSideEffects_RejectionReason(t *testing.T) {
	cat := catalog.Default()
	req := workflow.TransitionRequest{
		ProgressID: "p1",
		ToStatus:   catalog.StatusNotFit,
	}
	if err := workflow.CheckSideEffects(cat, req); err == nil {
		t.Error("NOT_FIT without a rejection reason must be blocked")
	}

	req.RejectionReason = catalog.RejectionSkillsetMismatch
	if err := workflow.CheckSideEffects(cat, req); err != nil {
		t.Errorf("NOT_FIT with a valid reason should pass, got %v", err)
	}

	req.RejectionReason = "MADE_UP_REASON"
	if err := workflow.CheckSideEffects(cat, req); err == nil {
		t.Error("unknown rejection reason must be rejected")
	}
}

// Compensating requests never carry side-effect fields and are exempt.
func TestCheckSideEffects_CompensatingIsExempt(t *testing.T) {
	cat := catalog.Default()
	req := workflow.TransitionRequest{
		ProgressID:   "p1",
		ToStatus:     catalog.StatusBlacklisted,
		Compensating: true,
	}
	if err := workflow.CheckSideEffects(cat, req); err != nil {
		t.Errorf("compensating request should be exempt, got %v", err)
	}
}
