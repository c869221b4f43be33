package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"hireflow/workflow-service/internal/catalog"
)

// ── Construction ───────────────────────────────────────────────────────────

func TestNew_RejectsDuplicateStatus(t *testing.T) {
	_, err := catalog.New([]catalog.Stage{
		{Name: "A", Statuses: []catalog.Status{"X", "Y"}},
		{Name: "B", Statuses: []catalog.Status{"Y"}},
	})
	if err == nil {
		t.Error("New with duplicate status expected error, got nil")
	}
}

func TestNew_RejectsEmptyCatalog(t *testing.T) {
	_, err := catalog.New(nil)
	if err == nil {
		t.Error("New with no stages expected error, got nil")
	}
}

func TestNew_RejectsEmptyStatus(t *testing.T) {
	_, err := catalog.New([]catalog.Stage{
		{Name: "A", Statuses: []catalog.Status{""}},
	})
	if err == nil {
		t.Error("New with empty status expected error, got nil")
	}
}

// ── Ordering ───────────────────────────────────────────────────────────────

func TestDefault_OrderIsStable(t *testing.T) {
	c := catalog.Default()
	statuses := c.Statuses()
	if len(statuses) != c.Len() {
		t.Fatalf("Statuses() returned %d entries, Len() = %d", len(statuses), c.Len())
	}
	for want, s := range statuses {
		got, ok := c.Index(s)
		if !ok {
			t.Fatalf("Index(%s) not found", s)
		}
		if got != want {
			t.Errorf("Index(%s) = %d, want %d", s, got, want)
		}
	}
}

func TestDefault_SpecialStatusesPresent(t *testing.T) {
	c := catalog.Default()
	for _, s := range []catalog.Status{
		catalog.StatusTestSent, catalog.StatusBlacklisted, catalog.StatusNotFit,
	} {
		if !c.Contains(s) {
			t.Errorf("default catalog missing %s", s)
		}
	}
}

func TestIndex_UnknownStatus(t *testing.T) {
	c := catalog.Default()
	if _, ok := c.Index("NOT_A_STATUS"); ok {
		t.Error("Index(NOT_A_STATUS) should report not found")
	}
	if c.Contains("NOT_A_STATUS") {
		t.Error("Contains(NOT_A_STATUS) should be false")
	}
}

func TestMustIndex_PanicsOnUnknownStatus(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustIndex(NOT_A_STATUS) should panic")
		}
	}()
	catalog.Default().MustIndex("NOT_A_STATUS")
}

// ── Between ────────────────────────────────────────────────────────────────

func TestBetween(t *testing.T) {
	c := catalog.MustNew([]catalog.Stage{
		{Name: "Pipeline", Statuses: []catalog.Status{"A", "B", "C", "D", "E"}},
	})

	cases := []struct {
		name   string
		lo, hi int
		want   []catalog.Status
	}{
		{"adjacent", 0, 1, nil},
		{"same", 2, 2, nil},
		{"backward", 3, 1, nil},
		{"one skipped", 0, 2, []catalog.Status{"B"}},
		{"two skipped", 0, 3, []catalog.Status{"B", "C"}},
		{"full jump", 0, 4, []catalog.Status{"B", "C", "D"}},
		{"unknown current", -1, 2, []catalog.Status{"A", "B"}},
	}
	for _, tc := range cases {
		got := c.Between(tc.lo, tc.hi)
		if len(got) != len(tc.want) {
			t.Errorf("%s: Between(%d, %d) = %v, want %v", tc.name, tc.lo, tc.hi, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("%s: Between(%d, %d)[%d] = %s, want %s", tc.name, tc.lo, tc.hi, i, got[i], tc.want[i])
			}
		}
	}
}

// ── StageOf ────────────────────────────────────────────────────────────────

func TestStageOf(t *testing.T) {
	c := catalog.Default()
	stage, ok := c.StageOf(catalog.StatusBlacklisted)
	if !ok || stage != "Closed" {
		t.Errorf("StageOf(BLACKLISTED) = %q, %v; want %q, true", stage, ok, "Closed")
	}
	if _, ok := c.StageOf("NOT_A_STATUS"); ok {
		t.Error("StageOf(NOT_A_STATUS) should report not found")
	}
}

// ── Load ───────────────────────────────────────────────────────────────────

func TestLoad_FromJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	data := `[{"name":"Screening","statuses":["NEW","REVIEWED"]},{"name":"Done","statuses":["CLOSED"]}]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := catalog.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
	if i := c.MustIndex("CLOSED"); i != 2 {
		t.Errorf("MustIndex(CLOSED) = %d, want 2", i)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := catalog.Load("/does/not/exist.json"); err == nil {
		t.Error("Load of missing file expected error, got nil")
	}
}

// ── Reason enumerations ────────────────────────────────────────────────────

func TestParseBlacklistType(t *testing.T) {
	for _, s := range []string{"SOFT", "HARD"} {
		got, err := catalog.ParseBlacklistType(s)
		if err != nil {
			t.Errorf("ParseBlacklistType(%q) unexpected error: %v", s, err)
		}
		if string(got) != s {
			t.Errorf("ParseBlacklistType(%q) = %q", s, got)
		}
	}
	for _, s := range []string{"", "soft", "MEDIUM"} {
		if _, err := catalog.ParseBlacklistType(s); err == nil {
			t.Errorf("ParseBlacklistType(%q) expected error, got nil", s)
		}
	}
}

func TestBlacklistReasons_QuickSubsetIsValid(t *testing.T) {
	// The reduced quick-entry vocabulary must stay a subset of the
	// authoritative one, otherwise bulk entries would fail validation.
	for _, r := range catalog.QuickBlacklistReasons {
		if !catalog.ValidBlacklistReason(r) {
			t.Errorf("quick reason %s not in authoritative set", r)
		}
	}
}

func TestRejectionReasons_DistinctVocabulary(t *testing.T) {
	if !catalog.ValidRejectionReason(catalog.RejectionSalaryMismatch) {
		t.Error("ASKING_SALARY_MISMATCH must be a valid rejection reason")
	}
	// The rejection vocabulary uses ASKING_, the blacklist one EXPECTED_.
	if catalog.ValidBlacklistReason(catalog.BlacklistReason(catalog.RejectionSalaryMismatch)) {
		t.Error("ASKING_SALARY_MISMATCH must not be a valid blacklist reason")
	}
	if catalog.ValidRejectionReason(catalog.RejectionReason(catalog.BlacklistSalaryMismatch)) {
		t.Error("EXPECTED_SALARY_MISMATCH must not be a valid rejection reason")
	}
}
