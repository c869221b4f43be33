// Package catalog defines the Stage Catalog: the ordered list of valid
// applicant statuses, grouped into coarser pipeline stages.
//
// Default pipeline:
//
//	Screening    ──► UNPROCESSED, PRE_SCREENING, TEST_SENT, TEST_TAKEN
//	Interviewing ──► FIRST_INTERVIEW … FOLLOW_UP_INTERVIEW
//	Offer        ──► FOR_DECISION, FOR_JOB_OFFER, JOB_OFFER_REJECTED, JOB_OFFER_ACCEPTED
//	Closed       ──► WITHDREW_APPLICATION, FOR_FUTURE_POOLING, GHOSTED, NOT_FIT, BLACKLISTED
//
// Catalog position defines the total order used for skip detection: a
// forward move that jumps more than one position "skips" every status
// strictly between the two endpoints. The catalog is read-only after
// construction.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// Status is an opaque applicant status identifier. Validity and ordering are
// defined by the Catalog it belongs to.
type Status string

// Statuses that carry mandatory extra input before a transition to them may
// be committed. They are part of the default vocabulary; a custom catalog
// that omits them simply never triggers the associated prompt.
const (
	StatusTestSent    Status = "TEST_SENT"
	StatusBlacklisted Status = "BLACKLISTED"
	StatusNotFit      Status = "NOT_FIT"
)

// Stage groups one or more consecutive statuses under a display name.
// Selected is a derived flag (true iff every member status is selected) used
// by filter projections; it plays no part in transition rules.
type Stage struct {
	Name     string   `json:"name"`
	Statuses []Status `json:"statuses"`
	Selected bool     `json:"selected,omitempty"`
}

// Catalog is the ordered, immutable status configuration.
type Catalog struct {
	stages []Stage
	order  []Status
	index  map[Status]int
	stage  map[Status]string
}

// New builds a Catalog from stage groups. Statuses must be unique across all
// stages and at least one status must be present.
func New(stages []Stage) (*Catalog, error) {
	c := &Catalog{
		index: make(map[Status]int),
		stage: make(map[Status]string),
	}
	for _, st := range stages {
		for _, s := range st.Statuses {
			if s == "" {
				return nil, fmt.Errorf("stage %q contains an empty status", st.Name)
			}
			if _, dup := c.index[s]; dup {
				return nil, fmt.Errorf("duplicate status %q in catalog", s)
			}
			c.index[s] = len(c.order)
			c.stage[s] = st.Name
			c.order = append(c.order, s)
		}
		c.stages = append(c.stages, Stage{Name: st.Name, Statuses: append([]Status(nil), st.Statuses...)})
	}
	if len(c.order) == 0 {
		return nil, fmt.Errorf("catalog has no statuses")
	}
	return c, nil
}

// MustNew is New for static catalogs; it panics on invalid input.
func MustNew(stages []Stage) *Catalog {
	c, err := New(stages)
	if err != nil {
		panic(err)
	}
	return c
}

// Default returns the built-in applicant pipeline.
func Default() *Catalog {
	return MustNew([]Stage{
		{Name: "Screening", Statuses: []Status{
			"UNPROCESSED", "PRE_SCREENING", StatusTestSent, "TEST_TAKEN",
		}},
		{Name: "Interviewing", Statuses: []Status{
			"FIRST_INTERVIEW", "SECOND_INTERVIEW", "THIRD_INTERVIEW",
			"FOURTH_INTERVIEW", "FOLLOW_UP_INTERVIEW",
		}},
		{Name: "Offer", Statuses: []Status{
			"FOR_DECISION", "FOR_JOB_OFFER", "JOB_OFFER_REJECTED", "JOB_OFFER_ACCEPTED",
		}},
		{Name: "Closed", Statuses: []Status{
			"WITHDREW_APPLICATION", "FOR_FUTURE_POOLING", "GHOSTED",
			StatusNotFit, StatusBlacklisted,
		}},
	})
}

// Load reads a catalog from a JSON file containing an array of stages.
// The status vocabulary is deployment configuration, not code.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	var stages []Stage
	if err := json.Unmarshal(raw, &stages); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}
	return New(stages)
}

// Statuses returns the full ordered status list (a copy).
func (c *Catalog) Statuses() []Status {
	return append([]Status(nil), c.order...)
}

// Stages returns the stage groups (a copy).
func (c *Catalog) Stages() []Stage {
	out := make([]Stage, len(c.stages))
	for i, st := range c.stages {
		out[i] = Stage{Name: st.Name, Statuses: append([]Status(nil), st.Statuses...)}
	}
	return out
}

// Len returns the number of statuses in the catalog.
func (c *Catalog) Len() int { return len(c.order) }

// Contains reports whether s is a member of the catalog.
func (c *Catalog) Contains(s Status) bool {
	_, ok := c.index[s]
	return ok
}

// Index returns the catalog position of s.
func (c *Catalog) Index(s Status) (int, bool) {
	i, ok := c.index[s]
	return i, ok
}

// MustIndex returns the catalog position of s and panics when s is not a
// catalog member. Requesting a transition to a status outside the catalog is
// a programming error, not user input.
func (c *Catalog) MustIndex(s Status) int {
	i, ok := c.index[s]
	if !ok {
		panic(fmt.Sprintf("catalog: status %q is not in the catalog", s))
	}
	return i
}

// StageOf returns the name of the stage containing s.
func (c *Catalog) StageOf(s Status) (string, bool) {
	name, ok := c.stage[s]
	return name, ok
}

// Between returns the statuses strictly between positions lo and hi
// (exclusive on both ends). Returns nil when hi <= lo+1.
func (c *Catalog) Between(lo, hi int) []Status {
	if hi <= lo+1 {
		return nil
	}
	if lo < -1 {
		lo = -1
	}
	if hi > len(c.order) {
		hi = len(c.order)
	}
	return append([]Status(nil), c.order[lo+1:hi]...)
}
