package catalog

import "fmt"

// BlacklistType distinguishes a soft block (may reapply) from a hard one.
type BlacklistType string

const (
	BlacklistSoft BlacklistType = "SOFT"
	BlacklistHard BlacklistType = "HARD"
)

// ParseBlacklistType converts a raw string to a BlacklistType, returning an
// error for unknown values.
func ParseBlacklistType(s string) (BlacklistType, error) {
	t := BlacklistType(s)
	switch t {
	case BlacklistSoft, BlacklistHard:
		return t, nil
	}
	return "", fmt.Errorf("unknown blacklist type %q", s)
}

// BlacklistReason is the closed enumeration of reasons accepted with a
// BLACKLISTED transition.
type BlacklistReason string

const (
	BlacklistDidNotTakeTest   BlacklistReason = "DID_NOT_TAKE_TEST"
	BlacklistNoShow           BlacklistReason = "NO_SHOW"
	BlacklistCultureMismatch  BlacklistReason = "CULTURE_MISMATCH"
	BlacklistSalaryMismatch   BlacklistReason = "EXPECTED_SALARY_MISMATCH"
	BlacklistScheduleMismatch BlacklistReason = "WORKING_SCHEDULE_MISMATCH"
	BlacklistOther            BlacklistReason = "OTHER_REASONS"
)

// BlacklistReasons is the authoritative reason set, accepted everywhere a
// blacklist reason is validated.
var BlacklistReasons = []BlacklistReason{
	BlacklistDidNotTakeTest,
	BlacklistNoShow,
	BlacklistCultureMismatch,
	BlacklistSalaryMismatch,
	BlacklistScheduleMismatch,
	BlacklistOther,
}

// QuickBlacklistReasons is the reduced subset offered by the bulk table
// entry point. It diverges from BlacklistReasons upstream; both vocabularies
// are kept until the divergence is confirmed intentional or not.
var QuickBlacklistReasons = []BlacklistReason{
	BlacklistDidNotTakeTest,
	BlacklistNoShow,
	BlacklistOther,
}

// ValidBlacklistReason reports whether r belongs to the authoritative set.
func ValidBlacklistReason(r BlacklistReason) bool {
	for _, v := range BlacklistReasons {
		if v == r {
			return true
		}
	}
	return false
}

// RejectionReason is the closed enumeration of reasons required with a
// NOT_FIT transition. It is deliberately a separate vocabulary from
// BlacklistReason even where values overlap.
type RejectionReason string

const (
	RejectionCultureMismatch  RejectionReason = "CULTURE_MISMATCH"
	RejectionSalaryMismatch   RejectionReason = "ASKING_SALARY_MISMATCH"
	RejectionScheduleMismatch RejectionReason = "WORKING_SCHEDULE_MISMATCH"
	RejectionSkillsetMismatch RejectionReason = "SKILLSET_MISMATCH"
	RejectionOther            RejectionReason = "OTHER_REASONS"
)

// RejectionReasons lists every accepted rejection reason.
var RejectionReasons = []RejectionReason{
	RejectionCultureMismatch,
	RejectionSalaryMismatch,
	RejectionScheduleMismatch,
	RejectionSkillsetMismatch,
	RejectionOther,
}

// ValidRejectionReason reports whether r is an accepted rejection reason.
func ValidRejectionReason(r RejectionReason) bool {
	for _, v := range RejectionReasons {
		if v == r {
			return true
		}
	}
	return false
}
