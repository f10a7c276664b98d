// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
)

// CareerRecord is one row of the career catalog. Title is the lookup key and
// is compared case-insensitively.
type CareerRecord struct {
	Title            string `json:"title"`
	Industry         string `json:"industry"`
	EntryLevelRoles  string `json:"entry_level_roles"`
	MidLevelRoles    string `json:"mid_level_roles"`
	SeniorLevelRoles string `json:"senior_level_roles"`
	ExpectedSalary   string `json:"expected_salary"` // free-form, e.g. "6-15 LPA" or "30+ LPA"
	HiringCompanies  string `json:"hiring_companies"`
}

// Mode selects how recommendations are produced.
type Mode string

const (
	// ModeAI ranks the catalog by embedding similarity.
	ModeAI Mode = "ai"
	// ModeRule filters the catalog by literal substring matches.
	ModeRule Mode = "rule"
)

// ParseMode accepts "ai" or "rule" in any case. Blank input means ModeAI.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ModeAI):
		return ModeAI, nil
	case string(ModeRule):
		return ModeRule, nil
	default:
		return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidQuery, s)
	}
}

// RankedResult is a career as handed to callers. Score is set only for AI
// ranking; Rank is the 1-based position in the returned ordering.
type RankedResult struct {
	CareerRecord
	Rank             int      `json:"rank"`
	Score            *float64 `json:"score,omitempty"`
	AverageSalaryLPA *float64 `json:"average_salary_lpa,omitempty"`
}

// Recommendation is the outcome of a recommend call. Message is set when the
// result set is empty so callers can tell "no match" from an error.
type Recommendation struct {
	Mode    Mode           `json:"mode"`
	Results []RankedResult `json:"results"`
	Message string         `json:"message,omitempty"`
}

// Query is one recommendation request. A zero TopN means the service default
// and an empty Mode means ModeAI.
type Query struct {
	Skills    []string
	Interests []string
	TopN      int
	Mode      Mode
}
