// Package rules filters the catalog by literal keyword matches.
package rules

import (
	"fmt"
	"strings"

	"github.com/okian/careerpath/internal/domain/model"
)

// Clean trims every term and drops the blank ones. Order and duplicates are
// kept.
func Clean(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Filter returns the records whose entry-level roles contain any skill, or
// whose industry contains any interest, compared case-insensitively. Catalog
// order is kept. An empty result is not an error; no usable term at all is
// model.ErrInvalidQuery.
func Filter(records []model.CareerRecord, skills, interests []string) ([]model.CareerRecord, error) {
	skills = lowerAll(Clean(skills))
	interests = lowerAll(Clean(interests))
	if len(skills) == 0 && len(interests) == 0 {
		return nil, fmt.Errorf("%w: no skills or interests given", model.ErrInvalidQuery)
	}

	out := make([]model.CareerRecord, 0)
	for _, r := range records {
		if containsAny(strings.ToLower(r.EntryLevelRoles), skills) ||
			containsAny(strings.ToLower(r.Industry), interests) {
			out = append(out, r)
		}
	}
	return out, nil
}

func containsAny(field string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(field, t) {
			return true
		}
	}
	return false
}

func lowerAll(terms []string) []string {
	for i, t := range terms {
		terms[i] = strings.ToLower(t)
	}
	return terms
}
