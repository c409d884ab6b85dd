package crawler

import (
	"strings"
	"unicode/utf8"

	"travelscraper/offerworker/helpers"
)

const (
	minNameLength    = 3
	strictNameLength = 5
)

// NameValidator decides whether link text looks like a hotel name rather
// than navigation or marketing noise
type NameValidator struct {
	denylist []string
	advisory bool
}

// NewNameValidator creates a validator rejecting names that contain any
// denylist term, case-insensitively
func NewNameValidator(denylist []string) *NameValidator {
	terms := make([]string, 0, len(denylist))
	for _, term := range denylist {
		if term = strings.ToLower(strings.TrimSpace(term)); term != "" {
			terms = append(terms, term)
		}
	}
	return &NameValidator{denylist: terms}
}

// newAdvisoryValidator checks names without ever dropping candidates
func newAdvisoryValidator() *NameValidator {
	return &NameValidator{advisory: true}
}

// Enforced reports whether candidates failing IsValid are dropped
func (v *NameValidator) Enforced() bool {
	return v != nil && !v.advisory
}

// IsValid reports whether name is plausibly a hotel name
func (v *NameValidator) IsValid(name string) bool {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < minNameLength {
		return false
	}

	lower := strings.ToLower(name)
	for _, term := range v.denylist {
		if strings.Contains(lower, term) {
			return false
		}
	}

	if utf8.RuneCountInString(name) < strictNameLength || helpers.IsDigits(name) {
		return false
	}
	return true
}

// Len returns the number of denylist terms
func (v *NameValidator) Len() int {
	return len(v.denylist)
}
