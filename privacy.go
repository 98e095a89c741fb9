package toolwire

import (
	"errors"
	"fmt"
	"strings"
)

// PrivacyPair is a literal search/replace rule. Lists of pairs are ordered:
// Redact applies them first to last, Restore last to first.
type PrivacyPair struct {
	Search  string `json:"search" yaml:"search"`
	Replace string `json:"replace" yaml:"replace"`
}

// Redact returns a copy of v where every string leaf has had each pair applied
// in list order. Later pairs see the output of earlier ones, so replacements cascade.
func Redact(v any, pairs []PrivacyPair) any {
	return MapStrings(v, func(s string) string { return RedactString(s, pairs) })
}

// Restore returns a copy of v with pairs undone in reverse list order.
// It inverts Redact only for pair lists that pass CheckPairs and whose Replace
// values never occur in the original content.
func Restore(v any, pairs []PrivacyPair) any {
	return MapStrings(v, func(s string) string { return RestoreString(s, pairs) })
}

// RedactString replaces every literal occurrence of each Search with its Replace, in list order.
// Pairs with an empty Search are skipped.
func RedactString(s string, pairs []PrivacyPair) string {
	for _, p := range pairs {
		if p.Search == "" {
			continue
		}
		s = strings.ReplaceAll(s, p.Search, p.Replace)
	}
	return s
}

// RestoreString replaces every literal occurrence of each Replace with its Search, in reverse list order.
// Pairs with an empty Replace are skipped.
func RestoreString(s string, pairs []PrivacyPair) string {
	for i := len(pairs) - 1; i >= 0; i-- {
		p := pairs[i]
		if p.Replace == "" {
			continue
		}
		s = strings.ReplaceAll(s, p.Replace, p.Search)
	}
	return s
}

// CheckPairs reports pairs that cannot round-trip: empty Search or Replace values,
// and a Search that occurs inside another pair's Search or Replace. Redact and
// Restore never call it; it is for callers assembling pair lists from config.
// The returned error wraps ErrAmbiguousPairs.
func CheckPairs(pairs []PrivacyPair) error {
	var errs []error
	for i, p := range pairs {
		if p.Search == "" {
			errs = append(errs, fmt.Errorf("%w: pair %d has empty search", ErrAmbiguousPairs, i))
			continue
		}
		if p.Replace == "" {
			errs = append(errs, fmt.Errorf("%w: pair %d has empty replace", ErrAmbiguousPairs, i))
		}
		for j, q := range pairs {
			if i == j {
				continue
			}
			if strings.Contains(q.Search, p.Search) {
				errs = append(errs, fmt.Errorf("%w: search %q of pair %d occurs in search of pair %d", ErrAmbiguousPairs, p.Search, i, j))
			}
			if strings.Contains(q.Replace, p.Search) {
				errs = append(errs, fmt.Errorf("%w: search %q of pair %d occurs in replace of pair %d", ErrAmbiguousPairs, p.Search, i, j))
			}
		}
	}
	return errors.Join(errs...)
}
