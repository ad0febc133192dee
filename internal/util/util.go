// Package util provides shared helpers that do not belong to any one layer.
package util

import (
	"strings"
)

// ─── Error Helpers ────────────────────────────────────────────────────────────

// MultiError collects independent failures (for example the KPI and chart
// fetches at start-up) and presents them as one error.
type MultiError struct {
	Errors []error
}

// Add records err; nil is ignored.
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// Len returns the number of recorded errors.
func (m *MultiError) Len() int {
	return len(m.Errors)
}

// Err returns nil when nothing was recorded, otherwise m.
func (m *MultiError) Err() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}

func (m *MultiError) Error() string {
	msgs := make([]string, len(m.Errors))
	for i, e := range m.Errors {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// Truncate shortens s to at most max runes, ending with "…" when cut.
func Truncate(s string, max int) string {
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}
