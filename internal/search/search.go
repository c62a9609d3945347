// Package search narrows a student list by a free-text query.
package search

import (
	"strings"

	"student-records/internal/types"
)

// Filter returns the subsequence of students matching query, in the
// original order. A student matches when the lowercased name contains the
// lowercased query, or the registration number contains the query as a
// literal (case-sensitive) substring. An empty query matches everything.
//
// Pure projection: the input slice is never mutated, so it is safe to
// recompute on every keystroke.
func Filter(students []types.Student, query string) []types.Student {
	if query == "" {
		return students
	}

	q := strings.ToLower(query)
	matched := make([]types.Student, 0)
	for _, s := range students {
		if strings.Contains(strings.ToLower(s.Name), q) ||
			strings.Contains(s.RegistrationNumber, query) {
			matched = append(matched, s)
		}
	}
	return matched
}
