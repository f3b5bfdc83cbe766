// internal/forms/result.go
package forms

import (
	"sort"
	"strings"
)

// Result maps a field path to a user-facing message.
type Result struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

func newResult() *Result {
	return &Result{Valid: true, Errors: map[string]string{}}
}

func (r *Result) add(field, message string) {
	if _, exists := r.Errors[field]; exists {
		return
	}
	r.Errors[field] = message
	r.Valid = false
}

// Fields lists the failing fields in sorted order.
func (r *Result) Fields() []string {
	fields := make([]string, 0, len(r.Errors))
	for f := range r.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Only keeps errors for the given fields. A field also covers its nested
// paths, so "references" keeps "references.0.website".
func (r *Result) Only(fields []string) *Result {
	out := newResult()
	for path, msg := range r.Errors {
		for _, f := range fields {
			if path == f || strings.HasPrefix(path, f+".") {
				out.add(path, msg)
				break
			}
		}
	}
	return out
}
