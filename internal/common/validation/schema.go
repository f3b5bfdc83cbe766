// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Schema is a compiled JSON schema.
type Schema struct {
	compiled *gojsonschema.Schema
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func Compile(raw string) (*Schema, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{compiled: compiled}, nil
}

// MustCompile is Compile for package-level schemas.
func MustCompile(raw string) *Schema {
	s, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks doc, which may be a struct, map or raw JSON bytes.
func (s *Schema) Validate(doc interface{}) (*ValidationResult, error) {
	var loader gojsonschema.JSONLoader
	switch d := doc.(type) {
	case []byte:
		loader = gojsonschema.NewBytesLoader(d)
	case string:
		loader = gojsonschema.NewStringLoader(d)
	default:
		loader = gojsonschema.NewGoLoader(d)
	}

	result, err := s.compiled.Validate(loader)
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, e := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   fieldOf(e),
			Message: e.Description(),
			Code:    e.Type(),
		})
	}
	sort.SliceStable(out.Errors, func(i, j int) bool {
		return out.Errors[i].Field < out.Errors[j].Field
	})
	return out, nil
}

// FieldErrors keeps the first message reported for each field.
func (r *ValidationResult) FieldErrors() map[string]string {
	fields := make(map[string]string, len(r.Errors))
	for _, e := range r.Errors {
		if _, seen := fields[e.Field]; !seen {
			fields[e.Field] = e.Message
		}
	}
	return fields
}

// fieldOf returns a dotted path such as "references.0.website". Required
// errors are reported against the missing property, not its parent.
func fieldOf(e gojsonschema.ResultError) string {
	field := e.Field()
	if field == gojsonschema.STRING_CONTEXT_ROOT {
		field = ""
	}
	if e.Type() == "required" {
		if prop, ok := e.Details()["property"].(string); ok && !strings.HasSuffix(field, prop) {
			if field == "" {
				return prop
			}
			return field + "." + prop
		}
	}
	if field == "" {
		return gojsonschema.STRING_CONTEXT_ROOT
	}
	return field
}
