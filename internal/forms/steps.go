// internal/forms/steps.go
package forms

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrUnknownKind = errors.New("unknown form type")
	ErrUnknownStep = errors.New("unknown form step")
)

// Form kinds accepted by Validate.
const (
	KindBrand    = "brand"
	KindProvider = "3pl"
)

// StepAll validates the complete form.
const StepAll = "review"

// Validate decodes raw as the given form kind and validates it. A step other
// than StepAll (or empty) narrows the result to that step's fields.
func Validate(kind, step string, raw json.RawMessage) (*Result, error) {
	var (
		res   *Result
		err   error
		steps map[string][]string
	)
	switch kind {
	case KindBrand:
		var form BrandForm
		if err := decode(raw, &form); err != nil {
			return nil, err
		}
		res, err = ValidateBrand(form)
		steps = BrandSteps
	case KindProvider:
		var form ProviderForm
		if err := decode(raw, &form); err != nil {
			return nil, err
		}
		res, err = ValidateProvider(form)
		steps = ProviderSteps
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if err != nil {
		return nil, err
	}

	if step == "" || step == StepAll {
		return res, nil
	}
	fields, ok := steps[step]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%q", ErrUnknownStep, kind, step)
	}
	return res.Only(fields), nil
}

func decode(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode form: %w", err)
	}
	return nil
}
