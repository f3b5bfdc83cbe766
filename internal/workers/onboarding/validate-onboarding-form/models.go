// internal/workers/onboarding/validate-onboarding-form/models.go
package validateonboardingform

import "encoding/json"

type Input struct {
	FormType string          `json:"formType"`
	Step     string          `json:"step,omitempty"`
	Data     json.RawMessage `json:"data"`
}

// Output is returned for valid and invalid forms alike; the process gateway
// branches on Valid.
type Output struct {
	FormType string            `json:"formType"`
	Step     string            `json:"step"`
	Valid    bool              `json:"valid"`
	Errors   map[string]string `json:"errors"`
	Fields   []string          `json:"invalidFields"`
}
