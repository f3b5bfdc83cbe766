// internal/workers/onboarding/submit-brand-profile/models.go
package submitbrandprofile

import (
	"onboarding-workers/internal/forms"
	"onboarding-workers/internal/matching"
	"onboarding-workers/internal/models"
)

// Input is the completed brand wizard. BrandID is set when an existing brand
// is edited; otherwise the user's brand is looked up or created.
type Input struct {
	UserID  string          `json:"userId"`
	BrandID string          `json:"brandId,omitempty"`
	Form    forms.BrandForm `json:"form"`
}

type Output struct {
	BrandID        string                `json:"brandId"`
	Created        bool                  `json:"created"`
	Profile        matching.BrandProfile `json:"profile"`
	DirectoryEntry models.DirectoryEntry `json:"directoryEntry"`
	AuditID        string                `json:"auditId,omitempty"`
}
