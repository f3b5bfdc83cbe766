// internal/workers/onboarding/submit-provider-application/models.go
package submitproviderapplication

import (
	"onboarding-workers/internal/forms"
	"onboarding-workers/internal/matching"
	"onboarding-workers/internal/models"
)

type Input struct {
	UserID    string             `json:"userId"`
	CompanyID string             `json:"companyId,omitempty"`
	Form      forms.ProviderForm `json:"form"`
}

type Output struct {
	CompanyID      string                   `json:"companyId"`
	Created        bool                     `json:"created"`
	Certified      bool                     `json:"certified"`
	Profile        matching.ProviderProfile `json:"profile"`
	DirectoryEntry models.DirectoryEntry    `json:"directoryEntry"`
	AuditID        string                   `json:"auditId,omitempty"`
}
