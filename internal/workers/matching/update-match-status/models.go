// internal/workers/matching/update-match-status/models.go
package updatematchstatus

import (
	ozzo "github.com/go-ozzo/ozzo-validation/v4"

	"onboarding-workers/internal/matching"
	"onboarding-workers/internal/models"
)

type Input struct {
	BrandID    string `json:"brandId"`
	ProviderID string `json:"providerId"`
	Status     string `json:"status"`
	UpdatedBy  string `json:"updatedBy"`
	Notes      string `json:"notes,omitempty"`
}

func (i Input) Validate() error {
	return ozzo.ValidateStruct(&i,
		ozzo.Field(&i.BrandID, ozzo.Required),
		ozzo.Field(&i.ProviderID, ozzo.Required),
		ozzo.Field(&i.Status, ozzo.Required, ozzo.In(
			string(matching.StatusContacted),
			string(matching.StatusInDiscussion),
			string(matching.StatusMatched),
			string(matching.StatusRejected),
		).Error("status must be contacted, in_discussion, matched or rejected")),
		ozzo.Field(&i.UpdatedBy, ozzo.Required),
		ozzo.Field(&i.Notes, ozzo.Length(0, 2000)),
	)
}

// Output carries the variables a downstream send-notification task reads.
type Output struct {
	BrandID             string                  `json:"brandId"`
	ProviderID          string                  `json:"providerId"`
	PreviousStatus      matching.Status         `json:"previousStatus"`
	Status              matching.Status         `json:"status"`
	Terminal            bool                    `json:"terminal"`
	MatchScore          int                     `json:"matchScore"`
	AuditID             string                  `json:"auditId,omitempty"`
	NotificationType    models.NotificationType `json:"notificationType"`
	NotificationTitle   string                  `json:"notificationTitle"`
	NotificationMessage string                  `json:"notificationMessage"`
}
