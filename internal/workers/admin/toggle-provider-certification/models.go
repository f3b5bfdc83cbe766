// internal/workers/admin/toggle-provider-certification/models.go
package toggleprovidercertification

import (
	"time"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"

	"onboarding-workers/internal/models"
)

// Input flips the company's certification unless Certified pins a value.
type Input struct {
	CompanyID   string `json:"companyId"`
	AdminUserID string `json:"adminUserId"`
	Certified   *bool  `json:"certified,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

func (i Input) Validate() error {
	return ozzo.ValidateStruct(&i,
		ozzo.Field(&i.CompanyID, ozzo.Required),
		ozzo.Field(&i.AdminUserID, ozzo.Required),
		ozzo.Field(&i.Reason, ozzo.Length(0, 500)),
	)
}

type Output struct {
	CompanyID         string                  `json:"companyId"`
	CompanyName       string                  `json:"companyName"`
	IsCertified       bool                    `json:"isCertified"`
	CertificationDate *time.Time              `json:"certificationDate,omitempty"`
	UserID            string                  `json:"userId"`
	NotificationType  models.NotificationType `json:"notificationType"`
	NotificationTitle string                  `json:"notificationTitle"`
	NotificationBody  string                  `json:"notificationMessage"`
}
