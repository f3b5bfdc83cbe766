// internal/workers/communication/send-notification/models.go
package sendnotification

import (
	"time"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"onboarding-workers/internal/models"
)

const (
	ChannelInApp = "in_app"
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

const (
	StatusSent     = "sent"
	StatusSkipped  = "skipped"
	StatusDisabled = "disabled"
)

// Input describes one notification. Title and Message may use {{key}}
// placeholders filled from Data; empty ones fall back to the type's template.
type Input struct {
	NotificationID    string                  `json:"notificationId,omitempty"`
	UserID            string                  `json:"userId"`
	Type              models.NotificationType `json:"type"`
	Title             string                  `json:"title,omitempty"`
	Message           string                  `json:"message,omitempty"`
	Data              map[string]interface{}  `json:"data,omitempty"`
	Channels          []string                `json:"channels,omitempty"`
	Email             string                  `json:"email,omitempty"`
	Phone             string                  `json:"phone,omitempty"`
	RelatedEntityType string                  `json:"relatedEntityType,omitempty"`
	RelatedEntityID   string                  `json:"relatedEntityId,omitempty"`
	Metadata          map[string]interface{}  `json:"metadata,omitempty"`
	ExpiresAt         *time.Time              `json:"expiresAt,omitempty"`
}

func (i Input) Validate() error {
	return ozzo.ValidateStruct(&i,
		ozzo.Field(&i.UserID, ozzo.Required),
		ozzo.Field(&i.Type, ozzo.Required, ozzo.By(func(interface{}) error {
			if !i.Type.Valid() {
				return ozzo.NewError("validation_notification_type", "type must be match_found, partnership_request, certification_update or system_update")
			}
			return nil
		})),
		ozzo.Field(&i.Channels, ozzo.Each(ozzo.In(ChannelInApp, ChannelEmail, ChannelSMS).Error("channel must be in_app, email or sms"))),
		ozzo.Field(&i.Email, is.EmailFormat),
		ozzo.Field(&i.Phone, is.E164),
		ozzo.Field(&i.Title, ozzo.Length(0, 200)),
		ozzo.Field(&i.Message, ozzo.Length(0, 2000)),
	)
}

// wants reports whether ch was requested. No channels means in-app only.
func (i Input) wants(ch string) bool {
	if len(i.Channels) == 0 {
		return ch == ChannelInApp
	}
	for _, c := range i.Channels {
		if c == ch {
			return true
		}
	}
	return false
}

type Output struct {
	NotificationID string            `json:"notificationId"`
	Title          string            `json:"title"`
	Message        string            `json:"message"`
	Channels       map[string]string `json:"channels"`
	EmailMessageID string            `json:"emailMessageId,omitempty"`
	SMSMessageID   string            `json:"smsMessageId,omitempty"`
	SentAt         time.Time         `json:"sentAt"`
}
