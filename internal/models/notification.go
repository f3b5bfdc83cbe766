// internal/models/notification.go
package models

import "time"

type NotificationType string

const (
	NotificationMatchFound          NotificationType = "match_found"
	NotificationPartnershipRequest  NotificationType = "partnership_request"
	NotificationCertificationUpdate NotificationType = "certification_update"
	NotificationSystemUpdate        NotificationType = "system_update"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationMatchFound, NotificationPartnershipRequest, NotificationCertificationUpdate, NotificationSystemUpdate:
		return true
	}
	return false
}

type Notification struct {
	ID                string                 `json:"id"`
	UserID            string                 `json:"userId"`
	Type              NotificationType       `json:"type"`
	Title             string                 `json:"title"`
	Message           string                 `json:"message"`
	IsRead            bool                   `json:"isRead"`
	RelatedEntityType string                 `json:"relatedEntityType,omitempty"`
	RelatedEntityID   string                 `json:"relatedEntityId,omitempty"`
	Metadata          map[string]interface{} `json:"metadata,omitempty"`
	ExpiresAt         *time.Time             `json:"expiresAt,omitempty"`
	CreatedAt         time.Time              `json:"createdAt"`
}
