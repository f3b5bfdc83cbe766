// internal/models/admin.go
package models

import "time"

type AdminAction struct {
	ID          string                 `json:"id"`
	AdminUserID string                 `json:"adminUserId"`
	ActionType  string                 `json:"actionType"`
	TargetType  string                 `json:"targetType"`
	TargetID    string                 `json:"targetId"`
	Description string                 `json:"description,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
}

const (
	ActionCertify   = "certify_company"
	ActionDecertify = "decertify_company"
)

// AuditEntry records a profile submission or status change.
type AuditEntry struct {
	ID         string                 `json:"id"`
	ActorID    string                 `json:"actorId"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entityType"`
	EntityID   string                 `json:"entityId"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
	CreatedAt  time.Time              `json:"createdAt"`
}

// MatchStatusRecord is the persisted operator status of one pair.
type MatchStatusRecord struct {
	BrandID   string    `json:"brandId"`
	CompanyID string    `json:"companyId"`
	Status    string    `json:"status"`
	UpdatedBy string    `json:"updatedBy"`
	Notes     string    `json:"notes,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}
