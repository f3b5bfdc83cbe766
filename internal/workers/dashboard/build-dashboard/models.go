// internal/workers/dashboard/build-dashboard/models.go
package builddashboard

import (
	"onboarding-workers/internal/matching"
	"onboarding-workers/internal/models"
)

const (
	UserTypeBrand    = "brand"
	UserTypeProvider = "3pl"
	UserTypeAdmin    = "admin"
)

type Input struct {
	UserID   string `json:"userId"`
	UserType string `json:"userType"`
}

// Output is the dashboard payload. Which sections are set depends on UserType.
type Output struct {
	UserType        string                 `json:"userType"`
	ProfileComplete bool                   `json:"profileComplete"`
	Brand           *models.Brand          `json:"brand,omitempty"`
	Company         *models.Company        `json:"company,omitempty"`
	Matches         []matching.MatchResult `json:"matches"`
	Summary         matching.Summary       `json:"summary"`
	Notifications   []models.Notification  `json:"notifications"`
	UnreadCount     int                    `json:"unreadCount"`
	Admin           *AdminStats            `json:"admin,omitempty"`
}

type AdminStats struct {
	Users                 models.UserCounts    `json:"users"`
	PendingCertifications int                  `json:"pendingCertifications"`
	RecentActions         []models.AdminAction `json:"recentActions"`
}
