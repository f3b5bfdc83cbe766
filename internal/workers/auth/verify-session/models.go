// internal/workers/auth/verify-session/models.go
package verifysession

import "time"

type Input struct {
	Token string `json:"sessionToken"`
	// RequiredUserType restricts the session to one of the listed types.
	RequiredUserType []string `json:"requiredUserType,omitempty"`
}

type Output struct {
	Authenticated bool      `json:"authenticated"`
	UserID        string    `json:"userId"`
	Email         string    `json:"email"`
	UserType      string    `json:"userType"`
	ExpiresAt     time.Time `json:"expiresAt"`
}
