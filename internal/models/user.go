// internal/models/user.go
package models

type UserProfile struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	UserType    string `json:"userType"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Phone       string `json:"phone,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
	IsActive    bool   `json:"isActive"`
}

// UserCounts backs the admin dashboard header.
type UserCounts struct {
	Brands    int `json:"brands"`
	Providers int `json:"providers"`
	Admins    int `json:"admins"`
	Total     int `json:"total"`
}
