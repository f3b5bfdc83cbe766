// internal/models/provider.go
package models

import "time"

// Company is a 3PL provider account.
type Company struct {
	ID                  string     `json:"id"`
	UserID              string     `json:"userId"`
	CompanyName         string     `json:"companyName"`
	ContactName         string     `json:"contactName,omitempty"`
	Email               string     `json:"email,omitempty"`
	Phone               string     `json:"phone,omitempty"`
	WebsiteURL          string     `json:"websiteUrl,omitempty"`
	HeadquartersAddress string     `json:"headquartersAddress,omitempty"`
	IsCertified         bool       `json:"isCertified"`
	CertificationDate   *time.Time `json:"certificationDate,omitempty"`
	CertifiedBy         string     `json:"certifiedBy,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// ProviderCapabilities are the scored flags plus the rest of the 3PL
// application, which is kept as a JSON document.
type ProviderCapabilities struct {
	CompanyID     string                 `json:"companyId"`
	Flags         map[string]bool        `json:"flags"`
	MinimumVolume int                    `json:"minimumVolume"`
	Location      string                 `json:"location"`
	Details       map[string]interface{} `json:"details,omitempty"`
}

type Reference struct {
	BrandName    string `json:"brandName"`
	Website      string `json:"website"`
	ContactEmail string `json:"contactEmail"`
}
