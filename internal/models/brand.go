// internal/models/brand.go
package models

import "time"

// Brand is a merchant looking for a fulfillment partner.
type Brand struct {
	ID                  string    `json:"id"`
	UserID              string    `json:"userId"`
	BrandName           string    `json:"brandName"`
	ContactName         string    `json:"contactName"`
	ContactEmail        string    `json:"contactEmail"`
	Phone               string    `json:"phone,omitempty"`
	Industry            string    `json:"industry"`
	WebsiteURL          string    `json:"websiteUrl,omitempty"`
	MonthlyVolume       int       `json:"monthlyVolume"`
	AverageOrderValue   float64   `json:"averageOrderValue,omitempty"`
	ProductTypes        []string  `json:"productTypes"`
	PreferredLocations  []string  `json:"preferredLocations"`
	CurrentPlatform     string    `json:"currentPlatform,omitempty"`
	CurrentWMS          string    `json:"currentWms,omitempty"`
	BudgetRange         string    `json:"budgetRange,omitempty"`
	MaxSetupFee         float64   `json:"maxSetupFee,omitempty"`
	TimelineToStart     string    `json:"timelineToStart,omitempty"`
	SpecialRequirements string    `json:"specialRequirements,omitempty"`
	Status              string    `json:"status"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// BrandRequirements holds one brand's capability flags, keyed by registry
// key, plus the non-scored performance and contract preferences.
type BrandRequirements struct {
	BrandID                    string          `json:"brandId"`
	Flags                      map[string]bool `json:"flags"`
	RequiredIntegrations       []string        `json:"requiredIntegrations,omitempty"`
	RequiredShippingSpeed      string          `json:"requiredShippingSpeed,omitempty"`
	MaxReceivingTime           int             `json:"maxReceivingTime,omitempty"`
	MinOrderAccuracy           int             `json:"minOrderAccuracy,omitempty"`
	MinInventoryAccuracy       int             `json:"minInventoryAccuracy,omitempty"`
	PreferNoLongTermContract   bool            `json:"preferNoLongTermContract"`
	RequiresTransparentPricing bool            `json:"requiresTransparentPricing"`
	RequiresDedicatedManager   bool            `json:"requiresDedicatedManager"`
	Requires24x7Support        bool            `json:"requires24x7Support"`
}

const (
	BrandStatusActive  = "active"
	BrandStatusPending = "pending"
)
