// internal/forms/brand.go
package forms

import (
	"strings"

	"onboarding-workers/internal/common/validation"
	"onboarding-workers/internal/matching"
	"onboarding-workers/internal/models"
	"onboarding-workers/pkg/registry"
)

// BrandForm is the brand intake wizard payload.
type BrandForm struct {
	BrandName          string          `json:"brandName"`
	ContactName        string          `json:"contactName"`
	ContactEmail       string          `json:"contactEmail"`
	Phone              string          `json:"phone"`
	Industry           string          `json:"industry"`
	WebsiteURL         string          `json:"websiteUrl"`
	MonthlyVolume      int             `json:"monthlyVolume"`
	AverageOrderValue  float64         `json:"averageOrderValue"`
	ProductTypes       []string        `json:"productTypes"`
	PreferredLocations []string        `json:"preferredLocations"`
	Requirements       map[string]bool `json:"requirements"`

	RequiredIntegrations []string `json:"requiredIntegrations"`
	CurrentPlatform      string   `json:"currentPlatform"`
	CurrentWMS           string   `json:"currentWms"`

	RequiredShippingSpeed    string `json:"requiredShippingSpeed"`
	MaxReceivingTime         int    `json:"maxReceivingTime"`
	MinOrderAccuracy         int    `json:"minOrderAccuracy"`
	MinInventoryAccuracy     int    `json:"minInventoryAccuracy"`
	RequiresRealTimeTracking bool   `json:"requiresRealTimeTracking"`

	BudgetRange                string  `json:"budgetRange"`
	MaxSetupFee                float64 `json:"maxSetupFee"`
	PreferNoLongTermContract   bool    `json:"preferNoLongTermContract"`
	RequiresTransparentPricing bool    `json:"requiresTransparentPricing"`
	RequiresDedicatedManager   bool    `json:"requiresDedicatedManager"`
	Requires24x7Support        bool    `json:"requires24x7Support"`

	SpecialRequirements string `json:"specialRequirements"`
	TimelineToStart     string `json:"timelineToStart"`
}

var brandSchema = validation.MustCompile(`{
  "type": "object",
  "properties": {
    "brandName":            {"type": "string", "pattern": "\\S"},
    "contactName":          {"type": "string", "pattern": "\\S"},
    "contactEmail":         {"type": "string", "format": "email-address"},
    "industry":             {"type": "string", "minLength": 1},
    "websiteUrl":           {"type": "string", "format": "optional-url"},
    "monthlyVolume":        {"type": "integer", "minimum": 1},
    "productTypes":         {"type": "array", "minItems": 1},
    "preferredLocations":   {"type": "array", "minItems": 1},
    "maxReceivingTime":     {"type": "integer", "minimum": 0, "maximum": 30},
    "minOrderAccuracy":     {"anyOf": [{"enum": [0]}, {"type": "integer", "minimum": 90, "maximum": 100}]},
    "minInventoryAccuracy": {"anyOf": [{"enum": [0]}, {"type": "integer", "minimum": 90, "maximum": 100}]}
  }
}`)

var brandMessages = map[string]string{
	"brandName":            "Brand name is required",
	"contactName":          "Contact name is required",
	"contactEmail":         "Please enter a valid email address",
	"industry":             "Industry is required",
	"websiteUrl":           "Please enter a valid URL",
	"monthlyVolume":        "Monthly volume must be at least 1 unit",
	"productTypes":         "Please select at least one product type",
	"preferredLocations":   "Please select at least one preferred location",
	"maxReceivingTime":     "Receiving time must be between 1 and 30 days",
	"minOrderAccuracy":     "Order accuracy must be between 90% and 100%",
	"minInventoryAccuracy": "Inventory accuracy must be between 90% and 100%",
}

// BrandSteps groups brand wizard fields by step.
var BrandSteps = map[string][]string{
	"brand-info": {
		"brandName", "contactName", "contactEmail", "phone", "industry", "websiteUrl",
		"monthlyVolume", "averageOrderValue", "productTypes", "preferredLocations",
	},
	"requirements": {"requirements"},
	"integrations": {"requiredIntegrations", "currentPlatform", "currentWms"},
	"performance": {
		"requiredShippingSpeed", "maxReceivingTime", "minOrderAccuracy",
		"minInventoryAccuracy", "requiresRealTimeTracking",
	},
	"budget": {
		"budgetRange", "maxSetupFee", "preferNoLongTermContract",
		"requiresTransparentPricing", "requiresDedicatedManager", "requires24x7Support",
	},
	"additional": {"specialRequirements", "timelineToStart"},
}

// ValidateBrand checks the whole brand form.
func ValidateBrand(form BrandForm) (*Result, error) {
	res, err := brandSchema.Validate(form.normalized())
	if err != nil {
		return nil, err
	}

	out := newResult()
	for _, e := range res.Errors {
		field := topLevel(e.Field)
		msg, ok := brandMessages[field]
		if !ok {
			continue
		}
		if field == "contactEmail" && strings.TrimSpace(form.ContactEmail) == "" {
			msg = "Contact email is required"
		}
		out.add(field, msg)
	}
	return out, nil
}

// normalized replaces nil slices so the schema sees arrays, not nulls.
func (f BrandForm) normalized() BrandForm {
	if f.ProductTypes == nil {
		f.ProductTypes = []string{}
	}
	if f.PreferredLocations == nil {
		f.PreferredLocations = []string{}
	}
	return f
}

// Flags returns the brand's capability requirements keyed by registry key.
// The real-time tracking preference is collected on the performance step
// but scored like any other capability.
func (f BrandForm) Flags() matching.Flags {
	flags := matching.Flags{}
	for key, on := range f.Requirements {
		if on {
			flags[key] = true
		}
	}
	if f.RequiresRealTimeTracking {
		flags[registry.RealTimeTracking] = true
	}
	return flags
}

// ToProfile builds the matching input for this form.
func (f BrandForm) ToProfile(id string) matching.BrandProfile {
	return matching.BrandProfile{
		ID:   id,
		Name: strings.TrimSpace(f.BrandName),
		Requirements: matching.Requirements{
			Flags:              f.Flags(),
			MonthlyVolume:      nonNegative(f.MonthlyVolume),
			PreferredLocations: append([]string(nil), f.PreferredLocations...),
		},
	}
}

// ToModels converts the form into persisted records.
func (f BrandForm) ToModels(brandID, userID string) (models.Brand, models.BrandRequirements) {
	brand := models.Brand{
		ID:                  brandID,
		UserID:              userID,
		BrandName:           strings.TrimSpace(f.BrandName),
		ContactName:         strings.TrimSpace(f.ContactName),
		ContactEmail:        strings.TrimSpace(f.ContactEmail),
		Phone:               f.Phone,
		Industry:            f.Industry,
		WebsiteURL:          f.WebsiteURL,
		MonthlyVolume:       f.MonthlyVolume,
		AverageOrderValue:   f.AverageOrderValue,
		ProductTypes:        f.ProductTypes,
		PreferredLocations:  f.PreferredLocations,
		CurrentPlatform:     f.CurrentPlatform,
		CurrentWMS:          f.CurrentWMS,
		BudgetRange:         f.BudgetRange,
		MaxSetupFee:         f.MaxSetupFee,
		TimelineToStart:     f.TimelineToStart,
		SpecialRequirements: f.SpecialRequirements,
		Status:              models.BrandStatusActive,
	}
	req := models.BrandRequirements{
		BrandID:                    brandID,
		Flags:                      f.Flags(),
		RequiredIntegrations:       f.RequiredIntegrations,
		RequiredShippingSpeed:      f.RequiredShippingSpeed,
		MaxReceivingTime:           f.MaxReceivingTime,
		MinOrderAccuracy:           f.MinOrderAccuracy,
		MinInventoryAccuracy:       f.MinInventoryAccuracy,
		PreferNoLongTermContract:   f.PreferNoLongTermContract,
		RequiresTransparentPricing: f.RequiresTransparentPricing,
		RequiresDedicatedManager:   f.RequiresDedicatedManager,
		Requires24x7Support:        f.Requires24x7Support,
	}
	return brand, req
}

func topLevel(field string) string {
	if i := strings.IndexByte(field, '.'); i >= 0 {
		return field[:i]
	}
	return field
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
