// internal/forms/provider.go
package forms

import (
	"strings"

	"onboarding-workers/internal/common/validation"
	"onboarding-workers/internal/matching"
	"onboarding-workers/internal/models"
	"onboarding-workers/pkg/registry"
)

// ProviderForm is the 3PL application wizard payload. Media is submitted as
// URLs; uploads happen before the form reaches this service.
type ProviderForm struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	CompanyName string `json:"companyName"`
	WebsiteURL  string `json:"websiteUrl"`
	Location    string `json:"location"`

	TemperatureControlled         bool     `json:"temperatureControlled"`
	TemperatureTypes              []string `json:"temperatureTypes"`
	SupportsHazmat                bool     `json:"supportsHazmat"`
	SupportsFbaPrep               bool     `json:"supportsFbaProp"`
	HandlesReturns                bool     `json:"handlesReturns"`
	OffersKitting                 bool     `json:"offersKitting"`
	OffersSubscriptionFulfillment bool     `json:"offersSubscriptionFulfillment"`
	OffersSameDayShipping         bool     `json:"offersSameDayShipping"`
	SupportsEdi                   bool     `json:"supportsEdi"`
	SupportsB2b                   bool     `json:"supportsB2b"`
	B2bTypes                      []string `json:"b2bTypes"`
	MinimumOrderVolume            int      `json:"minimumOrderVolume"`

	FdaRegistered         bool     `json:"fdaRegistered"`
	HasLiabilityInsurance bool     `json:"hasLiabilityInsurance"`
	Certifications        []string `json:"certifications"`
	OtherCertification    string   `json:"otherCertification"`

	WmsSystem                  string   `json:"wmsSystem"`
	OtherWms                   string   `json:"otherWms"`
	HasClientPortal            bool     `json:"hasClientPortal"`
	Integrations               []string `json:"integrations"`
	HasProprietarySoftware     bool     `json:"hasProprietarySoftware"`
	ProprietarySoftwareDetails string   `json:"proprietarySoftwareDetails"`
	Carriers                   []string `json:"carriers"`

	AverageReceivingTime int    `json:"averageReceivingTime"`
	MaxReceivingTime     int    `json:"maxReceivingTime"`
	NotifiesOnReceiving  bool   `json:"notifiesOnReceiving"`
	CutoffTime           string `json:"cutoffTime"`
	DtcSla               string `json:"dtcSla"`
	B2bSla               string `json:"b2bSla"`
	PeakSeasonSla        string `json:"peakSeasonSla"`

	ReturnsProcessingTime        int  `json:"returnsProcessingTime"`
	ProvidesBrandedReturnPortals bool `json:"providesBrandedReturnPortals"`

	OrderAccuracyRate        string `json:"orderAccuracyRate"`
	InventoryAccuracyRate    string `json:"inventoryAccuracyRate"`
	CycleCounting            string `json:"cycleCounting"`
	ProvidesRealTimeTracking bool   `json:"providesRealTimeTracking"`
	BillingFrequency         string `json:"billingFrequency"`
	HasOnboardingFees        bool   `json:"hasOnboardingFees"`
	TransparentFees          bool   `json:"transparentFees"`

	HasDedicatedManager       bool   `json:"hasDedicatedManager"`
	ResponseTime              string `json:"responseTime"`
	SupportHours              string `json:"supportHours"`
	HasWeekendSupport         bool   `json:"hasWeekendSupport"`
	RequiresLongTermContracts bool   `json:"requiresLongTermContracts"`
	ProvidesOnboardingSupport bool   `json:"providesOnboardingSupport"`
	HasStandardOnboarding     bool   `json:"hasStandardOnboarding"`

	References      []models.Reference `json:"references"`
	LogoURL         string             `json:"logoUrl"`
	WarehouseImages []string           `json:"warehouseImages"`
	IntroVideo      string             `json:"introVideo"`
}

var providerSchema = validation.MustCompile(`{
  "type": "object",
  "properties": {
    "email":              {"type": "string", "format": "optional-email"},
    "websiteUrl":         {"type": "string", "format": "optional-url"},
    "minimumOrderVolume": {"type": "integer", "minimum": 11, "maximum": 99999},
    "introVideo":         {"type": "string", "format": "optional-url"},
    "references": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "website":      {"type": "string", "format": "optional-url"},
          "contactEmail": {"type": "string", "format": "optional-email"}
        }
      }
    }
  }
}`)

var providerMessages = map[string]string{
	"email":              "Please enter a valid email address",
	"websiteUrl":         "Please enter a valid URL",
	"minimumOrderVolume": "Minimum order volume must be between 11 and 99,999 units",
	"introVideo":         "Please enter a valid URL for the video",
	"website":            "Please enter a valid URL",
	"contactEmail":       "Please enter a valid email address",
}

// ProviderSteps groups 3PL wizard fields by section.
var ProviderSteps = map[string][]string{
	"contact": {"firstName", "lastName", "email", "phone", "companyName", "websiteUrl", "location"},
	"capabilities": {
		"temperatureControlled", "temperatureTypes", "supportsHazmat", "supportsFbaProp",
		"handlesReturns", "offersKitting", "offersSubscriptionFulfillment",
		"offersSameDayShipping", "supportsEdi", "supportsB2b", "b2bTypes", "minimumOrderVolume",
	},
	"compliance": {"fdaRegistered", "hasLiabilityInsurance", "certifications", "otherCertification"},
	"tech": {
		"wmsSystem", "otherWms", "hasClientPortal", "integrations",
		"hasProprietarySoftware", "proprietarySoftwareDetails", "carriers",
	},
	"references": {"references"},
	"media":      {"logoUrl", "warehouseImages", "introVideo"},
}

// ValidateProvider checks the whole 3PL form.
func ValidateProvider(form ProviderForm) (*Result, error) {
	res, err := providerSchema.Validate(form)
	if err != nil {
		return nil, err
	}

	out := newResult()
	for _, e := range res.Errors {
		field := e.Field
		key := field
		if strings.HasPrefix(field, "references.") {
			// references.<i>.<name>
			parts := strings.Split(field, ".")
			if len(parts) != 3 {
				continue
			}
			key = parts[2]
		}
		msg, ok := providerMessages[key]
		if !ok {
			continue
		}
		out.add(field, msg)
	}

	if form.TemperatureControlled && len(form.TemperatureTypes) == 0 {
		out.add("temperatureTypes", "Please select at least one temperature control type")
	}
	if form.SupportsB2b && len(form.B2bTypes) == 0 {
		out.add("b2bTypes", "Please select at least one B2B type")
	}
	if contains(form.Certifications, "other") && form.OtherCertification == "" {
		out.add("otherCertification", "Please specify the other certification")
	}
	if form.WmsSystem == "other" && form.OtherWms == "" {
		out.add("otherWms", "Please specify the other WMS system")
	}
	if form.HasProprietarySoftware && form.ProprietarySoftwareDetails == "" {
		out.add("proprietarySoftwareDetails", "Please provide details about your proprietary software")
	}
	return out, nil
}

// Flags maps the form's capability checkboxes onto registry keys.
func (f ProviderForm) Flags() matching.Flags {
	return matching.Flags{
		registry.TemperatureControlled:   f.TemperatureControlled,
		registry.HazmatSupport:           f.SupportsHazmat,
		registry.FBAPrep:                 f.SupportsFbaPrep,
		registry.ReturnsHandling:         f.HandlesReturns,
		registry.Kitting:                 f.OffersKitting,
		registry.SubscriptionFulfillment: f.OffersSubscriptionFulfillment,
		registry.SameDayShipping:         f.OffersSameDayShipping,
		registry.B2BSupport:              f.SupportsB2b,
		registry.EDISupport:              f.SupportsEdi,
		registry.ClientPortal:            f.HasClientPortal,
		registry.RealTimeTracking:        f.ProvidesRealTimeTracking,
	}
}

func (f ProviderForm) DisplayName() string {
	if name := strings.TrimSpace(f.CompanyName); name != "" {
		return name
	}
	return "Unnamed Company"
}

func (f ProviderForm) ToProfile(id string) matching.ProviderProfile {
	return matching.ProviderProfile{
		ID:   id,
		Name: f.DisplayName(),
		Capabilities: matching.Capabilities{
			Flags:         f.Flags(),
			MinimumVolume: nonNegative(f.MinimumOrderVolume),
			Location:      f.Location,
		},
	}
}

// ToModels converts the form into persisted records. Everything not scored
// goes into the capability details document.
func (f ProviderForm) ToModels(companyID, userID string) (models.Company, models.ProviderCapabilities) {
	company := models.Company{
		ID:                  companyID,
		UserID:              userID,
		CompanyName:         f.DisplayName(),
		ContactName:         strings.TrimSpace(f.FirstName + " " + f.LastName),
		Email:               f.Email,
		Phone:               f.Phone,
		WebsiteURL:          f.WebsiteURL,
		HeadquartersAddress: f.Location,
	}
	caps := models.ProviderCapabilities{
		CompanyID:     companyID,
		Flags:         f.Flags(),
		MinimumVolume: f.MinimumOrderVolume,
		Location:      f.Location,
		Details: map[string]interface{}{
			"temperatureTypes": f.TemperatureTypes,
			"b2bTypes":         f.B2bTypes,
			"compliance": map[string]interface{}{
				"fdaRegistered":         f.FdaRegistered,
				"hasLiabilityInsurance": f.HasLiabilityInsurance,
				"certifications":        f.Certifications,
				"otherCertification":    f.OtherCertification,
			},
			"techStack": map[string]interface{}{
				"wmsSystem":                  f.WmsSystem,
				"otherWms":                   f.OtherWms,
				"integrations":               f.Integrations,
				"hasProprietarySoftware":     f.HasProprietarySoftware,
				"proprietarySoftwareDetails": f.ProprietarySoftwareDetails,
				"carriers":                   f.Carriers,
			},
			"performance": map[string]interface{}{
				"averageReceivingTime":         f.AverageReceivingTime,
				"maxReceivingTime":             f.MaxReceivingTime,
				"notifiesOnReceiving":          f.NotifiesOnReceiving,
				"cutoffTime":                   f.CutoffTime,
				"dtcSla":                       f.DtcSla,
				"b2bSla":                       f.B2bSla,
				"peakSeasonSla":                f.PeakSeasonSla,
				"returnsProcessingTime":        f.ReturnsProcessingTime,
				"providesBrandedReturnPortals": f.ProvidesBrandedReturnPortals,
				"orderAccuracyRate":            f.OrderAccuracyRate,
				"inventoryAccuracyRate":        f.InventoryAccuracyRate,
				"cycleCounting":                f.CycleCounting,
				"billingFrequency":             f.BillingFrequency,
				"hasOnboardingFees":            f.HasOnboardingFees,
				"transparentFees":              f.TransparentFees,
			},
			"support": map[string]interface{}{
				"hasDedicatedManager":       f.HasDedicatedManager,
				"responseTime":              f.ResponseTime,
				"supportHours":              f.SupportHours,
				"hasWeekendSupport":         f.HasWeekendSupport,
				"requiresLongTermContracts": f.RequiresLongTermContracts,
				"providesOnboardingSupport": f.ProvidesOnboardingSupport,
				"hasStandardOnboarding":     f.HasStandardOnboarding,
			},
			"references": f.References,
			"media": map[string]interface{}{
				"logoUrl":         f.LogoURL,
				"warehouseImages": f.WarehouseImages,
				"introVideo":      f.IntroVideo,
			},
		},
	}
	return company, caps
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
