// internal/workers/matching/score-partnership-pair/models.go
package scorepartnershippair

import "onboarding-workers/internal/matching"

// Input names the pair by ID, or carries either profile inline. An inline
// profile wins over its ID.
type Input struct {
	BrandID          string                    `json:"brandId,omitempty"`
	ProviderID       string                    `json:"providerId,omitempty"`
	Brand            *matching.BrandProfile    `json:"brand,omitempty"`
	Provider         *matching.ProviderProfile `json:"provider,omitempty"`
	RequireQualified bool                      `json:"requireQualified,omitempty"`
}

type Output struct {
	Match     matching.MatchResult `json:"match"`
	Qualifies bool                 `json:"qualifies"`
	Tier      matching.Tier        `json:"tier"`
}
