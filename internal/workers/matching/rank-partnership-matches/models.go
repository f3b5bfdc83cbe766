// internal/workers/matching/rank-partnership-matches/models.go
package rankpartnershipmatches

import "onboarding-workers/internal/matching"

// Input optionally narrows ranking to one brand or one provider.
type Input struct {
	BrandID    string        `json:"brandId,omitempty"`
	ProviderID string        `json:"providerId,omitempty"`
	Limit      int           `json:"limit,omitempty"`
	MinTier    matching.Tier `json:"minTier,omitempty"`
}

type Output struct {
	Matches   []matching.MatchResult `json:"matches"`
	Total     int                    `json:"total"`
	Truncated bool                   `json:"truncated"`
	Summary   matching.Summary       `json:"summary"`
}
