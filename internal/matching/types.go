// internal/matching/types.go
package matching

// Flags maps a capability key to whether it is required (brand side) or
// supported (provider side). Missing keys read as false.
type Flags map[string]bool

type Requirements struct {
	Flags              Flags    `json:"flags"`
	MonthlyVolume      int      `json:"monthlyVolume"`
	PreferredLocations []string `json:"preferredLocations"`
}

type Capabilities struct {
	Flags         Flags  `json:"flags"`
	MinimumVolume int    `json:"minimumVolume"`
	Location      string `json:"location"`
}

type BrandProfile struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Requirements Requirements `json:"requirements"`
}

type ProviderProfile struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Capabilities Capabilities `json:"capabilities"`
}

// MatchResult is derived from one brand/provider pair. It is recomputed
// whenever either profile changes and is never stored.
type MatchResult struct {
	BrandID          string   `json:"brandId"`
	ProviderID       string   `json:"providerId"`
	BrandName        string   `json:"brandName,omitempty"`
	ProviderName     string   `json:"providerName,omitempty"`
	MatchScore       int      `json:"matchScore"`
	MatchingCriteria []string `json:"matchingCriteria"`
	MissingCriteria  []string `json:"missingCriteria"`
	LocationMatch    bool     `json:"locationMatch"`
	VolumeMatch      bool     `json:"volumeMatch"`
	Status           Status   `json:"status"`
	Tier             Tier     `json:"tier"`
}

// PairKey identifies a brand/provider pair.
type PairKey struct {
	BrandID    string
	ProviderID string
}

func (r MatchResult) Key() PairKey {
	return PairKey{BrandID: r.BrandID, ProviderID: r.ProviderID}
}
