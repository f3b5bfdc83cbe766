// internal/matching/engine.go
package matching

import (
	"sort"
	"strings"
	"unicode"

	"onboarding-workers/pkg/registry"
)

const (
	// Cutoff is exclusive: a pair must score above it to be surfaced.
	Cutoff = 40

	VolumeCriterion   = "Volume Requirements"
	LocationCriterion = "Location Preference"
)

// Engine scores brand/provider pairs against a capability vocabulary. It
// holds no mutable state and is safe for concurrent use.
type Engine struct {
	registry *registry.CapabilityRegistry
}

// NewEngine uses reg for labels and criterion order, or the default
// vocabulary when reg is nil.
func NewEngine(reg *registry.CapabilityRegistry) *Engine {
	if reg == nil {
		reg = registry.Default()
	}
	return &Engine{registry: reg}
}

func (e *Engine) Registry() *registry.CapabilityRegistry {
	return e.registry
}

// ScorePair computes the match between one brand and one provider.
//
// Every flag the brand requires is one criterion, reported under its label
// as matching or missing. Volume is always one criterion. Location adds to
// matching when it hits and is silently skipped when it misses, but it is
// always counted in the denominator.
func (e *Engine) ScorePair(brand BrandProfile, provider ProviderProfile) MatchResult {
	req := brand.Requirements
	caps := provider.Capabilities

	required := e.requiredKeys(req.Flags)
	matching := make([]string, 0, len(required)+2)
	missing := make([]string, 0, len(required)+1)

	for _, key := range required {
		if caps.Flags[key] {
			matching = append(matching, e.registry.Label(key))
		} else {
			missing = append(missing, e.registry.Label(key))
		}
	}

	volumeMatch := req.MonthlyVolume >= caps.MinimumVolume
	if volumeMatch {
		matching = append(matching, VolumeCriterion)
	} else {
		missing = append(missing, VolumeCriterion)
	}

	locationMatch := LocationMatches(req.PreferredLocations, caps.Location, e.registry.Regions)
	if locationMatch {
		matching = append(matching, LocationCriterion)
	}

	score := percent(len(matching), len(required)+2)

	return MatchResult{
		BrandID:          brand.ID,
		ProviderID:       provider.ID,
		BrandName:        brand.Name,
		ProviderName:     provider.Name,
		MatchScore:       score,
		MatchingCriteria: matching,
		MissingCriteria:  missing,
		LocationMatch:    locationMatch,
		VolumeMatch:      volumeMatch,
		Status:           StatusNew,
		Tier:             TierFor(score),
	}
}

// ScoreAll scores the full cross product and returns the pairs above the
// cutoff, best first. Equal scores are ordered by brand ID, then provider ID.
func (e *Engine) ScoreAll(brands []BrandProfile, providers []ProviderProfile) []MatchResult {
	results := make([]MatchResult, 0)
	for _, b := range brands {
		for _, p := range providers {
			r := e.ScorePair(b, p)
			if Qualifies(r.MatchScore) {
				results = append(results, r)
			}
		}
	}
	SortResults(results)
	return results
}

// SortResults orders results by descending score with the ID tiebreak.
func SortResults(results []MatchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.MatchScore != b.MatchScore {
			return a.MatchScore > b.MatchScore
		}
		if a.BrandID != b.BrandID {
			return a.BrandID < b.BrandID
		}
		return a.ProviderID < b.ProviderID
	})
}

func Qualifies(score int) bool {
	return score > Cutoff
}

// LocationMatches reports whether the first word of any preferred location
// occurs, case-insensitively, in the provider's location. When that word
// names a region, a location mentioning one of the region's states also
// matches. Blank preferences never match.
func LocationMatches(preferred []string, location string, regions map[string][]string) bool {
	loc := strings.ToLower(location)
	if loc == "" {
		return false
	}
	tokens := locationTokens(loc)
	for _, pref := range preferred {
		words := strings.Fields(strings.ToLower(pref))
		if len(words) == 0 {
			continue
		}
		if strings.Contains(loc, words[0]) {
			return true
		}
		for _, member := range regions[words[0]] {
			if regionMember(strings.ToLower(member), loc, tokens) {
				return true
			}
		}
	}
	return false
}

// regionMember matches two-letter codes as whole words and names as
// substrings, so "ca" does not hit "chicago".
func regionMember(member, loc string, tokens map[string]struct{}) bool {
	if member == "" {
		return false
	}
	if len(member) <= 2 {
		_, ok := tokens[member]
		return ok
	}
	return strings.Contains(loc, member)
}

func locationTokens(loc string) map[string]struct{} {
	words := strings.FieldsFunc(loc, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		out[w] = struct{}{}
	}
	return out
}

// requiredKeys returns the brand's true flags: registry keys in registry
// order, then unknown keys sorted.
func (e *Engine) requiredKeys(flags Flags) []string {
	type ranked struct {
		key   string
		index int
		known bool
	}
	keys := make([]ranked, 0, len(flags))
	for key, on := range flags {
		if !on {
			continue
		}
		i, known := e.registry.Index(key)
		keys = append(keys, ranked{key: key, index: i, known: known})
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.known != b.known {
			return a.known
		}
		if a.known {
			return a.index < b.index
		}
		return a.key < b.key
	})

	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.key
	}
	return out
}

// percent is round(100*n/d) with halves rounded away from zero. d > 0.
func percent(n, d int) int {
	return (200*n + d) / (2 * d)
}
