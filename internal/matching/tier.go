// internal/matching/tier.go
package matching

type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

func TierFor(score int) Tier {
	switch {
	case score >= 80:
		return TierHigh
	case score >= 60:
		return TierMedium
	default:
		return TierLow
	}
}

// Summary counts surfaced matches for dashboards.
type Summary struct {
	Total        int            `json:"total"`
	High         int            `json:"high"`
	Medium       int            `json:"medium"`
	Low          int            `json:"low"`
	AverageScore float64        `json:"averageScore"`
	ByStatus     map[Status]int `json:"byStatus"`
}

func Summarize(results []MatchResult) Summary {
	s := Summary{ByStatus: make(map[Status]int)}
	sum := 0
	for _, r := range results {
		s.Total++
		sum += r.MatchScore
		switch TierFor(r.MatchScore) {
		case TierHigh:
			s.High++
		case TierMedium:
			s.Medium++
		default:
			s.Low++
		}
		s.ByStatus[r.Status]++
	}
	if s.Total > 0 {
		s.AverageScore = float64(sum) / float64(s.Total)
	}
	return s
}
