// internal/matching/tier_test.go
package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierFor(t *testing.T) {
	tests := []struct {
		score int
		want  Tier
	}{
		{100, TierHigh},
		{80, TierHigh},
		{79, TierMedium},
		{60, TierMedium},
		{59, TierLow},
		{41, TierLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TierFor(tt.score), "score %d", tt.score)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]MatchResult{
		{MatchScore: 100, Status: StatusNew},
		{MatchScore: 67, Status: StatusContacted},
		{MatchScore: 50, Status: StatusNew},
	})
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 1, s.High)
	assert.Equal(t, 1, s.Medium)
	assert.Equal(t, 1, s.Low)
	assert.InDelta(t, 72.33, s.AverageScore, 0.01)
	assert.Equal(t, 2, s.ByStatus[StatusNew])

	empty := Summarize(nil)
	assert.Zero(t, empty.Total)
	assert.Zero(t, empty.AverageScore)
}
