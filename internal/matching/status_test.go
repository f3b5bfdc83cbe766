// internal/matching/status_test.go
package matching

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusNew, StatusContacted},
		{StatusContacted, StatusInDiscussion},
		{StatusInDiscussion, StatusMatched},
		{StatusInDiscussion, StatusRejected},
	}
	for _, tt := range allowed {
		got, err := Transition(tt.from, tt.to)
		require.NoError(t, err, "%s -> %s", tt.from, tt.to)
		assert.Equal(t, tt.to, got)
	}

	rejected := []struct{ from, to Status }{
		{StatusNew, StatusNew},
		{StatusNew, StatusMatched},
		{StatusNew, StatusInDiscussion},
		{StatusContacted, StatusNew},
		{StatusContacted, StatusRejected},
		{StatusMatched, StatusRejected},
		{StatusRejected, StatusNew},
		{StatusInDiscussion, StatusInDiscussion},
	}
	for _, tt := range rejected {
		got, err := Transition(tt.from, tt.to)
		assert.True(t, errors.Is(err, ErrInvalidTransition), "%s -> %s", tt.from, tt.to)
		assert.Equal(t, tt.from, got)
	}
}

func TestStatus_TerminalAndNext(t *testing.T) {
	assert.True(t, StatusMatched.Terminal())
	assert.True(t, StatusRejected.Terminal())
	assert.False(t, StatusInDiscussion.Terminal())

	assert.Equal(t, []Status{StatusMatched, StatusRejected}, StatusInDiscussion.Next())
	assert.Empty(t, StatusMatched.Next())

	next := StatusNew.Next()
	next[0] = StatusRejected
	assert.Equal(t, []Status{StatusContacted}, StatusNew.Next())
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("in_discussion")
	require.NoError(t, err)
	assert.Equal(t, StatusInDiscussion, st)

	st, err = ParseStatus("")
	require.NoError(t, err)
	assert.Equal(t, StatusNew, st)

	_, err = ParseStatus("archived")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestApplyStatuses(t *testing.T) {
	results := []MatchResult{
		{BrandID: "b1", ProviderID: "p1", MatchScore: 90, Status: StatusNew},
		{BrandID: "b1", ProviderID: "p2", MatchScore: 70, Status: StatusNew},
	}
	merged := ApplyStatuses(results, map[PairKey]Status{
		{BrandID: "b1", ProviderID: "p2"}: StatusContacted,
	})

	assert.Equal(t, StatusNew, merged[0].Status)
	assert.Equal(t, StatusContacted, merged[1].Status)
	assert.Equal(t, StatusNew, results[1].Status)
}
