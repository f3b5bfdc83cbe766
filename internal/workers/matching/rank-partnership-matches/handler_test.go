// internal/workers/matching/rank-partnership-matches/handler_test.go
package rankpartnershipmatches

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"onboarding-workers/internal/common/camunda/camundatest"
	"onboarding-workers/internal/common/logger"
	"onboarding-workers/internal/matching"
	"onboarding-workers/internal/store"
	"onboarding-workers/pkg/registry"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) ListBrandProfiles(ctx context.Context) ([]matching.BrandProfile, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]matching.BrandProfile)
	return list, args.Error(1)
}

func (m *mockStore) ListProviderProfiles(ctx context.Context) ([]matching.ProviderProfile, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]matching.ProviderProfile)
	return list, args.Error(1)
}

func (m *mockStore) GetBrandProfile(ctx context.Context, id string) (*matching.BrandProfile, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*matching.BrandProfile)
	return p, args.Error(1)
}

func (m *mockStore) GetProviderProfile(ctx context.Context, id string) (*matching.ProviderProfile, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*matching.ProviderProfile)
	return p, args.Error(1)
}

func (m *mockStore) GetMatchStatuses(ctx context.Context, f store.StatusFilter) (map[matching.PairKey]matching.Status, error) {
	args := m.Called(ctx, f)
	st, _ := args.Get(0).(map[matching.PairKey]matching.Status)
	return st, args.Error(1)
}

var (
	eco = matching.BrandProfile{
		ID:   "brand-eco",
		Name: "EcoBeauty",
		Requirements: matching.Requirements{
			Flags: matching.Flags{
				registry.TemperatureControlled: true,
				registry.FBAPrep:               true,
				registry.RealTimeTracking:      true,
			},
			MonthlyVolume:      2500,
			PreferredLocations: []string{"Los Angeles"},
		},
	}
	bulk = matching.BrandProfile{
		ID:   "brand-bulk",
		Name: "BulkChem",
		Requirements: matching.Requirements{
			Flags:         matching.Flags{registry.HazmatSupport: true},
			MonthlyVolume: 500,
		},
	}
	logiFlow = matching.ProviderProfile{
		ID:   "3pl-logiflow",
		Name: "LogiFlow",
		Capabilities: matching.Capabilities{
			Flags: matching.Flags{
				registry.TemperatureControlled: true,
				registry.FBAPrep:               true,
				registry.RealTimeTracking:      true,
			},
			MinimumVolume: 1000,
			Location:      "Los Angeles, CA",
		},
	}
	coldChain = matching.ProviderProfile{
		ID:   "3pl-cold",
		Name: "ColdChain",
		Capabilities: matching.Capabilities{
			Flags: matching.Flags{
				registry.TemperatureControlled: true,
				registry.FBAPrep:               true,
				registry.HazmatSupport:         true,
			},
			MinimumVolume: 100,
			Location:      "Seattle, WA",
		},
	}
)

func fullStore() *mockStore {
	m := &mockStore{}
	m.On("ListBrandProfiles", mock.Anything).Return([]matching.BrandProfile{eco, bulk}, nil)
	m.On("ListProviderProfiles", mock.Anything).Return([]matching.ProviderProfile{logiFlow, coldChain}, nil)
	m.On("GetMatchStatuses", mock.Anything, store.StatusFilter{}).Return(map[matching.PairKey]matching.Status{
		{BrandID: "brand-eco", ProviderID: "3pl-cold"}: matching.StatusContacted,
	}, nil)
	return m
}

func newTestHandler(t *testing.T, st Store) *Handler {
	return NewHandler(&Config{Timeout: 5 * time.Second, MaxResults: 100}, matching.NewEngine(nil), st, logger.NewTestLogger(t))
}

func pairs(results []matching.MatchResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.BrandID + "/" + r.ProviderID
	}
	return out
}

func TestExecute_RanksAllPairs(t *testing.T) {
	st := fullStore()
	h := newTestHandler(t, st)

	out, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)

	assert.Equal(t, []string{"brand-eco/3pl-logiflow", "brand-bulk/3pl-cold", "brand-eco/3pl-cold"}, pairs(out.Matches))
	assert.Equal(t, []int{100, 67, 60}, []int{out.Matches[0].MatchScore, out.Matches[1].MatchScore, out.Matches[2].MatchScore})
	assert.Equal(t, matching.StatusContacted, out.Matches[2].Status)
	assert.Equal(t, matching.StatusNew, out.Matches[0].Status)
	assert.Equal(t, 3, out.Total)
	assert.False(t, out.Truncated)
	assert.Equal(t, 1, out.Summary.High)
	assert.Equal(t, 2, out.Summary.Medium)
	assert.Equal(t, 1, out.Summary.ByStatus[matching.StatusContacted])
	st.AssertExpectations(t)
}

func TestExecute_LimitAndTier(t *testing.T) {
	t.Run("limit truncates after summary", func(t *testing.T) {
		out, err := newTestHandler(t, fullStore()).Execute(context.Background(), &Input{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, out.Matches, 2)
		assert.Equal(t, 3, out.Total)
		assert.True(t, out.Truncated)
		assert.Equal(t, 3, out.Summary.Total)
	})

	t.Run("min tier filters", func(t *testing.T) {
		out, err := newTestHandler(t, fullStore()).Execute(context.Background(), &Input{MinTier: matching.TierHigh})
		require.NoError(t, err)
		assert.Equal(t, []string{"brand-eco/3pl-logiflow"}, pairs(out.Matches))
	})
}

func TestExecute_SingleBrand(t *testing.T) {
	st := &mockStore{}
	st.On("GetBrandProfile", mock.Anything, "brand-eco").Return(&eco, nil)
	st.On("ListProviderProfiles", mock.Anything).Return([]matching.ProviderProfile{logiFlow, coldChain}, nil)
	st.On("GetMatchStatuses", mock.Anything, store.StatusFilter{BrandID: "brand-eco"}).
		Return(map[matching.PairKey]matching.Status{}, nil)

	out, err := newTestHandler(t, st).Execute(context.Background(), &Input{BrandID: "brand-eco"})
	require.NoError(t, err)
	assert.Equal(t, []string{"brand-eco/3pl-logiflow", "brand-eco/3pl-cold"}, pairs(out.Matches))
	st.AssertExpectations(t)
	st.AssertNotCalled(t, "ListBrandProfiles", mock.Anything)
}

func TestHandle_CompletesWithMatches(t *testing.T) {
	client := camundatest.NewJobClient()
	newTestHandler(t, fullStore()).Handle(client, camundatest.Job(1, TaskType, Input{Limit: 1}))

	vars := client.CompletedVariables()
	require.NotNil(t, vars)
	assert.Equal(t, float64(3), vars["total"])
	assert.Equal(t, true, vars["truncated"])
	assert.Len(t, vars["matches"], 1)
}

func TestHandle_Errors(t *testing.T) {
	t.Run("unknown provider", func(t *testing.T) {
		st := &mockStore{}
		st.On("ListBrandProfiles", mock.Anything).Return([]matching.BrandProfile{eco}, nil)
		st.On("GetProviderProfile", mock.Anything, "ghost").Return(nil, store.ErrNotFound)
		client := camundatest.NewJobClient()

		newTestHandler(t, st).Handle(client, camundatest.Job(2, TaskType, Input{ProviderID: "ghost"}))
		assert.Equal(t, "PROFILE_NOT_FOUND", client.ThrownCode())
	})

	t.Run("negative limit", func(t *testing.T) {
		client := camundatest.NewJobClient()
		newTestHandler(t, &mockStore{}).Handle(client, camundatest.Job(3, TaskType, Input{Limit: -1}))
		assert.Equal(t, "VALIDATION_FAILED", client.ThrownCode())
	})

	t.Run("bad tier", func(t *testing.T) {
		client := camundatest.NewJobClient()
		newTestHandler(t, &mockStore{}).Handle(client, camundatest.Job(4, TaskType, Input{MinTier: "gold"}))
		assert.Equal(t, "VALIDATION_FAILED", client.ThrownCode())
	})

	t.Run("status query failure is retried", func(t *testing.T) {
		st := &mockStore{}
		st.On("ListBrandProfiles", mock.Anything).Return([]matching.BrandProfile{eco}, nil)
		st.On("ListProviderProfiles", mock.Anything).Return([]matching.ProviderProfile{logiFlow}, nil)
		st.On("GetMatchStatuses", mock.Anything, store.StatusFilter{}).Return(nil, stderrors.New("connection reset"))
		client := camundatest.NewJobClient()

		newTestHandler(t, st).Handle(client, camundatest.Job(5, TaskType, Input{}))
		require.Len(t, client.Failed(), 1)
		assert.Equal(t, int32(2), client.Failed()[0].Retries)
	})
}
