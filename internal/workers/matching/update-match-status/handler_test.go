// internal/workers/matching/update-match-status/handler_test.go
package updatematchstatus

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"onboarding-workers/internal/common/camunda/camundatest"
	"onboarding-workers/internal/common/errors"
	"onboarding-workers/internal/common/logger"
	"onboarding-workers/internal/matching"
	"onboarding-workers/internal/models"
	"onboarding-workers/internal/store"
	"onboarding-workers/pkg/registry"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetMatchStatus(ctx context.Context, brandID, companyID string) (matching.Status, error) {
	args := m.Called(ctx, brandID, companyID)
	return args.Get(0).(matching.Status), args.Error(1)
}

func (m *mockStore) SaveMatchStatus(ctx context.Context, rec models.MatchStatusRecord, from matching.Status) error {
	return m.Called(ctx, rec, from).Error(0)
}

func (m *mockStore) RecordAudit(ctx context.Context, e models.AuditEntry) (string, error) {
	args := m.Called(ctx, e)
	return args.String(0), args.Error(1)
}

type fakeProfiles struct {
	brands    map[string]matching.BrandProfile
	providers map[string]matching.ProviderProfile
}

func (f *fakeProfiles) GetBrandProfile(_ context.Context, id string) (*matching.BrandProfile, error) {
	b, ok := f.brands[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &b, nil
}

func (f *fakeProfiles) GetProviderProfile(_ context.Context, id string) (*matching.ProviderProfile, error) {
	p, ok := f.providers[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func testProfiles() *fakeProfiles {
	return &fakeProfiles{
		brands: map[string]matching.BrandProfile{
			"brand-eco": {
				ID: "brand-eco",
				Requirements: matching.Requirements{
					Flags:              matching.Flags{registry.FBAPrep: true, registry.RealTimeTracking: true},
					MonthlyVolume:      2500,
					PreferredLocations: []string{"West Coast"},
				},
			},
			"brand-hazmat": {
				ID: "brand-hazmat",
				Requirements: matching.Requirements{
					Flags:         matching.Flags{registry.HazmatSupport: true, registry.EDISupport: true, registry.Kitting: true},
					MonthlyVolume: 10,
				},
			},
		},
		providers: map[string]matching.ProviderProfile{
			"3pl-logiflow": {
				ID: "3pl-logiflow",
				Capabilities: matching.Capabilities{
					Flags:         matching.Flags{registry.FBAPrep: true, registry.RealTimeTracking: true},
					MinimumVolume: 1000,
					Location:      "Los Angeles, CA",
				},
			},
		},
	}
}

func newTestHandler(t *testing.T, st Store) *Handler {
	return NewHandler(&Config{Timeout: 5 * time.Second}, matching.NewEngine(nil), testProfiles(), st, logger.NewTestLogger(t))
}

func validInput(status string) Input {
	return Input{BrandID: "brand-eco", ProviderID: "3pl-logiflow", Status: status, UpdatedBy: "admin-1"}
}

func TestExecute_Transitions(t *testing.T) {
	tests := []struct {
		from     matching.Status
		to       string
		wantType models.NotificationType
		terminal bool
	}{
		{matching.StatusNew, "contacted", models.NotificationPartnershipRequest, false},
		{matching.StatusContacted, "in_discussion", models.NotificationPartnershipRequest, false},
		{matching.StatusInDiscussion, "matched", models.NotificationMatchFound, true},
		{matching.StatusInDiscussion, "rejected", models.NotificationSystemUpdate, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+tt.to, func(t *testing.T) {
			st := &mockStore{}
			st.On("GetMatchStatus", mock.Anything, "brand-eco", "3pl-logiflow").Return(tt.from, nil)
			st.On("SaveMatchStatus", mock.Anything, mock.MatchedBy(func(rec models.MatchStatusRecord) bool {
				return rec.Status == tt.to && rec.UpdatedBy == "admin-1" && rec.CompanyID == "3pl-logiflow"
			}), tt.from).Return(nil)
			st.On("RecordAudit", mock.Anything, mock.MatchedBy(func(e models.AuditEntry) bool {
				return e.Action == "match_status_changed" && e.EntityID == "brand-eco:3pl-logiflow"
			})).Return("audit-1", nil)

			in := validInput(tt.to)
			out, err := newTestHandler(t, st).Execute(context.Background(), &in)
			require.NoError(t, err)
			assert.Equal(t, tt.from, out.PreviousStatus)
			assert.Equal(t, matching.Status(tt.to), out.Status)
			assert.Equal(t, tt.wantType, out.NotificationType)
			assert.Equal(t, tt.terminal, out.Terminal)
			assert.Equal(t, "audit-1", out.AuditID)
			assert.Equal(t, 100, out.MatchScore)
			st.AssertExpectations(t)
		})
	}
}

func TestHandle_RejectsSkippedStep(t *testing.T) {
	st := &mockStore{}
	st.On("GetMatchStatus", mock.Anything, "brand-eco", "3pl-logiflow").Return(matching.StatusNew, nil)
	client := camundatest.NewJobClient()

	newTestHandler(t, st).Handle(client, camundatest.Job(1, TaskType, validInput("matched")))

	assert.Equal(t, "INVALID_STATUS_TRANSITION", client.ThrownCode())
	st.AssertNotCalled(t, "SaveMatchStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandle_ConcurrentWriterLoses(t *testing.T) {
	st := &mockStore{}
	st.On("GetMatchStatus", mock.Anything, "brand-eco", "3pl-logiflow").Return(matching.StatusNew, nil)
	st.On("SaveMatchStatus", mock.Anything, mock.Anything, matching.StatusNew).Return(store.ErrStatusConflict)
	client := camundatest.NewJobClient()

	newTestHandler(t, st).Handle(client, camundatest.Job(2, TaskType, validInput("contacted")))

	assert.Equal(t, "INVALID_STATUS_TRANSITION", client.ThrownCode())
}

func TestHandle_ValidationErrors(t *testing.T) {
	client := camundatest.NewJobClient()
	newTestHandler(t, &mockStore{}).Handle(client, camundatest.Job(3, TaskType, Input{Status: "archived"}))

	require.Equal(t, "VALIDATION_FAILED", client.ThrownCode())
	fields := client.ThrownVariables()["fieldErrors"].(map[string]interface{})
	assert.Contains(t, fields, "brandId")
	assert.Contains(t, fields, "providerId")
	assert.Contains(t, fields, "updatedBy")
	assert.Equal(t, "status must be contacted, in_discussion, matched or rejected", fields["status"])
}

func TestHandle_AuditFailureStillCompletes(t *testing.T) {
	st := &mockStore{}
	st.On("GetMatchStatus", mock.Anything, "brand-eco", "3pl-logiflow").Return(matching.StatusNew, nil)
	st.On("SaveMatchStatus", mock.Anything, mock.Anything, matching.StatusNew).Return(nil)
	st.On("RecordAudit", mock.Anything, mock.Anything).Return("", stderrors.New("disk full"))
	client := camundatest.NewJobClient()

	newTestHandler(t, st).Handle(client, camundatest.Job(4, TaskType, validInput("contacted")))

	vars := client.CompletedVariables()
	require.NotNil(t, vars)
	assert.Equal(t, "partnership_request", vars["notificationType"])
	assert.Equal(t, "new", vars["previousStatus"])
}

func TestHandle_LookupFailureIsRetried(t *testing.T) {
	st := &mockStore{}
	st.On("GetMatchStatus", mock.Anything, "brand-eco", "3pl-logiflow").Return(matching.Status(""), stderrors.New("connection refused"))
	client := camundatest.NewJobClient()

	newTestHandler(t, st).Handle(client, camundatest.Job(5, TaskType, validInput("contacted")))

	require.Len(t, client.Failed(), 1)
	assert.Empty(t, client.Thrown())
}

func TestHandle_UnknownPairIsNotFound(t *testing.T) {
	st := &mockStore{}
	client := camundatest.NewJobClient()
	in := Input{BrandID: "no-such-brand", ProviderID: "no-such-3pl", Status: "contacted", UpdatedBy: "admin-1"}

	newTestHandler(t, st).Handle(client, camundatest.Job(6, TaskType, in))

	assert.Equal(t, "PROFILE_NOT_FOUND", client.ThrownCode())
	st.AssertNotCalled(t, "GetMatchStatus", mock.Anything, mock.Anything, mock.Anything)
	st.AssertNotCalled(t, "SaveMatchStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecute_UnknownProviderIsNotFound(t *testing.T) {
	in := validInput("contacted")
	in.ProviderID = "no-such-3pl"

	_, err := newTestHandler(t, &mockStore{}).Execute(context.Background(), &in)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeProfileNotFound, errors.CodeOf(err))
}

func TestHandle_PairBelowCutoffIsRejected(t *testing.T) {
	st := &mockStore{}
	client := camundatest.NewJobClient()
	in := validInput("contacted")
	in.BrandID = "brand-hazmat"

	// no required flag, volume or location matches: 0 of 5
	newTestHandler(t, st).Handle(client, camundatest.Job(7, TaskType, in))

	assert.Equal(t, "MATCH_BELOW_CUTOFF", client.ThrownCode())
	st.AssertNotCalled(t, "SaveMatchStatus", mock.Anything, mock.Anything, mock.Anything)
}
