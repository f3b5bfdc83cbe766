// internal/workers/onboarding/submit-brand-profile/handler_test.go
package submitbrandprofile

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"onboarding-workers/internal/common/camunda/camundatest"
	"onboarding-workers/internal/common/logger"
	"onboarding-workers/internal/forms"
	"onboarding-workers/internal/models"
	"onboarding-workers/internal/store"
	"onboarding-workers/pkg/registry"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) BrandByUser(ctx context.Context, userID string) (*models.Brand, error) {
	args := m.Called(ctx, userID)
	b, _ := args.Get(0).(*models.Brand)
	return b, args.Error(1)
}

func (m *mockStore) UpsertBrand(ctx context.Context, b models.Brand, req models.BrandRequirements) error {
	return m.Called(ctx, b, req).Error(0)
}

func (m *mockStore) RecordAudit(ctx context.Context, e models.AuditEntry) (string, error) {
	args := m.Called(ctx, e)
	return args.String(0), args.Error(1)
}

type recordingCache struct {
	invalidated []string
}

func (c *recordingCache) InvalidateBrand(_ context.Context, id string) {
	c.invalidated = append(c.invalidated, id)
}

func ecoBeautyForm() forms.BrandForm {
	return forms.BrandForm{
		BrandName:          "EcoBeauty",
		ContactName:        "Jane Doe",
		ContactEmail:       "jane@ecobeauty.com",
		Industry:           "beauty",
		MonthlyVolume:      2500,
		ProductTypes:       []string{"cosmetics"},
		PreferredLocations: []string{"California", "Nevada"},
		Requirements: map[string]bool{
			registry.TemperatureControlled: true,
			registry.FBAPrep:               true,
		},
		RequiresRealTimeTracking: true,
	}
}

func newTestHandler(t *testing.T, st Store, cache Cache) *Handler {
	return NewHandler(&Config{Timeout: 5 * time.Second}, st, cache, nil, logger.NewTestLogger(t))
}

func TestExecute_CreatesBrand(t *testing.T) {
	st := &mockStore{}
	cache := &recordingCache{}
	st.On("BrandByUser", mock.Anything, "user-1").Return(nil, fmt.Errorf("brand for user user-1: %w", store.ErrNotFound))
	st.On("UpsertBrand", mock.Anything, mock.MatchedBy(func(b models.Brand) bool {
		return b.BrandName == "EcoBeauty" && b.UserID == "user-1" && b.Status == models.BrandStatusActive
	}), mock.MatchedBy(func(req models.BrandRequirements) bool {
		return req.Flags[registry.RealTimeTracking] && req.Flags[registry.FBAPrep]
	})).Return(nil)
	st.On("RecordAudit", mock.Anything, mock.MatchedBy(func(e models.AuditEntry) bool {
		return e.Action == "brand_profile_created" && e.EntityType == "brand"
	})).Return("audit-9", nil)

	out, err := newTestHandler(t, st, cache).Execute(context.Background(), &Input{UserID: "user-1", Form: ecoBeautyForm()})
	require.NoError(t, err)

	assert.True(t, out.Created)
	_, err = uuid.Parse(out.BrandID)
	assert.NoError(t, err)
	assert.Equal(t, []string{out.BrandID}, cache.invalidated)
	assert.Equal(t, out.BrandID, out.Profile.ID)
	assert.Equal(t, 2500, out.Profile.Requirements.MonthlyVolume)
	assert.Equal(t, "brand:"+out.BrandID, out.DirectoryEntry.DocumentID())
	assert.Equal(t, "California, Nevada", out.DirectoryEntry.Location)
	assert.Equal(t, []string{"Temperature Controlled", "FBA Prep", "Real-Time Tracking"}, out.DirectoryEntry.Capabilities)
	assert.Equal(t, "audit-9", out.AuditID)
	st.AssertExpectations(t)
}

func TestExecute_UpdatesExistingBrand(t *testing.T) {
	st := &mockStore{}
	st.On("BrandByUser", mock.Anything, "user-1").Return(&models.Brand{ID: "brand-eco"}, nil)
	st.On("UpsertBrand", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	st.On("RecordAudit", mock.Anything, mock.MatchedBy(func(e models.AuditEntry) bool {
		return e.Action == "brand_profile_updated" && e.EntityID == "brand-eco"
	})).Return("audit-10", nil)

	out, err := newTestHandler(t, st, nil).Execute(context.Background(), &Input{UserID: "user-1", Form: ecoBeautyForm()})
	require.NoError(t, err)
	assert.Equal(t, "brand-eco", out.BrandID)
	assert.False(t, out.Created)
}

func TestExecute_ExplicitBrandIDSkipsLookup(t *testing.T) {
	st := &mockStore{}
	st.On("UpsertBrand", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	st.On("RecordAudit", mock.Anything, mock.Anything).Return("", stderrors.New("audit table locked"))

	out, err := newTestHandler(t, st, nil).Execute(context.Background(), &Input{UserID: "user-1", BrandID: "brand-eco", Form: ecoBeautyForm()})
	require.NoError(t, err)
	assert.Equal(t, "brand-eco", out.BrandID)
	assert.Empty(t, out.AuditID)
	st.AssertNotCalled(t, "BrandByUser", mock.Anything, mock.Anything)
}

func TestHandle_InvalidFormIsThrown(t *testing.T) {
	form := ecoBeautyForm()
	form.BrandName = ""
	form.ContactEmail = "jane@"
	client := camundatest.NewJobClient()

	newTestHandler(t, &mockStore{}, nil).Handle(client, camundatest.Job(1, TaskType, Input{UserID: "user-1", Form: form}))

	require.Equal(t, "VALIDATION_FAILED", client.ThrownCode())
	fields := client.ThrownVariables()["fieldErrors"].(map[string]interface{})
	assert.Equal(t, "Brand name is required", fields["brandName"])
	assert.Equal(t, "Please enter a valid email address", fields["contactEmail"])
}

func TestHandle_MissingUser(t *testing.T) {
	client := camundatest.NewJobClient()
	newTestHandler(t, &mockStore{}, nil).Handle(client, camundatest.Job(2, TaskType, Input{Form: ecoBeautyForm()}))
	assert.Equal(t, "VALIDATION_FAILED", client.ThrownCode())
}

func TestHandle_UpsertFailureIsRetried(t *testing.T) {
	st := &mockStore{}
	st.On("UpsertBrand", mock.Anything, mock.Anything, mock.Anything).Return(stderrors.New("deadlock detected"))
	cache := &recordingCache{}
	client := camundatest.NewJobClient()

	newTestHandler(t, st, cache).Handle(client, camundatest.Job(3, TaskType, Input{UserID: "user-1", BrandID: "brand-eco", Form: ecoBeautyForm()}))

	require.Len(t, client.Failed(), 1)
	assert.Contains(t, client.Failed()[0].Variables, "DATABASE_INSERT_FAILED")
	assert.Empty(t, cache.invalidated)
}
