// internal/workers/communication/send-notification/handler_test.go
package sendnotification

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboarding-workers/internal/common/camunda/camundatest"
	"onboarding-workers/internal/common/logger"
	"onboarding-workers/internal/models"
)

type fakeStore struct {
	inserted []*models.Notification
	err      error
}

func (s *fakeStore) InsertNotification(_ context.Context, n *models.Notification) error {
	if s.err != nil {
		return s.err
	}
	if n.ID == "" {
		n.ID = "generated-id"
	}
	s.inserted = append(s.inserted, n)
	return nil
}

type fakeEmail struct {
	to, subject, body string
	err               error
}

func (f *fakeEmail) Send(_ context.Context, to, subject, body string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.to, f.subject, f.body = to, subject, body
	return "ses-msg-1", nil
}

type fakeSMS struct {
	phone, message string
	err            error
}

func (f *fakeSMS) SendSMS(_ context.Context, phone, message string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.phone, f.message = phone, message
	return "sns-msg-1", nil
}

func newTestHandler(t *testing.T, st Store, email EmailSender, sms SMSSender) *Handler {
	cfg := DefaultConfig()
	cfg.Timeout = 5 * time.Second
	return NewHandler(cfg, st, email, sms, logger.NewTestLogger(t))
}

func TestExecute_InAppFromTemplate(t *testing.T) {
	st := &fakeStore{}
	out, err := newTestHandler(t, st, nil, nil).Execute(context.Background(), &Input{
		UserID:            "user-brand",
		Type:              models.NotificationMatchFound,
		Data:              map[string]interface{}{"partnerName": "LogiFlow", "score": 100},
		RelatedEntityType: "3pl",
		RelatedEntityID:   "3pl-logiflow",
	})
	require.NoError(t, err)

	assert.Equal(t, "New match: LogiFlow", out.Title)
	assert.Equal(t, "LogiFlow matches your requirements with a score of 100.", out.Message)
	assert.Equal(t, map[string]string{ChannelInApp: StatusSent}, out.Channels)
	assert.Equal(t, "generated-id", out.NotificationID)

	require.Len(t, st.inserted, 1)
	n := st.inserted[0]
	assert.Equal(t, "user-brand", n.UserID)
	assert.Equal(t, "3pl-logiflow", n.RelatedEntityID)
	require.NotNil(t, n.ExpiresAt)
	assert.True(t, n.ExpiresAt.After(time.Now().Add(29*24*time.Hour)))
}

func TestExecute_AllChannels(t *testing.T) {
	st := &fakeStore{}
	email := &fakeEmail{}
	sms := &fakeSMS{}

	out, err := newTestHandler(t, st, email, sms).Execute(context.Background(), &Input{
		UserID:   "user-3pl",
		Type:     models.NotificationCertificationUpdate,
		Title:    "Welcome {{name}}",
		Message:  "Your account is {{status}}{{missing}}.",
		Data:     map[string]interface{}{"name": "LogiFlow", "status": "certified"},
		Channels: []string{ChannelInApp, ChannelEmail, ChannelSMS},
		Email:    "ops@logiflow.example",
		Phone:    "+15551234567",
	})
	require.NoError(t, err)

	assert.Equal(t, "Welcome LogiFlow", out.Title)
	assert.Equal(t, "Your account is certified.", out.Message)
	assert.Equal(t, "ses-msg-1", out.EmailMessageID)
	assert.Equal(t, "sns-msg-1", out.SMSMessageID)
	assert.Equal(t, "ops@logiflow.example", email.to)
	assert.Equal(t, "Welcome LogiFlow", email.subject)
	assert.Equal(t, "+15551234567", sms.phone)
	assert.Equal(t, "Welcome LogiFlow: Your account is certified.", sms.message)
	assert.Len(t, out.Channels, 3)
}

func TestExecute_ChannelStatuses(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SMSEnabled = false
	h := NewHandler(cfg, &fakeStore{}, &fakeEmail{}, &fakeSMS{}, logger.NewNoOpLogger())

	out, err := h.Execute(context.Background(), &Input{
		UserID:   "user-brand",
		Type:     models.NotificationSystemUpdate,
		Data:     map[string]interface{}{"message": "Profile saved"},
		Channels: []string{ChannelEmail, ChannelSMS},
		Phone:    "+15551234567",
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{ChannelEmail: StatusSkipped, ChannelSMS: StatusDisabled}, out.Channels)
	assert.Equal(t, "Account update", out.Title)
}

func TestHandle_ReusesJobScopedID(t *testing.T) {
	st := &fakeStore{}
	h := newTestHandler(t, st, nil, nil)
	input := Input{UserID: "user-brand", Type: models.NotificationSystemUpdate, Title: "Hi", Message: "There"}

	h.Handle(camundatest.NewJobClient(), camundatest.Job(42, TaskType, input))
	h.Handle(camundatest.NewJobClient(), camundatest.Job(42, TaskType, input))

	require.Len(t, st.inserted, 2)
	assert.Equal(t, st.inserted[0].ID, st.inserted[1].ID)
	assert.Equal(t, jobNotificationID(42), st.inserted[0].ID)
	assert.NotEqual(t, jobNotificationID(42), jobNotificationID(43))
}

func TestHandle_Completes(t *testing.T) {
	client := camundatest.NewJobClient()
	newTestHandler(t, &fakeStore{}, &fakeEmail{}, nil).Handle(client, camundatest.Job(7, TaskType, Input{
		UserID:   "user-brand",
		Type:     models.NotificationPartnershipRequest,
		Data:     map[string]interface{}{"partnerName": "LogiFlow", "status": "contacted"},
		Channels: []string{ChannelEmail},
		Email:    "founder@eco.example",
	}))

	vars := client.CompletedVariables()
	require.NotNil(t, vars)
	assert.Equal(t, "Your match with LogiFlow is now contacted.", vars["message"])
	assert.Equal(t, "ses-msg-1", vars["emailMessageId"])
}

func TestHandle_Errors(t *testing.T) {
	valid := Input{UserID: "user-brand", Type: models.NotificationSystemUpdate, Title: "Hi", Message: "There"}

	tests := []struct {
		name      string
		input     Input
		store     *fakeStore
		email     *fakeEmail
		sms       *fakeSMS
		wantCode  string
		wantRetry bool
	}{
		{name: "missing user", input: Input{Type: models.NotificationMatchFound}, wantCode: "VALIDATION_FAILED"},
		{name: "unknown type", input: Input{UserID: "u", Type: "bulletin"}, wantCode: "VALIDATION_FAILED"},
		{name: "bad channel", input: Input{UserID: "u", Type: models.NotificationSystemUpdate, Title: "a", Message: "b", Channels: []string{"pigeon"}}, wantCode: "VALIDATION_FAILED"},
		{name: "bad email", input: Input{UserID: "u", Type: models.NotificationSystemUpdate, Title: "a", Message: "b", Email: "nope"}, wantCode: "VALIDATION_FAILED"},
		{name: "empty content", input: Input{UserID: "u", Type: models.NotificationSystemUpdate}, wantCode: "VALIDATION_FAILED"},
		{name: "insert fails", input: valid, store: &fakeStore{err: stderrors.New("disk full")}, wantRetry: true},
		{
			name:      "email fails",
			input:     Input{UserID: "u", Type: models.NotificationSystemUpdate, Title: "a", Message: "b", Channels: []string{ChannelEmail}, Email: "a@b.example"},
			email:     &fakeEmail{err: stderrors.New("throttled")},
			wantRetry: true,
		},
		{
			name:      "sms fails",
			input:     Input{UserID: "u", Type: models.NotificationSystemUpdate, Title: "a", Message: "b", Channels: []string{ChannelSMS}, Phone: "+15551234567"},
			sms:       &fakeSMS{err: stderrors.New("opted out")},
			wantRetry: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := tt.store
			if st == nil {
				st = &fakeStore{}
			}
			var email EmailSender = &fakeEmail{}
			if tt.email != nil {
				email = tt.email
			}
			var sms SMSSender = &fakeSMS{}
			if tt.sms != nil {
				sms = tt.sms
			}
			client := camundatest.NewJobClient()

			newTestHandler(t, st, email, sms).Handle(client, camundatest.Job(3, TaskType, tt.input))

			assert.Empty(t, client.Completed())
			if tt.wantRetry {
				require.Len(t, client.Failed(), 1)
				assert.Equal(t, int32(2), client.Failed()[0].Retries)
				return
			}
			assert.Equal(t, tt.wantCode, client.ThrownCode())
		})
	}
}

func TestHandle_ParseError(t *testing.T) {
	client := camundatest.NewJobClient()
	newTestHandler(t, &fakeStore{}, nil, nil).Handle(client, camundatest.RawJob(1, TaskType, `{"userId":`))
	assert.Equal(t, "PARSE_ERROR", client.ThrownCode())
}

func TestRender(t *testing.T) {
	assert.Equal(t, "score 87 for Eco", render("score {{ score }} for {{name}}", map[string]interface{}{"score": 87, "name": "Eco"}))
	assert.Equal(t, "hello", render("hello {{who}}", nil))
}
