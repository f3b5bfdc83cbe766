// internal/workers/communication/send-notification/handler.go
package sendnotification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"onboarding-workers/internal/common/camunda"
	"onboarding-workers/internal/common/errors"
	"onboarding-workers/internal/common/logger"
	"onboarding-workers/internal/common/metrics"
	"onboarding-workers/internal/common/validation"
	"onboarding-workers/internal/models"
)

const TaskType = "send-notification"

type Store interface {
	InsertNotification(ctx context.Context, n *models.Notification) error
}

type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) (string, error)
}

type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) (string, error)
}

type Handler struct {
	config *Config
	store  Store
	email  EmailSender
	sms    SMSSender
	logger logger.Logger
	errors *errors.ErrorHandler
}

// NewHandler accepts nil senders; the matching channel then reports disabled.
func NewHandler(config *Config, st Store, email EmailSender, sms SMSSender, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		store:  st,
		email:  email,
		sms:    sms,
		logger: log,
		errors: errors.NewErrorHandler(log),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, errors.NewParseError(err))
		return
	}
	// retries of the same job reuse the id so the in-app row is written once
	if input.NotificationID == "" {
		input.NotificationID = jobNotificationID(job.Key)
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, err)
		return
	}

	if err := camunda.CompleteJob(context.Background(), client, job, output); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{"jobKey": job.Key, "error": err})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

func jobNotificationID(jobKey int64) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s:%d", TaskType, jobKey))).String()
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := input.Validate(); err != nil {
		return nil, errors.NewValidationFailedError(validation.FieldErrors(err))
	}

	title, message := h.content(input)
	if title == "" || message == "" {
		return nil, errors.NewValidationFailedError(map[string]string{
			"message": "title and message render empty; supply them or the template data",
		})
	}

	out := &Output{
		NotificationID: input.NotificationID,
		Title:          title,
		Message:        message,
		Channels:       map[string]string{},
		SentAt:         time.Now().UTC(),
	}

	if input.wants(ChannelInApp) {
		n := &models.Notification{
			ID:                input.NotificationID,
			UserID:            input.UserID,
			Type:              input.Type,
			Title:             title,
			Message:           message,
			RelatedEntityType: input.RelatedEntityType,
			RelatedEntityID:   input.RelatedEntityID,
			Metadata:          input.Metadata,
			ExpiresAt:         h.expiry(input),
		}
		if err := h.store.InsertNotification(ctx, n); err != nil {
			return nil, errors.NewDatabaseInsertFailedError(err)
		}
		out.NotificationID = n.ID
		out.Channels[ChannelInApp] = StatusSent
		metrics.NotificationsSent.WithLabelValues(ChannelInApp).Inc()
	}

	if input.wants(ChannelEmail) {
		switch {
		case !h.config.EmailEnabled || h.email == nil:
			out.Channels[ChannelEmail] = StatusDisabled
		case input.Email == "":
			out.Channels[ChannelEmail] = StatusSkipped
		default:
			id, err := h.email.Send(ctx, input.Email, title, message)
			if err != nil {
				return nil, errors.NewNotificationSendFailedError(ChannelEmail, err)
			}
			out.EmailMessageID = id
			out.Channels[ChannelEmail] = StatusSent
			metrics.NotificationsSent.WithLabelValues(ChannelEmail).Inc()
		}
	}

	if input.wants(ChannelSMS) {
		switch {
		case !h.config.SMSEnabled || h.sms == nil:
			out.Channels[ChannelSMS] = StatusDisabled
		case input.Phone == "":
			out.Channels[ChannelSMS] = StatusSkipped
		default:
			id, err := h.sms.SendSMS(ctx, input.Phone, title+": "+message)
			if err != nil {
				return nil, errors.NewNotificationSendFailedError(ChannelSMS, err)
			}
			out.SMSMessageID = id
			out.Channels[ChannelSMS] = StatusSent
			metrics.NotificationsSent.WithLabelValues(ChannelSMS).Inc()
		}
	}

	h.logger.Info("notification delivered", map[string]interface{}{
		"notificationId": out.NotificationID,
		"userId":         input.UserID,
		"type":           string(input.Type),
		"channels":       out.Channels,
	})
	return out, nil
}

func (h *Handler) content(input *Input) (string, string) {
	tmpl := defaultTemplates[input.Type]
	title, message := input.Title, input.Message
	if title == "" {
		title = tmpl.title
	}
	if message == "" {
		message = tmpl.message
	}
	return render(title, input.Data), render(message, input.Data)
}

func (h *Handler) expiry(input *Input) *time.Time {
	if input.ExpiresAt != nil {
		return input.ExpiresAt
	}
	if h.config.DefaultTTL <= 0 {
		return nil
	}
	t := time.Now().UTC().Add(h.config.DefaultTTL)
	return &t
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.CodeOf(err))).Inc()
	h.errors.HandleJobError(context.Background(), client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
