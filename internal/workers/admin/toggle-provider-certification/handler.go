// internal/workers/admin/toggle-provider-certification/handler.go
package toggleprovidercertification

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"onboarding-workers/internal/common/camunda"
	"onboarding-workers/internal/common/errors"
	"onboarding-workers/internal/common/logger"
	"onboarding-workers/internal/common/metrics"
	"onboarding-workers/internal/common/validation"
	"onboarding-workers/internal/models"
	"onboarding-workers/internal/store"
)

const TaskType = "toggle-provider-certification"

type Store interface {
	SetCertification(ctx context.Context, companyID, adminID string, certified *bool, reason string) (*models.Company, error)
}

type Cache interface {
	InvalidateProvider(ctx context.Context, id string)
}

type Handler struct {
	config *Config
	store  Store
	cache  Cache
	logger logger.Logger
	errors *errors.ErrorHandler
}

func NewHandler(config *Config, st Store, cache Cache, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		store:  st,
		cache:  cache,
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

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := input.Validate(); err != nil {
		return nil, errors.NewValidationFailedError(validation.FieldErrors(err))
	}

	company, err := h.store.SetCertification(ctx, input.CompanyID, input.AdminUserID, input.Certified, input.Reason)
	switch {
	case stderrors.Is(err, store.ErrNotFound):
		return nil, errors.NewProfileNotFoundError("provider", input.CompanyID)
	case stderrors.Is(err, context.DeadlineExceeded):
		return nil, errors.NewQueryTimeoutError("set certification")
	case err != nil:
		return nil, errors.NewQueryExecutionFailedError("set certification", err)
	}
	if h.cache != nil {
		h.cache.InvalidateProvider(ctx, company.ID)
	}

	h.logger.Info("certification changed", map[string]interface{}{
		"companyId":   company.ID,
		"isCertified": company.IsCertified,
		"adminUserId": input.AdminUserID,
	})

	out := &Output{
		CompanyID:         company.ID,
		CompanyName:       company.CompanyName,
		IsCertified:       company.IsCertified,
		CertificationDate: company.CertificationDate,
		UserID:            company.UserID,
		NotificationType:  models.NotificationCertificationUpdate,
	}
	if company.IsCertified {
		out.NotificationTitle = "Your company is now certified"
		out.NotificationBody = company.CompanyName + " has been certified and will be highlighted to brands."
	} else {
		out.NotificationTitle = "Certification removed"
		out.NotificationBody = company.CompanyName + " is no longer certified."
	}
	return out, nil
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.CodeOf(err))).Inc()
	h.errors.HandleJobError(context.Background(), client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
