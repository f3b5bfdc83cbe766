// internal/workers/onboarding/submit-provider-application/handler.go
package submitproviderapplication

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"onboarding-workers/internal/common/camunda"
	"onboarding-workers/internal/common/errors"
	"onboarding-workers/internal/common/logger"
	"onboarding-workers/internal/common/metrics"
	"onboarding-workers/internal/forms"
	"onboarding-workers/internal/models"
	"onboarding-workers/internal/store"
	"onboarding-workers/pkg/registry"
)

const TaskType = "submit-provider-application"

const (
	statusPendingReview = "pending_review"
	statusCertified     = "certified"
)

type Store interface {
	CompanyByUser(ctx context.Context, userID string) (*models.Company, error)
	UpsertProvider(ctx context.Context, c models.Company, caps models.ProviderCapabilities) error
	RecordAudit(ctx context.Context, e models.AuditEntry) (string, error)
}

type Cache interface {
	InvalidateProvider(ctx context.Context, id string)
}

type Handler struct {
	config   *Config
	store    Store
	cache    Cache
	registry *registry.CapabilityRegistry
	logger   logger.Logger
	errors   *errors.ErrorHandler
}

func NewHandler(config *Config, st Store, cache Cache, reg *registry.CapabilityRegistry, log logger.Logger) *Handler {
	if reg == nil {
		reg = registry.Default()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		store:    st,
		cache:    cache,
		registry: reg,
		logger:   log,
		errors:   errors.NewErrorHandler(log),
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
	if strings.TrimSpace(input.UserID) == "" {
		return nil, errors.NewValidationFailedError(map[string]string{"userId": "userId is required"})
	}

	res, err := forms.ValidateProvider(input.Form)
	if err != nil {
		return nil, fmt.Errorf("validate provider form: %w", err)
	}
	if !res.Valid {
		return nil, errors.NewValidationFailedError(res.Errors)
	}

	existing, err := h.existing(ctx, input)
	if err != nil {
		return nil, err
	}
	companyID := input.CompanyID
	created := false
	certified := false
	switch {
	case existing != nil:
		companyID = existing.ID
		certified = existing.IsCertified
	case companyID == "":
		companyID = uuid.NewString()
		created = true
	}

	company, caps := input.Form.ToModels(companyID, input.UserID)
	if err := h.store.UpsertProvider(ctx, company, caps); err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			return nil, errors.NewQueryTimeoutError("upsert provider")
		}
		return nil, errors.NewDatabaseInsertFailedError(err)
	}
	if h.cache != nil {
		h.cache.InvalidateProvider(ctx, companyID)
	}

	action := "provider_application_updated"
	if created {
		action = "provider_application_submitted"
	}
	auditID, err := h.store.RecordAudit(ctx, models.AuditEntry{
		ActorID:    input.UserID,
		Action:     action,
		EntityType: models.EntityProvider,
		EntityID:   companyID,
		Payload: map[string]interface{}{
			"companyName":   company.CompanyName,
			"minimumVolume": caps.MinimumVolume,
			"capabilities":  caps.Flags,
		},
	})
	if err != nil {
		h.logger.Warn("failed to record audit entry", map[string]interface{}{"companyId": companyID, "error": err})
	}

	status := statusPendingReview
	if certified {
		status = statusCertified
	}
	h.logger.Info("provider application saved", map[string]interface{}{"companyId": companyID, "created": created})

	return &Output{
		CompanyID: companyID,
		Created:   created,
		Certified: certified,
		Profile:   input.Form.ToProfile(companyID),
		DirectoryEntry: models.DirectoryEntry{
			EntityType:   models.EntityProvider,
			EntityID:     companyID,
			Name:         company.CompanyName,
			ContactName:  company.ContactName,
			ContactEmail: company.Email,
			Location:     caps.Location,
			Capabilities: h.registry.Labels(caps.Flags),
			Certified:    certified,
			Status:       status,
			UpdatedAt:    time.Now().UTC(),
		},
		AuditID: auditID,
	}, nil
}

// existing returns the company being edited, or nil for a new application.
func (h *Handler) existing(ctx context.Context, input *Input) (*models.Company, error) {
	if input.CompanyID != "" {
		return nil, nil
	}
	c, err := h.store.CompanyByUser(ctx, input.UserID)
	switch {
	case stderrors.Is(err, store.ErrNotFound):
		return nil, nil
	case stderrors.Is(err, context.DeadlineExceeded):
		return nil, errors.NewQueryTimeoutError("get company by user")
	case err != nil:
		return nil, errors.NewQueryExecutionFailedError("get company by user", err)
	}
	return c, nil
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.CodeOf(err))).Inc()
	h.errors.HandleJobError(context.Background(), client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
