// internal/workers/onboarding/submit-brand-profile/handler.go
package submitbrandprofile

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

const TaskType = "submit-brand-profile"

type Store interface {
	BrandByUser(ctx context.Context, userID string) (*models.Brand, error)
	UpsertBrand(ctx context.Context, b models.Brand, req models.BrandRequirements) error
	RecordAudit(ctx context.Context, e models.AuditEntry) (string, error)
}

// Cache drops stale cached profiles after a write.
type Cache interface {
	InvalidateBrand(ctx context.Context, id string)
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

	res, err := forms.ValidateBrand(input.Form)
	if err != nil {
		return nil, fmt.Errorf("validate brand form: %w", err)
	}
	if !res.Valid {
		return nil, errors.NewValidationFailedError(res.Errors)
	}

	brandID, created, err := h.resolveID(ctx, input)
	if err != nil {
		return nil, err
	}

	brand, req := input.Form.ToModels(brandID, input.UserID)
	if err := h.store.UpsertBrand(ctx, brand, req); err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			return nil, errors.NewQueryTimeoutError("upsert brand")
		}
		return nil, errors.NewDatabaseInsertFailedError(err)
	}
	if h.cache != nil {
		h.cache.InvalidateBrand(ctx, brandID)
	}

	action := "brand_profile_updated"
	if created {
		action = "brand_profile_created"
	}
	auditID, err := h.store.RecordAudit(ctx, models.AuditEntry{
		ActorID:    input.UserID,
		Action:     action,
		EntityType: models.EntityBrand,
		EntityID:   brandID,
		Payload: map[string]interface{}{
			"brandName":     brand.BrandName,
			"monthlyVolume": brand.MonthlyVolume,
			"requirements":  req.Flags,
		},
	})
	if err != nil {
		h.logger.Warn("failed to record audit entry", map[string]interface{}{"brandId": brandID, "error": err})
	}

	h.logger.Info("brand profile saved", map[string]interface{}{"brandId": brandID, "created": created})

	return &Output{
		BrandID: brandID,
		Created: created,
		Profile: input.Form.ToProfile(brandID),
		DirectoryEntry: models.DirectoryEntry{
			EntityType:   models.EntityBrand,
			EntityID:     brandID,
			Name:         brand.BrandName,
			ContactName:  brand.ContactName,
			ContactEmail: brand.ContactEmail,
			Location:     strings.Join(brand.PreferredLocations, ", "),
			Industry:     brand.Industry,
			Capabilities: h.registry.Labels(req.Flags),
			Status:       brand.Status,
			UpdatedAt:    time.Now().UTC(),
		},
		AuditID: auditID,
	}, nil
}

func (h *Handler) resolveID(ctx context.Context, input *Input) (string, bool, error) {
	if input.BrandID != "" {
		return input.BrandID, false, nil
	}
	existing, err := h.store.BrandByUser(ctx, input.UserID)
	switch {
	case stderrors.Is(err, store.ErrNotFound):
		return uuid.NewString(), true, nil
	case stderrors.Is(err, context.DeadlineExceeded):
		return "", false, errors.NewQueryTimeoutError("get brand by user")
	case err != nil:
		return "", false, errors.NewQueryExecutionFailedError("get brand by user", err)
	}
	return existing.ID, false, nil
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.CodeOf(err))).Inc()
	h.errors.HandleJobError(context.Background(), client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
