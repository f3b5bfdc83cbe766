// internal/workers/matching/score-partnership-pair/handler.go
package scorepartnershippair

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
	"onboarding-workers/internal/matching"
	"onboarding-workers/internal/store"
)

const TaskType = "score-partnership-pair"

// ProfileSource resolves profiles by ID, normally through the profile cache.
type ProfileSource interface {
	GetBrandProfile(ctx context.Context, id string) (*matching.BrandProfile, error)
	GetProviderProfile(ctx context.Context, id string) (*matching.ProviderProfile, error)
}

// StatusSource supplies the operator status for stored pairs. Optional.
type StatusSource interface {
	GetMatchStatus(ctx context.Context, brandID, companyID string) (matching.Status, error)
}

type Handler struct {
	config   *Config
	engine   *matching.Engine
	profiles ProfileSource
	statuses StatusSource
	logger   logger.Logger
	errors   *errors.ErrorHandler
}

func NewHandler(config *Config, engine *matching.Engine, profiles ProfileSource, statuses StatusSource, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		engine:   engine,
		profiles: profiles,
		statuses: statuses,
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

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, errors.NewParseError(err))
		return
	}

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
	brand, err := h.brand(ctx, input)
	if err != nil {
		return nil, err
	}
	provider, err := h.provider(ctx, input)
	if err != nil {
		return nil, err
	}

	result := h.engine.ScorePair(*brand, *provider)
	metrics.MatchScores.Observe(float64(result.MatchScore))

	if h.statuses != nil && brand.ID != "" && provider.ID != "" {
		st, err := h.statuses.GetMatchStatus(ctx, brand.ID, provider.ID)
		if err != nil {
			return nil, errors.NewQueryExecutionFailedError("get match status", err)
		}
		result.Status = st
	}

	qualifies := matching.Qualifies(result.MatchScore)
	if input.RequireQualified && !qualifies {
		return nil, errors.NewMatchBelowCutoffError(brand.ID, provider.ID, result.MatchScore)
	}
	if qualifies {
		metrics.MatchesSurfaced.WithLabelValues(string(result.Tier)).Inc()
	}

	h.logger.Debug("pair scored", map[string]interface{}{
		"brandId":    brand.ID,
		"providerId": provider.ID,
		"score":      result.MatchScore,
	})
	return &Output{Match: result, Qualifies: qualifies, Tier: result.Tier}, nil
}

func (h *Handler) brand(ctx context.Context, input *Input) (*matching.BrandProfile, error) {
	if input.Brand != nil {
		return input.Brand, nil
	}
	if input.BrandID == "" {
		return nil, errors.NewValidationFailedError(map[string]string{"brandId": "brandId or brand is required"})
	}
	p, err := h.profiles.GetBrandProfile(ctx, input.BrandID)
	if err != nil {
		return nil, lookupError("brand", input.BrandID, err)
	}
	return p, nil
}

func (h *Handler) provider(ctx context.Context, input *Input) (*matching.ProviderProfile, error) {
	if input.Provider != nil {
		return input.Provider, nil
	}
	if input.ProviderID == "" {
		return nil, errors.NewValidationFailedError(map[string]string{"providerId": "providerId or provider is required"})
	}
	p, err := h.profiles.GetProviderProfile(ctx, input.ProviderID)
	if err != nil {
		return nil, lookupError("provider", input.ProviderID, err)
	}
	return p, nil
}

func lookupError(kind, id string, err error) error {
	if stderrors.Is(err, store.ErrNotFound) {
		return errors.NewProfileNotFoundError(kind, id)
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.NewQueryTimeoutError("get " + kind + " profile")
	}
	return errors.NewQueryExecutionFailedError("get "+kind+" profile", err)
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.CodeOf(err))).Inc()
	h.errors.HandleJobError(context.Background(), client, job, err)
}

// Execute runs the scoring without a job, for tests and callers that embed
// the handler.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
