// internal/workers/matching/rank-partnership-matches/handler.go
package rankpartnershipmatches

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

const TaskType = "rank-partnership-matches"

type Store interface {
	ListBrandProfiles(ctx context.Context) ([]matching.BrandProfile, error)
	ListProviderProfiles(ctx context.Context) ([]matching.ProviderProfile, error)
	GetBrandProfile(ctx context.Context, id string) (*matching.BrandProfile, error)
	GetProviderProfile(ctx context.Context, id string) (*matching.ProviderProfile, error)
	GetMatchStatuses(ctx context.Context, f store.StatusFilter) (map[matching.PairKey]matching.Status, error)
}

type Handler struct {
	config *Config
	engine *matching.Engine
	store  Store
	logger logger.Logger
	errors *errors.ErrorHandler
}

func NewHandler(config *Config, engine *matching.Engine, st Store, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		engine: engine,
		store:  st,
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
	if input.Limit < 0 {
		return nil, errors.NewValidationFailedError(map[string]string{"limit": "limit must not be negative"})
	}
	minScore, err := tierFloor(input.MinTier)
	if err != nil {
		return nil, err
	}

	brands, err := h.brands(ctx, input.BrandID)
	if err != nil {
		return nil, err
	}
	providers, err := h.providers(ctx, input.ProviderID)
	if err != nil {
		return nil, err
	}

	results := h.engine.ScoreAll(brands, providers)

	statuses, err := h.store.GetMatchStatuses(ctx, store.StatusFilter{BrandID: input.BrandID, ProviderID: input.ProviderID})
	if err != nil {
		return nil, dbError("list match statuses", err)
	}
	results = matching.ApplyStatuses(results, statuses)

	if minScore > 0 {
		kept := results[:0]
		for _, r := range results {
			if r.MatchScore >= minScore {
				kept = append(kept, r)
			}
		}
		results = kept
	}

	out := &Output{Total: len(results), Summary: matching.Summarize(results)}
	limit := input.Limit
	if limit == 0 {
		limit = h.config.MaxResults
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
		out.Truncated = true
	}
	out.Matches = results

	for _, r := range results {
		metrics.MatchesSurfaced.WithLabelValues(string(r.Tier)).Inc()
	}
	h.logger.Info("matches ranked", map[string]interface{}{
		"brands":    len(brands),
		"providers": len(providers),
		"surfaced":  out.Total,
	})
	return out, nil
}

func (h *Handler) brands(ctx context.Context, id string) ([]matching.BrandProfile, error) {
	if id == "" {
		list, err := h.store.ListBrandProfiles(ctx)
		if err != nil {
			return nil, dbError("list brand profiles", err)
		}
		return list, nil
	}
	p, err := h.store.GetBrandProfile(ctx, id)
	if stderrors.Is(err, store.ErrNotFound) {
		return nil, errors.NewProfileNotFoundError("brand", id)
	}
	if err != nil {
		return nil, dbError("get brand profile", err)
	}
	return []matching.BrandProfile{*p}, nil
}

func (h *Handler) providers(ctx context.Context, id string) ([]matching.ProviderProfile, error) {
	if id == "" {
		list, err := h.store.ListProviderProfiles(ctx)
		if err != nil {
			return nil, dbError("list provider profiles", err)
		}
		return list, nil
	}
	p, err := h.store.GetProviderProfile(ctx, id)
	if stderrors.Is(err, store.ErrNotFound) {
		return nil, errors.NewProfileNotFoundError("provider", id)
	}
	if err != nil {
		return nil, dbError("get provider profile", err)
	}
	return []matching.ProviderProfile{*p}, nil
}

func tierFloor(t matching.Tier) (int, error) {
	switch t {
	case "", matching.TierLow:
		return 0, nil
	case matching.TierMedium:
		return 60, nil
	case matching.TierHigh:
		return 80, nil
	}
	return 0, errors.NewValidationFailedError(map[string]string{"minTier": "minTier must be high, medium or low"})
}

func dbError(op string, err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.NewQueryTimeoutError(op)
	}
	return errors.NewQueryExecutionFailedError(op, err)
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.CodeOf(err))).Inc()
	h.errors.HandleJobError(context.Background(), client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
