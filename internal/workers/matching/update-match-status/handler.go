// internal/workers/matching/update-match-status/handler.go
package updatematchstatus

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
	"onboarding-workers/internal/matching"
	"onboarding-workers/internal/models"
	"onboarding-workers/internal/store"
)

const TaskType = "update-match-status"

type Store interface {
	GetMatchStatus(ctx context.Context, brandID, companyID string) (matching.Status, error)
	SaveMatchStatus(ctx context.Context, rec models.MatchStatusRecord, from matching.Status) error
	RecordAudit(ctx context.Context, e models.AuditEntry) (string, error)
}

// ProfileSource resolves profiles by ID, normally through the profile cache.
type ProfileSource interface {
	GetBrandProfile(ctx context.Context, id string) (*matching.BrandProfile, error)
	GetProviderProfile(ctx context.Context, id string) (*matching.ProviderProfile, error)
}

type Handler struct {
	config   *Config
	engine   *matching.Engine
	profiles ProfileSource
	store    Store
	logger   logger.Logger
	errors   *errors.ErrorHandler
}

func NewHandler(config *Config, engine *matching.Engine, profiles ProfileSource, st Store, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		engine:   engine,
		profiles: profiles,
		store:    st,
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
	if err := input.Validate(); err != nil {
		return nil, errors.NewValidationFailedError(validation.FieldErrors(err))
	}
	to, err := matching.ParseStatus(input.Status)
	if err != nil {
		return nil, errors.NewValidationFailedError(map[string]string{"status": err.Error()})
	}

	// only surfaced pairs carry a status
	score, err := h.score(ctx, input)
	if err != nil {
		return nil, err
	}
	if !matching.Qualifies(score) {
		return nil, errors.NewMatchBelowCutoffError(input.BrandID, input.ProviderID, score)
	}

	current, err := h.store.GetMatchStatus(ctx, input.BrandID, input.ProviderID)
	if err != nil {
		return nil, dbError("get match status", err)
	}
	if _, err := matching.Transition(current, to); err != nil {
		return nil, errors.NewInvalidTransitionError(string(current), string(to))
	}

	rec := models.MatchStatusRecord{
		BrandID:   input.BrandID,
		CompanyID: input.ProviderID,
		Status:    string(to),
		UpdatedBy: input.UpdatedBy,
		Notes:     input.Notes,
		UpdatedAt: time.Now().UTC(),
	}
	if err := h.store.SaveMatchStatus(ctx, rec, current); err != nil {
		if stderrors.Is(err, store.ErrStatusConflict) {
			return nil, errors.NewInvalidTransitionError(string(current), string(to))
		}
		return nil, dbError("save match status", err)
	}

	auditID, err := h.store.RecordAudit(ctx, models.AuditEntry{
		ActorID:    input.UpdatedBy,
		Action:     "match_status_changed",
		EntityType: "match",
		EntityID:   input.BrandID + ":" + input.ProviderID,
		Payload: map[string]interface{}{
			"from":  string(current),
			"to":    string(to),
			"notes": input.Notes,
		},
	})
	if err != nil {
		// the status change is committed; a lost audit row is logged, not retried
		h.logger.Warn("failed to record audit entry", map[string]interface{}{"error": err})
	}

	h.logger.Info("match status updated", map[string]interface{}{
		"brandId":    input.BrandID,
		"providerId": input.ProviderID,
		"from":       current,
		"to":         to,
	})

	out := &Output{
		BrandID:        input.BrandID,
		ProviderID:     input.ProviderID,
		PreviousStatus: current,
		Status:         to,
		Terminal:       to.Terminal(),
		MatchScore:     score,
		AuditID:        auditID,
	}
	out.NotificationType, out.NotificationTitle, out.NotificationMessage = notificationFor(to)
	return out, nil
}

func (h *Handler) score(ctx context.Context, input *Input) (int, error) {
	brand, err := h.profiles.GetBrandProfile(ctx, input.BrandID)
	if err != nil {
		return 0, lookupError("brand", input.BrandID, err)
	}
	provider, err := h.profiles.GetProviderProfile(ctx, input.ProviderID)
	if err != nil {
		return 0, lookupError("provider", input.ProviderID, err)
	}
	return h.engine.ScorePair(*brand, *provider).MatchScore, nil
}

func lookupError(kind, id string, err error) error {
	if stderrors.Is(err, store.ErrNotFound) {
		return errors.NewProfileNotFoundError(kind, id)
	}
	return dbError("get "+kind+" profile", err)
}

func notificationFor(s matching.Status) (models.NotificationType, string, string) {
	switch s {
	case matching.StatusContacted:
		return models.NotificationPartnershipRequest, "New partnership request",
			"A brand has reached out about a fulfillment partnership."
	case matching.StatusInDiscussion:
		return models.NotificationPartnershipRequest, "Partnership discussion started",
			"Your partnership conversation has moved into discussion."
	case matching.StatusMatched:
		return models.NotificationMatchFound, "It's a match",
			"Your partnership has been confirmed."
	default:
		return models.NotificationSystemUpdate, "Partnership update",
			"A partnership you were discussing has been closed."
	}
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
