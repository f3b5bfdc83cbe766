// internal/workers/dashboard/build-dashboard/handler.go
package builddashboard

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"golang.org/x/sync/errgroup"

	"onboarding-workers/internal/common/camunda"
	"onboarding-workers/internal/common/errors"
	"onboarding-workers/internal/common/logger"
	"onboarding-workers/internal/common/metrics"
	"onboarding-workers/internal/matching"
	"onboarding-workers/internal/models"
	"onboarding-workers/internal/store"
)

const TaskType = "build-dashboard"

type Store interface {
	BrandByUser(ctx context.Context, userID string) (*models.Brand, error)
	CompanyByUser(ctx context.Context, userID string) (*models.Company, error)
	ListBrandProfiles(ctx context.Context) ([]matching.BrandProfile, error)
	ListProviderProfiles(ctx context.Context) ([]matching.ProviderProfile, error)
	GetMatchStatuses(ctx context.Context, f store.StatusFilter) (map[matching.PairKey]matching.Status, error)
	ListNotifications(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	CountUsers(ctx context.Context) (models.UserCounts, error)
	CountPendingCertifications(ctx context.Context) (int, error)
	ListAdminActions(ctx context.Context, limit int) ([]models.AdminAction, error)
}

// ProfileSource resolves a single profile, usually through the cache.
type ProfileSource interface {
	GetBrandProfile(ctx context.Context, id string) (*matching.BrandProfile, error)
	GetProviderProfile(ctx context.Context, id string) (*matching.ProviderProfile, error)
}

type Handler struct {
	config   *Config
	engine   *matching.Engine
	store    Store
	profiles ProfileSource
	logger   logger.Logger
	errors   *errors.ErrorHandler
}

func NewHandler(config *Config, engine *matching.Engine, st Store, profiles ProfileSource, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		engine:   engine,
		store:    st,
		profiles: profiles,
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
	if input.UserID == "" {
		return nil, errors.NewValidationFailedError(map[string]string{"userId": "userId is required"})
	}

	out := &Output{
		UserType:      input.UserType,
		Matches:       []matching.MatchResult{},
		Summary:       matching.Summarize(nil),
		Notifications: []models.Notification{},
	}

	var err error
	switch input.UserType {
	case UserTypeBrand:
		err = h.brandDashboard(ctx, input.UserID, out)
	case UserTypeProvider:
		err = h.providerDashboard(ctx, input.UserID, out)
	case UserTypeAdmin:
		err = h.adminDashboard(ctx, out)
	default:
		return nil, errors.NewValidationFailedError(map[string]string{"userType": "userType must be brand, 3pl or admin"})
	}
	if err != nil {
		return nil, err
	}

	notes, err := h.store.ListNotifications(ctx, input.UserID, h.config.NotificationLimit)
	if err != nil {
		return nil, dbError("list notifications", err)
	}
	if notes != nil {
		out.Notifications = notes
	}
	for _, n := range notes {
		if !n.IsRead {
			out.UnreadCount++
		}
	}
	return out, nil
}

func (h *Handler) brandDashboard(ctx context.Context, userID string, out *Output) error {
	brand, err := h.store.BrandByUser(ctx, userID)
	if stderrors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return dbError("get brand by user", err)
	}
	out.Brand = brand
	out.ProfileComplete = true

	profile, err := h.profiles.GetBrandProfile(ctx, brand.ID)
	if err != nil {
		return profileError("brand", brand.ID, err)
	}
	providers, err := h.store.ListProviderProfiles(ctx)
	if err != nil {
		return dbError("list provider profiles", err)
	}
	results := h.engine.ScoreAll([]matching.BrandProfile{*profile}, providers)
	return h.finishMatches(ctx, store.StatusFilter{BrandID: brand.ID}, results, out)
}

func (h *Handler) providerDashboard(ctx context.Context, userID string, out *Output) error {
	company, err := h.store.CompanyByUser(ctx, userID)
	if stderrors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return dbError("get company by user", err)
	}
	out.Company = company
	out.ProfileComplete = true

	profile, err := h.profiles.GetProviderProfile(ctx, company.ID)
	if err != nil {
		return profileError("provider", company.ID, err)
	}
	brands, err := h.store.ListBrandProfiles(ctx)
	if err != nil {
		return dbError("list brand profiles", err)
	}
	results := h.engine.ScoreAll(brands, []matching.ProviderProfile{*profile})
	return h.finishMatches(ctx, store.StatusFilter{ProviderID: company.ID}, results, out)
}

func (h *Handler) adminDashboard(ctx context.Context, out *Output) error {
	stats := &AdminStats{}
	var (
		brands    []matching.BrandProfile
		providers []matching.ProviderProfile
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if stats.Users, err = h.store.CountUsers(gctx); err != nil {
			return dbError("count users", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if stats.PendingCertifications, err = h.store.CountPendingCertifications(gctx); err != nil {
			return dbError("count pending certifications", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if stats.RecentActions, err = h.store.ListAdminActions(gctx, h.config.AdminActionsLimit); err != nil {
			return dbError("list admin actions", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if brands, err = h.store.ListBrandProfiles(gctx); err != nil {
			return dbError("list brand profiles", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if providers, err = h.store.ListProviderProfiles(gctx); err != nil {
			return dbError("list provider profiles", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if stats.RecentActions == nil {
		stats.RecentActions = []models.AdminAction{}
	}
	out.Admin = stats
	out.ProfileComplete = true
	return h.finishMatches(ctx, store.StatusFilter{}, h.engine.ScoreAll(brands, providers), out)
}

// finishMatches merges stored statuses, summarizes the full list and keeps
// the top MatchLimit results.
func (h *Handler) finishMatches(ctx context.Context, f store.StatusFilter, results []matching.MatchResult, out *Output) error {
	statuses, err := h.store.GetMatchStatuses(ctx, f)
	if err != nil {
		return dbError("list match statuses", err)
	}
	results = matching.ApplyStatuses(results, statuses)
	out.Summary = matching.Summarize(results)
	if h.config.MatchLimit > 0 && len(results) > h.config.MatchLimit {
		results = results[:h.config.MatchLimit]
	}
	out.Matches = results
	return nil
}

func profileError(kind, id string, err error) error {
	if stderrors.Is(err, store.ErrNotFound) {
		return errors.NewProfileNotFoundError(kind, id)
	}
	return dbError("get "+kind+" profile", err)
}

func dbError(op string, err error) error {
	var stdErr *errors.StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
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
