// internal/workers/auth/verify-session/handler.go
package verifysession

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"onboarding-workers/internal/common/auth"
	"onboarding-workers/internal/common/camunda"
	"onboarding-workers/internal/common/errors"
	"onboarding-workers/internal/common/logger"
	"onboarding-workers/internal/common/metrics"
)

const TaskType = "verify-session"

type Verifier interface {
	Verify(token string, required ...auth.UserType) (*auth.Session, error)
}

type Handler struct {
	config   *Config
	verifier Verifier
	logger   logger.Logger
	errors   *errors.ErrorHandler
}

func NewHandler(config *Config, verifier Verifier, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		verifier: verifier,
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

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	required := make([]auth.UserType, 0, len(input.RequiredUserType))
	for _, t := range input.RequiredUserType {
		ut := auth.UserType(t)
		if !ut.Valid() {
			return nil, errors.NewValidationFailedError(map[string]string{
				"requiredUserType": "unknown user type " + t,
			})
		}
		required = append(required, ut)
	}

	token := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input.Token), "Bearer "))
	session, err := h.verifier.Verify(token, required...)
	if err != nil {
		var mismatch *auth.MismatchError
		if stderrors.As(err, &mismatch) {
			return nil, errors.NewForbiddenError(string(mismatch.Got), joinTypes(mismatch.Allowed))
		}
		// token contents are never logged
		h.logger.Warn("session rejected", map[string]interface{}{"reason": err.Error()})
		return nil, errors.NewSessionInvalidError(err.Error())
	}

	return &Output{
		Authenticated: true,
		UserID:        session.UserID,
		Email:         session.Email,
		UserType:      string(session.UserType),
		ExpiresAt:     session.ExpiresAt,
	}, nil
}

func joinTypes(types []auth.UserType) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.CodeOf(err))).Inc()
	h.errors.HandleJobError(context.Background(), client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
