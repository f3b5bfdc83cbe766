// internal/workers/onboarding/validate-onboarding-form/handler.go
package validateonboardingform

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
	"onboarding-workers/internal/forms"
)

const TaskType = "validate-onboarding-form"

type Handler struct {
	config *Config
	logger logger.Logger
	errors *errors.ErrorHandler
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
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

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	res, err := forms.Validate(input.FormType, input.Step, input.Data)
	switch {
	case stderrors.Is(err, forms.ErrUnknownKind):
		return nil, errors.NewValidationFailedError(map[string]string{"formType": "formType must be brand or 3pl"})
	case stderrors.Is(err, forms.ErrUnknownStep):
		return nil, errors.NewValidationFailedError(map[string]string{"step": err.Error()})
	case err != nil:
		return nil, errors.NewParseError(err)
	}

	step := input.Step
	if step == "" {
		step = forms.StepAll
	}
	if !res.Valid {
		h.logger.Debug("form has errors", map[string]interface{}{
			"formType": input.FormType,
			"step":     step,
			"fields":   res.Fields(),
		})
	}
	return &Output{
		FormType: input.FormType,
		Step:     step,
		Valid:    res.Valid,
		Errors:   res.Errors,
		Fields:   res.Fields(),
	}, nil
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.CodeOf(err))).Inc()
	h.errors.HandleJobError(context.Background(), client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
