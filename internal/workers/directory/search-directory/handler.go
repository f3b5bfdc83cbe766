// internal/workers/directory/search-directory/handler.go
package searchdirectory

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"

	"onboarding-workers/internal/common/camunda"
	"onboarding-workers/internal/common/errors"
	"onboarding-workers/internal/common/logger"
	"onboarding-workers/internal/common/metrics"
	"onboarding-workers/internal/workers/directory/search-directory/queries"
)

const TaskType = "search-directory"

type Handler struct {
	config *Config
	client *elasticsearch.Client
	logger logger.Logger
	errors *errors.ErrorHandler
}

func NewHandler(config *Config, client *elasticsearch.Client, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		client: client,
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
	q := queries.DirectoryQuery{
		Index:      h.config.Index,
		Text:       input.Query,
		EntityType: input.EntityType,
		Certified:  input.Certified,
		From:       input.Pagination.From,
		Size:       input.Pagination.Size,
	}

	result, err := queries.Execute(ctx, h.client, q)
	if err != nil {
		return nil, searchError(ctx, err)
	}

	q.Normalize()
	h.logger.Debug("directory searched", map[string]interface{}{
		"query":     q.Text,
		"totalHits": result.TotalHits,
		"took":      result.Took,
	})

	return &Output{
		Results:   result.Hits,
		TotalHits: result.TotalHits,
		MaxScore:  result.MaxScore,
		Took:      result.Took,
		HasMore:   int64(q.From+len(result.Hits)) < result.TotalHits,
	}, nil
}

func searchError(ctx context.Context, err error) error {
	var netErr *net.OpError
	switch {
	case stderrors.Is(err, queries.ErrUnknownEntityType):
		return errors.NewValidationFailedError(map[string]string{"entityType": "entityType must be brand or 3pl"})
	case ctx.Err() == context.DeadlineExceeded || stderrors.Is(err, context.DeadlineExceeded):
		return errors.NewSearchTimeoutError()
	case stderrors.As(err, &netErr):
		return errors.NewElasticsearchConnectionFailedError(err)
	}
	return errors.NewSearchQueryFailedError(err)
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.CodeOf(err))).Inc()
	h.errors.HandleJobError(context.Background(), client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
