// internal/workers/directory/index-directory-entry/handler.go
package indexdirectoryentry

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"onboarding-workers/internal/common/camunda"
	"onboarding-workers/internal/common/errors"
	"onboarding-workers/internal/common/logger"
	"onboarding-workers/internal/common/metrics"
	"onboarding-workers/internal/common/validation"
)

const TaskType = "index-directory-entry"

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

type writeResponse struct {
	Result  string `json:"result"`
	Version int64  `json:"_version"`
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := input.Validate(); err != nil {
		return nil, errors.NewValidationFailedError(validation.FieldErrors(err))
	}

	entry := input.Entry
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = time.Now().UTC()
	}
	docID := entry.DocumentID()

	var req esapi.Request
	if input.Remove {
		req = esapi.DeleteRequest{
			Index:      h.config.Index,
			DocumentID: docID,
			Refresh:    h.config.Refresh,
		}
	} else {
		body, err := json.Marshal(entry)
		if err != nil {
			return nil, fmt.Errorf("encode directory entry: %w", err)
		}
		req = esapi.IndexRequest{
			Index:      h.config.Index,
			DocumentID: docID,
			Body:       bytes.NewReader(body),
			Refresh:    h.config.Refresh,
		}
	}

	res, err := req.Do(ctx, h.client)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			return nil, errors.NewSearchTimeoutError()
		}
		return nil, errors.NewElasticsearchConnectionFailedError(err)
	}
	defer res.Body.Close()

	out := &Output{DocumentID: docID, Index: h.config.Index}
	// deleting an entry that was never indexed is not an error
	if input.Remove && res.StatusCode == http.StatusNotFound {
		out.Result = "not_found"
		return out, nil
	}
	if res.IsError() {
		return nil, errors.NewIndexingFailedError(fmt.Errorf("%s", res.String()))
	}

	var wr writeResponse
	if err := json.NewDecoder(res.Body).Decode(&wr); err != nil {
		return nil, errors.NewIndexingFailedError(fmt.Errorf("decode response: %w", err))
	}
	out.Result = wr.Result
	out.Version = wr.Version

	h.logger.Info("directory entry written", map[string]interface{}{
		"documentId": docID,
		"result":     out.Result,
	})
	return out, nil
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.CodeOf(err))).Inc()
	h.errors.HandleJobError(context.Background(), client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
