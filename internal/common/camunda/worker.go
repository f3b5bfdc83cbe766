// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"time"

	"onboarding-workers/internal/common/config"
	"onboarding-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"
)

// HandlerFunc is the signature every task handler exposes as Handle. It
// aliases worker.JobHandler so wrapped handlers go straight to the builder.
type HandlerFunc = worker.JobHandler

// StartWorker opens a job worker for taskType. Each job runs inside a span
// and is counted by outcome. A nil worker is returned when the task type is
// disabled.
func StartWorker(
	client zbc.Client,
	taskType string,
	wcfg config.WorkerConfig,
	handler HandlerFunc,
	obs *observability.Observability,
	log *zap.Logger,
) worker.JobWorker {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return nil
	}

	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(Instrument(taskType, handler, obs)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
	return jobWorker
}

// Instrument wraps handler with tracing and outcome metrics.
func Instrument(taskType string, handler HandlerFunc, obs *observability.Observability) HandlerFunc {
	return func(client worker.JobClient, job entities.Job) {
		ctx, span := obs.StartSpan(context.Background(), taskType, job.Key)
		defer span.End()

		tracked := &outcomeClient{JobClient: client}
		start := time.Now()
		handler(tracked, job)

		status := tracked.outcome()
		obs.RecordJobProcessed(ctx, taskType, status)
		obs.RecordJobDuration(ctx, taskType, time.Since(start), status)
	}
}

// outcomeClient notes which terminal command a handler issued.
type outcomeClient struct {
	worker.JobClient
	failed bool
	thrown bool
}

func (c *outcomeClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	c.failed = true
	return c.JobClient.NewFailJobCommand()
}

func (c *outcomeClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	c.thrown = true
	return c.JobClient.NewThrowErrorCommand()
}

func (c *outcomeClient) outcome() string {
	switch {
	case c.thrown:
		return "error_thrown"
	case c.failed:
		return "failed"
	default:
		return "completed"
	}
}
