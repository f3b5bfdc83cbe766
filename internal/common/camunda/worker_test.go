// internal/common/camunda/worker_test.go
package camunda

import (
	"context"
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"onboarding-workers/internal/common/camunda/camundatest"
	"onboarding-workers/internal/common/config"
)

func TestInstrument_Outcomes(t *testing.T) {
	tests := []struct {
		name    string
		handle  func(worker.JobClient, entities.Job)
		outcome string
	}{
		{
			name: "completed",
			handle: func(c worker.JobClient, job entities.Job) {
				_, _ = c.NewCompleteJobCommand().JobKey(job.Key).Send(context.Background())
			},
			outcome: "completed",
		},
		{
			name: "failed",
			handle: func(c worker.JobClient, job entities.Job) {
				_, _ = c.NewFailJobCommand().JobKey(job.Key).Retries(2).Send(context.Background())
			},
			outcome: "failed",
		},
		{
			name: "thrown",
			handle: func(c worker.JobClient, job entities.Job) {
				_, _ = c.NewThrowErrorCommand().JobKey(job.Key).ErrorCode("X").Send(context.Background())
			},
			outcome: "error_thrown",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := camundatest.NewJobClient()
			var seen *outcomeClient
			wrapped := Instrument("score-partnership-pair", func(c worker.JobClient, job entities.Job) {
				seen = c.(*outcomeClient)
				tt.handle(c, job)
			}, nil)

			wrapped(client, camundatest.Job(1, "score-partnership-pair", map[string]interface{}{}))

			require.NotNil(t, seen)
			assert.Equal(t, tt.outcome, seen.outcome())
		})
	}
}

func TestInstrument_PassesCommandsThrough(t *testing.T) {
	client := camundatest.NewJobClient()
	wrapped := Instrument("verify-session", func(c worker.JobClient, job entities.Job) {
		_, _ = c.NewThrowErrorCommand().JobKey(job.Key).ErrorCode("SESSION_INVALID").Send(context.Background())
	}, nil)

	wrapped(client, camundatest.Job(7, "verify-session", map[string]interface{}{}))

	require.Len(t, client.Thrown(), 1)
	assert.Equal(t, int64(7), client.Thrown()[0].JobKey)
	assert.Equal(t, "SESSION_INVALID", client.ThrownCode())
}

func TestStartWorker_Disabled(t *testing.T) {
	w := StartWorker(nil, "build-dashboard", config.WorkerConfig{Enabled: false}, nil, nil, zap.NewNop())
	assert.Nil(t, w)
}

func TestInstrument_ReturnsJobHandler(t *testing.T) {
	var h worker.JobHandler = Instrument("build-dashboard", func(worker.JobClient, entities.Job) {}, nil)
	require.NotNil(t, h)

	client := camundatest.NewJobClient()
	h(client, camundatest.Job(3, "build-dashboard", map[string]interface{}{}))
	assert.Empty(t, client.Thrown())
}
