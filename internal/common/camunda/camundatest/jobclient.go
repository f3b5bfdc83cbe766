// internal/common/camunda/camundatest/jobclient.go

// Package camundatest provides an in-memory worker.JobClient for handler
// tests. Commands are built with the real zeebe command builders and land
// on a fake gateway that records each request.
package camundatest

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"google.golang.org/grpc"
)

type JobClient struct {
	mu        sync.Mutex
	completed []*pb.CompleteJobRequest
	failed    []*pb.FailJobRequest
	thrown    []*pb.ThrowErrorRequest
	gateway   *gateway
}

func NewJobClient() *JobClient {
	c := &JobClient{}
	c.gateway = &gateway{client: c}
	return c
}

func noRetry(context.Context, error) bool { return false }

func (c *JobClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	return commands.NewCompleteJobCommand(c.gateway, noRetry)
}

func (c *JobClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	return commands.NewFailJobCommand(c.gateway, noRetry)
}

func (c *JobClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	return commands.NewThrowErrorCommand(c.gateway, noRetry)
}

func (c *JobClient) Completed() []*pb.CompleteJobRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*pb.CompleteJobRequest(nil), c.completed...)
}

func (c *JobClient) Failed() []*pb.FailJobRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*pb.FailJobRequest(nil), c.failed...)
}

func (c *JobClient) Thrown() []*pb.ThrowErrorRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*pb.ThrowErrorRequest(nil), c.thrown...)
}

// CompletedVariables decodes the variables of the only completed job. It
// returns nil when the job was not completed exactly once.
func (c *JobClient) CompletedVariables() map[string]interface{} {
	done := c.Completed()
	if len(done) != 1 {
		return nil
	}
	return decode(done[0].Variables)
}

// ThrownCode returns the error code of the last thrown BPMN error.
func (c *JobClient) ThrownCode() string {
	thrown := c.Thrown()
	if len(thrown) == 0 {
		return ""
	}
	return thrown[len(thrown)-1].ErrorCode
}

// ThrownVariables decodes the variables attached to the last BPMN error.
func (c *JobClient) ThrownVariables() map[string]interface{} {
	thrown := c.Thrown()
	if len(thrown) == 0 {
		return nil
	}
	return decode(thrown[len(thrown)-1].Variables)
}

func decode(raw string) map[string]interface{} {
	vars := map[string]interface{}{}
	if raw == "" {
		return vars
	}
	if err := json.Unmarshal([]byte(raw), &vars); err != nil {
		return nil
	}
	return vars
}

// Job builds an activated job carrying vars as its variables.
func Job(key int64, jobType string, vars interface{}) entities.Job {
	data, err := json.Marshal(vars)
	if err != nil {
		panic(err)
	}
	return RawJob(key, jobType, string(data))
}

// RawJob builds an activated job with variables taken verbatim.
func RawJob(key int64, jobType, variables string) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               jobType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "onboarding-test",
		ElementId:          "Activity_" + jobType,
		CustomHeaders:      "{}",
		Worker:             "test-worker",
		Retries:            3,
		Variables:          variables,
	}}
}

// gateway implements only the job commands; any other call panics on the
// nil embedded client.
type gateway struct {
	pb.GatewayClient
	client *JobClient
}

func (g *gateway) CompleteJob(_ context.Context, in *pb.CompleteJobRequest, _ ...grpc.CallOption) (*pb.CompleteJobResponse, error) {
	g.client.mu.Lock()
	defer g.client.mu.Unlock()
	g.client.completed = append(g.client.completed, in)
	return &pb.CompleteJobResponse{}, nil
}

func (g *gateway) FailJob(_ context.Context, in *pb.FailJobRequest, _ ...grpc.CallOption) (*pb.FailJobResponse, error) {
	g.client.mu.Lock()
	defer g.client.mu.Unlock()
	g.client.failed = append(g.client.failed, in)
	return &pb.FailJobResponse{}, nil
}

func (g *gateway) ThrowError(_ context.Context, in *pb.ThrowErrorRequest, _ ...grpc.CallOption) (*pb.ThrowErrorResponse, error) {
	g.client.mu.Lock()
	defer g.client.mu.Unlock()
	g.client.thrown = append(g.client.thrown, in)
	return &pb.ThrowErrorResponse{}, nil
}
