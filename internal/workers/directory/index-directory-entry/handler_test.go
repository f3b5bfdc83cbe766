// internal/workers/directory/index-directory-entry/handler_test.go
package indexdirectoryentry

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboarding-workers/internal/common/camunda/camundatest"
	"onboarding-workers/internal/common/logger"
	"onboarding-workers/internal/models"
)

type recordedRequest struct {
	method string
	path   string
	body   map[string]interface{}
}

type fakeES struct {
	mu       sync.Mutex
	status   int
	body     string
	requests []recordedRequest
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := recordedRequest{method: r.Method, path: r.URL.Path}
	if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
		_ = json.Unmarshal(raw, &rec.body)
	}
	f.requests = append(f.requests, rec)
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(f.status)
	_, _ = w.Write([]byte(f.body))
}

func newTestHandler(t *testing.T, status int, body string) (*Handler, *fakeES) {
	t.Helper()
	fake := &fakeES{status: status, body: body}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:    []string{srv.URL},
		DisableRetry: true,
	})
	require.NoError(t, err)

	h := NewHandler(&Config{Timeout: 5 * time.Second, Index: "directory"}, es, logger.NewTestLogger(t))
	return h, fake
}

func logiFlowEntry() models.DirectoryEntry {
	return models.DirectoryEntry{
		EntityType:   models.EntityProvider,
		EntityID:     "3pl-logiflow",
		Name:         "LogiFlow",
		Location:     "Los Angeles, CA",
		Capabilities: []string{"Hazmat Support"},
	}
}

func TestExecute_IndexesEntry(t *testing.T) {
	h, fake := newTestHandler(t, http.StatusCreated, `{"_id": "3pl:3pl-logiflow", "result": "created", "_version": 1}`)

	out, err := h.Execute(context.Background(), &Input{Entry: logiFlowEntry()})
	require.NoError(t, err)

	assert.Equal(t, "3pl:3pl-logiflow", out.DocumentID)
	assert.Equal(t, "created", out.Result)
	assert.Equal(t, int64(1), out.Version)

	require.Len(t, fake.requests, 1)
	req := fake.requests[0]
	assert.Equal(t, http.MethodPut, req.method)
	assert.Equal(t, "/directory/_doc/3pl:3pl-logiflow", req.path)
	assert.Equal(t, "LogiFlow", req.body["name"])
	assert.Equal(t, "3pl", req.body["entityType"])
	assert.NotEmpty(t, req.body["updatedAt"])
}

func TestExecute_Remove(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		h, fake := newTestHandler(t, http.StatusOK, `{"result": "deleted", "_version": 4}`)

		out, err := h.Execute(context.Background(), &Input{Entry: models.DirectoryEntry{EntityType: "brand", EntityID: "brand-eco"}, Remove: true})
		require.NoError(t, err)
		assert.Equal(t, "deleted", out.Result)
		assert.Equal(t, http.MethodDelete, fake.requests[0].method)
	})

	t.Run("missing document is fine", func(t *testing.T) {
		h, _ := newTestHandler(t, http.StatusNotFound, `{"result": "not_found"}`)

		out, err := h.Execute(context.Background(), &Input{Entry: models.DirectoryEntry{EntityType: "brand", EntityID: "brand-eco"}, Remove: true})
		require.NoError(t, err)
		assert.Equal(t, "not_found", out.Result)
	})
}

func TestHandle_Errors(t *testing.T) {
	t.Run("invalid entry", func(t *testing.T) {
		h, fake := newTestHandler(t, http.StatusCreated, `{}`)
		client := camundatest.NewJobClient()

		h.Handle(client, camundatest.Job(1, TaskType, Input{Entry: models.DirectoryEntry{EntityType: "carrier"}}))

		require.Equal(t, "VALIDATION_FAILED", client.ThrownCode())
		fields := client.ThrownVariables()["fieldErrors"].(map[string]interface{})
		assert.Equal(t, "entityType must be brand or 3pl", fields["entityType"])
		assert.Contains(t, fields, "entityId")
		assert.Contains(t, fields, "name")
		assert.Empty(t, fake.requests)
	})

	t.Run("mapping conflict is retried", func(t *testing.T) {
		h, _ := newTestHandler(t, http.StatusBadRequest, `{"error": {"type": "mapper_parsing_exception"}}`)
		client := camundatest.NewJobClient()

		h.Handle(client, camundatest.Job(2, TaskType, Input{Entry: logiFlowEntry()}))

		require.Len(t, client.Failed(), 1)
		assert.Contains(t, client.Failed()[0].Variables, "INDEXING_FAILED")
	})
}

func TestHandle_Completes(t *testing.T) {
	h, _ := newTestHandler(t, http.StatusOK, `{"result": "updated", "_version": 3}`)
	client := camundatest.NewJobClient()

	h.Handle(client, camundatest.Job(3, TaskType, Input{Entry: logiFlowEntry()}))

	vars := client.CompletedVariables()
	require.NotNil(t, vars)
	assert.Equal(t, "updated", vars["result"])
	assert.Equal(t, "3pl:3pl-logiflow", vars["documentId"])
}
