// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
app:
  name: onboarding-workers
  version: 1.2.0
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: onboarding
    user: onboarding
    password: ${TEST_DB_PASSWORD}
  elasticsearch:
    addresses: ["http://localhost:9200"]
  redis:
    address: localhost:6379
auth:
  jwt:
    secret: test-secret
    issuer: onboarding-auth
workers:
  score-partnership-pair:
    enabled: true
  send-notification:
    enabled: false
    timeout: 5000
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_AppliesDefaultsAndExpandsEnv(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "s3cret")

	cfg, err := LoadFromFile(writeConfig(t, testConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Database.Postgres.Password)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, "http://localhost:9200", cfg.Database.Elasticsearch.URL)
	assert.Equal(t, "directory", cfg.Database.Elasticsearch.DirectoryIndex)
	assert.Equal(t, 600, cfg.Matching.CacheTTL)
	assert.Equal(t, 100, cfg.Matching.MaxResults)
	assert.Equal(t, ":8080", cfg.App.HTTPAddress)
	assert.Equal(t, "onboarding-workers", cfg.Observability.ServiceName)

	score := cfg.Workers["score-partnership-pair"]
	assert.True(t, score.Enabled)
	assert.Equal(t, 5, score.MaxJobsActive)
	assert.Equal(t, 30000, score.Timeout)
	assert.Equal(t, 3, score.MaxRetries)

	notify := cfg.Workers["send-notification"]
	assert.False(t, notify.Enabled)
	assert.Equal(t, 5000, notify.Timeout)
}

func TestLoadFromFile_ValidationErrors(t *testing.T) {
	_, err := LoadFromFile(writeConfig(t, "camunda:\n  broker_address: localhost:26500\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.postgres.host is required")
}

func TestLoadFromFile_JWTSecretFromEnv(t *testing.T) {
	t.Setenv("SESSION_JWT_SECRET", "from-env")
	body := `
camunda:
  broker_address: localhost:26500
database:
  postgres: {host: localhost, database: onboarding, user: u}
  elasticsearch: {url: "http://es:9200"}
  redis: {address: "localhost:6379"}
`
	cfg, err := LoadFromFile(writeConfig(t, body))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.JWT.Secret)
	assert.Equal(t, []string{"http://es:9200"}, cfg.Database.Elasticsearch.GetAddresses())
}

func TestWorkerHelpers(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"build-dashboard": {Enabled: false, MaxJobsActive: 2},
	}}

	assert.False(t, IsWorkerEnabled(cfg, "build-dashboard"))
	assert.True(t, IsWorkerEnabled(cfg, "verify-session"))
	assert.Equal(t, 2, GetWorkerConfig(cfg, "build-dashboard").MaxJobsActive)
	assert.Equal(t, 5, GetWorkerConfig(cfg, "verify-session").MaxJobsActive)
	assert.Equal(t, int64(1500), GetDuration(1500).Milliseconds())
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "d", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=d sslmode=disable", p.GetDSN())
}
