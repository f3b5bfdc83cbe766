// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"onboarding-workers/internal/common/auth"
	awsclient "onboarding-workers/internal/common/aws"
	"onboarding-workers/internal/common/camunda"
	"onboarding-workers/internal/common/config"
	"onboarding-workers/internal/common/database"
	"onboarding-workers/internal/common/logger"
	"onboarding-workers/internal/common/observability"
	"onboarding-workers/internal/matching"
	"onboarding-workers/internal/store"
	"onboarding-workers/pkg/registry"

	tpc "onboarding-workers/internal/workers/admin/toggle-provider-certification"
	vss "onboarding-workers/internal/workers/auth/verify-session"
	sn "onboarding-workers/internal/workers/communication/send-notification"
	bd "onboarding-workers/internal/workers/dashboard/build-dashboard"
	ide "onboarding-workers/internal/workers/directory/index-directory-entry"
	sd "onboarding-workers/internal/workers/directory/search-directory"
	rpm "onboarding-workers/internal/workers/matching/rank-partnership-matches"
	spp "onboarding-workers/internal/workers/matching/score-partnership-pair"
	ums "onboarding-workers/internal/workers/matching/update-match-status"
	sbp "onboarding-workers/internal/workers/onboarding/submit-brand-profile"
	spa "onboarding-workers/internal/workers/onboarding/submit-provider-application"
	vof "onboarding-workers/internal/workers/onboarding/validate-onboarding-form"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.Observability.ServiceName, cfg.Observability.JaegerEndpoint)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Zeebe ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: cfg.Camunda.Plaintext,
			ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Elasticsearch ---
	var es *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return es.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Redis ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Matching ---
	reg := registry.Default()
	if cfg.Matching.RegistryPath != "" {
		reg, err = registry.LoadRegistry(cfg.Matching.RegistryPath)
		if err != nil {
			zapLog.Fatal("capability registry load failed", zap.String("path", cfg.Matching.RegistryPath), zap.Error(err))
		}
	}
	engine := matching.NewEngine(reg)

	db := store.New(pg.DB)
	profiles := store.NewProfileCache(db, rdb.Client, time.Duration(cfg.Matching.CacheTTL)*time.Second, log)

	// --- Session verification ---
	verifier, err := auth.NewSessionVerifier(
		cfg.Auth.JWT.Secret,
		cfg.Auth.JWT.Issuer,
		cfg.Auth.JWT.Audience,
		time.Duration(cfg.Auth.JWT.Leeway)*time.Second,
	)
	if err != nil {
		zapLog.Fatal("session verifier init failed", zap.Error(err))
	}

	// --- AWS messaging ---
	var (
		email sn.EmailSender
		sms   sn.SMSSender
	)
	awsCfg := cfg.Integrations.AWS
	if awsCfg.SES.Enabled {
		c, err := awsclient.NewSESClient(ctx, awsCfg.Region, awsCfg.SES.FromEmail)
		if err != nil {
			zapLog.Fatal("ses client init failed", zap.Error(err))
		}
		email = c
	}
	if awsCfg.SNS.Enabled {
		c, err := awsclient.NewSNSClient(ctx, awsCfg.Region, awsCfg.SNS.DefaultSMSSenderID)
		if err != nil {
			zapLog.Fatal("sns client init failed", zap.Error(err))
		}
		sms = c
	}
	zapLog.Info("All external service clients initialized",
		zap.Bool("ses", email != nil),
		zap.Bool("sns", sms != nil),
	)

	// --- Workers ---
	client := zeebe.GetClient()
	var workers []worker.JobWorker
	start := func(taskType string, handler camunda.HandlerFunc) {
		if !config.IsWorkerEnabled(cfg, taskType) {
			zapLog.Info("worker disabled", zap.String("taskType", taskType))
			return
		}
		wcfg := config.GetWorkerConfig(cfg, taskType)
		wcfg.Enabled = true
		if w := camunda.StartWorker(client, taskType, wcfg, handler, obs, zapLog); w != nil {
			workers = append(workers, w)
		}
	}
	timeout := func(taskType string) time.Duration {
		return config.GetDuration(config.GetWorkerConfig(cfg, taskType).Timeout)
	}

	// Onboarding
	{
		c := vof.DefaultConfig()
		c.Timeout = timeout(vof.TaskType)
		start(vof.TaskType, vof.NewHandler(c, log).Handle)
	}
	{
		c := sbp.DefaultConfig()
		c.Timeout = timeout(sbp.TaskType)
		start(sbp.TaskType, sbp.NewHandler(c, db, profiles, reg, log).Handle)
	}
	{
		c := spa.DefaultConfig()
		c.Timeout = timeout(spa.TaskType)
		start(spa.TaskType, spa.NewHandler(c, db, profiles, reg, log).Handle)
	}

	// Matching
	{
		c := spp.DefaultConfig()
		c.Timeout = timeout(spp.TaskType)
		start(spp.TaskType, spp.NewHandler(c, engine, profiles, db, log).Handle)
	}
	{
		c := rpm.DefaultConfig()
		c.Timeout = timeout(rpm.TaskType)
		c.MaxResults = cfg.Matching.MaxResults
		start(rpm.TaskType, rpm.NewHandler(c, engine, db, log).Handle)
	}
	{
		c := ums.DefaultConfig()
		c.Timeout = timeout(ums.TaskType)
		start(ums.TaskType, ums.NewHandler(c, engine, profiles, db, log).Handle)
	}

	// Directory
	{
		c := sd.DefaultConfig()
		c.Timeout = timeout(sd.TaskType)
		c.Index = es.DirectoryIndex
		start(sd.TaskType, sd.NewHandler(c, es.Client, log).Handle)
	}
	{
		c := ide.DefaultConfig()
		c.Timeout = timeout(ide.TaskType)
		c.Index = es.DirectoryIndex
		start(ide.TaskType, ide.NewHandler(c, es.Client, log).Handle)
	}

	// Admin, dashboard, auth, communication
	{
		c := tpc.DefaultConfig()
		c.Timeout = timeout(tpc.TaskType)
		start(tpc.TaskType, tpc.NewHandler(c, db, profiles, log).Handle)
	}
	{
		c := bd.DefaultConfig()
		c.Timeout = timeout(bd.TaskType)
		start(bd.TaskType, bd.NewHandler(c, engine, db, profiles, log).Handle)
	}
	{
		c := vss.DefaultConfig()
		c.Timeout = timeout(vss.TaskType)
		start(vss.TaskType, vss.NewHandler(c, verifier, log).Handle)
	}
	{
		c := sn.DefaultConfig()
		c.Timeout = timeout(sn.TaskType)
		c.EmailEnabled = awsCfg.SES.Enabled
		c.SMSEnabled = awsCfg.SNS.Enabled
		start(sn.TaskType, sn.NewHandler(c, db, email, sms, log).Handle)
	}
	zapLog.Info("workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy", nil)
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		checks := map[string]string{}
		ready := true
		for name, ping := range map[string]func(context.Context) error{
			"postgres":      pg.Ping,
			"redis":         rdb.Ping,
			"elasticsearch": es.Ping,
			"zeebe":         zeebe.HealthCheck,
		} {
			if err := ping(checkCtx); err != nil {
				checks[name] = err.Error()
				ready = false
				continue
			}
			checks[name] = "ok"
		}
		if !ready {
			writeStatus(w, http.StatusServiceUnavailable, "not_ready", checks)
			return
		}
		writeStatus(w, http.StatusOK, "ready", checks)
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              cfg.App.HTTPAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.App.HTTPAddress))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Close()
	}
	for _, w := range workers {
		w.AwaitClose()
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func writeStatus(w http.ResponseWriter, code int, status string, checks map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	body := map[string]interface{}{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	}
	if checks != nil {
		body["checks"] = checks
	}
	_ = json.NewEncoder(w).Encode(body)
}
