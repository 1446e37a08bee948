package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/masareefy/masareefy-engine-go/internal/config"
	"github.com/masareefy/masareefy-engine-go/internal/domain"
	"github.com/masareefy/masareefy-engine-go/internal/handler"
	"github.com/masareefy/masareefy-engine-go/internal/infra/cache"
	"github.com/masareefy/masareefy-engine-go/internal/infra/client"
	"github.com/masareefy/masareefy-engine-go/internal/infra/observability"
	"github.com/masareefy/masareefy-engine-go/internal/infra/resilience"
	"github.com/masareefy/masareefy-engine-go/internal/infra/supabase"
	"github.com/masareefy/masareefy-engine-go/internal/port"
	"github.com/masareefy/masareefy-engine-go/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.Bool("use_supabase", cfg.UseSupabase),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Int("burn_window_days", cfg.BurnWindowDays),
		zap.Duration("jwt_access_ttl", cfg.JWTAccessTTL),
		zap.Duration("jwt_refresh_ttl", cfg.JWTRefreshTTL),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "masareefy-engine")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Cache ---
	snapshotCache := cache.New[*domain.Snapshot](cfg.CacheTTL)

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	cb := resilience.NewCircuitBreaker("external-apis")

	// --- Clients ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	var profileClient port.ProfileFetcher
	var transactionsClient port.TransactionsFetcher
	var billsClient port.BillsFetcher
	var supabaseClient *supabase.Client

	if cfg.UseSupabase && cfg.SupabaseURL != "" {
		logger.Info("using Supabase as data backend",
			zap.String("supabase_url", cfg.SupabaseURL),
		)
		supabaseClient = supabase.NewClient(
			httpClient,
			cfg.SupabaseURL,
			cfg.SupabaseAnonKey,
			cfg.SupabaseServiceKey,
			cb,
			resilienceCfg,
			logger,
		)
		profileClient = supabaseClient
		transactionsClient = supabaseClient
		billsClient = supabaseClient
	} else {
		logger.Info("using HTTP API clients as data backend")
		profileClient = client.NewProfileClient(httpClient, cfg.ProfileAPIURL, cb, resilienceCfg)
		transactionsClient = client.NewTransactionsClient(httpClient, cfg.TransactionsAPIURL, cb, resilienceCfg)
		billsClient = client.NewBillsClient(httpClient, cfg.BillsAPIURL, cb, resilienceCfg)
	}

	receiptAgent := client.NewReceiptAgentClient(httpClient, cfg.ReceiptAgentURL, cb, resilienceCfg)

	// --- Services ---
	var planStore port.PlanStore
	if supabaseClient != nil {
		planStore = supabaseClient
	} else {
		planStore = noopPlanStore{}
	}

	plannerSvc := service.NewPlanner(
		profileClient,
		transactionsClient,
		billsClient,
		planStore,
		snapshotCache,
		metrics,
		logger,
		cfg.BurnWindowDays,
	)

	receiptSvc := service.NewReceiptService(receiptAgent, logger)

	var billSvc *service.BillService
	var authSvc *service.AuthService
	if supabaseClient != nil {
		billSvc = service.NewBillService(supabaseClient, plannerSvc, logger)
		logger.Info("bill service enabled with Supabase store")

		authSvc = service.NewAuthService(supabaseClient, cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL, logger)
		logger.Info("auth service enabled")
	} else {
		logger.Warn("bill mutations: Supabase not configured, bill writes unavailable")
		logger.Warn("auth service: Supabase not configured, auth routes unavailable")
	}

	// --- Router ---
	router := handler.NewRouter(plannerSvc, billSvc, receiptSvc, authSvc, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

// noopPlanStore accepts plan selections without persisting them. Used when
// Supabase is not configured so local runs still exercise the full flow.
type noopPlanStore struct{}

func (noopPlanStore) SaveSelectedPlan(_ context.Context, _ string, _ domain.PlanType, _ float64) error {
	return nil
}
