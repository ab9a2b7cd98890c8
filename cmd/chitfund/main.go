package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tvsubram/chitfund-api/internal/config"
	"github.com/tvsubram/chitfund-api/internal/domain"
	"github.com/tvsubram/chitfund-api/internal/handler"
	"github.com/tvsubram/chitfund-api/internal/infra/cache"
	"github.com/tvsubram/chitfund-api/internal/infra/observability"
	"github.com/tvsubram/chitfund-api/internal/infra/resilience"
	"github.com/tvsubram/chitfund-api/internal/infra/supabase"
	"github.com/tvsubram/chitfund-api/internal/jobs"
	"github.com/tvsubram/chitfund-api/internal/service"

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
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Duration("jwt_access_ttl", cfg.JWTAccessTTL),
		zap.Duration("jwt_refresh_ttl", cfg.JWTRefreshTTL),
		zap.String("overdue_sweep_cron", cfg.OverdueSweepCron),
		zap.String("due_reminder_cron", cfg.DueReminderCron),
	)

	if cfg.SupabaseURL == "" {
		logger.Fatal("SUPABASE_URL is required")
	}

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "chitfund-api")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Cache ---
	schemeCache := cache.New[*domain.Scheme](cfg.CacheTTL)

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	cb := resilience.NewCircuitBreaker("supabase")

	// --- Store ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	store := supabase.NewClient(
		httpClient,
		cfg.SupabaseURL,
		cfg.SupabaseAnonKey,
		cfg.SupabaseServiceKey,
		cb,
		resilienceCfg,
		logger,
	)

	// --- Services ---
	seq := service.NewSequencer(store)
	authSvc := service.NewAuthService(store, cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL, logger)
	dirSvc := service.NewDirectoryService(store, store, seq, logger)
	schemeSvc := service.NewSchemeService(store, schemeCache, seq, metrics, logger)
	groupSvc := service.NewGroupService(store, store, schemeSvc, seq, logger)
	bookingSvc := service.NewBookingService(store, store, groupSvc, seq, logger)
	installmentSvc := service.NewInstallmentService(store, store, store, schemeSvc, seq, metrics, logger)
	txSvc := service.NewTransactionService(store, store, store, seq, metrics, logger)
	payoutSvc := service.NewPayoutService(store, store, schemeSvc, txSvc, seq, metrics, logger)
	ledgerSvc := service.NewLedgerService(store, store, store, seq, logger)
	receiptSvc := service.NewReceiptService(store)
	notifSvc := service.NewNotificationService(store, seq, logger)
	reportSvc := service.NewReportService(store, metrics, logger)

	// --- Scheduled jobs ---
	sweeper := jobs.NewSweeper(store, schemeSvc, notifSvc, logger)
	scheduler, err := jobs.NewScheduler(sweeper, cfg.OverdueSweepCron, cfg.DueReminderCron, cfg.DueReminderDays, logger)
	if err != nil {
		logger.Fatal("failed to build job scheduler", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	// --- Router ---
	router := handler.NewRouter(&handler.Services{
		Auth:          authSvc,
		Directory:     dirSvc,
		Schemes:       schemeSvc,
		Groups:        groupSvc,
		Bookings:      bookingSvc,
		Installments:  installmentSvc,
		Payouts:       payoutSvc,
		Transactions:  txSvc,
		Ledger:        ledgerSvc,
		Receipts:      receiptSvc,
		Notifications: notifSvc,
		Reports:       reportSvc,
	}, metrics, logger)

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
