package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"promptmint.backend/internal/config"
	"promptmint.backend/internal/infrastructure/jobs"
	"promptmint.backend/internal/infrastructure/notify"
	"promptmint.backend/internal/infrastructure/payout"
	"promptmint.backend/internal/infrastructure/repositories"
	"promptmint.backend/internal/interfaces/http/handlers"
	"promptmint.backend/internal/usecases"
	"promptmint.backend/pkg/jwt"
	"promptmint.backend/pkg/logger"
	"promptmint.backend/pkg/metrics"
	"promptmint.backend/pkg/redis"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	logger.Init(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := redis.Init(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.Database.URL(),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt:    false,
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database not available: %w", err)
	}
	logger.Info(context.Background(), "Connected to PostgreSQL")

	registry := prometheus.NewRegistry()
	metrics.Register(registry)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiry)

	// Repositories
	creatorRepo := repositories.NewCreatorRepository(db)
	templateRepo := repositories.NewTemplateRepository(db)
	ledgerRepo := repositories.NewLedgerRepository(db)
	withdrawalRepo := repositories.NewWithdrawalRepository(db)
	moderationRepo := repositories.NewModerationRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Outbound adapters
	gateway := payout.NewHTTPGateway(cfg.Payout)
	notifier := notify.NewWebhookNotifier(cfg.Notify.WebhookURL)

	// Usecases
	creatorUsecase := usecases.NewCreatorUsecase(creatorRepo)
	ledgerUsecase := usecases.NewLedgerUsecase(ledgerRepo, templateRepo, withdrawalRepo, uow, cfg.Earnings.CommissionRate)
	approvalUsecase := usecases.NewApprovalUsecase(templateRepo, creatorRepo, moderationRepo, notifier)
	moderationUsecase := usecases.NewModerationUsecase(moderationRepo, templateRepo, creatorRepo, notifier, cfg.Moderation)
	withdrawalUsecase := usecases.NewWithdrawalUsecase(withdrawalRepo, creatorRepo, ledgerRepo, uow, gateway, notifier, cfg.Earnings)

	// Handlers
	deps := routeDeps{
		creatorHandler:    handlers.NewCreatorHandler(creatorUsecase),
		templateHandler:   handlers.NewTemplateHandler(approvalUsecase),
		withdrawalHandler: handlers.NewWithdrawalHandler(withdrawalUsecase),
		moderationHandler: handlers.NewModerationHandler(moderationUsecase),
		ledgerHandler:     handlers.NewLedgerHandler(ledgerUsecase),
		statsHandler:      handlers.NewStatsHandler(templateRepo, withdrawalRepo, moderationRepo),
		callbackHandler:   handlers.NewPayoutCallbackHandler(withdrawalUsecase, cfg.Payout.CallbackSecretHash),
		jwtService:        jwtService,
		registry:          registry,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	registerRoutes(r, deps)

	// Background reconciliation
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	reconcileJob := jobs.NewLedgerReconciliationJob(ledgerUsecase, cfg.Earnings.ReconcileInterval)
	go reconcileJob.Start(jobCtx)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(context.Background(), "Server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		cancelJobs()
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		logger.Info(context.Background(), "Shutting down", zap.String("signal", sig.String()))
	}

	cancelJobs()
	reconcileJob.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	logger.Info(context.Background(), "Server stopped")
	return nil
}
