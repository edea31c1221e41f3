package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pfes/joborder-api/docs"
	"github.com/pfes/joborder-api/internal/auth"
	"github.com/pfes/joborder-api/internal/config"
	"github.com/pfes/joborder-api/internal/database"
	"github.com/pfes/joborder-api/internal/http/handler"
	"github.com/pfes/joborder-api/internal/http/middleware"
	"github.com/pfes/joborder-api/internal/http/router"
	"github.com/pfes/joborder-api/internal/jobs"
	"github.com/pfes/joborder-api/internal/logger"
	"github.com/pfes/joborder-api/internal/reference"
	"github.com/pfes/joborder-api/internal/repository"
	"github.com/pfes/joborder-api/internal/service"
	"github.com/pfes/joborder-api/internal/storage"
	"github.com/pfes/joborder-api/internal/validation"
	"go.uber.org/zap"
)

// @title PFES Job Order API
// @version 1.0
// @description Job order tracking for domestic and international shipments

// @contact.name API Support
// @contact.email support@pfes.ph

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token
// @Security BearerAuth

const jobTimeout = 10 * time.Minute

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
		zap.String("timezone", basicCfg.App.Timezone),
	)

	if basicCfg.App.Environment == "development" {
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	} else {
		docs.SwaggerInfo.Host = ""
	}

	// In staging/production secrets may come from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}
	loc := cfg.App.Location()

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.Database.Driver == "sqlite" {
		// goose migrations target PostgreSQL only
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	var dataset *reference.Dataset
	if cfg.Reference.ProvincesFile != "" || cfg.Reference.CountriesFile != "" {
		dataset, err = reference.LoadFiles(cfg.Reference.ProvincesFile, cfg.Reference.CountriesFile)
	} else {
		dataset, err = reference.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load reference data: %w", err)
	}

	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	validator := validation.New(dataset)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTLDuration())

	// Repositories
	jobOrderRepo := repository.NewJobOrderRepository(db)
	userRepo := repository.NewUserRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)

	// Services
	auditLogService := service.NewAuditLogService(auditLogRepo, log)
	jobOrderService := service.NewJobOrderService(jobOrderRepo, validator, dataset, auditLogService, log, loc)
	authService := service.NewAuthService(userRepo, tokens, auditLogService, log, cfg.Auth.BcryptCost)
	reportService := service.NewReportService(jobOrderRepo, log, loc)
	exportService := service.NewExportService(jobOrderRepo, fileStorage, cfg.Jobs.ExportPrefix, log, loc)

	// Middleware
	authMiddleware := auth.NewMiddleware(tokens, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)
	auditMiddleware := middleware.NewAuditMiddleware(nil, log)

	rt := router.NewRouter(cfg, log, authMiddleware, rateLimiter, auditMiddleware, router.Handlers{
		Auth:      handler.NewAuthHandler(authService, validator, log),
		JobOrder:  handler.NewJobOrderHandler(jobOrderService, log),
		Report:    handler.NewReportHandler(reportService, exportService, loc, log),
		Reference: handler.NewReferenceHandler(dataset),
		Audit:     handler.NewAuditHandler(auditLogService, log),
		Health:    handler.NewHealthHandler(db, fileStorage, log),
	})

	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log, jobTimeout)
		if err := jobs.RegisterHousekeeping(scheduler, &cfg.Jobs, exportService, reportService, auditLogService, log); err != nil {
			return fmt.Errorf("failed to register jobs: %w", err)
		}
		scheduler.Start()
	} else {
		log.Info("Background jobs disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			<-scheduler.Stop().Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		log.Info("Server stopped gracefully")
	}

	return nil
}
