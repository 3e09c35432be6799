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

	"github.com/akshayds23/Whizrobo/internal/app"
	"github.com/akshayds23/Whizrobo/internal/config"
	"github.com/akshayds23/Whizrobo/internal/controller"
	"github.com/akshayds23/Whizrobo/internal/controller/handlers"
	"github.com/akshayds23/Whizrobo/internal/metrics"
	"github.com/akshayds23/Whizrobo/internal/repository"
	"github.com/akshayds23/Whizrobo/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Server stopped with error", zap.Error(err))
	}

	logger.Info("Server stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("Starting whizrobo server",
		zap.String("environment", cfg.Environment),
		zap.String("http_addr", cfg.HTTPAddr),
	)

	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		return fmt.Errorf("create pool: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		return err
	}
	if err := migrator.Run(ctx); err != nil {
		migrator.Close()
		return err
	}
	migrator.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := metrics.New(registry)
	if err != nil {
		return err
	}

	// repositories
	orgRepo := repository.NewOrganizationRepository(pool)
	robotRepo := repository.NewRobotRepository(pool)
	licenseRepo := repository.NewLicenseRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	courseAccessRepo := repository.NewCourseAccessRepository(pool)
	usageLogRepo := repository.NewUsageLogRepository(pool)

	// services
	licenseStatusService := service.NewLicenseStatusService(licenseRepo, notificationRepo, time.Now, m, logger)
	licenseService := service.NewLicenseService(licenseRepo, notificationRepo, orgRepo, robotRepo, logger)
	entitlementService := service.NewEntitlementService(courseAccessRepo, courseRepo, orgRepo, logger)
	robotSyncService := service.NewRobotSyncService(licenseStatusService, entitlementService, robotRepo, time.Now, m, logger)
	usageLogService := service.NewUsageLogService(licenseRepo, usageLogRepo, time.Now, m, logger)
	robotAdminService := service.NewRobotAdminService(robotRepo, licenseRepo, licenseStatusService, logger)
	organizationService := service.NewOrganizationService(orgRepo, logger)

	scheduler := app.NewScheduler(licenseStatusService, cfg.LicenseSweepInterval, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	h := handlers.NewHandlers(
		robotSyncService,
		usageLogService,
		licenseStatusService,
		licenseService,
		robotAdminService,
		entitlementService,
		entitlementService,
		organizationService,
		pool,
		logger,
	)

	server := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: controller.NewRouter(h, controller.RouterConfig{
			JWTSecret:      cfg.JWTSecret,
			RequestTimeout: cfg.RequestTimeout,
			Gatherer:       registry,
			Metrics:        m,
		}, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	return nil
}
