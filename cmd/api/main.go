package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/civicdesk/complaint-service/internal/api/http"
	"github.com/civicdesk/complaint-service/internal/api/http/handlers"
	"github.com/civicdesk/complaint-service/internal/auth"
	"github.com/civicdesk/complaint-service/internal/clock"
	"github.com/civicdesk/complaint-service/internal/config"
	"github.com/civicdesk/complaint-service/internal/events"
	"github.com/civicdesk/complaint-service/internal/observability"
	"github.com/civicdesk/complaint-service/internal/persistence"
	"github.com/civicdesk/complaint-service/internal/repository"
	"github.com/civicdesk/complaint-service/internal/service"
	"github.com/civicdesk/complaint-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	metrics := observability.NewMetrics()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	complaintRepo := repository.NewComplaintRepository(pool)
	historyRepo := repository.NewComplaintHistoryRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)
	officerRepo := repository.NewOfficerRepository(pool)
	citizenRepo := repository.NewCitizenRepository(pool)

	clk := clock.System{}
	dispatcher := events.NewInMemoryDispatcher()

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification, redis, metrics)
	notificationService.RegisterHandlers()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		CitizenRepo: citizenRepo,
		OfficerRepo: officerRepo,
	})
	orgService := service.NewOrgService(*cfg, service.OrgDependencies{
		DepartmentRepo: departmentRepo,
		OfficerRepo:    officerRepo,
	})
	complaintService := service.NewComplaintService(service.ComplaintDependencies{
		ComplaintRepo:  complaintRepo,
		HistoryRepo:    historyRepo,
		DepartmentRepo: departmentRepo,
		Dispatcher:     dispatcher,
		Clock:          clk,
		Logger:         logger,
	})
	assignmentService := service.NewAssignmentService(service.AssignmentDependencies{
		ComplaintStore: complaintRepo,
		Officers:       officerRepo,
		Dispatcher:     dispatcher,
		Clock:          clk,
		Logger:         logger,
	})
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), citizenRepo, officerRepo)

	var scanner *worker.SLAScanner
	if cfg.SLA.ScanEnabled {
		scanner = worker.NewSLAScanner(worker.SLAScannerConfig{
			Store:      complaintRepo,
			Dispatcher: dispatcher,
			Clock:      clk,
			Logger:     logger,
			Metrics:    metrics,
			Interval:   cfg.SLA.ScanInterval(),
			PageSize:   cfg.SLA.ScanPageSize,
		})
		scanner.Start(ctx)
	}

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:            handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:              handlers.NewAuthHandler(authService),
		Meta:              handlers.NewMetaHandler(orgService),
		Complaints:        handlers.NewComplaintsHandler(complaintService),
		OfficerComplaints: handlers.NewOfficerComplaintsHandler(complaintService, assignmentService),
		Admin:             handlers.NewAdminHandler(orgService),
		AuthMiddleware:    authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if scanner != nil {
		scanner.Stop()
	}
	if err := app.Shutdown(); err != nil {
		logger.Warn("fiber shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
