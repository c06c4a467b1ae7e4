package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jagoanbunda/jagoanbunda-data/common/database"
	"github.com/jagoanbunda/jagoanbunda-data/common/logger"
	commonredis "github.com/jagoanbunda/jagoanbunda-data/common/redis"
	"github.com/jagoanbunda/jagoanbunda-data/internal/config"
	httpapi "github.com/jagoanbunda/jagoanbunda-data/internal/http"
	"github.com/jagoanbunda/jagoanbunda-data/internal/reference"
	"github.com/jagoanbunda/jagoanbunda-data/internal/repository"
	"github.com/jagoanbunda/jagoanbunda-data/internal/service"
	"github.com/jagoanbunda/jagoanbunda-data/internal/store"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "jagoanbunda-data")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if cfg.Auth.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	catalog, err := reference.Load()
	if err != nil {
		log.Fatal("Failed to load reference catalog", zap.Error(err))
	}

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	redisClient := commonredis.NewRedisClient(&cfg.Redis)
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := commonredis.Ping(pingCtx, redisClient); err != nil {
		log.Warn("Redis not reachable at startup", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	}
	pingCancel()
	kv := store.NewRedisKV(redisClient)

	clock := service.SystemClock(cfg.Timezone)

	// Repositories
	users := repository.NewPostgresUsersRepository(db)
	children := repository.NewPostgresChildrenRepository(db)
	anthropometry := repository.NewPostgresAnthropometryRepository(db)
	foods := repository.NewPostgresFoodsRepository(db)
	foodLogs := repository.NewPostgresFoodLogsRepository(db)
	asq3Ref := repository.NewPostgresAsq3ReferenceRepository(db)
	screenings := repository.NewPostgresScreeningsRepository(db)
	pmtRepo := repository.NewPostgresPmtRepository(db)
	notificationsRepo := repository.NewPostgresNotificationsRepository(db)
	dashboardRepo := repository.NewPostgresDashboardRepository(db)

	// Services
	authSvc := service.NewAuthService(
		users,
		store.NewSessionStore(kv, cfg.Auth.SessionTTL),
		store.NewTokenDenylist(kv),
		cfg.Auth.JWTSecret,
		cfg.Auth.TokenTTL,
		log,
	)
	notifications := service.NewNotificationService(
		notificationsRepo,
		service.NewStreamPublisher(redisClient, cfg.Notify.Stream, cfg.Notify.StreamMax),
		log,
	)
	childSvc := service.NewChildService(children, users, anthropometry, screenings, foodLogs, clock, log)
	anthropometrySvc := service.NewAnthropometryService(children, anthropometry, clock, log)
	foodSvc := service.NewFoodService(foods, log)
	foodLogSvc := service.NewFoodLogService(children, foods, foodLogs, clock, log)
	nutritionSvc := service.NewNutritionService(children, foodLogs, anthropometry, screenings, asq3Ref, pmtRepo, catalog, clock, log)
	screeningSvc := service.NewScreeningService(children, asq3Ref, screenings, notifications, catalog.QuestionsPerDomain, clock, log)
	interventionSvc := service.NewInterventionService(screenings, clock, log)
	pmtSvc := service.NewPmtService(children, foods, pmtRepo, clock, log)
	programSvc := service.NewPmtProgramService(children, pmtRepo, notifications, clock, log)
	reportSvc := service.NewPmtReportService(pmtRepo, clock, log)
	parentSvc := service.NewParentService(users, children, log)
	dashboardSvc := service.NewNakesDashboardService(dashboardRepo, clock, log)

	reporter := service.NewErrorReporter(service.ErrorReporterConfig{
		DSN:         cfg.Sentry.DSN,
		Environment: cfg.Sentry.Environment,
		Release:     cfg.Sentry.Release,
		SampleRate:  cfg.Sentry.SampleRate,
	}, log)
	if !reporter.Enabled() {
		log.Info("Error reporting disabled")
	}

	errs := httpapi.NewErrorWriter(reporter, log)
	deps := httpapi.HandlerDeps{Errors: errs, Logger: log, MaxBodyBytes: cfg.HTTP.MaxBodyBytes}
	cookie := httpapi.CookieConfig{Name: cfg.Auth.SessionCookie, Secure: cfg.Auth.CookieSecure}
	foodHandler := httpapi.NewFoodHandler(foodSvc, deps)

	router := httpapi.NewRouter(errs, log)
	router.RegisterParentRoutes(&httpapi.ParentAPI{
		Auth:          httpapi.NewAuthHandler(authSvc, deps),
		Children:      httpapi.NewChildHandler(childSvc, anthropometrySvc, foodLogSvc, nutritionSvc, deps),
		Foods:         foodHandler,
		Screenings:    httpapi.NewScreeningHandler(screeningSvc, deps),
		Pmt:           httpapi.NewPmtHandler(pmtSvc, deps),
		Notifications: httpapi.NewNotificationHandler(notifications, deps),
	}, authSvc)
	router.RegisterWebRoutes(&httpapi.WebAPI{
		Auth:       httpapi.NewWebAuthHandler(authSvc, cookie, deps),
		Dashboard:  httpapi.NewDashboardHandler(dashboardSvc, deps),
		Parents:    httpapi.NewParentHandler(parentSvc, deps),
		Children:   httpapi.NewWebChildHandler(childSvc, deps),
		Foods:      foodHandler,
		Programs:   httpapi.NewProgramHandler(programSvc, deps),
		Schedules:  httpapi.NewScheduleHandler(pmtSvc, deps),
		Reports:    httpapi.NewReportHandler(reportSvc, deps),
		Screenings: httpapi.NewWebScreeningHandler(screeningSvc, interventionSvc, deps),
	}, authSvc, cookie)

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			log.Error("HTTP server failed", zap.Error(err))
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	if !reporter.Flush(shutdownCtx) {
		log.Warn("Error events still in flight at shutdown")
	}
	_ = redisClient.Close()
	_ = database.Close(db)
}
