package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"vetcita/internal/booking"
	"vetcita/internal/config"
	v1 "vetcita/internal/handler/v1"
	"vetcita/internal/jobs"
	"vetcita/internal/repository/postgres"
	"vetcita/internal/service"
	"vetcita/internal/session"
	"vetcita/pkg/auth"
	"vetcita/pkg/database"
	"vetcita/pkg/logger"
	"vetcita/pkg/metrics"
	"vetcita/pkg/tracer"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log, cfg.App.Environment)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := tracer.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() { _ = shutdownTracer(context.Background()) }()

	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		return err
	}
	if err := database.Migrate(db, log); err != nil {
		return err
	}

	rdb, err := database.ConnectRedis(ctx, cfg.Redis, log)
	if err != nil {
		return err
	}
	defer func() { _ = rdb.Close() }()

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	userRepo := postgres.NewUserRepository(db)
	petRepo := postgres.NewPetRepository(db)
	apptRepo := postgres.NewAppointmentRepository(db)
	catalogRepo := postgres.NewCatalogRepository(db)
	auditRepo := postgres.NewAuditRepository(db)

	if err := catalogRepo.SeedDefaults(ctx); err != nil {
		return err
	}

	tokens := auth.NewTokenManager(cfg.JWT)
	sessions := session.NewStore(rdb, cfg.Booking.SessionTTL)
	drafts := booking.NewRedisStore(rdb, cfg.Booking.DraftTTL, nil)

	auditSvc := service.NewAuditService(auditRepo, log)
	defer auditSvc.Close()

	authSvc := service.NewAuthService(userRepo, tokens, sessions, auditSvc, log)
	petSvc := service.NewPetService(petRepo, auditSvc, log)
	apptSvc := service.NewAppointmentService(apptRepo, petRepo, catalogRepo, userRepo, auditSvc, m, log)
	bookingSvc := service.NewBookingService(drafts, sessions, petRepo, apptSvc, m, log, nil)
	catalogSvc := service.NewCatalogService(catalogRepo)

	router := v1.NewRouter(cfg, log, m, registry, tokens, v1.Handlers{
		Auth:        v1.NewAuthHandler(authSvc, log),
		Pet:         v1.NewPetHandler(petSvc, log),
		Appointment: v1.NewAppointmentHandler(apptSvc, log),
		Booking:     v1.NewBookingHandler(bookingSvc, log),
		Catalog:     v1.NewCatalogHandler(catalogSvc, log),
		Dashboard:   v1.NewDashboardHandler(apptSvc, log),
	})

	if cfg.Jobs.ReminderEnabled {
		reminder := jobs.NewReminder(apptRepo, &jobs.LogNotifier{Log: log}, m, log)
		if err := reminder.Start(cfg.Jobs.ReminderCron); err != nil {
			return err
		}
		defer reminder.Stop()
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
