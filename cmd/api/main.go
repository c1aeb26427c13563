package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/homigo-app/homigo-backend/internal/api"
	"github.com/homigo-app/homigo-backend/internal/auth"
	"github.com/homigo-app/homigo-backend/internal/config"
	"github.com/homigo-app/homigo-backend/internal/db"
	"github.com/homigo-app/homigo-backend/internal/logger"
	"github.com/homigo-app/homigo-backend/internal/metrics"
	"github.com/homigo-app/homigo-backend/internal/repository/postgres"
	"github.com/homigo-app/homigo-backend/internal/services"
	"github.com/homigo-app/homigo-backend/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if os.Getenv("APP_MIGRATE") == "true" {
		if err := db.RunMigrations(ctx, pool); err != nil {
			log.Error("migrations", "err", err)
			os.Exit(1)
		}
	}

	repos := postgres.NewRepositories(pool)
	wp := worker.NewPool(4)
	defer wp.Stop()

	tm := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTTL, cfg.RefreshTTL)
	audit := services.NewAuditor(repos.AuditLogs, wp)

	userSvc := services.NewUserService(repos.Users, tm, audit)
	listingSvc := services.NewListingService(repos.Listings, repos.Users, audit)
	bookingSvc := services.NewBookingService(repos.Bookings, repos.Listings, audit, cfg.AutoConfirm)

	metrics.Init()
	r := api.NewRouter(api.RouterDeps{
		Cfg:        cfg,
		Pool:       pool,
		TM:         tm,
		UserSvc:    userSvc,
		ListingSvc: listingSvc,
		BookingSvc: bookingSvc,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
