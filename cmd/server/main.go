package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/splitsync/splitsync/internal/api"
	"github.com/splitsync/splitsync/internal/auth"
	"github.com/splitsync/splitsync/internal/config"
	"github.com/splitsync/splitsync/internal/events"
	"github.com/splitsync/splitsync/internal/metrics"
	"github.com/splitsync/splitsync/internal/service"
	"github.com/splitsync/splitsync/internal/storage/sqlite"
	"github.com/splitsync/splitsync/pkg/logging"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)
	hub := events.NewHub()

	deps := api.Deps{
		Cfg:         cfg,
		JWT:         jwtManager,
		Hub:         hub,
		Auth:        service.NewAuthService(authenticator, jwtManager, store),
		Expenses:    service.NewExpenseService(store, hub),
		Groups:      service.NewGroupService(store),
		Balances:    service.NewBalanceService(store),
		Settlements: service.NewSettlementService(store, hub),
	}

	metrics.Init()

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.HTTPPort, "env", cfg.Env, "db", cfg.DBPath)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}
