// Command server runs the interaction coordination backend: an HTTP API that
// creates interaction requests, pushes them to devices over FCM, and lets
// callers wait for the device's decision.
//
// @title       Interact Backend API
// @version     1.0
// @description Push-mediated interaction coordination service.
// @BasePath    /api/v1
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ccpush/go-interact-backend/internal/config"
	httpapi "github.com/ccpush/go-interact-backend/internal/http"
	"github.com/ccpush/go-interact-backend/internal/observability"
	"github.com/ccpush/go-interact-backend/internal/push"
	"github.com/ccpush/go-interact-backend/internal/repo"
	"github.com/ccpush/go-interact-backend/internal/sysutil"

	_ "github.com/ccpush/go-interact-backend/docs"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx := context.Background()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}

	notifier, err := buildNotifier(ctx, cfg.Push)
	if err != nil {
		log.Fatal().Err(err).Msg("push notifier setup failed")
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, notifier, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutting down")

	// Give in-flight waits a chance to return their soft results.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("otel shutdown failed")
	}
}

// buildNotifier selects the configured push implementation. The log notifier
// keeps local development working without Firebase credentials.
func buildNotifier(ctx context.Context, cfg config.PushConfig) (push.Notifier, error) {
	switch cfg.Provider {
	case "fcm":
		return push.NewFCMNotifier(ctx, cfg.CredentialsFile, cfg.ProjectID)
	default:
		return push.LogNotifier{}, nil
	}
}
