// Command server runs the maintenance backend HTTP API.
//
// Startup order: env + config, logging, tracing, database, object storage,
// router, then an http.Server with sane timeouts and graceful shutdown on
// SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-maintenance-backend/internal/config"
	httpapi "github.com/tbourn/go-maintenance-backend/internal/http"
	"github.com/tbourn/go-maintenance-backend/internal/observability"
	"github.com/tbourn/go-maintenance-backend/internal/repo"
	"github.com/tbourn/go-maintenance-backend/internal/storage"
	"github.com/tbourn/go-maintenance-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.NewConsoleWriter())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	var db *gorm.DB
	switch cfg.DB.Driver {
	case "sqlite":
		db, err = repo.OpenSQLite(cfg.DB.Path)
	default:
		db, err = repo.OpenPostgres(cfg.DB.DSN())
	}
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("database open failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}

	store, err := storage.NewS3Store(ctx, storage.Options{
		Bucket:     cfg.S3.Bucket,
		Region:     cfg.S3.Region,
		Endpoint:   cfg.S3.Endpoint,
		PresignTTL: cfg.S3.PresignTTL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("object storage setup failed")
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, store, cfg)

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
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
