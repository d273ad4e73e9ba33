package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/hongminglow/kitchen-guide/internal/auth"
	"github.com/hongminglow/kitchen-guide/internal/config"
	"github.com/hongminglow/kitchen-guide/internal/http/handlers"
	"github.com/hongminglow/kitchen-guide/internal/http/render"
	"github.com/hongminglow/kitchen-guide/internal/middleware"
	"github.com/hongminglow/kitchen-guide/internal/server"
	"github.com/hongminglow/kitchen-guide/internal/storage/postgres"
	"github.com/hongminglow/kitchen-guide/internal/upload"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		logger.Info().Msg("no .env file found; relying on existing environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	ctx := context.Background()
	store, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("init database")
	}
	defer store.Close()
	if err := store.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}

	uploads, err := newUploadStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("init upload backend")
	}

	renderer, err := render.New(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse templates")
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	gate := middleware.NewAuth(tokens, renderer, logger)
	h := handlers.New(store, store, store, uploads, tokens, gate, renderer, logger, cfg.MaxUpload)

	srv := server.New(cfg, h, gate, logger)

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddress()).Msg("kitchen guide listening")
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server error")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
}

// newUploadStore selects the storage backend once at startup; handlers only
// ever see the interface.
func newUploadStore(ctx context.Context, cfg config.Config) (upload.Store, error) {
	if cfg.S3Enabled {
		client, err := upload.NewS3Client(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, err
		}
		return upload.NewS3Store(client, cfg.S3Bucket, cfg.AWSRegion), nil
	}
	return upload.NewLocalStore(cfg.UploadDir), nil
}
