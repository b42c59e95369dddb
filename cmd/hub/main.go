package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"games_hub/internal/config"
	"games_hub/internal/middleware"
	"games_hub/internal/routes"
	"games_hub/internal/storage/mariadb"
	"games_hub/internal/storage/uploads"
	"games_hub/internal/views"

	ssogrpc "games_hub/internal/clients/sso/grpc"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("starting games hub", slog.String("env", cfg.Env))

	storage, err := mariadb.New(cfg.Database, log)
	if err != nil {
		log.Error("failed to create database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := storage.Close(); err != nil {
			log.Error("failed to close database", slog.String("error", err.Error()))
		}
	}()

	if err := storage.Migrate(); err != nil {
		log.Error("migration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("database init")

	media, err := setupUploads(cfg.Uploads)
	if err != nil {
		log.Error("failed to create uploads storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("uploads init", slog.String("backend", cfg.Uploads.Backend))

	var auth *middleware.AuthMiddleware
	if cfg.Clients.SSO.Address != "" {
		ssoClient, err := ssogrpc.New(
			context.Background(),
			log,
			cfg.Clients.SSO.Address,
			cfg.Clients.SSO.Timeout,
			cfg.Clients.SSO.RetriesCount,
		)
		if err != nil {
			log.Error("failed to create sso client", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer ssoClient.Close()

		auth = middleware.NewAuthMiddleware(ssoClient, cfg.Clients.SSO.AppID, log)
	}

	r := routes.SetupRouter(log, storage, media, views.Must(views.New()), routes.Options{
		MediaPrefix: cfg.Uploads.URLPrefix,
		Auth:        auth,
		Cors:        cfg.Cors,
	})

	log.Info("routes init")

	server := &http.Server{
		Addr:         cfg.Address,
		Handler:      r,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	serverErrors := make(chan error, 1)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("starting server", slog.String("address", cfg.Address))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		log.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)

	case sig := <-shutdown:
		log.Info("shutting down", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown error", slog.String("error", err.Error()))
			if err := server.Close(); err != nil {
				log.Error("force shutdown error", slog.String("error", err.Error()))
			}
		}
	}

	log.Info("server stopped")
}

func setupUploads(cfg config.Uploads) (uploads.IUploads, error) {
	if cfg.Backend == config.UploadsS3 {
		s3, err := uploads.NewS3(context.Background(), cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Prefix, cfg.S3.PublicURL)
		if err != nil {
			return nil, err
		}
		return s3, nil
	}

	local, err := uploads.NewUploads(cfg.Path, cfg.URLPrefix)
	if err != nil {
		return nil, err
	}
	return local, nil
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}
