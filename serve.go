package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"medassist/config"
	"medassist/handlers"
	"medassist/store"
	"medassist/utils"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	logger.Info().Str("environment", cfg.Env).Str("db_driver", cfg.DBDriver).Msg("starting")

	ctx := context.Background()

	db, err := store.Open(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("failed to open database")
		return err
	}
	defer db.Close()
	logger.Info().Msg("connected to database")

	redisPool, err := utils.OpenRedisPool(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error().Err(err).Msg("failed to connect to redis")
		return err
	}
	defer redisPool.Close()

	templates, err := handlers.LoadTemplates()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o750); err != nil {
		return err
	}
	if cfg.InferenceURL == "" {
		logger.Warn().Msg("INFERENCE_URL is not set; diagnoses will report the model as unavailable")
	}

	app := &handlers.App{
		Config:    cfg,
		Store:     db,
		Redis:     redisPool,
		Diagnoser: newDiagnoser(cfg),
		Mailer:    utils.NewMailer(cfg.SendGridAPIKey, cfg.MailFrom, cfg.MailFromName, logger),
		Templates: templates,
		Log:       logger,
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.Routes(app),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      cfg.InferenceTimeout + time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		logger.Error().Err(err).Msg("server failed")
		return err
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
