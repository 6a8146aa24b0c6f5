package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/jobs"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/mailer"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/oauth"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/routes"
	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	baseHandler := logging.Setup(cfg)

	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable is required")
	}

	if err := database.Connect(cfg); err != nil {
		return err
	}
	defer func() {
		if err := database.Close(database.DB); err != nil {
			slog.Error("database close error", "error", err)
		}
	}()

	if err := database.Migrate(database.DB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	// ERROR+ records also go to system_logs.
	stopDBLog := logging.Attach(baseHandler, database.DB)
	defer stopDBLog()

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
			Release:          Version,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	var limiterStorage fiber.Storage
	if cfg.RedisURL != "" {
		storage, err := cache.NewRedisStorage(cfg.RedisURL, "todo:ratelimit:")
		if err != nil {
			slog.Warn("redis unavailable, rate limits stay in memory", "error", err)
		} else {
			limiterStorage = storage
			defer storage.Close()
		}
	}

	var mail mailer.Mailer = mailer.LogMailer{}
	if cfg.NATSURL != "" {
		natsMailer, err := mailer.NewNATSMailer(cfg.NATSURL, cfg.MailSubject)
		if err != nil {
			return err
		}
		mail = natsMailer
		defer natsMailer.Close()
	}

	verifier := oauth.NewVerifier(nil,
		oauth.Google(config.ParseCSV(cfg.GoogleClientIDs)),
		oauth.Apple(config.ParseCSV(cfg.AppleClientIDs)),
	)
	defer verifier.Close()

	janitor := jobs.NewJanitor(database.DB, cfg.SystemLogRetention)
	if err := janitor.Start(cfg.JanitorSchedule); err != nil {
		return fmt.Errorf("invalid JANITOR_SCHEDULE: %w", err)
	}
	defer janitor.Stop()

	app := routes.NewApp(cfg, routes.Deps{
		DB:             database.DB,
		Verifier:       verifier,
		Mailer:         mail,
		LimiterStorage: limiterStorage,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	listenErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv)
		listenErr <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("server failed to start: %w", err)
	case <-quit:
	}

	slog.Info("shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	slog.Info("server stopped")
	return nil
}
