package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/custommatt/account-api/internal/api"
	"github.com/custommatt/account-api/internal/api/handler"
	"github.com/custommatt/account-api/internal/core/ports"
	"github.com/custommatt/account-api/internal/core/service"
	mongostore "github.com/custommatt/account-api/internal/infrastructure/db/mongo"
	rediscache "github.com/custommatt/account-api/internal/infrastructure/db/redis"
	"github.com/custommatt/account-api/internal/infrastructure/mail"
	"github.com/custommatt/account-api/internal/infrastructure/queue"
	"github.com/custommatt/account-api/internal/infrastructure/security"
	"github.com/custommatt/account-api/internal/pkg/config"
	"github.com/custommatt/account-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		File:    cfg.LogFile,
		Service: serviceName,
	})
	defer logger.Close()

	client, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.MongoURI(),
		Database: cfg.Mongo.Database,
		AppName:  serviceName,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongo")

	repo := mongostore.NewAccountRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	checks := map[string]handler.DependencyCheck{"mongodb": mongostore.Ping(db)}

	var cache ports.SearchCache
	rdb, err := rediscache.Connect(ctx, rediscache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, zip search cache disabled")
	} else {
		defer rdb.Close()
		cache = rediscache.NewSearchCache(rdb, cfg.Redis.CacheTTL)
		checks["redis"] = rediscache.Ping(rdb)
	}

	tokens, err := service.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	// Deliveries outlive the signal context so queued mail drains on shutdown.
	workerCtx, cancelWorkers := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelWorkers()
	dispatcher := queue.NewDispatcher(cfg.Notify.Workers, buildMailer(ctx, cfg.Mail, log), log)
	dispatcher.Start(workerCtx)
	defer dispatcher.Stop()

	accounts := service.NewAccountService(service.AccountDeps{
		Repo:          repo,
		Hasher:        security.NewBcryptHasher(cfg.Auth.BcryptCost),
		Tokens:        tokens,
		Notifier:      dispatcher,
		Cache:         cache,
		NotifyTimeout: cfg.Notify.Timeout,
		Logger:        log,
	})

	e := api.NewRouter(api.Deps{
		Accounts: accounts,
		Tokens:   tokens,
		Checks:   checks,
		Logger:   log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	return nil
}

// buildMailer returns the SMTP mailer when credentials are configured and a
// logging stand-in otherwise. A failed transport check is logged, not fatal.
func buildMailer(ctx context.Context, cfg config.MailConfig, log zerolog.Logger) ports.Mailer {
	fallback := mail.LogMailer{Log: func(w ports.WelcomeMessage) {
		log.Info().Str("account_id", w.AccountID).Msg("welcome email skipped, no SMTP relay configured")
	}}
	if !cfg.MailEnabled() {
		return fallback
	}

	mailer, err := mail.NewSMTPMailer(mail.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.User,
		Password: cfg.Password,
		FromName: cfg.FromName,
	})
	if err != nil {
		log.Warn().Err(err).Msg("smtp mailer unavailable")
		return fallback
	}

	verifyCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := mailer.Verify(verifyCtx); err != nil {
		log.Warn().Err(err).Str("host", cfg.Host).Msg("smtp transport check failed")
	} else {
		log.Info().Str("host", cfg.Host).Msg("smtp transport ready")
	}
	return mailer
}
