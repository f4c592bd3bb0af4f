package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custommatt/account-api/internal/core/service"
	mongostore "github.com/custommatt/account-api/internal/infrastructure/db/mongo"
	rediscache "github.com/custommatt/account-api/internal/infrastructure/db/redis"
	"github.com/custommatt/account-api/internal/infrastructure/security"
	"github.com/custommatt/account-api/internal/pkg/config"
	"github.com/custommatt/account-api/pkg/logger"
)

var errPurgeNotConfirmed = errors.New("refusing to delete every account without --yes")

// NewPurgeCmd creates the purge subcommand.
func NewPurgeCmd() *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete every account",
		Long:  `Delete every stored account and flush the zip search cache. Administrative only.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !confirmed {
				return errPurgeNotConfirmed
			}
			return runPurge(cmd)
		},
	}
	cmd.Flags().BoolVar(&confirmed, "yes", false, "confirm the deletion")

	return cmd
}

func runPurge(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Service: serviceName})

	client, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.MongoURI(),
		Database: cfg.Mongo.Database,
		AppName:  serviceName,
	})
	if err != nil {
		return err
	}
	defer client.Disconnect(context.Background())

	tokens, err := service.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	deps := service.AccountDeps{
		Repo:   mongostore.NewAccountRepository(db),
		Hasher: security.NewBcryptHasher(cfg.Auth.BcryptCost),
		Tokens: tokens,
		Logger: log,
	}
	if rdb, err := rediscache.Connect(ctx, rediscache.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}); err == nil {
		defer rdb.Close()
		deps.Cache = rediscache.NewSearchCache(rdb, cfg.Redis.CacheTTL)
	} else {
		log.Warn().Err(err).Msg("redis unavailable, search cache not flushed")
	}

	n, err := service.NewAccountService(deps).Purge(ctx)
	if err != nil {
		return err
	}

	cmd.Printf("Deleted %d accounts\n", n)
	return nil
}
