package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/stake-plus/govtool/src/announce"
	"github.com/stake-plus/govtool/src/config"
	"github.com/stake-plus/govtool/src/data"
	"github.com/stake-plus/govtool/src/discussion"
	"github.com/stake-plus/govtool/src/logging"
	"github.com/stake-plus/govtool/src/metadata"
	"github.com/stake-plus/govtool/src/proposals"
	"github.com/stake-plus/govtool/src/registration"
	"github.com/stake-plus/govtool/src/txsubmit"
	"github.com/stake-plus/govtool/src/webserver"
)

const sessionIdle = 30 * time.Minute

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return serve(cmd.Context(), cfg, logger)
		},
	}
}

func openStores(cfg config.Config, logger *zap.Logger) (*gorm.DB, *redis.Client, error) {
	db, err := data.Connect(cfg.DBDriver, cfg.DBDSN, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := data.Migrate(db); err != nil {
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	if err := data.LoadSettings(db); err != nil {
		logger.Warn("load settings", zap.Error(err))
	}
	rdb, err := data.NewRedis(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return db, rdb, nil
}

// proposalSource picks the proposal fetcher and voter info provider.
func proposalSource(cfg config.Config, store *proposals.Store, regStore *registration.Store) (proposals.Fetcher, proposals.VoterInfoProvider) {
	if cfg.Proposals.Source == "http" {
		f := proposals.NewHTTPFetcher(cfg.Proposals.BackendURL, cfg.Proposals.Timeout)
		return f, f
	}
	return store, regStore
}

func newAnnouncer(cfg config.Config, rdb redis.Cmdable, logger *zap.Logger) *announce.Announcer {
	sinks := []announce.Sink{announce.NewRedisSink(rdb, cfg.Announce.Stream)}
	if cfg.Announce.DiscordToken != "" && cfg.Announce.DiscordChannelID != "" {
		d, err := announce.NewDiscordSink(cfg.Announce.DiscordToken, cfg.Announce.DiscordChannelID)
		if err != nil {
			logger.Warn("discord announcements disabled", zap.Error(err))
		} else {
			sinks = append(sinks, d)
		}
	}
	return announce.New(logger, sinks...)
}

func serve(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	db, rdb, err := openStores(cfg, logger)
	if err != nil {
		return err
	}
	defer rdb.Close()
	cfg.ApplySettings()

	if cfg.Server.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	tracker, err := logging.NewTracker(cfg.Sentry.DSN, cfg.Sentry.Environment, version, logger)
	if err != nil {
		return fmt.Errorf("sentry: %w", err)
	}
	defer tracker.Flush(2 * time.Second)

	canon, err := metadata.NewCanonicalizer(cfg.Registration.Canonicalization, nil)
	if err != nil {
		return err
	}

	store := proposals.NewStore(db)
	regStore := registration.NewStore(db)
	fetcher, voterInfo := proposalSource(cfg, store, regStore)
	svc := proposals.NewService(fetcher, proposals.NewRedisCache(rdb, cfg.Proposals.CacheTTL), logger)

	registrar := registration.NewRegistrar(registration.Deps{
		Generator: metadata.NewGenerator(canon),
		Validator: metadata.NewValidator(canon, cfg.Registration.HTTPTimeout,
			cfg.Registration.FetchAttempts, logger),
		Submitter:          txsubmit.NewBridge(cfg.Registration.SigningBridgeURL, 2*time.Minute),
		VoterInfo:          voterInfo,
		Repository:         regStore,
		Announcer:          newAnnouncer(cfg, rdb, logger),
		Tracker:            tracker,
		Logger:             logger,
		Deposit:            cfg.Registration.DRepDeposit,
		SkipHashValidation: cfg.Registration.SkipHashValidation,
	})

	router := webserver.New(webserver.Deps{
		Server:     cfg.Server,
		DB:         db,
		Redis:      rdb,
		Proposals:  svc,
		Votes:      store,
		VoterInfo:  voterInfo,
		Registrar:  registrar,
		Discussion: discussion.NewService(db),
		Logger:     logger,
	})
	httpSrv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := registrar.Prune(sessionIdle); n > 0 {
					logger.Debug("pruned registration sessions", zap.Int("count", n))
				}
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	logger.Info("govtool API listening", zap.String("port", cfg.Server.Port),
		zap.String("proposals", cfg.Proposals.Source))

	select {
	case err := <-errCh:
		return fmt.Errorf("http: %w", err)
	case <-ctx.Done():
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutCtx)
}
