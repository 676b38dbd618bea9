// @title           Employee Accounts API
// @version         1.0
// @description     Employee registration, sessions and media uploads with Kryos fingerprint notarisation.
// @BasePath        /api/employees
//
// @securityDefinitions.apikey  SessionToken
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/kryos/employee-accounts/internal/api"
	"github.com/kryos/employee-accounts/internal/api/handler"
	"github.com/kryos/employee-accounts/internal/core/ports"
	"github.com/kryos/employee-accounts/internal/core/service"
	"github.com/kryos/employee-accounts/internal/infrastructure/db/memory"
	mongostore "github.com/kryos/employee-accounts/internal/infrastructure/db/mongo"
	redisstore "github.com/kryos/employee-accounts/internal/infrastructure/db/redis"
	"github.com/kryos/employee-accounts/internal/infrastructure/kryos"
	"github.com/kryos/employee-accounts/internal/infrastructure/queue"
	"github.com/kryos/employee-accounts/internal/infrastructure/reporting"
	s3storage "github.com/kryos/employee-accounts/internal/infrastructure/storage/s3"
	"github.com/kryos/employee-accounts/internal/pkg/config"
	"github.com/kryos/employee-accounts/pkg/logger"
)

const (
	serviceName     = "employee-accounts"
	shutdownTimeout = 10 * time.Second
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	readiness := map[string]handler.PingFunc{}

	// --- Account store ---
	var repo ports.AccountRepository
	switch cfg.AccountStore {
	case config.StoreMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  serviceName,
		})
		if err != nil {
			return err
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect")
			}
		}()

		mongoRepo := mongostore.NewAccountRepository(db)
		if err := mongoRepo.EnsureIndexes(ctx); err != nil {
			return err
		}
		repo = mongoRepo
		readiness["mongo"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
		log.Info().Str("database", cfg.Mongo.Database).Msg("account store: mongo")
	default:
		repo = memory.NewAccountRepository()
		log.Info().Msg("account store: memory")
	}

	// --- Optional rate limiting ---
	deps := api.Dependencies{Readiness: readiness}
	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()

		deps.Limiter = redisstore.NewRateLimiter(rdb, cfg.Redis.RateLimit, cfg.Redis.RateWindow)
		readiness["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info().
			Str("addr", cfg.Redis.Addr).
			Int("limit", cfg.Redis.RateLimit).
			Dur("window", cfg.Redis.RateWindow).
			Msg("auth rate limiting enabled")
	}

	// --- Kryos notifications ---
	kryosClient := kryos.NewClient(kryos.Config{
		BaseURL: cfg.Kryos.BaseURL,
		APIKey:  cfg.Kryos.APIKey,
		Timeout: cfg.Kryos.Timeout,
	})
	dispatcher := queue.NewDispatcher(cfg.NotifyWorkers, kryosClient, reporting.NewLogReporter(log), log)
	dispatcher.Start(context.Background())

	// --- Object storage ---
	storage, err := s3storage.New(ctx, s3storage.Config{
		Bucket:          cfg.S3.Bucket,
		Region:          cfg.S3.Region,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
		Endpoint:        cfg.S3.Endpoint,
	})
	if err != nil {
		dispatcher.Stop()
		return err
	}
	readiness["s3"] = storage.Ping

	// --- Services ---
	deps.Accounts = service.NewAccountService(repo, dispatcher, log, service.WithEditCooldown(cfg.EditCooldown))
	deps.Media = service.NewMediaService(storage, dispatcher, log)

	e := api.NewRouter(deps, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			dispatcher.Stop()
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	// In-flight notifications are drained before the stores close.
	dispatcher.Stop()
	log.Info().Msg("server stopped")
	return nil
}
