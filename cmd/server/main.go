package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/couchcryptid/weather-comfort-service/internal/adapter/cache"
	"github.com/couchcryptid/weather-comfort-service/internal/adapter/gemini"
	httpadapter "github.com/couchcryptid/weather-comfort-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/weather-comfort-service/internal/adapter/kafka"
	mongoadapter "github.com/couchcryptid/weather-comfort-service/internal/adapter/mongo"
	"github.com/couchcryptid/weather-comfort-service/internal/adapter/nasapower"
	"github.com/couchcryptid/weather-comfort-service/internal/adapter/openweather"
	"github.com/couchcryptid/weather-comfort-service/internal/adapter/postgres"
	"github.com/couchcryptid/weather-comfort-service/internal/advisor"
	"github.com/couchcryptid/weather-comfort-service/internal/config"
	"github.com/couchcryptid/weather-comfort-service/internal/domain"
	"github.com/couchcryptid/weather-comfort-service/internal/moderation"
	"github.com/couchcryptid/weather-comfort-service/internal/observability"
	"github.com/couchcryptid/weather-comfort-service/internal/pipeline"
)

const connectAttempts = 5

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Reasoning service (feature-flagged via GEMINI_API_KEY).
	reasoner := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.ReasonerTimeout, logger)
	if cfg.ReasonerEnabled() {
		metrics.ReasonerEnabled.Set(1)
		logger.Info("reasoning service enabled", "model", cfg.GeminiModel, "timeout", cfg.ReasonerTimeout)
	} else {
		logger.Info("reasoning service disabled, using local fallbacks")
	}

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open post store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	reportCache, closeCache := openCache(ctx, cfg, logger)
	defer closeCache()

	var publisher domain.PostPublisher
	var writer *kafkaadapter.PostWriter
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewPostWriter(cfg, logger)
		publisher = writer
		logger.Info("post events enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaPostsTopic)
	}

	provider := openweather.NewClient(cfg.OpenWeatherAPIKey, cfg.OpenWeatherTimeout, logger, metrics)
	weather := pipeline.NewWeatherService(provider, reportCache, advisor.New(reasoner, cfg.ReasonerTimeout, logger, metrics), logger, metrics)

	moderator := moderation.NewPipeline(reasoner, cfg.ModerationTimeout, cfg.ModerationRules, logger, metrics)
	community := pipeline.NewCommunityService(moderator, store, publisher, logger, metrics)

	wind := pipeline.NewWindService(nasapower.NewClient(cfg.NASAPowerTimeout, logger), logger)

	srv := httpadapter.NewServer(cfg.HTTPAddr, cfg.CORSAllowedOrigins, httpadapter.Services{
		Weather:   weather,
		Community: community,
		Wind:      wind,
	}, community, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// openStore connects the configured post store, retrying while the database
// comes up.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (domain.PostStore, func(), error) {
	switch cfg.StoreBackend {
	case config.StorePostgres:
		if err := withRetry(ctx, logger, "postgres migrate", func(ctx context.Context) error {
			return postgres.Migrate(ctx, cfg.DatabaseURL)
		}); err != nil {
			return nil, nil, err
		}
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("create pool: %w", err)
		}
		logger.Info("post store ready", "backend", "postgres")
		return postgres.NewPostStore(pool), pool.Close, nil

	default:
		var store *mongoadapter.PostStore
		if err := withRetry(ctx, logger, "mongo connect", func(ctx context.Context) error {
			s, err := mongoadapter.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
			if err != nil {
				return err
			}
			store = s
			return nil
		}); err != nil {
			return nil, nil, err
		}
		logger.Info("post store ready", "backend", "mongo", "database", cfg.MongoDatabase)
		return store, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := store.Close(ctx); err != nil {
				logger.Error("mongo disconnect error", "error", err)
			}
		}, nil
	}
}

// openCache returns the configured report cache, or nil when caching is off.
// An unreachable Redis degrades to no cache rather than failing startup.
func openCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (domain.ReportCache, func()) {
	switch cfg.CacheBackend {
	case config.CacheRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		rc := cache.NewRedis(client, cfg.CacheTTL)
		if err := rc.Ping(ctx); err != nil {
			logger.Warn("redis unreachable, report cache disabled", "addr", cfg.RedisAddr, "error", err)
			_ = client.Close()
			return nil, func() {}
		}
		logger.Info("report cache enabled", "backend", "redis", "ttl", cfg.CacheTTL)
		return rc, func() { _ = client.Close() }
	case config.CacheNone:
		logger.Info("report cache disabled")
		return nil, func() {}
	default:
		logger.Info("report cache enabled", "backend", "memory", "size", cfg.CacheSize)
		return cache.NewLRU(cfg.CacheSize), func() {}
	}
}

// withRetry runs fn with exponential backoff, starting at 500ms and capped
// at 5s.
func withRetry(ctx context.Context, logger *slog.Logger, what string, fn func(context.Context) error) error {
	backoff := 500 * time.Millisecond
	maxBackoff := 5 * time.Second

	var err error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		logger.Warn("startup step failed, retrying", "step", what, "attempt", attempt, "error", err)
		if !retry.SleepWithContext(ctx, backoff) {
			return ctx.Err()
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}
	return fmt.Errorf("%s: %w", what, err)
}
