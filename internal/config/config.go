package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/weather-comfort-service/internal/domain"
)

// Store and cache backends.
const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"

	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr           string
	LogLevel           string
	LogFormat          string
	ShutdownTimeout    time.Duration
	CORSAllowedOrigins []string

	// Forecast provider.
	OpenWeatherAPIKey  string
	OpenWeatherTimeout time.Duration
	NASAPowerTimeout   time.Duration

	// Reasoning service. An empty key disables every reasoner call.
	GeminiAPIKey      string
	GeminiModel       string
	ReasonerTimeout   time.Duration
	ModerationTimeout time.Duration
	ModerationRules   domain.KeywordRules

	// Post store.
	StoreBackend    string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
	DatabaseURL     string

	// Forecast report cache.
	CacheBackend  string
	CacheSize     int
	CacheTTL      time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Accepted-post events.
	KafkaEnabled    bool
	KafkaBrokers    []string
	KafkaPostsTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	openWeatherTimeout, err := parseDuration("OPENWEATHER_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	nasaTimeout, err := parseDuration("NASA_POWER_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	reasonerTimeout, err := parseDuration("REASONER_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	moderationTimeout, err := parseDuration("MODERATION_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parseDuration("CACHE_TTL", "10m")
	if err != nil {
		return nil, err
	}

	redisDB, err := strconv.Atoi(sharedcfg.EnvOrDefault("REDIS_DB", "0"))
	if err != nil || redisDB < 0 {
		return nil, errors.New("invalid REDIS_DB")
	}

	rules, err := LoadModerationRules(os.Getenv("MODERATION_RULES_FILE"))
	if err != nil {
		return nil, err
	}

	kafkaBrokersEnv := os.Getenv("KAFKA_BROKERS")
	kafkaEnabled := kafkaBrokersEnv != ""
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		CORSAllowedOrigins: splitList(sharedcfg.EnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),

		OpenWeatherAPIKey:  os.Getenv("OPENWEATHER_API_KEY"),
		OpenWeatherTimeout: openWeatherTimeout,
		NASAPowerTimeout:   nasaTimeout,

		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       sharedcfg.EnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		ReasonerTimeout:   reasonerTimeout,
		ModerationTimeout: moderationTimeout,
		ModerationRules:   rules,

		StoreBackend:    strings.ToLower(sharedcfg.EnvOrDefault("STORE_BACKEND", StoreMongo)),
		MongoURI:        sharedcfg.EnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   sharedcfg.EnvOrDefault("MONGO_DATABASE", "weatherone"),
		MongoCollection: sharedcfg.EnvOrDefault("MONGO_COLLECTION", "community_posts"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),

		CacheBackend:  strings.ToLower(sharedcfg.EnvOrDefault("CACHE_BACKEND", CacheMemory)),
		CacheSize:     parseCacheSize(),
		CacheTTL:      cacheTTL,
		RedisAddr:     sharedcfg.EnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		KafkaEnabled:    kafkaEnabled,
		KafkaBrokers:    sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaPostsTopic: sharedcfg.EnvOrDefault("KAFKA_POSTS_TOPIC", "community-posts"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case StoreMongo:
		if c.MongoURI == "" {
			return errors.New("MONGO_URI is required")
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when STORE_BACKEND is postgres")
		}
	default:
		return errors.New("invalid STORE_BACKEND")
	}

	switch c.CacheBackend {
	case CacheMemory, CacheNone:
	case CacheRedis:
		if c.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required when CACHE_BACKEND is redis")
		}
	default:
		return errors.New("invalid CACHE_BACKEND")
	}

	if c.KafkaEnabled {
		if len(c.KafkaBrokers) == 0 {
			return errors.New("KAFKA_BROKERS is required")
		}
		if c.KafkaPostsTopic == "" {
			return errors.New("KAFKA_POSTS_TOPIC is required")
		}
	}
	return nil
}

// ReasonerEnabled reports whether a reasoning service credential is set.
func (c *Config) ReasonerEnabled() bool {
	return c.GeminiAPIKey != ""
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}

func parseCacheSize() int {
	if s := os.Getenv("CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
