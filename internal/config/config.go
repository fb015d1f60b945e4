package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Cache backends accepted by CACHE_BACKEND.
const (
	CacheFile   = "file"
	CacheRedis  = "redis"
	CacheSQLite = "sqlite"
	CacheMemory = "memory"
)

// Config holds all tool settings, populated from environment variables.
type Config struct {
	ParksCSV      string
	OutputHTML    string
	OutputGeoJSON string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	MetricsTextfile string

	// Geolocation cache configuration.
	CacheBackend   string
	CacheDir       string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisKeyPrefix string
	SQLitePath     string

	// HamQTH lookup configuration.
	HamQTHURL       string
	HamQTHTimeout   time.Duration
	HamQTHRateLimit float64

	// Optional publishing of enriched records.
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where
// unset. A .env file in the working directory is read first when present;
// variables already set in the environment take precedence over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	hamqthTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("HAMQTH_TIMEOUT", "10s"))
	if err != nil || hamqthTimeout <= 0 {
		return nil, errors.New("invalid HAMQTH_TIMEOUT")
	}

	rateLimit, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("HAMQTH_RATE_LIMIT", "2"), 64)
	if err != nil || rateLimit <= 0 {
		return nil, errors.New("invalid HAMQTH_RATE_LIMIT")
	}

	redisDB, err := strconv.Atoi(sharedcfg.EnvOrDefault("REDIS_DB", "0"))
	if err != nil || redisDB < 0 {
		return nil, errors.New("invalid REDIS_DB")
	}

	cfg := &Config{
		ParksCSV:        sharedcfg.EnvOrDefault("PARKS_CSV", "all_parks_ext.csv"),
		OutputHTML:      sharedcfg.EnvOrDefault("OUTPUT_HTML", "map.html"),
		OutputGeoJSON:   os.Getenv("OUTPUT_GEOJSON"),
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "text"),
		ShutdownTimeout: shutdownTimeout,
		MetricsTextfile: os.Getenv("METRICS_TEXTFILE"),

		CacheBackend:   sharedcfg.EnvOrDefault("CACHE_BACKEND", CacheFile),
		CacheDir:       sharedcfg.EnvOrDefault("CACHE_DIR", os.TempDir()),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        redisDB,
		RedisKeyPrefix: sharedcfg.EnvOrDefault("REDIS_KEY_PREFIX", "qsomap:dxcc:"),
		SQLitePath:     sharedcfg.EnvOrDefault("SQLITE_PATH", "qsomap-cache.db"),

		HamQTHURL:       sharedcfg.EnvOrDefault("HAMQTH_URL", "https://www.hamqth.com/dxcc.php"),
		HamQTHTimeout:   hamqthTimeout,
		HamQTHRateLimit: rateLimit,

		KafkaTopic: sharedcfg.EnvOrDefault("KAFKA_TOPIC", "enriched-qsos"),
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = sharedcfg.ParseBrokers(brokers)
	}

	switch cfg.CacheBackend {
	case CacheFile:
		if cfg.CacheDir == "" {
			return nil, errors.New("CACHE_DIR is required for the file cache backend")
		}
	case CacheRedis:
		if cfg.RedisAddr == "" {
			return nil, errors.New("CACHE_BACKEND is redis but REDIS_ADDR is not set")
		}
	case CacheSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLITE_PATH is required for the sqlite cache backend")
		}
	case CacheMemory:
	default:
		return nil, fmt.Errorf("invalid CACHE_BACKEND %q", cfg.CacheBackend)
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// PublishEnabled reports whether enriched records should be sent to Kafka.
func (c *Config) PublishEnabled() bool {
	return len(c.KafkaBrokers) > 0
}
