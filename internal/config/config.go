package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultHTTPAddr        = ":8080"
	defaultDatabaseURL     = "cadportal.db"
	defaultJWTSecret       = "change-me-jwt-secret"
	defaultJWTTTL          = "24h"
	defaultLogLevel        = "info"
	defaultLogFormat       = "text"
	defaultStorageDriver   = StorageMemory
	defaultS3Region        = "auto"
	defaultPublicBaseURL   = "http://localhost:8080"
	defaultFileCacheSize   = "4096"
	defaultFileCacheTTL    = "10m"
	defaultShutdownTimeout = "15s"
	defaultReadTimeout     = "30s"
	defaultAutoMigrate     = "true"
)

const (
	StorageS3     = "s3"
	StorageMemory = "memory"
)

type Config struct {
	AppEnv   string
	HTTPAddr string

	DatabaseURL string
	AutoMigrate bool
	DBDebug     bool

	JWTSecret string
	JWTTTL    time.Duration

	LogLevel  slog.Level
	LogFormat string

	StorageDriver string
	S3            S3Config
	// PublicBaseURL is where clients reach this server; the memory store
	// issues URLs under it.
	PublicBaseURL string

	CORSAllowedOrigins []string

	FileCacheSize int
	FileCacheTTL  time.Duration

	ReadTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type S3Config struct {
	Bucket       string
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.AutoMigrate = parseBoolEnv("AUTO_MIGRATE", defaultAutoMigrate)
	cfg.DBDebug = parseBoolEnv("DB_DEBUG", "false")
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(getEnv("LOG_FORMAT", defaultLogFormat)))
	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(getEnv("STORAGE_DRIVER", defaultStorageDriver)))
	cfg.PublicBaseURL = strings.TrimRight(strings.TrimSpace(getEnv("PUBLIC_BASE_URL", defaultPublicBaseURL)), "/")
	cfg.CORSAllowedOrigins = parseListEnv("CORS_ALLOWED_ORIGINS")

	cfg.S3 = S3Config{
		Bucket:       strings.TrimSpace(os.Getenv("S3_BUCKET")),
		Region:       strings.TrimSpace(getEnv("S3_REGION", defaultS3Region)),
		Endpoint:     strings.TrimSpace(os.Getenv("S3_ENDPOINT")),
		AccessKey:    strings.TrimSpace(os.Getenv("S3_ACCESS_KEY")),
		SecretKey:    strings.TrimSpace(os.Getenv("S3_SECRET_KEY")),
		UsePathStyle: parseBoolEnv("S3_USE_PATH_STYLE", "false"),
	}

	var err error
	cfg.LogLevel, err = parseLevelEnv("LOG_LEVEL", defaultLogLevel)
	if err != nil {
		return nil, err
	}
	cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL)
	if err != nil {
		return nil, err
	}
	cfg.FileCacheTTL, err = parseDurationEnv("FILE_CACHE_TTL", defaultFileCacheTTL)
	if err != nil {
		return nil, err
	}
	cfg.ShutdownTimeout, err = parseDurationEnv("SHUTDOWN_TIMEOUT", defaultShutdownTimeout)
	if err != nil {
		return nil, err
	}
	cfg.ReadTimeout, err = parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		return nil, err
	}
	cfg.FileCacheSize, err = parseIntEnv("FILE_CACHE_SIZE", defaultFileCacheSize)
	if err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.FileCacheTTL <= 0 {
		return fmt.Errorf("FILE_CACHE_TTL must be > 0")
	}
	if cfg.FileCacheSize <= 0 {
		return fmt.Errorf("FILE_CACHE_SIZE must be > 0")
	}
	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be > 0")
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be one of: text, json")
	}

	switch cfg.StorageDriver {
	case StorageS3:
		if cfg.S3.Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when STORAGE_DRIVER=s3")
		}
		if (cfg.S3.AccessKey == "") != (cfg.S3.SecretKey == "") {
			return fmt.Errorf("S3_ACCESS_KEY and S3_SECRET_KEY must be set together")
		}
	case StorageMemory:
		if cfg.PublicBaseURL == "" {
			return fmt.Errorf("PUBLIC_BASE_URL is required when STORAGE_DRIVER=memory")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be one of: s3, memory")
	}

	if IsProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if cfg.StorageDriver != StorageS3 {
			return fmt.Errorf("in prod/release STORAGE_DRIVER must be s3")
		}
	}

	return nil
}

// SetupLogger builds the process logger and installs it as slog's default.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler).With(slog.String("service", "cadportal"))
	slog.SetDefault(logger)
	return logger
}

func IsProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseLevelEnv(name, fallback string) (slog.Level, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return level, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func parseListEnv(name string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(name), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
