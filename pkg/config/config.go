package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env             string
	Port            int
	APIPrefix       string
	ShutdownTimeout time.Duration

	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	CORS         CORSConfig
	Log          LogConfig
	Store        StoreConfig
	Cache        CacheConfig
	RateLimit    RateLimitConfig
	Pagination   PaginationConfig
	Autocomplete AutocompleteConfig
	Aggregation  AggregationConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
	Issuer string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// StoreConfig bounds every call into the backing store.
type StoreConfig struct {
	Timeout time.Duration
}

// CacheConfig governs cache-aside behaviour for derived aggregates.
type CacheConfig struct {
	TTL time.Duration
}

// RateLimitConfig throttles write endpoints per caller.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// PaginationConfig defines list defaults shared by every collection endpoint.
type PaginationConfig struct {
	DefaultLimit int
	MaxLimit     int
}

// AutocompleteConfig caps suggestion lists. MaxLimit bounds course, professor and factrak
// lookups; HardCap bounds the rest whatever the client asks for.
type AutocompleteConfig struct {
	MaxLimit int
	HardCap  int
}

// AggregationConfig sizes the background retry queue for aggregate recomputes.
type AggregationConfig struct {
	Workers    int
	Retries    int
	RetryDelay time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.ShutdownTimeout = parseDuration(v.GetString("SHUTDOWN_TIMEOUT"), 10*time.Second)

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret: v.GetString("JWT_SECRET"),
		Issuer: v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Store = StoreConfig{Timeout: parseDuration(v.GetString("STORE_TIMEOUT"), 5*time.Second)}
	cfg.Cache = CacheConfig{TTL: parseDuration(v.GetString("CACHE_TTL"), 10*time.Minute)}

	cfg.RateLimit = RateLimitConfig{
		RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
		Burst: v.GetInt("RATE_LIMIT_BURST"),
	}

	cfg.Pagination = PaginationConfig{
		DefaultLimit: v.GetInt("PAGINATION_DEFAULT_LIMIT"),
		MaxLimit:     v.GetInt("PAGINATION_MAX_LIMIT"),
	}

	cfg.Autocomplete = AutocompleteConfig{MaxLimit: v.GetInt("AUTOCOMPLETE_MAX_LIMIT"), HardCap: v.GetInt("AUTOCOMPLETE_HARD_CAP")}

	cfg.Aggregation = AggregationConfig{
		Workers:    v.GetInt("AGGREGATION_WORKERS"),
		Retries:    v.GetInt("AGGREGATION_RETRIES"),
		RetryDelay: parseDuration(v.GetString("AGGREGATION_RETRY_DELAY"), 2*time.Second),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v2")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "campus_hub")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "campus-hub")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("STORE_TIMEOUT", "5s")
	v.SetDefault("CACHE_TTL", "10m")
	v.SetDefault("RATE_LIMIT_RPS", 2.0)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("PAGINATION_DEFAULT_LIMIT", 20)
	v.SetDefault("PAGINATION_MAX_LIMIT", 100)
	v.SetDefault("AUTOCOMPLETE_MAX_LIMIT", 10)
	v.SetDefault("AUTOCOMPLETE_HARD_CAP", 50)

	v.SetDefault("AGGREGATION_WORKERS", 1)
	v.SetDefault("AGGREGATION_RETRIES", 3)
	v.SetDefault("AGGREGATION_RETRY_DELAY", "2s")
}

// isMissingFile reports whether viper failed only because the optional .env is absent.
// SetConfigFile bypasses the search path, so viper surfaces a plain fs error.
func isMissingFile(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no such file or directory")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
