package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	commoncfg "github.com/jagoanbunda/jagoanbunda-data/common/config"

	"github.com/joho/godotenv"
)

// Config is the jagoanbunda-data configuration.
type Config struct {
	HTTP struct {
		Addr         string
		MaxBodyBytes int64
	}
	Database commoncfg.DatabaseConfig
	Redis    commoncfg.RedisConfig
	Log      struct {
		Level  string
		Format string
	}
	Auth     AuthConfig
	Sentry   SentryConfig
	Storage  StorageConfig
	Notify   NotifyConfig
	Timezone *time.Location
}

// AuthConfig covers both login strategies: JWT for the parent API, Redis
// sessions for the nakes web surface.
type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	SessionTTL    time.Duration
	SessionCookie string
	CookieSecure  bool
}

// SentryConfig configures the error tracker client.
type SentryConfig struct {
	DSN         string
	Environment string
	Release     string
	SampleRate  float64
}

// StorageConfig points at the public asset locations.
type StorageConfig struct {
	ImageDir       string
	ImageURLPrefix string
}

// NotifyConfig names the Redis stream notifications are published to.
type NotifyConfig struct {
	Stream    string
	StreamMax int64
}

// Load reads .env (when present) and then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")
	cfg.HTTP.MaxBodyBytes = int64(parseInt(getEnv("HTTP_MAX_BODY_BYTES", "1048576"), 1<<20))

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "jagoanbunda")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "20"), 20)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "5"), 5)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.LoadFromEnv("REDIS")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.Auth.TokenTTL = time.Duration(parseInt(getEnv("JWT_TTL_HOURS", "720"), 720)) * time.Hour
	cfg.Auth.SessionTTL = time.Duration(parseInt(getEnv("SESSION_LIFETIME_MINUTES", "120"), 120)) * time.Minute
	cfg.Auth.SessionCookie = getEnv("SESSION_COOKIE", "jagoanbunda_session")
	cfg.Auth.CookieSecure = getEnv("SESSION_SECURE_COOKIE", "false") == "true"

	cfg.Sentry.DSN = getEnv("SENTRY_DSN", "")
	cfg.Sentry.Environment = getEnv("SENTRY_ENVIRONMENT", getEnv("APP_ENV", "production"))
	cfg.Sentry.Release = getEnv("SENTRY_RELEASE", "")
	cfg.Sentry.SampleRate = parseFloat(getEnv("SENTRY_SAMPLE_RATE", "1.0"), 1.0)

	cfg.Storage.ImageDir = getEnv("ASQ3_IMAGE_DIR", "storage/app/public/asq3-images")
	cfg.Storage.ImageURLPrefix = strings.TrimRight(getEnv("ASQ3_IMAGE_URL_PREFIX", "/storage/asq3-images"), "/")

	cfg.Notify.Stream = getEnv("NOTIFICATION_STREAM", "notifications")
	cfg.Notify.StreamMax = int64(parseInt(getEnv("NOTIFICATION_STREAM_MAXLEN", "10000"), 10000))

	cfg.Timezone = time.Local
	if tz := getEnv("APP_TIMEZONE", "Asia/Jakarta"); tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			cfg.Timezone = loc
		}
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseFloat(s string, def float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return f
}
