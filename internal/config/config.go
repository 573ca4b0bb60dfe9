package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"

	AvatarLocal = "local"
	AvatarS3    = "s3"
)

// Config holds service configuration.
type Config struct {
	StoreDriver         string
	DatabaseURL         string
	SQLitePath          string
	MigrationsDir       string
	ServerAddr          string
	SessionTTL          time.Duration
	SessionCookieName   string
	SessionCookieSecure bool
	SessionSweep        time.Duration
	AdminUsername       string
	AdminPassword       string
	RedisURL            string
	RedisChannel        string
	LogLevel            string

	DisplayLocation *time.Location
	DefaultActivity ActivityDefaults
	Avatar          AvatarConfig
}

// ActivityDefaults shape the window created when none has been configured.
type ActivityDefaults struct {
	Name     string
	Duration time.Duration
}

type AvatarConfig struct {
	Store    string
	Dir      string
	BaseURL  string
	MaxBytes int64

	S3Bucket          string
	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// Load reads configuration from the environment. Values from an optional
// .env file (ENV_FILE, default ".env") never override variables that are
// already set.
func Load() (*Config, error) {
	if err := godotenv.Load(getenv("ENV_FILE", ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		user := getenv("POSTGRES_USER", "lantern")
		pass := getenv("POSTGRES_PASSWORD", "lantern_pass")
		db := getenv("POSTGRES_DB", "lantern")
		host := getenv("POSTGRES_HOST", "localhost")
		port := getenv("POSTGRES_PORT", "5432")
		sslmode := getenv("DATABASE_SSLMODE", "disable")
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, pass, host, port, db, sslmode)
	}

	driver := getenv("STORE_DRIVER", StorePostgres)
	if driver != StorePostgres && driver != StoreSQLite {
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", driver)
	}

	tz := getenv("DISPLAY_TIMEZONE", "Asia/Shanghai")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_TIMEZONE %q: %w", tz, err)
	}

	avatar := AvatarConfig{
		Store:             getenv("AVATAR_STORE", AvatarLocal),
		Dir:               getenv("AVATAR_DIR", "template"),
		BaseURL:           os.Getenv("AVATAR_BASE_URL"),
		MaxBytes:          parseInt64(getenv("AVATAR_MAX_BYTES", ""), 16<<20),
		S3Bucket:          os.Getenv("S3_BUCKET"),
		S3Region:          os.Getenv("S3_REGION"),
		S3Endpoint:        os.Getenv("S3_ENDPOINT"),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
	}
	switch avatar.Store {
	case AvatarLocal:
	case AvatarS3:
		if avatar.S3Bucket == "" {
			return nil, errors.New("S3_BUCKET is required when AVATAR_STORE=s3")
		}
	default:
		return nil, fmt.Errorf("unsupported AVATAR_STORE %q", avatar.Store)
	}

	return &Config{
		StoreDriver:         driver,
		DatabaseURL:         dsn,
		SQLitePath:          getenv("SQLITE_PATH", "lantern.db"),
		MigrationsDir:       getenv("MIGRATIONS_DIR", "internal/migrations"),
		ServerAddr:          getenv("SERVER_ADDR", "0.0.0.0:9000"),
		SessionTTL:          parseDuration(getenv("SESSION_TTL", "744h"), 744*time.Hour),
		SessionCookieName:   getenv("SESSION_COOKIE_NAME", "lantern_session"),
		SessionCookieSecure: parseBool(getenv("SESSION_COOKIE_SECURE", "false"), false),
		SessionSweep:        parseDuration(getenv("SESSION_SWEEP_INTERVAL", "10m"), 10*time.Minute),
		AdminUsername:       os.Getenv("ADMIN_USERNAME"),
		AdminPassword:       os.Getenv("ADMIN_PASSWORD"),
		RedisURL:            os.Getenv("REDIS_URL"),
		RedisChannel:        getenv("REDIS_CHANNEL", "lantern:riddle-solved"),
		LogLevel:            getenv("LOG_LEVEL", "info"),
		DisplayLocation:     loc,
		DefaultActivity: ActivityDefaults{
			Name:     getenv("DEFAULT_ACTIVITY_NAME", "元宵猜灯谜"),
			Duration: parseDuration(getenv("DEFAULT_ACTIVITY_DURATION", "24h"), 24*time.Hour),
		},
		Avatar: avatar,
	}, nil
}

func getenv(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val
}

func parseDuration(val string, def time.Duration) time.Duration {
	if val == "" {
		return def
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func parseBool(val string, def bool) bool {
	if val == "" {
		return def
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return def
	}
	return b
}

func parseInt64(val string, def int64) int64 {
	if val == "" {
		return def
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
