package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBDriver   string // postgres | sqlite
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// JWT
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// OAuth audiences (comma separated client ids per provider)
	GoogleClientIDs string
	AppleClientIDs  string

	// Password reset
	AppURL        string
	ResetTokenTTL time.Duration
	NATSURL       string
	MailSubject   string

	// Activity stats day boundaries
	Timezone string

	// Logging
	LogLevel      string
	LogFormat     string
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool

	// Rate limiting and housekeeping
	RedisURL           string
	RateLimitMax       int
	RateLimitAuthMax   int
	RateLimitWindow    time.Duration
	SystemLogRetention time.Duration
	JanitorSchedule    string

	// Server
	Port        string
	CORSOrigins string
	AppEnv      string
	SentryDSN   string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "todo_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "todo.db"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"), 15*time.Minute),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"), 168*time.Hour),

		GoogleClientIDs: getEnv("GOOGLE_CLIENT_IDS", ""),
		AppleClientIDs:  getEnv("APPLE_CLIENT_IDS", ""),

		AppURL:        strings.TrimRight(getEnv("APP_URL", "http://localhost:3000"), "/"),
		ResetTokenTTL: parseDuration(getEnv("RESET_TOKEN_TTL", "1h"), time.Hour),
		NATSURL:       getEnv("NATS_URL", ""),
		MailSubject:   getEnv("MAIL_SUBJECT", "mail.password_reset"),

		Timezone: getEnv("TIMEZONE", "Local"),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
		LogFile:       getEnv("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE", 100),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE", 30),
		LogCompress:   getEnv("LOG_COMPRESS", "true") == "true",

		RedisURL:           getEnv("REDIS_URL", ""),
		RateLimitMax:       getEnvInt("RATE_LIMIT_MAX", 120),
		RateLimitAuthMax:   getEnvInt("RATE_LIMIT_AUTH_MAX", 10),
		RateLimitWindow:    parseDuration(getEnv("RATE_LIMIT_WINDOW", "1m"), time.Minute),
		SystemLogRetention: parseDuration(getEnv("SYSTEM_LOG_RETENTION", "720h"), 30*24*time.Hour),
		JanitorSchedule:    getEnv("JANITOR_SCHEDULE", "0 3 * * *"),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		AppEnv:      getEnv("APP_ENV", "development"),
		SentryDSN:   getEnv("SENTRY_DSN", ""),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// Location resolves Timezone, falling back to the server's local zone.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// ResetLink builds the URL emailed to users who asked for a password reset.
func (c *Config) ResetLink(token string) string {
	return c.AppURL + "/reset-password?token=" + token
}

func ParseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return n
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
