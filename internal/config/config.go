package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Tokens (access and refresh are signed with different secrets)
	AccessTokenSecret  string
	AccessTokenExpiry  time.Duration
	RefreshTokenSecret string
	RefreshTokenExpiry time.Duration

	// Blob storage
	BlobDriver        string // local or s3
	BlobLocalDir      string
	BlobBaseURL       string
	S3Bucket          string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Endpoint        string
	S3ForcePathStyle  bool
	UploadTimeout     time.Duration

	// Server
	Port         string
	CORSOrigins  string
	CookieSecure bool
	BodyLimitMB  int

	// Observability
	SentryDSN        string
	AppEnv           string
	LogRetentionDays int
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "vidtube"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		AccessTokenSecret:  getEnv("ACCESS_TOKEN_SECRET", ""),
		AccessTokenExpiry:  parseDuration(getEnv("ACCESS_TOKEN_EXPIRY", "15m"), 15*time.Minute),
		RefreshTokenSecret: getEnv("REFRESH_TOKEN_SECRET", ""),
		RefreshTokenExpiry: parseDuration(getEnv("REFRESH_TOKEN_EXPIRY", "240h"), 240*time.Hour),

		BlobDriver:        getEnv("BLOB_DRIVER", "local"),
		BlobLocalDir:      getEnv("BLOB_LOCAL_DIR", "./public/uploads"),
		BlobBaseURL:       getEnv("BLOB_BASE_URL", ""),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3Region:          getEnv("S3_REGION", "us-east-1"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3ForcePathStyle:  parseBool(getEnv("S3_FORCE_PATH_STYLE", "false"), false),
		UploadTimeout:     parseDuration(getEnv("UPLOAD_TIMEOUT", "2m"), 2*time.Minute),

		Port:         getEnv("PORT", "8000"),
		CORSOrigins:  getEnv("CORS_ORIGINS", "http://localhost:3000"),
		CookieSecure: parseBool(getEnv("COOKIE_SECURE", "true"), true),
		BodyLimitMB:  parseInt(getEnv("BODY_LIMIT_MB", "200"), 200),

		SentryDSN:        getEnv("SENTRY_DSN", ""),
		AppEnv:           getEnv("APP_ENV", "development"),
		LogRetentionDays: parseInt(getEnv("LOG_RETENTION_DAYS", "30"), 30),
	}
}

// Validate reports missing or unsafe settings. It is called once at startup.
func (c *Config) Validate() error {
	if c.AccessTokenSecret == "" {
		return errors.New("ACCESS_TOKEN_SECRET is required")
	}
	if c.RefreshTokenSecret == "" {
		return errors.New("REFRESH_TOKEN_SECRET is required")
	}
	if c.AccessTokenSecret == c.RefreshTokenSecret {
		return errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
	}
	if c.DBPassword == "" {
		return errors.New("DB_PASSWORD is required")
	}
	switch c.BlobDriver {
	case "local":
	case "s3":
		if c.S3Bucket == "" {
			return errors.New("S3_BUCKET is required when BLOB_DRIVER=s3")
		}
	default:
		return fmt.Errorf("unknown BLOB_DRIVER %q (want local or s3)", c.BlobDriver)
	}
	return nil
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

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseBool(s string, fallback bool) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return b
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
