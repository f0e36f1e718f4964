package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all process-wide configuration. It is built once at startup
// and treated as immutable afterwards; components receive it (or a section
// of it) through their constructors.
type Config struct {
	Environment string

	Server  ServerConfig
	Redis   RedisConfig
	Storage StorageConfig
	Session SessionConfig
	Admin   AdminConfig
	Upload  UploadConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Host          string
	Port          int
	TLSPort       int
	EnableTLS     bool
	AutoCert      bool
	AutoCertDir   string
	Domain        string
	Email         string
	CertFile      string
	KeyFile       string
	AllowedOrigin string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	IdleTimeout   time.Duration
}

type RedisConfig struct {
	URL      string
	Password string
	DB       int
	PoolSize int
}

// StorageConfig points at an S3-compatible bucket (Cloudflare R2, MinIO, AWS).
type StorageConfig struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicBaseURL   string
}

type SessionConfig struct {
	Secret string
	MaxAge time.Duration
}

// AdminConfig is the single admin account. When either field is empty every
// login attempt fails with a "not configured" error; the process stays up.
type AdminConfig struct {
	Username string
	Password string
}

type UploadConfig struct {
	MaxSizeMB int
	MaxWidth  int
	Format    string
	Quality   int
}

type LoggingConfig struct {
	Level  string
	Format string
}

// LoadConfig reads configuration from the environment, loading a .env file
// first when one is present.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:          getEnv("SERVER_HOST", "0.0.0.0"),
			Port:          getEnvInt("SERVER_PORT", 8080),
			TLSPort:       getEnvInt("SERVER_TLS_PORT", 8443),
			EnableTLS:     getEnvBool("SERVER_ENABLE_TLS", false),
			AutoCert:      getEnvBool("SERVER_AUTO_CERT", false),
			AutoCertDir:   getEnv("SERVER_AUTO_CERT_DIR", "./certs"),
			Domain:        getEnv("SERVER_DOMAIN", "localhost"),
			Email:         getEnv("SERVER_ACME_EMAIL", ""),
			CertFile:      getEnv("SERVER_CERT_FILE", ""),
			KeyFile:       getEnv("SERVER_KEY_FILE", ""),
			AllowedOrigin: getEnv("APP_ORIGIN", ""),
			ReadTimeout:   getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:  getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:   getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			PoolSize: getEnvInt("REDIS_POOL_SIZE", 20),
		},
		Storage: StorageConfig{
			Endpoint:        getEnv("R2_ENDPOINT", ""),
			Region:          getEnv("R2_REGION", "auto"),
			AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
			Bucket:          getEnv("R2_BUCKET", ""),
			PublicBaseURL:   getEnv("R2_PUBLIC_BASE", ""),
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", ""),
			MaxAge: getEnvDuration("SESSION_MAX_AGE", 7*24*time.Hour),
		},
		Admin: AdminConfig{
			Username: getEnv("ADMIN_USER", ""),
			Password: getEnv("ADMIN_PASS", ""),
		},
		Upload: UploadConfig{
			MaxSizeMB: getEnvInt("MAX_UPLOAD_MB", 8),
			MaxWidth:  getEnvInt("IMAGE_MAX_WIDTH", 1600),
			Format:    getEnv("IMAGE_FORMAT", "jpeg"),
			Quality:   getEnvInt("IMAGE_QUALITY", 82),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

// GetServerAddress returns the plain HTTP listen address.
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvBool(key string, fallback bool) bool {
	raw := strings.ToLower(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	return raw == "1" || raw == "true" || raw == "yes"
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}
