package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// StorageConfig selects the attachment backend ("fs" or "minio").
type StorageConfig struct {
	Backend        string
	UploadDir      string
	MaxUploadBytes int64
	MinIO          MinIOConfig
}

// AuthConfig holds session token and password digest settings.
type AuthConfig struct {
	JWTSecret        string
	JWTIssuer        string
	TokenTTL         time.Duration
	ArgonMemoryKB    uint32
	ArgonTime        uint32
	ArgonParallelism uint8
	AdminUsername    string
	AdminPassword    string
	LoginRateMax     int
	LoginRateWindow  time.Duration
}

// DOIConfig configures the bibliographic registry client.
type DOIConfig struct {
	BaseURL   string
	Timeout   time.Duration
	CacheSize int
	CacheTTL  time.Duration
	UserAgent string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost        string
	Port           string
	MaxBodyBytes   int
	CORSOrigins    string
	LogLevel       string
	LogFormat      string
	RedisURL       string
	SeedSampleNews bool
	Database       DatabaseConfig
	Storage        StorageConfig
	Auth           AuthConfig
	DOI            DOIConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:        getEnv("APP_HOST", "localhost:8080"),
		Port:           getEnv("PORT", "8080"),
		MaxBodyBytes:   getEnvInt("MAX_BODY_BYTES", 25<<20),
		CORSOrigins:    getEnv("CORS_ORIGINS", "http://localhost:3000"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RedisURL:       getEnv("REDIS_URL", ""),
		SeedSampleNews: getEnvBool("SEED_SAMPLE_NEWS", true),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Storage: StorageConfig{
			Backend:        strings.ToLower(getEnv("STORAGE_BACKEND", "fs")),
			UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
			MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_BYTES", 10<<20)),
			MinIO: MinIOConfig{
				Endpoint:  getEnv("MINIO_ENDPOINT", ""),
				AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
				SecretKey: getEnv("MINIO_SECRET_KEY", ""),
				Bucket:    getEnv("MINIO_BUCKET", ""),
				Prefix:    getEnv("MINIO_PREFIX", ""),
				UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			},
		},
		Auth: AuthConfig{
			JWTSecret:        getEnv("JWT_SECRET", ""),
			JWTIssuer:        getEnv("JWT_ISSUER", "acadrepo"),
			TokenTTL:         getEnvDuration("JWT_TTL", 8*time.Hour),
			ArgonMemoryKB:    uint32(getEnvInt("ARGON_MEMORY_KB", 64*1024)),
			ArgonTime:        uint32(getEnvInt("ARGON_TIME", 1)),
			ArgonParallelism: uint8(getEnvInt("ARGON_PARALLELISM", 2)),
			AdminUsername:    getEnv("ADMIN_USERNAME", ""),
			AdminPassword:    getEnv("ADMIN_PASSWORD", ""),
			LoginRateMax:     getEnvInt("LOGIN_RATE_MAX", 10),
			LoginRateWindow:  getEnvDuration("LOGIN_RATE_WINDOW", time.Minute),
		},
		DOI: DOIConfig{
			BaseURL:   getEnv("DOI_BASE_URL", "https://api.crossref.org"),
			Timeout:   getEnvDuration("DOI_TIMEOUT", 10*time.Second),
			CacheSize: getEnvInt("DOI_CACHE_SIZE", 512),
			CacheTTL:  getEnvDuration("DOI_CACHE_TTL", time.Hour),
			UserAgent: getEnv("DOI_USER_AGENT", "acadrepo/1.0"),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}
