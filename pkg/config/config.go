package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// DefaultAPIBaseURL is used when API_BASE_URL is not provided.
const DefaultAPIBaseURL = "http://localhost:8000/api/v1"

// Config holds all application configuration
type Config struct {
	Env      string
	LogLevel string
	API      APIConfig
	Session  SessionConfig
	Cache    CacheConfig
	Events   EventsConfig
	Redis    RedisConfig
	Tele     TeleConfig
	Upload   UploadConfig
	OTEL     OTELConfig
}

// APIConfig holds backend API configuration
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
	// BaseURLFallback is true when API_BASE_URL was absent and DefaultAPIBaseURL is in use.
	BaseURLFallback bool
}

// SessionConfig holds credential storage configuration
type SessionConfig struct {
	Store    string // file | redis
	FilePath string
	RedisKey string
}

// CacheConfig holds server-state cache configuration
type CacheConfig struct {
	Backend string // memory | redis
	TTL     time.Duration
	Size    int
}

// EventsConfig holds session event bus configuration
type EventsConfig struct {
	Backend string // memory | redis
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// TeleConfig holds tele-consultation configuration
type TeleConfig struct {
	ZoomJoinBaseURL string
	MeetBaseURL     string
	PollInterval    time.Duration
}

// UploadConfig holds migrated-record upload limits
type UploadConfig struct {
	MaxBytes         int64
	AllowedMIMETypes []string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("API_TIMEOUT_SECONDS", 30)
	v.SetDefault("SESSION_STORE", "file")
	v.SetDefault("SESSION_FILE", defaultSessionFile())
	v.SetDefault("SESSION_REDIS_KEY", "clinicadmin:session")
	v.SetDefault("CACHE_BACKEND", "memory")
	v.SetDefault("CACHE_TTL_SECONDS", 300)
	v.SetDefault("CACHE_SIZE", 1024)
	v.SetDefault("EVENT_BUS", "memory")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("ZOOM_JOIN_BASE_URL", "https://zoom.us")
	v.SetDefault("MEET_BASE_URL", "https://meet.google.com")
	v.SetDefault("TELE_STATUS_POLL_INTERVAL", "30s")
	v.SetDefault("UPLOAD_MAX_BYTES", 10*1024*1024)
	v.SetDefault("UPLOAD_ALLOWED_MIME_TYPES", "image/jpeg,image/png,image/gif,application/pdf")
	v.SetDefault("OTEL_SERVICE_NAME", "clinicadmin")
	v.SetDefault("OTEL_SERVICE_VERSION", "1.0.0")
	v.SetDefault("OTEL_ENABLED", false)

	// Missing .env is fine
	_ = v.ReadInConfig()

	baseURL := strings.TrimSpace(v.GetString("API_BASE_URL"))
	fallback := false
	if baseURL == "" {
		log.Error().Str("fallback", DefaultAPIBaseURL).Msg("API_BASE_URL is not defined")
		baseURL = DefaultAPIBaseURL
		fallback = true
	}

	pollInterval := v.GetDuration("TELE_STATUS_POLL_INTERVAL")
	if pollInterval <= 0 {
		return nil, fmt.Errorf("TELE_STATUS_POLL_INTERVAL must be positive, got %q", v.GetString("TELE_STATUS_POLL_INTERVAL"))
	}

	cfg := &Config{
		Env:      v.GetString("APP_ENV"),
		LogLevel: v.GetString("LOG_LEVEL"),
		API: APIConfig{
			BaseURL:         strings.TrimRight(baseURL, "/"),
			Timeout:         time.Duration(v.GetInt("API_TIMEOUT_SECONDS")) * time.Second,
			BaseURLFallback: fallback,
		},
		Session: SessionConfig{
			Store:    strings.ToLower(v.GetString("SESSION_STORE")),
			FilePath: v.GetString("SESSION_FILE"),
			RedisKey: v.GetString("SESSION_REDIS_KEY"),
		},
		Cache: CacheConfig{
			Backend: strings.ToLower(v.GetString("CACHE_BACKEND")),
			TTL:     time.Duration(v.GetInt("CACHE_TTL_SECONDS")) * time.Second,
			Size:    v.GetInt("CACHE_SIZE"),
		},
		Events: EventsConfig{
			Backend: strings.ToLower(v.GetString("EVENT_BUS")),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Tele: TeleConfig{
			ZoomJoinBaseURL: strings.TrimRight(v.GetString("ZOOM_JOIN_BASE_URL"), "/"),
			MeetBaseURL:     strings.TrimRight(v.GetString("MEET_BASE_URL"), "/"),
			PollInterval:    pollInterval,
		},
		Upload: UploadConfig{
			MaxBytes:         v.GetInt64("UPLOAD_MAX_BYTES"),
			AllowedMIMETypes: splitList(v.GetString("UPLOAD_ALLOWED_MIME_TYPES")),
		},
		OTEL: OTELConfig{
			ServiceName:    v.GetString("OTEL_SERVICE_NAME"),
			ServiceVersion: v.GetString("OTEL_SERVICE_VERSION"),
			Endpoint:       v.GetString("OTEL_ENDPOINT"),
			Enabled:        v.GetBool("OTEL_ENABLED"),
		},
	}

	if cfg.API.Timeout <= 0 {
		return nil, fmt.Errorf("API_TIMEOUT_SECONDS must be positive")
	}

	return cfg, nil
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "clinicadmin", "session.json")
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
