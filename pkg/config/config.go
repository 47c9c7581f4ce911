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
	Env       string
	Port      int
	APIPrefix string

	Upstream UpstreamConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	CORS     CORSConfig
	Log      LogConfig
	Panels   PanelsConfig
	Audit    AuditConfig
}

// UpstreamConfig points the gateway at the legacy PHP portal.
type UpstreamConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// DatabaseConfig configures the gateway-owned audit store.
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
	Host     string
	Port     int
	Password string
	DB       int
}

// SessionConfig governs gateway-issued sessions and the sealed
// remember-me cookie.
type SessionConfig struct {
	Secret         string
	Expiration     time.Duration
	RememberSecret string
	RememberTTL    time.Duration
	ProfileTTL     time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// PanelsConfig tunes per-panel polling. Intervals mirror the legacy
// client's spread of 3s-15s timers.
type PanelsConfig struct {
	DefaultInterval       time.Duration
	AcademicYearInterval  time.Duration
	AccreditationInterval time.Duration
	EventsInterval        time.Duration
	FeesInterval          time.Duration
	NotificationInterval  time.Duration
	AnnouncementInterval  time.Duration
	PerPage               int
}

// AuditConfig controls the asynchronous action-audit trail.
type AuditConfig struct {
	Enabled    bool
	Workers    int
	BufferSize int
	MaxRetries int
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
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Upstream = UpstreamConfig{
		BaseURL:   strings.TrimRight(v.GetString("UPSTREAM_BASE_URL"), "/"),
		Timeout:   parseDuration(v.GetString("UPSTREAM_TIMEOUT"), 10*time.Second),
		UserAgent: v.GetString("UPSTREAM_USER_AGENT"),
	}

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
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Session = SessionConfig{
		Secret:         v.GetString("SESSION_SECRET"),
		Expiration:     parseDuration(v.GetString("SESSION_EXPIRATION"), 24*time.Hour),
		RememberSecret: v.GetString("REMEMBER_ME_SECRET"),
		RememberTTL:    parseDuration(v.GetString("REMEMBER_ME_TTL"), 30*24*time.Hour),
		ProfileTTL:     parseDuration(v.GetString("PROFILE_CACHE_TTL"), 24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Panels = PanelsConfig{
		DefaultInterval:       parseDuration(v.GetString("PANEL_DEFAULT_INTERVAL"), 10*time.Second),
		AcademicYearInterval:  parseDuration(v.GetString("PANEL_ACADEMIC_YEAR_INTERVAL"), 5*time.Second),
		AccreditationInterval: parseDuration(v.GetString("PANEL_ACCREDITATION_INTERVAL"), 5*time.Second),
		EventsInterval:        parseDuration(v.GetString("PANEL_EVENTS_INTERVAL"), 10*time.Second),
		FeesInterval:          parseDuration(v.GetString("PANEL_FEES_INTERVAL"), 15*time.Second),
		NotificationInterval:  parseDuration(v.GetString("PANEL_NOTIFICATION_INTERVAL"), 3*time.Second),
		AnnouncementInterval:  parseDuration(v.GetString("PANEL_ANNOUNCEMENT_INTERVAL"), 15*time.Second),
		PerPage:               v.GetInt("PANEL_PER_PAGE"),
	}

	cfg.Audit = AuditConfig{
		Enabled:    v.GetBool("ENABLE_AUDIT"),
		Workers:    v.GetInt("AUDIT_WORKERS"),
		BufferSize: v.GetInt("AUDIT_BUFFER_SIZE"),
		MaxRetries: v.GetInt("AUDIT_MAX_RETRIES"),
		RetryDelay: parseDuration(v.GetString("AUDIT_RETRY_DELAY"), time.Second),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("UPSTREAM_BASE_URL", "http://localhost/php")
	v.SetDefault("UPSTREAM_TIMEOUT", "10s")
	v.SetDefault("UPSTREAM_USER_AGENT", "orgportal-gateway")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "orgportal_gateway")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("SESSION_SECRET", "dev_secret")
	v.SetDefault("SESSION_EXPIRATION", "24h")
	v.SetDefault("REMEMBER_ME_SECRET", "dev_remember_secret_32_bytes_long!!")
	v.SetDefault("REMEMBER_ME_TTL", "720h")
	v.SetDefault("PROFILE_CACHE_TTL", "24h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("PANEL_DEFAULT_INTERVAL", "10s")
	v.SetDefault("PANEL_ACADEMIC_YEAR_INTERVAL", "5s")
	v.SetDefault("PANEL_ACCREDITATION_INTERVAL", "5s")
	v.SetDefault("PANEL_EVENTS_INTERVAL", "10s")
	v.SetDefault("PANEL_FEES_INTERVAL", "15s")
	v.SetDefault("PANEL_NOTIFICATION_INTERVAL", "3s")
	v.SetDefault("PANEL_ANNOUNCEMENT_INTERVAL", "15s")
	v.SetDefault("PANEL_PER_PAGE", 10)

	v.SetDefault("ENABLE_AUDIT", false)
	v.SetDefault("AUDIT_WORKERS", 1)
	v.SetDefault("AUDIT_BUFFER_SIZE", 64)
	v.SetDefault("AUDIT_MAX_RETRIES", 3)
	v.SetDefault("AUDIT_RETRY_DELAY", "1s")
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
