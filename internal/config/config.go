package config

import (
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Verifier  VerifierConfig  `yaml:"verifier"`
	Export    ExportConfig    `yaml:"export"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	RateLimit RateLimitConfig `yaml:"ratelimit"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8084"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// VerifierConfig holds settings of the external token verification service.
type VerifierConfig struct {
	BaseURL     string        `yaml:"base_url"     env:"VERIFIER_BASE_URL"     env-default:"https://backoffice.daribar.com/api/v1"`
	Timeout     time.Duration `yaml:"timeout"      env:"VERIFIER_TIMEOUT"      env-default:"10s"`
	JWTPrecheck bool          `yaml:"jwt_precheck" env:"VERIFIER_JWT_PRECHECK" env-default:"false"`
}

// ExportConfig holds spreadsheet export settings.
type ExportConfig struct {
	Path      string `yaml:"path"       env:"EXPORT_PATH"       env-default:"statistics_output.xlsx"`
	SheetName string `yaml:"sheet_name" env:"EXPORT_SHEET_NAME" env-default:"Statistics"`
	OnRequest bool   `yaml:"on_request" env:"EXPORT_ON_REQUEST" env-default:"true"`
	OnStream  bool   `yaml:"on_stream"  env:"EXPORT_ON_STREAM"  env-default:"false"`
}

// WebSocketConfig holds settings of the bidirectional endpoint.
type WebSocketConfig struct {
	OriginPatterns string `yaml:"origin_patterns" env:"WS_ORIGIN_PATTERNS" env-default:"*"`
	ReadLimit      int64  `yaml:"read_limit"      env:"WS_READ_LIMIT"      env-default:"65536"`
}

// RateLimitConfig holds per-IP limits of the request endpoint. Zero disables limiting.
type RateLimitConfig struct {
	PerMinute       int           `yaml:"per_minute"       env:"RATELIMIT_PER_MINUTE"       env-default:"60"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" env:"RATELIMIT_CLEANUP_INTERVAL" env-default:"5m"`
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED" env-default:"true"`
	Path    string `yaml:"path"    env:"METRICS_PATH"    env-default:"/metrics"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// Patterns returns the configured websocket origin patterns.
func (c WebSocketConfig) Patterns() []string {
	var patterns []string
	for _, p := range strings.Split(c.OriginPatterns, ",") {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}
