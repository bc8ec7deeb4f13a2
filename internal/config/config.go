// Package config loads service settings from the environment (and an optional YAML file).
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Duplicate payment handling on submission.
const (
	PaymentPolicyAllow  = "allow"
	PaymentPolicyReject = "reject"
)

// Admin credential sources for login.
const (
	AuthSourceConfig   = "config"
	AuthSourceDatabase = "database"
)

const devSecret = "dev-insecure-secret-change-me-now"

// Config holds everything the server needs at startup.
type Config struct {
	Env  string
	Host string
	Port string

	DatabaseURL string

	JWTSecret string
	JWTExpire time.Duration

	AdminUsername   string
	AdminPassword   string
	AdminAuthSource string

	FrontendURL   string
	SessionSecret string
	HTTPS         bool

	DuplicatePaymentPolicy string
	StatsLocation          *time.Location
	MaxBodyBytes           int64

	LoginRateLimit  int
	LoginRateWindow time.Duration
	RedisURL        string

	LogLevel string

	TracingEnabled  bool
	TracingExporter string
	OTLPEndpoint    string
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("node_env", "development")
	v.SetDefault("host", "")
	v.SetDefault("port", "5000")
	v.SetDefault("database_url", "")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_expire", "7d")
	v.SetDefault("admin_username", "")
	v.SetDefault("admin_password", "")
	v.SetDefault("admin_auth_source", AuthSourceConfig)
	v.SetDefault("frontend_url", "http://localhost:5173")
	v.SetDefault("session_secret", "")
	v.SetDefault("app_https", false)
	v.SetDefault("duplicate_payment_policy", PaymentPolicyAllow)
	v.SetDefault("stats_timezone", "")
	v.SetDefault("max_body_bytes", int64(8<<20))
	v.SetDefault("login_rate_limit", 10)
	v.SetDefault("login_rate_window", "15m")
	v.SetDefault("redis_url", "")
	v.SetDefault("log_level", "INFO")
	v.SetDefault("tracing_enabled", false)
	v.SetDefault("tracing_exporter", "none")
	v.SetDefault("otlp_endpoint", "localhost:4317")
}

// Load reads configuration from the environment. If file is non-empty it is read first and
// environment variables override it.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	cfg := &Config{
		Env:             v.GetString("node_env"),
		Host:            v.GetString("host"),
		Port:            v.GetString("port"),
		DatabaseURL:     v.GetString("database_url"),
		JWTSecret:       v.GetString("jwt_secret"),
		AdminUsername:   v.GetString("admin_username"),
		AdminPassword:   v.GetString("admin_password"),
		AdminAuthSource: strings.ToLower(v.GetString("admin_auth_source")),
		FrontendURL:     v.GetString("frontend_url"),
		SessionSecret:   v.GetString("session_secret"),
		HTTPS:           v.GetBool("app_https"),
		MaxBodyBytes:    v.GetInt64("max_body_bytes"),
		LoginRateLimit:  v.GetInt("login_rate_limit"),
		RedisURL:        v.GetString("redis_url"),
		LogLevel:        strings.ToUpper(v.GetString("log_level")),
		TracingEnabled:  v.GetBool("tracing_enabled"),
		TracingExporter: v.GetString("tracing_exporter"),
		OTLPEndpoint:    v.GetString("otlp_endpoint"),

		DuplicatePaymentPolicy: strings.ToLower(v.GetString("duplicate_payment_policy")),
	}

	var err error
	if cfg.JWTExpire, err = ParseExpiry(v.GetString("jwt_expire")); err != nil {
		return nil, fmt.Errorf("JWT_EXPIRE: %w", err)
	}
	if cfg.LoginRateWindow, err = time.ParseDuration(v.GetString("login_rate_window")); err != nil {
		return nil, fmt.Errorf("LOGIN_RATE_WINDOW: %w", err)
	}

	cfg.StatsLocation = time.Local
	if tz := v.GetString("stats_timezone"); tz != "" {
		if cfg.StatsLocation, err = time.LoadLocation(tz); err != nil {
			return nil, fmt.Errorf("STATS_TIMEZONE: %w", err)
		}
	}

	if cfg.JWTSecret == "" {
		if cfg.Env == "production" {
			return nil, errors.New("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = devSecret
	}
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = cfg.JWTSecret
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DuplicatePaymentPolicy {
	case PaymentPolicyAllow, PaymentPolicyReject:
	default:
		return fmt.Errorf("DUPLICATE_PAYMENT_POLICY: unknown value %q", c.DuplicatePaymentPolicy)
	}
	switch c.AdminAuthSource {
	case AuthSourceConfig, AuthSourceDatabase:
	default:
		return fmt.Errorf("ADMIN_AUTH_SOURCE: unknown value %q", c.AdminAuthSource)
	}
	if c.JWTExpire <= 0 {
		return errors.New("JWT_EXPIRE must be positive")
	}
	return nil
}

// ParseExpiry accepts Go durations ("168h") and the day form used by JWT tooling ("7d").
func ParseExpiry(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "d") {
		n, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return 0, fmt.Errorf("invalid day count %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}
