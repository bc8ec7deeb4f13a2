package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "5000", cfg.Port)
	require.Equal(t, 7*24*time.Hour, cfg.JWTExpire)
	require.Equal(t, PaymentPolicyAllow, cfg.DuplicatePaymentPolicy)
	require.Equal(t, AuthSourceConfig, cfg.AdminAuthSource)
	require.Equal(t, "http://localhost:5173", cfg.FrontendURL)
	require.Equal(t, time.Local, cfg.StatsLocation)
	require.NotEmpty(t, cfg.JWTSecret, "dev secret should be filled in")
	require.Equal(t, cfg.JWTSecret, cfg.SessionSecret)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("JWT_EXPIRE", "36h")
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD", "secret")
	t.Setenv("DUPLICATE_PAYMENT_POLICY", "REJECT")
	t.Setenv("STATS_TIMEZONE", "Asia/Kolkata")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, ":8081", cfg.Addr())
	require.Equal(t, 36*time.Hour, cfg.JWTExpire)
	require.Equal(t, "admin", cfg.AdminUsername)
	require.Equal(t, "secret", cfg.AdminPassword)
	require.Equal(t, PaymentPolicyReject, cfg.DuplicatePaymentPolicy)
	require.Equal(t, "Asia/Kolkata", cfg.StatsLocation.String())
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"7000\"\nlogin_rate_limit: 3\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "7000", cfg.Port)
	require.Equal(t, 3, cfg.LoginRateLimit)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"policy", "DUPLICATE_PAYMENT_POLICY", "maybe"},
		{"auth source", "ADMIN_AUTH_SOURCE", "ldap"},
		{"expiry", "JWT_EXPIRE", "soon"},
		{"timezone", "STATS_TIMEZONE", "Mars/Olympus"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load("")
			require.Error(t, err)
		})
	}
}

func TestLoad_ProductionNeedsSecret(t *testing.T) {
	t.Setenv("NODE_ENV", "production")
	_, err := Load("")
	require.Error(t, err)
}

func TestParseExpiry(t *testing.T) {
	d, err := ParseExpiry("7d")
	require.NoError(t, err)
	require.Equal(t, 168*time.Hour, d)

	d, err = ParseExpiry("90m")
	require.NoError(t, err)
	require.Equal(t, 90*time.Minute, d)

	_, err = ParseExpiry("xd")
	require.Error(t, err)
}
