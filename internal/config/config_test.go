package config

import (
	"testing"
	"time"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("QUANAN_TEST_SET", "value")
	t.Setenv("QUANAN_TEST_EMPTY", "")

	tests := []struct {
		name string
		key  string
		def  string
		want string
	}{
		{"set wins over default", "QUANAN_TEST_SET", "fallback", "value"},
		{"unset falls back", "QUANAN_TEST_UNSET", "fallback", "fallback"},
		{"empty counts as unset", "QUANAN_TEST_EMPTY", "fallback", "fallback"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := getEnv(tc.key, tc.def); got != tc.want {
				t.Errorf("getEnv(%q) = %q, want %q", tc.key, got, tc.want)
			}
		})
	}
}

func TestGetDurationEnv(t *testing.T) {
	t.Setenv("QUANAN_TEST_TTL", "30m")

	if got := getDurationEnv("QUANAN_TEST_TTL", time.Hour); got != 30*time.Minute {
		t.Errorf("set ttl = %v, want 30m", got)
	}
	if got := getDurationEnv("QUANAN_TEST_TTL_UNSET", time.Hour); got != time.Hour {
		t.Errorf("unset ttl = %v, want default 1h", got)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("SERVER_TIMEZONE", "Asia/Bangkok")
	t.Setenv("GUEST_REFRESH_TOKEN_TTL", "6h")
	// force defaults regardless of the ambient environment
	t.Setenv("HTTP_PORT", "")
	t.Setenv("ACCESS_TOKEN_TTL", "")
	t.Setenv("AMQP_URL", "")

	cfg := Load()

	if cfg.Location == nil || cfg.Location.String() != "Asia/Bangkok" {
		t.Errorf("location = %v, want Asia/Bangkok", cfg.Location)
	}
	if cfg.HTTPPort != "8080" {
		t.Errorf("http port = %q, want default 8080", cfg.HTTPPort)
	}
	if cfg.AccessTokenTTL != 15*time.Minute {
		t.Errorf("access ttl = %v, want default 15m", cfg.AccessTokenTTL)
	}
	if cfg.GuestRefreshTokenTTL != 6*time.Hour {
		t.Errorf("guest refresh ttl = %v, want 6h", cfg.GuestRefreshTokenTTL)
	}
	if cfg.AMQPURL != "" {
		t.Errorf("amqp url = %q, want disabled", cfg.AMQPURL)
	}
}
