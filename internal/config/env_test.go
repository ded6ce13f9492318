package config

import (
	"testing"
	"time"
)

func TestLoadEnvDefaults(t *testing.T) {
	for _, k := range []string{"APP_ADDR", "PORT", "HOURLY_RATE", "API_URL", "API_TIMEOUT", "SUBMIT_DELAY", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}

	env := LoadEnv()
	if env.AppAddr != ":8000" {
		t.Fatalf("AppAddr = %q", env.AppAddr)
	}
	if env.HourlyRate != 100 {
		t.Fatalf("HourlyRate = %d", env.HourlyRate)
	}
	if env.APIBaseURL != "http://localhost:8000/api" {
		t.Fatalf("APIBaseURL = %q", env.APIBaseURL)
	}
	if env.APITimeout != 10*time.Second || env.SubmitDelay != 2*time.Second {
		t.Fatalf("unexpected timeouts: %s %s", env.APITimeout, env.SubmitDelay)
	}
	if len(env.CORSAllowedOrigins) != 2 {
		t.Fatalf("CORSAllowedOrigins = %v", env.CORSAllowedOrigins)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("APP_ADDR", "")
	t.Setenv("PORT", "9090")
	t.Setenv("HOURLY_RATE", "abc")
	t.Setenv("API_URL", "http://api.local/api/")
	t.Setenv("SUBMIT_DELAY", "250ms")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

	env := LoadEnv()
	if env.AppAddr != ":9090" {
		t.Fatalf("AppAddr = %q", env.AppAddr)
	}
	if env.HourlyRate != 100 {
		t.Fatalf("invalid HOURLY_RATE should fall back, got %d", env.HourlyRate)
	}
	if env.APIBaseURL != "http://api.local/api" {
		t.Fatalf("APIBaseURL = %q", env.APIBaseURL)
	}
	if env.SubmitDelay != 250*time.Millisecond {
		t.Fatalf("SubmitDelay = %s", env.SubmitDelay)
	}
	if len(env.CORSAllowedOrigins) != 2 || env.CORSAllowedOrigins[1] != "http://b.test" {
		t.Fatalf("CORSAllowedOrigins = %v", env.CORSAllowedOrigins)
	}
}
