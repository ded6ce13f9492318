package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr string
	GinMode string

	JWTSecret  string
	TokenTTL   time.Duration
	HourlyRate int64

	APIBaseURL  string
	APITimeout  time.Duration
	SubmitDelay time.Duration

	CORSAllowedOrigins []string

	MySQLDSN    string
	PostgresDSN string
	RedisURL    string
	AMQPURL     string
	StoragePath string
}

// LoadEnv reads .env (when present) and the process environment.
func LoadEnv() Env {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: failed to load .env: %v", err)
	}

	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":" + getEnv("PORT", "8000")
	}

	return Env{
		AppAddr:            appAddr,
		GinMode:            strings.TrimSpace(os.Getenv("GIN_MODE")),
		JWTSecret:          getEnv("JWT_SECRET", "spacify-dev-secret-change-me"),
		TokenTTL:           getDuration("TOKEN_TTL", 24*time.Hour),
		HourlyRate:         getInt64("HOURLY_RATE", 100),
		APIBaseURL:         strings.TrimRight(getEnv("API_URL", "http://localhost:8000/api"), "/"),
		APITimeout:         getDuration("API_TIMEOUT", 10*time.Second),
		SubmitDelay:        getDuration("SUBMIT_DELAY", 2*time.Second),
		CORSAllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://127.0.0.1:3000"}),
		MySQLDSN:           strings.TrimSpace(os.Getenv("MYSQL_DSN")),
		PostgresDSN:        strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisURL:           strings.TrimSpace(os.Getenv("REDIS_URL")),
		AMQPURL:            strings.TrimSpace(os.Getenv("AMQP_URL")),
		StoragePath:        strings.TrimSpace(os.Getenv("STORAGE_PATH")),
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt64(key string, fallback int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		log.Printf("warning: invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		log.Printf("warning: invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func getList(key string, fallback []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	out := []string{}
	for _, o := range strings.Split(v, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
