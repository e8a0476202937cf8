package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string

	// IANA zone the restaurant operates in; dashboard day buckets are
	// cut on this zone's midnights, not UTC.
	ServerTimezone string
	Location       *time.Location

	// Empty AMQPURL disables order notifications entirely.
	AMQPURL string

	DishImagePath string

	InitialOwnerEmail    string
	InitialOwnerPassword string

	AccessTokenTTL       time.Duration
	RefreshTokenTTL      time.Duration
	GuestAccessTokenTTL  time.Duration
	GuestRefreshTokenTTL time.Duration
}

func Load() *Config {
	// .env is optional, real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:             getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:          getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=quanan port=5432 sslmode=disable"),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		CORSOrigins:          getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		ServerTimezone:       getEnv("SERVER_TIMEZONE", "Asia/Ho_Chi_Minh"),
		AMQPURL:              getEnv("AMQP_URL", ""),
		DishImagePath:        getEnv("DISH_IMAGE_PATH", "./dish-images"),
		InitialOwnerEmail:    getEnv("INITIAL_OWNER_EMAIL", "owner@quanan.local"),
		InitialOwnerPassword: getEnv("INITIAL_OWNER_PASSWORD", ""),
		AccessTokenTTL:       getDurationEnv("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL:      getDurationEnv("REFRESH_TOKEN_TTL", 168*time.Hour),
		GuestAccessTokenTTL:  getDurationEnv("GUEST_ACCESS_TOKEN_TTL", 15*time.Minute),
		GuestRefreshTokenTTL: getDurationEnv("GUEST_REFRESH_TOKEN_TTL", 12*time.Hour),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET is not set, refusing to start")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET must be at least 32 characters")
	}

	loc, err := time.LoadLocation(cfg.ServerTimezone)
	if err != nil {
		log.Fatalf("[FATAL] SERVER_TIMEZONE %q is not a valid IANA zone: %v", cfg.ServerTimezone, err)
	}
	cfg.Location = loc

	if cfg.AMQPURL == "" {
		log.Println("[WARN] AMQP_URL not set, order notifications are disabled")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("[FATAL] %s=%q is not a valid duration", key, v)
	}
	return d
}
