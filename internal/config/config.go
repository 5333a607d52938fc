package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Env      string
	HTTPPort string
	DBPath   string
	JWTSecret string
	TokenTTL time.Duration
	RateRPS  int
}

func Load() Config {
	return Config{
		Env:       get("APP_ENV", "dev"),
		HTTPPort:  get("HTTP_PORT", "8080"),
		DBPath:    get("DB_PATH", "./data/splitsync.db"),
		JWTSecret: get("JWT_SECRET", "changeme-secret"),
		TokenTTL:  getDuration("TOKEN_TTL", 24*time.Hour),
		RateRPS:   getInt("RATE_RPS", 100),
	}
}

func get(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
