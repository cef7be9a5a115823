package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env           string        // dev, prod
	APIPort       string        // default 8080
	MongoURI      string        // required
	MongoDatabase string        // required
	RedisAddr     string        // host:port
	RedisPassword string        // optional
	JWTSecret     string        // required
	LockTTL       time.Duration // how long a slot lock lives
	AllowOrigins  []string      // CORS origins
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:           getEnv("APP_ENV", "dev"),
		APIPort:       getEnv("API_PORT", "8080"),
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: os.Getenv("MONGO_DATABASE"),
		RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		LockTTL:       getDuration("LOCK_TTL", 5*time.Second),
		AllowOrigins:  []string{getEnv("CORS_ORIGIN", "http://localhost:5173")},
	}

	if cfg.MongoURI == "" {
		return Config{}, errors.New("MONGO_URI is required")
	}
	if cfg.MongoDatabase == "" {
		return Config{}, errors.New("MONGO_DATABASE is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
