package config

import (
	"context"
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingJWTSecret is returned when JWT_SECRET is unset outside dev/test.
// There is deliberately no fallback secret in production mode.
var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set when APP_ENV is not dev or test")

// devSecret is only ever used when APP_ENV is dev or test; main logs loudly
// when it is in effect.
const devSecret = "dev-only-not-a-secret"

type Config struct {
	Env          string
	Port         int
	DBURL        string
	ClientOrigin string

	JWTSecret       string
	SessionTTLHours int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	OTLPEndpoint string
}

func Load() (Config, error) {
	// .env is a local-dev convenience; a missing file is fine
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "dev")

	secret := os.Getenv("JWT_SECRET")

	if secret == "" {
		if env != "dev" && env != "test" {
			return Config{}, ErrMissingJWTSecret
		}
		secret = devSecret
	}

	cfg := Config{
		Env:             env,
		Port:            getEnvInt("PORT", 4000),
		DBURL:           buildDBURL(),
		ClientOrigin:    getEnv("CLIENT_ORIGIN", "http://localhost:3000"),
		JWTSecret:       secret,
		SessionTTLHours: getEnvInt("SESSION_TTL_HOURS", 24),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		OTLPEndpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	return cfg, nil
}

// UsingDevSecret reports whether the signing secret is the built-in dev one.
func (c Config) UsingDevSecret() bool {
	return c.JWTSecret == devSecret
}

func (c Config) SessionTTL() time.Duration {
	hours := c.SessionTTLHours

	if hours <= 0 {
		hours = 24
	}

	return time.Duration(hours) * time.Hour
}

func buildDBURL() string {
	// DATABASE_URL wins when set; otherwise assemble from parts
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "accountd")
	pass := getEnv("DB_PASSWORD", "accountd")
	name := getEnv("DB_NAME", "accountd")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			return fallback
		}

		return num
	}
	return fallback
}
