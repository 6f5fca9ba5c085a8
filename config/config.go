package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
)

type Config struct {
	Port       string
	LogLevel   string
	CORSOrigin string

	StoreBackend string
	TokenBackend string
	DBURL        string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string

	// AppBaseURL, when set, replaces the request-derived application URL in
	// verification and reset links.
	AppBaseURL  string
	ExposeLinks bool

	BcryptCost int
	TokenTTL   time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPPassword string
}

// LoadEnv reads .env (if present) and the process environment.
func LoadEnv() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		CORSOrigin:    getEnv("CORS_ORIGIN", "http://localhost:5173"),
		StoreBackend:  strings.ToLower(getEnv("STORE_BACKEND", BackendPostgres)),
		DBURL:         getEnv("DB_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		AppBaseURL:    strings.TrimRight(getEnv("APP_BASE_URL", ""), "/"),
		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPFrom:      getEnv("SMTP_FROM", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
	}
	cfg.TokenBackend = strings.ToLower(getEnv("TOKEN_BACKEND", cfg.StoreBackend))

	var err error
	if cfg.JWTSecret, err = mustEnv("JWT_SECRET"); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.BcryptCost, err = getInt("BCRYPT_COST", 11); err != nil {
		return nil, err
	}
	if cfg.ExposeLinks, err = getBool("EXPOSE_LINKS", false); err != nil {
		return nil, err
	}
	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", 10*time.Minute); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case BackendPostgres, BackendMemory:
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendPostgres, BackendMemory, c.StoreBackend)
	}
	switch c.TokenBackend {
	case BackendPostgres, BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("TOKEN_BACKEND must be %q, %q or %q, got %q", BackendPostgres, BackendRedis, BackendMemory, c.TokenBackend)
	}
	if c.TokenBackend == BackendPostgres && c.StoreBackend != BackendPostgres {
		return fmt.Errorf("TOKEN_BACKEND=postgres requires STORE_BACKEND=postgres")
	}
	if c.StoreBackend == BackendPostgres && c.DBURL == "" {
		return fmt.Errorf("missing required environment variable: DB_URL")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	return nil
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("missing required environment variable: %s", key)
	}
	return v, nil
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
