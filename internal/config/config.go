package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	DatabaseURL        string
	DBMaxConns         int32
	CorsAllowedOrigins []string
	LogLevel           string

	// BlogWritesRequireKey gates post create/update/delete behind an API key.
	BlogWritesRequireKey bool

	WebEnabled    bool
	APIBaseURL    string
	SessionSecret string
	AdminUsername string
	AdminPassword string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	port := getEnv("PORT", "8080")
	cfg := Config{
		Port:                 port,
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		CorsAllowedOrigins:   splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		BlogWritesRequireKey: getBool("BLOG_WRITES_REQUIRE_KEY", true),
		WebEnabled:           getBool("WEB_ENABLED", false),
		APIBaseURL:           strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:"+port), "/"),
		SessionSecret:        getEnv("SESSION_SECRET", ""),
		AdminUsername:        getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:        getEnv("ADMIN_PASSWORD", ""),
	}

	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "10"))
	if err != nil || maxConns <= 0 {
		return Config{}, fmt.Errorf("DB_MAX_CONNS must be a positive integer")
	}
	cfg.DBMaxConns = int32(maxConns)

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = databaseURLFromParts()
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL or DB_HOST is required")
	}
	if cfg.WebEnabled {
		if cfg.SessionSecret == "" {
			return Config{}, errors.New("SESSION_SECRET is required when WEB_ENABLED is set")
		}
		if cfg.AdminPassword == "" {
			return Config{}, errors.New("ADMIN_PASSWORD is required when WEB_ENABLED is set")
		}
	}

	return cfg, nil
}

// databaseURLFromParts assembles a postgres URL from the DB_* variables.
func databaseURLFromParts() string {
	host := getEnv("DB_HOST", "")
	if host == "" {
		return ""
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(host, getEnv("DB_PORT", "5432")),
		Path:   "/" + getEnv("DB_NAME", "portfolio_db"),
	}
	user := getEnv("DB_USER", "postgres")
	if pw := getEnv("DB_PASSWORD", ""); pw != "" {
		u.User = url.UserPassword(user, pw)
	} else {
		u.User = url.User(user)
	}
	if mode := getEnv("DB_SSLMODE", ""); mode != "" {
		u.RawQuery = "sslmode=" + url.QueryEscape(mode)
	}
	return u.String()
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(fallback)))
	if err != nil {
		return fallback
	}
	return value
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
