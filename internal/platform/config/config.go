package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Supported DB_DRIVER values.
const (
	DriverPgx = "pgx"
	DriverPQ  = "postgres"
)

// Supported PASSWORD_HASHING values.
const (
	HashingPlaintext = "plaintext"
	HashingBcrypt    = "bcrypt"
)

// DefaultCORSOrigins are the local frontend dev servers plus the hosted frontend.
var DefaultCORSOrigins = []string{
	"http://localhost:5173",
	"http://localhost:5174",
	"http://127.0.0.1:5173",
	"http://127.0.0.1:5174",
	"https://passport-frontend-taupe.vercel.app",
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr               string
	CORSAllowedOrigins []string
	LogLevel           string
	RequestTimeout     time.Duration
}

// Database describes the single store the process talks to.
type Database struct {
	URL             string
	Driver          string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	RunMigrations   bool
}

// Security holds credential and session token settings.
type Security struct {
	PasswordHashing   string
	SessionSigningKey string
	SessionTTL        time.Duration
}

// Applications holds application lifecycle switches.
type Applications struct {
	StrictStatusTransitions bool
}

type Config struct {
	Server       Server
	Database     Database
	Security     Security
	Applications Applications
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	var errs []error

	cfg := Config{
		Server: Server{
			Addr:               getenv("PASSPORT_ADDR", ":8000"),
			CORSAllowedOrigins: splitList(getenv("CORS_ALLOWED_ORIGINS", ""), DefaultCORSOrigins),
			LogLevel:           getenv("LOG_LEVEL", "info"),
			RequestTimeout:     durationEnv("REQUEST_TIMEOUT", 30*time.Second, &errs),
		},
		Database: Database{
			URL:             os.Getenv("DATABASE_URL"),
			Driver:          getenv("DB_DRIVER", DriverPgx),
			MaxOpenConns:    intEnv("DB_MAX_OPEN_CONNS", 10, &errs),
			MaxIdleConns:    intEnv("DB_MAX_IDLE_CONNS", 5, &errs),
			ConnMaxLifetime: durationEnv("DB_CONN_MAX_LIFETIME", 30*time.Minute, &errs),
			RunMigrations:   boolEnv("RUN_MIGRATIONS", true, &errs),
		},
		Security: Security{
			PasswordHashing: strings.ToLower(getenv("PASSWORD_HASHING", HashingPlaintext)),
			// Use a default for development - should be overridden in production
			SessionSigningKey: getenv("SESSION_SIGNING_KEY", "dev-secret-key-change-in-production"),
			SessionTTL:        durationEnv("SESSION_TTL", 24*time.Hour, &errs),
		},
		Applications: Applications{
			StrictStatusTransitions: boolEnv("STRICT_STATUS_TRANSITIONS", false, &errs),
		},
	}

	switch cfg.Database.Driver {
	case DriverPgx, DriverPQ:
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPgx, DriverPQ, cfg.Database.Driver))
	}
	switch cfg.Security.PasswordHashing {
	case HashingPlaintext, HashingBcrypt:
	default:
		errs = append(errs, fmt.Errorf("PASSWORD_HASHING must be %q or %q, got %q", HashingPlaintext, HashingBcrypt, cfg.Security.PasswordHashing))
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// RequireDatabase fails when no DATABASE_URL was provided.
func (c Config) RequireDatabase() error {
	if c.Database.URL == "" {
		return errors.New("DATABASE_URL is required")
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string, fallback []string) []string {
	if raw == "" {
		return append([]string(nil), fallback...)
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func intEnv(key string, fallback int, errs *[]error) int {
	raw := getenv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return v
}

func boolEnv(key string, fallback bool, errs *[]error) bool {
	raw := getenv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return v
}

func durationEnv(key string, fallback time.Duration, errs *[]error) time.Duration {
	raw := getenv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return v
}
