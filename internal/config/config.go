package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Config holds everything cmd/api needs at startup.
type Config struct {
	Addr            string
	StoreDriver     string
	DatabaseDSN     string
	DBTimeout       time.Duration
	LogLevel        slog.Level
	CORSOrigins     []string
	EnableHSTS      bool
	RateLimitRPS    float64
	RateLimitBurst  int
	MaxBodyBytes    int64
	OTLPEndpoint    string
	ServiceName     string
	ShutdownTimeout time.Duration
}

// LoadEnvFiles reads .env and .env.local if present. Variables already set
// in the process environment win.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load reads the configuration from the environment. Malformed values are
// reported together instead of silently falling back to defaults.
func Load() (Config, error) {
	p := parser{}
	cfg := Config{
		Addr:            getEnv("APP_ADDR", ":8080"),
		StoreDriver:     strings.ToLower(getEnv("STORE_DRIVER", DriverMemory)),
		DatabaseDSN:     os.Getenv("DB_DSN"),
		DBTimeout:       p.duration("DB_TIMEOUT", 3*time.Second),
		LogLevel:        p.level("LOG_LEVEL", slog.LevelInfo),
		CORSOrigins:     splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		EnableHSTS:      p.boolean("ENABLE_HSTS", false),
		RateLimitRPS:    p.float("RATE_LIMIT_RPS", 20),
		RateLimitBurst:  p.integer("RATE_LIMIT_BURST", 40),
		MaxBodyBytes:    int64(p.integer("MAX_BODY_BYTES", 1<<20)),
		OTLPEndpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceName:     getEnv("OTEL_SERVICE_NAME", "bookstore"),
		ShutdownTimeout: p.duration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	switch cfg.StoreDriver {
	case DriverMemory:
	case DriverPostgres:
		if cfg.DatabaseDSN == "" {
			p.errs = append(p.errs, errors.New("DB_DSN is required when STORE_DRIVER=postgres"))
		}
	default:
		p.errs = append(p.errs, fmt.Errorf("STORE_DRIVER: unknown driver %q", cfg.StoreDriver))
	}

	if err := errors.Join(p.errs...); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parser collects every malformed variable so Load can report them at once.
type parser struct {
	errs []error
}

func (p *parser) fail(key, value string, err error) {
	p.errs = append(p.errs, fmt.Errorf("%s=%q: %w", key, value, err))
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err == nil && d <= 0 {
		err = errors.New("must be positive")
	}
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return d
}

func (p *parser) integer(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err == nil && n <= 0 {
		err = errors.New("must be positive")
	}
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return n
}

func (p *parser) float(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err == nil && f <= 0 {
		err = errors.New("must be positive")
	}
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return f
}

func (p *parser) boolean(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return b
}

func (p *parser) level(key string, def slog.Level) slog.Level {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(v)); err != nil {
		p.fail(key, v, err)
		return def
	}
	return l
}
