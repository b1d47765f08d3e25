package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrConfigurationMissing means the process cannot reach its store and must not start.
var ErrConfigurationMissing = errors.New("configuration missing")

type Config struct {
	Env      string
	Port     int
	LogLevel string

	DatabaseURI    string
	DBName         string
	DBMaxConns     int
	ConnectTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	JWTSecret string
	JWTTTL    time.Duration

	OTLPEndpoint     string
	TraceSampleRatio float64

	CORSOrigins        []string
	RateLimitPerMinute int
	MaxBodyBytes       int64
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	// a missing .env is normal outside local dev
	_ = godotenv.Load()

	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function so tests don't touch the real environment.
func FromEnv(getenv func(string) string) (Config, error) {
	r := reader{getenv: getenv}

	uri := r.str("DATABASE_URI", "")
	if uri == "" {
		// legacy name
		uri = r.str("MONGODB_URI", "")
	}

	cfg := Config{
		Env:                r.str("APP_ENV", "dev"),
		Port:               r.int("PORT", 8080),
		LogLevel:           r.str("LOG_LEVEL", ""),
		DatabaseURI:        uri,
		DBName:             r.str("DB_NAME", "devevent"),
		DBMaxConns:         r.int("DB_MAX_CONNS", 5),
		ConnectTimeout:     r.duration("DB_CONNECT_TIMEOUT", 5*time.Second),
		RedisAddr:          r.str("REDIS_ADDR", ""),
		RedisPassword:      r.str("REDIS_PASSWORD", ""),
		RedisDB:            r.int("REDIS_DB", 0),
		CacheTTL:           r.duration("CACHE_TTL", 30*time.Second),
		JWTSecret:          r.str("JWT_SECRET", ""),
		JWTTTL:             r.duration("JWT_TTL", 60*time.Minute),
		OTLPEndpoint:       r.str("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		TraceSampleRatio:   r.float("OTEL_TRACES_SAMPLER_ARG", 1),
		CORSOrigins:        r.list("CORS_ORIGINS"),
		RateLimitPerMinute: r.int("RATE_LIMIT_PER_MINUTE", 120),
		MaxBodyBytes:       int64(r.int("MAX_BODY_BYTES", 1<<20)),
	}

	if r.err != nil {
		return Config{}, r.err
	}

	if cfg.DatabaseURI == "" {
		return Config{}, fmt.Errorf("%w: define DATABASE_URI (or MONGODB_URI) in the environment or .env", ErrConfigurationMissing)
	}

	return cfg, nil
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

// reader keeps the first parse error so Load can report it once.
type reader struct {
	getenv func(string) string
	err    error
}

func (r *reader) str(key, fallback string) string {
	if v := strings.TrimSpace(r.getenv(key)); v != "" {
		return v
	}

	return fallback
}

func (r *reader) int(key string, fallback int) int {
	v := strings.TrimSpace(r.getenv(key))
	if v == "" {
		return fallback
	}

	num, err := strconv.Atoi(v)
	if err != nil {
		r.fail(fmt.Errorf("config %s: %w", key, err))
		return fallback
	}

	return num
}

func (r *reader) duration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(r.getenv(key))
	if v == "" {
		return fallback
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		r.fail(fmt.Errorf("config %s: %w", key, err))
		return fallback
	}

	return d
}

func (r *reader) float(key string, fallback float64) float64 {
	v := strings.TrimSpace(r.getenv(key))
	if v == "" {
		return fallback
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.fail(fmt.Errorf("config %s: %w", key, err))
		return fallback
	}

	return f
}

func (r *reader) list(key string) []string {
	v := strings.TrimSpace(r.getenv(key))
	if v == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}

	return out
}

func (r *reader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}
