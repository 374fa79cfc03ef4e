// Package appconf holds process-level configuration for the bahnboard server.
// Values come from the environment with sensible defaults, so the binary can be
// started with no configuration at all and serve the public monthly snapshots.
package appconf

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment describes the runtime environment of the application.
type Environment int

const (
	Development Environment = iota
	Test
	Production
)

// String returns the lowercase name of the environment.
func (e Environment) String() string {
	switch e {
	case Test:
		return "test"
	case Production:
		return "production"
	default:
		return "development"
	}
}

// EnvFromString maps an environment name to an Environment value.
// Unknown values fall back to Development.
func EnvFromString(s string) Environment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "test":
		return Test
	case "production", "prod":
		return Production
	default:
		return Development
	}
}

// Config holds every knob the server reads at startup.
type Config struct {
	Env  Environment
	Port int

	// DataBaseURL is the remote location of the monthly parquet snapshots.
	// DataDir, when set, takes precedence and serves snapshots from disk.
	DataBaseURL string
	DataDir     string

	// MinYear and MaxYear bound the selectable reporting periods.
	MinYear int
	MaxYear int

	// DefaultTrainTypes is the train-type selection used when a request
	// does not carry one.
	DefaultTrainTypes []string

	// RequestTimeout bounds how long the server may spend writing one
	// response.
	RequestTimeout time.Duration

	// ResolveTimeout bounds how long a dataset probe may take before the
	// period is reported as unavailable.
	ResolveTimeout time.Duration

	// RateLimit is the number of requests per second allowed per client.
	// Zero or negative disables rate limiting.
	RateLimit int

	AllowedOrigins []string
	Verbose        bool
}

const defaultDataBaseURL = "https://huggingface.co/datasets/piebro/deutsche-bahn-data/resolve/main/monthly_processed_data"

// Load builds a Config from the process environment.
func Load() Config {
	return Config{
		Env:               EnvFromString(envString("BAHNBOARD_ENV", "development")),
		Port:              envInt("BAHNBOARD_PORT", 8080),
		DataBaseURL:       envString("BAHNBOARD_DATA_BASE_URL", defaultDataBaseURL),
		DataDir:           envString("BAHNBOARD_DATA_DIR", ""),
		MinYear:           envInt("BAHNBOARD_MIN_YEAR", 2022),
		MaxYear:           envInt("BAHNBOARD_MAX_YEAR", 2024),
		DefaultTrainTypes: envList("BAHNBOARD_DEFAULT_TRAIN_TYPES", []string{"ICE", "IC", "RE", "RB", "S"}),
		RequestTimeout:    envDuration("BAHNBOARD_REQUEST_TIMEOUT", 30*time.Second),
		ResolveTimeout:    envDuration("BAHNBOARD_RESOLVE_TIMEOUT", 30*time.Second),
		RateLimit:         envInt("BAHNBOARD_RATE_LIMIT", 20),
		AllowedOrigins:    envList("BAHNBOARD_ALLOWED_ORIGINS", []string{"*"}),
		Verbose:           envBool("BAHNBOARD_VERBOSE", false),
	}
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

// envList splits a comma-separated environment variable into trimmed,
// non-empty entries.
func envList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
