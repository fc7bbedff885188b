package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every runtime knob. Ingestion CLIs and the API server load
// the same struct; each binary uses the slice it needs.
type Config struct {
	AppName string
	AppEnv  string

	// DBURL is the Postgres DSN. Required by every binary that touches the
	// store.
	DBURL string

	// CFBD upstream client.
	CFBDAPIKey    string
	CFBDBaseURL   string
	CFBDTimeout   time.Duration
	CFBDRateDelay time.Duration

	CircuitEnabled          bool
	CircuitFailureThreshold int
	CircuitOpenTimeout      time.Duration
	CircuitHalfOpenMaxCalls int

	HTTPAddr        string
	MetricsCacheTTL time.Duration

	UptraceDSN       string
	PyroscopeAddress string
	PprofAddr        string

	LogLevel string
}

const (
	defaultBaseURL   = "https://api.collegefootballdata.com"
	defaultTimeout   = 30 * time.Second
	defaultRateDelay = 100 * time.Millisecond
)

// Load reads configuration from the environment. Missing CFBD_API_KEY or
// DB_URL is a hard failure so a misconfigured run dies before making calls.
func Load() (*Config, error) {
	cfg := &Config{
		AppName: getEnv("APP_NAME", "cfb-analytics"),
		AppEnv:  getEnv("APP_ENV", "development"),

		DBURL: os.Getenv("DB_URL"),

		CFBDAPIKey:    os.Getenv("CFBD_API_KEY"),
		CFBDBaseURL:   getEnv("CFBD_BASE_URL", defaultBaseURL),
		CFBDTimeout:   getEnvDuration("CFBD_TIMEOUT", defaultTimeout),
		CFBDRateDelay: getEnvDuration("CFBD_RATE_DELAY", defaultRateDelay),

		CircuitEnabled:          getEnvBool("CIRCUIT_BREAKER_ENABLED", false),
		CircuitFailureThreshold: getEnvInt("CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
		CircuitOpenTimeout:      getEnvDuration("CIRCUIT_BREAKER_OPEN_TIMEOUT", 30*time.Second),
		CircuitHalfOpenMaxCalls: getEnvInt("CIRCUIT_BREAKER_HALF_OPEN_MAX_CALLS", 1),

		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		MetricsCacheTTL: getEnvDuration("METRICS_CACHE_TTL", 5*time.Minute),

		UptraceDSN:       os.Getenv("UPTRACE_DSN"),
		PyroscopeAddress: os.Getenv("PYROSCOPE_ADDRESS"),
		PprofAddr:        os.Getenv("PPROF_ADDR"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if strings.TrimSpace(c.CFBDAPIKey) == "" {
		missing = append(missing, "CFBD_API_KEY")
	}
	if strings.TrimSpace(c.DBURL) == "" {
		missing = append(missing, "DB_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if c.CFBDRateDelay < 0 {
		return fmt.Errorf("CFBD_RATE_DELAY must not be negative")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}
