package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds the application configuration
type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	LogDir      string
	Environment string
	ServiceName string
	Version     string

	// Inbound API. An empty APIKey leaves the API open for local use.
	APIKey         string
	TrustedProxies []string

	// Play service
	PlayServiceURL     string
	PlayAPIKey         string
	PlayRequestTimeout time.Duration
	OutcomeCacheSize   int
	OutcomeCacheTTL    time.Duration

	// Spin timing
	WatchdogTimeout  time.Duration
	SpinBaseDuration time.Duration
	SpinStagger      time.Duration
	DecelDuration    time.Duration
	FrameInterval    time.Duration
	StreamFrames     bool

	// Wallet
	PlayerID        string
	StartingBalance decimal.Decimal

	// Database. An empty DBHost selects the in-memory stores.
	DBUser            string
	DBPassword        string
	DBHost            string
	DBPort            string
	DBName            string
	DBMaxConns        int
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration

	WorkerCount     int
	WorkerQueueSize int

	// Development play service
	PlaysvcPort        int
	PlaysvcLatency     time.Duration
	PlaysvcFailureRate float64
	PlaysvcFailureMode string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:    strings.ToLower(getEnv("LOG_LEVEL", DefaultLogLevel)),
		LogFormat:   strings.ToLower(getEnv("LOG_FORMAT", DefaultLogFormat)),
		LogDir:      getEnv("LOG_DIR", DefaultLogDir),
		Environment: getEnv("ENVIRONMENT", DefaultEnvironment),
		ServiceName: getEnv("SERVICE_NAME", DefaultServiceName),
		Version:     getEnv("VERSION", DefaultVersion),

		APIKey:         getEnv("API_KEY", ""),
		TrustedProxies: getEnvAsList("TRUSTED_PROXIES"),

		PlayServiceURL:     getEnv("PLAY_SERVICE_URL", DefaultPlayServiceURL),
		PlayAPIKey:         getEnv("PLAY_API_KEY", ""),
		PlayRequestTimeout: getEnvAsDuration("PLAY_REQUEST_TIMEOUT", DefaultPlayRequestTimeout),
		OutcomeCacheSize:   getEnvAsInt("OUTCOME_CACHE_SIZE", DefaultOutcomeCacheSize),
		OutcomeCacheTTL:    getEnvAsDuration("OUTCOME_CACHE_TTL", DefaultOutcomeCacheTTL),

		WatchdogTimeout:  getEnvAsDuration("WATCHDOG_TIMEOUT", DefaultWatchdogTimeout),
		SpinBaseDuration: getEnvAsDuration("SPIN_BASE_DURATION", DefaultSpinBaseDuration),
		SpinStagger:      getEnvAsDuration("SPIN_STAGGER", DefaultSpinStagger),
		DecelDuration:    getEnvAsDuration("DECEL_DURATION", DefaultDecelDuration),
		FrameInterval:    getEnvAsDuration("FRAME_INTERVAL", DefaultFrameInterval),
		StreamFrames:     getEnvAsBool("STREAM_FRAMES", false),

		PlayerID: getEnv("PLAYER_ID", DefaultPlayerID),

		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBHost:            getEnv("DB_HOST", ""),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBName:            getEnv("DB_NAME", "reelspin"),
		DBMaxConns:        getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),
		DBMaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", DefaultDBMaxConnIdleTime),
		DBMaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", DefaultDBMaxConnLifetime),

		WorkerCount:     getEnvAsInt("WORKER_COUNT", DefaultWorkerCount),
		WorkerQueueSize: getEnvAsInt("WORKER_QUEUE_SIZE", DefaultWorkerQueueSize),

		PlaysvcLatency:     getEnvAsDuration("PLAYSVC_LATENCY", DefaultPlaysvcLatency),
		PlaysvcFailureRate: getEnvAsFloat("PLAYSVC_FAILURE_RATE", 0),
		PlaysvcFailureMode: strings.ToLower(getEnv("PLAYSVC_FAILURE_MODE", DefaultPlaysvcFailureMode)),
	}

	port, err := strconv.Atoi(getEnv("PORT", strconv.Itoa(DefaultPort)))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	playsvcPort, err := strconv.Atoi(getEnv("PLAYSVC_PORT", strconv.Itoa(DefaultPlaysvcPort)))
	if err != nil {
		return nil, fmt.Errorf("invalid PLAYSVC_PORT value: %w", err)
	}
	cfg.PlaysvcPort = playsvcPort

	balance, err := decimal.NewFromString(getEnv("STARTING_BALANCE", DefaultStartingBalance))
	if err != nil {
		return nil, fmt.Errorf("invalid STARTING_BALANCE value: %w", err)
	}
	cfg.StartingBalance = balance

	return cfg, nil
}

// Validate reports every configuration problem at once
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Port > 0 && c.Port <= 65535, "PORT must be between 1 and 65535, got %d", c.Port)
	check(c.PlaysvcPort > 0 && c.PlaysvcPort <= 65535, "PLAYSVC_PORT must be between 1 and 65535, got %d", c.PlaysvcPort)

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", c.LogLevel))
	}
	check(c.LogFormat == "text" || c.LogFormat == "json", "LOG_FORMAT must be text or json, got %q", c.LogFormat)

	if u, err := url.Parse(c.PlayServiceURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("PLAY_SERVICE_URL must be an absolute URL, got %q", c.PlayServiceURL))
	}

	check(c.PlayRequestTimeout > 0, "PLAY_REQUEST_TIMEOUT must be positive")
	check(c.WatchdogTimeout > 0, "WATCHDOG_TIMEOUT must be positive")
	check(c.SpinBaseDuration > 0, "SPIN_BASE_DURATION must be positive")
	check(c.DecelDuration > 0, "DECEL_DURATION must be positive")
	check(c.FrameInterval > 0, "FRAME_INTERVAL must be positive")
	// Reels closer than one frame apart can land on the same tick
	check(c.SpinStagger >= c.FrameInterval, "SPIN_STAGGER must be at least FRAME_INTERVAL (%s), got %s", c.FrameInterval, c.SpinStagger)
	check(c.OutcomeCacheSize > 0, "OUTCOME_CACHE_SIZE must be positive")
	check(c.OutcomeCacheTTL > 0, "OUTCOME_CACHE_TTL must be positive")
	check(c.PlayerID != "", "PLAYER_ID must be set")
	check(!c.StartingBalance.IsNegative(), "STARTING_BALANCE must not be negative")
	check(c.WorkerCount > 0, "WORKER_COUNT must be positive")
	check(c.WorkerQueueSize > 0, "WORKER_QUEUE_SIZE must be positive")
	check(c.PlaysvcLatency >= 0, "PLAYSVC_LATENCY must not be negative")
	check(c.PlaysvcFailureRate >= 0 && c.PlaysvcFailureRate <= 1, "PLAYSVC_FAILURE_RATE must be between 0 and 1, got %v", c.PlaysvcFailureRate)
	check(validFailureModes[c.PlaysvcFailureMode], "PLAYSVC_FAILURE_MODE must be status, malformed or hang, got %q", c.PlaysvcFailureMode)

	return errors.Join(errs...)
}

// UseDatabase reports whether Postgres-backed stores are configured
func (c *Config) UseDatabase() bool {
	return c.DBHost != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

// getEnvAsList splits a comma-separated variable, dropping blanks
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
