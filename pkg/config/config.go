package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// All environment variables are read through this package and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Upstream market data source
	Provider ProviderConfig

	// Pipeline
	Pipeline PipelineConfig

	// Signal thresholds
	Signals SignalConfig

	// Scheduling
	RefreshSchedule string

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// ProviderConfig holds upstream market data source configuration
type ProviderConfig struct {
	BaseURL     string  // bars + fundamentals JSON API
	RegistryURL string  // index constituent listing page (HTML)
	RatePerSec  float64 // request rate toward the upstream
	Burst       int
	HistoryFrom string // earliest bar date on a full backfill (YYYY-MM-DD)
}

// PipelineConfig holds pipeline execution configuration
type PipelineConfig struct {
	Workers         int
	SecurityTimeout time.Duration
	FibLookback     int // trailing bars for Fibonacci extremes
}

// SignalConfig holds classification and aggregation thresholds.
// Fundamental cutoffs default to the values the summary was calibrated
// with; all of them are tunable per deployment.
type SignalConfig struct {
	RSIOversold   float64
	RSIOverbought float64

	PERBuyBelow  float64
	PERSellAbove float64

	ROEBuyAbove  float64
	ROESellBelow float64

	EPSGrowthBuyAbove float64

	DebtEquityBuyBelow  float64
	DebtEquitySellAbove float64

	MajorityThreshold float64 // both buy fractions above -> BUY
	MinorityThreshold float64 // both buy fractions below -> SELL
}

// Load reads configuration from environment variables.
// Only this function calls os.Getenv().
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8087"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		// Upstream source
		Provider: ProviderConfig{
			BaseURL:     getEnv("PROVIDER_BASE_URL", "https://quote.marketlens.dev/api"),
			RegistryURL: getEnv("PROVIDER_REGISTRY_URL", "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies"),
			RatePerSec:  getEnvAsFloat("PROVIDER_RATE_PER_SEC", 5),
			Burst:       getEnvAsInt("PROVIDER_BURST", 10),
			HistoryFrom: getEnv("PROVIDER_HISTORY_FROM", "2007-01-01"),
		},

		// Pipeline
		Pipeline: PipelineConfig{
			Workers:         getEnvAsInt("PIPELINE_WORKERS", 8),
			SecurityTimeout: getEnvAsDuration("PIPELINE_SECURITY_TIMEOUT", "2m"),
			FibLookback:     getEnvAsInt("PIPELINE_FIB_LOOKBACK", 252),
		},

		// Signal thresholds
		Signals: SignalConfig{
			RSIOversold:         getEnvAsFloat("SIGNAL_RSI_OVERSOLD", 30),
			RSIOverbought:       getEnvAsFloat("SIGNAL_RSI_OVERBOUGHT", 70),
			PERBuyBelow:         getEnvAsFloat("SIGNAL_PER_BUY_BELOW", 20),
			PERSellAbove:        getEnvAsFloat("SIGNAL_PER_SELL_ABOVE", 30),
			ROEBuyAbove:         getEnvAsFloat("SIGNAL_ROE_BUY_ABOVE", 0.15),
			ROESellBelow:        getEnvAsFloat("SIGNAL_ROE_SELL_BELOW", 0.05),
			EPSGrowthBuyAbove:   getEnvAsFloat("SIGNAL_EPS_GROWTH_BUY_ABOVE", 0.10),
			DebtEquityBuyBelow:  getEnvAsFloat("SIGNAL_DEBT_EQUITY_BUY_BELOW", 100),
			DebtEquitySellAbove: getEnvAsFloat("SIGNAL_DEBT_EQUITY_SELL_ABOVE", 200),
			MajorityThreshold:   getEnvAsFloat("SIGNAL_MAJORITY_THRESHOLD", 0.5),
			MinorityThreshold:   getEnvAsFloat("SIGNAL_MINORITY_THRESHOLD", 0.25),
		},

		// Scheduling (six-field cron with seconds; weekday evenings after US close)
		RefreshSchedule: getEnv("REFRESH_SCHEDULE", "0 30 22 * * 1-5"),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	// Database URL is required
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Pipeline.Workers < 1 {
		return fmt.Errorf("PIPELINE_WORKERS must be at least 1")
	}

	if c.Pipeline.FibLookback < 2 {
		return fmt.Errorf("PIPELINE_FIB_LOOKBACK must be at least 2")
	}

	if c.Signals.MinorityThreshold > c.Signals.MajorityThreshold {
		return fmt.Errorf("SIGNAL_MINORITY_THRESHOLD must not exceed SIGNAL_MAJORITY_THRESHOLD")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
