// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/dooflabs/dooficoin/internal/coin"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port     string
	Env      string // "development", "staging", "production"
	LogLevel string

	// Database
	DatabaseURL string // PostgreSQL connection string (optional, uses in-memory if not set)

	// Tracing
	OTLPEndpoint string

	// Mining
	MiningTickInterval time.Duration   // time between reward ticks
	MiningBaseRate     decimal.Decimal // reward per tick
	MiningCatchUpAll   bool            // credit every elapsed interval on a late poll

	// Combat policy
	HealEveryKills    int             // restore health + bump power every N monster kills
	LevelEveryKills   int             // raise level every N monster kills
	PowerIncrement    int             // power gained at each heal threshold
	MaxHealth         int             // full health value
	SelfElimReward    decimal.Decimal // coins granted per self-elimination
	DeathPenaltyFrac  decimal.Decimal // fraction of balance lost on death
	KillTransferFrac  decimal.Decimal // fraction of victim balance taken on player kill

	// Fraud detection
	FraudWindow         time.Duration // action window duration
	FraudWindowSize     int           // max actions kept per player
	FraudAlertThreshold float64       // risk score at or above which an alert is raised

	// Rate limiting
	RateLimitRPS int
}

// Defaults. Economy constants were inconsistent across call sites of the
// legacy service; these named values are the single canonical policy.
const (
	DefaultPort               = "8080"
	DefaultEnv                = "development"
	DefaultLogLevel           = "info"
	DefaultMiningTickSeconds  = 600
	DefaultMiningBaseRate     = "0.00000000000000000000000000000000001"
	DefaultHealEveryKills     = 100
	DefaultLevelEveryKills    = 500
	DefaultPowerIncrement     = 5
	DefaultMaxHealth          = 100
	DefaultSelfElimReward     = "0.00000000000000000000000000000000001"
	DefaultDeathPenaltyFrac   = "0.1"
	DefaultKillTransferFrac   = "0.2"
	DefaultFraudWindowSeconds = 300
	DefaultFraudWindowSize    = 200
	DefaultFraudThreshold     = 1.0
	DefaultRateLimit          = 100
)

// Load reads configuration from environment variables
// It loads .env file if present (for local development)
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not present)
	_ = godotenv.Load()

	cfg := &Config{
		Port:                getEnv("PORT", DefaultPort),
		Env:                 getEnv("ENV", DefaultEnv),
		LogLevel:            getEnv("LOG_LEVEL", DefaultLogLevel),
		DatabaseURL:         os.Getenv("DATABASE_URL"), // Optional, uses in-memory if not set
		OTLPEndpoint:        os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		MiningTickInterval:  time.Duration(getEnvInt64("MINING_TICK_SECONDS", DefaultMiningTickSeconds)) * time.Second,
		MiningCatchUpAll:    getEnvBool("MINING_CATCH_UP_ALL", false),
		HealEveryKills:      int(getEnvInt64("HEAL_EVERY_KILLS", DefaultHealEveryKills)),
		LevelEveryKills:     int(getEnvInt64("LEVEL_EVERY_KILLS", DefaultLevelEveryKills)),
		PowerIncrement:      int(getEnvInt64("POWER_INCREMENT", DefaultPowerIncrement)),
		MaxHealth:           int(getEnvInt64("MAX_HEALTH", DefaultMaxHealth)),
		FraudWindow:         time.Duration(getEnvInt64("FRAUD_WINDOW_SECONDS", DefaultFraudWindowSeconds)) * time.Second,
		FraudWindowSize:     int(getEnvInt64("FRAUD_WINDOW_SIZE", DefaultFraudWindowSize)),
		FraudAlertThreshold: getEnvFloat("FRAUD_ALERT_THRESHOLD", DefaultFraudThreshold),
		RateLimitRPS:        int(getEnvInt64("RATE_LIMIT_RPS", DefaultRateLimit)),
	}

	var err error
	if cfg.MiningBaseRate, err = getEnvAmount("MINING_BASE_RATE", DefaultMiningBaseRate); err != nil {
		return nil, err
	}
	if cfg.SelfElimReward, err = getEnvAmount("SELF_ELIM_REWARD", DefaultSelfElimReward); err != nil {
		return nil, err
	}
	if cfg.DeathPenaltyFrac, err = getEnvAmount("DEATH_PENALTY_FRACTION", DefaultDeathPenaltyFrac); err != nil {
		return nil, err
	}
	if cfg.KillTransferFrac, err = getEnvAmount("KILL_TRANSFER_FRACTION", DefaultKillTransferFrac); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration is present and sane
func (c *Config) Validate() error {
	if c.MiningTickInterval <= 0 {
		return fmt.Errorf("MINING_TICK_SECONDS must be positive")
	}
	if c.HealEveryKills <= 0 || c.LevelEveryKills <= 0 {
		return fmt.Errorf("kill thresholds must be positive")
	}
	if c.LevelEveryKills%c.HealEveryKills != 0 {
		return fmt.Errorf("LEVEL_EVERY_KILLS must be a multiple of HEAL_EVERY_KILLS")
	}
	one := decimal.NewFromInt(1)
	if c.DeathPenaltyFrac.Cmp(one) > 0 || c.KillTransferFrac.Cmp(one) > 0 {
		return fmt.Errorf("penalty fractions must not exceed 1")
	}
	if c.FraudAlertThreshold <= 0 {
		return fmt.Errorf("FRAUD_ALERT_THRESHOLD must be positive")
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAmount(key, defaultValue string) (decimal.Decimal, error) {
	raw := getEnv(key, defaultValue)
	d, ok := coin.Parse(raw)
	if !ok {
		return decimal.Zero, fmt.Errorf("%s: invalid amount %q", key, raw)
	}
	return d, nil
}
