package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Rollback failure policies for the inventory ledger.
const (
	RollbackPolicyQuarantine = "quarantine"
	RollbackPolicyLog        = "log"
)

type Config struct {
	Env                   string `mapstructure:"ENV"`
	LogLevel              string `mapstructure:"LOG_LEVEL"`
	LogFormat             string `mapstructure:"LOG_FORMAT"`
	Timezone              string `mapstructure:"TIMEZONE"`
	TriageSyncDefault     bool   `mapstructure:"TRIAGE_SYNC_DEFAULT"`
	RollbackFailurePolicy string `mapstructure:"ROLLBACK_FAILURE_POLICY"`
	MetricsNamespace      string `mapstructure:"METRICS_NAMESPACE"`
}

var keys = []string{
	"ENV",
	"LOG_LEVEL",
	"LOG_FORMAT",
	"TIMEZONE",
	"TRIAGE_SYNC_DEFAULT",
	"ROLLBACK_FAILURE_POLICY",
	"METRICS_NAMESPACE",
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("TIMEZONE", "UTC")
	v.SetDefault("TRIAGE_SYNC_DEFAULT", true)
	v.SetDefault("ROLLBACK_FAILURE_POLICY", RollbackPolicyQuarantine)
	v.SetDefault("METRICS_NAMESPACE", "relief")

	// Bind env vars explicitly so Unmarshal picks them up
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.RollbackFailurePolicy = strings.ToLower(cfg.RollbackFailurePolicy)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration Load produces with an empty environment.
func Default() *Config {
	return &Config{
		Env:                   "development",
		LogLevel:              "info",
		LogFormat:             "json",
		Timezone:              "UTC",
		TriageSyncDefault:     true,
		RollbackFailurePolicy: RollbackPolicyQuarantine,
		MetricsNamespace:      "relief",
	}
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Location resolves TIMEZONE. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// QuarantineOnRollbackFailure reports whether a drug whose stock could not be
// restored must be frozen until reconciled.
func (c *Config) QuarantineOnRollbackFailure() bool {
	return c.RollbackFailurePolicy == RollbackPolicyQuarantine
}

// Validate checks that every enumerated setting holds a known value.
func (c *Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil || c.LogLevel == "" {
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.LogLevel)
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("LOG_FORMAT must be \"json\" or \"console\", got %q", c.LogFormat)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE %q: %w", c.Timezone, err)
	}
	switch c.RollbackFailurePolicy {
	case RollbackPolicyQuarantine, RollbackPolicyLog:
	default:
		return fmt.Errorf("ROLLBACK_FAILURE_POLICY must be %q or %q, got %q",
			RollbackPolicyQuarantine, RollbackPolicyLog, c.RollbackFailurePolicy)
	}
	if c.MetricsNamespace == "" {
		return fmt.Errorf("METRICS_NAMESPACE is required")
	}
	return nil
}
