// Package config provides configuration management for the snapshot analyst.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	apperrors "trade-analyst/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	Ledger        LedgerConfig       `mapstructure:"ledger"`
	Snapshot      SnapshotConfig     `mapstructure:"snapshot"`
	Investors     []Investor         `mapstructure:"investors"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Credentials   Credentials        `mapstructure:"-"` // Loaded separately
}

// LedgerConfig locates the trade ledger owned by the trading bot.
type LedgerConfig struct {
	Path string `mapstructure:"path"`
}

// SnapshotConfig holds the analytics constants and output layout.
type SnapshotConfig struct {
	// StakeAmount is the per-trade stake size currently in effect, used for
	// the daily investment figure.
	StakeAmount float64 `mapstructure:"stake_amount"`
	// UTCOffsetSeconds is added to every parsed ledger date; the ledger
	// stores local-exchange time while the analyst reports in UTC+offset.
	UTCOffsetSeconds int `mapstructure:"utc_offset_seconds"`
	// OutputTemplate is the per-investor log path; "{investor}" is replaced
	// with the investor id.
	OutputTemplate string `mapstructure:"output_template"`
	// QuoteCurrency is the single currency all figures are denominated in.
	QuoteCurrency string `mapstructure:"quote_currency"`
}

// Investor is one capital contributor. Exactly one investor carries the lead
// flag; the lead's profit ratio absorbs the residual after commissions.
type Investor struct {
	ID         string  `mapstructure:"id"`
	Investment float64 `mapstructure:"investment"`
	Commission float64 `mapstructure:"commission"`
	Email      string  `mapstructure:"email"`
	Lead       bool    `mapstructure:"lead"`
}

// NotificationConfig holds notification configuration.
type NotificationConfig struct {
	Enabled bool        `mapstructure:"enabled"`
	Email   EmailConfig `mapstructure:"email"`
}

// EmailConfig holds email notification configuration.
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// Credentials holds API credentials.
type Credentials struct {
	Binance BinanceCredentials `mapstructure:"binance"`
}

// BinanceCredentials holds the account API credentials used for the balance
// reading.
type BinanceCredentials struct {
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/trade-analyst"
	}
	return filepath.Join(home, ".config", "trade-analyst")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, target interface{}) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, create template
			return createTemplateConfig(configDir, name)
		}
		return err
	}

	return v.Unmarshal(target)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateCredentials(configDir)
		}
		return err
	}

	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BINANCE_API_KEY"); v != "" {
		cfg.Credentials.Binance.APIKey = v
	}
	if v := os.Getenv("BINANCE_API_SECRET"); v != "" {
		cfg.Credentials.Binance.APISecret = v
	}
	if v := os.Getenv("ANALYST_LEDGER_PATH"); v != "" {
		cfg.Ledger.Path = v
	}
	if v := os.Getenv("ANALYST_SMTP_PASSWORD"); v != "" {
		cfg.Notifications.Email.Password = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Snapshot.QuoteCurrency == "" {
		cfg.Snapshot.QuoteCurrency = "USDT"
	}
	if cfg.Snapshot.OutputTemplate == "" {
		cfg.Snapshot.OutputTemplate = filepath.Join(DefaultConfigDir(), "snapshots", "daily_{investor}.csv")
	}
}

// Validate validates the configuration. A misconfigured investor set is a
// fatal error: it must surface before any output is written.
func (c *Config) Validate() error {
	if c.Ledger.Path == "" {
		return fmt.Errorf("%w: ledger.path is required", apperrors.ErrConfigInvalid)
	}
	if c.Snapshot.StakeAmount <= 0 {
		return fmt.Errorf("%w: snapshot.stake_amount must be positive", apperrors.ErrConfigInvalid)
	}
	if c.Snapshot.UTCOffsetSeconds < -14*3600 || c.Snapshot.UTCOffsetSeconds > 14*3600 {
		return fmt.Errorf("%w: snapshot.utc_offset_seconds out of range", apperrors.ErrConfigInvalid)
	}

	if len(c.Investors) == 0 {
		return apperrors.ErrNoInvestors
	}

	leads := 0
	total := 0.0
	seen := make(map[string]bool, len(c.Investors))
	for _, inv := range c.Investors {
		if inv.ID == "" {
			return fmt.Errorf("%w: investor id is required", apperrors.ErrConfigInvalid)
		}
		if seen[inv.ID] {
			return fmt.Errorf("%w: duplicate investor id %q", apperrors.ErrConfigInvalid, inv.ID)
		}
		seen[inv.ID] = true
		if inv.Investment < 0 {
			return fmt.Errorf("%w: investor %q has negative investment", apperrors.ErrConfigInvalid, inv.ID)
		}
		if inv.Commission < 0 || inv.Commission > 1 {
			return fmt.Errorf("%w: investor %q commission must be in [0, 1]", apperrors.ErrConfigInvalid, inv.ID)
		}
		if inv.Lead {
			leads++
			if inv.Commission != 0 {
				return fmt.Errorf("%w: lead investor %q must have zero commission", apperrors.ErrConfigInvalid, inv.ID)
			}
		}
		total += inv.Investment
	}
	if leads == 0 {
		return apperrors.ErrNoLeadInvestor
	}
	if leads > 1 {
		return fmt.Errorf("%w: more than one lead investor", apperrors.ErrConfigInvalid)
	}
	if total <= 0 {
		return fmt.Errorf("%w: total investment must be positive", apperrors.ErrConfigInvalid)
	}

	return nil
}

// Lead returns the lead investor. Validate guarantees exactly one exists.
func (c *Config) Lead() Investor {
	for _, inv := range c.Investors {
		if inv.Lead {
			return inv
		}
	}
	return Investor{}
}
