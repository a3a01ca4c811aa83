// Package common provides shared utilities for Neo
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Neo
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Clients     ClientsConfig `toml:"clients"`
	Ledger      LedgerConfig  `toml:"ledger"`
	Trading     TradingConfig `toml:"trading"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds storage configuration.
type StorageConfig struct {
	Journal AreaConfig `toml:"journal"` // Reconciliation journal (BadgerHold)
}

// AreaConfig holds path configuration for a storage area.
type AreaConfig struct {
	Path string `toml:"path"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Backend BackendConfig `toml:"backend"`
	NSE     NSEConfig     `toml:"nse"`
	Binance BinanceConfig `toml:"binance"`
	XE      XEConfig      `toml:"xe"`
	Brave   BraveConfig   `toml:"brave"`
	Mpesa   MpesaConfig   `toml:"mpesa"`
}

// BackendConfig holds account-backend API configuration
type BackendConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
	// Service-account credentials used by the read-only balance tools.
	ServiceEmail    string `toml:"service_email"`
	ServicePassword string `toml:"service_password"`
}

// GetTimeout parses and returns the timeout duration
func (c *BackendConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// NSEConfig holds the equity chart-scrape configuration
type NSEConfig struct {
	ChartURL  string `toml:"chart_url"`
	PriceFile string `toml:"price_file"` // optional local CSV fallback
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *NSEConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// BinanceConfig holds the crypto price-feed configuration
type BinanceConfig struct {
	APIKey    string `toml:"api_key"`
	APISecret string `toml:"api_secret"`
}

// XEConfig holds the FX-rate source configuration
type XEConfig struct {
	BaseURL      string  `toml:"base_url"`
	FallbackRate float64 `toml:"fallback_rate"`
}

// BraveConfig holds the news-search configuration
type BraveConfig struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
}

// MpesaConfig holds the mobile-money (STK push) configuration
type MpesaConfig struct {
	BaseURL        string `toml:"base_url"`
	ConsumerKey    string `toml:"consumer_key"`
	ConsumerSecret string `toml:"consumer_secret"`
	ShortCode      int    `toml:"short_code"`
	PassKey        string `toml:"pass_key"`
	CallbackURL    string `toml:"callback_url"`
}

// LedgerConfig holds distributed-ledger configuration
type LedgerConfig struct {
	Network            string `toml:"network"` // testnet, previewnet, mainnet
	OperatorAccountID  string `toml:"operator_account_id"`
	OperatorPrivateKey string `toml:"operator_private_key"`
	TreasuryAccountID  string `toml:"treasury_account_id"`
	USDCTokenID        string `toml:"usdc_token_id"`
	TopicFee           int64  `toml:"topic_fee"`        // USDC units per topic message
	MaxTransferFeeHbar int64  `toml:"max_transfer_fee"` // HBAR cap on transfers
}

// TradingConfig holds trade-orchestration policy
type TradingConfig struct {
	// FeeOnNoop charges the flat usage fee even when an action executed
	// nothing. Off by default: only executed actions bill.
	FeeOnNoop bool `toml:"fee_on_noop"`
	// SymbolAliases maps compound display symbols to canonical price codes.
	SymbolAliases map[string]string `toml:"symbol_aliases"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 4545,
		},
		Storage: StorageConfig{
			Journal: AreaConfig{Path: "data/journal"},
		},
		Clients: ClientsConfig{
			Backend: BackendConfig{
				BaseURL:   "http://localhost:5004/api",
				RateLimit: 10,
				Timeout:   "30s",
			},
			NSE: NSEConfig{
				ChartURL:  "https://afx.kwayisi.org/chart/nse",
				RateLimit: 2,
				Timeout:   "10s",
			},
			XE: XEConfig{
				BaseURL:      "https://www.xe.com/api/protected/statistics/?from=USD&to=KES",
				FallbackRate: 129.65,
			},
			Brave: BraveConfig{
				BaseURL: "https://api.search.brave.com/res/v1/news/search",
			},
			Mpesa: MpesaConfig{
				BaseURL:   "https://sandbox.safaricom.co.ke",
				ShortCode: 174379,
			},
		},
		Ledger: LedgerConfig{
			Network:            "testnet",
			TopicFee:           1,
			MaxTransferFeeHbar: 10,
		},
		Trading: TradingConfig{
			FeeOnNoop: false,
			SymbolAliases: map[string]string{
				"I&M": "IMH",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("NEO_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("NEO_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("NEO_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("NEO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if v := os.Getenv("NEO_API_BASE_URL"); v != "" {
		config.Clients.Backend.BaseURL = v
	}
	if v := os.Getenv("NEO_BRAVE_API_KEY"); v != "" {
		config.Clients.Brave.APIKey = v
	}

	if v := os.Getenv("NEO_OPERATOR_ACCOUNT_ID"); v != "" {
		config.Ledger.OperatorAccountID = v
	}
	if v := os.Getenv("NEO_OPERATOR_PRIVATE_KEY"); v != "" {
		config.Ledger.OperatorPrivateKey = v
	}
	if v := os.Getenv("NEO_NETWORK"); v != "" {
		config.Ledger.Network = strings.ToLower(v)
	}
	if v := os.Getenv("NEO_USDC_TOKEN_ID"); v != "" {
		config.Ledger.USDCTokenID = v
	}

	if v := os.Getenv("NEO_FEE_ON_NOOP"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Trading.FeeOnNoop = b
		}
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// Validate checks that settings required for ledger operations are present.
func (c *Config) Validate() error {
	if c.Ledger.OperatorAccountID == "" || c.Ledger.OperatorPrivateKey == "" {
		return fmt.Errorf("ledger operator account and private key are required")
	}
	if c.Ledger.TreasuryAccountID == "" {
		c.Ledger.TreasuryAccountID = c.Ledger.OperatorAccountID
	}
	if c.Ledger.USDCTokenID == "" {
		return fmt.Errorf("settlement token id (ledger.usdc_token_id) is required")
	}
	return nil
}
