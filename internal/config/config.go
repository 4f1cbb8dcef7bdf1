package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the quote refresher.
type Config struct {
	// WatchlistPath is the file listing the query codes to refresh,
	// one per line (first comma-separated field used if present).
	WatchlistPath string `mapstructure:"watchlist_path"`

	// OutputPath is the tilde-delimited quote file consumed by the
	// spreadsheet data connection. It is overwritten on every run.
	OutputPath string `mapstructure:"output_path"`

	// QuoteBaseURL is the Tencent quote API endpoint (configurable for testing).
	QuoteBaseURL string `mapstructure:"quote_base_url"`

	// MaxCodesPerQuery caps how many query codes go into a single API call.
	// The Tencent endpoint starts returning truncated bodies above ~30.
	MaxCodesPerQuery int `mapstructure:"max_codes_per_query"`

	// CallInterval is the courtesy delay observed before every API attempt.
	CallInterval time.Duration `mapstructure:"call_interval"`

	// RetryCount is how many attempts are made per batch on retryable failures.
	RetryCount int `mapstructure:"retry_count"`

	// HTTPTimeout bounds each individual API request.
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
}

// Load reads configuration from environment variables and optional config file.
// Environment variables take precedence over config file values.
//
// Expected environment variables (all optional, defaults in code):
//   - STOCKS_WATCHLIST_PATH
//   - STOCKS_OUTPUT_PATH
//   - STOCKS_QUOTE_BASE_URL
//   - STOCKS_MAX_CODES_PER_QUERY
//   - STOCKS_CALL_INTERVAL
//   - STOCKS_RETRY_COUNT
//   - STOCKS_HTTP_TIMEOUT
func Load() (*Config, error) {
	v := viper.New()

	// Set up environment variable support
	v.SetEnvPrefix("STOCKS")
	v.AutomaticEnv()

	// Defaults match the original spreadsheet-refresh deployment.
	v.SetDefault("watchlist_path", "watching_stocks.dat")
	v.SetDefault("output_path", "quotes.dat")
	v.SetDefault("quote_base_url", "http://qt.gtimg.cn")
	v.SetDefault("max_codes_per_query", 20)
	v.SetDefault("call_interval", 500*time.Millisecond)
	v.SetDefault("retry_count", 3)
	v.SetDefault("http_timeout", 10*time.Second)

	// Optionally read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.stocks")

	// Read config file (ignore if not found)
	_ = v.ReadInConfig()

	// Bind environment variables
	v.BindEnv("watchlist_path", "STOCKS_WATCHLIST_PATH")
	v.BindEnv("output_path", "STOCKS_OUTPUT_PATH")
	v.BindEnv("quote_base_url", "STOCKS_QUOTE_BASE_URL")
	v.BindEnv("max_codes_per_query", "STOCKS_MAX_CODES_PER_QUERY")
	v.BindEnv("call_interval", "STOCKS_CALL_INTERVAL")
	v.BindEnv("retry_count", "STOCKS_RETRY_COUNT")
	v.BindEnv("http_timeout", "STOCKS_HTTP_TIMEOUT")

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate values a typo'd environment variable could break.
	if config.WatchlistPath == "" {
		return nil, fmt.Errorf("watchlist_path must not be empty")
	}
	if config.OutputPath == "" {
		return nil, fmt.Errorf("output_path must not be empty")
	}
	if config.MaxCodesPerQuery <= 0 {
		return nil, fmt.Errorf("max_codes_per_query must be positive, got %d", config.MaxCodesPerQuery)
	}
	if config.RetryCount <= 0 {
		return nil, fmt.Errorf("retry_count must be positive, got %d", config.RetryCount)
	}
	if config.CallInterval < 0 {
		return nil, fmt.Errorf("call_interval must not be negative, got %v", config.CallInterval)
	}

	return config, nil
}
