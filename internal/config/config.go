package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	env "github.com/caarlos0/env/v11"
)

type Config struct {
	// HTTP Server
	Port               int `env:"PORT" envDefault:"8081"`
	RateLimitPerMinute int `env:"RATE_LIMIT_PER_MINUTE" envDefault:"120"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// Drafts
	DraftTTL  time.Duration `env:"DRAFT_TTL" envDefault:"30m"`
	MaxDrafts int           `env:"MAX_DRAFTS" envDefault:"1000"`

	// Option catalog
	OptionsBackend  string        `env:"OPTIONS_BACKEND" envDefault:"memory"`
	OptionsCacheTTL time.Duration `env:"OPTIONS_CACHE_TTL" envDefault:"5m"`
	DataDir         string        `env:"DATA_DIR" envDefault:"data"`
	SQLiteDBPath    string        `env:"SQLITE_DB_PATH" envDefault:"./data/billpay.db"`

	// AMQP
	AMQPURL      string `env:"AMQP_URL"`
	AMQPExchange string `env:"AMQP_EXCHANGE" envDefault:"billpay"`
	AMQPQueue    string `env:"AMQP_QUEUE" envDefault:"draft_events"`

	// Google Sheets
	GoogleSpreadsheetID      string `env:"GOOGLE_SPREADSHEET_ID"`
	GoogleOptionsSheetName   string `env:"GOOGLE_OPTIONS_SHEET_NAME" envDefault:"Options"`
	GoogleServiceAccountJSON string `env:"GOOGLE_SERVICE_ACCOUNT_JSON"`
	GoogleServiceAccountFile string `env:"GOOGLE_SERVICE_ACCOUNT_FILE"`
}

var validBackends = []string{"memory", "sqlite", "sheets"}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

// LoadFrom reads the configuration from the given environment instead of the
// process one.
func LoadFrom(environ map[string]string) (*Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Environment: environ})
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if c.Port < 1 || c.Port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", c.Port))
	}

	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1", c.RateLimitPerMinute))
	}

	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be 'debug', 'info', 'warn' or 'error'", c.LogLevel))
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	if c.DraftTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid draft TTL %v: must be at least 1 minute", c.DraftTTL))
	} else if c.DraftTTL > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid draft TTL %v: must be at most 24 hours", c.DraftTTL))
	}

	if c.MaxDrafts < 1 {
		errors = append(errors, fmt.Sprintf("invalid max drafts %d: must be at least 1", c.MaxDrafts))
	}

	if c.OptionsCacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid options cache TTL %v: must be at least 1 second", c.OptionsCacheTTL))
	}

	if !slices.Contains(validBackends, c.OptionsBackend) {
		errors = append(errors, fmt.Sprintf("invalid options backend '%s': must be one of %v", c.OptionsBackend, validBackends))
	}

	if c.OptionsBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if c.OptionsBackend == "sheets" {
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets backend")
		}
		if c.GoogleOptionsSheetName == "" {
			errors = append(errors, "Google options sheet name is required when using sheets backend")
		}
		hasJSON := c.GoogleServiceAccountJSON != ""
		hasFile := c.GoogleServiceAccountFile != ""
		if !hasJSON && !hasFile {
			errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE must be provided for sheets backend")
		}
		if hasFile {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	// AMQP is optional; when set it must be usable.
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}
