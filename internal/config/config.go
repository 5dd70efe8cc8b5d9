package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the cartctl configuration.
type Config struct {
	Storefront StorefrontConfig `yaml:"storefront"`
	Logging    LoggingConfig    `yaml:"logging"`
	Page       PageConfig       `yaml:"page"`
	Messages   MessagesConfig   `yaml:"messages"`
}

// StorefrontConfig locates the backend serving the cart endpoints.
type StorefrontConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"` // empty or "0" means no client timeout
}

type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// PageConfig describes how cart controls are marked up on the page.
type PageConfig struct {
	FormClass     string `yaml:"form_class"`
	ProductIDAttr string `yaml:"product_id_attr"`
	RowIDPrefix   string `yaml:"row_id_prefix"`
}

// MessagesConfig holds the user-facing alert and log texts. Empty fields fall
// back to the controller's built-in texts.
type MessagesConfig struct {
	Ready         string `yaml:"ready"`
	AddSuccess    string `yaml:"add_success"`
	AddError      string `yaml:"add_error"`
	AddFailure    string `yaml:"add_failure"`
	UpdateSuccess string `yaml:"update_success"`
	UpdateError   string `yaml:"update_error"`
	UpdateFailure string `yaml:"update_failure"`
	RemoveSuccess string `yaml:"remove_success"`
	RemoveError   string `yaml:"remove_error"`
	RemoveFailure string `yaml:"remove_failure"`
}

const (
	EnvBaseURL  = "CARTCTL_BASE_URL"
	EnvTimeout  = "CARTCTL_TIMEOUT"
	EnvLogLevel = "CARTCTL_LOG_LEVEL"
)

func DefaultConfig() *Config {
	return &Config{
		Storefront: StorefrontConfig{
			BaseURL: "http://localhost:5000",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Page: PageConfig{
			FormClass:     "add-to-cart-form",
			ProductIDAttr: "data-product-id",
			RowIDPrefix:   "cart-item-",
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path skips the
// file. A .env file in the working directory is loaded before the environment
// overrides are applied; existing environment variables win over it.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("godotenv.Load: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.Storefront.BaseURL = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		c.Storefront.Timeout = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
}

// GetTimeout returns the storefront client timeout. Zero means none.
func (c *Config) GetTimeout() (time.Duration, error) {
	if c.Storefront.Timeout == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(c.Storefront.Timeout)
	if err != nil {
		return 0, fmt.Errorf("storefront.timeout[%s] is not valid: %w", c.Storefront.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("storefront.timeout[%s] is negative", c.Storefront.Timeout)
	}

	return d, nil
}

var ValidLogLevels = []string{"debug", "info", "warn", "error"}

func (c *Config) Validate() error {
	if c.Storefront.BaseURL == "" {
		return fmt.Errorf("storefront.base_url is empty (set it in the config file or %s)", EnvBaseURL)
	}

	u, err := url.Parse(c.Storefront.BaseURL)
	if err != nil {
		return fmt.Errorf("storefront.base_url[%s] is not valid: %w", c.Storefront.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("storefront.base_url[%s] must be http or https", c.Storefront.BaseURL)
	}

	if _, err := c.GetTimeout(); err != nil {
		return err
	}

	validLevel := false
	for _, l := range ValidLogLevels {
		if c.Logging.Level == l {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid logging.level: %s (valid: %v)", c.Logging.Level, ValidLogLevels)
	}

	if c.Page.FormClass == "" || c.Page.ProductIDAttr == "" || c.Page.RowIDPrefix == "" {
		return fmt.Errorf("page selectors must not be empty")
	}

	return nil
}
