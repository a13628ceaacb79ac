package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	Scraper     ScraperConfig
	Pricing     PricingConfig
	Sources     map[string]SourceConfig
	Preferences PreferencesConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// ScraperConfig holds outbound fetch settings shared by every source
type ScraperConfig struct {
	Timeout          time.Duration `mapstructure:"timeout"`
	UserAgent        string        `mapstructure:"user_agent"`
	AcceptLanguage   string        `mapstructure:"accept_language"`
	Referer          string        `mapstructure:"referer"`
	RequestsPerSec   float64       `mapstructure:"requests_per_second"`
	Burst            int           `mapstructure:"burst"`
	MaxBodyBytes     int64         `mapstructure:"max_body_bytes"`
	SweepConcurrency int           `mapstructure:"sweep_concurrency"`
}

// PricingConfig holds normalization policy
type PricingConfig struct {
	DefaultSource  string   `mapstructure:"default_source"`
	VATRate        float64  `mapstructure:"vat_rate"`
	VATThreshold   float64  `mapstructure:"vat_threshold"`
	PreVATSources  []string `mapstructure:"pre_vat_sources"`
	QuantityWindow int      `mapstructure:"quantity_window"`
}

// SourceConfig holds per-retailer settings
type SourceConfig struct {
	BaseURL string            `mapstructure:"base_url"`
	Enabled bool              `mapstructure:"enabled"`
	URLs    map[string]string `mapstructure:"urls"` // product key -> product page
}

// PreferencesConfig holds settings for the UI preference store
type PreferencesConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	DefaultLanguage string        `mapstructure:"default_language"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/solarprices/")

	v.SetEnvPrefix("SOLARPRICES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults are enough
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads a .env file from the working directory when present
func loadEnvFile() error {
	err := godotenv.Load()
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.shutdown_timeout", "10s")

	// Scraper defaults
	v.SetDefault("scraper.timeout", "8s")
	v.SetDefault("scraper.user_agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	v.SetDefault("scraper.accept_language", "es-ES,es;q=0.9,en;q=0.8")
	v.SetDefault("scraper.referer", "https://www.google.com/")
	v.SetDefault("scraper.requests_per_second", 2.0)
	v.SetDefault("scraper.burst", 4)
	v.SetDefault("scraper.max_body_bytes", 5<<20)
	v.SetDefault("scraper.sweep_concurrency", 2)

	// Pricing defaults
	v.SetDefault("pricing.default_source", "obramat")
	v.SetDefault("pricing.vat_rate", 1.21)
	v.SetDefault("pricing.vat_threshold", 5.0)
	v.SetDefault("pricing.pre_vat_sources", []string{"obramat"})
	v.SetDefault("pricing.quantity_window", 500)

	// Source defaults
	v.SetDefault("sources.obramat.base_url", "https://www.obramat.es")
	v.SetDefault("sources.obramat.enabled", true)
	v.SetDefault("sources.leroy.base_url", "https://www.leroymerlin.es")
	v.SetDefault("sources.leroy.enabled", true)
	v.SetDefault("sources.google.base_url", "https://www.google.com")
	v.SetDefault("sources.google.enabled", true)

	// Preference defaults
	v.SetDefault("preferences.ttl", "8760h") // 1 year
	v.SetDefault("preferences.default_language", "es")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Scraper.Timeout <= 0 {
		return fmt.Errorf("scraper timeout must be positive, got: %s", config.Scraper.Timeout)
	}

	if config.Scraper.RequestsPerSec <= 0 {
		return fmt.Errorf("scraper requests_per_second must be positive, got: %v", config.Scraper.RequestsPerSec)
	}

	if config.Scraper.MaxBodyBytes <= 0 {
		return fmt.Errorf("scraper max_body_bytes must be positive, got: %d", config.Scraper.MaxBodyBytes)
	}

	if config.Pricing.DefaultSource == "" {
		return fmt.Errorf("default source is required (set SOLARPRICES_PRICING_DEFAULT_SOURCE)")
	}

	if config.Pricing.VATRate < 1 {
		return fmt.Errorf("VAT rate must be at least 1, got: %v", config.Pricing.VATRate)
	}

	if config.Pricing.QuantityWindow <= 0 {
		return fmt.Errorf("quantity window must be positive, got: %d", config.Pricing.QuantityWindow)
	}

	return nil
}

