package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/printstudio/docengine/internal/types"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Storage    StorageConfig    `validate:"required"`
	Provider   ProviderConfig   `validate:"required"`
	Export     ExportConfig
	Editor     EditorConfig
	Events     EventsConfig
	Sentry     SentryConfig
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
	// PublicBaseURL is used to build absolute links such as the quick-print fallback
	PublicBaseURL string `mapstructure:"public_base_url"`
	// AllowedOrigins restricts cross-origin callers, empty allows any origin
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type ProviderConfig struct {
	Kind      types.ProviderKind `mapstructure:"kind" validate:"required,oneof=sample http"`
	BaseURL   string             `mapstructure:"base_url"`
	Token     string             `mapstructure:"token"`
	TimeoutMs int                `mapstructure:"timeout_ms"`
	RetryMax  int                `mapstructure:"retry_max"`
	// SampleItems is the number of generated line items of the sample provider
	SampleItems int `mapstructure:"sample_items"`
}

type ExportConfig struct {
	PDFServiceURL string `mapstructure:"pdf_service_url"`
	TimeoutMs     int    `mapstructure:"timeout_ms"`
	// RatePerSecond limits requests to the PDF service, 0 disables the limit
	RatePerSecond float64 `mapstructure:"rate_per_second"`
	Burst         int     `mapstructure:"burst"`
}

type EditorConfig struct {
	DebounceMs int `mapstructure:"debounce_ms"`
}

type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

func NewConfig() (*Configuration, error) {
	// .env is optional and only fills variables that are not already set
	_ = godotenv.Load()

	v := viper.New()

	// Modify config paths to ensure config.yaml is found
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/docengine")

	// Set up environment variables support
	v.SetEnvPrefix("DOCENGINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file if exists
	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", types.ModeLocal)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", types.LogLevelInfo)
	v.SetDefault("storage.backend", types.StorageBackendFile)
	v.SetDefault("storage.file.dir", "./data")
	v.SetDefault("storage.postgres.table", "docengine_kv")
	v.SetDefault("storage.redis.key_prefix", "docengine:")
	v.SetDefault("storage.flush_retry_max_elapsed", 30*time.Second)
	v.SetDefault("provider.kind", types.ProviderKindSample)
	v.SetDefault("provider.timeout_ms", DefaultProviderTimeoutMs)
	v.SetDefault("provider.retry_max", 0)
	v.SetDefault("provider.sample_items", 3)
	v.SetDefault("export.timeout_ms", 30000)
	v.SetDefault("export.rate_per_second", 2)
	v.SetDefault("export.burst", 4)
	v.SetDefault("editor.debounce_ms", DefaultDebounceMs)
	v.SetDefault("events.buffer", 64)
}

const (
	// DefaultProviderTimeoutMs bounds a single document fetch
	DefaultProviderTimeoutMs = 12000
	// DefaultDebounceMs is the quiet period before a batched profile edit is committed
	DefaultDebounceMs = 300
)

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running scripts, tests or other non-web applications
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Storage: StorageConfig{
			Backend:              types.StorageBackendMemory,
			FlushRetryMaxElapsed: 5 * time.Second,
		},
		Provider: ProviderConfig{
			Kind:        types.ProviderKindSample,
			TimeoutMs:   DefaultProviderTimeoutMs,
			SampleItems: 3,
		},
		Export: ExportConfig{TimeoutMs: 30000},
		Editor: EditorConfig{DebounceMs: DefaultDebounceMs},
		Events: EventsConfig{Buffer: 64},
	}
}

// ProviderTimeout returns the document fetch timeout, falling back to the default
func (c ProviderConfig) ProviderTimeout() time.Duration {
	if c.TimeoutMs <= 0 {
		return DefaultProviderTimeoutMs * time.Millisecond
	}
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// Timeout returns the export request timeout
func (c ExportConfig) Timeout() time.Duration {
	if c.TimeoutMs <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// Debounce returns the quiet period for batched edits
func (c EditorConfig) Debounce() time.Duration {
	if c.DebounceMs <= 0 {
		return DefaultDebounceMs * time.Millisecond
	}
	return time.Duration(c.DebounceMs) * time.Millisecond
}
