// File: internal/config/config.go
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
	API    APIConfig    `mapstructure:"api" yaml:"api"`
	Forms  FormsConfig  `mapstructure:"forms" yaml:"forms"`
	Output OutputConfig `mapstructure:"output" yaml:"output"`
	BotLog BotLogConfig `mapstructure:"bot_log" yaml:"bot_log"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// APIConfig describes how to reach the bot's admin API.
type APIConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	// Password is injected into every request body. It is never written back to disk.
	Password           string            `mapstructure:"password" yaml:"-"`
	Timeout            time.Duration     `mapstructure:"timeout" yaml:"timeout"`
	RateLimit          float64           `mapstructure:"rate_limit" yaml:"rate_limit"`
	Headers            map[string]string `mapstructure:"headers" yaml:"headers"`
	IgnoreTLSErrors    bool              `mapstructure:"ignore_tls_errors" yaml:"ignore_tls_errors"`
	ForceHTTP2         bool              `mapstructure:"force_http2" yaml:"force_http2"`
	DisableCompression bool              `mapstructure:"disable_compression" yaml:"disable_compression"`
	ProxyURL           string            `mapstructure:"proxy_url" yaml:"proxy_url"`
}

// FormsConfig points at the default field sources used when a click does not
// supply its own.
type FormsConfig struct {
	ValuesFile string `mapstructure:"values_file" yaml:"values_file"`
	Snapshot   string `mapstructure:"snapshot" yaml:"snapshot"`
}

// OutputConfig controls how responses are rendered in the terminal.
type OutputConfig struct {
	StripHTML bool `mapstructure:"strip_html" yaml:"strip_html"`
}

// BotLogConfig locates the bot's own log file for `botctl logs`.
type BotLogConfig struct {
	Path      string `mapstructure:"path" yaml:"path"`
	Poll      bool   `mapstructure:"poll" yaml:"poll"`
	FromStart bool   `mapstructure:"from_start" yaml:"from_start"`
}

// NewDefaultConfig returns a configuration populated only with defaults.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults registers every default value on the given viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "botctl")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 7)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")

	v.SetDefault("api.base_url", "http://127.0.0.1:8000")
	v.SetDefault("api.password", "")
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("api.rate_limit", 0.0)
	v.SetDefault("api.ignore_tls_errors", false)
	v.SetDefault("api.force_http2", false)
	v.SetDefault("api.disable_compression", false)
	v.SetDefault("api.proxy_url", "")

	v.SetDefault("forms.values_file", "")
	v.SetDefault("forms.snapshot", "")

	v.SetDefault("output.strip_html", false)

	v.SetDefault("bot_log.path", "")
	v.SetDefault("bot_log.poll", false)
	v.SetDefault("bot_log.from_start", false)
}

// NewConfigFromViper unmarshals, normalizes and validates the configuration.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config

	// The password normally arrives through the environment or a .env file.
	_ = v.BindEnv("api.password", "BOTCTL_API_PASSWORD", "BOTCTL_PASSWORD")

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) expandPaths() error {
	for _, p := range []*string{&c.Forms.ValuesFile, &c.Forms.Snapshot, &c.BotLog.Path, &c.Logger.LogFile} {
		if *p == "" {
			continue
		}
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("failed to expand path %q: %w", *p, err)
		}
		*p = expanded
	}
	return nil
}

// Validate checks the configuration for values the client cannot work with.
func (c *Config) Validate() error {
	if err := c.API.Validate(); err != nil {
		return err
	}
	switch strings.ToLower(c.Logger.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logger.format must be 'console' or 'json', got %q", c.Logger.Format)
	}
	return nil
}

// Validate checks the API connection settings.
func (a *APIConfig) Validate() error {
	if strings.TrimSpace(a.BaseURL) == "" {
		return fmt.Errorf("api.base_url is a required configuration field")
	}
	u, err := url.Parse(a.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("api.base_url must include a host")
	}
	if a.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}
	if a.RateLimit < 0 {
		return fmt.Errorf("api.rate_limit must not be negative")
	}
	if a.ProxyURL != "" {
		if _, err := url.Parse(a.ProxyURL); err != nil {
			return fmt.Errorf("api.proxy_url is not a valid URL: %w", err)
		}
	}
	return nil
}
