// Package config holds the formtoggle service and CLI configuration.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-formtoggle/pkg/toggle"
)

// Config represents formtoggle.yaml.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Rules   RulesConfig   `mapstructure:"rules"`
	Render  RenderConfig  `mapstructure:"render"`
	Browser BrowserConfig `mapstructure:"browser"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig configures the admin HTTP service.
type ServerConfig struct {
	// Addr is the listen address (default: 127.0.0.1:8080).
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// RulesConfig points at the rule sources.
type RulesConfig struct {
	// Dir holds YAML rule files. Empty means the built-in default rule.
	Dir string `mapstructure:"dir"`
	// Form selects the form inside Dir (default: usuario).
	Form string `mapstructure:"form"`
	// OpenAPI optionally derives rules from an OpenAPI document instead.
	OpenAPI   string `mapstructure:"openapi"`
	Operation string `mapstructure:"operation"`
}

// RenderConfig configures pre-rendering.
type RenderConfig struct {
	Presentation toggle.Presentation `mapstructure:"presentation"`
	HiddenClass  string              `mapstructure:"hidden_class"`
	// ScriptURL is where pages load the browser runtime from.
	ScriptURL string `mapstructure:"script_url"`
}

// BrowserConfig configures the live page adapter.
type BrowserConfig struct {
	ControlURL  string        `mapstructure:"control_url"`
	Headless    bool          `mapstructure:"headless"`
	LoadTimeout time.Duration `mapstructure:"load_timeout"`
}

// LogConfig configures zap.
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Defaults.
const (
	DefaultAddr            = "127.0.0.1:8080"
	DefaultForm            = "usuario"
	DefaultScriptURL       = "/static/formtoggle.js"
	DefaultReadTimeout     = 10 * time.Second
	DefaultShutdownTimeout = 5 * time.Second
	DefaultLoadTimeout     = 30 * time.Second
	DefaultLogLevel        = "info"
)

// NewConfig returns a configuration populated with defaults.
func NewConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            DefaultAddr,
			ReadTimeout:     DefaultReadTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Rules: RulesConfig{
			Form: DefaultForm,
		},
		Render: RenderConfig{
			Presentation: toggle.PresentationStyle,
			ScriptURL:    DefaultScriptURL,
		},
		Browser: BrowserConfig{
			Headless:    true,
			LoadTimeout: DefaultLoadTimeout,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.read_timeout must be positive, got %s", c.Server.ReadTimeout))
	}
	if _, err := toggle.ParsePresentation(string(c.Render.Presentation), c.Render.HiddenClass); err != nil {
		errs = append(errs, fmt.Errorf("render.presentation: %w", err))
	}
	if c.Rules.OpenAPI != "" && c.Rules.Operation == "" {
		errs = append(errs, errors.New("rules.operation is required with rules.openapi"))
	}
	if c.Browser.LoadTimeout <= 0 {
		errs = append(errs, fmt.Errorf("browser.load_timeout must be positive, got %s", c.Browser.LoadTimeout))
	}
	if _, err := c.Log.ZapLevel(); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	return errors.Join(errs...)
}

// ZapLevel parses Level.
func (c LogConfig) ZapLevel() (zapcore.Level, error) {
	if strings.TrimSpace(c.Level) == "" {
		return zapcore.InfoLevel, nil
	}
	return zapcore.ParseLevel(c.Level)
}
