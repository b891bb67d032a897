package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/goliatone/go-formtoggle/pkg/toggle"
)

const (
	// DefaultConfigPath is read when no explicit path is given. It is optional.
	DefaultConfigPath = "formtoggle.yaml"

	// EnvPrefix is the prefix for environment variable overrides, e.g.
	// FORMTOGGLE_SERVER_ADDR.
	EnvPrefix = "FORMTOGGLE"
)

// Loader reads configuration from a file and the environment.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader with defaults registered, so every key can be
// overridden from the environment.
func NewLoader() *Loader {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := NewConfig()
	v.SetDefault("server.addr", defaults.Server.Addr)
	v.SetDefault("server.read_timeout", defaults.Server.ReadTimeout)
	v.SetDefault("server.shutdown_timeout", defaults.Server.ShutdownTimeout)
	v.SetDefault("rules.dir", defaults.Rules.Dir)
	v.SetDefault("rules.form", defaults.Rules.Form)
	v.SetDefault("rules.openapi", defaults.Rules.OpenAPI)
	v.SetDefault("rules.operation", defaults.Rules.Operation)
	v.SetDefault("render.presentation", string(defaults.Render.Presentation))
	v.SetDefault("render.hidden_class", defaults.Render.HiddenClass)
	v.SetDefault("render.script_url", defaults.Render.ScriptURL)
	v.SetDefault("browser.control_url", defaults.Browser.ControlURL)
	v.SetDefault("browser.headless", defaults.Browser.Headless)
	v.SetDefault("browser.load_timeout", defaults.Browser.LoadTimeout)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.development", defaults.Log.Development)

	return &Loader{v: v}
}

// Viper exposes the underlying instance so commands can bind flags.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// LoadConfig reads path, merges the environment and validates the result. An
// empty path reads DefaultConfigPath when it exists and falls back to
// defaults otherwise.
func (l *Loader) LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, &LoadError{
				Path:    path,
				Message: "config file not found",
				Err:     err,
			}
		}
	} else {
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, &LoadError{
				Path:    path,
				Message: "failed to read config file",
				Err:     err,
			}
		}
	}

	cfg := NewConfig()
	if err := l.v.Unmarshal(cfg, viperDecodeHook); err != nil {
		return nil, &LoadError{
			Path:    path,
			Message: "failed to parse config file",
			Err:     err,
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, &LoadError{
			Path:    path,
			Message: "configuration validation failed",
			Err:     err,
		}
	}
	return cfg, nil
}

func viperDecodeHook(dc *mapstructure.DecoderConfig) {
	dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		stringToPresentationHookFunc(),
	)
}

func stringToPresentationHookFunc() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to != reflect.TypeOf(toggle.Presentation("")) {
			return data, nil
		}
		return toggle.Presentation(strings.ToLower(strings.TrimSpace(data.(string)))), nil
	}
}

// LoadError represents an error that occurred while loading configuration.
type LoadError struct {
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load creates a Loader and loads path.
func Load(path string) (*Config, error) {
	return NewLoader().LoadConfig(path)
}
