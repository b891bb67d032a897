package browser

import (
	"time"

	"go.uber.org/zap"
)

// Config holds browser connection settings.
type Config struct {
	// ControlURL connects to an existing DevTools endpoint. When empty a local
	// Chrome is launched.
	ControlURL string
	Headless   bool
	// LoadTimeout bounds navigation and the wait for the load event.
	LoadTimeout time.Duration
}

// DefaultConfig returns headless defaults.
func DefaultConfig() Config {
	return Config{
		Headless:    true,
		LoadTimeout: 30 * time.Second,
	}
}

// Option configures Open.
type Option func(*options)

type options struct {
	cfg    Config
	logger *zap.Logger
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.cfg = cfg
	}
}

// WithControlURL connects to a running browser instead of launching one.
func WithControlURL(url string) Option {
	return func(o *options) {
		o.cfg.ControlURL = url
	}
}

// WithHeadless toggles headless mode for launched browsers.
func WithHeadless(headless bool) Option {
	return func(o *options) {
		o.cfg.Headless = headless
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
