// Package config loads the service configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/deliverai/deliverai/internal/optimizer/gemini"
	"github.com/deliverai/deliverai/pkg/logger"
	"github.com/deliverai/deliverai/pkg/mailer"
)

// Environments recognised in APP_ENV.
const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

var (
	ErrInvalid = errors.New("config: invalid value")
	ErrParse   = errors.New("config: cannot parse environment")
)

// Config is the full service configuration.
type Config struct {
	Env       string `env:"APP_ENV" envDefault:"production"`
	Log       logger.Config
	Sentry    logger.SentryConfig
	Server    Server
	Gemini    gemini.Config
	Optimizer Optimizer
	Dispatch  Dispatch
	Mailer    mailer.Config
}

// Server holds HTTP listener settings.
type Server struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	RequestTimeout  time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"90s"`
}

// Optimizer holds prompt settings shared by every backend.
type Optimizer struct {
	PromptFile string `env:"OPTIMIZER_PROMPT_FILE"`
}

// Dispatch tunes the simulated send loop.
type Dispatch struct {
	Delay       time.Duration `env:"DISPATCH_DELAY" envDefault:"800ms"`
	FailureRate float64       `env:"DISPATCH_FAILURE_RATE" envDefault:"0.05"`
}

// Load reads the process environment.
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads the given variables instead of the process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return nil, errors.Join(ErrParse, err)
	}
	if cfg.IsDevelopment() && !isSet(opts, "LOG_FORMAT") {
		cfg.Log.Format = logger.FormatText
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values the tags cannot express.
func (c *Config) Validate() error {
	var errs []error
	if c.Dispatch.FailureRate < 0 || c.Dispatch.FailureRate > 1 {
		errs = append(errs, fmt.Errorf("DISPATCH_FAILURE_RATE must be within [0,1], got %v", c.Dispatch.FailureRate))
	}
	if c.Dispatch.Delay < 0 {
		errs = append(errs, fmt.Errorf("DISPATCH_DELAY must not be negative, got %s", c.Dispatch.Delay))
	}
	if c.Gemini.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("OPTIMIZE_TIMEOUT must be positive, got %s", c.Gemini.Timeout))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive, got %s", c.Server.ShutdownTimeout))
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalid}, errs...)...)
	}
	return nil
}

func isSet(opts env.Options, key string) bool {
	if opts.Environment != nil {
		_, ok := opts.Environment[key]
		return ok
	}
	_, ok := os.LookupEnv(key)
	return ok
}

// IsDevelopment reports whether APP_ENV is development.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}
