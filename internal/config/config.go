// Package config resolves settings from defaults, an optional .env file and
// RUANTOOLS_* environment variables. Command-line flags are layered on top
// by the cmd package.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "ruantools"

type Config struct {
	Threads          int           `envconfig:"THREADS" default:"4" validate:"min=1,max=64"`
	Workers          int           `envconfig:"WORKERS" default:"1" validate:"min=1,max=32"`
	Timeout          time.Duration `envconfig:"TIMEOUT" default:"3m" validate:"gt=0"`
	KeepAliveTimeout time.Duration `envconfig:"KEEPALIVE_TIMEOUT" default:"90s" validate:"gt=0"`
	UserAgent        string        `envconfig:"USER_AGENT"`
	Proxy            string        `envconfig:"PROXY" validate:"omitempty,url"`
	ProxyUsername    string        `envconfig:"PROXY_USERNAME"`
	ProxyPassword    string        `envconfig:"PROXY_PASSWORD"`
	HistoryPath      string        `envconfig:"HISTORY_PATH"`
	AWSProfile       string        `envconfig:"AWS_PROFILE"`
	Iterations       int           `envconfig:"ITERATIONS" default:"100" validate:"min=1"`
	Debug            bool          `envconfig:"DEBUG" default:"false"`
}

var validate = validator.New()

// Load reads envFile (".env" when empty; a missing default file is fine)
// and then the environment. Variables already set in the environment win
// over the file.
func Load(envFile string) (Config, error) {
	var cfg Config
	if envFile == "" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("reading .env: %w", err)
		}
	} else if err := godotenv.Load(envFile); err != nil {
		return cfg, fmt.Errorf("reading %s: %w", envFile, err)
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("config error: %w", err)
	}
	if cfg.HistoryPath == "" {
		cfg.HistoryPath = DefaultHistoryPath()
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func DefaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".ruantools", "history")
	}
	return filepath.Join(home, ".ruantools", "history")
}
