// Package config resolves settings for the binaries: defaults, then an
// optional YAML file, then environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no -config flag is given. It may be absent.
const DefaultFile = "harness.yaml"

type Config struct {
	Server   Server   `yaml:"server"`
	Reqres   Reqres   `yaml:"reqres"`
	Contract Contract `yaml:"contract"`
}

type Server struct {
	ListenAddr  string `yaml:"listenAddr"`
	LogLevel    string `yaml:"logLevel"`
	OTLPEnabled bool   `yaml:"otlpEnabled"`
}

type Reqres struct {
	BaseURL string        `yaml:"baseUrl"`
	APIKey  string        `yaml:"apiKey"`
	Timeout time.Duration `yaml:"timeout"`
}

type Contract struct {
	Concurrency int           `yaml:"concurrency"`
	CaseTimeout time.Duration `yaml:"caseTimeout"`
	// Fixtures is a YAML file overriding the built-in expected values.
	Fixtures string `yaml:"fixtures"`
}

func Default() Config {
	return Config{
		Server: Server{
			ListenAddr: ":8080",
			LogLevel:   "info",
		},
		Reqres: Reqres{
			BaseURL: "https://reqres.in/api",
			Timeout: 10 * time.Second,
		},
		Contract: Contract{
			Concurrency: 4,
			CaseTimeout: 15 * time.Second,
		},
	}
}

// LoadDotEnv loads environment variables from .env when present.
// Existing process environment variables are not overridden.
func LoadDotEnv() error {
	err := godotenv.Load()
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load .env: %w", err)
}

// Load builds a Config from path and the environment. An empty path means
// DefaultFile, which is skipped if it does not exist; any other missing
// path is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	required := path != ""
	if !required {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !required:
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	var errs []error
	parse := func(key string, set func(string) error) {
		if v, ok := lookup(key); ok && v != "" {
			if err := set(v); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
			}
		}
	}
	duration := func(dst *time.Duration) func(string) error {
		return func(v string) (err error) {
			*dst, err = time.ParseDuration(v)
			return err
		}
	}

	str("HARNESS_LISTEN_ADDR", &cfg.Server.ListenAddr)
	str("HARNESS_LOG_LEVEL", &cfg.Server.LogLevel)
	parse("HARNESS_OTLP_ENABLED", func(v string) (err error) {
		cfg.Server.OTLPEnabled, err = strconv.ParseBool(v)
		return err
	})

	str("REQRES_BASE_URL", &cfg.Reqres.BaseURL)
	str("REQRES_API_KEY", &cfg.Reqres.APIKey)
	parse("REQRES_TIMEOUT", duration(&cfg.Reqres.Timeout))

	parse("CONTRACT_CONCURRENCY", func(v string) (err error) {
		cfg.Contract.Concurrency, err = strconv.Atoi(v)
		return err
	})
	parse("CONTRACT_CASE_TIMEOUT", duration(&cfg.Contract.CaseTimeout))
	str("CONTRACT_FIXTURES", &cfg.Contract.Fixtures)

	return errors.Join(errs...)
}

// Validate rejects values the binaries cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Server.ListenAddr == "" {
		errs = append(errs, errors.New("server.listenAddr is empty"))
	}
	if c.Reqres.BaseURL == "" {
		errs = append(errs, errors.New("reqres.baseUrl is empty"))
	}
	if c.Reqres.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("reqres.timeout must be positive, got %s", c.Reqres.Timeout))
	}
	if c.Contract.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("contract.concurrency must be at least 1, got %d", c.Contract.Concurrency))
	}
	if c.Contract.CaseTimeout <= 0 {
		errs = append(errs, fmt.Errorf("contract.caseTimeout must be positive, got %s", c.Contract.CaseTimeout))
	}
	return errors.Join(errs...)
}
