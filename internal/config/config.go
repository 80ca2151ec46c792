// Package config resolves runtime settings from defaults, an optional YAML
// file, command line flags and environment variables, in that order of
// increasing priority.
package config

import (
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	RunAddr         string
	LogLevel        string
	LogFile         string
	DispatchTimeout time.Duration
	CatalogueFile   string
	ConfigFile      string

	// RateLimit is the number of webhook requests per second let through,
	// zero means unlimited. RateBurst is the bucket size.
	RateLimit float64
	RateBurst int
}

func Default() Config {
	return Config{
		RunAddr:         ":8080",
		LogLevel:        "debug",
		DispatchTimeout: 8 * time.Second,
		RateBurst:       10,
	}
}

type fileConfig struct {
	RunAddr         string   `yaml:"run_addr"`
	LogLevel        string   `yaml:"log_level"`
	LogFile         string   `yaml:"log_file"`
	DispatchTimeout string   `yaml:"dispatch_timeout"`
	CatalogueFile   string   `yaml:"catalogue_file"`
	RateLimit       *float64 `yaml:"rate_limit"`
	RateBurst       *int     `yaml:"rate_burst"`
}

// Load parses args (without the program name) and reads environment
// variables through getenv.
func Load(name string, args []string, getenv func(string) string) (*Config, error) {
	cfg := Default()

	var flags Config
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&flags.RunAddr, "a", cfg.RunAddr, "address and port")
	fs.StringVar(&flags.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&flags.LogFile, "o", "", "log file, stderr when empty")
	fs.DurationVar(&flags.DispatchTimeout, "t", cfg.DispatchTimeout, "dispatch timeout")
	fs.StringVar(&flags.CatalogueFile, "f", "", "horoscope catalogue YAML file")
	fs.StringVar(&flags.ConfigFile, "c", "", "config YAML file")
	fs.Float64Var(&flags.RateLimit, "r", cfg.RateLimit, "webhook requests per second, 0 for unlimited")
	fs.IntVar(&flags.RateBurst, "b", cfg.RateBurst, "webhook request burst")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.ConfigFile = flags.ConfigFile
	if envConfigFile := getenv("CONFIG_FILE"); envConfigFile != "" {
		cfg.ConfigFile = envConfigFile
	}
	if cfg.ConfigFile != "" {
		if err := cfg.loadFile(cfg.ConfigFile); err != nil {
			return nil, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "a":
			cfg.RunAddr = flags.RunAddr
		case "l":
			cfg.LogLevel = flags.LogLevel
		case "o":
			cfg.LogFile = flags.LogFile
		case "t":
			cfg.DispatchTimeout = flags.DispatchTimeout
		case "f":
			cfg.CatalogueFile = flags.CatalogueFile
		case "r":
			cfg.RateLimit = flags.RateLimit
		case "b":
			cfg.RateBurst = flags.RateBurst
		}
	})

	if envRunAddr := getenv("RUN_ADDR"); envRunAddr != "" {
		cfg.RunAddr = envRunAddr
	}

	if envLogLevel := getenv("LOG_LEVEL"); envLogLevel != "" {
		cfg.LogLevel = envLogLevel
	}

	if envLogFile := getenv("LOG_FILE"); envLogFile != "" {
		cfg.LogFile = envLogFile
	}

	if envTimeout := getenv("DISPATCH_TIMEOUT"); envTimeout != "" {
		d, err := time.ParseDuration(envTimeout)
		if err != nil {
			return nil, errors.Wrap(err, "DISPATCH_TIMEOUT")
		}
		cfg.DispatchTimeout = d
	}

	if envCatalogue := getenv("CATALOGUE_FILE"); envCatalogue != "" {
		cfg.CatalogueFile = envCatalogue
	}

	if envRateLimit := getenv("RATE_LIMIT"); envRateLimit != "" {
		r, err := strconv.ParseFloat(envRateLimit, 64)
		if err != nil {
			return nil, errors.Wrap(err, "RATE_LIMIT")
		}
		cfg.RateLimit = r
	}

	if envRateBurst := getenv("RATE_BURST"); envRateBurst != "" {
		b, err := strconv.Atoi(envRateBurst)
		if err != nil {
			return nil, errors.Wrap(err, "RATE_BURST")
		}
		cfg.RateBurst = b
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DispatchTimeout <= 0 {
		return errors.Errorf("dispatch timeout must be positive, got %s", c.DispatchTimeout)
	}
	if c.RateLimit < 0 {
		return errors.Errorf("rate limit must not be negative, got %v", c.RateLimit)
	}
	if c.RateLimit > 0 && c.RateBurst < 1 {
		return errors.Errorf("rate burst must be at least 1, got %d", c.RateBurst)
	}
	return nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read config")
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return errors.Wrapf(err, "parse config %s", path)
	}

	if fc.RunAddr != "" {
		c.RunAddr = fc.RunAddr
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.LogFile != "" {
		c.LogFile = fc.LogFile
	}
	if fc.DispatchTimeout != "" {
		d, err := time.ParseDuration(fc.DispatchTimeout)
		if err != nil {
			return errors.Wrapf(err, "parse config %s: dispatch_timeout", path)
		}
		c.DispatchTimeout = d
	}
	if fc.CatalogueFile != "" {
		c.CatalogueFile = fc.CatalogueFile
	}
	if fc.RateLimit != nil {
		c.RateLimit = *fc.RateLimit
	}
	if fc.RateBurst != nil {
		c.RateBurst = *fc.RateBurst
	}
	return nil
}
