// Package config loads dashboard settings from DAIRY_* environment
// variables and an optional YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

const (
	EnvPrefix = "DAIRY"

	// FileEnv names the variable that points at the YAML config file.
	FileEnv     = "DAIRY_CONFIG_FILE"
	DefaultFile = "dairy.yaml"
)

type Config struct {
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Data    DataConfig    `yaml:"data" envconfig:"DATA"`
	Storage StorageConfig `yaml:"storage" envconfig:"STORAGE"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8050" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"10s" validate:"gt=0"`
}

type DataConfig struct {
	CSVPath string `yaml:"csv_path" envconfig:"CSV_PATH" default:"eu_dairy_cluster.csv" validate:"required"`
}

type StorageConfig struct {
	Driver string `yaml:"driver" envconfig:"DRIVER" default:"memory" validate:"oneof=memory sqlite"`
	DSN    string `yaml:"dsn" envconfig:"DSN" default:"file:dairy?mode=memory&cache=shared" validate:"required_if=Driver sqlite"`
}

type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// Load builds the configuration from defaults, the YAML file (if present)
// and environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	path, explicit := os.LookupEnv(FileEnv)
	if !explicit {
		path = DefaultFile
	}
	if _, err := os.Stat(path); err == nil {
		fileCfg, err := loadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileCfg, cfg)
	} else if explicit {
		return nil, fmt.Errorf("config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// mergeConfigs takes each value from the file unless the matching variable
// is set in the environment or the file leaves it empty.
func mergeConfigs(file, env Config) Config {
	pick := func(key string, fileSet bool, apply func()) {
		if _, ok := os.LookupEnv(EnvPrefix + "_" + key); !ok && fileSet {
			apply()
		}
	}

	pick("SERVER_PORT", file.Server.Port != 0, func() { env.Server.Port = file.Server.Port })
	pick("SERVER_READ_TIMEOUT", file.Server.ReadTimeout != 0, func() { env.Server.ReadTimeout = file.Server.ReadTimeout })
	pick("SERVER_WRITE_TIMEOUT", file.Server.WriteTimeout != 0, func() { env.Server.WriteTimeout = file.Server.WriteTimeout })
	pick("SERVER_SHUTDOWN_TIMEOUT", file.Server.ShutdownTimeout != 0, func() { env.Server.ShutdownTimeout = file.Server.ShutdownTimeout })
	pick("DATA_CSV_PATH", file.Data.CSVPath != "", func() { env.Data.CSVPath = file.Data.CSVPath })
	pick("STORAGE_DRIVER", file.Storage.Driver != "", func() { env.Storage.Driver = file.Storage.Driver })
	pick("STORAGE_DSN", file.Storage.DSN != "", func() { env.Storage.DSN = file.Storage.DSN })
	pick("LOGGING_LEVEL", file.Logging.Level != "", func() { env.Logging.Level = file.Logging.Level })
	pick("LOGGING_DEVELOPMENT", file.Logging.Development, func() { env.Logging.Development = true })

	return env
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
