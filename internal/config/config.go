// Package config loads the labtrackd service configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/memobit/labsql"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "LABTRACK_"

// Config is the service configuration.
type Config struct {
	Listen         string         `yaml:"listen"`
	Debug          bool           `yaml:"debug"`
	LogLevel       string         `yaml:"log_level"`
	SlowQuery      time.Duration  `yaml:"slow_query"`
	SchemaCacheTTL time.Duration  `yaml:"schema_cache_ttl"`
	Database       *labsql.Config `yaml:"database"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Listen:         ":8080",
		LogLevel:       "info",
		SlowQuery:      200 * time.Millisecond,
		SchemaCacheTTL: 5 * time.Minute,
		Database:       labsql.DefaultConfig(),
	}
}

// Load reads the configuration at path on top of the defaults and applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	c := Default()

	if path != "" {
		content, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("Unable to read the configuration file: %w", err)
		default:
			err = yaml.Unmarshal(content, c)
			if err != nil {
				return nil, fmt.Errorf("Unable to decode the configuration: %w", err)
			}
		}
	}

	if c.Database == nil {
		c.Database = labsql.DefaultConfig()
	}

	err := c.applyEnv(os.LookupEnv)
	if err != nil {
		return nil, err
	}

	err = c.Validate()
	if err != nil {
		return nil, err
	}

	return c, nil
}

// Validate checks the values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return errors.New("Listen address is required")
	}

	if c.Database.Database == "" {
		return errors.New("Database name is required")
	}

	_, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("Invalid log level %q: %w", c.LogLevel, err)
	}

	return nil
}

// Level returns the parsed log level, defaulting to info.
func (c *Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}

	return level
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"LISTEN":      &c.Listen,
		"LOG_LEVEL":   &c.LogLevel,
		"DB_HOST":     &c.Database.Host,
		"DB_NAME":     &c.Database.Database,
		"DB_USER":     &c.Database.Username,
		"DB_PASSWORD": &c.Database.Password,
	}

	for key, dest := range strs {
		v, ok := lookup(EnvPrefix + key)
		if ok {
			*dest = v
		}
	}

	v, ok := lookup(EnvPrefix + "DEBUG")
	if ok {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("Invalid %sDEBUG: %w", EnvPrefix, err)
		}

		c.Debug = debug
	}

	v, ok = lookup(EnvPrefix + "DB_PORT")
	if ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("Invalid %sDB_PORT: %w", EnvPrefix, err)
		}

		c.Database.Port = port
	}

	v, ok = lookup(EnvPrefix + "SCHEMA_CACHE_TTL")
	if ok {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("Invalid %sSCHEMA_CACHE_TTL: %w", EnvPrefix, err)
		}

		c.SchemaCacheTTL = ttl
	}

	return nil
}
