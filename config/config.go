/*
Package config loads MonkMode settings.

PRECEDENCE (lowest to highest):
  1. Defaults (Default)
  2. YAML file passed with --config
  3. MONKMODE_* environment variables
  4. Command-line flags (applied by cmd/monkmode)

YAML:
  addr: ":5000"
  store: sqlite            # memory | sqlite | mongo
  db: monkmode.db
  mongo_uri: mongodb://localhost:27017
  mongo_database: monkmode
  api_url: http://localhost:5000
  allowed_origins: ["http://localhost:5173"]
  log_level: info
  log_file: ""             # TUI only; empty discards logs
  debounce: 1.2s
  rollover_interval: 1m

Unknown keys are rejected so typos fail loudly.
*/
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreMongo  = "mongo"
)

// Config holds every setting of every subcommand.
type Config struct {
	Addr             string        `yaml:"addr"`
	Store            string        `yaml:"store"`
	DBPath           string        `yaml:"db"`
	MongoURI         string        `yaml:"mongo_uri"`
	MongoDatabase    string        `yaml:"mongo_database"`
	APIURL           string        `yaml:"api_url"`
	AllowedOrigins   []string      `yaml:"allowed_origins"`
	LogLevel         string        `yaml:"log_level"`
	LogFile          string        `yaml:"log_file"`
	Debounce         time.Duration `yaml:"debounce"`
	RolloverInterval time.Duration `yaml:"rollover_interval"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:             ":5000",
		Store:            StoreSQLite,
		DBPath:           "monkmode.db",
		MongoURI:         "mongodb://localhost:27017",
		MongoDatabase:    "monkmode",
		APIURL:           "http://localhost:5000",
		LogLevel:         "info",
		Debounce:         1200 * time.Millisecond,
		RolloverInterval: time.Minute,
	}
}

// Load builds the config from defaults, the optional YAML file at path,
// and the process environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := cfg.decode(data); err != nil {
			return cfg, err
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) decode(data []byte) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	set := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set("MONKMODE_ADDR", &c.Addr)
	set("MONKMODE_STORE", &c.Store)
	set("MONKMODE_DB", &c.DBPath)
	set("MONKMODE_MONGO_URI", &c.MongoURI)
	set("MONKMODE_MONGO_DATABASE", &c.MongoDatabase)
	set("MONKMODE_API_URL", &c.APIURL)
	set("MONKMODE_LOG_LEVEL", &c.LogLevel)
	set("MONKMODE_LOG_FILE", &c.LogFile)

	if v := strings.TrimSpace(getenv("MONKMODE_ALLOWED_ORIGINS")); v != "" {
		c.AllowedOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.AllowedOrigins = append(c.AllowedOrigins, o)
			}
		}
	}
	if v := strings.TrimSpace(getenv("MONKMODE_DEBOUNCE")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("MONKMODE_DEBOUNCE: %w", err)
		}
		c.Debounce = d
	}
	return nil
}

// Validate checks the settings that would otherwise fail late.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreSQLite, StoreMongo:
	default:
		return fmt.Errorf("store must be one of memory, sqlite, mongo (got %q)", c.Store)
	}
	if c.Store == StoreSQLite && c.DBPath == "" {
		return fmt.Errorf("db path is required for the sqlite store")
	}
	if c.Store == StoreMongo && (c.MongoURI == "" || c.MongoDatabase == "") {
		return fmt.Errorf("mongo_uri and mongo_database are required for the mongo store")
	}
	if c.Debounce <= 0 {
		return fmt.Errorf("debounce must be positive (got %s)", c.Debounce)
	}
	if c.RolloverInterval <= 0 {
		return fmt.Errorf("rollover_interval must be positive (got %s)", c.RolloverInterval)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// NewLogger returns a structured logger writing to w at the configured level.
func (c Config) NewLogger(w io.Writer, prefix string) *log.Logger {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          prefix,
		ReportTimestamp: true,
	})
}
