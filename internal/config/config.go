package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration loaded from config.yaml.
type Config struct {
	HTTPAddr string `yaml:"http_addr"    json:"-"`
	// MetaDBPath is where the metadata store (registered databases and
	// their analysis results) lives.
	MetaDBPath string `yaml:"meta_db_path" json:"-"`
	// ReanalyzeSchedule is an optional cron expression; when set, every
	// registered database is re-analyzed on that schedule.
	ReanalyzeSchedule string `yaml:"reanalyze_schedule" json:"reanalyze_schedule"`
	LogLevel          string `yaml:"log_level"          json:"-"`
}

// applyDefaults fills zero/empty fields with sensible defaults.
func (c *Config) applyDefaults() {
	if c.HTTPAddr == "" {
		c.HTTPAddr = ":8080"
	}
	if c.MetaDBPath == "" {
		c.MetaDBPath = "sqlpeek.db"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Load reads and parses the YAML config file at path.
// If the file does not exist, Load returns a default Config so the server
// can start without a config file.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		var cfg Config
		cfg.applyDefaults()
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open config %q: %w", path, err)
	}
	defer f.Close()

	var cfg Config
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}
