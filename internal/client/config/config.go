// Package config holds settings of the fitplan CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/dmitrijs2005/fitplan/internal/filex"
	"github.com/dmitrijs2005/fitplan/internal/timex"
)

// Config holds runtime settings for the CLI.
//
// TokenFile and CacheFile default to files under the user's config
// directory.
type Config struct {
	ServerURL string        `env:"FITPLAN_SERVER"`
	TokenFile string        `env:"FITPLAN_TOKEN_FILE"`
	CacheFile string        `env:"FITPLAN_CACHE_FILE"`
	Timeout   time.Duration `env:"FITPLAN_TIMEOUT"`
}

// JSONConfig is a DTO used exclusively for JSON unmarshalling.
type JSONConfig struct {
	ServerURL *string         `json:"server_url"`
	TokenFile *string         `json:"token_file"`
	CacheFile *string         `json:"cache_file"`
	Timeout   *timex.Duration `json:"timeout"`
}

var userConfigDir = os.UserConfigDir

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080/api"
	c.Timeout = 2 * time.Minute
}

// Load applies defaults, then the JSON file at path (if any), then the
// environment. File locations left empty are resolved last.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path != "" {
		if err := cfg.applyJSON(path); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyJSON(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.ServerURL != nil {
		c.ServerURL = *jc.ServerURL
	}
	if jc.TokenFile != nil {
		c.TokenFile = *jc.TokenFile
	}
	if jc.CacheFile != nil {
		c.CacheFile = *jc.CacheFile
	}
	if jc.Timeout != nil {
		c.Timeout = jc.Timeout.Duration
	}
	return nil
}

// ResolvePaths fills empty file locations with defaults under the user's
// config directory, creating it when needed.
func (c *Config) ResolvePaths() error {
	if c.TokenFile != "" && c.CacheFile != "" {
		return nil
	}

	base, err := userConfigDir()
	if err != nil {
		return fmt.Errorf("locate config dir: %w", err)
	}
	dir, err := filex.EnsureSubDir(base, "fitplan")
	if err != nil {
		return err
	}

	if c.TokenFile == "" {
		c.TokenFile = filepath.Join(dir, "token.json")
	}
	if c.CacheFile == "" {
		c.CacheFile = filepath.Join(dir, "plans.db")
	}
	return nil
}
