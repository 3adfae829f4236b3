// Package config loads the ambient, non-manifest configuration (server
// port, database path, log level, worker count) from a small YAML file.
// This is new surface the spec's Non-goals never named: §6.1/§6.2's
// system and algorithm documents stay JSON, untouched by this package.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/space4ai/placement-optimizer/internal/logx"
)

// Config is the ambient runtime configuration (§A.3).
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Log struct {
		Level int `yaml:"level"`
	} `yaml:"log"`

	Workers int `yaml:"workers"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	cfg := Config{Workers: 1}
	cfg.Server.Port = "8080"
	cfg.Database.Path = "space4ai-d.db"
	cfg.Log.Level = int(logx.Info)
	return cfg
}

// Load reads and parses a YAML configuration file, filling any field left
// zero with Default()'s value.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return cfg, nil
}

// LogLevel exposes the configured level as logx.Level.
func (c Config) LogLevel() logx.Level { return logx.Level(c.Log.Level) }
