// Package config loads screpd settings from the environment and screp
// options from YAML or JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/WangQiHao-Charlie/screpd/pkg/screp"
)

// Config holds process-wide settings. Command line flags override it.
type Config struct {
	ScrepPath string        `env:"SCREP_PATH"    envDefault:"screp"`
	Timeout   time.Duration `env:"SCREP_TIMEOUT" envDefault:"0s"`

	Socket          string        `env:"SCREPD_SOCKET"            envDefault:"/var/run/screpd/screpd.grpc"`
	MaxConcurrency  int           `env:"SCREPD_MAX_CONCURRENCY"   envDefault:"4"`
	TerminationWait time.Duration `env:"SCREPD_TERMINATION_GRACE" envDefault:"5s"`
	AllowedBinaries []string      `env:"SCREPD_ALLOWED_BINARIES"  envSeparator:","`

	LogLevel  string `env:"SCREPD_LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"SCREPD_LOG_FORMAT" envDefault:"text"`
}

// Load reads Config from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// LoadOptionsFile reads a screp options document. The format follows the
// extension (.yaml/.yml or .json); otherwise content starting with '{' is
// JSON and anything else YAML.
func LoadOptionsFile(path string) (screp.Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return screp.Options{}, fmt.Errorf("read options: %w", err)
	}
	return ParseOptions(data, filepath.Ext(path))
}

// ParseOptions decodes and validates an options document. ext is a format
// hint; empty means detect from content.
func ParseOptions(data []byte, ext string) (screp.Options, error) {
	ext = strings.ToLower(ext)
	if ext == ".yml" {
		ext = ".yaml"
	}
	if ext == "" {
		if strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
			ext = ".json"
		} else {
			ext = ".yaml"
		}
	}
	raw := map[string]any{}
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return screp.Options{}, fmt.Errorf("parse options json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return screp.Options{}, fmt.Errorf("parse options yaml: %w", err)
		}
	}
	return screp.ParseOptions(raw)
}
