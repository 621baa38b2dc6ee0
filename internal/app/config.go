package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/specialistvlad/ardublockgo/internal/board"
	"gopkg.in/yaml.v3"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// Board overrides the board named by the workspace when set.
	Board     string        `yaml:"board"`
	LogLevel  string        `yaml:"log_level"`
	LogFormat string        `yaml:"log_format"`
	Publish   PublishConfig `yaml:"publish"`
}

// PublishConfig describes the socket.io endpoint sketches are pushed to.
type PublishConfig struct {
	URL                string        `yaml:"url"`
	Namespace          string        `yaml:"namespace"`
	Event              string        `yaml:"event"`
	AckEvent           string        `yaml:"ack_event"`
	Timeout            time.Duration `yaml:"timeout"`
	InsecureSkipVerify bool          `yaml:"insecure_skip_verify"`
}

// DefaultConfig returns the configuration used when neither a file nor flags
// say otherwise.
func DefaultConfig() Config {
	return Config{LogLevel: "info", LogFormat: "text"}
}

func NewConfig(cfg Config) (*Config, error) {
	if _, ok := logLevels[cfg.LogLevel]; !ok {
		return nil, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	if cfg.Board != "" {
		if _, err := board.Get(cfg.Board); err != nil {
			return nil, err
		}
	}
	if cfg.Publish.Timeout < 0 {
		return nil, errors.New("publish timeout cannot be negative")
	}
	return &cfg, nil
}

// LoadConfigFile overlays the YAML file at path onto base. Unknown keys are
// rejected.
func LoadConfigFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("failed to read config file: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	cfg := base
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return base, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}
