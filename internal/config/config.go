// Package config loads the runtime configuration: a JSON file with optional
// fields overlaid by environment variables, then validated. Fields omitted
// from both keep their defaults, so partial configs are safe.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Config holds the recognized runtime options.
type Config struct {
	// BufferTime is the analysis window coverage in seconds; it sets both
	// the window bound and the read-gating cadence.
	BufferTime float64 `json:"buffer_time" env:"SPIKESTREAM_BUFFER_TIME"`
	// ModelType selects the pretrained classifier to load.
	ModelType string `json:"model_type" env:"SPIKESTREAM_MODEL_TYPE"`
	// ModelDir is the directory holding model artifacts.
	ModelDir string `json:"model_dir" env:"SPIKESTREAM_MODEL_DIR"`
	// StreamType selects the input source variant.
	StreamType string `json:"stream_type" env:"SPIKESTREAM_STREAM_TYPE"`
	// StreamFile is the backing file for replay sources.
	StreamFile string `json:"stream_file" env:"SPIKESTREAM_STREAM_FILE"`
	// DevicePort is the serial device identifier for the live source.
	DevicePort string `json:"device_port" env:"SPIKESTREAM_DEVICE_PORT"`
	// Listen is the HTTP API listen address.
	Listen string `json:"listen" env:"SPIKESTREAM_LISTEN"`
	// DBPath is the sqlite session database path.
	DBPath string `json:"db_path" env:"SPIKESTREAM_DB_PATH"`
	// TickMs is the poll driver interval in milliseconds.
	TickMs int `json:"tick_ms" env:"SPIKESTREAM_TICK_MS"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() Config {
	return Config{
		BufferTime: 1.5,
		ModelType:  "RandomForestClassifier",
		ModelDir:   "models",
		StreamType: "None",
		DevicePort: "/dev/ttyUSB0",
		Listen:     ":8080",
		DBPath:     "sessions.db",
		TickMs:     16,
	}
}

// Load builds the configuration: defaults, then the JSON file at path (if
// path is non-empty), then environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		cleanPath := filepath.Clean(path)
		if ext := filepath.Ext(cleanPath); ext != ".json" {
			return cfg, fmt.Errorf("config file must have .json extension, got %q", ext)
		}
		raw, err := os.ReadFile(cleanPath)
		if err != nil {
			return cfg, fmt.Errorf("reading config file: %w", err)
		}
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file %s: %w", cleanPath, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the fields whose bad values would only surface later.
func (c Config) Validate() error {
	if c.BufferTime <= 0 {
		return fmt.Errorf("buffer_time must be positive, got %v", c.BufferTime)
	}
	if c.TickMs <= 0 {
		return fmt.Errorf("tick_ms must be positive, got %d", c.TickMs)
	}
	if c.Listen == "" {
		return fmt.Errorf("listen address is required")
	}
	return nil
}
