// Package config holds the recording configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gifcast/gifcast/internal/logger"
)

// Config represents a full recording configuration.
type Config struct {
	Output     OutputConfig `yaml:"output" json:"output"`
	Source     SourceConfig `yaml:"source" json:"source"`
	ServerPort int          `yaml:"server_port" json:"server_port"`
	LogLevel   string       `yaml:"log_level" json:"log_level"`
}

// OutputConfig describes the GIF target and the pacing mode.
type OutputConfig struct {
	Path string `yaml:"path" json:"path"`

	// Width/Height scale frames to a fixed size; zero keeps native size.
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`

	// FrameDelayMs is the target output frame period. Ignored when
	// VariableDelay is set.
	FrameDelayMs int `yaml:"frame_delay_ms" json:"frame_delay_ms"`

	// VariableDelay forwards every frame with its measured display time
	// instead of targeting a fixed period.
	VariableDelay bool `yaml:"variable_delay" json:"variable_delay"`

	// DrainTimeoutMs bounds how long termination waits for queued frames
	// to flush. Negative means no wait.
	DrainTimeoutMs int `yaml:"drain_timeout_ms" json:"drain_timeout_ms"`
}

// SourceConfig selects and parameterizes the frame producer.
type SourceConfig struct {
	// Kind is one of: x11, mjpeg, websocket
	Kind string `yaml:"kind" json:"kind"`

	// URL of the stream for mjpeg and websocket sources
	URL string `yaml:"url" json:"url"`

	// Screen region for the x11 source
	X      int `yaml:"x" json:"x"`
	Y      int `yaml:"y" json:"y"`
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`

	// IntervalMs is the x11 polling interval; zero grabs as fast as the
	// X server answers
	IntervalMs int `yaml:"interval_ms" json:"interval_ms"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Path:           "out.gif",
			FrameDelayMs:   100,
			DrainTimeoutMs: 10000,
		},
		Source: SourceConfig{
			Kind:   "x11",
			Width:  640,
			Height: 480,
		},
		ServerPort: 8090,
		LogLevel:   "info",
	}
}

// Load reads a YAML config file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.WithComponent("config").Info().
		Str("path", path).
		Msg("Configuration loaded")
	return cfg, nil
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Output.Path == "" {
		return fmt.Errorf("output path must not be empty")
	}
	if !c.Output.VariableDelay && c.Output.FrameDelayMs <= 0 {
		return fmt.Errorf("frame_delay_ms must be positive in fixed-rate mode (got %d)", c.Output.FrameDelayMs)
	}
	if (c.Output.Width > 0) != (c.Output.Height > 0) {
		return fmt.Errorf("output width and height must be set together")
	}

	switch c.Source.Kind {
	case "x11":
		if c.Source.Width <= 0 || c.Source.Height <= 0 {
			return fmt.Errorf("x11 source needs a positive capture region (got %dx%d)",
				c.Source.Width, c.Source.Height)
		}
	case "mjpeg", "websocket":
		if c.Source.URL == "" {
			return fmt.Errorf("%s source needs a url", c.Source.Kind)
		}
	default:
		return fmt.Errorf("unknown source kind %q", c.Source.Kind)
	}
	return nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
