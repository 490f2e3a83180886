// SPDX-License-Identifier: EPL-2.0

// Package config loads export settings from an optional YAML file and
// SCOREPORT_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by every CLI command.
type Config struct {
	SampleRate   int           `yaml:"sample_rate"`
	Channels     int           `yaml:"channels"`
	Bitrate      int           `yaml:"bitrate"` // kbps
	TicksPerBeat int           `yaml:"ticks_per_beat"`
	OutputDir    string        `yaml:"output_dir"`
	RenderTail   time.Duration `yaml:"render_tail"`
}

var ErrInvalid = errors.New("invalid configuration")

// Default returns the built-in settings: CD-quality stereo, 128 kbps MP3 and
// 480 ticks per beat.
func Default() Config {
	return Config{
		SampleRate:   44100,
		Channels:     2,
		Bitrate:      128,
		TicksPerBeat: 480,
		OutputDir:    ".",
		RenderTail:   time.Second,
	}
}

// Load starts from Default, applies the YAML file at path when path is not
// empty, then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("%w: %s: %w", ErrInvalid, path, err)
		}
	}

	cfg.SampleRate = envInt("SCOREPORT_SAMPLE_RATE", cfg.SampleRate)
	cfg.Channels = envInt("SCOREPORT_CHANNELS", cfg.Channels)
	cfg.Bitrate = envInt("SCOREPORT_BITRATE", cfg.Bitrate)
	cfg.TicksPerBeat = envInt("SCOREPORT_TICKS_PER_BEAT", cfg.TicksPerBeat)
	cfg.OutputDir = envStr("SCOREPORT_OUTPUT_DIR", cfg.OutputDir)
	cfg.RenderTail = envDuration("SCOREPORT_RENDER_TAIL", cfg.RenderTail)

	return cfg, cfg.Validate()
}

// Validate reports settings no export could use.
func (c Config) Validate() error {
	switch {
	case c.SampleRate < 0:
		return fmt.Errorf("%w: sample_rate %d", ErrInvalid, c.SampleRate)
	case c.Channels < 0 || c.Channels > 2:
		return fmt.Errorf("%w: channels %d", ErrInvalid, c.Channels)
	case c.Bitrate <= 0:
		return fmt.Errorf("%w: bitrate %d", ErrInvalid, c.Bitrate)
	case c.TicksPerBeat < 1 || c.TicksPerBeat > 32767:
		return fmt.Errorf("%w: ticks_per_beat %d", ErrInvalid, c.TicksPerBeat)
	case c.RenderTail < 0:
		return fmt.Errorf("%w: render_tail %v", ErrInvalid, c.RenderTail)
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
