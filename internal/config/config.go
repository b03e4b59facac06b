// ABOUTME: Configuration loading for the demo player
// ABOUTME: viper-based file/env loader for engine and sink settings
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides, e.g.
// OUTPOUR_AUDIO_BUFFER_MS.
const EnvPrefix = "OUTPOUR"

// Config is the player configuration surface. The engine itself only
// consumes the values; defaults and persistence live here.
type Config struct {
	Audio struct {
		// Backend selects the sink: oto, malgo, portaudio or null.
		Backend string `mapstructure:"backend"`

		// Device optionally names a specific output device.
		Device string `mapstructure:"device"`

		// BufferMs is the target total buffer duration.
		BufferMs int `mapstructure:"buffer_ms"`

		// MixerElement names the volume element; empty disables
		// hardware-style volume control and falls back to software gain.
		MixerElement string `mapstructure:"mixer_element"`

		Workarounds struct {
			// DelayChunkMs caps pump chunks to improve delay
			// measurement; 0 disables.
			DelayChunkMs int `mapstructure:"delay_chunk_ms"`

			DisableHWDrain bool `mapstructure:"disable_hw_drain"`
			DisableHWDrop  bool `mapstructure:"disable_hw_drop"`
		} `mapstructure:"workarounds"`
	} `mapstructure:"audio"`

	Metrics struct {
		// Addr serves Prometheus metrics when non-empty, e.g. ":9723".
		Addr string `mapstructure:"addr"`
	} `mapstructure:"metrics"`

	Debug bool `mapstructure:"debug"`
}

// setDefaults registers every key so environment overrides are picked
// up even without a config file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("audio.backend", "oto")
	v.SetDefault("audio.device", "")
	v.SetDefault("audio.buffer_ms", 500)
	v.SetDefault("audio.mixer_element", "Master")
	v.SetDefault("audio.workarounds.delay_chunk_ms", 0)
	v.SetDefault("audio.workarounds.disable_hw_drain", false)
	v.SetDefault("audio.workarounds.disable_hw_drop", false)
	v.SetDefault("metrics.addr", "")
	v.SetDefault("debug", false)
}

// Load reads the configuration file at path, or only defaults and
// environment variables when path is empty.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}
