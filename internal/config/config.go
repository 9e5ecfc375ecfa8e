// Package config loads the engine's own operating parameters from a small
// YAML document. It is ambient tooling for the engine itself — not a preset
// store for a user's saved effect settings, which remains an external
// collaborator per the engine's scope.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/loopback-audio/fxcore/internal/dsp"
)

// EngineConfig is the engine's operating configuration, loaded once at
// construction and never mutated on the audio thread.
type EngineConfig struct {
	SampleRate         float64    `yaml:"sample_rate"`
	RingCapacityFrames int        `yaml:"ring_capacity_frames"`
	FadeSamples        int        `yaml:"fade_samples"`
	DefaultChain       []dsp.Kind `yaml:"default_chain"`
	LogLevel           string     `yaml:"log_level"`
}

// Default returns the engine's built-in configuration, used when no config
// file is supplied.
func Default() EngineConfig {
	return EngineConfig{
		SampleRate:         48000,
		RingCapacityFrames: 4096,
		FadeSamples:        64,
		DefaultChain: []dsp.Kind{
			dsp.KindEQ,
			dsp.KindCompressor,
			dsp.KindLimiter,
			dsp.KindGain,
		},
		LogLevel: "info",
	}
}

// Load reads and parses an EngineConfig from path, filling any zero-valued
// fields from Default so a partial document is still usable.
func Load(path string) (EngineConfig, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return EngineConfig{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	loaded := EngineConfig{}
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return EngineConfig{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	mergeDefaults(&loaded, cfg)
	return loaded, nil
}

func mergeDefaults(cfg *EngineConfig, defaults EngineConfig) {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = defaults.SampleRate
	}
	if cfg.RingCapacityFrames == 0 {
		cfg.RingCapacityFrames = defaults.RingCapacityFrames
	}
	if cfg.FadeSamples == 0 {
		cfg.FadeSamples = defaults.FadeSamples
	}
	if len(cfg.DefaultChain) == 0 {
		cfg.DefaultChain = defaults.DefaultChain
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaults.LogLevel
	}
}
