package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loopback-audio/fxcore/internal/dsp"
)

func TestDefault_HasSaneValues(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 48000.0, cfg.SampleRate)
	assert.Equal(t, 4096, cfg.RingCapacityFrames)
	assert.Equal(t, 64, cfg.FadeSamples)
	assert.NotEmpty(t, cfg.DefaultChain)
}

func TestLoad_PartialDocumentFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sample_rate: 96000\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 96000.0, cfg.SampleRate)
	assert.Equal(t, 4096, cfg.RingCapacityFrames, "unset fields fall back to defaults")
}

func TestLoad_FullDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	doc := `
sample_rate: 44100
ring_capacity_frames: 8192
fade_samples: 128
default_chain: [eq, compressor, limiter]
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 44100.0, cfg.SampleRate)
	assert.Equal(t, 8192, cfg.RingCapacityFrames)
	assert.Equal(t, 128, cfg.FadeSamples)
	assert.Equal(t, []dsp.Kind{dsp.KindEQ, dsp.KindCompressor, dsp.KindLimiter}, cfg.DefaultChain)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_MissingFile_ReturnsError(t *testing.T) {
	_, err := Load("/nonexistent/path/engine.yaml")
	assert.Error(t, err)
}
