package dsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvelopeFollower_AttackRelease_RisesAndFalls(t *testing.T) {
	f := NewEnvelopeFollower(AttackRelease, 48000, 1, 300)
	var v float32
	for i := 0; i < 1000; i++ {
		v = f.Process(1.0)
	}
	assert.InDelta(t, 1.0, float64(v), 0.01, "fast attack should reach target quickly")

	for i := 0; i < 1000; i++ {
		v = f.Process(0.0)
	}
	assert.Less(t, float64(v), 1.0, "slow release should still be decaying, not instantly zero")
}

func TestEnvelopeFollower_InstantAttack_JumpsImmediately(t *testing.T) {
	f := NewEnvelopeFollower(InstantAttack, 48000, 0, 50)
	v := f.Process(0.8)
	assert.Equal(t, float32(0.8), v, "instant attack must jump to a higher peak on the very first sample")

	v = f.Process(0.3)
	assert.Greater(t, v, float32(0.3), "falling input must still be smoothed by release")
}

func TestEnvelopeFollower_Reset_ZeroesValue(t *testing.T) {
	f := NewEnvelopeFollower(AttackRelease, 48000, 1, 300)
	f.Process(1.0)
	f.Reset()
	assert.Equal(t, float32(0), f.Value())
}
