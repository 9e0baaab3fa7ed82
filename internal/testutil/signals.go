// Package testutil holds deterministic signal generators and tolerance
// helpers shared by the package tests.
package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-bypass/dsp/buffer"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ramp returns start, start+1, ... with the given length. Every sample is
// distinct, which makes delays and reorderings visible.
func Ramp(start float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = start + float64(i)
	}
	return out
}

// MultiFromFunc builds a channels × length block with fn(ch, i) per sample.
func MultiFromFunc(channels, length int, fn func(ch, i int) float64) *buffer.Multi {
	m := buffer.NewMulti(channels, length)
	for ch := range channels {
		data := m.Channel(ch)
		for i := range data {
			data[i] = fn(ch, i)
		}
	}
	return m
}

// CloneMulti returns a deep copy of m.
func CloneMulti(m *buffer.Multi) *buffer.Multi {
	out := buffer.NewMulti(m.NumChannels(), m.Len())
	out.CopyFrom(m)
	return out
}
