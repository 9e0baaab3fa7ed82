package buffer

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-bypass/dsp/core"
)

// Multi is a multichannel sample block stored contiguously, channel after
// channel. Channel views returned by [Multi.Channel] alias the store.
type Multi struct {
	data     []float64
	channels int
	length   int
}

// NewMulti returns a zero-filled block of channels × length samples.
// Negative dimensions are treated as zero.
func NewMulti(channels, length int) *Multi {
	channels, length = max(channels, 0), max(length, 0)
	return &Multi{
		data:     make([]float64, channels*length),
		channels: channels,
		length:   length,
	}
}

// FromChannels copies per-channel slices into a new block. All channels must
// have the same length.
func FromChannels(channels [][]float64) *Multi {
	length := 0
	if len(channels) > 0 {
		length = len(channels[0])
	}
	m := NewMulti(len(channels), length)
	for ch, src := range channels {
		if len(src) != length {
			panic(fmt.Sprintf("buffer: channel %d has %d samples, want %d", ch, len(src), length))
		}
		copy(m.Channel(ch), src)
	}
	return m
}

// NumChannels returns the channel count.
func (m *Multi) NumChannels() int { return m.channels }

// Len returns the number of samples per channel.
func (m *Multi) Len() int { return m.length }

// Cap returns the number of samples the backing array holds across all
// channels without reallocating.
func (m *Multi) Cap() int { return cap(m.data) }

// Channel returns the samples of channel ch. It panics if ch is out of range.
func (m *Multi) Channel(ch int) []float64 {
	if ch < 0 || ch >= m.channels {
		panic(fmt.Sprintf("buffer: channel %d out of range [0,%d)", ch, m.channels))
	}
	off := ch * m.length
	return m.data[off : off+m.length : off+m.length]
}

// Reserve grows the backing array so that channels × length samples fit
// without reallocating. The current size and contents are kept.
func (m *Multi) Reserve(channels, length int) {
	n := max(channels, 0) * max(length, 0)
	if n <= cap(m.data) {
		return
	}
	grown := make([]float64, len(m.data), n)
	copy(grown, m.data)
	m.data = grown
}

// SetSize changes the block dimensions, reusing the backing array when it is
// large enough. Samples beyond the previous total size are zeroed; the
// placement of retained samples is unspecified once the layout changes.
func (m *Multi) SetSize(channels, length int) {
	channels, length = max(channels, 0), max(length, 0)
	oldLen := len(m.data)
	m.data = core.EnsureLen(m.data, channels*length)
	if oldLen < len(m.data) {
		core.Zero(m.data[oldLen:])
	}
	m.channels = channels
	m.length = length
}

// Zero sets every sample to 0.
func (m *Multi) Zero() { core.Zero(m.data) }

// CopyFrom copies src into m. Dimensions must match.
func (m *Multi) CopyFrom(src *Multi) {
	m.mustMatch(src)
	copy(m.data, src.data)
}

// Add sums src into m sample by sample. Dimensions must match.
func (m *Multi) Add(src *Multi) {
	m.mustMatch(src)
	if len(m.data) == 0 {
		return
	}
	vecmath.AddBlockInPlace(m.data, src.data)
}

// ApplyGain multiplies samples in [start, end) of every channel by gain.
// Indices are clamped to valid bounds.
func (m *Multi) ApplyGain(start, end int, gain float64) {
	start, end = m.clampRange(start, end)
	if start >= end || gain == 1 {
		return
	}
	for ch := range m.channels {
		vecmath.ScaleBlockInPlace(m.Channel(ch)[start:end], gain)
	}
}

// ApplyGainRamp multiplies n samples starting at start by a linear ramp. The
// sample at start+i receives from + (to-from)*i/n, so the ramp reaches to at
// index start+n, the first sample past the ramp. Indices are clamped to
// valid bounds.
func (m *Multi) ApplyGainRamp(start, n int, from, to float64) {
	if n <= 0 {
		return
	}
	step := (to - from) / float64(n)
	lo, hi := m.clampRange(start, start+n)
	for ch := range m.channels {
		data := m.Channel(ch)
		for i := lo; i < hi; i++ {
			data[i] *= from + step*float64(i-start)
		}
	}
}

func (m *Multi) clampRange(start, end int) (int, int) {
	return max(start, 0), min(end, m.length)
}

func (m *Multi) mustMatch(other *Multi) {
	if m.channels != other.channels || m.length != other.length {
		panic(fmt.Sprintf("buffer: dimension mismatch %dx%d vs %dx%d",
			m.channels, m.length, other.channels, other.length))
	}
}
