// Package delay provides a fixed-length multichannel delay line used to
// latency-align a dry signal with a processed one.
package delay

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-bypass/dsp/buffer"
)

var (
	// ErrInvalidSize indicates a non-positive delay length.
	ErrInvalidSize = errors.New("delay: size must be > 0")
	// ErrInvalidChannels indicates a non-positive channel count.
	ErrInvalidChannels = errors.New("delay: channel count must be > 0")
)

// Multichannel is a circular delay of exactly Len() samples per channel.
// Every channel keeps its own cursor: the slot under the cursor holds the
// oldest sample, which is returned by Back and then overwritten by Push.
type Multichannel struct {
	memory  *buffer.Multi
	cursors []int
	length  int
}

// New returns a zero-filled delay line of numSamples per channel.
func New(numSamples, numChannels int) (*Multichannel, error) {
	if numSamples <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, numSamples)
	}
	if numChannels <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, numChannels)
	}
	return &Multichannel{
		memory:  buffer.NewMulti(numChannels, numSamples),
		cursors: make([]int, numChannels),
		length:  numSamples,
	}, nil
}

// Len returns the delay in samples.
func (d *Multichannel) Len() int { return d.length }

// NumChannels returns the channel count.
func (d *Multichannel) NumChannels() int { return len(d.cursors) }

// Push overwrites the oldest sample of channel ch and moves the cursor to
// the next oldest one.
func (d *Multichannel) Push(sample float64, ch int) {
	idx := d.cursors[ch]
	d.memory.Channel(ch)[idx] = sample
	idx--
	if idx < 0 {
		idx = d.length - 1
	}
	d.cursors[ch] = idx
}

// Back returns the oldest sample of channel ch, pushed Len() pushes ago.
func (d *Multichannel) Back(ch int) float64 {
	return d.memory.Channel(ch)[d.cursors[ch]]
}

// ProcessBuffer writes the delayed signal of src into dst for channel ch.
// Each output sample is read before the matching input is pushed, so src and
// dst must not share memory.
func (d *Multichannel) ProcessBuffer(src, dst []float64, ch int) {
	if len(src) != len(dst) {
		panic(fmt.Sprintf("delay: src has %d samples, dst has %d", len(src), len(dst)))
	}
	if len(src) == 0 {
		return
	}
	if &src[0] == &dst[0] {
		panic("delay: src and dst must not alias")
	}

	mem := d.memory.Channel(ch)
	idx := d.cursors[ch]
	for i, x := range src {
		dst[i] = mem[idx]
		mem[idx] = x
		idx--
		if idx < 0 {
			idx = d.length - 1
		}
	}
	d.cursors[ch] = idx
}

// ProcessBlock runs ProcessBuffer on every channel of src into dst. Both
// blocks must have the line's channel count and the same length.
func (d *Multichannel) ProcessBlock(src, dst *buffer.Multi) {
	n := d.NumChannels()
	if src.NumChannels() != n || dst.NumChannels() != n {
		panic(fmt.Sprintf("delay: block channels %d/%d, line has %d",
			src.NumChannels(), dst.NumChannels(), n))
	}
	for ch := range n {
		d.ProcessBuffer(src.Channel(ch), dst.Channel(ch), ch)
	}
}

// Reset clears the history and rewinds every cursor.
func (d *Multichannel) Reset() {
	d.memory.Zero()
	for i := range d.cursors {
		d.cursors[i] = 0
	}
}
