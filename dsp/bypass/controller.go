package bypass

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-bypass/dsp/buffer"
	"github.com/cwbudde/algo-bypass/dsp/core"
	"github.com/cwbudde/algo-bypass/dsp/delay"
)

// DefaultRampLength is the crossfade length in samples.
const DefaultRampLength = core.DefaultRampLength

// ErrInvalidConfig indicates negative configuration values.
var ErrInvalidConfig = errors.New("bypass: invalid configuration")

// Processor is the wet transform. It processes block in place.
type Processor interface {
	ProcessBlock(block *buffer.Multi)
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(block *buffer.Multi)

// ProcessBlock calls f(block).
func (f ProcessorFunc) ProcessBlock(block *buffer.Multi) { f(block) }

// Option configures a Controller.
type Option func(*Controller)

// WithRampLength sets the crossfade length. Non-positive values are ignored.
func WithRampLength(samples int) Option {
	return func(c *Controller) {
		if samples > 0 {
			c.rampLength = samples
		}
	}
}

// Controller routes blocks between the wet processor and the dry path.
type Controller struct {
	rampLength  int
	latency     int
	numChannels int

	line    *delay.Multichannel
	scratch *buffer.Multi

	lastBypassed bool
}

// New returns a controller without a delay line, equivalent to a processor
// with zero latency.
func New(opts ...Option) *Controller {
	c := &Controller{
		rampLength: DefaultRampLength,
		scratch:    buffer.NewMulti(0, 0),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Configure prepares the dry path for the given layout and processor
// latency. The delay line is replaced when latency or channel count change
// and dropped when latency is zero; otherwise its history is kept. Scratch
// space for maxBlockSize samples per channel is reserved up front.
func (c *Controller) Configure(numChannels, maxBlockSize, latency int) error {
	if numChannels < 0 || maxBlockSize < 0 || latency < 0 {
		return fmt.Errorf("%w: channels=%d maxBlockSize=%d latency=%d",
			ErrInvalidConfig, numChannels, maxBlockSize, latency)
	}

	switch {
	case latency == 0:
		c.line = nil
	case c.line == nil || latency != c.latency || numChannels != c.numChannels:
		line, err := delay.New(latency, numChannels)
		if err != nil {
			return fmt.Errorf("bypass: delay line: %w", err)
		}
		c.line = line
	}

	c.latency = latency
	c.numChannels = numChannels
	c.scratch.Reserve(numChannels, maxBlockSize)

	return nil
}

// Process handles one block in place. bypassed is the flag sampled for this
// block and wet is invoked at most once.
func (c *Controller) Process(block *buffer.Multi, bypassed bool, wet Processor) {
	switch {
	case !bypassed && !c.lastBypassed:
		wet.ProcessBlock(block)
	case bypassed && !c.lastBypassed:
		c.processWithFade(block, wet, true)
	case bypassed && c.lastBypassed:
		c.processBypassed(block)
	default:
		c.processWithFade(block, wet, false)
	}
	c.lastBypassed = bypassed
}

// processBypassed keeps feeding the delay line so that its history stays
// aligned with the wet path's latency.
func (c *Controller) processBypassed(block *buffer.Multi) {
	if c.line == nil {
		return
	}
	c.scratch.SetSize(block.NumChannels(), block.Len())
	c.line.ProcessBlock(block, c.scratch)
	block.CopyFrom(c.scratch)
}

func (c *Controller) processWithFade(block *buffer.Multi, wet Processor, intoBypass bool) {
	c.scratch.SetSize(block.NumChannels(), block.Len())

	// The dry signal has to be taken from the input before wet overwrites it.
	if c.line == nil {
		c.scratch.CopyFrom(block)
	} else {
		if intoBypass {
			c.line.Reset()
		}
		c.line.ProcessBlock(block, c.scratch)
	}

	wet.ProcessBlock(block)

	n := min(block.Len(), c.rampLength)
	wetFrom, dryFrom := RampGains(0, n, intoBypass)
	wetTo, dryTo := RampGains(n, n, intoBypass)

	block.ApplyGainRamp(0, n, wetFrom, wetTo)
	block.ApplyGain(n, block.Len(), wetTo)
	c.scratch.ApplyGainRamp(0, n, dryFrom, dryTo)
	c.scratch.ApplyGain(n, c.scratch.Len(), dryTo)

	block.Add(c.scratch)
}

// RampGains returns the wet and dry gains at sample i of a crossfade that
// lasts rampLength samples. The gains always sum to 1; from index
// rampLength on they hold the target state.
func RampGains(i, rampLength int, intoBypass bool) (wet, dry float64) {
	progress := 1.0
	if i < rampLength {
		progress = float64(i) / float64(rampLength)
	}
	if intoBypass {
		return 1 - progress, progress
	}
	return progress, 1 - progress
}

// Reset clears the dry path history and treats the next block as following
// a wet block.
func (c *Controller) Reset() {
	if c.line != nil {
		c.line.Reset()
	}
	c.lastBypassed = false
}

// RampLength returns the crossfade length in samples.
func (c *Controller) RampLength() int { return c.rampLength }

// Latency returns the configured dry path delay in samples.
func (c *Controller) Latency() int { return c.latency }

// HasDelayLine reports whether the dry path is delayed.
func (c *Controller) HasDelayLine() bool { return c.line != nil }

// LastBypassed returns the flag of the most recently processed block.
func (c *Controller) LastBypassed() bool { return c.lastBypassed }
