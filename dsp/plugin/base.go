// Package plugin drives a latency-introducing block processor through the
// bypass crossfade and keeps the dry path in step with the processor's
// reported latency whenever the host reconfigures it.
package plugin

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-bypass/dsp/buffer"
	"github.com/cwbudde/algo-bypass/dsp/bypass"
	"github.com/cwbudde/algo-bypass/dsp/core"
)

var (
	// ErrNilProcessor is returned by NewBase for a nil processor.
	ErrNilProcessor = errors.New("plugin: nil processor")
	// ErrInvalidConfig indicates a non-positive sample rate, block size or
	// channel count.
	ErrInvalidConfig = errors.New("plugin: invalid configuration")
)

// Changes tells a processor which parts of its configuration changed.
type Changes struct {
	SampleRate bool
	BlockSize  bool
	Channels   bool
}

// Processor is the wet algorithm wrapped by Base.
type Processor interface {
	// PrepareResources is called off the audio path whenever the
	// configuration changes. Allocation is allowed here.
	PrepareResources(cfg core.ProcessorConfig, changes Changes) error
	// ProcessBlock processes a block in place.
	ProcessBlock(block *buffer.Multi)
	// LatencySamples reports the processing delay for the current
	// configuration.
	LatencySamples() int
}

// Base owns the bypass controller for a Processor.
type Base struct {
	proc   Processor
	cfg    core.ProcessorConfig
	ctrl   *bypass.Controller
	bypass bypass.Flag
}

// NewBase wraps p. The options set the initial channel count and ramp
// length; sample rate and block size are normally left for Prepare.
func NewBase(p Processor, opts ...core.ProcessorOption) (*Base, error) {
	if p == nil {
		return nil, ErrNilProcessor
	}
	cfg := core.ApplyProcessorOptions(opts...)
	return &Base{
		proc: p,
		cfg:  cfg,
		ctrl: bypass.New(bypass.WithRampLength(cfg.RampLength)),
	}, nil
}

// Prepare is called by the host before playback starts and whenever the
// sample rate or maximum block size change.
func (b *Base) Prepare(sampleRate float64, maxBlockSize int) error {
	if sampleRate <= 0 || maxBlockSize <= 0 {
		return fmt.Errorf("%w: sampleRate=%v maxBlockSize=%d", ErrInvalidConfig, sampleRate, maxBlockSize)
	}

	changes := Changes{
		SampleRate: sampleRate != b.cfg.SampleRate,
		BlockSize:  maxBlockSize != b.cfg.BlockSize,
	}
	b.cfg.SampleRate = sampleRate
	b.cfg.BlockSize = maxBlockSize

	if err := b.proc.PrepareResources(b.cfg, changes); err != nil {
		return fmt.Errorf("plugin: prepare resources: %w", err)
	}
	return b.prepareBypassDelayLine()
}

// SetNumChannels is called by the host when the channel layout changes. A
// layout set before the first Prepare assumes FallbackSampleRate.
func (b *Base) SetNumChannels(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: channels=%d", ErrInvalidConfig, n)
	}
	if b.cfg.SampleRate == 0 {
		b.cfg.SampleRate = core.FallbackSampleRate
	}
	b.cfg.Channels = n

	if err := b.proc.PrepareResources(b.cfg, Changes{Channels: true}); err != nil {
		return fmt.Errorf("plugin: prepare resources: %w", err)
	}
	return b.prepareBypassDelayLine()
}

func (b *Base) prepareBypassDelayLine() error {
	latency := b.proc.LatencySamples()
	if err := b.ctrl.Configure(b.cfg.Channels, b.cfg.BlockSize, latency); err != nil {
		return fmt.Errorf("plugin: bypass delay line: %w", err)
	}
	return nil
}

// ProcessBlock samples the bypass flag once and processes block in place.
func (b *Base) ProcessBlock(block *buffer.Multi) {
	b.ctrl.Process(block, b.bypass.Load(), b.proc)
}

// Bypass returns the bypass request shared with the control side.
func (b *Base) Bypass() *bypass.Flag { return &b.bypass }

// Config returns the current configuration.
func (b *Base) Config() core.ProcessorConfig { return b.cfg }

// Controller returns the bypass controller.
func (b *Base) Controller() *bypass.Controller { return b.ctrl }

// LatencySamples forwards the wrapped processor's latency, which the host
// should report for the whole plugin.
func (b *Base) LatencySamples() int { return b.proc.LatencySamples() }
