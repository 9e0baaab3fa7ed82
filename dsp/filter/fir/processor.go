package fir

import (
	"github.com/cwbudde/algo-bypass/dsp/buffer"
	"github.com/cwbudde/algo-bypass/dsp/core"
	"github.com/cwbudde/algo-bypass/dsp/plugin"
)

// Processor filters every channel of a block with its own Filter.
type Processor struct {
	coeffs  []float64
	filters []*Filter
}

var _ plugin.Processor = (*Processor)(nil)

// NewProcessor returns a processor for numChannels channels. Channel
// changes reported through PrepareResources rebuild the filters.
func NewProcessor(coeffs []float64, numChannels int) *Processor {
	p := &Processor{coeffs: append([]float64(nil), coeffs...)}
	p.setChannels(numChannels)
	return p
}

func (p *Processor) setChannels(n int) {
	p.filters = make([]*Filter, max(n, 0))
	for ch := range p.filters {
		p.filters[ch] = New(p.coeffs)
	}
}

// PrepareResources rebuilds the per-channel filters on a layout change.
func (p *Processor) PrepareResources(cfg core.ProcessorConfig, changes plugin.Changes) error {
	if changes.Channels && cfg.Channels != len(p.filters) {
		p.setChannels(cfg.Channels)
	}
	return nil
}

// ProcessBlock filters block in place.
func (p *Processor) ProcessBlock(block *buffer.Multi) {
	for ch := range block.NumChannels() {
		data := block.Channel(ch)
		p.filters[ch].ProcessBlockTo(data, data)
	}
}

// LatencySamples is always 0: the output is not delayed beyond the kernel's
// own group delay, which is part of the effect.
func (p *Processor) LatencySamples() int { return 0 }

// Reset clears every channel's history.
func (p *Processor) Reset() {
	for _, f := range p.filters {
		f.Reset()
	}
}
