package main

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-bypass/dsp/buffer"
	"github.com/cwbudde/algo-bypass/dsp/conv"
	"github.com/cwbudde/algo-bypass/dsp/core"
	"github.com/cwbudde/algo-bypass/dsp/filter/fir"
	"github.com/cwbudde/algo-bypass/dsp/plugin"
	"github.com/cwbudde/algo-bypass/internal/audiofile"
)

type renderConfig struct {
	wet       string
	blockSize int
	partition int
	taps      int
	cutoff    float64
	ramp      int
	bypass    schedule
}

func newWetProcessor(cfg renderConfig, channels int) (plugin.Processor, error) {
	kernel, err := fir.LowpassKernel(cfg.taps, cfg.cutoff)
	if err != nil {
		return nil, err
	}
	switch cfg.wet {
	case "conv":
		c, err := conv.NewBlockConvolver(kernel, cfg.partition, channels)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "fir":
		return fir.NewProcessor(kernel, channels), nil
	default:
		return nil, fmt.Errorf("unknown wet processor %q (want conv or fir)", cfg.wet)
	}
}

// render runs clip through the wet processor with bypass switched per block
// according to cfg.bypass. The output is trimmed by the reported latency so
// that it lines up with the input.
func render(clip *audiofile.Clip, cfg renderConfig) (*audiofile.Clip, error) {
	channels := clip.NumChannels()
	if channels == 0 {
		return nil, errors.New("input has no channels")
	}

	proc, err := newWetProcessor(cfg, channels)
	if err != nil {
		return nil, err
	}
	base, err := plugin.NewBase(proc, core.WithChannels(channels), core.WithRampLength(cfg.ramp))
	if err != nil {
		return nil, err
	}
	if err := base.SetNumChannels(channels); err != nil {
		return nil, err
	}
	if err := base.Prepare(float64(clip.SampleRate), cfg.blockSize); err != nil {
		return nil, err
	}

	latency := base.LatencySamples()
	total := clip.Len() + latency

	out := &audiofile.Clip{SampleRate: clip.SampleRate, Channels: make([][]float64, channels)}
	for ch := range out.Channels {
		out.Channels[ch] = make([]float64, 0, clip.Len())
	}

	block := buffer.NewMulti(channels, cfg.blockSize)
	for pos := 0; pos < total; pos += cfg.blockSize {
		n := min(cfg.blockSize, total-pos)
		block.SetSize(channels, n)
		block.Zero()
		if pos < clip.Len() {
			for ch := range channels {
				copy(block.Channel(ch), clip.Channels[ch][pos:min(pos+n, clip.Len())])
			}
		}

		base.Bypass().Set(cfg.bypass.bypassedAt(float64(pos) / float64(clip.SampleRate)))
		base.ProcessBlock(block)

		for ch := range channels {
			out.Channels[ch] = append(out.Channels[ch], block.Channel(ch)...)
		}
	}

	for ch := range out.Channels {
		out.Channels[ch] = out.Channels[ch][latency:]
	}
	return out, nil
}
