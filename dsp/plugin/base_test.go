package plugin

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-bypass/dsp/buffer"
	"github.com/cwbudde/algo-bypass/dsp/core"
	"github.com/cwbudde/algo-bypass/internal/testutil"
)

// fakeProcessor delays nothing but reports a configurable latency and
// records how it was prepared.
type fakeProcessor struct {
	latency  int
	gain     float64
	prepares []Changes
	lastCfg  core.ProcessorConfig
	err      error
	calls    int
}

func (f *fakeProcessor) PrepareResources(cfg core.ProcessorConfig, changes Changes) error {
	f.prepares = append(f.prepares, changes)
	f.lastCfg = cfg
	return f.err
}

func (f *fakeProcessor) ProcessBlock(block *buffer.Multi) {
	f.calls++
	block.ApplyGain(0, block.Len(), f.gain)
}

func (f *fakeProcessor) LatencySamples() int { return f.latency }

func TestNewBaseRejectsNil(t *testing.T) {
	if _, err := NewBase(nil); !errors.Is(err, ErrNilProcessor) {
		t.Fatalf("err = %v, want ErrNilProcessor", err)
	}
}

func TestNewBaseAppliesOptions(t *testing.T) {
	b, err := NewBase(&fakeProcessor{}, core.WithChannels(2), core.WithRampLength(16))
	if err != nil {
		t.Fatal(err)
	}
	if got := b.Config().Channels; got != 2 {
		t.Fatalf("Channels = %d, want 2", got)
	}
	if got := b.Controller().RampLength(); got != 16 {
		t.Fatalf("RampLength = %d, want 16", got)
	}
}

func TestPrepareReportsChanges(t *testing.T) {
	p := &fakeProcessor{}
	b, err := NewBase(p)
	if err != nil {
		t.Fatal(err)
	}

	steps := []struct {
		sampleRate float64
		blockSize  int
		want       Changes
	}{
		{48000, 256, Changes{SampleRate: true, BlockSize: true}},
		{48000, 256, Changes{}},
		{48000, 512, Changes{BlockSize: true}},
		{96000, 512, Changes{SampleRate: true}},
	}
	for i, s := range steps {
		if err := b.Prepare(s.sampleRate, s.blockSize); err != nil {
			t.Fatal(err)
		}
		if got := p.prepares[i]; got != s.want {
			t.Fatalf("step %d: changes = %+v, want %+v", i, got, s.want)
		}
	}
	if p.lastCfg.SampleRate != 96000 || p.lastCfg.BlockSize != 512 {
		t.Fatalf("processor saw cfg %+v", p.lastCfg)
	}
}

func TestPrepareValidation(t *testing.T) {
	b, err := NewBase(&fakeProcessor{})
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Prepare(0, 256); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
	if err := b.Prepare(48000, 0); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
	if err := b.SetNumChannels(0); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestPrepareResourcesErrorPropagates(t *testing.T) {
	sentinel := errors.New("out of memory")
	b, err := NewBase(&fakeProcessor{err: sentinel})
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Prepare(48000, 64); !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want wrapped sentinel", err)
	}
}

func TestSetNumChannelsBeforePrepareUsesFallbackRate(t *testing.T) {
	p := &fakeProcessor{latency: 8}
	b, err := NewBase(p)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.SetNumChannels(2); err != nil {
		t.Fatal(err)
	}

	if got := p.lastCfg.SampleRate; got != core.FallbackSampleRate {
		t.Fatalf("SampleRate = %v, want %v", got, core.FallbackSampleRate)
	}
	if got := p.prepares[0]; got != (Changes{Channels: true}) {
		t.Fatalf("changes = %+v, want channels only", got)
	}
	if !b.Controller().HasDelayLine() || b.Controller().Latency() != 8 {
		t.Fatal("delay line should follow the processor latency")
	}
}

func TestDelayLineFollowsLatency(t *testing.T) {
	p := &fakeProcessor{latency: 0}
	b, err := NewBase(p, core.WithChannels(2))
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Prepare(44100, 128); err != nil {
		t.Fatal(err)
	}
	if b.Controller().HasDelayLine() {
		t.Fatal("zero latency should not allocate a delay line")
	}

	p.latency = 32
	if err := b.Prepare(48000, 128); err != nil {
		t.Fatal(err)
	}
	if b.LatencySamples() != 32 || b.Controller().Latency() != 32 {
		t.Fatalf("latency = %d/%d, want 32", b.LatencySamples(), b.Controller().Latency())
	}
}

func TestProcessBlockSamplesBypassFlag(t *testing.T) {
	p := &fakeProcessor{gain: 0, latency: 2}
	b, err := NewBase(p, core.WithRampLength(1))
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Prepare(48000, 4); err != nil {
		t.Fatal(err)
	}

	block := buffer.FromChannels([][]float64{{1, 2, 3, 4}})
	b.ProcessBlock(block)
	testutil.RequireSliceNearlyEqual(t, block.Channel(0), []float64{0, 0, 0, 0}, 0)

	b.Bypass().Set(true)
	block = buffer.FromChannels([][]float64{{5, 6, 7, 8}})
	b.ProcessBlock(block)
	testutil.RequireSliceNearlyEqual(t, block.Channel(0), []float64{0, 0, 5, 6}, 0)

	block = buffer.FromChannels([][]float64{{9, 10, 11, 12}})
	b.ProcessBlock(block)
	testutil.RequireSliceNearlyEqual(t, block.Channel(0), []float64{7, 8, 9, 10}, 0)

	if p.calls != 2 {
		t.Fatalf("wet calls = %d, want 2", p.calls)
	}
}
