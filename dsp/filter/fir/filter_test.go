package fir

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-bypass/dsp/buffer"
	"github.com/cwbudde/algo-bypass/dsp/core"
	"github.com/cwbudde/algo-bypass/dsp/plugin"
	"github.com/cwbudde/algo-bypass/internal/testutil"
)

// directConvolve is the textbook reference y[n] = sum h[k] x[n-k].
func directConvolve(x, h []float64) []float64 {
	y := make([]float64, len(x))
	for n := range x {
		for k, c := range h {
			if n-k >= 0 {
				y[n] += c * x[n-k]
			}
		}
	}
	return y
}

func TestFilterMatchesDirectConvolution(t *testing.T) {
	h := []float64{0.5, -0.25, 0.125, 1}
	x := testutil.DeterministicNoise(3, 1, 64)

	f := New(h)
	got := append([]float64(nil), x...)
	f.ProcessBlock(got)

	testutil.RequireSliceNearlyEqual(t, got, directConvolve(x, h), 1e-12)
}

func TestFilterProcessBlockToLeavesSource(t *testing.T) {
	h := []float64{0.25, 0.5, 0.25}
	x := testutil.DeterministicNoise(11, 1, 40)
	src := append([]float64(nil), x...)
	dst := make([]float64, len(x))

	f := New(h)
	// Split across calls so the history wraps between blocks.
	f.ProcessBlockTo(dst[:17], src[:17])
	f.ProcessBlockTo(dst[17:], src[17:])

	testutil.RequireSliceNearlyEqual(t, src, x, 0)
	testutil.RequireSliceNearlyEqual(t, dst, directConvolve(x, h), 1e-12)
}

func TestFilterProcessBlockToLengthMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("length mismatch did not panic")
		}
	}()
	New([]float64{1}).ProcessBlockTo(make([]float64, 2), make([]float64, 3))
}

func TestFilterImpulseResponse(t *testing.T) {
	h := []float64{1, 2, 3}
	f := New(h)
	got := testutil.Impulse(5, 0)
	f.ProcessBlock(got)
	testutil.RequireSliceNearlyEqual(t, got, []float64{1, 2, 3, 0, 0}, 0)
}

func TestFilterResetAndAccessors(t *testing.T) {
	h := []float64{1, 1}
	f := New(h)
	h[0] = 99
	if f.Coefficients()[0] != 1 {
		t.Fatal("New should copy coefficients")
	}
	if f.Order() != 1 {
		t.Fatalf("Order = %d, want 1", f.Order())
	}

	f.ProcessSample(5)
	f.Reset()
	if got := f.ProcessSample(1); got != 1 {
		t.Fatalf("after Reset got %v, want 1", got)
	}
}

func TestEmptyFilter(t *testing.T) {
	if got := New(nil).ProcessSample(1); got != 0 {
		t.Fatalf("empty filter output = %v, want 0", got)
	}
}

func TestLowpassKernel(t *testing.T) {
	h, err := LowpassKernel(63, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	if len(h) != 63 {
		t.Fatalf("len = %d, want 63", len(h))
	}

	sum := 0.0
	for _, v := range h {
		sum += v
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Fatalf("DC gain = %v, want 1", sum)
	}
	for i := range h {
		if math.Abs(h[i]-h[len(h)-1-i]) > 1e-15 {
			t.Fatalf("kernel not symmetric at %d", i)
		}
	}

	// A tone well above cutoff is strongly attenuated.
	x := testutil.DeterministicSine(0.4*48000, 48000, 1, 2048)
	New(h).ProcessBlock(x)
	peak := 0.0
	for _, v := range x[256:] {
		peak = math.Max(peak, math.Abs(v))
	}
	if peak > 0.01 {
		t.Fatalf("stopband peak = %v, want < 0.01", peak)
	}
}

func TestLowpassKernelValidation(t *testing.T) {
	if _, err := LowpassKernel(0, 0.1); !errors.Is(err, ErrInvalidTaps) {
		t.Fatalf("err = %v, want ErrInvalidTaps", err)
	}
	for _, c := range []float64{0, 0.5, -1, math.NaN()} {
		if _, err := LowpassKernel(15, c); !errors.Is(err, ErrInvalidCutoff) {
			t.Fatalf("cutoff %v: err = %v, want ErrInvalidCutoff", c, err)
		}
	}
	h, err := LowpassKernel(1, 0.2)
	if err != nil || len(h) != 1 || h[0] != 1 {
		t.Fatalf("single tap kernel = %v, %v", h, err)
	}
}

func TestProcessorChannels(t *testing.T) {
	p := NewProcessor([]float64{0.5, 0.5}, 1)
	if p.LatencySamples() != 0 {
		t.Fatalf("LatencySamples = %d, want 0", p.LatencySamples())
	}

	cfg := core.ApplyProcessorOptions(core.WithChannels(2))
	if err := p.PrepareResources(cfg, plugin.Changes{Channels: true}); err != nil {
		t.Fatal(err)
	}

	block := buffer.FromChannels([][]float64{{2, 2, 2}, {4, 0, 0}})
	p.ProcessBlock(block)
	testutil.RequireSliceNearlyEqual(t, block.Channel(0), []float64{1, 2, 2}, 1e-15)
	testutil.RequireSliceNearlyEqual(t, block.Channel(1), []float64{2, 2, 0}, 1e-15)

	p.Reset()
	block = buffer.FromChannels([][]float64{{2, 0, 0}, {0, 0, 0}})
	p.ProcessBlock(block)
	testutil.RequireSliceNearlyEqual(t, block.Channel(0), []float64{1, 1, 0}, 1e-15)
}

func TestProcessorThroughBaseHasNoDelayLine(t *testing.T) {
	p := NewProcessor([]float64{1}, 2)
	b, err := plugin.NewBase(p, core.WithChannels(2), core.WithRampLength(8))
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Prepare(48000, 32); err != nil {
		t.Fatal(err)
	}
	if b.Controller().HasDelayLine() {
		t.Fatal("zero-latency processor should run without a delay line")
	}

	// With an identity kernel bypass transitions are inaudible.
	for _, bypassed := range []bool{false, true, true, false} {
		b.Bypass().Set(bypassed)
		block := testutil.MultiFromFunc(2, 32, func(ch, i int) float64 { return float64(ch + i) })
		want := testutil.CloneMulti(block)
		b.ProcessBlock(block)
		testutil.RequireMultiNearlyEqual(t, block, want, 1e-12)
	}
}
