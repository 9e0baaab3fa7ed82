package testutil

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-bypass/dsp/buffer"
)

func TestRequireSliceNearlyEqualPasses(t *testing.T) {
	RequireSliceNearlyEqual(t, []float64{1, 2, 3}, []float64{1, 2, 3 + 1e-12}, 1e-9)
}

func TestRequireMultiNearlyEqualPasses(t *testing.T) {
	a := buffer.FromChannels([][]float64{{1, 2}, {3, 4}})
	b := buffer.FromChannels([][]float64{{1, 2}, {3, 4 + 1e-12}})
	RequireMultiNearlyEqual(t, a, b, 1e-9)
}

func TestRequireFinitePasses(t *testing.T) {
	RequireFinite(t, []float64{0, -1, 1e300})
}

func TestMaxAbsDiff(t *testing.T) {
	d, err := MaxAbsDiff([]float64{1, 2, 3}, []float64{1, 2.5, 2})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(d-1) > 1e-15 {
		t.Fatalf("MaxAbsDiff = %v, want 1", d)
	}
	if _, err := MaxAbsDiff([]float64{1}, []float64{1, 2}); err == nil {
		t.Fatal("expected error for length mismatch")
	}
}
