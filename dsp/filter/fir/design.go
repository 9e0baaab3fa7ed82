package fir

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidTaps indicates a non-positive kernel length.
	ErrInvalidTaps = errors.New("fir: taps must be > 0")
	// ErrInvalidCutoff indicates a cutoff outside (0, 0.5).
	ErrInvalidCutoff = errors.New("fir: cutoff must be in (0, 0.5)")
)

// LowpassKernel designs a Hann-windowed sinc low-pass with the given number
// of taps. cutoff is normalized to the sample rate (0.5 is Nyquist). The
// kernel is normalized to unity gain at DC.
func LowpassKernel(taps int, cutoff float64) ([]float64, error) {
	if taps <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTaps, taps)
	}
	if !(cutoff > 0 && cutoff < 0.5) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCutoff, cutoff)
	}

	h := make([]float64, taps)
	if taps == 1 {
		h[0] = 1
		return h, nil
	}

	center := float64(taps-1) / 2
	sum := 0.0
	for i := range h {
		x := float64(i) - center
		sinc := 2 * cutoff
		if x != 0 {
			sinc = math.Sin(2*math.Pi*cutoff*x) / (math.Pi * x)
		}
		w := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(taps-1))
		h[i] = sinc * w
		sum += h[i]
	}
	for i := range h {
		h[i] /= sum
	}
	return h, nil
}
