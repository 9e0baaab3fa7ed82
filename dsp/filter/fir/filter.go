package fir

import "fmt"

// Filter is a direct-form FIR filter.
//
// The history is stored twice, back to back, so that the last len(coeffs)
// inputs are always a contiguous window starting at the cursor, newest first.
type Filter struct {
	coeffs  []float64
	history []float64
	cursor  int
}

// New creates a FIR filter from the given coefficient slice.
// The coefficients are copied. The filter order is len(coeffs)-1.
func New(coeffs []float64) *Filter {
	return &Filter{
		coeffs:  append([]float64(nil), coeffs...),
		history: make([]float64, 2*len(coeffs)),
	}
}

// ProcessSample filters one input sample.
//
//	y[n] = sum_{k=0}^{N-1} h[k] * x[n-k]
func (f *Filter) ProcessSample(x float64) float64 {
	n := len(f.coeffs)
	if n == 0 {
		return 0
	}

	f.cursor--
	if f.cursor < 0 {
		f.cursor = n - 1
	}
	f.history[f.cursor] = x
	f.history[f.cursor+n] = x

	window := f.history[f.cursor : f.cursor+n]
	var y float64
	for k, h := range f.coeffs {
		y += h * window[k]
	}
	return y
}

// ProcessBlockTo filters src into dst. dst may be src itself.
func (f *Filter) ProcessBlockTo(dst, src []float64) {
	if len(dst) != len(src) {
		panic(fmt.Sprintf("fir: dst has %d samples, src has %d", len(dst), len(src)))
	}
	for i, x := range src {
		dst[i] = f.ProcessSample(x)
	}
}

// ProcessBlock filters buf in place.
func (f *Filter) ProcessBlock(buf []float64) {
	f.ProcessBlockTo(buf, buf)
}

// Reset clears the input history.
func (f *Filter) Reset() {
	clear(f.history)
	f.cursor = 0
}

// Order returns the filter order (len(coeffs) - 1).
func (f *Filter) Order() int {
	return len(f.coeffs) - 1
}

// Coefficients returns a copy of the filter coefficients.
func (f *Filter) Coefficients() []float64 {
	return append([]float64(nil), f.coeffs...)
}
