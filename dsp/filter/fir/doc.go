// Package fir provides a direct-form FIR filter runtime and a windowed-sinc
// low-pass design.
//
// A [Filter] applies a set of pre-computed coefficients to an input stream
// using a circular-buffer delay line. [Processor] runs one Filter per channel
// on multichannel blocks and reports zero latency, which makes it the
// reference wet path for processors that run without a bypass delay line.
// For long kernels use the FFT-based block convolver in dsp/conv, which
// trades latency for throughput.
package fir
