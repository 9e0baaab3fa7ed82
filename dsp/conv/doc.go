// Package conv provides FFT-based block convolution for real-time streams.
//
// [BlockConvolver] runs an overlap-add convolution on fixed partitions of
// BlockSize samples. Input is collected in a FIFO until a partition is
// complete, so the host may deliver blocks of any length; the price is a
// constant latency of exactly BlockSize samples, which the convolver reports
// so that a bypass path can be delayed by the same amount.
//
//	c, err := conv.NewBlockConvolver(kernel, 512, 2)
//	base, err := plugin.NewBase(c, core.WithChannels(2))
//	err = base.Prepare(48000, 256)
//	base.ProcessBlock(block)
package conv
