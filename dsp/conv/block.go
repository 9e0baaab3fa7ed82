package conv

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-bypass/dsp/buffer"
	"github.com/cwbudde/algo-bypass/dsp/core"
	"github.com/cwbudde/algo-bypass/dsp/plugin"
)

var (
	// ErrEmptyKernel indicates a kernel without taps.
	ErrEmptyKernel = errors.New("conv: empty kernel")
	// ErrInvalidBlockSize indicates a partition size that is not a positive
	// power of two.
	ErrInvalidBlockSize = errors.New("conv: invalid block size")
	// ErrInvalidChannels indicates a non-positive channel count.
	ErrInvalidChannels = errors.New("conv: invalid channel count")
)

// channelState is the per-channel FIFO and overlap tail.
type channelState struct {
	in   *buffer.Buffer // partition being collected
	out  *buffer.Buffer // output of the previous partition
	tail []float64      // overlap carried into the next partition
	pos  int
}

// BlockConvolver convolves every channel with the same FIR kernel.
type BlockConvolver struct {
	kernelFFT []complex128
	kernelLen int
	blockSize int
	fftSize   int

	plan     *algofft.Plan[complex128]
	spectrum []complex128

	channels []*channelState
}

var _ plugin.Processor = (*BlockConvolver)(nil)

// NewBlockConvolver creates a convolver for numChannels channels. blockSize
// is the internal partition length and equals the reported latency.
func NewBlockConvolver(kernel []float64, blockSize, numChannels int) (*BlockConvolver, error) {
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}
	if !core.IsPowerOf2(blockSize) {
		return nil, fmt.Errorf("%w: blockSize must be a power of 2, got %d", ErrInvalidBlockSize, blockSize)
	}
	if numChannels <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, numChannels)
	}

	// FFT size must accommodate block + kernel - 1 for linear convolution
	fftSize := core.NextPowerOf2(blockSize + len(kernel) - 1)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	c := &BlockConvolver{
		kernelFFT: make([]complex128, fftSize),
		kernelLen: len(kernel),
		blockSize: blockSize,
		fftSize:   fftSize,
		plan:      plan,
		spectrum:  make([]complex128, fftSize),
	}

	kernelPadded := make([]complex128, fftSize)
	for i, v := range kernel {
		kernelPadded[i] = complex(v, 0)
	}
	if err := plan.Forward(c.kernelFFT, kernelPadded); err != nil {
		return nil, fmt.Errorf("conv: failed to compute kernel FFT: %w", err)
	}

	c.setChannels(numChannels)
	return c, nil
}

func (c *BlockConvolver) setChannels(n int) {
	c.channels = make([]*channelState, n)
	for ch := range c.channels {
		c.channels[ch] = &channelState{
			in:   buffer.New(c.blockSize),
			out:  buffer.New(c.blockSize),
			tail: make([]float64, c.fftSize-c.blockSize),
		}
	}
}

// PrepareResources reallocates the channel state when the layout changes.
// The partition size, and with it the latency, never changes.
func (c *BlockConvolver) PrepareResources(cfg core.ProcessorConfig, changes plugin.Changes) error {
	if !changes.Channels || cfg.Channels == len(c.channels) {
		return nil
	}
	if cfg.Channels <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidChannels, cfg.Channels)
	}
	c.setChannels(cfg.Channels)
	return nil
}

// LatencySamples returns the partition size.
func (c *BlockConvolver) LatencySamples() int { return c.blockSize }

// ProcessBlock convolves block in place. Any block length is accepted.
func (c *BlockConvolver) ProcessBlock(block *buffer.Multi) {
	for ch := range block.NumChannels() {
		st := c.channels[ch]
		in, out := st.in.Samples(), st.out.Samples()
		data := block.Channel(ch)
		for i, x := range data {
			data[i] = out[st.pos]
			in[st.pos] = x
			st.pos++
			if st.pos == c.blockSize {
				c.convolvePartition(st)
				st.pos = 0
			}
		}
	}
}

// convolvePartition turns a complete input partition into the next output
// partition and updates the overlap tail.
func (c *BlockConvolver) convolvePartition(st *channelState) {
	in, out := st.in.Samples(), st.out.Samples()

	for i := range c.spectrum {
		c.spectrum[i] = 0
	}
	for i, x := range in {
		c.spectrum[i] = complex(x, 0)
	}

	mustTransform("forward FFT", c.plan.Forward(c.spectrum, c.spectrum))
	for i := range c.spectrum {
		c.spectrum[i] *= c.kernelFFT[i]
	}
	mustTransform("inverse FFT", c.plan.Inverse(c.spectrum, c.spectrum))

	for i := range out {
		out[i] = real(c.spectrum[i])
	}
	if n := min(len(st.tail), c.blockSize); n > 0 {
		vecmath.AddBlockInPlace(out[:n], st.tail[:n])
	}

	// Shift the old tail by one partition and add the new overlap.
	tailLen := len(st.tail)
	for i := range tailLen {
		carried := 0.0
		if i+c.blockSize < tailLen {
			carried = st.tail[i+c.blockSize]
		}
		st.tail[i] = carried + real(c.spectrum[c.blockSize+i])
	}
}

// mustTransform panics on an FFT error. Buffer lengths are fixed by the
// constructor, so an error here means the plan and its buffers disagree.
func mustTransform(op string, err error) {
	if err != nil {
		panic(fmt.Sprintf("conv: %s: %v", op, err))
	}
}

// Reset clears FIFOs and overlap state.
func (c *BlockConvolver) Reset() {
	for _, st := range c.channels {
		st.in.Zero()
		st.out.Zero()
		core.Zero(st.tail)
		st.pos = 0
	}
}

// BlockSize returns the partition size.
func (c *BlockConvolver) BlockSize() int { return c.blockSize }

// KernelLen returns the convolution kernel length.
func (c *BlockConvolver) KernelLen() int { return c.kernelLen }

// FFTSize returns the internal FFT size.
func (c *BlockConvolver) FFTSize() int { return c.fftSize }

// NumChannels returns the configured channel count.
func (c *BlockConvolver) NumChannels() int { return len(c.channels) }
