package core

// DefaultRampLength is the bypass crossfade length in samples.
const DefaultRampLength = 128

// FallbackSampleRate is assumed when the channel layout is configured before
// the host has reported a sample rate.
const FallbackSampleRate = 50000.0

// ProcessorConfig defines the processing settings shared between a processor
// and the bypass machinery around it.
//
// SampleRate and BlockSize stay zero until the host prepares the processor,
// unless set explicitly through options.
type ProcessorConfig struct {
	SampleRate float64
	BlockSize  int
	Channels   int
	RampLength int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns a mono configuration that has not been
// prepared yet.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		Channels:   1,
		RampLength: DefaultRampLength,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the maximum processing block size.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// WithChannels sets the channel count.
func WithChannels(channels int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if channels > 0 {
			cfg.Channels = channels
		}
	}
}

// WithRampLength sets the bypass crossfade length in samples.
func WithRampLength(samples int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if samples > 0 {
			cfg.RampLength = samples
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
