package bypass

import "sync/atomic"

// Flag is a bypass request shared between a control goroutine and the audio
// goroutine. The audio side reads it once per block.
type Flag struct {
	v atomic.Bool
}

// Set requests (true) or releases (false) bypass.
func (f *Flag) Set(bypassed bool) { f.v.Store(bypassed) }

// Load returns the current request.
func (f *Flag) Load() bool { return f.v.Load() }
