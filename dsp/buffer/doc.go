// Package buffer provides reusable float64 sample stores for allocation-free
// block processing.
//
// [Buffer] wraps a single fixed-length channel. [Multi] owns a contiguous
// channels × length block that the delay and bypass packages process in
// place. Multi reuses its backing array in [Multi.SetSize], so a store
// reserved once on the configuration path can be resized per block on the
// audio path without allocating.
package buffer
