// Package bypass switches a latency-introducing processor between its
// processed (wet) output and a latency-aligned copy of its input (dry)
// without clicks.
//
// A [Controller] is fed one block at a time together with the bypass flag
// sampled for that block. It derives the transition from the flag of the
// previous block:
//
//	previous  current  action
//	wet       wet      run the wet processor only
//	wet       bypass   crossfade wet -> dry, delay history reset first
//	bypass    bypass   emit the delayed input (or the input if latency is 0)
//	bypass    wet      crossfade dry -> wet
//
// The crossfade is linear over min(block length, ramp length) samples and
// holds the target state for the rest of the block. Ramp progress is not
// carried into the next block: a block shorter than the ramp length carries
// the whole crossfade, compressed to the block length.
//
// Reconfiguration through [Controller.Configure] may allocate and must not
// run concurrently with [Controller.Process]. Process itself does not
// allocate once the scratch space has been reserved for the largest block.
package bypass
