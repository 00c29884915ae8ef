// Package rng implements the per-lane counter-based random number
// generators behind the draw pipeline. A lane's stream position is nothing
// but a four-word counter and a four-word key; drawing permutes the counter
// under the key and steps the counter. Lanes sharing a seed stay on
// disjoint streams because the lane identifier lives in the key, not the
// counter.
package rng

import (
	"fmt"
)

// Uint4 is a four-word block: the counter, the key and the raw generator
// output all take this shape.
type Uint4 [4]uint32

// Float4 is one four-wide single-precision draw.
type Float4 [4]float32

// Double4 is one four-wide double-precision draw.
type Double4 [4]float64

// State is one lane's stream position. Counter words 0 through 2 count
// blocks; counter word 3 belongs to the caller and is never incremented.
// The key is laid out as {seed word 0, seed word 1, lane, 0} and does not
// change after construction.
//
// State is a plain value; copying one forks the stream position.
type State struct {
	Counter Uint4
	Key     Uint4

	gen Generator
}

// NewState builds a lane state over the default generator.
func NewState(counter Uint4, seed [2]uint32, lane uint32) State {
	return NewStateWith(Default, counter, seed, lane)
}

// NewStateWith is NewState with an explicit generator.
func NewStateWith(gen Generator, counter Uint4, seed [2]uint32, lane uint32) State {
	if gen == nil {
		gen = Default
	}

	return State{
		Counter: counter,
		Key:     Uint4{seed[0], seed[1], lane, 0},
		gen:     gen,
	}
}

// NewStateShared builds a lane state from counter and seed words sitting in
// a shared read-only buffer, a decoded job typically. The words are copied
// out before use; missing words are taken as zero.
func NewStateShared(counter, seed []uint32, lane uint32) State {
	return NewStateSharedWith(Default, counter, seed, lane)
}

// NewStateSharedWith is NewStateShared with an explicit generator.
func NewStateSharedWith(gen Generator, counter, seed []uint32, lane uint32) State {
	var counterWords Uint4
	copy(counterWords[:], counter)

	var seedWords [2]uint32
	copy(seedWords[:], seed)

	return NewStateWith(gen, counterWords, seedWords, lane)
}

// Bits runs the generator once over the current counter and key. The
// counter does not move; calling Bits twice in a row yields the same block.
func (state *State) Bits() Uint4 {
	gen := state.gen
	if gen == nil {
		gen = Default
	}

	return gen.Permute(state.Counter, state.Key)
}

// Advance steps the counter to the next block. The carry stops at word 2;
// word 3 is never touched, so a stream wraps after 2^96 blocks.
func (state *State) Advance() {
	state.Counter[0]++
	if state.Counter[0] == 0 {
		state.Counter[1]++
		if state.Counter[1] == 0 {
			state.Counter[2]++
		}
	}
}

// Skip steps the counter by n blocks at once, exactly as if Advance had
// been called n times.
func (state *State) Skip(n uint64) {
	sum := uint64(state.Counter[0]) + uint64(uint32(n))
	state.Counter[0] = uint32(sum)

	sum = uint64(state.Counter[1]) + uint64(uint32(n>>32)) + (sum >> 32)
	state.Counter[1] = uint32(sum)

	state.Counter[2] += uint32(sum >> 32)
}

// Rand4 draws four uniform doubles and steps to the next block.
func (state *State) Rand4() Double4 {
	out := UniformDouble4(state.Bits())
	state.Advance()

	return out
}

// FRand4 draws four uniform floats and steps to the next block.
func (state *State) FRand4() Float4 {
	out := UniformFloat4(state.Bits())
	state.Advance()

	return out
}

// Randn4 draws four standard normal doubles and steps to the next block.
func (state *State) Randn4() Double4 {
	out := NormalDouble4(UniformDouble4(state.Bits()))
	state.Advance()

	return out
}

// FRandn4 draws four standard normal floats and steps to the next block.
func (state *State) FRandn4() Float4 {
	out := NormalFloat4(UniformFloat4(state.Bits()))
	state.Advance()

	return out
}

// Rand draws a single uniform double. The other three values of the block
// are discarded; a full block is consumed either way.
func (state *State) Rand() float64 {
	return state.Rand4()[0]
}

// FRand draws a single uniform float.
func (state *State) FRand() float32 {
	return state.FRand4()[0]
}

// Randn draws a single standard normal double.
func (state *State) Randn() float64 {
	return state.Randn4()[0]
}

// FRandn draws a single standard normal float.
func (state *State) FRandn() float32 {
	return state.FRandn4()[0]
}

func (state *State) String() string {
	return fmt.Sprintf("ctr=%08x%08x%08x%08x key=%08x%08x%08x%08x",
		state.Counter[0], state.Counter[1], state.Counter[2], state.Counter[3],
		state.Key[0], state.Key[1], state.Key[2], state.Key[3])
}
