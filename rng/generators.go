package rng

import (
	"errors"
	"fmt"
	"unsafe"
)

// Generator is a keyed counter permutation. Implementations are stateless
// values; the same (counter, key) pair must always map to the same block.
type Generator interface {
	Name() string
	Permute(counter, key Uint4) Uint4
}

// Default is the generator used when none is picked explicitly.
var Default Generator = Threefry{}

// ByName resolves a generator from its wire/CLI name. The empty string
// resolves to the default.
func ByName(name string) (Generator, error) {
	switch name {
	case "", "threefry", "threefry4x32":
		return Threefry{}, nil
	case "philox", "philox4x32":
		return Philox{}, nil
	default:
		return nil, errors.New(fmt.Sprintf("no such generator: \"%s\"", name))
	}
}

// Names lists the canonical generator names, default first.
func Names() []string {
	return []string{"threefry4x32", "philox4x32"}
}

func rotl[T uint32 | uint64](x T, k int) T {
	bitWidth := int(unsafe.Sizeof(x) * 8)
	return (x << k) | (x >> (bitWidth - k))
}

// mulHiLo returns the upper and lower halves of the 64-bit product of a and b.
func mulHiLo(a, b uint32) (hi, lo uint32) {
	product := uint64(a) * uint64(b)
	return uint32(product >> 32), uint32(product)
}
