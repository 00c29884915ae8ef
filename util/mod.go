package util

import (
	"errors"
	"fmt"
	"github.com/dgryski/go-farm"
	"strconv"
	"unsafe"
)

func RotL[T uint8 | uint16 | uint32 | uint64](x T, k uint) T {
	BitWidth := unsafe.Sizeof(x) * 8
	return (x << k) | (x >> (uint(BitWidth) - k))
}

func RotR[T uint8 | uint16 | uint32 | uint64](x T, k uint) T {
	BitWidth := unsafe.Sizeof(x) * 8
	return (x >> k) | (x << (uint(BitWidth) - k))
}

func ArrayToString[T uint8 | uint16 | uint32 | uint64](arr []T) string {
	ret := ""

	for _, v := range arr {
		bitWidth := int(unsafe.Sizeof(v) * 8)
		ret += fmt.Sprintf("%0[1]*[2]x", bitWidth/4, v)
	}

	return ret
}

func ParseWords(s string, count int) ([]uint32, error) {
	if len(s) != count*8 {
		return nil, errors.New(fmt.Sprintf("expected %d hex characters, got %d", count*8, len(s)))
	}

	words := make([]uint32, count)
	for i := 0; i < count; i++ {
		v, err := strconv.ParseUint(s[i*8:(i+1)*8], 16, 32)
		if err != nil {
			return nil, errors.New(fmt.Sprintf("word at index %d does not parse: %s", i, err))
		}

		words[i] = uint32(v)
	}

	return words, nil
}

func SeedWords(name string) [2]uint32 {
	h := farm.Hash64([]byte(name))
	return [2]uint32{uint32(h), uint32(h >> 32)}
}
