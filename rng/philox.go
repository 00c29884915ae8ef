package rng

// Philox is Philox4x32 with 10 rounds. Its native key is two words, so the
// four supplied key words are folded down pairwise; the fold keeps the lane
// word (key word 2) in play and two lanes never collapse onto one stream.
type Philox struct{}

func (Philox) Name() string {
	return "philox4x32"
}

func (Philox) Permute(counter, key Uint4) Uint4 {
	return philoxPermuteCounter(counter, key)
}

const (
	philoxRounds = 10

	philoxM0 = 0xD2511F53
	philoxM1 = 0xCD9E8D57

	philoxW0 = 0x9E3779B9 // golden ratio
	philoxW1 = 0xBB67AE85 // sqrt(3) - 1
)

// permutes a 4x32 counter block under a folded 2x32 key according to Philox4x32-10
// https://github.com/DEShawResearch/random123/blob/main/include/Random123/philox.h
func philoxPermuteCounter(counter, key Uint4) Uint4 {
	k0 := key[0] ^ key[2]
	k1 := key[1] ^ key[3]

	x := counter

	for r := 0; r < philoxRounds; r++ {
		hi0, lo0 := mulHiLo(philoxM0, x[0])
		hi1, lo1 := mulHiLo(philoxM1, x[2])

		x = Uint4{
			hi1 ^ x[1] ^ k0,
			lo1,
			hi0 ^ x[3] ^ k1,
			lo0,
		}

		k0 += philoxW0
		k1 += philoxW1
	}

	return x
}
