package rng

// Threefry is Threefry4x32 with 20 rounds, the default generator. Its
// native key width matches the four-word key exactly, lane word included.
type Threefry struct{}

func (Threefry) Name() string {
	return "threefry4x32"
}

func (Threefry) Permute(counter, key Uint4) Uint4 {
	return threefryPermuteCounter(counter, key)
}

const (
	threefryRounds = 20

	// the Skein key schedule parity constant
	threefryParity = 0x1BD11BDA
)

var threefryRotations = [8][2]int{
	{10, 26},
	{11, 21},
	{13, 27},
	{23, 5},
	{6, 20},
	{17, 11},
	{25, 10},
	{18, 20},
}

// permutes a 4x32 counter block under a 4x32 key according to Threefry4x32-20
// https://github.com/DEShawResearch/random123/blob/main/include/Random123/threefry.h
func threefryPermuteCounter(counter, key Uint4) Uint4 {
	ks := [5]uint32{
		key[0],
		key[1],
		key[2],
		key[3],
		threefryParity ^ key[0] ^ key[1] ^ key[2] ^ key[3],
	}

	x := Uint4{
		counter[0] + ks[0],
		counter[1] + ks[1],
		counter[2] + ks[2],
		counter[3] + ks[3],
	}

	for r := 0; r < threefryRounds; r++ {
		rot := threefryRotations[r%8]

		if r%2 == 0 {
			x[0] += x[1]
			x[1] = rotl(x[1], rot[0])
			x[1] ^= x[0]

			x[2] += x[3]
			x[3] = rotl(x[3], rot[1])
			x[3] ^= x[2]
		} else {
			x[0] += x[3]
			x[3] = rotl(x[3], rot[0])
			x[3] ^= x[0]

			x[2] += x[1]
			x[1] = rotl(x[1], rot[1])
			x[1] ^= x[2]
		}

		if r%4 == 3 {
			m := r/4 + 1

			x[0] += ks[m%5]
			x[1] += ks[(m+1)%5]
			x[2] += ks[(m+2)%5]
			x[3] += ks[(m+3)%5]

			x[3] += uint32(m)
		}
	}

	return x
}
