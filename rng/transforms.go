package rng

import (
	"github.com/chewxy/math32"
	"math"
)

const (
	scaleHi = 1.0 / (1 << 32)
	scaleLo = scaleHi / (1 << 32)

	// smallest non-zero outputs of the uniform transforms; substituted for
	// zero before taking a logarithm
	minUniform64 = scaleHi + scaleLo
	minUniform32 = scaleHi
)

// UniformDouble4 maps raw generator output to four doubles in the unit
// interval. Each word is scaled by 2^-32 and again by 2^-64; both terms
// reuse the same word, so only 32 distinct bits reach the 52-bit mantissa
// and the all-ones word rounds up to exactly 1.0. Existing streams depend
// on this exact rounding; do not widen it to a two-word mantissa.
func UniformDouble4(bits Uint4) Double4 {
	var out Double4

	for i, w := range bits {
		out[i] = float64(w)*scaleHi + float64(w)*scaleLo
	}

	return out
}

// UniformFloat4 maps raw generator output to four floats in the unit
// interval by scaling each word by 2^-32. float32 rounding sends words at
// and above 0xFFFFFF80 to exactly 1.0.
func UniformFloat4(bits Uint4) Float4 {
	var out Float4

	for i, w := range bits {
		out[i] = float32(w) * scaleHi
	}

	return out
}

// NormalDouble4 turns four uniform draws into four standard normal draws
// with two Box-Muller pairs: words 0 and 2 set the radii, words 1 and 3 the
// angles. A zero radius word is lifted to the smallest value the uniform
// transform can produce, keeping the radius finite.
func NormalDouble4(u Double4) Double4 {
	x0 := u[0]
	if x0 == 0 {
		x0 = minUniform64
	}

	x2 := u[2]
	if x2 == 0 {
		x2 = minUniform64
	}

	r0 := math.Sqrt(-2 * math.Log(x0))
	r1 := math.Sqrt(-2 * math.Log(x2))

	sin0, cos0 := math.Sincos(2 * math.Pi * u[1])
	sin1, cos1 := math.Sincos(2 * math.Pi * u[3])

	return Double4{r0 * cos0, r0 * sin0, r1 * cos1, r1 * sin1}
}

// NormalFloat4 is NormalDouble4 in single precision.
func NormalFloat4(u Float4) Float4 {
	x0 := u[0]
	if x0 == 0 {
		x0 = minUniform32
	}

	x2 := u[2]
	if x2 == 0 {
		x2 = minUniform32
	}

	r0 := math32.Sqrt(-2 * math32.Log(x0))
	r1 := math32.Sqrt(-2 * math32.Log(x2))

	sin0, cos0 := math32.Sincos(2 * math32.Pi * u[1])
	sin1, cos1 := math32.Sincos(2 * math32.Pi * u[3])

	return Float4{r0 * cos0, r0 * sin0, r1 * cos1, r1 * sin1}
}
