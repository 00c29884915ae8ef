package rng

import (
	"math"
	"testing"
)

func TestBitsDoesNotMove(t *testing.T) {
	state := NewState(Uint4{}, [2]uint32{1, 2}, 0)

	first := state.Bits()
	for i := 0; i < 10; i++ {
		if got := state.Bits(); got != first {
			t.Fatalf("Bits changed on repeat call %d: %v != %v", i, got, first)
		}
	}

	if state.Counter != (Uint4{}) {
		t.Fatalf("Bits moved the counter: %v", state.Counter)
	}
}

func TestDeterminism(t *testing.T) {
	a := NewState(Uint4{9, 8, 7, 6}, [2]uint32{0xDEADBEEF, 0xCAFEBABE}, 3)
	b := NewState(Uint4{9, 8, 7, 6}, [2]uint32{0xDEADBEEF, 0xCAFEBABE}, 3)

	for i := 0; i < 100; i++ {
		if got, want := a.Rand4(), b.Rand4(); got != want {
			t.Fatalf("draw %d diverged: %v != %v", i, got, want)
		}
	}
}

func TestKeyLayout(t *testing.T) {
	state := NewState(Uint4{1, 2, 3, 4}, [2]uint32{10, 20}, 30)

	if want := (Uint4{10, 20, 30, 0}); state.Key != want {
		t.Fatalf("got key %v, want %v", state.Key, want)
	}

	if want := (Uint4{1, 2, 3, 4}); state.Counter != want {
		t.Fatalf("got counter %v, want %v", state.Counter, want)
	}
}

func TestAdvanceCarry(t *testing.T) {
	cases := []struct {
		name   string
		before Uint4
		after  Uint4
	}{
		{"plain", Uint4{5, 0, 0, 77}, Uint4{6, 0, 0, 77}},
		{"carry into word 1", Uint4{0xFFFFFFFF, 0, 0, 77}, Uint4{0, 1, 0, 77}},
		{"carry into word 2", Uint4{0xFFFFFFFF, 0xFFFFFFFF, 0, 77}, Uint4{0, 0, 1, 77}},
		{"full wrap leaves word 3", Uint4{0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF, 77}, Uint4{0, 0, 0, 77}},
	}

	for _, c := range cases {
		state := NewState(c.before, [2]uint32{1, 2}, 0)
		state.Advance()

		if state.Counter != c.after {
			t.Errorf("%s: got %v, want %v", c.name, state.Counter, c.after)
		}
	}
}

func TestSkipMatchesAdvance(t *testing.T) {
	a := NewState(Uint4{0xFFFFFF00, 0xFFFFFFFF, 3, 9}, [2]uint32{1, 2}, 0)
	b := a

	const n = 1000
	for i := 0; i < n; i++ {
		a.Advance()
	}

	b.Skip(n)

	if a.Counter != b.Counter {
		t.Fatalf("Skip diverged from Advance: %v != %v", b.Counter, a.Counter)
	}
}

func TestSkipWideStep(t *testing.T) {
	state := NewState(Uint4{0, 0, 0, 4}, [2]uint32{1, 2}, 0)
	state.Skip(1 << 32)

	if want := (Uint4{0, 1, 0, 4}); state.Counter != want {
		t.Fatalf("got %v, want %v", state.Counter, want)
	}

	state.Skip(0xFFFFFFFFFFFFFFFF)

	if want := (Uint4{0xFFFFFFFF, 0, 1, 4}); state.Counter != want {
		t.Fatalf("after full-width skip: got %v, want %v", state.Counter, want)
	}
}

func TestStreamCounterNonRepeating(t *testing.T) {
	state := NewState(Uint4{0xFFFFFFF0, 0xFFFFFFFF, 0, 3}, [2]uint32{1, 2}, 0)

	seen := map[Uint4]int{}
	for i := 0; i < 1000; i++ {
		if prev, dup := seen[state.Counter]; dup {
			t.Fatalf("draws %d and %d ran on the same counter %v", prev, i, state.Counter)
		}

		seen[state.Counter] = i
		state.Rand4()
	}
}

func TestLaneDisambiguation(t *testing.T) {
	for _, name := range Names() {
		gen, err := ByName(name)
		if err != nil {
			t.Fatal(err)
		}

		a := NewStateWith(gen, Uint4{}, [2]uint32{1, 2}, 0)
		b := NewStateWith(gen, Uint4{}, [2]uint32{1, 2}, 1)

		if a.Bits() == b.Bits() {
			t.Errorf("%s: lanes 0 and 1 produced identical first blocks", name)
		}
	}
}

func TestSharedInputsCopied(t *testing.T) {
	counter := []uint32{1, 2, 3, 4}
	seed := []uint32{5, 6}

	shared := NewStateShared(counter, seed, 7)
	direct := NewState(Uint4{1, 2, 3, 4}, [2]uint32{5, 6}, 7)

	if shared.Bits() != direct.Bits() {
		t.Fatal("shared-buffer construction diverged from direct construction")
	}

	counter[0] = 99
	seed[0] = 99

	if shared.Bits() != direct.Bits() {
		t.Fatal("state aliased the shared buffers")
	}
}

func TestFacadeMatchesDirectTransform(t *testing.T) {
	state := NewState(Uint4{}, [2]uint32{1, 2}, 0)

	wantKey := Uint4{1, 2, 0, 0}
	if state.Key != wantKey {
		t.Fatalf("got key %v, want %v", state.Key, wantKey)
	}

	direct := UniformDouble4(Default.Permute(Uint4{}, wantKey))

	if got := state.Rand4(); got != direct {
		t.Fatalf("facade draw %v != scale-and-convert of the raw block %v", got, direct)
	}

	if want := (Uint4{1, 0, 0, 0}); state.Counter != want {
		t.Fatalf("counter after the first draw: got %v, want %v", state.Counter, want)
	}
}

func TestScalarMatchesVector(t *testing.T) {
	base := NewState(Uint4{0, 0, 0, 5}, [2]uint32{3, 4}, 2)

	vec := base
	scalar := base
	if got, want := scalar.Rand(), vec.Rand4()[0]; got != want {
		t.Errorf("Rand: got %v, want %v", got, want)
	}

	vec = base
	scalar = base
	if got, want := scalar.FRand(), vec.FRand4()[0]; got != want {
		t.Errorf("FRand: got %v, want %v", got, want)
	}

	vec = base
	scalar = base
	if got, want := scalar.Randn(), vec.Randn4()[0]; got != want {
		t.Errorf("Randn: got %v, want %v", got, want)
	}

	vec = base
	scalar = base
	if got, want := scalar.FRandn(), vec.FRandn4()[0]; got != want {
		t.Errorf("FRandn: got %v, want %v", got, want)
	}

	if scalar.Counter != vec.Counter {
		t.Errorf("scalar and vector draws moved the counter differently: %v != %v", scalar.Counter, vec.Counter)
	}
}

func TestUniformRange(t *testing.T) {
	state := NewState(Uint4{}, [2]uint32{0xA5A5A5A5, 0x5A5A5A5A}, 0)

	sum := 0.0
	for i := 0; i < 2500; i++ {
		for _, v := range state.Rand4() {
			if v < 0 || v > 1 {
				t.Fatalf("double draw %d out of range: %v", i, v)
			}

			sum += v
		}
	}

	if mean := sum / 10000; math.Abs(mean-0.5) > 0.02 {
		t.Errorf("mean of 10000 uniform doubles too far from 0.5: %f", mean)
	}

	state = NewState(Uint4{}, [2]uint32{0xA5A5A5A5, 0x5A5A5A5A}, 1)

	sum = 0.0
	for i := 0; i < 2500; i++ {
		for _, v := range state.FRand4() {
			if v < 0 || v > 1 {
				t.Fatalf("float draw %d out of range: %v", i, v)
			}

			sum += float64(v)
		}
	}

	if mean := sum / 10000; math.Abs(mean-0.5) > 0.02 {
		t.Errorf("mean of 10000 uniform floats too far from 0.5: %f", mean)
	}
}

func TestNormalMoments(t *testing.T) {
	state := NewState(Uint4{}, [2]uint32{123, 456}, 0)

	var n int
	var sum, sumSq float64

	for i := 0; i < 25000; i++ {
		for _, v := range state.Randn4() {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("draw %d is not finite: %v", i, v)
			}

			n++
			sum += v
			sumSq += v * v
		}
	}

	mean := sum / float64(n)
	variance := sumSq/float64(n) - mean*mean

	if math.Abs(mean) > 0.02 {
		t.Errorf("mean of %d normal doubles too far from 0: %f", n, mean)
	}

	if math.Abs(variance-1) > 0.05 {
		t.Errorf("variance of %d normal doubles too far from 1: %f", n, variance)
	}
}

func TestNormalFloatMoments(t *testing.T) {
	state := NewState(Uint4{}, [2]uint32{123, 456}, 1)

	var n int
	var sum, sumSq float64

	for i := 0; i < 25000; i++ {
		for _, v := range state.FRandn4() {
			f := float64(v)
			if math.IsNaN(f) || math.IsInf(f, 0) {
				t.Fatalf("draw %d is not finite: %v", i, v)
			}

			n++
			sum += f
			sumSq += f * f
		}
	}

	mean := sum / float64(n)
	variance := sumSq/float64(n) - mean*mean

	if math.Abs(mean) > 0.02 {
		t.Errorf("mean of %d normal floats too far from 0: %f", n, mean)
	}

	if math.Abs(variance-1) > 0.05 {
		t.Errorf("variance of %d normal floats too far from 1: %f", n, variance)
	}
}

func TestByName(t *testing.T) {
	for _, name := range Names() {
		gen, err := ByName(name)
		if err != nil {
			t.Fatalf("%s: %s", name, err)
		}

		if gen.Name() != name {
			t.Errorf("lookup for %s returned %s", name, gen.Name())
		}
	}

	gen, err := ByName("")
	if err != nil {
		t.Fatal(err)
	}

	if gen.Name() != Default.Name() {
		t.Errorf("empty lookup returned %s instead of the default", gen.Name())
	}

	if _, err := ByName("xorwow"); err == nil {
		t.Error("lookup for an unknown generator did not fail")
	}
}

func TestGeneratorsDistinct(t *testing.T) {
	counter := Uint4{1, 2, 3, 4}
	key := Uint4{5, 6, 7, 8}

	if (Threefry{}).Permute(counter, key) == (Philox{}).Permute(counter, key) {
		t.Fatal("threefry and philox agreed on a block")
	}
}

func TestPhiloxKeyFold(t *testing.T) {
	// lanes must stay distinguishable even though philox folds the four key
	// words down to two
	a := (Philox{}).Permute(Uint4{}, Uint4{1, 2, 0, 0})
	b := (Philox{}).Permute(Uint4{}, Uint4{1, 2, 1, 0})

	if a == b {
		t.Fatal("philox ignored the lane word of the key")
	}
}

type stuckGenerator struct{}

func (stuckGenerator) Name() string {
	return "stuck"
}

func (stuckGenerator) Permute(counter, key Uint4) Uint4 {
	return Uint4{}
}

func TestNormalZeroWordsStayFinite(t *testing.T) {
	state := NewStateWith(stuckGenerator{}, Uint4{}, [2]uint32{1, 2}, 0)

	for i, v := range state.Randn4() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("all-zero uniform input produced a non-finite double at %d: %v", i, v)
		}
	}

	state = NewStateWith(stuckGenerator{}, Uint4{}, [2]uint32{1, 2}, 0)

	for i, v := range state.FRandn4() {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			t.Errorf("all-zero uniform input produced a non-finite float at %d: %v", i, v)
		}
	}
}

func TestZeroValueStateUsesDefault(t *testing.T) {
	var state State

	want := Default.Permute(Uint4{}, Uint4{})
	if got := state.Bits(); got != want {
		t.Fatalf("zero-value state: got %v, want %v", got, want)
	}
}
