package priors

import (
	"math"
	"math/rand/v2"
	"testing"
)

func randCube(rng *rand.Rand, n int) []float64 {
	cube := make([]float64, n)
	for i := range cube {
		cube[i] = rng.Float64()
	}
	return cube
}

func closeEnough(t *testing.T, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length %d, want %d", len(got), len(want))
	}
	for i := range got {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("index %d: got %g, want %g", i, got[i], want[i])
		}
	}
}

func TestUniform(t *testing.T) {
	rng := rand.New(rand.NewPCG(0, 1))
	cube := randCube(rng, 5)
	scale := 5.0
	got := Uniform{Min: -scale, Max: scale}.Transform(cube)
	want := make([]float64, len(cube))
	for i, u := range cube {
		want[i] = u*2*scale - scale
	}
	closeEnough(t, got, want)
}

func TestPowerUniform(t *testing.T) {
	rng := rand.New(rand.NewPCG(0, 2))
	cube := randCube(rng, 10)
	for _, power := range []float64{-2, 3} {
		minimum, maximum := 0.1, 20.0
		got := PowerUniform{Min: minimum, Max: maximum, Power: power}.Transform(cube)
		// Equivalent to a uniform prior on theta^(1/power); negative powers
		// invert the traversal of the unit interval.
		umin := math.Min(math.Pow(minimum, 1/power), math.Pow(maximum, 1/power))
		umax := math.Max(math.Pow(minimum, 1/power), math.Pow(maximum, 1/power))
		uni := Uniform{Min: umin, Max: umax}
		var base []float64
		if power < 0 {
			inv := make([]float64, len(cube))
			for i, u := range cube {
				inv[i] = 1 - u
			}
			base = uni.Transform(inv)
		} else {
			base = uni.Transform(cube)
		}
		want := make([]float64, len(base))
		for i, b := range base {
			want[i] = math.Pow(b, power)
		}
		closeEnough(t, got, want)
	}
}

func TestGaussian(t *testing.T) {
	rng := rand.New(rand.NewPCG(0, 3))
	cube := randCube(rng, 5)
	scale := 5.0
	got := Gaussian{Sigma: scale}.Transform(cube)
	want := make([]float64, len(cube))
	for i, u := range cube {
		want[i] = math.Erfinv(u*2-1) * scale * math.Sqrt2
	}
	closeEnough(t, got, want)

	got = Gaussian{Sigma: scale, Half: true}.Transform(cube)
	for i, u := range cube {
		want[i] = math.Erfinv(u) * scale * math.Sqrt2
	}
	closeEnough(t, got, want)
}

func TestExponential(t *testing.T) {
	rng := rand.New(rand.NewPCG(0, 4))
	cube := randCube(rng, 5)
	lambda := 5.0
	got := Exponential{Lambda: lambda}.Transform(cube)
	want := make([]float64, len(cube))
	for i, u := range cube {
		want[i] = -math.Log(1-u) / lambda
	}
	closeEnough(t, got, want)
}

func TestBlock(t *testing.T) {
	rng := rand.New(rand.NewPCG(0, 5))
	cube := randCube(rng, 5)
	block := Block{
		Priors: []Prior{Uniform{Min: 0, Max: 1}, Uniform{Min: 1, Max: 2}},
		Sizes:  []int{2, 3},
	}
	got := block.Transform(cube)
	want := append([]float64(nil), cube...)
	for i := 2; i < 5; i++ {
		want[i] += 1
	}
	closeEnough(t, got, want)
}

func TestForcedIdentifiability(t *testing.T) {
	rng := rand.New(rand.NewPCG(0, 6))
	cube := randCube(rng, 5)
	got := ForcedIdentifiability(cube)
	// Direct recurrence from the sampler's own transform.
	n := len(cube)
	want := make([]float64, n)
	want[n-1] = math.Pow(cube[n-1], 1/float64(n))
	for i := n - 2; i >= 0; i-- {
		want[i] = math.Pow(cube[i], 1/float64(i+1)) * want[i+1]
	}
	closeEnough(t, got, want)
	for i := 1; i < n; i++ {
		if got[i] < got[i-1] {
			t.Fatalf("transform not ordered at %d: %v", i, got)
		}
	}
}

func TestSortedAndAdaptiveVariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(0, 7))
	cube := randCube(rng, 5)

	sorted := Uniform{Min: 0, Max: 1, Sort: true}.Transform(cube)
	closeEnough(t, sorted, ForcedIdentifiability(cube))

	adaptive := Uniform{Min: 0, Max: 1, Adaptive: true, Sort: true}.Transform(cube)
	want := append([]float64(nil), cube...)
	want[0] = 0.5 + want[0]*float64(len(cube)-1)
	nfunc := int(math.Round(want[0]))
	copy(want[1:1+nfunc], ForcedIdentifiability(want[1:1+nfunc]))
	closeEnough(t, adaptive, want)

	// A NaN selector poisons the whole sample.
	cube[0] = math.NaN()
	poisoned := Uniform{Min: 0, Max: 1, Adaptive: true, Sort: true}.Transform(cube)
	for i, v := range poisoned {
		if !math.IsNaN(v) {
			t.Fatalf("index %d not NaN: %g", i, v)
		}
	}
}

func TestBlockNames(t *testing.T) {
	cases := []struct {
		prior Prior
		want  string
	}{
		{Uniform{Min: 1, Max: 2, Adaptive: true, Sort: true}, "adaptive_sorted_uniform"},
		{Uniform{Min: 1, Max: 2, Sort: true}, "sorted_uniform"},
		{PowerUniform{Min: 1, Max: 2, Power: -3}, "power_uniform"},
		{Exponential{Lambda: 1}, "exponential"},
		{Gaussian{Sigma: 3, Half: true, Mu: 0.5}, "half_gaussian"},
		{Gaussian{Sigma: 3}, "gaussian"},
	}
	for _, c := range cases {
		if got := c.prior.BlockName(); got != c.want {
			t.Errorf("BlockName = %q, want %q", got, c.want)
		}
	}
}
