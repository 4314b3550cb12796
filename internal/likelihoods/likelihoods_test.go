package likelihoods

import (
	"math"
	"testing"
)

func almostEqual(t *testing.T, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("got %v, want %v (tol %v)", got, want, tol)
	}
}

func TestGaussianFactorises(t *testing.T) {
	g := Gaussian{Sigma: 1.5}
	theta := []float64{0.3, -1.2, 2.0}
	got, derived := g.LogL(theta)
	want := 0.0
	for _, x := range theta {
		want += LogGaussianPDF(x, 0, 1.5)
	}
	almostEqual(t, got, want, 1e-12)
	if len(derived) != 0 {
		t.Fatalf("unexpected derived parameters: %v", derived)
	}
}

func TestGaussianShellPeaksOnShell(t *testing.T) {
	g := GaussianShell{Sigma: 0.2, RShell: 2.0}
	on, _ := g.LogL([]float64{2, 0})
	almostEqual(t, on, 0, 1e-12)
	off, _ := g.LogL([]float64{2.5, 0})
	almostEqual(t, off, -math.Pow(0.5, 2)/(2*0.04), 1e-12)
	if off >= on {
		t.Fatalf("off-shell logl %v not below on-shell %v", off, on)
	}
}

func TestGaussianMixSymmetry(t *testing.T) {
	g := GaussianMix{Sigma: 1, Sep: 4}
	a, _ := g.LogL([]float64{0, 4})
	b, _ := g.LogL([]float64{0, -4})
	// Weights 0.4 and 0.3 on the two vertical components.
	if a <= b {
		t.Fatalf("heavier component not favoured: %v <= %v", a, b)
	}
	almostEqual(t, a-b, 0, 1.2)
}

func TestGaussianMixAtCentre(t *testing.T) {
	g := GaussianMix{Sigma: 1, Sep: 4}
	got, _ := g.LogL([]float64{0, 4})
	// Dominated by the weight-0.4 component centred there.
	base := LogGaussianPDF(0, 0, 1) + LogGaussianPDF(4, 4, 1)
	if got < math.Log(0.4)+base {
		t.Fatalf("logl %v below dominant component bound %v", got, math.Log(0.4)+base)
	}
	if got > base {
		t.Fatalf("logl %v above total density bound %v", got, base)
	}
}

func TestLogGammaMixModes(t *testing.T) {
	lg := LogGammaMix{}
	// The second dimension is a Gaussian mixture at +-10, so the two modes
	// have equal likelihood by symmetry.
	a, _ := lg.LogL([]float64{-10, 10})
	b, _ := lg.LogL([]float64{-10, -10})
	almostEqual(t, a, b, 1e-12)
}

func TestRastriginGlobalMaximum(t *testing.T) {
	r := Rastrigin{}
	peak, _ := r.LogL([]float64{0, 0})
	almostEqual(t, peak, 0, 1e-12)
	// Local modes sit near integer lattice points, below the global peak.
	local, _ := r.LogL([]float64{1, 0})
	if local >= peak {
		t.Fatalf("lattice point %v not below origin %v", local, peak)
	}
}

func TestRosenbrockValley(t *testing.T) {
	r := Rosenbrock{}
	got, _ := r.LogL([]float64{0, 0})
	almostEqual(t, got, -1, 1e-12)
	best, _ := r.LogL([]float64{1, 1})
	almostEqual(t, best, 0, 1e-12)
}

func TestNames(t *testing.T) {
	cases := map[string]Likelihood{
		"gaussian":   Gaussian{Sigma: 1},
		"gshell":     GaussianShell{Sigma: 1, RShell: 2},
		"gmix":       GaussianMix{},
		"lgmix":      LogGammaMix{},
		"rastrigin":  Rastrigin{},
		"rosenbrock": Rosenbrock{},
	}
	for want, l := range cases {
		if got := l.Name(); got != want {
			t.Fatalf("Name() = %q, want %q", got, want)
		}
	}
}
