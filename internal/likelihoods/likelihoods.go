// Package likelihoods provides the standard test likelihoods for nested
// sampling runs. Each is a pure function of the parameter vector returning
// the log-likelihood and an (empty unless noted) vector of derived
// parameters.
package likelihoods

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Likelihood evaluates the log-likelihood at theta.
type Likelihood interface {
	LogL(theta []float64) (float64, []float64)
	Name() string
}

// LogGaussianPDF is the log density of a one dimensional Gaussian.
func LogGaussianPDF(x, mu, sigma float64) float64 {
	return -0.5*math.Pow((x-mu)/sigma, 2) - 0.5*math.Log(2*math.Pi*sigma*sigma)
}

// Gaussian is a spherically symmetric Gaussian likelihood centred on the
// origin.
type Gaussian struct {
	Sigma float64
}

func (g Gaussian) LogL(theta []float64) (float64, []float64) {
	sum := 0.0
	for _, t := range theta {
		sum += t * t
	}
	dim := float64(len(theta))
	logl := -sum/(2*g.Sigma*g.Sigma) - math.Log(2*math.Pi*g.Sigma*g.Sigma)*dim/2
	return logl, []float64{}
}

func (g Gaussian) Name() string { return "gaussian" }

// GaussianShell peaks on a spherical shell of radius RShell.
type GaussianShell struct {
	Sigma  float64
	RShell float64
}

func (g GaussianShell) LogL(theta []float64) (float64, []float64) {
	r2 := 0.0
	for _, t := range theta {
		r2 += t * t
	}
	r := math.Sqrt(r2)
	return -math.Pow(r-g.RShell, 2) / (2 * g.Sigma * g.Sigma), []float64{}
}

func (g GaussianShell) Name() string { return "gshell" }

// GaussianMix is a mixture of four Gaussian components of shared scale
// Sigma placed symmetrically at distance Sep from the origin in the first
// two dimensions, with weights 0.4, 0.3, 0.2 and 0.1.
type GaussianMix struct {
	Sigma float64
	Sep   float64
}

func (g GaussianMix) LogL(theta []float64) (float64, []float64) {
	sigma, sep := g.Sigma, g.Sep
	if sigma == 0 {
		sigma = 1
	}
	if sep == 0 {
		sep = 4
	}
	weights := []float64{0.4, 0.3, 0.2, 0.1}
	centres := [][2]float64{{0, sep}, {0, -sep}, {sep, 0}, {-sep, 0}}
	terms := make([]float64, len(weights))
	for k := range weights {
		sum := 0.0
		for d, t := range theta {
			mu := 0.0
			if d < 2 {
				mu = centres[k][d]
			}
			sum += LogGaussianPDF(t, mu, sigma)
		}
		terms[k] = math.Log(weights[k]) + sum
	}
	return floats.LogSumExp(terms), []float64{}
}

func (g GaussianMix) Name() string { return "gmix" }

// logLogGammaPDF is the log density of a log-gamma distribution with unit
// shape, location mu and scale sigma.
func logLogGammaPDF(x, mu, sigma float64) float64 {
	y := (x - mu) / sigma
	return y - math.Exp(y) - math.Log(sigma)
}

// LogGammaMix is the standard bimodal log-gamma/Gaussian mixture test
// problem: the first dimension mixes two log-gamma components, the second
// two Gaussians, and remaining dimensions alternate between a single
// log-gamma and a single Gaussian. Requires an even dimension of at least 2.
type LogGammaMix struct{}

func (LogGammaMix) LogL(theta []float64) (float64, []float64) {
	const (
		mu    = 10.0
		sigma = 1.0
	)
	logl := floats.LogSumExp([]float64{
		math.Log(0.5) + logLogGammaPDF(theta[0], -mu, sigma),
		math.Log(0.5) + logLogGammaPDF(theta[0], mu, sigma),
	})
	logl += floats.LogSumExp([]float64{
		math.Log(0.5) + LogGaussianPDF(theta[1], -mu, sigma),
		math.Log(0.5) + LogGaussianPDF(theta[1], mu, sigma),
	})
	for d := 2; d < len(theta); d++ {
		if d < (len(theta)+2)/2 {
			logl += logLogGammaPDF(theta[d], 0, sigma)
		} else {
			logl += LogGaussianPDF(theta[d], 0, sigma)
		}
	}
	return logl, []float64{}
}

func (LogGammaMix) Name() string { return "lgmix" }

// Rastrigin is the multimodal "bunch of grapes" test problem.
type Rastrigin struct{}

func (Rastrigin) LogL(theta []float64) (float64, []float64) {
	a := 10.0
	sum := a * float64(len(theta))
	for _, t := range theta {
		sum += t*t - a*math.Cos(2*math.Pi*t)
	}
	return -sum, []float64{}
}

func (Rastrigin) Name() string { return "rastrigin" }

// Rosenbrock is the curved "banana" degeneracy test problem.
type Rosenbrock struct{}

func (Rosenbrock) LogL(theta []float64) (float64, []float64) {
	const (
		a = 1.0
		b = 100.0
	)
	sum := 0.0
	for i := 0; i+1 < len(theta); i++ {
		sum += math.Pow(a-theta[i], 2) + b*math.Pow(theta[i+1]-theta[i]*theta[i], 2)
	}
	return -sum, []float64{}
}

func (Rosenbrock) Name() string { return "rosenbrock" }
