// Package priors maps unit hypercube samples to the parameter space. Each
// prior implements the same capability interface so samplers, configuration
// rendering and tests treat them uniformly.
package priors

import (
	"math"
)

// Prior transforms a unit hypercube sample into parameter space. BlockName
// and BlockParams expose the prior's identity for the sampler's textual
// configuration (see internal/sampler).
type Prior interface {
	Transform(cube []float64) []float64
	BlockName() string
	BlockParams() []float64
}

// ForcedIdentifiability maps unit cube values to a sorted sample of the unit
// interval, forcing an ordering on the transformed parameters. It is shared
// by every sorted prior variant.
func ForcedIdentifiability(cube []float64) []float64 {
	n := len(cube)
	theta := make([]float64, n)
	if n == 0 {
		return theta
	}
	theta[n-1] = math.Pow(cube[n-1], 1.0/float64(n))
	for i := n - 2; i >= 0; i-- {
		theta[i] = math.Pow(cube[i], 1.0/float64(i+1)) * theta[i+1]
	}
	return theta
}

// prepCube applies the shared adaptive and sorted pre-transforms. With sort
// set, the whole cube is forced into ascending order. With adaptive set, the
// first element selects how many of the following elements are active and
// only those are sorted; a NaN selector poisons the whole sample.
func prepCube(cube []float64, adaptive, sorted bool) []float64 {
	out := append([]float64(nil), cube...)
	if adaptive {
		if math.IsNaN(out[0]) {
			for i := range out {
				out[i] = math.NaN()
			}
			return out
		}
		out[0] = 0.5 + out[0]*float64(len(out)-1)
		nfunc := int(math.Round(out[0]))
		if nfunc > len(out)-1 {
			nfunc = len(out) - 1
		}
		if sorted && nfunc > 0 {
			copy(out[1:1+nfunc], ForcedIdentifiability(out[1:1+nfunc]))
		}
		return out
	}
	if sorted {
		return ForcedIdentifiability(out)
	}
	return out
}

// blockName prefixes a base prior name with its adaptive/sorted variants in
// the order the sampler's configuration language expects.
func blockName(base string, adaptive, sorted bool) string {
	name := base
	if sorted {
		name = "sorted_" + name
	}
	if adaptive {
		name = "adaptive_" + name
	}
	return name
}

// Uniform maps the unit cube onto [Min, Max] per dimension.
type Uniform struct {
	Min, Max float64
	Adaptive bool
	Sort     bool
}

func (p Uniform) Transform(cube []float64) []float64 {
	out := prepCube(cube, p.Adaptive, p.Sort)
	for i := range out {
		if p.Adaptive && i == 0 {
			continue
		}
		out[i] = p.Min + out[i]*(p.Max-p.Min)
	}
	return out
}

func (p Uniform) BlockName() string      { return blockName("uniform", p.Adaptive, p.Sort) }
func (p Uniform) BlockParams() []float64 { return []float64{p.Min, p.Max} }

// PowerUniform distributes theta so that theta^(1/Power) is uniform between
// the transformed bounds. Negative powers invert the traversal order of the
// unit interval.
type PowerUniform struct {
	Min, Max float64
	Power    float64
}

func (p PowerUniform) Transform(cube []float64) []float64 {
	umin := math.Min(math.Pow(p.Min, 1.0/p.Power), math.Pow(p.Max, 1.0/p.Power))
	umax := math.Max(math.Pow(p.Min, 1.0/p.Power), math.Pow(p.Max, 1.0/p.Power))
	out := make([]float64, len(cube))
	for i, u := range cube {
		if p.Power < 0 {
			u = 1 - u
		}
		out[i] = math.Pow(umin+u*(umax-umin), p.Power)
	}
	return out
}

func (p PowerUniform) BlockName() string      { return "power_uniform" }
func (p PowerUniform) BlockParams() []float64 { return []float64{p.Min, p.Max, p.Power} }

// Gaussian is a spherically symmetric Gaussian prior of scale Sigma centred
// on the origin, or a half-Gaussian offset by Mu when Half is set.
type Gaussian struct {
	Sigma    float64
	Half     bool
	Mu       float64
	Adaptive bool
	Sort     bool
}

func (p Gaussian) Transform(cube []float64) []float64 {
	out := prepCube(cube, p.Adaptive, p.Sort)
	for i := range out {
		if p.Adaptive && i == 0 {
			continue
		}
		if p.Half {
			out[i] = p.Mu + math.Erfinv(out[i])*p.Sigma*math.Sqrt2
		} else {
			out[i] = math.Erfinv(2*out[i]-1) * p.Sigma * math.Sqrt2
		}
	}
	return out
}

func (p Gaussian) BlockName() string {
	base := "gaussian"
	if p.Half {
		base = "half_gaussian"
	}
	return blockName(base, p.Adaptive, p.Sort)
}

func (p Gaussian) BlockParams() []float64 {
	if p.Half {
		return []float64{p.Mu, p.Sigma}
	}
	return []float64{p.Sigma}
}

// Exponential maps the unit cube onto an exponential distribution with rate
// Lambda.
type Exponential struct {
	Lambda float64
}

func (p Exponential) Transform(cube []float64) []float64 {
	out := make([]float64, len(cube))
	for i, u := range cube {
		out[i] = -math.Log(1-u) / p.Lambda
	}
	return out
}

func (p Exponential) BlockName() string      { return "exponential" }
func (p Exponential) BlockParams() []float64 { return []float64{p.Lambda} }

// Block composes sub-priors over contiguous slices of the cube: Sizes[i]
// consecutive dimensions are transformed by Priors[i].
type Block struct {
	Priors []Prior
	Sizes  []int
}

func (p Block) Transform(cube []float64) []float64 {
	out := make([]float64, 0, len(cube))
	start := 0
	for i, sub := range p.Priors {
		end := start + p.Sizes[i]
		out = append(out, sub.Transform(cube[start:end])...)
		start = end
	}
	return out
}

// BlockName of a composite prior is the name of its first block; rendering
// of every block is handled by the configuration writer.
func (p Block) BlockName() string      { return p.Priors[0].BlockName() }
func (p Block) BlockParams() []float64 { return p.Priors[0].BlockParams() }
