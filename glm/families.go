package glm

import "math"

// FamilyType is the type of GLM family used in a model.
type FamilyType uint8

// GaussianFamily, ... are the supported families for a GLM.
const (
	GaussianFamily FamilyType = iota
	BinomialFamily
	PoissonFamily
)

func (ft FamilyType) String() string {
	switch ft {
	case GaussianFamily:
		return "gaussian"
	case BinomialFamily:
		return "binomial"
	case PoissonFamily:
		return "poisson"
	default:
		return "unknown"
	}
}

// boundEps keeps fitted means away from the boundary of their valid range
// so that variance and link-derivative evaluations stay finite.
const boundEps = 1e-8

// DevianceFunc evaluates and returns the deviance for a GLM.  The
// arguments are the response, the mean values, and the prior weights,
// which may be nil in which case all weights are taken to be 1.
type DevianceFunc func(y, mn, wgt []float64) float64

// Family represents a generalized linear model family.
type Family struct {

	// The name of the family
	Name string

	// The numeric code for the family
	TypeCode FamilyType

	// The deviance function for the family
	Deviance DevianceFunc

	// Clamp restricts an array of mean values to the numerically safe
	// interior of the family's valid mean range, in place.
	Clamp func([]float64)

	// True when the dispersion parameter is fixed at 1 rather than
	// estimated from the residuals.
	fixedDispersion bool
}

var gaussian = Family{
	Name:            "Gaussian",
	TypeCode:        GaussianFamily,
	Deviance:        gaussianDeviance,
	Clamp:           func([]float64) {},
	fixedDispersion: false,
}

var binomial = Family{
	Name:            "Binomial",
	TypeCode:        BinomialFamily,
	Deviance:        binomialDeviance,
	Clamp:           clampUnitInterval,
	fixedDispersion: true,
}

var poisson = Family{
	Name:            "Poisson",
	TypeCode:        PoissonFamily,
	Deviance:        poissonDeviance,
	Clamp:           clampPositive,
	fixedDispersion: true,
}

func clampUnitInterval(mn []float64) {
	for i, m := range mn {
		if m < boundEps {
			mn[i] = boundEps
		} else if m > 1-boundEps {
			mn[i] = 1 - boundEps
		}
	}
}

func clampPositive(mn []float64) {
	for i, m := range mn {
		if m < boundEps {
			mn[i] = boundEps
		}
	}
}

func gaussianDeviance(y, mn, wgt []float64) float64 {

	var dev float64
	var w float64 = 1

	for i := range y {
		if wgt != nil {
			w = wgt[i]
		}
		r := y[i] - mn[i]
		dev += w * r * r
	}

	return dev
}

func binomialDeviance(y, mn, wgt []float64) float64 {

	var dev float64
	var w float64 = 1

	for i := range y {
		if wgt != nil {
			w = wgt[i]
		}
		dev -= 2 * w * (y[i]*math.Log(mn[i]) + (1-y[i])*math.Log(1-mn[i]))
	}

	return dev
}

func poissonDeviance(y, mn, wgt []float64) float64 {

	var dev float64
	var w float64 = 1

	for i := range y {
		if wgt != nil {
			w = wgt[i]
		}
		d := mn[i] - y[i]
		if y[i] > 0 {
			d += y[i] * math.Log(y[i]/mn[i])
		}
		dev += 2 * w * d
	}

	return dev
}
