package glm

// Variance represents a GLM variance function, giving the variance of the
// response as a function of its mean.
type Variance struct {
	Name string
	Var  VecFunc
}

var constVariance = Variance{
	Name: "Constant",
	Var:  constVar,
}

var binomVariance = Variance{
	Name: "Binomial",
	Var:  binomVar,
}

var identVariance = Variance{
	Name: "Identity",
	Var:  identVar,
}

func constVar(mn []float64, v []float64) {
	one(v)
}

func binomVar(mn []float64, v []float64) {
	for i, p := range mn {
		v[i] = p * (1 - p)
	}
}

func identVar(mn []float64, v []float64) {
	copy(v, mn)
}
