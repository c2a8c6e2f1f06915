package glm

import (
	"math"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/mat"
)

// Covariance holds a p x p coefficient covariance matrix together with
// the standard errors from its diagonal.  Several Covariance values can
// be derived independently from one fit.
type Covariance struct {

	// "model", "robust", or "cluster"
	Kind string

	vcov *mat.SymDense
	se   []float64
}

// VCov returns the covariance matrix.
func (c *Covariance) VCov() *mat.SymDense {
	return c.vcov
}

// At returns the (i, j) element of the covariance matrix.
func (c *Covariance) At(i, j int) float64 {
	return c.vcov.At(i, j)
}

// SE returns the standard errors, the square roots of the diagonal.
func (c *Covariance) SE() []float64 {
	return c.se
}

// xtwx forms X'WX at the working weights from the end of the fit.
func (r *Result) xtwx() *mat.SymDense {

	nvar := len(r.params)
	s := mat.NewSymDense(nvar, nil)

	xdat := make([][]float64, nvar)
	for j := range xdat {
		xdat[j] = mat.Col(nil, j, r.design.X)
	}

	for j1 := 0; j1 < nvar; j1++ {
		for j2 := 0; j2 <= j1; j2++ {
			var u float64
			for i := range r.weights {
				u += r.weights[i] * xdat[j1][i] * xdat[j2][i]
			}
			s.SetSym(j1, j2, u)
		}
	}

	return s
}

// bread returns (X'WX)^-1, the shared factor of the model-based and
// sandwich covariance estimators.
func (r *Result) bread() (*mat.SymDense, error) {

	var chol mat.Cholesky
	if !chol.Factorize(r.xtwx()) {
		return nil, &SingularMatrixError{Iteration: r.iterations}
	}

	var inv mat.SymDense
	if err := chol.InverseTo(&inv); err != nil {
		return nil, &SingularMatrixError{Iteration: r.iterations}
	}

	return &inv, nil
}

// Dispersion returns the dispersion estimate phi: fixed at 1 for
// binomial and poisson, estimated from the weighted residual sum of
// squares over the residual degrees of freedom for gaussian.
func (r *Result) Dispersion() float64 {

	if r.fam.fixedDispersion {
		return 1
	}

	d := r.design
	va := make([]float64, d.NObs)
	r.vari.Var(r.mean, va)

	var rss float64
	for i, yv := range d.Y {
		w := 1.0
		if d.Weights != nil {
			w = d.Weights[i]
		}
		res := yv - r.mean[i]
		rss += w * res * res / va[i]
	}

	return rss / float64(r.ResidDF())
}

// ModelCovariance returns the model-based covariance phi * (X'WX)^-1.
func ModelCovariance(r *Result) (*Covariance, error) {

	bread, err := r.bread()
	if err != nil {
		return nil, err
	}

	phi := r.Dispersion()
	nvar := len(r.params)

	vcov := mat.NewSymDense(nvar, nil)
	for i := 0; i < nvar; i++ {
		for j := i; j < nvar; j++ {
			vcov.SetSym(i, j, phi*bread.At(i, j))
		}
	}

	return newCovariance("model", vcov), nil
}

// RobustCovariance returns the sandwich covariance bread*meat*bread.  The
// meat aggregates squared score contributions per observation, or per
// cluster when clustered is true and the design carries cluster
// identifiers; each cluster is then treated as one independent unit.
// Small-sample corrections follow the usual n/(n-p) form, with
// g/(g-1) * (n-1)/(n-p) in the clustered case, so that singleton clusters
// reproduce the ordinary sandwich.
func RobustCovariance(r *Result, clustered bool) (*Covariance, error) {

	bread, err := r.bread()
	if err != nil {
		return nil, err
	}

	d := r.design
	n := d.NObs
	nvar := len(r.params)

	// Score residual on the linear predictor scale; the working weight
	// already carries any prior weight.
	sres := make([]float64, n)
	for i := range sres {
		sres[i] = r.weights[i] * (d.Y[i] - r.mean[i]) * r.linkDeriv[i]
	}

	meat := mat.NewSymDense(nvar, nil)
	var corr float64

	if !clustered {
		xrow := make([]float64, nvar)
		for i := 0; i < n; i++ {
			mat.Row(xrow, i, d.X)
			meat.SymRankOne(meat, sres[i]*sres[i], mat.NewVecDense(nvar, xrow))
		}
		corr = float64(n) / float64(r.ResidDF())
	} else {
		if d.Cluster == nil {
			return nil, errors.New("glm: design has no cluster identifiers")
		}

		sums := make(map[string][]float64)
		var order []string
		for i, id := range d.Cluster {
			u, ok := sums[id]
			if !ok {
				u = make([]float64, nvar)
				sums[id] = u
				order = append(order, id)
			}
			for j := 0; j < nvar; j++ {
				u[j] += sres[i] * d.X.At(i, j)
			}
		}

		g := len(order)
		if g < 2 {
			return nil, errors.Newf("glm: cluster-robust covariance needs at least 2 clusters, have %d", g)
		}

		for _, id := range order {
			meat.SymRankOne(meat, 1, mat.NewVecDense(nvar, sums[id]))
		}
		corr = float64(g*(n-1)) / float64((g-1)*r.ResidDF())
	}

	var t, v mat.Dense
	t.Mul(bread, meat)
	v.Mul(&t, bread)

	vcov := mat.NewSymDense(nvar, nil)
	for i := 0; i < nvar; i++ {
		for j := i; j < nvar; j++ {
			vcov.SetSym(i, j, corr*0.5*(v.At(i, j)+v.At(j, i)))
		}
	}

	kind := "robust"
	if clustered {
		kind = "cluster"
	}

	return newCovariance(kind, vcov), nil
}

func newCovariance(kind string, vcov *mat.SymDense) *Covariance {

	nvar := vcov.SymmetricDim()
	se := make([]float64, nvar)
	for i := range se {
		se[i] = math.Sqrt(vcov.At(i, i))
	}

	return &Covariance{Kind: kind, vcov: vcov, se: se}
}
