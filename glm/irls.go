package glm

import (
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// fitIRLS runs iteratively reweighted least squares.  The starting mean is
// converted to initial coefficients by one weighted least squares solve,
// after which iterations alternate weight/response updates with solves of
// the weighted normal equations X'WX b = X'Wz until the relative deviance
// change or the coefficient change falls below tolerance.
func (m *Model) fitIRLS() (*Result, error) {

	d := m.design
	n := d.NObs
	nvar := m.NumParams()
	y := d.Y
	wgt := d.Weights

	xdat := make([][]float64, nvar)
	for j := range xdat {
		xdat[j] = mat.Col(nil, j, d.X)
	}

	linpred := make([]float64, n)
	mn := make([]float64, n)
	va := make([]float64, n)
	lderiv := make([]float64, n)
	irlsw := make([]float64, n)
	adjy := make([]float64, n)

	// One weighted solve at the current mean: working weights
	// W = prior / (V * (d eta/d mu)^2), working response
	// z = eta + (y - mu) * d eta/d mu.
	step := func(iter int) ([]float64, error) {
		m.link.Deriv(mn, lderiv)
		m.vari.Var(mn, va)
		for i := range y {
			w := 1.0
			if wgt != nil {
				w = wgt[i]
			}
			irlsw[i] = w / (va[i] * lderiv[i] * lderiv[i])
			adjy[i] = linpred[i] + (y[i]-mn[i])*lderiv[i]
		}
		return wlsSolve(xdat, adjy, irlsw, iter)
	}

	// Boundary-avoiding starting mean, converted to an initial linear
	// predictor and coefficient vector.
	m.startingMu(y, mn)
	m.fam.Clamp(mn)
	m.link.Link(mn, linpred)

	params, err := step(0)
	if err != nil {
		return nil, err
	}

	update := func() {
		zero(linpred)
		for j := range xdat {
			floats.AddScaled(linpred, params[j], xdat[j])
		}
		m.link.InvLink(linpred, mn)
		m.fam.Clamp(mn)
	}
	update()
	dev := m.fam.Deviance(y, mn, wgt)

	conv := false
	iterations := 0

	for iter := 1; iter <= m.maxIter; iter++ {

		newParams, err := step(iter)
		if err != nil {
			return nil, err
		}

		var diff float64
		for j := range newParams {
			ch := math.Abs(newParams[j]-params[j]) / (1 + math.Abs(newParams[j]))
			if ch > diff {
				diff = ch
			}
		}

		params = newParams
		update()
		devNew := m.fam.Deviance(y, mn, wgt)

		if m.log != nil {
			m.log.Debug("irls iteration",
				zap.Int("iteration", iter),
				zap.Float64("deviance", devNew))
		}

		iterations = iter
		if math.Abs(devNew-dev)/(math.Abs(devNew)+0.1) < m.tol || diff < m.tol {
			dev = devNew
			conv = true
			break
		}
		dev = devNew
	}

	// Working weights and link derivative at the final coefficients, for
	// covariance estimation.
	m.link.Deriv(mn, lderiv)
	m.vari.Var(mn, va)
	for i := range y {
		w := 1.0
		if wgt != nil {
			w = wgt[i]
		}
		irlsw[i] = w / (va[i] * lderiv[i] * lderiv[i])
	}

	res := &Result{
		design:     d,
		fam:        m.fam,
		link:       m.link,
		vari:       m.vari,
		params:     params,
		mean:       mn,
		weights:    irlsw,
		linkDeriv:  lderiv,
		deviance:   dev,
		iterations: iterations,
		converged:  conv,
	}

	if !conv {
		return nil, &NonConvergenceError{Iterations: iterations, Deviance: dev, Last: res}
	}

	if m.log != nil {
		m.log.Debug("irls converged", zap.Int("iterations", iterations))
	}

	return res, nil
}

// startingMu fills mn with a starting mean away from the boundary of the
// family's valid range: (y + mean(y))/2 for binomial and poisson, y itself
// for gaussian.
func (m *Model) startingMu(y, mn []float64) {

	if m.fam.TypeCode == GaussianFamily {
		copy(mn, y)
		return
	}

	q := floats.Sum(y) / float64(len(y))
	for i := range mn {
		mn[i] = (y[i] + q) / 2
	}
}

// wlsSolve solves the weighted normal equations X'WX b = X'Wz by Cholesky
// factorization of X'WX.
func wlsSolve(xdat [][]float64, adjy, w []float64, iter int) ([]float64, error) {

	nvar := len(xdat)

	xtwx := mat.NewSymDense(nvar, nil)
	xtwz := make([]float64, nvar)

	for j1 := 0; j1 < nvar; j1++ {
		xa := xdat[j1]

		var u float64
		for i := range adjy {
			u += w[i] * xa[i] * adjy[i]
		}
		xtwz[j1] = u

		for j2 := 0; j2 <= j1; j2++ {
			xb := xdat[j2]
			var v float64
			for i := range xa {
				v += w[i] * xa[i] * xb[i]
			}
			xtwx.SetSym(j1, j2, v)
		}
	}

	var chol mat.Cholesky
	if !chol.Factorize(xtwx) {
		return nil, &SingularMatrixError{Iteration: iter}
	}

	var beta mat.VecDense
	if err := chol.SolveVecTo(&beta, mat.NewVecDense(nvar, xtwz)); err != nil {
		return nil, &SingularMatrixError{Iteration: iter}
	}

	out := make([]float64, nvar)
	copy(out, beta.RawVector().Data)

	return out, nil
}
