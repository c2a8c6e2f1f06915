package glm

import (
	"go.uber.org/zap"

	"github.com/BrownEpi/StatsCompPH-BrownSPH/formula"
)

// Default convergence settings for IRLS.
const (
	defaultTol     = 1e-8
	defaultMaxIter = 25
)

// Model represents a generalized linear model before fitting.
type Model struct {
	design *formula.Design

	// The GLM family
	fam *Family

	// The GLM link function
	link *Link

	// The GLM variance function
	vari *Variance

	// Convergence tolerance on the relative deviance or coefficient
	// change between IRLS iterations.
	tol float64

	// Maximum number of IRLS iterations.
	maxIter int

	// If not nil, write per-iteration log messages here.
	log *zap.Logger
}

// NewModel creates a model for the given design and family/link pair.
// The variance and link-derivative functions are taken from the registry
// of supported combinations.
func NewModel(design *formula.Design, fam FamilyType, link LinkType) (*Model, error) {

	fns, err := lookup(fam, link)
	if err != nil {
		return nil, err
	}

	return &Model{
		design:  design,
		fam:     fns.fam,
		link:    fns.link,
		vari:    fns.vari,
		tol:     defaultTol,
		maxIter: defaultMaxIter,
	}, nil
}

// Tol sets the convergence tolerance.
func (m *Model) Tol(tol float64) *Model {
	m.tol = tol
	return m
}

// MaxIter sets the maximum number of IRLS iterations.
func (m *Model) MaxIter(n int) *Model {
	m.maxIter = n
	return m
}

// Log takes a logger that will receive per-iteration fitting messages.
func (m *Model) Log(lg *zap.Logger) *Model {
	m.log = lg
	return m
}

// NumParams returns the number of columns in the design matrix.
func (m *Model) NumParams() int {
	return len(m.design.Names)
}

// Fit estimates the model parameters using IRLS and returns a results
// value.  A NonConvergenceError carries the last fit state in its Last
// field.
func (m *Model) Fit() (*Result, error) {
	return m.fitIRLS()
}

// Result holds the state of a completed IRLS fit.  It is immutable once
// produced; covariance matrices and reports are derived from it.
type Result struct {
	design *formula.Design

	fam  *Family
	link *Link
	vari *Variance

	// Final coefficient estimates, in design column order.
	params []float64

	// Fitted means at the final coefficients.
	mean []float64

	// IRLS working weights at the final coefficients, including any
	// prior weights.
	weights []float64

	// Link derivative d eta / d mu at the fitted means.
	linkDeriv []float64

	deviance   float64
	iterations int
	converged  bool
}

// Design returns the design the model was fit to.
func (r *Result) Design() *formula.Design {
	return r.design
}

// Names returns the design column names, in coefficient order.
func (r *Result) Names() []string {
	return r.design.Names
}

// Params returns the fitted coefficients.
func (r *Result) Params() []float64 {
	return r.params
}

// FittedMeans returns the fitted mean response for each retained row.
func (r *Result) FittedMeans() []float64 {
	return r.mean
}

// WorkingWeights returns the IRLS working weights at convergence.
func (r *Result) WorkingWeights() []float64 {
	return r.weights
}

// Deviance returns the deviance at the final coefficients.
func (r *Result) Deviance() float64 {
	return r.deviance
}

// Iterations returns the number of IRLS iterations performed.
func (r *Result) Iterations() int {
	return r.iterations
}

// Converged reports whether the fit met tolerance within the iteration cap.
func (r *Result) Converged() bool {
	return r.converged
}

// ResidDF returns the residual degrees of freedom, the number of retained
// rows minus the number of coefficients.
func (r *Result) ResidDF() int {
	return r.design.NObs - len(r.params)
}

// Family returns the family the model was fit with.
func (r *Result) Family() FamilyType {
	return r.fam.TypeCode
}

// LinkName returns the name of the link function the model was fit with.
func (r *Result) LinkName() string {
	return r.link.Name
}
