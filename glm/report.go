package glm

import (
	"math"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/stat/distuv"
)

// Coefficient is one row of a coefficient report.  The Exp fields are
// populated only when the report was built with Exponentiate set.
type Coefficient struct {
	Name      string
	Estimate  float64
	SE        float64
	Statistic float64
	PValue    float64
	Lower     float64
	Upper     float64

	ExpEstimate float64
	ExpLower    float64
	ExpUpper    float64
}

// ReportOptions controls report construction.
type ReportOptions struct {

	// Report exp(estimate) and exponentiated confidence limits as
	// additional columns.  The standard error stays on the link scale.
	Exponentiate bool

	// Multiplier for the confidence interval half-width.  Zero means the
	// default of 1.96 (a 95% interval).
	CriticalValue float64
}

// defaultCritValue gives a 95% confidence interval.
const defaultCritValue = 1.96

// Report is the terminal coefficient table for one fit/covariance pair.
// Rows appear in design matrix column order: intercept first, then
// predictors in specification order with categorical expansions grouped.
type Report struct {
	Rows          []Coefficient
	Exponentiated bool

	result *Result
	cov    *Covariance
}

// NewReport assembles the coefficient report for the fit using the given
// covariance matrix.  Two-sided p-values come from the standard normal
// for binomial and poisson families, and from the t distribution with
// residual degrees of freedom for gaussian.
func NewReport(r *Result, cov *Covariance, opts ReportOptions) (*Report, error) {

	se := cov.SE()
	if len(se) != len(r.params) {
		return nil, errors.Newf("glm: covariance has %d rows, model has %d coefficients", len(se), len(r.params))
	}

	crit := opts.CriticalValue
	if crit == 0 {
		crit = defaultCritValue
	}

	cdf := normCDF
	if r.fam.TypeCode == GaussianFamily {
		st := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(r.ResidDF())}
		cdf = st.CDF
	}

	rows := make([]Coefficient, len(r.params))
	for j, est := range r.params {

		stat := est / se[j]
		row := Coefficient{
			Name:      r.design.Names[j],
			Estimate:  est,
			SE:        se[j],
			Statistic: stat,
			PValue:    2 * cdf(-math.Abs(stat)),
			Lower:     est - crit*se[j],
			Upper:     est + crit*se[j],
		}

		if opts.Exponentiate {
			row.ExpEstimate = math.Exp(row.Estimate)
			row.ExpLower = math.Exp(row.Lower)
			row.ExpUpper = math.Exp(row.Upper)
		}

		rows[j] = row
	}

	return &Report{
		Rows:          rows,
		Exponentiated: opts.Exponentiate,
		result:        r,
		cov:           cov,
	}, nil
}

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

func normCDF(x float64) float64 {
	return stdNormal.CDF(x)
}
