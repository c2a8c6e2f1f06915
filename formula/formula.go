// Package formula turns a named dataset and a model specification into the
// numeric design matrix and response vector consumed by the fitting
// routines.  Rows are filtered to complete cases with respect to the
// variables the specification references, categorical variables expand
// into indicator columns against a declared reference level, and the
// resulting matrix is validated eagerly before any iterative work starts.
package formula

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/BrownEpi/StatsCompPH-BrownSPH/dataset"
)

// Term is one predictor term: a single variable when B is empty, or the
// interaction (elementwise product) of two variables otherwise.
type Term struct {
	A string
	B string
}

// ParseTerm parses a term written as "x" or "x:z".
func ParseTerm(s string) (Term, error) {

	parts := strings.Split(s, ":")
	switch len(parts) {
	case 1:
		return Term{A: parts[0]}, nil
	case 2:
		return Term{A: parts[0], B: parts[1]}, nil
	default:
		return Term{}, errors.Newf("formula: cannot parse term %q", s)
	}
}

func (t Term) String() string {
	if t.B == "" {
		return t.A
	}
	return t.A + ":" + t.B
}

// Spec describes a model: one response variable, an ordered list of
// predictor terms, the set of variables to be treated as categorical with
// their reference levels, and intercept control.
type Spec struct {
	Response    string
	Terms       []Term
	Categorical map[string]string
	NoIntercept bool
}

// Options carries the non-formula variables attached to a design: an
// optional prior weight variable and an optional cluster identifier
// variable.
type Options struct {
	Weight  string
	Cluster string
}

// Design is the immutable output of Build: the design matrix X with its
// column names, the response vector, optional prior weights and cluster
// identifiers aligned with the retained rows, and the retained/dropped
// row counts.
type Design struct {
	X       *mat.Dense
	Names   []string
	Y       []float64
	Weights []float64
	Cluster []string

	NObs     int
	NDropped int
}

// expansion is the set of numeric columns a single variable contributes
// to the design matrix, restricted to the retained rows.
type expansion struct {
	cols  [][]float64
	names []string
}

func expandVar(c *dataset.Column, ref string, keep []int) (expansion, error) {

	if c.Kind == dataset.Numeric {
		v := make([]float64, len(keep))
		for i, r := range keep {
			v[i] = c.Num[r]
		}
		return expansion{cols: [][]float64{v}, names: []string{c.Name}}, nil
	}

	// Indicator columns for each level above the reference, in
	// increasing level order.
	var exp expansion
	found := false
	for _, lv := range c.Levels() {
		if lv == ref {
			found = true
			continue
		}
		v := make([]float64, len(keep))
		for i, r := range keep {
			if c.Str[r] == lv {
				v[i] = 1
			}
		}
		exp.cols = append(exp.cols, v)
		exp.names = append(exp.names, c.Name+"["+lv+"]")
	}
	if !found {
		return expansion{}, errors.Newf("formula: reference level %q not present in variable %q", ref, c.Name)
	}

	return exp, nil
}

// Build constructs a Design from the dataset and specification.  A row is
// retained only when every referenced variable (response, predictors,
// interaction operands, and the weight/cluster variables when given) is
// non-missing for that row.
func Build(ds *dataset.Dataset, spec Spec, opts Options) (*Design, error) {

	if spec.Response == "" {
		return nil, errors.New("formula: no response variable")
	}

	// Variables referenced by the formula, in first-use order.
	var vars []string
	seen := make(map[string]bool)
	addVar := func(v string) {
		if v != "" && !seen[v] {
			seen[v] = true
			vars = append(vars, v)
		}
	}
	addVar(spec.Response)
	for _, t := range spec.Terms {
		addVar(t.A)
		addVar(t.B)
	}

	filterVars := append([]string(nil), vars...)
	for _, v := range []string{opts.Weight, opts.Cluster} {
		if v != "" && !seen[v] {
			filterVars = append(filterVars, v)
		}
	}

	// Existence and declared-type validation, before any numeric work.
	for _, v := range filterVars {
		c, ok := ds.Column(v)
		if !ok {
			return nil, &MissingDataError{Variable: v}
		}
		if _, cat := spec.Categorical[v]; cat && c.Kind != dataset.Categorical {
			return nil, &TypeMismatchError{Variable: v, Want: "categorical", Got: c.Kind.String()}
		}
	}

	mustBeNumeric := []string{spec.Response}
	if opts.Weight != "" {
		mustBeNumeric = append(mustBeNumeric, opts.Weight)
	}
	for _, t := range spec.Terms {
		for _, v := range []string{t.A, t.B} {
			if v == "" {
				continue
			}
			if _, cat := spec.Categorical[v]; !cat {
				mustBeNumeric = append(mustBeNumeric, v)
			}
		}
	}
	for _, v := range mustBeNumeric {
		c, _ := ds.Column(v)
		if c.Kind != dataset.Numeric {
			return nil, &TypeMismatchError{Variable: v, Want: "numeric", Got: c.Kind.String()}
		}
	}

	// Complete cases with respect to the referenced variables only.
	var keep []int
	for i := 0; i < ds.NumRows(); i++ {
		ok := true
		for _, v := range filterVars {
			c, _ := ds.Column(v)
			if c.Missing(i) {
				ok = false
				break
			}
		}
		if ok {
			keep = append(keep, i)
		}
	}

	// Expand each referenced variable once, reusing the expansion when
	// the same variable appears in several terms.
	exps := make(map[string]expansion)
	expand := func(v string) (expansion, error) {
		if e, ok := exps[v]; ok {
			return e, nil
		}
		c, _ := ds.Column(v)
		e, err := expandVar(c, spec.Categorical[v], keep)
		if err != nil {
			return expansion{}, err
		}
		exps[v] = e
		return e, nil
	}

	var xcols [][]float64
	var xnames []string

	if !spec.NoIntercept {
		ic := make([]float64, len(keep))
		for i := range ic {
			ic[i] = 1
		}
		xcols = append(xcols, ic)
		xnames = append(xnames, "(Intercept)")
	}

	for _, t := range spec.Terms {
		ea, err := expand(t.A)
		if err != nil {
			return nil, err
		}
		if t.B == "" {
			xcols = append(xcols, ea.cols...)
			xnames = append(xnames, ea.names...)
			continue
		}
		eb, err := expand(t.B)
		if err != nil {
			return nil, err
		}
		for ja, ca := range ea.cols {
			for jb, cb := range eb.cols {
				v := make([]float64, len(keep))
				for i := range v {
					v[i] = ca[i] * cb[i]
				}
				xcols = append(xcols, v)
				xnames = append(xnames, ea.names[ja]+":"+eb.names[jb])
			}
		}
	}

	nobs := len(keep)
	ncol := len(xcols)

	if nobs <= ncol+1 {
		return nil, &DimensionError{Rows: nobs, Cols: ncol}
	}

	x := mat.NewDense(nobs, ncol, nil)
	for j, c := range xcols {
		x.SetCol(j, c)
	}

	if err := checkRank(x); err != nil {
		return nil, err
	}

	yc, _ := ds.Column(spec.Response)
	y := make([]float64, nobs)
	for i, r := range keep {
		y[i] = yc.Num[r]
	}

	var wgt []float64
	if opts.Weight != "" {
		wc, _ := ds.Column(opts.Weight)
		wgt = make([]float64, nobs)
		for i, r := range keep {
			if wc.Num[r] <= 0 {
				return nil, errors.Newf("formula: weight variable %q has non-positive value at row %d", opts.Weight, r)
			}
			wgt[i] = wc.Num[r]
		}
	}

	var clust []string
	if opts.Cluster != "" {
		cc, _ := ds.Column(opts.Cluster)
		clust = make([]string, nobs)
		for i, r := range keep {
			if cc.Kind == dataset.Categorical {
				clust[i] = cc.Str[r]
			} else {
				clust[i] = strconv.FormatFloat(cc.Num[r], 'g', -1, 64)
			}
		}
	}

	return &Design{
		X:        x,
		Names:    xnames,
		Y:        y,
		Weights:  wgt,
		Cluster:  clust,
		NObs:     nobs,
		NDropped: ds.NumRows() - nobs,
	}, nil
}

// checkRank verifies that the design matrix has full column rank, using
// the singular values of X.
func checkRank(x *mat.Dense) error {

	_, p := x.Dims()

	var svd mat.SVD
	if !svd.Factorize(x, mat.SVDNone) {
		return &RankDeficientError{Rank: 0, Cols: p}
	}

	sv := svd.Values(nil)
	tol := 1e-10 * sv[0]
	rank := 0
	for _, s := range sv {
		if s > tol {
			rank++
		}
	}

	if rank < p {
		return &RankDeficientError{Rank: rank, Cols: p}
	}

	return nil
}
