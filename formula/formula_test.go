package formula

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrownEpi/StatsCompPH-BrownSPH/dataset"
)

func TestParseTerm(t *testing.T) {

	tm, err := ParseTerm("age")
	require.NoError(t, err)
	assert.Equal(t, Term{A: "age"}, tm)

	tm, err = ParseTerm("age:sex")
	require.NoError(t, err)
	assert.Equal(t, Term{A: "age", B: "sex"}, tm)
	assert.Equal(t, "age:sex", tm.String())

	_, err = ParseTerm("a:b:c")
	assert.Error(t, err)
}

func TestCompleteCaseFiltering(t *testing.T) {

	nan := math.NaN()
	ds := dataset.New()
	require.NoError(t, ds.AddNumeric("y", []float64{1, nan, 3, 4, 5, 6, 7, 8, 9, 10}))
	require.NoError(t, ds.AddNumeric("a", []float64{1, 2, 3, nan, 5, 6, 7, 8, 9, 10}))
	require.NoError(t, ds.AddNumeric("b", []float64{0, 1, 0, nan, 1, nan, 0, 1, 0, 1}))

	// Missing values in an unreferenced column must not drop rows.
	require.NoError(t, ds.AddNumeric("c", []float64{nan, nan, nan, nan, nan, nan, nan, nan, nan, nan}))

	d, err := Build(ds, Spec{
		Response: "y",
		Terms:    []Term{{A: "a"}, {A: "b"}},
	}, Options{})
	require.NoError(t, err)

	// Rows 1, 3 and 5 have a missing value among y, a, b.
	assert.Equal(t, 7, d.NObs)
	assert.Equal(t, 3, d.NDropped)
	assert.Equal(t, []float64{1, 3, 5, 7, 8, 9, 10}, d.Y)

	r, c := d.X.Dims()
	assert.Equal(t, 7, r)
	assert.Equal(t, 3, c)
}

func TestCategoricalExpansion(t *testing.T) {

	ds := dataset.New()
	require.NoError(t, ds.AddNumeric("y", []float64{1, 2, 3, 4, 5, 6}))
	require.NoError(t, ds.AddCategorical("g", []string{"a", "b", "c", "a", "b", "c"}))

	d, err := Build(ds, Spec{
		Response:    "y",
		Terms:       []Term{{A: "g"}},
		Categorical: map[string]string{"g": "a"},
	}, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"(Intercept)", "g[b]", "g[c]"}, d.Names)

	gb := make([]float64, 6)
	gc := make([]float64, 6)
	for i := 0; i < 6; i++ {
		gb[i] = d.X.At(i, 1)
		gc[i] = d.X.At(i, 2)
	}
	assert.Equal(t, []float64{0, 1, 0, 0, 1, 0}, gb)
	assert.Equal(t, []float64{0, 0, 1, 0, 0, 1}, gc)
}

func TestInteractions(t *testing.T) {

	ds := dataset.New()
	require.NoError(t, ds.AddNumeric("y", []float64{3, 1, 4, 1, 5, 9, 2, 6, 5}))
	require.NoError(t, ds.AddNumeric("x", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}))
	require.NoError(t, ds.AddCategorical("g", []string{"a", "b", "c", "a", "b", "c", "a", "b", "c"}))

	d, err := Build(ds, Spec{
		Response:    "y",
		Terms:       []Term{{A: "g"}, {A: "x"}, {A: "g", B: "x"}},
		Categorical: map[string]string{"g": "a"},
	}, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"(Intercept)", "g[b]", "g[c]", "x", "g[b]:x", "g[c]:x"}, d.Names)

	// The interaction column is the product of its expanded operands.
	for i := 0; i < 9; i++ {
		assert.Equal(t, d.X.At(i, 1)*d.X.At(i, 3), d.X.At(i, 4))
		assert.Equal(t, d.X.At(i, 2)*d.X.At(i, 3), d.X.At(i, 5))
	}
}

func TestNoIntercept(t *testing.T) {

	ds := dataset.New()
	require.NoError(t, ds.AddNumeric("y", []float64{1, 2, 3, 4, 5}))
	require.NoError(t, ds.AddNumeric("x", []float64{2, 4, 6, 8, 10}))

	d, err := Build(ds, Spec{
		Response:    "y",
		Terms:       []Term{{A: "x"}},
		NoIntercept: true,
	}, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"x"}, d.Names)
}

func TestWeightAndCluster(t *testing.T) {

	ds := dataset.New()
	require.NoError(t, ds.AddNumeric("y", []float64{1, 2, 3, 4, 5, 6}))
	require.NoError(t, ds.AddNumeric("x", []float64{1, 0, 1, 0, 1, 0}))
	require.NoError(t, ds.AddNumeric("w", []float64{1, 2, 1, 2, 1, 2}))
	require.NoError(t, ds.AddNumeric("id", []float64{1, 1, 2, 2, 3, 3}))

	d, err := Build(ds, Spec{
		Response: "y",
		Terms:    []Term{{A: "x"}},
	}, Options{Weight: "w", Cluster: "id"})
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 2, 1, 2, 1, 2}, d.Weights)
	assert.Equal(t, []string{"1", "1", "2", "2", "3", "3"}, d.Cluster)
}

func TestNonPositiveWeight(t *testing.T) {

	ds := dataset.New()
	require.NoError(t, ds.AddNumeric("y", []float64{1, 2, 3, 4, 5, 6}))
	require.NoError(t, ds.AddNumeric("x", []float64{1, 0, 1, 0, 1, 0}))
	require.NoError(t, ds.AddNumeric("w", []float64{1, 0, 1, 1, 1, 1}))

	_, err := Build(ds, Spec{
		Response: "y",
		Terms:    []Term{{A: "x"}},
	}, Options{Weight: "w"})
	assert.Error(t, err)
}

func TestUnknownVariable(t *testing.T) {

	ds := dataset.New()
	require.NoError(t, ds.AddNumeric("y", []float64{1, 2, 3, 4, 5}))

	_, err := Build(ds, Spec{
		Response: "y",
		Terms:    []Term{{A: "nope"}},
	}, Options{})

	var mde *MissingDataError
	require.True(t, errors.As(err, &mde))
	assert.Equal(t, "nope", mde.Variable)
}

func TestTypeMismatch(t *testing.T) {

	ds := dataset.New()
	require.NoError(t, ds.AddNumeric("y", []float64{1, 2, 3, 4, 5}))
	require.NoError(t, ds.AddNumeric("x", []float64{1, 0, 1, 0, 1}))
	require.NoError(t, ds.AddCategorical("g", []string{"a", "b", "a", "b", "a"}))

	// A numeric column declared categorical.
	_, err := Build(ds, Spec{
		Response:    "y",
		Terms:       []Term{{A: "x"}},
		Categorical: map[string]string{"x": "0"},
	}, Options{})
	var tme *TypeMismatchError
	require.True(t, errors.As(err, &tme))
	assert.Equal(t, "x", tme.Variable)

	// A categorical column used without a declaration.
	_, err = Build(ds, Spec{
		Response: "y",
		Terms:    []Term{{A: "g"}},
	}, Options{})
	require.True(t, errors.As(err, &tme))
	assert.Equal(t, "g", tme.Variable)
}

func TestMissingReferenceLevel(t *testing.T) {

	ds := dataset.New()
	require.NoError(t, ds.AddNumeric("y", []float64{1, 2, 3, 4, 5, 6}))
	require.NoError(t, ds.AddCategorical("g", []string{"a", "b", "a", "b", "a", "b"}))

	_, err := Build(ds, Spec{
		Response:    "y",
		Terms:       []Term{{A: "g"}},
		Categorical: map[string]string{"g": "zzz"},
	}, Options{})
	assert.Error(t, err)
}

func TestTooFewRows(t *testing.T) {

	ds := dataset.New()
	require.NoError(t, ds.AddNumeric("y", []float64{1, 2, 3}))
	require.NoError(t, ds.AddNumeric("x", []float64{1, 0, 1}))

	_, err := Build(ds, Spec{
		Response: "y",
		Terms:    []Term{{A: "x"}},
	}, Options{})

	var de *DimensionError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 3, de.Rows)
	assert.Equal(t, 2, de.Cols)
}

func TestRankDeficient(t *testing.T) {

	ds := dataset.New()
	require.NoError(t, ds.AddNumeric("y", []float64{1, 2, 3, 4, 5, 6}))
	require.NoError(t, ds.AddNumeric("x", []float64{1, 2, 3, 4, 5, 6}))
	require.NoError(t, ds.AddNumeric("z", []float64{2, 4, 6, 8, 10, 12}))

	_, err := Build(ds, Spec{
		Response: "y",
		Terms:    []Term{{A: "x"}, {A: "z"}},
	}, Options{})

	var rde *RankDeficientError
	require.True(t, errors.As(err, &rde))
	assert.Equal(t, 3, rde.Cols)
}
