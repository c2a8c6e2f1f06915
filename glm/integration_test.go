package glm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrownEpi/StatsCompPH-BrownSPH/dataset"
	"github.com/BrownEpi/StatsCompPH-BrownSPH/formula"
)

// End to end: dataset with a categorical predictor and scattered missing
// values, through the design builder, a modified-Poisson style fit, and a
// cluster-robust coefficient report.
func TestEndToEnd(t *testing.T) {

	nan := math.NaN()

	ds := dataset.New()
	require.NoError(t, ds.AddNumeric("case", []float64{1, 0, 1, 1, 0, 0, 1, 1, 0, 0, 1, 0, nan, 0}))
	require.NoError(t, ds.AddNumeric("exposed", []float64{1, 1, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0, 1, 0}))
	require.NoError(t, ds.AddCategorical("site", []string{"a", "b", "a", "b", "a", "b", "a", "b", "a", "b", "a", "b", "a", "b"}))
	require.NoError(t, ds.AddNumeric("subject", []float64{1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6, 7, 7}))

	d, err := formula.Build(ds, formula.Spec{
		Response:    "case",
		Terms:       []formula.Term{{A: "exposed"}, {A: "site"}},
		Categorical: map[string]string{"site": "a"},
	}, formula.Options{Cluster: "subject"})
	require.NoError(t, err)

	assert.Equal(t, 13, d.NObs)
	assert.Equal(t, 1, d.NDropped)
	assert.Equal(t, []string{"(Intercept)", "exposed", "site[b]"}, d.Names)

	model, err := NewModel(d, PoissonFamily, LogLink)
	require.NoError(t, err)
	result, err := model.Fit()
	require.NoError(t, err)
	assert.True(t, result.Converged())

	cov, err := RobustCovariance(result, true)
	require.NoError(t, err)
	assert.Equal(t, "cluster", cov.Kind)

	rep, err := NewReport(result, cov, ReportOptions{Exponentiate: true})
	require.NoError(t, err)

	require.Len(t, rep.Rows, 3)
	assert.Equal(t, "exposed", rep.Rows[1].Name)

	// Exposure raises risk in this dataset, so the risk ratio exceeds 1.
	assert.Greater(t, rep.Rows[1].ExpEstimate, 1.0)
}
