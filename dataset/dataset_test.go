package dataset

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndLookup(t *testing.T) {

	ds := New()
	require.NoError(t, ds.AddNumeric("age", []float64{31, 45, math.NaN()}))
	require.NoError(t, ds.AddCategorical("sex", []string{"F", "M", "F"}))

	assert.Equal(t, 3, ds.NumRows())
	assert.Equal(t, []string{"age", "sex"}, ds.Names())

	age, ok := ds.Column("age")
	require.True(t, ok)
	assert.Equal(t, Numeric, age.Kind)
	assert.False(t, age.Missing(0))
	assert.True(t, age.Missing(2))

	sex, ok := ds.Column("sex")
	require.True(t, ok)
	assert.Equal(t, Categorical, sex.Kind)
	assert.Equal(t, []string{"F", "M"}, sex.Levels())

	_, ok = ds.Column("bmi")
	assert.False(t, ok)
}

func TestAddErrors(t *testing.T) {

	ds := New()
	require.NoError(t, ds.AddNumeric("x", []float64{1, 2}))

	assert.Error(t, ds.AddNumeric("x", []float64{3, 4}))
	assert.Error(t, ds.AddNumeric("y", []float64{1, 2, 3}))
}

func TestFromCSV(t *testing.T) {

	raw := strings.Join([]string{
		"id,age,smoker,bp",
		"1,31,yes,120",
		"2,NA,no,135",
		"3,52,,110",
		"4,44,no,.",
	}, "\n")

	ds, err := FromCSV(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 4, ds.NumRows())

	age, ok := ds.Column("age")
	require.True(t, ok)
	assert.Equal(t, Numeric, age.Kind)
	assert.True(t, age.Missing(1))
	assert.Equal(t, 52.0, age.Num[2])

	smoker, ok := ds.Column("smoker")
	require.True(t, ok)
	assert.Equal(t, Categorical, smoker.Kind)
	assert.True(t, smoker.Missing(2))
	assert.Equal(t, []string{"no", "yes"}, smoker.Levels())

	bp, ok := ds.Column("bp")
	require.True(t, ok)
	assert.Equal(t, Numeric, bp.Kind)
	assert.True(t, bp.Missing(3))
}

func TestFromCSVEmpty(t *testing.T) {

	_, err := FromCSV(strings.NewReader("a,b\n"))
	assert.Error(t, err)
}
