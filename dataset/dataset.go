// Package dataset holds small analysis datasets in memory as named, typed
// columns.  Numeric columns mark missing values with NaN; categorical
// columns mark missing values with the empty string.
package dataset

import (
	"math"
	"sort"

	"github.com/cockroachdb/errors"
)

// Kind identifies the type of a column.
type Kind uint8

// Numeric and Categorical are the two supported column types.
const (
	Numeric Kind = iota
	Categorical
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	default:
		return "unknown"
	}
}

// Column is a single named variable.  Exactly one of Num or Str is
// populated, according to Kind.
type Column struct {
	Name string
	Kind Kind
	Num  []float64
	Str  []string
}

// Len returns the number of values in the column.
func (c *Column) Len() int {
	if c.Kind == Numeric {
		return len(c.Num)
	}
	return len(c.Str)
}

// Missing reports whether the i'th value of the column is missing.
func (c *Column) Missing(i int) bool {
	if c.Kind == Numeric {
		return math.IsNaN(c.Num[i])
	}
	return c.Str[i] == ""
}

// Levels returns the distinct non-missing values of a categorical column
// in increasing order.
func (c *Column) Levels() []string {

	seen := make(map[string]bool)
	var levels []string
	for _, v := range c.Str {
		if v != "" && !seen[v] {
			seen[v] = true
			levels = append(levels, v)
		}
	}
	sort.Strings(levels)

	return levels
}

// Dataset is a collection of equal-length columns.  Build it once with the
// Add methods; it is treated as immutable afterwards.
type Dataset struct {
	cols  []*Column
	index map[string]int
	nrow  int
}

// New returns an empty dataset.
func New() *Dataset {
	return &Dataset{index: make(map[string]int)}
}

func (ds *Dataset) add(c *Column) error {

	if _, ok := ds.index[c.Name]; ok {
		return errors.Newf("dataset: duplicate column %q", c.Name)
	}

	if len(ds.cols) == 0 {
		ds.nrow = c.Len()
	} else if c.Len() != ds.nrow {
		return errors.Newf("dataset: column %q has %d rows, want %d", c.Name, c.Len(), ds.nrow)
	}

	ds.index[c.Name] = len(ds.cols)
	ds.cols = append(ds.cols, c)

	return nil
}

// AddNumeric appends a numeric column.  Use NaN to mark missing values.
func (ds *Dataset) AddNumeric(name string, vals []float64) error {
	return ds.add(&Column{Name: name, Kind: Numeric, Num: vals})
}

// AddCategorical appends a categorical column.  Use the empty string to
// mark missing values.
func (ds *Dataset) AddCategorical(name string, vals []string) error {
	return ds.add(&Column{Name: name, Kind: Categorical, Str: vals})
}

// NumRows returns the number of rows in the dataset.
func (ds *Dataset) NumRows() int {
	return ds.nrow
}

// Names returns the column names in insertion order.
func (ds *Dataset) Names() []string {
	na := make([]string, len(ds.cols))
	for i, c := range ds.cols {
		na[i] = c.Name
	}
	return na
}

// Column returns the named column, or false if it does not exist.
func (ds *Dataset) Column(name string) (*Column, bool) {
	j, ok := ds.index[name]
	if !ok {
		return nil, false
	}
	return ds.cols[j], true
}
