package formula

import "fmt"

// MissingDataError indicates that the model specification references a
// variable that does not exist in the dataset.
type MissingDataError struct {
	Variable string
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("formula: variable %q not found in dataset", e.Variable)
}

// TypeMismatchError indicates that a variable's declared type does not
// match the type of its column in the dataset.
type TypeMismatchError struct {
	Variable string
	Want     string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("formula: variable %q is %s, want %s", e.Variable, e.Got, e.Want)
}

// DimensionError indicates that too few complete rows remain relative to
// the number of design matrix columns.
type DimensionError struct {
	Rows int
	Cols int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("formula: %d complete rows is too few for %d design columns", e.Rows, e.Cols)
}

// RankDeficientError indicates that the design matrix does not have full
// column rank.
type RankDeficientError struct {
	Rank int
	Cols int
}

func (e *RankDeficientError) Error() string {
	return fmt.Sprintf("formula: design matrix has rank %d, want full column rank %d", e.Rank, e.Cols)
}
