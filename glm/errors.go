package glm

import "fmt"

// UnsupportedCombinationError indicates a family/link pair that is not in
// the registry of supported combinations.
type UnsupportedCombinationError struct {
	Family FamilyType
	Link   LinkType
}

func (e *UnsupportedCombinationError) Error() string {
	return fmt.Sprintf("glm: unsupported family/link combination %s-%s", e.Family, e.Link)
}

// SingularMatrixError indicates that the weighted design matrix product
// X'WX is numerically rank deficient.  It is fatal to the fit.
type SingularMatrixError struct {
	Iteration int
}

func (e *SingularMatrixError) Error() string {
	return fmt.Sprintf("glm: weighted design matrix is singular at iteration %d", e.Iteration)
}

// NonConvergenceError indicates that IRLS exhausted its iteration cap
// without meeting tolerance.  Last holds the fit state at the final
// iteration so the caller can inspect, accept, or retry.
type NonConvergenceError struct {
	Iterations int
	Deviance   float64
	Last       *Result
}

func (e *NonConvergenceError) Error() string {
	return fmt.Sprintf("glm: IRLS did not converge after %d iterations (deviance %g)", e.Iterations, e.Deviance)
}
