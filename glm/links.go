package glm

import "math"

// VecFunc is a function with two float64 array arguments; the second
// receives the result of evaluating the function elementwise on the first.
type VecFunc func([]float64, []float64)

// LinkType is used to specify a GLM link function.
type LinkType uint8

// IdentityLink, etc. indicate the different link functions.
const (
	IdentityLink LinkType = iota
	LogitLink
	LogLink
)

func (lt LinkType) String() string {
	switch lt {
	case IdentityLink:
		return "identity"
	case LogitLink:
		return "logit"
	case LogLink:
		return "log"
	default:
		return "unknown"
	}
}

// Link specifies a GLM link function.
type Link struct {
	Name string

	TypeCode LinkType

	// Link calculates the link function, mapping the mean value to the
	// linear predictor.
	Link VecFunc

	// InvLink calculates the inverse of the link function, mapping the
	// linear predictor to the mean value.
	InvLink VecFunc

	// Deriv calculates the derivative of the link function with respect
	// to the mean.
	Deriv VecFunc
}

var idLink = Link{
	Name:     "Identity",
	TypeCode: IdentityLink,
	Link:     idFunc,
	InvLink:  idFunc,
	Deriv:    idDerivFunc,
}

var logitLink = Link{
	Name:     "Logit",
	TypeCode: LogitLink,
	Link:     logitFunc,
	InvLink:  expitFunc,
	Deriv:    logitDerivFunc,
}

var logLink = Link{
	Name:     "Log",
	TypeCode: LogLink,
	Link:     logFunc,
	InvLink:  expFunc,
	Deriv:    logDerivFunc,
}

func idFunc(x []float64, y []float64) {
	copy(y, x)
}

func idDerivFunc(x []float64, y []float64) {
	one(y)
}

func logFunc(x []float64, y []float64) {
	for i := 0; i < len(x); i++ {
		y[i] = math.Log(x[i])
	}
}

func expFunc(x []float64, y []float64) {
	for i := 0; i < len(x); i++ {
		y[i] = math.Exp(x[i])
	}
}

func logDerivFunc(x []float64, y []float64) {
	for i := 0; i < len(x); i++ {
		y[i] = 1 / x[i]
	}
}

func logitFunc(x []float64, y []float64) {
	for i := 0; i < len(x); i++ {
		y[i] = math.Log(x[i] / (1 - x[i]))
	}
}

func expitFunc(x []float64, y []float64) {
	for i := 0; i < len(x); i++ {
		y[i] = 1 / (1 + math.Exp(-x[i]))
	}
}

func logitDerivFunc(x []float64, y []float64) {
	for i := 0; i < len(x); i++ {
		y[i] = 1 / (x[i] * (1 - x[i]))
	}
}

// zero sets all elements of the slice to 0.
func zero(x []float64) {
	for i := range x {
		x[i] = 0
	}
}

// one sets all elements of the slice to 1.
func one(x []float64) {
	for i := range x {
		x[i] = 1
	}
}
