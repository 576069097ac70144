package hmm

import "math"

// negInf is log(0); used as the score of impossible paths.
var negInf = math.Inf(-1)

// logf is math.Log with an explicit zero case, since math.Log(0) already
// returns -Inf but spelling it out documents the intent at call sites
// that rely on it (spec.md §4.3.1: "all probabilities in log-space").
func logf(p float64) float64 {
	if p <= 0 {
		return negInf
	}
	return math.Log(p)
}

// LogOf exposes logf to other packages (pkg/decode) that need to convert
// HMM probabilities to log-space using the same zero-handling rule.
func LogOf(p float64) float64 { return logf(p) }

// NegInf is the log-probability of an impossible path.
func NegInf() float64 { return negInf }
