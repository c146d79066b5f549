// Package stats holds the small set of descriptive statistics the analyzers
// share. All dispersion measures are population measures (divide by n).
package stats

import "math"

// Mean returns the arithmetic mean, or 0 for an empty series
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// Variance returns the population variance, or 0 for an empty series
func Variance(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := Mean(xs)
	var acc float64
	for _, x := range xs {
		d := x - m
		acc += d * d
	}
	return acc / float64(len(xs))
}

// StdDev returns the population standard deviation
func StdDev(xs []float64) float64 {
	return math.Sqrt(Variance(xs))
}

// CoefficientOfVariation returns stddev/mean. ok is false when the mean is 0.
func CoefficientOfVariation(xs []float64) (cov float64, ok bool) {
	m := Mean(xs)
	if m == 0 {
		return 0, false
	}
	return StdDev(xs) / m, true
}

// ZScores returns (x-mean)/stddev for every element. ok is false when the
// series has no spread.
func ZScores(xs []float64) (zs []float64, ok bool) {
	sd := StdDev(xs)
	if sd == 0 {
		return nil, false
	}
	m := Mean(xs)
	zs = make([]float64, len(xs))
	for i, x := range xs {
		zs[i] = (x - m) / sd
	}
	return zs, true
}

// Round2 rounds half away from zero to two decimals
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Clamp bounds x to [lo, hi]. NaN collapses to lo.
func Clamp(x, lo, hi float64) float64 {
	if math.IsNaN(x) {
		return lo
	}
	return math.Max(lo, math.Min(hi, x))
}

// ClampScore bounds a score to the 0-10 scale
func ClampScore(x float64) float64 {
	return Clamp(x, 0, 10)
}

// Finite replaces NaN and ±Inf with fallback
func Finite(x, fallback float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return fallback
	}
	return x
}
