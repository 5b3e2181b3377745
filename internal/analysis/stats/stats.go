// Package stats provides the descriptive and inferential statistics shared by
// the analysis packages. Undefined statistics are reported as NaN or as a
// typed error, never as zero.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	apperrors "news-sentiment/internal/errors"
	"news-sentiment/internal/models"
)

// MinCorrelationSample is the smallest paired sample Pearson accepts. With two
// points r is always ±1 and the t statistic has zero degrees of freedom.
const MinCorrelationSample = 3

// DropNaN returns the values of xs that are not NaN.
func DropNaN(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}

// Mean returns the arithmetic mean, or NaN for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return stat.Mean(xs, nil)
}

// SampleStd returns the sample (n-1) standard deviation, or NaN when fewer
// than two values are given.
func SampleStd(xs []float64) float64 {
	if len(xs) < 2 {
		return math.NaN()
	}
	return stat.StdDev(xs, nil)
}

// Quantile returns the q-quantile of xs with linear interpolation between
// closest ranks (position q*(n-1) in the sorted data). NaN for empty input.
func Quantile(xs []float64, q float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	return quantileSorted(sorted, q)
}

func quantileSorted(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Describe summarizes xs, ignoring NaN values.
func Describe(xs []float64) models.Summary {
	vals := DropNaN(xs)
	nan := math.NaN()
	if len(vals) == 0 {
		return models.Summary{Mean: nan, Std: nan, Min: nan, Q25: nan, Median: nan, Q75: nan, Max: nan}
	}

	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)

	return models.Summary{
		Count:  len(vals),
		Mean:   Mean(vals),
		Std:    SampleStd(vals),
		Min:    floats.Min(sorted),
		Q25:    quantileSorted(sorted, 0.25),
		Median: quantileSorted(sorted, 0.50),
		Q75:    quantileSorted(sorted, 0.75),
		Max:    floats.Max(sorted),
	}
}

// Pearson returns the correlation coefficient of x and y and its two-sided
// p-value under the null hypothesis of zero correlation. It fails with
// ErrLengthMismatch, ErrInsufficientSample or ErrZeroVariance.
func Pearson(x, y []float64) (float64, float64, error) {
	if len(x) != len(y) {
		return math.NaN(), math.NaN(), apperrors.ErrLengthMismatch
	}
	n := len(x)
	if n < MinCorrelationSample {
		return math.NaN(), math.NaN(), apperrors.ErrInsufficientSample
	}
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return math.NaN(), math.NaN(), apperrors.ErrZeroVariance
	}

	r := stat.Correlation(x, y, nil)
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r, pearsonPValue(r, n), nil
}

func pearsonPValue(r float64, n int) float64 {
	if math.Abs(r) >= 1 {
		return 0
	}
	df := float64(n - 2)
	t := r * math.Sqrt(df/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.Survival(math.Abs(t))
	if p > 1 {
		p = 1
	}
	return p
}
