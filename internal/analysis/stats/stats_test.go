package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "news-sentiment/internal/errors"
)

func TestQuantile_LinearInterpolation(t *testing.T) {
	xs := []float64{4, 1, 3, 2}
	assert.InDelta(t, 1.75, Quantile(xs, 0.25), 1e-12)
	assert.InDelta(t, 2.5, Quantile(xs, 0.5), 1e-12)
	assert.InDelta(t, 3.25, Quantile(xs, 0.75), 1e-12)
	assert.Equal(t, 1.0, Quantile(xs, 0))
	assert.Equal(t, 4.0, Quantile(xs, 1))
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
}

func TestDescribe(t *testing.T) {
	s := Describe([]float64{1, 2, 3, 4, math.NaN()})
	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 2.5, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(5.0/3.0), s.Std, 1e-12)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 4.0, s.Max)
	assert.InDelta(t, 2.5, s.Median, 1e-12)

	one := Describe([]float64{7})
	assert.Equal(t, 1, one.Count)
	assert.True(t, math.IsNaN(one.Std))

	empty := Describe(nil)
	assert.Equal(t, 0, empty.Count)
	assert.True(t, math.IsNaN(empty.Mean))
}

func TestPearson_PerfectCorrelation(t *testing.T) {
	x := []float64{0.01, -0.02, 0.03, 0.005, -0.01, 0.02}
	y := make([]float64, len(x))
	for i := range x {
		y[i] = 3 * x[i]
	}

	r, p, err := Pearson(x, y)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, r, 1e-9)
	assert.InDelta(t, 0.0, p, 1e-6)

	for i := range y {
		y[i] = -y[i]
	}
	r, p, err = Pearson(x, y)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, r, 1e-9)
	assert.InDelta(t, 0.0, p, 1e-6)
}

func TestPearson_KnownValue(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{2, 1, 4, 3, 5}

	r, p, err := Pearson(x, y)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, r, 1e-12)
	// t = 0.8*sqrt(3/0.36) = 2.3094, df = 3
	assert.InDelta(t, 0.1041, p, 1e-3)
}

func TestPearson_Errors(t *testing.T) {
	_, _, err := Pearson([]float64{1, 2}, []float64{1, 2})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientSample)

	_, _, err = Pearson([]float64{1, 2, 3}, []float64{5, 5, 5})
	assert.ErrorIs(t, err, apperrors.ErrZeroVariance)

	_, _, err = Pearson([]float64{1, 2, 3}, []float64{1, 2})
	assert.ErrorIs(t, err, apperrors.ErrLengthMismatch)
}
