package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "news-sentiment/internal/errors"
	"news-sentiment/internal/models"
)

var day0 = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

func barsFromCloses(closes []float64, volumes []int64) []models.OHLCVBar {
	bars := make([]models.OHLCVBar, len(closes))
	for i, c := range closes {
		var v int64 = 1000
		if volumes != nil {
			v = volumes[i]
		}
		bars[i] = models.OHLCVBar{
			Date:   day0.AddDate(0, 0, i),
			Open:   c,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: v,
		}
	}
	return bars
}

func TestCompute_TwoBars(t *testing.T) {
	got, err := Compute(barsFromCloses([]float64{100, 105}, nil))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.True(t, math.IsNaN(got[0].DailyReturn))
	assert.Equal(t, 0.0, got[0].CumulativeReturn)
	assert.InDelta(t, 0.05, got[1].DailyReturn, 1e-12)
	assert.InDelta(t, 0.05, got[1].CumulativeReturn, 1e-12)
	assert.True(t, math.IsNaN(got[1].Volatility20D))
	assert.True(t, math.IsNaN(got[1].VolumeMA20))
}

func TestCompute_CumulativeReturn(t *testing.T) {
	got, err := Compute(barsFromCloses([]float64{100, 110, 99, 121}, nil))
	require.NoError(t, err)
	assert.InDelta(t, 0.10, got[1].CumulativeReturn, 1e-12)
	assert.InDelta(t, -0.01, got[2].CumulativeReturn, 1e-12)
	assert.InDelta(t, 0.21, got[3].CumulativeReturn, 1e-12)
}

func TestCompute_ConstantCloseVolatilityZero(t *testing.T) {
	closes := make([]float64, 21)
	for i := range closes {
		closes[i] = 50
	}
	got, err := Compute(barsFromCloses(closes, nil))
	require.NoError(t, err)

	for i := 0; i < RollingWindow; i++ {
		assert.True(t, math.IsNaN(got[i].Volatility20D), "index %d", i)
	}
	assert.Equal(t, 0.0, got[20].Volatility20D)

	for i := 0; i < RollingWindow-1; i++ {
		assert.True(t, math.IsNaN(got[i].VolumeMA20), "index %d", i)
	}
	assert.Equal(t, 1000.0, got[19].VolumeMA20)
}

func TestCompute_ValidationErrors(t *testing.T) {
	_, err := Compute(nil)
	var verr *apperrors.ValidationError
	require.True(t, apperrors.As(err, &verr))
	assert.ErrorIs(t, err, apperrors.ErrEmptySeries)

	bars := barsFromCloses([]float64{100, 101}, nil)
	bars[1].Date = bars[0].Date
	_, err = Compute(bars)
	assert.ErrorIs(t, err, apperrors.ErrUnsortedSeries)

	bars = barsFromCloses([]float64{100, 101}, nil)
	bars[1].Close = 0
	_, err = Compute(bars)
	assert.ErrorIs(t, err, apperrors.ErrInvalidPrice)
}

func TestSharpeRatio(t *testing.T) {
	got, err := Compute(barsFromCloses([]float64{100, 101, 100, 102}, nil))
	require.NoError(t, err)

	r := []float64{0.01, 100.0/101 - 1, 0.02}
	mean := (r[0] + r[1] + r[2]) / 3
	var ss float64
	for _, x := range r {
		ss += (x - mean) * (x - mean)
	}
	want := mean / math.Sqrt(ss/2) * math.Sqrt(252)
	assert.InDelta(t, want, SharpeRatio(got), 1e-9)

	flat, err := Compute(barsFromCloses([]float64{100, 100, 100}, nil))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(SharpeRatio(flat)))
}

func TestProperty_VolumeMANonDecreasing(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("monotonically increasing volume gives a non-decreasing volume MA", prop.ForAll(
		func(steps []int64) bool {
			n := len(steps)
			closes := make([]float64, n)
			volumes := make([]int64, n)
			var v int64
			for i, s := range steps {
				v += s
				volumes[i] = v
				closes[i] = 100
			}
			got, err := Compute(barsFromCloses(closes, volumes))
			if err != nil {
				return false
			}
			prev := math.Inf(-1)
			for i := RollingWindow - 1; i < n; i++ {
				if got[i].VolumeMA20 < prev {
					return false
				}
				prev = got[i].VolumeMA20
			}
			return true
		},
		gen.SliceOfN(40, gen.Int64Range(1, 1000000)),
	))

	properties.Property("first daily return is always undefined", prop.ForAll(
		func(closes []float64) bool {
			if len(closes) == 0 {
				return true
			}
			got, err := Compute(barsFromCloses(closes, nil))
			return err == nil && math.IsNaN(got[0].DailyReturn)
		},
		gen.SliceOf(gen.Float64Range(1, 1000)),
	))

	properties.TestingRun(t)
}
