package correlation

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-sentiment/internal/analysis/metrics"
	apperrors "news-sentiment/internal/errors"
	"news-sentiment/internal/models"
)

func day(i int) time.Time {
	return time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
}

func barsFromCloses(closes []float64, volumes []int64) []models.OHLCVBar {
	bars := make([]models.OHLCVBar, len(closes))
	for i, c := range closes {
		bars[i] = models.OHLCVBar{Date: day(i), Open: c, High: c, Low: c, Close: c, Volume: volumes[i]}
	}
	return bars
}

func TestAlign_InnerJoin(t *testing.T) {
	bars := barsFromCloses([]float64{100, 101, 102}, []int64{10, 20, 30})
	daily, err := metrics.Compute(bars)
	require.NoError(t, err)

	sentiment := []models.DailySentiment{
		{Date: day(-1), AvgSentiment: 0.9, ArticleCount: 1}, // weekend news, no bar
		{Date: day(2), AvgSentiment: -0.2, ArticleCount: 3},
		{Date: day(1), AvgSentiment: 0.4, ArticleCount: 2},
	}

	aligned, err := Align(sentiment, bars, daily)
	require.NoError(t, err)
	require.Len(t, aligned, 2)

	assert.Equal(t, day(1), aligned[0].Date)
	assert.Equal(t, 101.0, aligned[0].Close)
	assert.Equal(t, int64(20), aligned[0].Volume)
	assert.Equal(t, 2, aligned[0].ArticleCount)
	assert.InDelta(t, 0.01, aligned[0].DailyReturn, 1e-12)
	assert.Equal(t, day(2), aligned[1].Date)
}

func TestAlign_LengthMismatch(t *testing.T) {
	bars := barsFromCloses([]float64{100, 101}, []int64{1, 1})
	_, err := Align(nil, bars, nil)
	assert.ErrorIs(t, err, apperrors.ErrLengthMismatch)
}

func TestCorrelate_SingleOverlapFails(t *testing.T) {
	bars := barsFromCloses([]float64{100, 101, 102}, []int64{10, 20, 30})
	daily, err := metrics.Compute(bars)
	require.NoError(t, err)

	aligned, err := Align([]models.DailySentiment{{Date: day(1), AvgSentiment: 0.5, ArticleCount: 1}}, bars, daily)
	require.NoError(t, err)
	require.Len(t, aligned, 1)

	_, err = Correlate(aligned)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientSample)

	var statErr *apperrors.StatisticalError
	require.ErrorAs(t, err, &statErr)
	assert.Equal(t, models.MetricSentimentReturns, statErr.Metric)
	assert.Equal(t, 1, statErr.SampleSize)
}

func TestCorrelate_PerfectlyCorrelated(t *testing.T) {
	closes := []float64{100, 103, 101, 106, 104, 110, 108}
	volumes := []int64{100, 300, 200, 500, 400, 700, 600}
	bars := barsFromCloses(closes, volumes)
	daily, err := metrics.Compute(bars)
	require.NoError(t, err)

	// sentiment = 3 * return on every trading day after the first
	sentiment := make([]models.DailySentiment, 0, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		sentiment = append(sentiment, models.DailySentiment{
			Date:         day(i),
			AvgSentiment: 3 * daily[i].DailyReturn,
			ArticleCount: 1,
		})
	}

	aligned, err := Align(sentiment, bars, daily)
	require.NoError(t, err)

	results, err := Correlate(aligned)
	require.NoError(t, err)

	ret := results[models.MetricSentimentReturns]
	assert.InDelta(t, 1.0, ret.Correlation, 1e-9)
	assert.InDelta(t, 0.0, ret.PValue, 1e-6)
	assert.Equal(t, 6, ret.SampleSize)

	vol := results[models.MetricSentimentVolume]
	assert.GreaterOrEqual(t, vol.Correlation, -1.0)
	assert.LessOrEqual(t, vol.Correlation, 1.0)
	assert.GreaterOrEqual(t, vol.PValue, 0.0)
	assert.LessOrEqual(t, vol.PValue, 1.0)
}

func TestCorrelate_ZeroVariance(t *testing.T) {
	aligned := []models.AlignedDay{
		{Date: day(0), AvgSentiment: 0.2, DailyReturn: 0.01, Volume: 10},
		{Date: day(1), AvgSentiment: 0.2, DailyReturn: 0.02, Volume: 20},
		{Date: day(2), AvgSentiment: 0.2, DailyReturn: 0.03, Volume: 30},
	}
	_, err := Correlate(aligned)
	assert.ErrorIs(t, err, apperrors.ErrZeroVariance)
}

func TestCorrelate_ExcludesUndefinedReturns(t *testing.T) {
	aligned := []models.AlignedDay{
		{Date: day(0), AvgSentiment: 0.1, DailyReturn: math.NaN(), Volume: 10},
		{Date: day(1), AvgSentiment: 0.2, DailyReturn: 0.02, Volume: 25},
		{Date: day(2), AvgSentiment: 0.4, DailyReturn: 0.03, Volume: 20},
		{Date: day(3), AvgSentiment: -0.1, DailyReturn: -0.01, Volume: 40},
	}
	results, err := Correlate(aligned)
	require.NoError(t, err)
	assert.Equal(t, 3, results[models.MetricSentimentReturns].SampleSize)
	assert.Equal(t, 4, results[models.MetricSentimentVolume].SampleSize)
}

func TestProperty_CorrelationBounded(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("correlation in [-1, 1] and p-value in [0, 1] when defined", prop.ForAll(
		func(sent []float64, rets []float64) bool {
			n := len(sent)
			if len(rets) < n {
				n = len(rets)
			}
			aligned := make([]models.AlignedDay, n)
			for i := 0; i < n; i++ {
				aligned[i] = models.AlignedDay{
					Date:         day(i),
					AvgSentiment: sent[i],
					DailyReturn:  rets[i],
					Volume:       int64(1000 + i*i),
				}
			}
			results, err := Correlate(aligned)
			if err != nil {
				return apperrors.Is(err, apperrors.ErrInsufficientSample) || apperrors.Is(err, apperrors.ErrZeroVariance)
			}
			for _, r := range results {
				if r.Correlation < -1 || r.Correlation > 1 || r.PValue < 0 || r.PValue > 1 {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(20, gen.Float64Range(-1, 1)),
		gen.SliceOfN(20, gen.Float64Range(-0.1, 0.1)),
	))

	properties.TestingRun(t)
}
