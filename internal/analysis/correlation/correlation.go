// Package correlation aligns daily sentiment with daily market data and
// measures how they move together.
package correlation

import (
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"news-sentiment/internal/analysis/stats"
	apperrors "news-sentiment/internal/errors"
	"news-sentiment/internal/logging"
	"news-sentiment/internal/models"
)

// Metrics lists the correlations Correlate computes, in evaluation order.
var Metrics = []string{models.MetricSentimentReturns, models.MetricSentimentVolume}

// Align inner-joins daily sentiment with the bars and their metrics on date.
// Dates missing from either side are dropped; news on non-trading days never
// reaches the correlation. bars and metrics must be parallel slices.
func Align(daily []models.DailySentiment, bars []models.OHLCVBar, metrics []models.DailyMetrics) ([]models.AlignedDay, error) {
	if len(bars) != len(metrics) {
		return nil, apperrors.NewValidationErrorWrap("metrics", len(metrics), "metrics must be computed from the same bars", apperrors.ErrLengthMismatch)
	}

	byDate := make(map[time.Time]int, len(bars))
	for i, b := range bars {
		byDate[models.DateOf(b.Date)] = i
	}

	out := make([]models.AlignedDay, 0, len(daily))
	for _, d := range daily {
		i, ok := byDate[models.DateOf(d.Date)]
		if !ok {
			continue
		}
		out = append(out, models.AlignedDay{
			Date:         models.DateOf(d.Date),
			AvgSentiment: d.AvgSentiment,
			ArticleCount: d.ArticleCount,
			Close:        bars[i].Close,
			DailyReturn:  metrics[i].DailyReturn,
			Volume:       bars[i].Volume,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

// Correlate computes the Pearson correlation of average sentiment against the
// daily return and against volume over the aligned days. Pairs with an
// undefined value are excluded. The first undefined correlation aborts with a
// *errors.StatisticalError.
func Correlate(aligned []models.AlignedDay) (map[string]models.CorrelationResult, error) {
	results := make(map[string]models.CorrelationResult, len(Metrics))
	for _, metric := range Metrics {
		res, err := pair(metric, aligned)
		if err != nil {
			return nil, err
		}
		results[metric] = res
	}
	return results, nil
}

// CorrelateWithLogger is Correlate that also logs each coefficient.
func CorrelateWithLogger(logger zerolog.Logger, aligned []models.AlignedDay) (map[string]models.CorrelationResult, error) {
	results, err := Correlate(aligned)
	if err != nil {
		logger.Warn().Err(err).Int("aligned_days", len(aligned)).Msg("correlation undefined")
		return nil, err
	}
	for _, metric := range Metrics {
		r := results[metric]
		logging.LogCorrelation(logger, r.Metric, r.Correlation, r.PValue, r.SampleSize)
	}
	return results, nil
}

func pair(metric string, aligned []models.AlignedDay) (models.CorrelationResult, error) {
	x := make([]float64, 0, len(aligned))
	y := make([]float64, 0, len(aligned))
	for _, a := range aligned {
		var other float64
		switch metric {
		case models.MetricSentimentReturns:
			other = a.DailyReturn
		case models.MetricSentimentVolume:
			other = float64(a.Volume)
		}
		if math.IsNaN(a.AvgSentiment) || math.IsNaN(other) {
			continue
		}
		x = append(x, a.AvgSentiment)
		y = append(y, other)
	}

	r, p, err := stats.Pearson(x, y)
	if err != nil {
		return models.CorrelationResult{}, apperrors.NewStatisticalError(metric, len(x), err)
	}
	return models.CorrelationResult{
		Metric:      metric,
		Correlation: r,
		PValue:      p,
		SampleSize:  len(x),
	}, nil
}
