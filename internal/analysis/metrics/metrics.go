// Package metrics derives daily return and rolling statistics from an OHLCV
// series.
package metrics

import (
	"math"

	"news-sentiment/internal/analysis/stats"
	apperrors "news-sentiment/internal/errors"
	"news-sentiment/internal/models"
)

const (
	// RollingWindow is the trailing window of the volatility and volume averages.
	RollingWindow = 20
	// TradingDaysPerYear annualizes daily statistics. Only valid for daily bars.
	TradingDaysPerYear = 252
)

// ValidateBars checks the structural preconditions of a bar series: at least
// one bar, strictly increasing dates, positive prices and non-negative volume.
func ValidateBars(bars []models.OHLCVBar) error {
	if len(bars) == 0 {
		return apperrors.NewValidationErrorWrap("bars", 0, "at least one bar is required", apperrors.ErrEmptySeries)
	}
	for i, b := range bars {
		if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
			return apperrors.NewValidationErrorWrap("bars", b.Date.Format("2006-01-02"), "prices must be positive", apperrors.ErrInvalidPrice)
		}
		if b.Volume < 0 {
			return apperrors.NewValidationError("volume", b.Volume, "volume must be non-negative")
		}
		if i > 0 && !b.Date.After(bars[i-1].Date) {
			return apperrors.NewValidationErrorWrap("date", b.Date.Format("2006-01-02"), "dates must be strictly increasing", apperrors.ErrUnsortedSeries)
		}
	}
	return nil
}

// Compute returns one DailyMetrics per bar. The first daily return is NaN;
// volatility needs RollingWindow defined returns and the volume average needs
// RollingWindow bars, so both are NaN until their windows fill.
func Compute(bars []models.OHLCVBar) ([]models.DailyMetrics, error) {
	if err := ValidateBars(bars); err != nil {
		return nil, err
	}

	n := len(bars)
	out := make([]models.DailyMetrics, n)
	returns := make([]float64, n)
	growth := 1.0

	for i, b := range bars {
		r := math.NaN()
		if i > 0 {
			r = b.Close/bars[i-1].Close - 1
			growth *= 1 + r
		}
		returns[i] = r

		out[i] = models.DailyMetrics{
			Date:             b.Date,
			DailyReturn:      r,
			CumulativeReturn: growth - 1,
			Volatility20D:    math.NaN(),
			VolumeMA20:       math.NaN(),
		}

		if i >= RollingWindow {
			out[i].Volatility20D = stats.SampleStd(returns[i-RollingWindow+1 : i+1])
		}
		if i >= RollingWindow-1 {
			var sum float64
			for _, w := range bars[i-RollingWindow+1 : i+1] {
				sum += float64(w.Volume)
			}
			out[i].VolumeMA20 = sum / RollingWindow
		}
	}

	return out, nil
}

// SharpeRatio annualizes mean/std of the defined daily returns with a zero
// risk-free rate. It is NaN with fewer than two returns or zero dispersion.
func SharpeRatio(daily []models.DailyMetrics) float64 {
	returns := make([]float64, 0, len(daily))
	for _, d := range daily {
		if !math.IsNaN(d.DailyReturn) {
			returns = append(returns, d.DailyReturn)
		}
	}
	std := stats.SampleStd(returns)
	if math.IsNaN(std) || std == 0 {
		return math.NaN()
	}
	return stats.Mean(returns) / std * math.Sqrt(TradingDaysPerYear)
}

// Returns extracts the daily return column.
func Returns(daily []models.DailyMetrics) []float64 {
	out := make([]float64, len(daily))
	for i, d := range daily {
		out[i] = d.DailyReturn
	}
	return out
}
