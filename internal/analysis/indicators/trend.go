package indicators

import (
	"fmt"
	"math"

	"news-sentiment/internal/models"
)

// SMA calculates Simple Moving Average of close.
type SMA struct {
	period int
}

// NewSMA creates a new SMA indicator.
func NewSMA(period int) *SMA {
	return &SMA{period: period}
}

func (s *SMA) Name() string {
	return fmt.Sprintf("SMA_%d", s.period)
}

func (s *SMA) Period() int {
	return s.period
}

func (s *SMA) Calculate(bars []models.OHLCVBar) ([]float64, error) {
	if s.period <= 0 {
		return nil, ErrInvalidPeriod
	}
	result := undefined(len(bars))
	closes := closePrices(bars)

	for i := s.period - 1; i < len(bars); i++ {
		result[i] = mean(closes[i-s.period+1 : i+1])
	}
	return result, nil
}

// EMA calculates Exponential Moving Average of close, seeded with the SMA of
// the first period values.
type EMA struct {
	period int
}

// NewEMA creates a new EMA indicator.
func NewEMA(period int) *EMA {
	return &EMA{period: period}
}

func (e *EMA) Name() string {
	return fmt.Sprintf("EMA_%d", e.period)
}

func (e *EMA) Period() int {
	return e.period
}

func (e *EMA) Calculate(bars []models.OHLCVBar) ([]float64, error) {
	if e.period <= 0 {
		return nil, ErrInvalidPeriod
	}
	return CalculateEMA(closePrices(bars), e.period), nil
}

// CalculateEMA calculates EMA on raw values. Leading NaN values are skipped;
// the seed is the SMA of the first period defined values.
func CalculateEMA(values []float64, period int) []float64 {
	result := undefined(len(values))
	start := firstDefined(values)
	if period <= 0 || start < 0 || len(values)-start < period {
		return result
	}

	multiplier := 2.0 / float64(period+1)
	seed := start + period - 1
	result[seed] = mean(values[start : seed+1])

	for i := seed + 1; i < len(values); i++ {
		result[i] = (values[i]-result[i-1])*multiplier + result[i-1]
	}
	return result
}

// MACD calculates Moving Average Convergence Divergence.
type MACD struct {
	fastPeriod   int
	slowPeriod   int
	signalPeriod int
}

// NewMACD creates a new MACD indicator, conventionally (12, 26, 9).
func NewMACD(fast, slow, signal int) *MACD {
	return &MACD{
		fastPeriod:   fast,
		slowPeriod:   slow,
		signalPeriod: signal,
	}
}

func (m *MACD) Name() string {
	return "MACD"
}

// Period is the number of bars before the histogram is defined.
func (m *MACD) Period() int {
	return m.slowPeriod + m.signalPeriod - 1
}

func (m *MACD) Calculate(bars []models.OHLCVBar) (map[string][]float64, error) {
	if m.fastPeriod <= 0 || m.slowPeriod <= 0 || m.signalPeriod <= 0 || m.fastPeriod >= m.slowPeriod {
		return nil, ErrInvalidPeriod
	}

	n := len(bars)
	closes := closePrices(bars)
	fastEMA := CalculateEMA(closes, m.fastPeriod)
	slowEMA := CalculateEMA(closes, m.slowPeriod)

	// MACD Line = Fast EMA - Slow EMA; NaN propagates until the slow EMA is seeded
	macdLine := make([]float64, n)
	for i := range macdLine {
		macdLine[i] = fastEMA[i] - slowEMA[i]
	}

	signalLine := CalculateEMA(macdLine, m.signalPeriod)

	histogram := make([]float64, n)
	for i := range histogram {
		histogram[i] = macdLine[i] - signalLine[i]
		if math.IsNaN(signalLine[i]) {
			histogram[i] = math.NaN()
		}
	}

	return map[string][]float64{
		"MACD":        macdLine,
		"MACD_signal": signalLine,
		"MACD_hist":   histogram,
	}, nil
}
