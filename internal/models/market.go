package models

import (
	"math"
	"time"
)

// OHLCVBar represents one daily bar of price and volume data.
type OHLCVBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// DailyMetrics holds the return and rolling statistics for one bar.
// Fields that are undefined for the bar (first return, short windows) are NaN.
type DailyMetrics struct {
	Date             time.Time `json:"date"`
	DailyReturn      float64   `json:"daily_return"`
	CumulativeReturn float64   `json:"cumulative_return"`
	Volatility20D    float64   `json:"volatility_20d"`
	VolumeMA20       float64   `json:"volume_ma_20"`
}

// IndicatorTable holds indicator columns aligned 1:1 with the input bars.
type IndicatorTable struct {
	Dates   []time.Time          `json:"dates"`
	Columns map[string][]float64 `json:"columns"`
}

// Latest returns the last value of the named column and whether it is defined.
func (t IndicatorTable) Latest(name string) (float64, bool) {
	col, ok := t.Columns[name]
	if !ok || len(col) == 0 {
		return 0, false
	}
	v := col[len(col)-1]
	return v, !math.IsNaN(v)
}
