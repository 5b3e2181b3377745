package models

import (
	"time"
)

// Correlation metric names.
const (
	MetricSentimentReturns = "pearson_sentiment_returns"
	MetricSentimentVolume  = "pearson_sentiment_volume"
)

// CorrelationResult is a Pearson coefficient with its two-sided p-value.
type CorrelationResult struct {
	Metric      string  `json:"metric_name"`
	Correlation float64 `json:"correlation"`
	PValue      float64 `json:"p_value"`
	SampleSize  int     `json:"sample_size"`
}

// Summary mirrors a descriptive-statistics row: count, mean, sample standard
// deviation, min, quartiles and max. Statistics of an empty series are NaN.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"25%"`
	Median float64 `json:"50%"`
	Q75    float64 `json:"75%"`
	Max    float64 `json:"max"`
}

// DayCount is the number of headlines published on a weekday.
type DayCount struct {
	Day   time.Weekday `json:"-"`
	Name  string       `json:"day_of_week"`
	Count int          `json:"count"`
}

// TemporalSummary describes when headlines are published and how their
// sentiment is distributed.
type TemporalSummary struct {
	Hour      Summary    `json:"hour"`
	Sentiment Summary    `json:"sentiment"`
	DayOfWeek []DayCount `json:"day_of_week"`
}

// AlignedDay is one row of the date-aligned sentiment and price join.
type AlignedDay struct {
	Date         time.Time `json:"date"`
	AvgSentiment float64   `json:"avg_sentiment"`
	ArticleCount int       `json:"article_count"`
	Close        float64   `json:"close"`
	DailyReturn  float64   `json:"daily_return"`
	Volume       int64     `json:"volume"`
}
