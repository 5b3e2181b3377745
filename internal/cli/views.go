package cli

import (
	"math"
	"sort"
	"time"

	"news-sentiment/internal/analysis"
	"news-sentiment/internal/models"
)

const dateLayout = "2006-01-02"

// JSON has no NaN, so undefined values are rendered as null through these
// views.

func num(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

type summaryView struct {
	Count  int      `json:"count"`
	Mean   *float64 `json:"mean"`
	Std    *float64 `json:"std"`
	Min    *float64 `json:"min"`
	Q25    *float64 `json:"25%"`
	Median *float64 `json:"50%"`
	Q75    *float64 `json:"75%"`
	Max    *float64 `json:"max"`
}

func newSummaryView(s models.Summary) summaryView {
	return summaryView{
		Count:  s.Count,
		Mean:   num(s.Mean),
		Std:    num(s.Std),
		Min:    num(s.Min),
		Q25:    num(s.Q25),
		Median: num(s.Median),
		Q75:    num(s.Q75),
		Max:    num(s.Max),
	}
}

type publisherView struct {
	Publisher    string   `json:"publisher"`
	Count        int      `json:"count"`
	AvgSentiment *float64 `json:"avg_sentiment"`
}

type dailySentimentView struct {
	Date         string   `json:"date"`
	AvgSentiment *float64 `json:"avg_sentiment"`
	ArticleCount int      `json:"article_count"`
}

type temporalView struct {
	Hour      summaryView       `json:"hour"`
	Sentiment summaryView       `json:"sentiment"`
	DayOfWeek []models.DayCount `json:"day_of_week"`
}

type newsView struct {
	Headlines      int                  `json:"headlines"`
	Categories     map[string]int       `json:"categories"`
	Publishers     []publisherView      `json:"publishers"`
	Domains        []models.DomainStat  `json:"domains"`
	Topics         []models.TopicTerm   `json:"topics"`
	Temporal       temporalView         `json:"temporal"`
	DailySentiment []dailySentimentView `json:"daily_sentiment"`
}

func newNewsView(r *analysis.NewsReport, topPublishers, topDomains int) newsView {
	v := newsView{
		Headlines:  len(r.Headlines),
		Categories: categoryCounts(r.Headlines),
		Domains:    head(r.Domains, topDomains),
		Topics:     r.Topics,
		Temporal: temporalView{
			Hour:      newSummaryView(r.Temporal.Hour),
			Sentiment: newSummaryView(r.Temporal.Sentiment),
			DayOfWeek: r.Temporal.DayOfWeek,
		},
	}
	for _, p := range head(r.Publishers, topPublishers) {
		v.Publishers = append(v.Publishers, publisherView{
			Publisher:    p.Publisher,
			Count:        p.Count,
			AvgSentiment: num(p.AvgSentiment),
		})
	}
	for _, d := range r.DailySentiment {
		v.DailySentiment = append(v.DailySentiment, dailySentimentView{
			Date:         d.Date.Format(dateLayout),
			AvgSentiment: num(d.AvgSentiment),
			ArticleCount: d.ArticleCount,
		})
	}
	return v
}

type metricView struct {
	Date             string   `json:"date"`
	Close            float64  `json:"close"`
	Volume           int64    `json:"volume"`
	DailyReturn      *float64 `json:"daily_return"`
	CumulativeReturn *float64 `json:"cumulative_return"`
	Volatility20D    *float64 `json:"volatility_20d"`
	VolumeMA20       *float64 `json:"volume_ma_20"`
}

type marketView struct {
	Ticker      string              `json:"ticker,omitempty"`
	Bars        int                 `json:"bars"`
	From        string              `json:"from,omitempty"`
	To          string              `json:"to,omitempty"`
	SharpeRatio *float64            `json:"sharpe_ratio"`
	Indicators  map[string]*float64 `json:"latest_indicators"`
	Metrics     []metricView        `json:"daily_metrics"`
}

func newMarketView(ticker string, r *analysis.MarketReport, tail int) marketView {
	v := marketView{
		Ticker:      ticker,
		Bars:        len(r.Bars),
		SharpeRatio: num(r.SharpeRatio),
		Indicators:  latestIndicators(r.Indicators),
	}
	if len(r.Bars) > 0 {
		v.From = r.Bars[0].Date.Format(dateLayout)
		v.To = r.Bars[len(r.Bars)-1].Date.Format(dateLayout)
	}
	start := tailStart(len(r.Metrics), tail)
	for i := start; i < len(r.Metrics) && i < len(r.Bars); i++ {
		m, b := r.Metrics[i], r.Bars[i]
		v.Metrics = append(v.Metrics, metricView{
			Date:             m.Date.Format(dateLayout),
			Close:            b.Close,
			Volume:           b.Volume,
			DailyReturn:      num(m.DailyReturn),
			CumulativeReturn: num(m.CumulativeReturn),
			Volatility20D:    num(m.Volatility20D),
			VolumeMA20:       num(m.VolumeMA20),
		})
	}
	return v
}

type alignedView struct {
	Date         string   `json:"date"`
	AvgSentiment *float64 `json:"avg_sentiment"`
	ArticleCount int      `json:"article_count"`
	Close        float64  `json:"close"`
	DailyReturn  *float64 `json:"daily_return"`
	Volume       int64    `json:"volume"`
}

type correlationResultView struct {
	Metric      string   `json:"metric_name"`
	Correlation *float64 `json:"correlation"`
	PValue      *float64 `json:"p_value"`
	SampleSize  int      `json:"sample_size"`
}

type correlationView struct {
	Aligned      []alignedView           `json:"aligned"`
	Correlations []correlationResultView `json:"correlations"`
}

func newCorrelationView(r *analysis.CorrelationReport) correlationView {
	v := correlationView{}
	for _, a := range r.Aligned {
		v.Aligned = append(v.Aligned, alignedView{
			Date:         a.Date.Format(dateLayout),
			AvgSentiment: num(a.AvgSentiment),
			ArticleCount: a.ArticleCount,
			Close:        a.Close,
			DailyReturn:  num(a.DailyReturn),
			Volume:       a.Volume,
		})
	}
	for _, res := range sortedResults(r.Correlations) {
		v.Correlations = append(v.Correlations, correlationResultView{
			Metric:      res.Metric,
			Correlation: num(res.Correlation),
			PValue:      num(res.PValue),
			SampleSize:  res.SampleSize,
		})
	}
	return v
}

type reportView struct {
	RunAt       time.Time       `json:"run_at"`
	RunID       string          `json:"run_id,omitempty"`
	Ticker      string          `json:"ticker,omitempty"`
	News        newsView        `json:"news"`
	Market      marketView      `json:"market"`
	Correlation correlationView `json:"correlation"`
}

func newReportView(r *analysis.Report, runID string, opts viewOptions) reportView {
	return reportView{
		RunAt:       r.RunAt,
		RunID:       runID,
		Ticker:      r.Ticker,
		News:        newNewsView(r.News, opts.TopPublishers, opts.TopDomains),
		Market:      newMarketView(r.Ticker, r.Market, opts.Tail),
		Correlation: newCorrelationView(r.Correlation),
	}
}

// viewOptions limits the long tables of a report.
type viewOptions struct {
	TopPublishers int
	TopDomains    int
	Tail          int
}

func categoryCounts(rows []models.ScoredHeadline) map[string]int {
	counts := map[string]int{
		string(models.SentimentNegative): 0,
		string(models.SentimentNeutral):  0,
		string(models.SentimentPositive): 0,
	}
	for _, r := range rows {
		counts[string(r.Category)]++
	}
	return counts
}

func latestIndicators(table *models.IndicatorTable) map[string]*float64 {
	out := make(map[string]*float64)
	if table == nil {
		return out
	}
	for name := range table.Columns {
		if v, ok := table.Latest(name); ok {
			out[name] = num(v)
		} else {
			out[name] = nil
		}
	}
	return out
}

func sortedResults(results map[string]models.CorrelationResult) []models.CorrelationResult {
	out := make([]models.CorrelationResult, 0, len(results))
	for _, r := range results {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Metric < out[j].Metric })
	return out
}

// head returns the first n items, or all of them when n <= 0.
func head[T any](items []T, n int) []T {
	if n <= 0 || n >= len(items) {
		return items
	}
	return items[:n]
}

func tailStart(length, tail int) int {
	if tail <= 0 || tail >= length {
		return 0
	}
	return length - tail
}
