package cli

import (
	"errors"
	"fmt"
	"math"

	"news-sentiment/internal/analysis"
	"news-sentiment/internal/analysis/correlation"
	"news-sentiment/internal/analysis/stats"
	apperrors "news-sentiment/internal/errors"
	"news-sentiment/internal/models"
	"news-sentiment/pkg/utils"
)

// headlineWidth caps publisher names in tables.
const headlineWidth = 40

// indicatorOrder is the display order of the latest indicator values.
var indicatorOrder = []string{
	"SMA_20", "SMA_50", "EMA_20", "RSI_14", "ATR_14",
	"MACD", "MACD_signal", "MACD_hist",
	"BB_upper", "BB_middle", "BB_lower",
}

func renderReport(output *Output, r *analysis.Report, opts viewOptions) {
	output.Bold("═══ %s Sentiment Report ═══", r.Ticker)
	output.Dim("Run at %s", r.RunAt.Format("2006-01-02 15:04:05 MST"))
	output.Println()

	renderNews(output, r.News, opts)
	output.Println()
	renderMarket(output, r.Ticker, r.Market, opts)
	output.Println()
	renderCorrelation(output, r.Correlation, false)
}

func renderNews(output *Output, r *analysis.NewsReport, opts viewOptions) {
	counts := categoryCounts(r.Headlines)
	output.Bold("Headlines: %s", utils.FormatCount(len(r.Headlines)))
	output.Printf("  %s positive   %s neutral   %s negative\n",
		output.Green(utils.FormatCount(counts[string(models.SentimentPositive)])),
		output.Yellow(utils.FormatCount(counts[string(models.SentimentNeutral)])),
		output.Red(utils.FormatCount(counts[string(models.SentimentNegative)])))
	output.Println()

	if len(r.Headlines) == 0 {
		output.Warning("No headlines to analyze")
		return
	}

	output.Bold("Top Publishers")
	rows := make([][]string, 0, len(r.Publishers))
	for i, p := range head(r.Publishers, opts.TopPublishers) {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			utils.Truncate(p.Publisher, headlineWidth),
			utils.FormatCount(p.Count),
			output.Polarity(p.AvgSentiment),
		})
	}
	output.Table([]string{"#", "PUBLISHER", "ARTICLES", "AVG SENTIMENT"}, rows)
	output.Println()

	if len(r.Domains) > 0 {
		output.Bold("Publisher Domains")
		rows = rows[:0]
		for _, d := range head(r.Domains, opts.TopDomains) {
			rows = append(rows, []string{d.Domain, utils.FormatCount(d.Count)})
		}
		output.Table([]string{"DOMAIN", "PUBLISHERS"}, rows)
		output.Println()
	}

	if len(r.Topics) > 0 {
		output.Bold("Topics")
		rows = rows[:0]
		for _, t := range r.Topics {
			rows = append(rows, []string{t.Term, utils.FormatCount(t.Count)})
		}
		output.Table([]string{"TERM", "COUNT"}, rows)
		output.Println()
	}

	renderTemporal(output, r.Temporal)
}

func renderTemporal(output *Output, t models.TemporalSummary) {
	output.Bold("Publication Time")
	output.Table(
		[]string{"", "COUNT", "MEAN", "STD", "MIN", "25%", "50%", "75%", "MAX"},
		[][]string{summaryRow("hour", t.Hour), summaryRow("sentiment", t.Sentiment)},
	)
	output.Println()

	output.Bold("Day of Week")
	rows := make([][]string, 0, len(t.DayOfWeek))
	for _, d := range t.DayOfWeek {
		rows = append(rows, []string{d.Name, utils.FormatCount(d.Count)})
	}
	output.Table([]string{"DAY", "HEADLINES"}, rows)
}

func summaryRow(label string, s models.Summary) []string {
	return []string{
		label,
		utils.FormatCount(s.Count),
		utils.FormatFloat(s.Mean, 3),
		utils.FormatFloat(s.Std, 3),
		utils.FormatFloat(s.Min, 3),
		utils.FormatFloat(s.Q25, 3),
		utils.FormatFloat(s.Median, 3),
		utils.FormatFloat(s.Q75, 3),
		utils.FormatFloat(s.Max, 3),
	}
}

func renderMarket(output *Output, ticker string, r *analysis.MarketReport, opts viewOptions) {
	if len(r.Bars) == 0 {
		output.Warning("No price data")
		return
	}
	first, last := r.Bars[0], r.Bars[len(r.Bars)-1]
	output.Bold("%s: %s bars, %s to %s", ticker, utils.FormatCount(len(r.Bars)),
		first.Date.Format(dateLayout), last.Date.Format(dateLayout))

	lastMetrics := r.Metrics[len(r.Metrics)-1]
	output.Printf("  Last Close:        %s\n", utils.FormatPrice(last.Close))
	output.Printf("  Cumulative Return: %s\n", output.Change(lastMetrics.CumulativeReturn))
	output.Printf("  Volatility (20D):  %s\n", utils.FormatFloat(lastMetrics.Volatility20D, 4))
	output.Printf("  Volume MA (20D):   %s\n", utils.FormatCompact(lastMetrics.VolumeMA20))
	output.Printf("  Sharpe Ratio:      %s\n", utils.FormatFloat(r.SharpeRatio, 3))
	output.Println()

	if r.Indicators != nil {
		output.Bold("Latest Indicators")
		rows := make([][]string, 0, len(indicatorOrder))
		for _, name := range indicatorOrder {
			if _, ok := r.Indicators.Columns[name]; !ok {
				continue
			}
			v, ok := r.Indicators.Latest(name)
			if !ok {
				v = math.NaN()
			}
			rows = append(rows, []string{name, utils.FormatFloat(v, 2)})
		}
		output.Table([]string{"INDICATOR", "VALUE"}, rows)
		output.Println()
	}

	output.Bold("Daily Metrics")
	rows := make([][]string, 0, opts.Tail)
	for i := tailStart(len(r.Metrics), opts.Tail); i < len(r.Metrics); i++ {
		m, b := r.Metrics[i], r.Bars[i]
		rows = append(rows, []string{
			m.Date.Format(dateLayout),
			utils.FormatPrice(b.Close),
			utils.FormatVolume(b.Volume),
			utils.FormatFloat(m.Volatility20D, 4),
			output.Change(m.DailyReturn),
		})
	}
	output.Table([]string{"DATE", "CLOSE", "VOLUME", "VOL 20D", "RETURN"}, rows)
}

func renderCorrelation(output *Output, r *analysis.CorrelationReport, withAligned bool) {
	output.Bold("Sentiment Correlation (%d aligned days)", len(r.Aligned))
	rows := make([][]string, 0, len(correlation.Metrics))
	for _, res := range sortedResults(r.Correlations) {
		rows = append(rows, []string{
			res.Metric,
			utils.FormatCount(res.SampleSize),
			utils.FormatPValue(res.PValue),
			utils.FormatSigned(res.Correlation, 4),
		})
	}
	output.Table([]string{"METRIC", "N", "P-VALUE", "PEARSON R"}, rows)

	if withAligned && len(r.Aligned) > 0 {
		output.Println()
		output.Bold("Aligned Days")
		rows = rows[:0]
		for _, a := range r.Aligned {
			rows = append(rows, []string{
				a.Date.Format(dateLayout),
				utils.FormatCount(a.ArticleCount),
				utils.FormatPrice(a.Close),
				utils.FormatVolume(a.Volume),
				output.Change(a.DailyReturn),
				output.Polarity(a.AvgSentiment),
			})
		}
		output.Table([]string{"DATE", "ARTICLES", "CLOSE", "VOLUME", "RETURN", "SENTIMENT"}, rows)
	}
}

// describeError turns pipeline failures into a short user-facing hint.
func describeError(err error) string {
	var statErr *apperrors.StatisticalError
	switch {
	case errors.As(err, &statErr) && errors.Is(err, apperrors.ErrInsufficientSample):
		return fmt.Sprintf("%s needs at least %d aligned days with data, found %d", statErr.Metric, stats.MinCorrelationSample, statErr.SampleSize)
	case errors.As(err, &statErr) && errors.Is(err, apperrors.ErrZeroVariance):
		return fmt.Sprintf("%s is undefined: one of the series is constant", statErr.Metric)
	case errors.Is(err, apperrors.ErrDataNotFound):
		return "input file not found; check data.headlines_path and data.prices_dir"
	case errors.Is(err, apperrors.ErrMissingColumn):
		return "input table is missing a required column"
	default:
		return ""
	}
}

// showHint prints the hint for err below the error report in text mode.
func showHint(output *Output, err error) {
	if output.IsJSON() {
		return
	}
	if hint := describeError(err); hint != "" {
		output.Dim("hint: %s", hint)
	}
}
