// Package analysis runs the headline sentiment and market analysis stages and
// collects their outputs into a report.
package analysis

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"news-sentiment/internal/analysis/correlation"
	"news-sentiment/internal/analysis/indicators"
	"news-sentiment/internal/analysis/metrics"
	"news-sentiment/internal/analysis/news"
	apperrors "news-sentiment/internal/errors"
	"news-sentiment/internal/logging"
	"news-sentiment/internal/models"
)

// NewsReport holds the scored headlines and every aggregate derived from them.
type NewsReport struct {
	Headlines      []models.ScoredHeadline `json:"-"`
	Publishers     []models.PublisherStat  `json:"publishers"`
	Domains        []models.DomainStat     `json:"domains"`
	Topics         []models.TopicTerm      `json:"topics"`
	Temporal       models.TemporalSummary  `json:"temporal"`
	DailySentiment []models.DailySentiment `json:"daily_sentiment"`
}

// MarketReport holds the metrics and indicators of one price series.
type MarketReport struct {
	Bars        []models.OHLCVBar      `json:"-"`
	Metrics     []models.DailyMetrics  `json:"daily_metrics"`
	SharpeRatio float64                `json:"sharpe_ratio"`
	Indicators  *models.IndicatorTable `json:"indicators"`
}

// CorrelationReport holds the date-aligned join and its correlations.
type CorrelationReport struct {
	Aligned      []models.AlignedDay                 `json:"aligned"`
	Correlations map[string]models.CorrelationResult `json:"correlations"`
}

// Report is the output of a full pipeline run.
type Report struct {
	RunAt       time.Time          `json:"run_at"`
	Ticker      string             `json:"ticker,omitempty"`
	News        *NewsReport        `json:"news"`
	Market      *MarketReport      `json:"market"`
	Correlation *CorrelationReport `json:"correlation"`
}

// PipelineConfig configures a Pipeline. Zero values select the defaults.
type PipelineConfig struct {
	News    news.AnalyzerConfig
	NTopics int
	NWords  int
	Workers int
	Logger  *zerolog.Logger
}

// Pipeline wires the news, market and correlation stages together.
type Pipeline struct {
	analyzer *news.Analyzer
	engine   *indicators.Engine
	nTopics  int
	nWords   int
	logger   zerolog.Logger
}

// NewPipeline creates a pipeline.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	newsCfg := cfg.News
	if newsCfg.Logger == nil {
		newsCfg.Logger = &logger
	}
	if newsCfg.Workers == 0 {
		newsCfg.Workers = cfg.Workers
	}
	nTopics, nWords := cfg.NTopics, cfg.NWords
	if nTopics <= 0 {
		nTopics = news.DefaultTopics
	}
	if nWords <= 0 {
		nWords = news.DefaultWords
	}
	return &Pipeline{
		analyzer: news.NewAnalyzer(newsCfg),
		engine:   indicators.DefaultEngine(cfg.Workers),
		nTopics:  nTopics,
		nWords:   nWords,
		logger:   logger,
	}
}

// AnalyzeNews scores the records and computes the publisher, domain, topic,
// temporal and daily aggregates. Empty input yields an empty report.
func (p *Pipeline) AnalyzeNews(ctx context.Context, records []models.HeadlineRecord) (*NewsReport, error) {
	start := time.Now()
	rows, err := p.analyzer.Prepare(ctx, records)
	if err != nil {
		return nil, apperrors.Wrap(err, "score headlines")
	}

	report := &NewsReport{
		Headlines:      rows,
		Publishers:     news.PublisherStats(rows),
		Domains:        news.DomainCounts(rows),
		Topics:         news.Topics(rows, p.nTopics, p.nWords),
		Temporal:       news.Temporal(rows),
		DailySentiment: news.DailySentiment(rows),
	}
	logging.LogStage(p.logger, "news", len(rows), time.Since(start))
	return report, nil
}

// AnalyzeMarket computes daily metrics, the Sharpe ratio and the indicator
// table of bars.
func (p *Pipeline) AnalyzeMarket(ctx context.Context, bars []models.OHLCVBar) (*MarketReport, error) {
	start := time.Now()
	daily, err := metrics.Compute(bars)
	if err != nil {
		return nil, apperrors.Wrap(err, "compute metrics")
	}

	table, err := p.engine.Table(ctx, bars)
	if err != nil {
		return nil, apperrors.Wrap(err, "compute indicators")
	}

	report := &MarketReport{
		Bars:        bars,
		Metrics:     daily,
		SharpeRatio: metrics.SharpeRatio(daily),
		Indicators:  table,
	}
	logging.LogStage(p.logger, "market", len(bars), time.Since(start))
	return report, nil
}

// Correlate joins the daily sentiment with the market report and correlates
// them.
func (p *Pipeline) Correlate(newsReport *NewsReport, market *MarketReport) (*CorrelationReport, error) {
	aligned, err := correlation.Align(newsReport.DailySentiment, market.Bars, market.Metrics)
	if err != nil {
		return nil, err
	}
	if dropped := len(newsReport.DailySentiment) - len(aligned); dropped > 0 {
		logging.LogDropped(p.logger, "daily_sentiment", "no trading day", dropped, len(aligned))
	}

	results, err := correlation.CorrelateWithLogger(p.logger, aligned)
	if err != nil {
		return nil, err
	}
	return &CorrelationReport{Aligned: aligned, Correlations: results}, nil
}

// Run executes every stage. Any stage failure aborts the run.
func (p *Pipeline) Run(ctx context.Context, ticker string, records []models.HeadlineRecord, bars []models.OHLCVBar) (*Report, error) {
	newsReport, err := p.AnalyzeNews(ctx, records)
	if err != nil {
		return nil, err
	}
	market, err := p.AnalyzeMarket(ctx, bars)
	if err != nil {
		return nil, err
	}
	corr, err := p.Correlate(newsReport, market)
	if err != nil {
		return nil, err
	}
	return &Report{
		RunAt:       time.Now().UTC(),
		Ticker:      ticker,
		News:        newsReport,
		Market:      market,
		Correlation: corr,
	}, nil
}
