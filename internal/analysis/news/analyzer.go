// Package news derives sentiment for headline records and aggregates them by
// publisher, e-mail domain, time and topic.
package news

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/iter"

	"news-sentiment/internal/analysis/sentiment"
	"news-sentiment/internal/analysis/text"
	"news-sentiment/internal/logging"
	"news-sentiment/internal/models"
)

// Analyzer normalizes and scores headlines.
type Analyzer struct {
	normalizer *text.Normalizer
	scorer     *sentiment.Scorer
	workers    int
	logger     zerolog.Logger
}

// AnalyzerConfig configures an Analyzer. Zero values select the defaults.
type AnalyzerConfig struct {
	DomainTerms []string
	Lemmatizer  text.Lemmatizer
	Lexicon     *sentiment.Lexicon
	Workers     int
	Logger      *zerolog.Logger
}

// NewAnalyzer creates a headline analyzer.
func NewAnalyzer(cfg AnalyzerConfig) *Analyzer {
	terms := cfg.DomainTerms
	if terms == nil {
		terms = text.DefaultDomainTerms
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	return &Analyzer{
		normalizer: text.NewNormalizer(terms, cfg.Lemmatizer),
		scorer:     sentiment.NewScorer(cfg.Lexicon),
		workers:    cfg.Workers,
		logger:     logging.WithStage(logger, "news"),
	}
}

// ScoreRecord derives the normalized text, polarity, category and date of one
// record.
func (a *Analyzer) ScoreRecord(rec models.HeadlineRecord) models.ScoredHeadline {
	normalized := a.normalizer.Normalize(rec.Headline)
	polarity, category := a.scorer.Score(normalized)

	scored := models.ScoredHeadline{
		HeadlineRecord: rec,
		Normalized:     normalized,
		Sentiment:      polarity,
		Category:       category,
	}
	if rec.Timestamp != nil {
		d := models.DateOf(*rec.Timestamp)
		scored.Date = &d
	}
	return scored
}

// Prepare scores every record, preserving input order. With more than one
// worker, records are scored concurrently.
func (a *Analyzer) Prepare(ctx context.Context, records []models.HeadlineRecord) ([]models.ScoredHeadline, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	var out []models.ScoredHeadline
	if a.workers > 1 && len(records) > a.workers {
		mapper := iter.Mapper[models.HeadlineRecord, models.ScoredHeadline]{MaxGoroutines: a.workers}
		out = mapper.Map(records, func(rec *models.HeadlineRecord) models.ScoredHeadline {
			return a.ScoreRecord(*rec)
		})
	} else {
		out = make([]models.ScoredHeadline, len(records))
		for i, rec := range records {
			out[i] = a.ScoreRecord(rec)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logging.LogStage(a.logger, "score", len(out), time.Since(start))
	return out, nil
}
