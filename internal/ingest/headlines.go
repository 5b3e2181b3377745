package ingest

import (
	"io"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"news-sentiment/internal/logging"
	"news-sentiment/internal/models"
)

// Headline table columns.
const (
	ColHeadline  = "headline"
	ColPublisher = "publisher"
	ColDate      = "date"
	ColStock     = "stock"
)

type headlineRow struct {
	Headline  string `csv:"headline"`
	Publisher string `csv:"publisher"`
	Date      string `csv:"date"`
	Stock     string `csv:"stock"`
}

// HeadlineOptions filters the rows returned by LoadHeadlines.
type HeadlineOptions struct {
	// Ticker keeps only rows whose stock column matches, case-insensitively.
	Ticker string
}

// LoadHeadlines reads the headline table at path.
func (l *Loader) LoadHeadlines(path string, opts HeadlineOptions) ([]models.HeadlineRecord, error) {
	data, err := readFile("headlines", path)
	if err != nil {
		return nil, err
	}
	return l.parseHeadlines(data, opts)
}

// ReadHeadlines reads a headline table from r.
func (l *Loader) ReadHeadlines(r io.Reader, opts HeadlineOptions) ([]models.HeadlineRecord, error) {
	data, err := readAll("headlines", r)
	if err != nil {
		return nil, err
	}
	return l.parseHeadlines(data, opts)
}

func (l *Loader) parseHeadlines(data []byte, opts HeadlineOptions) ([]models.HeadlineRecord, error) {
	var rows []headlineRow
	cols, err := decode("headlines", data, &rows, ColHeadline, ColPublisher, ColDate)
	if err != nil {
		return nil, err
	}

	ticker := strings.TrimSpace(opts.Ticker)
	if ticker != "" && !hasColumn(cols, ColStock) {
		l.logger.Warn().Str("ticker", ticker).Msg("headline table has no stock column, ticker filter ignored")
		ticker = ""
	}

	records := make([]models.HeadlineRecord, 0, len(rows))
	var filtered, undated int
	for _, row := range rows {
		if ticker != "" && !strings.EqualFold(strings.TrimSpace(row.Stock), ticker) {
			filtered++
			continue
		}
		rec := models.HeadlineRecord{
			Headline:  row.Headline,
			Publisher: strings.TrimSpace(row.Publisher),
			Ticker:    strings.TrimSpace(row.Stock),
			Timestamp: ParseTimestamp(row.Date),
		}
		if rec.Timestamp == nil {
			undated++
		}
		records = append(records, rec)
	}

	if filtered > 0 {
		logging.LogDropped(l.logger, "headlines", "ticker mismatch", filtered, len(records))
	}
	if undated > 0 {
		l.logger.Warn().
			Int("undated", undated).
			Int("rows", len(records)).
			Msg("headlines with unparsable dates are excluded from date-keyed outputs")
	}
	l.logger.Debug().Int("rows", len(records)).Msg("headlines loaded")
	return records, nil
}

// ParseTimestamp leniently parses a date-time string. Values without a zone
// are read as UTC. It returns nil when s cannot be parsed.
func ParseTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return nil
	}
	return &t
}
