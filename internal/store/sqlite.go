package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"news-sentiment/internal/analysis"
	apperrors "news-sentiment/internal/errors"
)

const dateLayout = "2006-01-02"

// SQLiteExporter writes reports to a SQLite database, one run per Export.
type SQLiteExporter struct {
	db *sql.DB
}

// NewSQLiteExporter opens (creating if needed) the database at dbPath.
func NewSQLiteExporter(dbPath string) (*SQLiteExporter, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, apperrors.NewDataError("export", dbPath, "failed to create directory", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	exporter := &SQLiteExporter{db: db}
	if err := exporter.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return exporter, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteExporter) initSchema() error {
	schema := `
	-- One row per exported analysis run
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		ticker TEXT,
		run_at DATETIME NOT NULL,
		headline_count INTEGER NOT NULL,
		bar_count INTEGER NOT NULL,
		sharpe_ratio REAL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS daily_sentiment (
		run_id TEXT NOT NULL,
		date TEXT NOT NULL,
		avg_sentiment REAL NOT NULL,
		article_count INTEGER NOT NULL,
		PRIMARY KEY (run_id, date),
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	-- Undefined metrics are stored as NULL
	CREATE TABLE IF NOT EXISTS daily_metrics (
		run_id TEXT NOT NULL,
		date TEXT NOT NULL,
		close REAL NOT NULL,
		volume INTEGER NOT NULL,
		daily_return REAL,
		cumulative_return REAL,
		volatility_20d REAL,
		volume_ma_20 REAL,
		PRIMARY KEY (run_id, date),
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE TABLE IF NOT EXISTS publisher_stats (
		run_id TEXT NOT NULL,
		rank INTEGER NOT NULL,
		publisher TEXT NOT NULL,
		count INTEGER NOT NULL,
		avg_sentiment REAL,
		PRIMARY KEY (run_id, rank),
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE TABLE IF NOT EXISTS topics (
		run_id TEXT NOT NULL,
		rank INTEGER NOT NULL,
		term TEXT NOT NULL,
		count INTEGER NOT NULL,
		PRIMARY KEY (run_id, rank),
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE TABLE IF NOT EXISTS correlations (
		run_id TEXT NOT NULL,
		metric TEXT NOT NULL,
		correlation REAL,
		p_value REAL,
		sample_size INTEGER NOT NULL,
		PRIMARY KEY (run_id, metric),
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_ticker ON runs(ticker, run_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Export writes report in a single transaction.
func (s *SQLiteExporter) Export(ctx context.Context, report *analysis.Report) (string, error) {
	if report == nil || report.News == nil || report.Market == nil {
		return "", apperrors.NewValidationError("report", nil, "news and market sections are required")
	}

	runID := uuid.New().String()
	runAt := report.RunAt
	if runAt.IsZero() {
		runAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to begin transaction: %v", apperrors.ErrDatabaseError, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, ticker, run_at, headline_count, bar_count, sharpe_ratio)
		VALUES (?, ?, ?, ?, ?, ?)
	`, runID, report.Ticker, runAt, len(report.News.Headlines), len(report.Market.Bars), nullFloat(report.Market.SharpeRatio))
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	steps := []func(context.Context, *sql.Tx, string, *analysis.Report) error{
		insertDailySentiment,
		insertDailyMetrics,
		insertPublishers,
		insertTopics,
		insertCorrelations,
	}
	for _, step := range steps {
		if err := step(ctx, tx, runID, report); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}
	return runID, nil
}

func insertDailySentiment(ctx context.Context, tx *sql.Tx, runID string, report *analysis.Report) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO daily_sentiment (run_id, date, avg_sentiment, article_count)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, d := range report.News.DailySentiment {
		if _, err := stmt.ExecContext(ctx, runID, d.Date.Format(dateLayout), d.AvgSentiment, d.ArticleCount); err != nil {
			return fmt.Errorf("failed to insert daily sentiment: %w", err)
		}
	}
	return nil
}

func insertDailyMetrics(ctx context.Context, tx *sql.Tx, runID string, report *analysis.Report) error {
	market := report.Market
	if len(market.Bars) != len(market.Metrics) {
		return apperrors.NewValidationErrorWrap("metrics", len(market.Metrics), "metrics must be parallel to bars", apperrors.ErrLengthMismatch)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO daily_metrics (run_id, date, close, volume, daily_return, cumulative_return, volatility_20d, volume_ma_20)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, m := range market.Metrics {
		bar := market.Bars[i]
		_, err := stmt.ExecContext(ctx, runID, m.Date.Format(dateLayout), bar.Close, bar.Volume,
			nullFloat(m.DailyReturn), nullFloat(m.CumulativeReturn), nullFloat(m.Volatility20D), nullFloat(m.VolumeMA20))
		if err != nil {
			return fmt.Errorf("failed to insert daily metrics: %w", err)
		}
	}
	return nil
}

func insertPublishers(ctx context.Context, tx *sql.Tx, runID string, report *analysis.Report) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO publisher_stats (run_id, rank, publisher, count, avg_sentiment)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, p := range report.News.Publishers {
		if _, err := stmt.ExecContext(ctx, runID, i+1, p.Publisher, p.Count, nullFloat(p.AvgSentiment)); err != nil {
			return fmt.Errorf("failed to insert publisher: %w", err)
		}
	}
	return nil
}

func insertTopics(ctx context.Context, tx *sql.Tx, runID string, report *analysis.Report) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO topics (run_id, rank, term, count)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, t := range report.News.Topics {
		if _, err := stmt.ExecContext(ctx, runID, i+1, t.Term, t.Count); err != nil {
			return fmt.Errorf("failed to insert topic: %w", err)
		}
	}
	return nil
}

func insertCorrelations(ctx context.Context, tx *sql.Tx, runID string, report *analysis.Report) error {
	if report.Correlation == nil {
		return nil
	}

	metrics := make([]string, 0, len(report.Correlation.Correlations))
	for name := range report.Correlation.Correlations {
		metrics = append(metrics, name)
	}
	sort.Strings(metrics)

	for _, name := range metrics {
		c := report.Correlation.Correlations[name]
		_, err := tx.ExecContext(ctx, `
			INSERT INTO correlations (run_id, metric, correlation, p_value, sample_size)
			VALUES (?, ?, ?, ?, ?)
		`, runID, name, nullFloat(c.Correlation), nullFloat(c.PValue), c.SampleSize)
		if err != nil {
			return fmt.Errorf("failed to insert correlation: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteExporter) Close() error {
	return s.db.Close()
}
