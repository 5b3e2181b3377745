package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"news-sentiment/internal/analysis"
	"news-sentiment/internal/analysis/news"
	"news-sentiment/internal/analysis/sentiment"
	apperrors "news-sentiment/internal/errors"
	"news-sentiment/internal/ingest"
	"news-sentiment/internal/logging"
	"news-sentiment/internal/models"
	"news-sentiment/internal/store"
)

// addAnalysisCommands adds analysis commands.
func addAnalysisCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newAnalyzeCmd(app))
	rootCmd.AddCommand(newNewsCmd(app))
	rootCmd.AddCommand(newStockCmd(app))
	rootCmd.AddCommand(newCorrelateCmd(app))
}

func newAnalyzeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the full sentiment and market analysis",
		Long: `Run every stage for one ticker:
- Headline scoring (polarity and category)
- Publisher, domain, topic and temporal summaries
- Daily returns, volatility, volume average and Sharpe ratio
- Technical indicators (SMA, EMA, RSI, ATR, MACD, Bollinger Bands)
- Sentiment correlation with returns and volume`,
		Example: `  sentiment analyze --ticker AAPL
  sentiment analyze --ticker NVDA --headlines data/raw_analyst_ratings.csv --export
  sentiment analyze --ticker TSLA --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			in, err := resolveInputs(cmd, app, "")
			if err != nil {
				return err
			}
			if err := in.requireTicker(); err != nil {
				return err
			}

			pipeline, err := newPipeline(app)
			if err != nil {
				return fmt.Errorf("failed to build pipeline: %w", err)
			}

			records, bars, err := in.loadAll(app)
			if err != nil {
				showHint(output, err)
				return fmt.Errorf("failed to load data: %w", err)
			}

			report, err := pipeline.Run(cmd.Context(), in.Ticker, records, bars)
			if err != nil {
				showHint(output, err)
				return fmt.Errorf("analysis failed: %w", err)
			}

			runID := ""
			if in.Export {
				runID, err = exportReport(cmd.Context(), app, report)
				if err != nil {
					return fmt.Errorf("export failed: %w", err)
				}
			}

			opts := in.viewOptions(app)
			if output.IsJSON() {
				return output.JSON(newReportView(report, runID, opts))
			}
			renderReport(output, report, opts)
			if runID != "" {
				output.Success("✓ Exported run %s to %s", runID, app.Config.Export.SQLitePath)
			}
			return nil
		},
	}

	addInputFlags(cmd)
	cmd.Flags().Bool("export", false, "export the report to the configured SQLite file")
	cmd.Flags().Int("top", 0, "rows shown in publisher and domain tables (default from config)")
	cmd.Flags().Int("tail", 10, "trailing days shown in the metrics table (0 for all)")

	return cmd
}

func newNewsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "news",
		Short: "Headline sentiment analytics",
		Long: `Score headlines and summarize them by publisher, e-mail domain, topic,
hour of day and weekday. With --ticker the table is filtered by its stock
column.`,
		Example: `  sentiment news
  sentiment news --ticker AAPL --top 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			in, err := resolveInputs(cmd, app, "")
			if err != nil {
				return err
			}

			pipeline, err := newPipeline(app)
			if err != nil {
				return fmt.Errorf("failed to build pipeline: %w", err)
			}

			records, err := in.loadHeadlines(app)
			if err != nil {
				showHint(output, err)
				return fmt.Errorf("failed to load headlines: %w", err)
			}

			report, err := pipeline.AnalyzeNews(cmd.Context(), records)
			if err != nil {
				showHint(output, err)
				return fmt.Errorf("analysis failed: %w", err)
			}

			opts := in.viewOptions(app)
			if output.IsJSON() {
				return output.JSON(newNewsView(report, opts.TopPublishers, opts.TopDomains))
			}
			renderNews(output, report, opts)
			return nil
		},
	}

	addInputFlags(cmd)
	cmd.Flags().Int("top", 0, "rows shown in publisher and domain tables (default from config)")

	return cmd
}

func newStockCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stock <ticker>",
		Short: "Price metrics and technical indicators for a ticker",
		Long: `Compute daily returns, cumulative return, 20-day volatility, 20-day
volume average, the Sharpe ratio and the latest technical indicators from
<prices_dir>/<TICKER>_historical_data.csv.`,
		Example: `  sentiment stock AAPL
  sentiment stock MSFT --tail 30
  sentiment stock GOOG --prices ./data/GOOG.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			in, err := resolveInputs(cmd, app, args[0])
			if err != nil {
				return err
			}

			pipeline, err := newPipeline(app)
			if err != nil {
				return fmt.Errorf("failed to build pipeline: %w", err)
			}

			bars, err := in.loadPrices(app)
			if err != nil {
				showHint(output, err)
				return fmt.Errorf("failed to load prices: %w", err)
			}

			report, err := pipeline.AnalyzeMarket(cmd.Context(), bars)
			if err != nil {
				showHint(output, err)
				return fmt.Errorf("analysis failed: %w", err)
			}

			opts := in.viewOptions(app)
			if output.IsJSON() {
				return output.JSON(newMarketView(in.Ticker, report, opts.Tail))
			}
			renderMarket(output, in.Ticker, report, opts)
			return nil
		},
	}

	cmd.Flags().String("prices", "", "price CSV file (default <prices_dir>/<TICKER>_historical_data.csv)")
	cmd.Flags().String("prices-dir", "", "directory of price CSV files")
	cmd.Flags().Int("tail", 10, "trailing days shown in the metrics table (0 for all)")

	return cmd
}

func newCorrelateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "correlate",
		Short: "Correlate daily sentiment with returns and volume",
		Long: `Join daily average sentiment with the ticker's trading days and report the
Pearson correlation (with two-sided p-value) against daily returns and
volume. At least three complete days are required for each metric.`,
		Example: `  sentiment correlate --ticker AAPL
  sentiment correlate --ticker AMZN --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			in, err := resolveInputs(cmd, app, "")
			if err != nil {
				return err
			}
			if err := in.requireTicker(); err != nil {
				return err
			}

			pipeline, err := newPipeline(app)
			if err != nil {
				return fmt.Errorf("failed to build pipeline: %w", err)
			}

			records, bars, err := in.loadAll(app)
			if err != nil {
				showHint(output, err)
				return fmt.Errorf("failed to load data: %w", err)
			}

			report, err := pipeline.Run(cmd.Context(), in.Ticker, records, bars)
			if err != nil {
				showHint(output, err)
				return fmt.Errorf("correlation failed: %w", err)
			}

			if output.IsJSON() {
				return output.JSON(newCorrelationView(report.Correlation))
			}
			renderCorrelation(output, report.Correlation, true)
			return nil
		},
	}

	addInputFlags(cmd)

	return cmd
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("headlines", "", "headline CSV file (default from config)")
	cmd.Flags().String("prices", "", "price CSV file (default <prices_dir>/<TICKER>_historical_data.csv)")
	cmd.Flags().String("prices-dir", "", "directory of price CSV files")
	cmd.Flags().StringP("ticker", "t", "", "ticker symbol (default from config)")
}

// inputs are the data locations of one command, resolved from flags first and
// configuration second.
type inputs struct {
	HeadlinesPath string
	PricesPath    string
	PricesDir     string
	Ticker        string
	Export        bool
	Top           int
	Tail          int
}

func resolveInputs(cmd *cobra.Command, app *App, ticker string) (*inputs, error) {
	cfg := app.Config
	in := &inputs{
		HeadlinesPath: cfg.Data.HeadlinesPath,
		PricesDir:     cfg.Data.PricesDir,
		Ticker:        cfg.Data.Ticker,
		Export:        cfg.Export.Enabled,
	}

	flags := cmd.Flags()
	if v, _ := flags.GetString("headlines"); v != "" {
		in.HeadlinesPath = v
	}
	if v, _ := flags.GetString("prices-dir"); v != "" {
		in.PricesDir = v
	}
	if v, _ := flags.GetString("prices"); v != "" {
		in.PricesPath = v
	}
	if v, _ := flags.GetString("ticker"); v != "" {
		in.Ticker = v
	}
	if ticker != "" {
		in.Ticker = ticker
	}
	if v, _ := flags.GetBool("export"); v {
		in.Export = true
	}
	in.Top, _ = flags.GetInt("top")
	in.Tail, _ = flags.GetInt("tail")

	in.Ticker = strings.ToUpper(strings.TrimSpace(in.Ticker))
	if in.Top < 0 {
		return nil, apperrors.NewValidationError("top", in.Top, "must not be negative")
	}
	if in.Tail < 0 {
		return nil, apperrors.NewValidationError("tail", in.Tail, "must not be negative")
	}
	return in, nil
}

func (in *inputs) requireTicker() error {
	if in.Ticker == "" && in.PricesPath == "" {
		return apperrors.NewValidationError("ticker", "", "a ticker is required (--ticker or data.ticker)")
	}
	return nil
}

func (in *inputs) viewOptions(app *App) viewOptions {
	opts := viewOptions{
		TopPublishers: app.Config.UI.TopPublishers,
		TopDomains:    app.Config.UI.TopDomains,
		Tail:          in.Tail,
	}
	if in.Top > 0 {
		opts.TopPublishers = in.Top
		opts.TopDomains = in.Top
	}
	return opts
}

func (in *inputs) loader(app *App) *ingest.Loader {
	logger := app.Logger
	if in.Ticker != "" {
		logger = logging.WithTicker(logger, in.Ticker)
	}
	return ingest.NewLoader(logger)
}

func (in *inputs) loadHeadlines(app *App) ([]models.HeadlineRecord, error) {
	return in.loader(app).LoadHeadlines(in.HeadlinesPath, ingest.HeadlineOptions{Ticker: in.Ticker})
}

func (in *inputs) loadPrices(app *App) ([]models.OHLCVBar, error) {
	if in.PricesPath != "" {
		return in.loader(app).LoadPrices(in.PricesPath)
	}
	if in.Ticker == "" {
		return nil, apperrors.NewValidationError("ticker", "", "a ticker is required to locate the price file")
	}
	return in.loader(app).LoadTickerPrices(in.PricesDir, in.Ticker)
}

func (in *inputs) loadAll(app *App) ([]models.HeadlineRecord, []models.OHLCVBar, error) {
	records, err := in.loadHeadlines(app)
	if err != nil {
		return nil, nil, err
	}
	bars, err := in.loadPrices(app)
	if err != nil {
		return nil, nil, err
	}
	return records, bars, nil
}

// newPipeline builds the analysis pipeline from the loaded configuration.
func newPipeline(app *App) (*analysis.Pipeline, error) {
	cfg := app.Config.Analysis

	var lexicon *sentiment.Lexicon
	if cfg.LexiconPath != "" {
		lex, err := sentiment.LoadLexicon(cfg.LexiconPath)
		if err != nil {
			return nil, err
		}
		app.Logger.Debug().Str("path", cfg.LexiconPath).Int("entries", lex.Len()).Msg("Custom lexicon loaded")
		lexicon = lex
	}

	logger := app.Logger
	return analysis.NewPipeline(analysis.PipelineConfig{
		News: news.AnalyzerConfig{
			DomainTerms: cfg.DomainTerms,
			Lexicon:     lexicon,
		},
		NTopics: cfg.NTopics,
		NWords:  cfg.NWords,
		Workers: cfg.Workers,
		Logger:  &logger,
	}), nil
}

func exportReport(ctx context.Context, app *App, report *analysis.Report) (string, error) {
	exporter, err := store.NewSQLiteExporter(app.Config.Export.SQLitePath)
	if err != nil {
		return "", err
	}
	defer exporter.Close()

	runID, err := exporter.Export(ctx, report)
	if err != nil {
		return "", fmt.Errorf("export to %s: %w", app.Config.Export.SQLitePath, err)
	}
	app.Logger.Info().Str("run_id", runID).Str("path", app.Config.Export.SQLitePath).Msg("Report exported")
	return runID, nil
}
