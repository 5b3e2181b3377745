// Package cli provides the command-line interface for the sentiment analyzer.
package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"news-sentiment/internal/config"
	"news-sentiment/internal/logging"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2024-06-01"
)

// App holds the application dependencies. They are populated once the
// persistent flags have been parsed.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd() *cobra.Command {
	app := &App{Logger: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:   "sentiment",
		Short: "Financial news sentiment analyzer",
		Long: `Sentiment scores financial headlines, aggregates them by publisher,
domain, topic and time, computes price metrics and technical indicators
for a ticker, and correlates daily sentiment with returns and volume.

Use 'sentiment config template' to print a starting configuration.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file or directory (default: ~/.config/news-sentiment)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addCoreCommands(rootCmd, app)
	addAnalysisCommands(rootCmd, app)

	return rootCmd
}

// setup loads the configuration and builds the logger.
func (app *App) setup(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	app.Config = cfg
	if !cfg.UI.ColorEnabled {
		color.NoColor = true
	}

	logCfg := cfg.Logging.LogConfig()
	logCfg.NoColor = color.NoColor
	app.Logger = logging.NewLoggerWithConfig(logCfg)

	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		logging.SetDebugLevel()
		app.Logger = app.Logger.Level(zerolog.DebugLevel)
	}
	app.Logger.Debug().Str("config", cfg.File).Msg("Configuration loaded")
	return nil
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("News Sentiment Analyzer v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			path := app.Config.File
			if path == "" {
				path = config.DefaultConfigPath()
			}
			if output.IsJSON() {
				output.JSON(map[string]string{"path": path})
			} else {
				output.Println(path)
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "template",
		Short: "Print a configuration template",
		Run: func(cmd *cobra.Command, args []string) {
			NewOutput(cmd).Printf("%s", config.Template())
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	source := cfg.File
	if source == "" {
		source = "built-in defaults"
	}
	output.Dim("Source: %s", source)
	output.Println()

	output.Bold("Data")
	output.Printf("  Headlines:       %s\n", cfg.Data.HeadlinesPath)
	output.Printf("  Prices Dir:      %s\n", cfg.Data.PricesDir)
	output.Printf("  Ticker:          %s\n", orDash(cfg.Data.Ticker))
	output.Println()

	output.Bold("Analysis")
	output.Printf("  Topics x Words:  %d x %d\n", cfg.Analysis.NTopics, cfg.Analysis.NWords)
	output.Printf("  Workers:         %d\n", cfg.Analysis.Workers)
	output.Printf("  Domain Terms:    %d\n", len(cfg.Analysis.DomainTerms))
	output.Printf("  Lexicon:         %s\n", orDash(cfg.Analysis.LexiconPath))
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:           %s\n", cfg.Logging.Level)
	output.Printf("  Console:         %v\n", cfg.Logging.Console)
	output.Printf("  File:            %v\n", cfg.Logging.File)
	output.Println()

	output.Bold("Export")
	output.Printf("  Enabled:         %v\n", cfg.Export.Enabled)
	output.Printf("  SQLite Path:     %s\n", cfg.Export.SQLitePath)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
