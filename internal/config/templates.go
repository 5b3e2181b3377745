package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# News Sentiment Analyzer Configuration

[data]
# Headline table with headline, publisher, date and optional stock columns
headlines_path = "data/raw_analyst_ratings.csv"
# Directory holding <TICKER>_historical_data.csv price files
prices_dir = "data/yfinance_data"
# Default ticker; also filters the headline table by its stock column
ticker = ""

[analysis]
# Words kept even when they are stop words
domain_terms = ["buy", "sell", "hold", "up", "down", "above", "below", "over", "under", "out", "off", "not", "no"]
# Topic extraction returns n_topics * n_words terms
n_topics = 5
n_words = 5
# Parallel workers for scoring and indicators (0 or 1 scores sequentially)
workers = 4
# Optional YAML lexicon replacing the built-in one
lexicon_path = ""

[logging]
# Log level: debug, info, warn, error
level = "info"
console = true
# Rotating log file
file = false
file_path = "~/.config/news-sentiment/logs/sentiment.log"
max_size = 50
max_backups = 5
max_age = 30

[export]
# Write every analyze run to a SQLite database
enabled = false
sqlite_path = "~/.config/news-sentiment/reports.db"

[ui]
# Enable colored output
color_enabled = true
# Rows shown in the publisher and domain tables
top_publishers = 10
top_domains = 10
`

// Template returns the default config file contents.
func Template() string {
	return configTemplate
}

func createTemplateConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}
	return nil
}
