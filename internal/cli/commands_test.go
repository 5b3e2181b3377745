package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "news-sentiment/internal/errors"
	"news-sentiment/internal/models"
)

type dataset struct {
	configDir string
	headlines string
	pricesDir string
	dbPath    string
}

// newDataset writes days trading days of prices for ticker A with one
// headline each, an extra ticker B headline, and a config exporting to a
// temp file.
func newDataset(t *testing.T, days int) dataset {
	t.Helper()
	root := t.TempDir()
	ds := dataset{
		configDir: filepath.Join(root, "config"),
		headlines: filepath.Join(root, "headlines.csv"),
		pricesDir: filepath.Join(root, "prices"),
		dbPath:    filepath.Join(root, "out", "reports.db"),
	}
	require.NoError(t, os.MkdirAll(ds.configDir, 0o755))
	require.NoError(t, os.MkdirAll(ds.pricesDir, 0o755))

	cfg := fmt.Sprintf("[logging]\nlevel = \"error\"\nconsole = false\n\n[export]\nsqlite_path = %q\n\n[ui]\ncolor_enabled = false\n", ds.dbPath)
	require.NoError(t, os.WriteFile(filepath.Join(ds.configDir, "config.toml"), []byte(cfg), 0o644))

	closes := []float64{100, 102, 101, 104, 103, 107, 106, 110}
	titles := []string{
		"Company schedules annual meeting",
		"Shares surge on strong growth",
		"Analysts cut target after weak quarter",
		"Record profit beats estimates",
		"Shares fall on lawsuit concerns",
		"Upgrade lifts stock to record high",
		"Stock slips after downgrade",
		"Strong gains as rally continues",
	}

	prices := []string{"Date,Open,High,Low,Close,Adj Close,Volume"}
	news := []string{",headline,url,publisher,date,stock"}
	for i := 0; i < days; i++ {
		date := fmt.Sprintf("2023-03-%02d", i+1)
		c := closes[i]
		prices = append(prices, fmt.Sprintf("%s,%.2f,%.2f,%.2f,%.2f,%.2f,%d", date, c, c+1, c-1, c, c, 1000+100*i))
		news = append(news, fmt.Sprintf("%d,%s,http://x/%d,Desk,%s 10:00:00-04:00,A", i, titles[i], i, date))
	}
	news = append(news, "99,Other ticker news,http://y,Desk,2023-03-02 10:00:00-04:00,B")

	require.NoError(t, os.WriteFile(filepath.Join(ds.pricesDir, "A_historical_data.csv"), []byte(strings.Join(prices, "\n")+"\n"), 0o644))
	require.NoError(t, os.WriteFile(ds.headlines, []byte(strings.Join(news, "\n")+"\n"), 0o644))
	return ds
}

func (ds dataset) args(extra ...string) []string {
	return append([]string{
		"--config", ds.configDir,
		"--headlines", ds.headlines,
		"--prices-dir", ds.pricesDir,
	}, extra...)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersionCommand_JSON(t *testing.T) {
	out, err := execute(t, "version", "--json", "--config", t.TempDir())
	require.NoError(t, err)

	var v map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, Version, v["version"])
}

func TestConfigTemplateCommand(t *testing.T) {
	out, err := execute(t, "config", "template", "--config", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "[analysis]")
	assert.Contains(t, out, "n_topics")
}

func TestAnalyzeCommand_JSON(t *testing.T) {
	ds := newDataset(t, 8)
	args := append([]string{"analyze"}, ds.args("--ticker", "a", "--json")...)

	out, err := execute(t, args...)
	require.NoError(t, err)

	var v reportView
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, "A", v.Ticker)
	assert.Empty(t, v.RunID)
	assert.Equal(t, 8, v.News.Headlines, "ticker B headline is filtered out")
	assert.Equal(t, 8, v.Market.Bars)
	require.Len(t, v.Market.Metrics, 8)
	assert.Nil(t, v.Market.Metrics[0].DailyReturn)
	require.Len(t, v.Correlation.Aligned, 8)
	require.Len(t, v.Correlation.Correlations, 2)
	assert.Equal(t, models.MetricSentimentReturns, v.Correlation.Correlations[0].Metric)
	assert.Equal(t, 7, v.Correlation.Correlations[0].SampleSize)
	assert.Equal(t, 8, v.Correlation.Correlations[1].SampleSize)
}

func TestAnalyzeCommand_Export(t *testing.T) {
	ds := newDataset(t, 8)
	args := append([]string{"analyze"}, ds.args("--ticker", "A", "--export", "--json")...)

	out, err := execute(t, args...)
	require.NoError(t, err)

	var v reportView
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.NotEmpty(t, v.RunID)
	assert.FileExists(t, ds.dbPath)
}

func TestAnalyzeCommand_Text(t *testing.T) {
	ds := newDataset(t, 8)
	args := append([]string{"analyze"}, ds.args("--ticker", "A", "--tail", "3")...)

	out, err := execute(t, args...)
	require.NoError(t, err)
	assert.Contains(t, out, "A Sentiment Report")
	assert.Contains(t, out, "Top Publishers")
	assert.Contains(t, out, models.MetricSentimentVolume)
	assert.Contains(t, out, "2023-03-08")
	assert.NotContains(t, out, "\x1b[", "color is disabled by config")
}

func TestAnalyzeCommand_RequiresTicker(t *testing.T) {
	ds := newDataset(t, 8)
	_, err := execute(t, append([]string{"analyze"}, ds.args()...)...)
	require.Error(t, err)

	var verr *apperrors.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestCorrelateCommand_InsufficientSample(t *testing.T) {
	ds := newDataset(t, 2)
	out, err := execute(t, append([]string{"correlate"}, ds.args("--ticker", "A")...)...)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientSample)
	assert.Contains(t, out, "hint:")
}

func TestStockCommand(t *testing.T) {
	ds := newDataset(t, 8)
	out, err := execute(t, "stock", "a", "--config", ds.configDir, "--prices-dir", ds.pricesDir, "--json")
	require.NoError(t, err)

	var v marketView
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, "A", v.Ticker)
	assert.Equal(t, 8, v.Bars)
	assert.Contains(t, v.Indicators, "RSI_14")
	assert.Nil(t, v.Indicators["SMA_20"])
}

func TestStockCommand_MissingFile(t *testing.T) {
	ds := newDataset(t, 8)
	_, err := execute(t, "stock", "ZZZ", "--config", ds.configDir, "--prices-dir", ds.pricesDir)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDataNotFound)
}

func TestNewsCommand_JSON(t *testing.T) {
	ds := newDataset(t, 8)
	out, err := execute(t, "news", "--config", ds.configDir, "--headlines", ds.headlines, "--json")
	require.NoError(t, err)

	var v newsView
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, 9, v.Headlines)
	require.NotEmpty(t, v.Publishers)
	assert.Equal(t, "Desk", v.Publishers[0].Publisher)
	assert.Len(t, v.DailySentiment, 8)
}
