package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
}

func TestNewLoggerWithConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "sentiment.log")
	logger := NewLoggerWithConfig(LogConfig{
		Level:    "info",
		File:     true,
		FilePath: path,
		MaxSize:  1,
	})
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	logger.Info().Str("ticker", "A").Msg("hello")
	logger.Debug().Msg("hidden")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"ticker":"A"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestConsoleWriter_NoColor(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(newConsoleWriter(&buf, true))
	logger.Warn().Msg("careful")

	assert.Contains(t, buf.String(), "WRN")
	assert.NotContains(t, buf.String(), "\033[")

	buf.Reset()
	logger = zerolog.New(newConsoleWriter(&buf, false))
	logger.Error().Msg("bad")
	assert.Contains(t, buf.String(), "\033[31mERR")
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestEventHelpers(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	var buf bytes.Buffer
	logger := WithStage(WithTicker(zerolog.New(&buf).Level(zerolog.DebugLevel), "AAPL"), "market")

	LogDropped(logger, "prices", "invalid row", 0, 10)
	LogDropped(logger, "prices", "invalid row", 2, 8)
	LogStage(logger, "market", 8, 15*time.Millisecond)
	LogCorrelation(logger, "pearson_sentiment_returns", 0.5, 0.01, 7)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 3, "nothing is logged when no rows are dropped")

	assert.Equal(t, "rows_dropped", lines[0]["event"])
	assert.Equal(t, "AAPL", lines[0]["ticker"])
	assert.Equal(t, "market", lines[0]["stage"])
	assert.EqualValues(t, 2, lines[0]["dropped"])

	assert.Equal(t, "stage", lines[1]["event"])
	assert.EqualValues(t, 8, lines[1]["rows"])

	assert.Equal(t, "pearson_sentiment_returns", lines[2]["metric"])
}
