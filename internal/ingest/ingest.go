// Package ingest loads the headline and OHLCV tables from CSV files.
package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog"

	apperrors "news-sentiment/internal/errors"
	"news-sentiment/internal/logging"
)

// PriceFileSuffix is appended to an upper-cased ticker to name its price file.
const PriceFileSuffix = "_historical_data.csv"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Loader reads input tables and logs the rows it has to drop.
type Loader struct {
	logger zerolog.Logger
}

// NewLoader creates a loader that logs to logger.
func NewLoader(logger zerolog.Logger) *Loader {
	return &Loader{logger: logging.WithStage(logger, "ingest")}
}

// PricePath resolves the price file of ticker inside dir.
func PricePath(dir, ticker string) string {
	return filepath.Join(dir, strings.ToUpper(strings.TrimSpace(ticker))+PriceFileSuffix)
}

func readFile(dataType, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewDataError(dataType, path, "file not found", apperrors.ErrDataNotFound)
		}
		return nil, apperrors.NewDataError(dataType, path, "read failed", err)
	}
	return data, nil
}

func readAll(dataType string, r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.NewDataError(dataType, "reader", "read failed", err)
	}
	return data, nil
}

// header returns the column names of the first CSV record.
func header(data []byte) ([]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	cols, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return cols, nil
}

// requireColumns fails with a validation error naming the first required
// column missing from cols.
func requireColumns(cols []string, required ...string) error {
	present := make(map[string]bool, len(cols))
	for _, c := range cols {
		present[c] = true
	}
	for _, want := range required {
		if !present[want] {
			return apperrors.NewValidationErrorWrap("column", want, "required column is missing", apperrors.ErrMissingColumn)
		}
	}
	return nil
}

func hasColumn(cols []string, name string) bool {
	for _, c := range cols {
		if c == name {
			return true
		}
	}
	return false
}

// decode checks the required columns and unmarshals data into out.
func decode(dataType string, data []byte, out interface{}, required ...string) ([]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	cols, err := header(data)
	if err != nil {
		return nil, apperrors.NewDataError(dataType, "header", "malformed csv", err)
	}
	if err := requireColumns(cols, required...); err != nil {
		return nil, err
	}
	if err := gocsv.UnmarshalBytes(data, out); err != nil {
		return nil, apperrors.NewDataError(dataType, "rows", "malformed csv", fmt.Errorf("decode: %w", err))
	}
	return cols, nil
}
