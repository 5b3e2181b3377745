package ingest

import (
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"news-sentiment/internal/logging"
	"news-sentiment/internal/models"
)

// OHLCV table columns.
const (
	ColBarDate = "Date"
	ColOpen    = "Open"
	ColHigh    = "High"
	ColLow     = "Low"
	ColClose   = "Close"
	ColVolume  = "Volume"
)

type priceRow struct {
	Date   string `csv:"Date"`
	Open   string `csv:"Open"`
	High   string `csv:"High"`
	Low    string `csv:"Low"`
	Close  string `csv:"Close"`
	Volume string `csv:"Volume"`
}

// LoadPrices reads the OHLCV table at path. Rows with a missing or invalid
// field are dropped, the rest are sorted by date and deduplicated keeping the
// first bar of each date.
func (l *Loader) LoadPrices(path string) ([]models.OHLCVBar, error) {
	data, err := readFile("prices", path)
	if err != nil {
		return nil, err
	}
	return l.parsePrices(data)
}

// LoadTickerPrices reads <dir>/<TICKER>_historical_data.csv.
func (l *Loader) LoadTickerPrices(dir, ticker string) ([]models.OHLCVBar, error) {
	return l.LoadPrices(PricePath(dir, ticker))
}

// ReadPrices reads an OHLCV table from r.
func (l *Loader) ReadPrices(r io.Reader) ([]models.OHLCVBar, error) {
	data, err := readAll("prices", r)
	if err != nil {
		return nil, err
	}
	return l.parsePrices(data)
}

func (l *Loader) parsePrices(data []byte) ([]models.OHLCVBar, error) {
	var rows []priceRow
	if _, err := decode("prices", data, &rows, ColBarDate, ColOpen, ColHigh, ColLow, ColClose, ColVolume); err != nil {
		return nil, err
	}

	bars := make([]models.OHLCVBar, 0, len(rows))
	var invalid int
	for _, row := range rows {
		bar, ok := parseBar(row)
		if !ok {
			invalid++
			continue
		}
		bars = append(bars, bar)
	}

	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].Date.Before(bars[j].Date)
	})

	deduped := bars[:0]
	for _, b := range bars {
		if len(deduped) > 0 && b.Date.Equal(deduped[len(deduped)-1].Date) {
			continue
		}
		deduped = append(deduped, b)
	}
	duplicates := len(bars) - len(deduped)

	if invalid > 0 {
		logging.LogDropped(l.logger, "prices", "missing or invalid field", invalid, len(deduped))
	}
	if duplicates > 0 {
		logging.LogDropped(l.logger, "prices", "duplicate date", duplicates, len(deduped))
	}
	l.logger.Debug().Int("rows", len(deduped)).Msg("prices loaded")
	return deduped, nil
}

func parseBar(row priceRow) (models.OHLCVBar, bool) {
	ts := ParseTimestamp(row.Date)
	if ts == nil {
		return models.OHLCVBar{}, false
	}

	var prices [4]float64
	for i, s := range []string{row.Open, row.High, row.Low, row.Close} {
		v, ok := parseNumber(s)
		if !ok || v <= 0 {
			return models.OHLCVBar{}, false
		}
		prices[i] = v
	}

	volume, ok := parseNumber(row.Volume)
	if !ok || volume < 0 {
		return models.OHLCVBar{}, false
	}

	return models.OHLCVBar{
		Date:   models.DateOf(*ts),
		Open:   prices[0],
		High:   prices[1],
		Low:    prices[2],
		Close:  prices[3],
		Volume: int64(math.Round(volume)),
	}, true
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
