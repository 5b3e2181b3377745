// Package indicators provides technical indicator calculations with parallel processing.
package indicators

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"news-sentiment/internal/models"
)

// Indicator defines the interface for single-value technical indicators.
type Indicator interface {
	Name() string
	Calculate(bars []models.OHLCVBar) ([]float64, error)
	Period() int
}

// MultiValueIndicator defines the interface for indicators that return multiple values.
type MultiValueIndicator interface {
	Name() string
	Calculate(bars []models.OHLCVBar) (map[string][]float64, error)
	Period() int
}

// Engine calculates registered indicators concurrently on a bounded pool.
type Engine struct {
	workers     int
	indicators  map[string]Indicator
	multiIndics map[string]MultiValueIndicator
	mu          sync.RWMutex
}

// NewEngine creates a new indicator engine with the specified number of workers.
func NewEngine(workers int) *Engine {
	if workers <= 0 {
		workers = 4
	}
	return &Engine{
		workers:     workers,
		indicators:  make(map[string]Indicator),
		multiIndics: make(map[string]MultiValueIndicator),
	}
}

// DefaultEngine returns an engine with the standard indicator set registered:
// SMA_20, SMA_50, EMA_20, RSI_14, ATR_14, MACD(12, 26, 9) and Bollinger(20, 2).
func DefaultEngine(workers int) *Engine {
	e := NewEngine(workers)
	e.RegisterIndicator(NewSMA(20))
	e.RegisterIndicator(NewSMA(50))
	e.RegisterIndicator(NewEMA(20))
	e.RegisterIndicator(NewRSI(14))
	e.RegisterIndicator(NewATR(14))
	e.RegisterMultiIndicator(NewMACD(12, 26, 9))
	e.RegisterMultiIndicator(NewBollingerBands(20, 2))
	return e
}

// RegisterIndicator registers a single-value indicator.
func (e *Engine) RegisterIndicator(ind Indicator) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.indicators[ind.Name()] = ind
}

// RegisterMultiIndicator registers a multi-value indicator.
func (e *Engine) RegisterMultiIndicator(ind MultiValueIndicator) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.multiIndics[ind.Name()] = ind
}

// CalculateAll calculates all registered indicators in parallel and flattens
// multi-value results into one column map. The first indicator error cancels
// the rest and is returned.
func (e *Engine) CalculateAll(ctx context.Context, bars []models.OHLCVBar) (map[string][]float64, error) {
	if len(bars) == 0 {
		return nil, ErrNoBars
	}

	var (
		mu      sync.Mutex
		columns = make(map[string][]float64)
	)
	p := pool.New().
		WithMaxGoroutines(e.workers).
		WithContext(ctx).
		WithFirstError().
		WithCancelOnError()

	for name, calc := range e.jobs() {
		name, calc := name, calc
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			values, err := calc(bars)
			if err != nil {
				return fmt.Errorf("indicator %s: %w", name, err)
			}
			mu.Lock()
			defer mu.Unlock()
			for col, v := range values {
				columns[col] = v
			}
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return columns, nil
}

// calcFunc computes the columns of one registered indicator.
type calcFunc func(bars []models.OHLCVBar) (map[string][]float64, error)

// jobs snapshots the registered indicators as column calculators keyed by
// indicator name.
func (e *Engine) jobs() map[string]calcFunc {
	e.mu.RLock()
	defer e.mu.RUnlock()

	jobs := make(map[string]calcFunc, len(e.indicators)+len(e.multiIndics))
	for name, ind := range e.indicators {
		jobs[name] = single(ind)
	}
	for name, ind := range e.multiIndics {
		jobs[name] = ind.Calculate
	}
	return jobs
}

func single(ind Indicator) calcFunc {
	return func(bars []models.OHLCVBar) (map[string][]float64, error) {
		values, err := ind.Calculate(bars)
		if err != nil {
			return nil, err
		}
		return map[string][]float64{ind.Name(): values}, nil
	}
}

// Calculate runs one registered indicator, single or multi-value, by name.
func (e *Engine) Calculate(ctx context.Context, name string, bars []models.OHLCVBar) (map[string][]float64, error) {
	calc, ok := e.jobs()[name]
	if !ok {
		return nil, fmt.Errorf("indicator %s not found", name)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return calc(bars)
}

// Table runs every registered indicator and returns the columns aligned to
// the bar dates.
func (e *Engine) Table(ctx context.Context, bars []models.OHLCVBar) (*models.IndicatorTable, error) {
	columns, err := e.CalculateAll(ctx, bars)
	if err != nil {
		return nil, err
	}
	dates := make([]time.Time, len(bars))
	for i, b := range bars {
		dates[i] = b.Date
	}
	return &models.IndicatorTable{Dates: dates, Columns: columns}, nil
}

// ListIndicators returns the sorted names of all registered single-value indicators.
func (e *Engine) ListIndicators() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.indicators))
	for name := range e.indicators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListMultiIndicators returns the sorted names of all registered multi-value indicators.
func (e *Engine) ListMultiIndicators() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.multiIndics))
	for name := range e.multiIndics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
