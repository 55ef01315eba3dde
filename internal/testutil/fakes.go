package testutil

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/investifai/investif/internal/apperrors"
	"github.com/investifai/investif/internal/model"
)

// FakeSeriesSource serves canned series and historical prices. Unknown
// tickers yield apperrors.ErrStockNotFound.
type FakeSeriesSource struct {
	mu         sync.Mutex
	Series     map[string]model.PriceSeries
	Prices     map[string]float64
	Errors     map[string]error
	PriceDates []time.Time

	calls atomic.Int64
}

// NewFakeSeriesSource creates an empty FakeSeriesSource.
func NewFakeSeriesSource() *FakeSeriesSource {
	return &FakeSeriesSource{
		Series: make(map[string]model.PriceSeries),
		Prices: make(map[string]float64),
		Errors: make(map[string]error),
	}
}

// FetchSeries returns the canned series of ticker.
func (f *FakeSeriesSource) FetchSeries(_ context.Context, ticker string) (model.PriceSeries, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.Errors[ticker]; ok {
		return model.PriceSeries{}, err
	}
	s, ok := f.Series[ticker]
	if !ok {
		return model.PriceSeries{}, fmt.Errorf("%w: %s", apperrors.ErrStockNotFound, ticker)
	}
	return s, nil
}

// PriceOnDate returns the canned price of ticker and records date.
func (f *FakeSeriesSource) PriceOnDate(_ context.Context, ticker string, date time.Time) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.PriceDates = append(f.PriceDates, date)
	p, ok := f.Prices[ticker]
	if !ok {
		return 0, fmt.Errorf("%w: %s", apperrors.ErrHistoricalPriceUnavailable, ticker)
	}
	return p, nil
}

// Calls returns how many times FetchSeries ran.
func (f *FakeSeriesSource) Calls() int {
	return int(f.calls.Load())
}

// FakeMoversSource serves a canned board, company names and chart series.
type FakeMoversSource struct {
	mu     sync.Mutex
	Board  model.MoverBoard
	Err    error
	Names  map[string]string
	Charts map[string]model.PriceSeries

	chartCalls atomic.Int64
}

// NewFakeMoversSource creates an empty FakeMoversSource.
func NewFakeMoversSource() *FakeMoversSource {
	return &FakeMoversSource{
		Names:  make(map[string]string),
		Charts: make(map[string]model.PriceSeries),
	}
}

// TopMovers returns the canned board.
func (f *FakeMoversSource) TopMovers(context.Context) (model.MoverBoard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Board, f.Err
}

// CompanyName returns the canned name of ticker.
func (f *FakeMoversSource) CompanyName(_ context.Context, ticker string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name, ok := f.Names[ticker]
	if !ok {
		return "", fmt.Errorf("%w: no company info for %s", apperrors.ErrUpstream, ticker)
	}
	return name, nil
}

// ChartSeries returns the canned chart of ticker.
func (f *FakeMoversSource) ChartSeries(_ context.Context, ticker string) (model.PriceSeries, error) {
	f.chartCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.Charts[ticker]
	if !ok {
		return model.PriceSeries{}, fmt.Errorf("%w: %s", apperrors.ErrStockNotFound, ticker)
	}
	return s, nil
}

// ChartCalls returns how many times ChartSeries ran.
func (f *FakeMoversSource) ChartCalls() int {
	return int(f.chartCalls.Load())
}

// FakeSummarizer answers every prompt with Answer or Err.
type FakeSummarizer struct {
	mu      sync.Mutex
	Answer  string
	Err     error
	Prompts []string
}

// Summarize records prompt and returns the canned answer.
func (f *FakeSummarizer) Summarize(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Prompts = append(f.Prompts, prompt)
	return f.Answer, f.Err
}

// Name identifies the fake.
func (f *FakeSummarizer) Name() string { return "fake" }
