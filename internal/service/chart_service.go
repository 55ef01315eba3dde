package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/investifai/investif/internal/apperrors"
	"github.com/investifai/investif/internal/chart"
	"github.com/investifai/investif/internal/model"
	"github.com/investifai/investif/internal/seriescache"
)

// maxConcurrentFetches bounds the fan-out of a multi-ticker chart load.
const maxConcurrentFetches = 4

// ChartView is the explorer chart as shown to the user.
type ChartView struct {
	Selection []model.Selection   `json:"selection"`
	Range     chart.TimeRange     `json:"range"`
	Ranges    []chart.TimeRange   `json:"ranges"`
	Error     string              `json:"error,omitempty"`
	Payload   *model.ChartPayload `json:"payload,omitempty"`
}

// ChartService drives the explorer chart and the portfolio chart.
type ChartService struct {
	cache  *seriescache.Cache
	logger *slog.Logger
}

// NewChartService creates a new ChartService reading from cache.
func NewChartService(cache *seriescache.Cache, logger *slog.Logger) *ChartService {
	return &ChartService{cache: cache, logger: logger}
}

// State returns the selection, range and error without loading anything.
func (s *ChartService) State(ws *Workspace) ChartView {
	ws.lock()
	defer ws.unlock()
	return s.viewLocked(ws)
}

// Add appends ticker to the selection as active and loads its series.
// A ticker that cannot be loaded is dropped again and reported in the
// view's error. Each load clears the previous error.
func (s *ChartService) Add(ctx context.Context, ws *Workspace, ticker string) (ChartView, error) {
	ticker = normalizeTicker(ticker)
	if ticker == "" {
		return ChartView{}, apperrors.ErrInvalidSymbol
	}

	ws.lock()
	for _, sel := range ws.chartSelection {
		if sel.Ticker == ticker {
			ws.unlock()
			return ChartView{}, fmt.Errorf("%w: %s is already selected", apperrors.ErrDuplicateEntry, ticker)
		}
	}
	ws.chartSelection = append(ws.chartSelection, model.Selection{Ticker: ticker, Active: true})
	ws.chartError = ""
	ws.unlock()

	failed := s.load(ctx, []string{ticker})

	ws.lock()
	defer ws.unlock()
	s.dropFailedLocked(ws, []string{ticker}, failed)
	return s.viewLocked(ws), nil
}

// Remove drops ticker from the selection.
func (s *ChartService) Remove(ws *Workspace, ticker string) (ChartView, error) {
	ticker = normalizeTicker(ticker)

	ws.lock()
	defer ws.unlock()
	for i, sel := range ws.chartSelection {
		if sel.Ticker == ticker {
			ws.chartSelection = append(ws.chartSelection[:i], ws.chartSelection[i+1:]...)
			return s.viewLocked(ws), nil
		}
	}
	return ChartView{}, fmt.Errorf("%w: %s is not selected", apperrors.ErrSymbolNotFound, ticker)
}

// Toggle flips whether ticker is plotted. The series stays cached.
func (s *ChartService) Toggle(ws *Workspace, ticker string) (ChartView, error) {
	ticker = normalizeTicker(ticker)

	ws.lock()
	defer ws.unlock()
	for i := range ws.chartSelection {
		if ws.chartSelection[i].Ticker == ticker {
			ws.chartSelection[i].Active = !ws.chartSelection[i].Active
			return s.viewLocked(ws), nil
		}
	}
	return ChartView{}, fmt.Errorf("%w: %s is not selected", apperrors.ErrSymbolNotFound, ticker)
}

// SetRange changes the display window.
func (s *ChartService) SetRange(ws *Workspace, r chart.TimeRange) ChartView {
	ws.lock()
	defer ws.unlock()
	ws.chartRange = r
	return s.viewLocked(ws)
}

// Payload loads every selected ticker and returns the windowed chart.
func (s *ChartService) Payload(ctx context.Context, ws *Workspace) ChartView {
	ws.lock()
	tickers := selectionTickers(ws.chartSelection)
	ws.chartError = ""
	ws.unlock()

	failed := s.load(ctx, tickers)

	ws.lock()
	defer ws.unlock()
	s.dropFailedLocked(ws, tickers, failed)

	view := s.viewLocked(ws)
	payload := chart.Window(s.cache.Snapshot(selectionTickers(ws.chartSelection)), ws.chartSelection, ws.chartRange)
	view.Payload = &payload
	return view
}

// PortfolioPayload charts the user's positions, active ones plotted. Tickers
// that fail to load are reported but positions are never removed here.
func (s *ChartService) PortfolioPayload(ctx context.Context, ws *Workspace, r chart.TimeRange) ChartView {
	ws.lock()
	selection := make([]model.Selection, len(ws.positions))
	for i, p := range ws.positions {
		selection[i] = model.Selection{Ticker: p.Ticker, Active: p.IsActive}
	}
	ws.unlock()

	tickers := selectionTickers(selection)
	failed := s.load(ctx, tickers)

	view := ChartView{Selection: selection, Range: r, Ranges: chart.Ranges()}
	for _, t := range tickers {
		if err, ok := failed[t]; ok {
			view.Error = fetchErrorMessage(t, err)
		}
	}
	payload := chart.Window(s.cache.Snapshot(tickers), selection, r)
	view.Payload = &payload
	return view
}

// load fetches tickers concurrently and returns the failures by ticker.
func (s *ChartService) load(ctx context.Context, tickers []string) map[string]error {
	var (
		mu     sync.Mutex
		failed = make(map[string]error)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for _, t := range tickers {
		g.Go(func() error {
			if _, err := s.cache.Get(gctx, t); err != nil {
				s.logger.Warn("failed to load series", "ticker", t, "error", err)
				mu.Lock()
				failed[t] = err
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return failed
}

// dropFailedLocked removes failed tickers from the selection. The error of
// the last failure in selection order is the one shown.
func (s *ChartService) dropFailedLocked(ws *Workspace, order []string, failed map[string]error) {
	if len(failed) == 0 {
		return
	}
	for _, t := range order {
		if err, ok := failed[t]; ok {
			ws.chartError = fetchErrorMessage(t, err)
		}
	}
	kept := ws.chartSelection[:0]
	for _, sel := range ws.chartSelection {
		if _, ok := failed[sel.Ticker]; !ok {
			kept = append(kept, sel)
		}
	}
	ws.chartSelection = kept
}

func (s *ChartService) viewLocked(ws *Workspace) ChartView {
	selection := make([]model.Selection, len(ws.chartSelection))
	copy(selection, ws.chartSelection)
	return ChartView{
		Selection: selection,
		Range:     ws.chartRange,
		Ranges:    chart.Ranges(),
		Error:     ws.chartError,
	}
}

func selectionTickers(selection []model.Selection) []string {
	out := make([]string, len(selection))
	for i, sel := range selection {
		out[i] = sel.Ticker
	}
	return out
}

func fetchErrorMessage(ticker string, err error) string {
	if errors.Is(err, apperrors.ErrStockNotFound) {
		return "Stock not found: " + ticker
	}
	return fmt.Sprintf("Failed to fetch chart data for %s.", ticker)
}
