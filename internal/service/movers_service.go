package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/investifai/investif/internal/apperrors"
	"github.com/investifai/investif/internal/chart"
	"github.com/investifai/investif/internal/model"
	"github.com/investifai/investif/internal/seriescache"
)

// MoversLimit is how many movers the explorer shows.
const MoversLimit = 5

// Rank merges the three rankings of board, keeping the last occurrence of a
// ticker, and returns the MoversLimit entries with the largest absolute
// change.
func Rank(board model.MoverBoard) []model.Mover {
	byTicker := make(map[string]model.Mover)
	var order []string
	for _, list := range [][]model.Mover{board.MostActive, board.TopGainers, board.TopLosers} {
		for _, m := range list {
			if _, seen := byTicker[m.Ticker]; !seen {
				order = append(order, m.Ticker)
			}
			byTicker[m.Ticker] = m
		}
	}

	movers := make([]model.Mover, 0, len(order))
	for _, t := range order {
		movers = append(movers, byTicker[t])
	}
	sort.SliceStable(movers, func(i, j int) bool {
		return math.Abs(movers[i].ChangePercent) > math.Abs(movers[j].ChangePercent)
	})
	if len(movers) > MoversLimit {
		movers = movers[:MoversLimit]
	}
	return movers
}

// MoversService is the Top-Movers Explorer. The ranked list and company
// names are shared by all users; the chart selection is per workspace.
type MoversService struct {
	source MoversSource
	charts *seriescache.Cache
	logger *slog.Logger

	mu          sync.RWMutex
	movers      []model.Mover
	refreshedAt time.Time
	names       map[string]string
}

// NewMoversService creates a new MoversService. charts caches the
// per-ticker chart series.
func NewMoversService(source MoversSource, charts *seriescache.Cache, logger *slog.Logger) *MoversService {
	return &MoversService{
		source: source,
		charts: charts,
		logger: logger,
		names:  make(map[string]string),
	}
}

// Refresh reloads the rankings and prefetches the company names of the
// ranked tickers. Name failures are logged and left out.
func (s *MoversService) Refresh(ctx context.Context) ([]model.Mover, error) {
	board, err := s.source.TopMovers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveMovers, err)
	}
	movers := Rank(board)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for _, m := range movers {
		g.Go(func() error {
			if _, err := s.CompanyName(gctx, m.Ticker); err != nil {
				s.logger.Warn("failed to prefetch company name", "ticker", m.Ticker, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	s.mu.Lock()
	s.movers = movers
	s.refreshedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info("top movers refreshed", "count", len(movers))
	return s.withNames(movers), nil
}

// Movers returns the ranked movers, loading them on first use.
func (s *MoversService) Movers(ctx context.Context) ([]model.Mover, error) {
	s.mu.RLock()
	movers, loaded := s.movers, !s.refreshedAt.IsZero()
	s.mu.RUnlock()

	if !loaded {
		return s.Refresh(ctx)
	}
	return s.withNames(movers), nil
}

// CompanyName returns the company name of ticker, fetching it once.
func (s *MoversService) CompanyName(ctx context.Context, ticker string) (string, error) {
	ticker = normalizeTicker(ticker)

	s.mu.RLock()
	name, ok := s.names[ticker]
	s.mu.RUnlock()
	if ok {
		return name, nil
	}

	name, err := s.source.CompanyName(ctx, ticker)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.names[ticker] = name
	s.mu.Unlock()
	return name, nil
}

// Toggle selects or deselects ticker on the comparative chart. Selecting
// fetches the chart series unless it is cached; deselecting keeps it cached.
func (s *MoversService) Toggle(ctx context.Context, ws *Workspace, ticker string) model.MoversChart {
	ticker = normalizeTicker(ticker)

	ws.lock()
	for i, t := range ws.moverSelection {
		if t == ticker {
			ws.moverSelection = append(ws.moverSelection[:i], ws.moverSelection[i+1:]...)
			view := s.chartLocked(ws)
			ws.unlock()
			return view
		}
	}
	ws.moverSelection = append(ws.moverSelection, ticker)
	ws.unlock()

	_, err := s.charts.Get(ctx, ticker)

	ws.lock()
	defer ws.unlock()
	if err != nil {
		s.logger.Warn("failed to load mover chart", "ticker", ticker, "error", err)
		ws.moverError = fetchErrorMessage(ticker, err)
		for i, t := range ws.moverSelection {
			if t == ticker {
				ws.moverSelection = append(ws.moverSelection[:i], ws.moverSelection[i+1:]...)
				break
			}
		}
	}
	return s.chartLocked(ws)
}

// Clear empties the selection.
func (s *MoversService) Clear(ws *Workspace) model.MoversChart {
	ws.lock()
	defer ws.unlock()
	ws.moverSelection = nil
	ws.moverError = ""
	return s.chartLocked(ws)
}

// Chart returns the comparative chart of the current selection.
func (s *MoversService) Chart(ws *Workspace) model.MoversChart {
	ws.lock()
	defer ws.unlock()
	return s.chartLocked(ws)
}

func (s *MoversService) chartLocked(ws *Workspace) model.MoversChart {
	s.mu.RLock()
	changes := make(map[string]float64, len(s.movers))
	for _, m := range s.movers {
		changes[m.Ticker] = m.ChangePercent
	}
	names := make(map[string]string, len(ws.moverSelection))
	for _, t := range ws.moverSelection {
		names[t] = s.names[t]
	}
	s.mu.RUnlock()

	cached := s.charts.Snapshot(ws.moverSelection)
	series := make([]model.MoverSeries, len(ws.moverSelection))
	for i, t := range ws.moverSelection {
		_, ok := cached[t]
		series[i] = model.MoverSeries{
			Ticker:        t,
			Color:         chart.MoverColor(i),
			Name:          names[t],
			ChangePercent: changes[t],
			Loading:       !ok,
		}
	}

	return model.MoversChart{
		Series: series,
		Rows:   chart.Merge(ws.moverSelection, cached),
		Error:  ws.moverError,
	}
}

func (s *MoversService) withNames(movers []model.Mover) []model.Mover {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Mover, len(movers))
	for i, m := range movers {
		m.Name = s.names[m.Ticker]
		out[i] = m
	}
	return out
}
