package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/investifai/investif/internal/model"
	"github.com/investifai/investif/internal/seriescache"
)

// DeltaService compares purchase prices with the latest cached prices.
type DeltaService struct {
	cache  *seriescache.Cache
	logger *slog.Logger
}

// NewDeltaService creates a new DeltaService.
func NewDeltaService(cache *seriescache.Cache, logger *slog.Logger) *DeltaService {
	return &DeltaService{cache: cache, logger: logger}
}

// Compute returns the delta of p against current.
func Compute(p model.Position, current float64) model.PriceDelta {
	purchase := decimal.NewFromFloat(p.Price)
	cur := decimal.NewFromFloat(current)
	qty := decimal.NewFromFloat(p.Quantity)

	return model.PriceDelta{
		Ticker:        p.Ticker,
		PurchasePrice: purchase.Round(2).InexactFloat64(),
		CurrentPrice:  cur.Round(2).InexactFloat64(),
		NetChange:     cur.Sub(purchase).Round(2).InexactFloat64(),
		PositionValue: cur.Mul(qty).Round(2).InexactFloat64(),
	}
}

// Deltas returns the delta of every position in the workspace, in list
// order. Positions whose series cannot be loaded are left out.
func (s *DeltaService) Deltas(ctx context.Context, ws *Workspace) []model.PriceDelta {
	ws.lock()
	positions := copyPositions(ws.positions)
	ws.unlock()

	var (
		mu      sync.Mutex
		current = make(map[string]float64, len(positions))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for _, p := range positions {
		g.Go(func() error {
			series, err := s.cache.Get(gctx, p.Ticker)
			if err != nil {
				s.logger.Warn("failed to load series for delta", "ticker", p.Ticker, "error", err)
				return nil
			}
			if _, price, ok := series.Last(); ok {
				mu.Lock()
				current[p.Ticker] = price
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	out := make([]model.PriceDelta, 0, len(positions))
	for _, p := range positions {
		if price, ok := current[p.Ticker]; ok {
			out = append(out, Compute(p, price))
		}
	}
	return out
}
