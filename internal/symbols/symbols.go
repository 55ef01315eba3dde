// Package symbols searches the stock symbol universe.
//
// The universe is fetched once from a Provider and filtered locally by
// case-insensitive substring on symbol or description. A Session wraps the
// Searcher for one user and discards results of superseded queries.
package symbols

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/investifai/investif/internal/apperrors"
)

// DefaultLimit caps the number of results returned by Search.
const DefaultLimit = 20

// Symbol is one searchable instrument.
type Symbol struct {
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
}

// Provider loads the symbol universe.
type Provider interface {
	Symbols(ctx context.Context) ([]Symbol, error)
}

// Searcher filters a lazily loaded symbol universe.
type Searcher struct {
	provider Provider
	logger   *slog.Logger

	mu       sync.Mutex
	universe []Symbol
	loaded   bool
}

// NewSearcher creates a Searcher backed by provider.
func NewSearcher(provider Provider, logger *slog.Logger) *Searcher {
	return &Searcher{provider: provider, logger: logger}
}

// Search returns up to limit symbols whose ticker or description contains
// query, ignoring case. An empty query returns nothing. A limit <= 0 means DefaultLimit.
func (s *Searcher) Search(ctx context.Context, query string, limit int) ([]Symbol, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []Symbol{}, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	universe, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	out := []Symbol{}
	for _, sym := range universe {
		if strings.Contains(strings.ToLower(sym.Symbol), q) || strings.Contains(strings.ToLower(sym.Description), q) {
			out = append(out, sym)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// Lookup returns the symbol exactly matching ticker.
func (s *Searcher) Lookup(ctx context.Context, ticker string) (Symbol, error) {
	universe, err := s.load(ctx)
	if err != nil {
		return Symbol{}, err
	}
	t := strings.ToUpper(strings.TrimSpace(ticker))
	for _, sym := range universe {
		if sym.Symbol == t {
			return sym, nil
		}
	}
	return Symbol{}, fmt.Errorf("%w: %s", apperrors.ErrSymbolNotFound, ticker)
}

// load fetches the universe on first use. A failed load is retried on the next call.
func (s *Searcher) load(ctx context.Context) ([]Symbol, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.universe, nil
	}

	universe, err := s.provider.Symbols(ctx)
	if err != nil {
		s.logger.Warn("failed to load symbol universe", "error", err)
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToSearchSymbols, err)
	}
	s.universe = universe
	s.loaded = true
	s.logger.Info("symbol universe loaded", "count", len(universe))
	return universe, nil
}

// StaticProvider serves a fixed list of large caps.
type StaticProvider struct{}

// Symbols returns the built-in universe.
func (StaticProvider) Symbols(context.Context) ([]Symbol, error) {
	return []Symbol{
		{Symbol: "AAPL", Description: "Apple Inc."},
		{Symbol: "GOOGL", Description: "Alphabet Inc."},
		{Symbol: "TSLA", Description: "Tesla, Inc."},
		{Symbol: "MSFT", Description: "Microsoft Corporation"},
		{Symbol: "AMZN", Description: "Amazon.com, Inc."},
		{Symbol: "NVDA", Description: "NVIDIA Corporation"},
		{Symbol: "META", Description: "Meta Platforms, Inc."},
		{Symbol: "NFLX", Description: "Netflix, Inc."},
		{Symbol: "DIS", Description: "The Walt Disney Company"},
		{Symbol: "AMD", Description: "Advanced Micro Devices, Inc."},
	}, nil
}
