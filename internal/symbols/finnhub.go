package symbols

import (
	"context"
	"fmt"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
)

// FinnhubProvider loads the universe from Finnhub's stock symbol list.
type FinnhubProvider struct {
	client   *finnhub.DefaultApiService
	exchange string
}

// NewFinnhubProvider creates a provider for exchange (e.g. "US").
func NewFinnhubProvider(token, exchange string) (*FinnhubProvider, error) {
	if token == "" {
		return nil, fmt.Errorf("finnhub token cannot be empty")
	}

	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", token)

	return &FinnhubProvider{
		client:   finnhub.NewAPIClient(cfg).DefaultApi,
		exchange: exchange,
	}, nil
}

// Symbols fetches every symbol listed on the exchange.
func (p *FinnhubProvider) Symbols(ctx context.Context) ([]Symbol, error) {
	res, _, err := p.client.StockSymbols(ctx).Exchange(p.exchange).Execute()
	if err != nil {
		return nil, fmt.Errorf("finnhub stock symbols: %w", err)
	}

	out := make([]Symbol, 0, len(res))
	for _, s := range res {
		if s.GetSymbol() == "" {
			continue
		}
		out = append(out, Symbol{
			Symbol:      s.GetSymbol(),
			Description: s.GetDescription(),
		})
	}
	return out, nil
}
