// Package yahoo is an alternative price source backed by the Yahoo Finance
// chart API. It serves the same FetchSeries / PriceOnDate calls as the
// gateway client and is selected with PRICE_SOURCE=yahoo.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/investifai/investif/internal/apperrors"
	"github.com/investifai/investif/internal/model"
)

// DefaultBaseURL is the public chart API.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// FinanceClient fetches daily price data from Yahoo Finance.
type FinanceClient struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewFinanceClient creates a Yahoo Finance client against DefaultBaseURL.
func NewFinanceClient(timeout time.Duration, logger *slog.Logger) *FinanceClient {
	return &FinanceClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    DefaultBaseURL,
		logger:     logger,
	}
}

// WithBaseURL points the client at another host. Used by tests.
func (c *FinanceClient) WithBaseURL(baseURL string) *FinanceClient {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// FetchSeries retrieves the full daily close history of ticker.
// A symbol Yahoo does not know is reported as apperrors.ErrStockNotFound.
func (c *FinanceClient) FetchSeries(ctx context.Context, ticker string) (model.PriceSeries, error) {
	q := url.Values{}
	q.Set("interval", "1d")
	q.Set("range", "max")

	resp, err := c.query(ctx, ticker, q)
	if err != nil {
		return model.PriceSeries{}, err
	}
	chart, err := ParseChart(resp)
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("%w: %s: %v", apperrors.ErrStockNotFound, ticker, err)
	}
	return chart.Series(ticker), nil
}

// PriceOnDate retrieves the close of ticker on date. When date is not a
// trading day the last close before it (within a week) is used.
func (c *FinanceClient) PriceOnDate(ctx context.Context, ticker string, date time.Time) (float64, error) {
	day := date.UTC().Truncate(24 * time.Hour)
	q := url.Values{}
	q.Set("interval", "1d")
	q.Set("period1", fmt.Sprint(day.AddDate(0, 0, -7).Unix()))
	q.Set("period2", fmt.Sprint(day.AddDate(0, 0, 1).Unix()))

	resp, err := c.query(ctx, ticker, q)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrHistoricalPriceUnavailable, err)
	}
	chart, err := ParseChart(resp)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", apperrors.ErrHistoricalPriceUnavailable, ticker, err)
	}
	if ind, ok := chart.GetIndicatorForDate(day); ok {
		return ind.PriceClose, nil
	}
	return chart.Indicators[len(chart.Indicators)-1].PriceClose, nil
}

// ParseChart converts a raw Response into a PriceChart.
// Days with a null close are skipped.
func ParseChart(r Response) (PriceChart, error) {
	if len(r.Chart.Result) == 0 {
		return PriceChart{}, fmt.Errorf("no results returned")
	}
	result := r.Chart.Result[0]

	if len(result.Timestamp) == 0 {
		return PriceChart{}, fmt.Errorf("no price data returned")
	}
	if len(result.Indicators.Quote) == 0 || len(result.Indicators.Quote[0].Close) == 0 {
		return PriceChart{}, fmt.Errorf("no close prices returned")
	}
	closes := result.Indicators.Quote[0].Close
	if len(closes) != len(result.Timestamp) {
		return PriceChart{}, fmt.Errorf("mismatched data lengths")
	}

	indicators := make([]Indicators, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if closes[i] == nil {
			continue
		}
		indicators = append(indicators, Indicators{
			Date:       time.Unix(ts, 0).UTC(),
			PriceClose: *closes[i],
		})
	}
	if len(indicators) == 0 {
		return PriceChart{}, fmt.Errorf("no close prices returned")
	}

	return PriceChart{
		Symbol:     result.Meta.Symbol,
		Currency:   result.Meta.Currency,
		LongName:   result.Meta.LongName,
		Indicators: indicators,
	}, nil
}

// GetIndicatorForDate returns the trading day matching target, comparing dates only.
func (c PriceChart) GetIndicatorForDate(target time.Time) (Indicators, bool) {
	targetDay := target.UTC().Truncate(24 * time.Hour)
	for _, ind := range c.Indicators {
		if ind.Date.UTC().Truncate(24 * time.Hour).Equal(targetDay) {
			return ind, true
		}
	}
	return Indicators{}, false
}

// Series converts the chart to a PriceSeries labelled with ISO dates.
func (c PriceChart) Series(ticker string) model.PriceSeries {
	s := model.PriceSeries{
		Ticker: ticker,
		Labels: make([]string, len(c.Indicators)),
		Prices: make([]float64, len(c.Indicators)),
	}
	for i, ind := range c.Indicators {
		s.Labels[i] = ind.Date.Format("2006-01-02")
		s.Prices[i] = ind.PriceClose
	}
	return s
}

func (c *FinanceClient) query(ctx context.Context, symbol string, q url.Values) (Response, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(symbol), q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Response{}, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("yahoo request failed", "symbol", symbol, "error", err)
		return Response{}, fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		if resp.StatusCode == http.StatusNotFound {
			return Response{}, fmt.Errorf("%w: %s", apperrors.ErrStockNotFound, symbol)
		}
		return Response{}, fmt.Errorf("%w: decode: %v", apperrors.ErrUpstream, err)
	}

	if response.Chart.Error != nil {
		if response.Chart.Error.Code == "Not Found" {
			return Response{}, fmt.Errorf("%w: %s", apperrors.ErrStockNotFound, symbol)
		}
		return Response{}, fmt.Errorf("%w: yahoo error: %s", apperrors.ErrUpstream, response.Chart.Error.Description)
	}

	return response, nil
}
