// Package gateway is the HTTP client for the Remote Data Gateway: price
// series, historical prices, top movers, company info, the comparative
// stock chart and the /ask summarizer.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"

	"github.com/investifai/investif/internal/apperrors"
	"github.com/investifai/investif/internal/model"
)

// answerPath locates the summarizer answer in an /ask response.
const answerPath = "$.choices[0].message.content"

// Client talks to the Remote Data Gateway.
// Every call carries the caller's context and is bounded by the client timeout.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a gateway client for baseURL (e.g. "http://127.0.0.1:5000").
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// FetchSeries retrieves the full price history of ticker.
//
// Endpoint: GET /stock_data?stock={ticker}&range=max
// Any non-2xx answer is reported as apperrors.ErrStockNotFound.
func (c *Client) FetchSeries(ctx context.Context, ticker string) (model.PriceSeries, error) {
	q := url.Values{}
	q.Set("stock", ticker)
	q.Set("range", "max")

	var body struct {
		Labels []string  `json:"labels"`
		Prices []float64 `json:"prices"`
	}
	status, err := c.getJSON(ctx, "/stock_data?"+q.Encode(), &body)
	if err != nil {
		if status != 0 && !isSuccess(status) {
			return model.PriceSeries{}, fmt.Errorf("%w: %s", apperrors.ErrStockNotFound, ticker)
		}
		return model.PriceSeries{}, err
	}

	series := model.PriceSeries{Ticker: ticker, Labels: body.Labels, Prices: body.Prices}
	n := series.Len()
	series.Labels, series.Prices = series.Labels[:n], series.Prices[:n]
	return series, nil
}

// PriceOnDate retrieves the historical price of ticker on date.
//
// Endpoint: GET /stock_data_by_date?stock={ticker}&purchaseDate=YYYY-MM-DD
// The gateway answers either {price} or {prices: [...]}; for the latter the
// last element is used.
func (c *Client) PriceOnDate(ctx context.Context, ticker string, date time.Time) (float64, error) {
	q := url.Values{}
	q.Set("stock", ticker)
	q.Set("purchaseDate", date.Format("2006-01-02"))

	var body struct {
		Price  *float64  `json:"price"`
		Prices []float64 `json:"prices"`
	}
	if _, err := c.getJSON(ctx, "/stock_data_by_date?"+q.Encode(), &body); err != nil {
		return 0, fmt.Errorf("%w: %s on %s: %v", apperrors.ErrHistoricalPriceUnavailable, ticker, date.Format("2006-01-02"), err)
	}

	switch {
	case body.Price != nil:
		return *body.Price, nil
	case len(body.Prices) > 0:
		return body.Prices[len(body.Prices)-1], nil
	default:
		return 0, fmt.Errorf("%w: %s on %s", apperrors.ErrHistoricalPriceUnavailable, ticker, date.Format("2006-01-02"))
	}
}

// TopMovers retrieves the day's rankings.
//
// Endpoint: GET /api/top-movers
func (c *Client) TopMovers(ctx context.Context) (model.MoverBoard, error) {
	var body struct {
		Error      string      `json:"error"`
		MostActive []moverJSON `json:"most_active"`
		TopGainers []moverJSON `json:"top_gainers"`
		TopLosers  []moverJSON `json:"top_losers"`
	}
	if _, err := c.getJSON(ctx, "/api/top-movers", &body); err != nil {
		return model.MoverBoard{}, err
	}
	if body.Error != "" {
		return model.MoverBoard{}, fmt.Errorf("%w: %s", apperrors.ErrUpstream, body.Error)
	}

	return model.MoverBoard{
		MostActive: toMovers(body.MostActive),
		TopGainers: toMovers(body.TopGainers),
		TopLosers:  toMovers(body.TopLosers),
	}, nil
}

// CompanyName retrieves the display name of ticker.
//
// Endpoint: GET /api/company-info/{ticker}
func (c *Client) CompanyName(ctx context.Context, ticker string) (string, error) {
	var body struct {
		Name  string `json:"name"`
		Error string `json:"error"`
	}
	if _, err := c.getJSON(ctx, "/api/company-info/"+url.PathEscape(ticker), &body); err != nil {
		return "", err
	}
	if body.Name == "" {
		return "", fmt.Errorf("%w: no company name for %s", apperrors.ErrUpstream, ticker)
	}
	return body.Name, nil
}

// StockChart retrieves the comparative chart points of ticker.
//
// Endpoint: GET /api/stock-chart/{ticker}
func (c *Client) StockChart(ctx context.Context, ticker string) ([]model.ChartPoint, error) {
	var body struct {
		Error     string             `json:"error"`
		ChartData []model.ChartPoint `json:"chart_data"`
	}
	status, err := c.getJSON(ctx, "/api/stock-chart/"+url.PathEscape(ticker), &body)
	if err != nil {
		if status == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrStockNotFound, ticker)
		}
		return nil, err
	}
	if body.Error != "" {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUpstream, body.Error)
	}
	return body.ChartData, nil
}

// ChartSeries is StockChart shaped as a PriceSeries, so the comparative
// chart can share the series cache machinery.
func (c *Client) ChartSeries(ctx context.Context, ticker string) (model.PriceSeries, error) {
	points, err := c.StockChart(ctx, ticker)
	if err != nil {
		return model.PriceSeries{}, err
	}
	series := model.PriceSeries{
		Ticker: ticker,
		Labels: make([]string, len(points)),
		Prices: make([]float64, len(points)),
	}
	for i, p := range points {
		series.Labels[i] = p.Date
		series.Prices[i] = p.Price
	}
	return series, nil
}

// Ask sends question to the summarizer and returns the answer text.
// An empty string with a nil error means the gateway answered without content.
//
// Endpoint: POST /ask {question}
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	payload, err := json.Marshal(map[string]string{"question": question})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ask", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var body any
	if _, err := c.do(req, &body); err != nil {
		return "", err
	}

	answer, err := jsonpath.Get(answerPath, body)
	if err != nil {
		c.logger.Debug("ask response without answer", "error", err)
		return "", nil
	}
	text, _ := answer.(string)
	return text, nil
}

// getJSON issues a GET to path and decodes the JSON body into dst.
// The returned status is 0 when no response was received.
func (c *Client) getJSON(ctx context.Context, path string, dst any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req, dst)
}

func (c *Client) do(req *http.Request, dst any) (int, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("gateway request failed", "method", req.Method, "path", req.URL.Path, "error", err)
		return 0, fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("gateway request",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("%w: read body: %v", apperrors.ErrUpstream, err)
	}
	if !isSuccess(resp.StatusCode) {
		return resp.StatusCode, fmt.Errorf("%w: %s %s returned %d", apperrors.ErrUpstream, req.Method, req.URL.Path, resp.StatusCode)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return resp.StatusCode, fmt.Errorf("%w: decode %s: %v", apperrors.ErrUpstream, req.URL.Path, err)
	}
	return resp.StatusCode, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status <= 299
}

// moverJSON is a mover as the gateway encodes it. Numbers may arrive as
// strings ("12.5%", "187.30").
type moverJSON struct {
	Ticker           string          `json:"ticker"`
	Price            json.RawMessage `json:"price"`
	ChangePercentage json.RawMessage `json:"change_percentage"`
}

func toMovers(in []moverJSON) []model.Mover {
	out := make([]model.Mover, 0, len(in))
	for _, m := range in {
		out = append(out, model.Mover{
			Ticker:        m.Ticker,
			Price:         ParseNumber(m.Price),
			ChangePercent: ParseNumber(m.ChangePercentage),
		})
	}
	return out
}

// ParseNumber reads a JSON number or a numeric string, ignoring a trailing
// percent sign. Anything unparsable yields 0.
func ParseNumber(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
