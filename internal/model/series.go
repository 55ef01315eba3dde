package model

import (
	"encoding/json"
)

// PriceSeries is the full price history of a ticker.
// Labels and Prices are parallel and ascending by date.
type PriceSeries struct {
	Ticker string    `json:"ticker"`
	Labels []string  `json:"labels"`
	Prices []float64 `json:"prices"`
}

// Len returns the number of points in the series.
func (s PriceSeries) Len() int {
	return min(len(s.Labels), len(s.Prices))
}

// Last returns the most recent price and its label.
func (s PriceSeries) Last() (string, float64, bool) {
	n := s.Len()
	if n == 0 {
		return "", 0, false
	}
	return s.Labels[n-1], s.Prices[n-1], true
}

// Selection is one ticker of a chart selection, in selection order.
type Selection struct {
	Ticker string `json:"ticker"`
	Active bool   `json:"active"`
}

// Dataset is one plotted line of a ChartPayload.
type Dataset struct {
	Ticker string    `json:"ticker"`
	Color  string    `json:"color"`
	Points []float64 `json:"points"`
}

// ChartPayload is the multi-series chart derived from the cached series,
// the selection and the time range.
type ChartPayload struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// ChartPoint is one point of the comparative stock-chart endpoint.
type ChartPoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// MergedRow is one date of the date-keyed join across tickers.
// Tickers without a point on Date are absent from Values.
type MergedRow struct {
	Date   string
	Values map[string]float64
}

// MarshalJSON flattens the row to {"date": ..., "<TICKER>": price, ...}.
// Absent tickers produce no key at all.
func (r MergedRow) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Values)+1)
	for ticker, price := range r.Values {
		out[ticker] = price
	}
	out["date"] = r.Date
	return json.Marshal(out)
}
