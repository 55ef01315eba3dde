package yahoo

import "time"

// Response represents the raw JSON response structure from the Yahoo Finance chart API.
// Quote arrays may hold nulls for days without trading, hence the pointers.
type Response struct {
	Chart Chart `json:"chart"`
}

// Chart is the top-level "chart" object of a Response.
type Chart struct {
	Result []Result `json:"result"`
	Error  *Error   `json:"error"`
}

// Error is the error object Yahoo returns instead of results.
type Error struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Result holds one symbol's metadata, timestamps and quotes.
type Result struct {
	Meta       Meta    `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []Quote `json:"quote"`
	} `json:"indicators"`
}

// Meta describes the instrument.
type Meta struct {
	Currency     string `json:"currency"`
	Symbol       string `json:"symbol"`
	ExchangeName string `json:"exchangeName"`
	LongName     string `json:"longName"`
	ShortName    string `json:"shortName"`
}

// Quote holds parallel OHLCV arrays.
type Quote struct {
	Open   []*float64 `json:"open"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
}

// PriceChart is a parsed chart: the instrument and its daily closes.
type PriceChart struct {
	Symbol     string
	Currency   string
	LongName   string
	Indicators []Indicators
}

// Indicators is a single trading day.
type Indicators struct {
	Date       time.Time
	PriceClose float64
}
