package request

// AddTickerRequest adds a ticker to the explorer chart
type AddTickerRequest struct {
	Ticker string `json:"ticker"`
}

// SetRangeRequest changes the chart window, e.g. "6mo"
type SetRangeRequest struct {
	Range string `json:"range"`
}
