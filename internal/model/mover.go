package model

// Mover is a ticker appearing in one of the day's rankings.
type Mover struct {
	Ticker        string  `json:"ticker"`
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"changePercent"`
	Name          string  `json:"name,omitempty"`
}

// MoverBoard is the raw ranking triple returned by the gateway.
type MoverBoard struct {
	MostActive []Mover
	TopGainers []Mover
	TopLosers  []Mover
}

// MoverSeries describes one line of the comparative movers chart.
type MoverSeries struct {
	Ticker        string  `json:"ticker"`
	Color         string  `json:"color"`
	Name          string  `json:"name,omitempty"`
	ChangePercent float64 `json:"changePercent"`
	Loading       bool    `json:"loading"`
}

// MoversChart is the comparative chart of the selected movers.
type MoversChart struct {
	Series []MoverSeries `json:"series"`
	Rows   []MergedRow   `json:"rows"`
	Error  string        `json:"error,omitempty"`
}
