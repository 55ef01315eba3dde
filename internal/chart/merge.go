package chart

import (
	"sort"

	"github.com/investifai/investif/internal/model"
)

// MoversPalette is assigned by selection index on the movers chart.
var MoversPalette = []string{
	"#2563eb", // blue
	"#dc2626", // red
	"#16a34a", // green
	"#d97706", // amber
	"#7c3aed", // purple
}

// MoverColor returns the line color of the ticker at selection index i.
func MoverColor(i int) string {
	return MoversPalette[i%len(MoversPalette)]
}

// Merge joins the series of tickers on date.
//
// The result has one row per date present in any of the series, sorted
// ascending. ISO dates sort correctly as strings. A ticker with no point on
// a date is left out of that row. Tickers without cached series contribute
// nothing.
func Merge(tickers []string, series map[string]model.PriceSeries) []model.MergedRow {
	byDate := make(map[string]map[string]float64)
	for _, ticker := range tickers {
		s, ok := series[ticker]
		if !ok {
			continue
		}
		for i := 0; i < s.Len(); i++ {
			row, ok := byDate[s.Labels[i]]
			if !ok {
				row = make(map[string]float64)
				byDate[s.Labels[i]] = row
			}
			if _, seen := row[ticker]; !seen {
				row[ticker] = s.Prices[i]
			}
		}
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	rows := make([]model.MergedRow, len(dates))
	for i, d := range dates {
		rows[i] = model.MergedRow{Date: d, Values: byDate[d]}
	}
	return rows
}
