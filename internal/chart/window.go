package chart

import (
	"github.com/investifai/investif/internal/model"
)

// Palette is cycled by dataset order on the portfolio chart.
var Palette = []string{
	"rgb(147, 196, 139)", // green
	"rgb(255, 99, 132)",  // red
	"rgb(54, 162, 235)",  // blue
	"rgb(255, 206, 86)",  // yellow
	"rgb(153, 102, 255)", // purple
	"rgb(255, 159, 64)",  // orange
	"rgb(75, 192, 192)",  // teal
	"rgb(231, 233, 237)", // gray
}

// Window computes the visible chart for the active tickers of selection.
//
// The label axis is the tail of the first active ticker (selection order)
// that has cached data. Every other active ticker with data contributes its
// own tail of the same length; series are not re-indexed against the label
// axis. Tickers without cached data are skipped.
func Window(series map[string]model.PriceSeries, selection []model.Selection, r TimeRange) model.ChartPayload {
	payload := model.ChartPayload{
		Labels:   []string{},
		Datasets: []model.Dataset{},
	}

	n := r.Points()
	for _, sel := range selection {
		if !sel.Active {
			continue
		}
		s, ok := series[sel.Ticker]
		if !ok {
			continue
		}

		size := s.Len()
		start := tail(size, n)
		if len(payload.Datasets) == 0 {
			payload.Labels = append(payload.Labels, s.Labels[start:size]...)
		}

		points := make([]float64, size-start)
		copy(points, s.Prices[start:size])
		payload.Datasets = append(payload.Datasets, model.Dataset{
			Ticker: sel.Ticker,
			Color:  Palette[len(payload.Datasets)%len(Palette)],
			Points: points,
		})
	}

	return payload
}
