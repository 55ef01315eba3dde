package service

import (
	"context"
	"time"

	"github.com/investifai/investif/internal/model"
)

// SeriesSource fetches price data. Implemented by the gateway client and the
// Yahoo client.
type SeriesSource interface {
	FetchSeries(ctx context.Context, ticker string) (model.PriceSeries, error)
	PriceOnDate(ctx context.Context, ticker string, date time.Time) (float64, error)
}

// MoversSource fetches the day's rankings and company names.
type MoversSource interface {
	TopMovers(ctx context.Context) (model.MoverBoard, error)
	CompanyName(ctx context.Context, ticker string) (string, error)
}

// Summarizer answers a news prompt with markdown.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
	Name() string
}
