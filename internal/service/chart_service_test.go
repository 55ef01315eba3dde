package service_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/investifai/investif/internal/apperrors"
	"github.com/investifai/investif/internal/chart"
	"github.com/investifai/investif/internal/testutil"
)

func TestChartService_Add(t *testing.T) {
	t.Run("unknown stock is dropped with an inline error", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		env.Prices.Series["AAPL"] = testutil.MakeSeries("AAPL", 10, 100)
		ws := env.Workspace(t, testutil.MakeID())

		view, err := env.Chart.Add(t.Context(), ws, "ZZZZ")
		if err != nil {
			t.Fatalf("Add() returned unexpected error: %v", err)
		}
		if view.Error != "Stock not found: ZZZZ" {
			t.Errorf("Expected 'Stock not found: ZZZZ', got %q", view.Error)
		}
		for _, sel := range view.Selection {
			if sel.Ticker == "ZZZZ" {
				t.Error("Expected ZZZZ to be removed from the selection")
			}
		}
	})

	t.Run("other upstream failures use the generic message", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		env.Prices.Errors["MSFT"] = fmt.Errorf("%w: timeout", apperrors.ErrUpstream)
		ws := env.Workspace(t, testutil.MakeID())

		view, _ := env.Chart.Add(t.Context(), ws, "MSFT")
		if view.Error != "Failed to fetch chart data for MSFT." {
			t.Errorf("Expected generic failure message, got %q", view.Error)
		}
	})

	t.Run("successful load clears the previous error", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		env.Prices.Series["AAPL"] = testutil.MakeSeries("AAPL", 10, 100)
		env.Prices.Series["MSFT"] = testutil.MakeSeries("MSFT", 10, 300)
		ws := env.Workspace(t, testutil.MakeID())

		view, _ := env.Chart.Add(t.Context(), ws, "ZZZZ")
		if view.Error == "" {
			t.Fatal("Expected an error for ZZZZ")
		}

		view, err := env.Chart.Add(t.Context(), ws, "MSFT")
		if err != nil {
			t.Fatalf("Add() returned unexpected error: %v", err)
		}
		if view.Error != "" {
			t.Errorf("Expected error to be cleared after MSFT, got %q", view.Error)
		}

		view = env.Chart.Payload(t.Context(), ws)
		if view.Error != "" {
			t.Errorf("Expected no error on payload, got %q", view.Error)
		}
		if len(view.Payload.Datasets) != 2 {
			t.Errorf("Expected 2 datasets, got %d", len(view.Payload.Datasets))
		}
	})

	t.Run("duplicate ticker is rejected", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		env.Prices.Series["AAPL"] = testutil.MakeSeries("AAPL", 10, 100)
		ws := env.Workspace(t, testutil.MakeID())

		_, err := env.Chart.Add(t.Context(), ws, "AAPL")
		if !errors.Is(err, apperrors.ErrDuplicateEntry) {
			t.Errorf("Expected ErrDuplicateEntry, got %v", err)
		}
	})
}

func TestChartService_Payload(t *testing.T) {
	t.Run("windows the default selection", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		env.Prices.Series["AAPL"] = testutil.MakeSeries("AAPL", 10, 100)
		ws := env.Workspace(t, testutil.MakeID())
		env.Chart.SetRange(ws, chart.Range5D)

		view := env.Chart.Payload(t.Context(), ws)
		if view.Payload == nil {
			t.Fatal("Expected a payload")
		}
		if len(view.Payload.Labels) != 5 || view.Payload.Labels[0] != "2024-01-06" {
			t.Errorf("Expected 5 labels from 2024-01-06, got %v", view.Payload.Labels)
		}
		if len(view.Payload.Datasets) != 1 || view.Payload.Datasets[0].Points[4] != 109 {
			t.Errorf("Expected one AAPL dataset ending at 109, got %+v", view.Payload.Datasets)
		}
	})

	t.Run("toggling off hides the dataset but keeps it cached", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		env.Prices.Series["AAPL"] = testutil.MakeSeries("AAPL", 10, 100)
		env.Prices.Series["MSFT"] = testutil.MakeSeries("MSFT", 10, 300)
		ws := env.Workspace(t, testutil.MakeID())
		if _, err := env.Chart.Add(t.Context(), ws, "MSFT"); err != nil {
			t.Fatalf("Add() returned unexpected error: %v", err)
		}
		env.Chart.Payload(t.Context(), ws)
		calls := env.Prices.Calls()

		if _, err := env.Chart.Toggle(ws, "AAPL"); err != nil {
			t.Fatalf("Toggle() returned unexpected error: %v", err)
		}
		view := env.Chart.Payload(t.Context(), ws)
		if len(view.Payload.Datasets) != 1 || view.Payload.Datasets[0].Ticker != "MSFT" {
			t.Errorf("Expected only MSFT plotted, got %+v", view.Payload.Datasets)
		}
		if env.Prices.Calls() != calls {
			t.Errorf("Expected no refetch, got %d extra calls", env.Prices.Calls()-calls)
		}
	})

	t.Run("remove unknown ticker", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		ws := env.Workspace(t, testutil.MakeID())

		if _, err := env.Chart.Remove(ws, "NVDA"); !errors.Is(err, apperrors.ErrSymbolNotFound) {
			t.Errorf("Expected ErrSymbolNotFound, got %v", err)
		}
	})
}

func TestChartService_PortfolioPayload(t *testing.T) {
	t.Run("plots active positions and keeps failing ones", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		user := testutil.CreateUser(t, env.DB)
		testutil.NewPosition(user.ID).WithTicker("AAPL").Build(t, env.DB)
		testutil.NewPosition(user.ID).WithTicker("GONE").Build(t, env.DB)
		testutil.NewPosition(user.ID).WithTicker("MSFT").Inactive().Build(t, env.DB)
		env.Prices.Series["AAPL"] = testutil.MakeSeries("AAPL", 10, 100)
		env.Prices.Series["MSFT"] = testutil.MakeSeries("MSFT", 10, 300)
		ws := env.Workspace(t, user.ID)

		view := env.Chart.PortfolioPayload(t.Context(), ws, chart.RangeMax)
		if len(view.Payload.Datasets) != 1 || view.Payload.Datasets[0].Ticker != "AAPL" {
			t.Errorf("Expected only AAPL plotted, got %+v", view.Payload.Datasets)
		}
		if view.Error != "Stock not found: GONE" {
			t.Errorf("Expected error for GONE, got %q", view.Error)
		}
		if n := len(env.Selector.Positions(ws)); n != 3 {
			t.Errorf("Expected positions untouched, got %d", n)
		}
	})
}
