package service_test

import (
	"errors"
	"testing"

	"github.com/investifai/investif/internal/apperrors"
	"github.com/investifai/investif/internal/model"
	"github.com/investifai/investif/internal/service"
	"github.com/investifai/investif/internal/testutil"
)

func TestRank(t *testing.T) {
	t.Run("dedupes last wins and keeps top five by magnitude", func(t *testing.T) {
		board := model.MoverBoard{
			MostActive: []model.Mover{{Ticker: "A", ChangePercent: 1}, {Ticker: "B", ChangePercent: 2}},
			TopGainers: []model.Mover{{Ticker: "C", ChangePercent: 9}, {Ticker: "A", ChangePercent: 7}},
			TopLosers:  []model.Mover{{Ticker: "D", ChangePercent: -8}, {Ticker: "E", ChangePercent: -0.5}, {Ticker: "F", ChangePercent: -3}},
		}

		got := service.Rank(board)
		want := []string{"C", "D", "A", "F", "B"}
		if len(got) != len(want) {
			t.Fatalf("Expected %d movers, got %d", len(want), len(got))
		}
		for i, m := range got {
			if m.Ticker != want[i] {
				t.Errorf("Expected %s at %d, got %s", want[i], i, m.Ticker)
			}
		}
		if got[2].ChangePercent != 7 {
			t.Errorf("Expected last occurrence of A (7), got %v", got[2].ChangePercent)
		}
	})

	t.Run("empty board", func(t *testing.T) {
		if got := service.Rank(model.MoverBoard{}); len(got) != 0 {
			t.Errorf("Expected no movers, got %v", got)
		}
	})
}

func TestMoversService(t *testing.T) {
	t.Run("refresh prefetches names and tolerates failures", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		env.Movers.Board = model.MoverBoard{TopGainers: []model.Mover{{Ticker: "NVDA", ChangePercent: 5}, {Ticker: "AMD", ChangePercent: 4}}}
		env.Movers.Names["NVDA"] = "NVIDIA Corporation"

		movers, err := env.MoversSvc.Movers(t.Context())
		if err != nil {
			t.Fatalf("Movers() returned unexpected error: %v", err)
		}
		if len(movers) != 2 || movers[0].Name != "NVIDIA Corporation" || movers[1].Name != "" {
			t.Errorf("Expected NVDA named and AMD unnamed, got %+v", movers)
		}
	})

	t.Run("upstream error is reported", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		env.Movers.Err = apperrors.ErrUpstream

		_, err := env.MoversSvc.Refresh(t.Context())
		if !errors.Is(err, apperrors.ErrFailedToRetrieveMovers) {
			t.Errorf("Expected ErrFailedToRetrieveMovers, got %v", err)
		}
	})

	t.Run("toggle fetches once and deselect keeps the cache", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		env.Movers.Charts["NVDA"] = testutil.MakeSeries("NVDA", 3, 100)
		env.Movers.Charts["AMD"] = testutil.MakeSeries("AMD", 2, 50)
		ws := env.Workspace(t, testutil.MakeID())

		env.MoversSvc.Toggle(t.Context(), ws, "NVDA")
		c := env.MoversSvc.Toggle(t.Context(), ws, "AMD")
		if len(c.Series) != 2 || c.Series[1].Color == c.Series[0].Color {
			t.Errorf("Expected two differently colored series, got %+v", c.Series)
		}
		if len(c.Rows) != 3 {
			t.Errorf("Expected 3 merged rows, got %d", len(c.Rows))
		}
		if _, ok := c.Rows[2].Values["AMD"]; ok {
			t.Error("Expected AMD absent on the third date")
		}

		env.MoversSvc.Toggle(t.Context(), ws, "NVDA")
		env.MoversSvc.Toggle(t.Context(), ws, "NVDA")
		if env.Movers.ChartCalls() != 2 {
			t.Errorf("Expected 2 chart fetches, got %d", env.Movers.ChartCalls())
		}
	})

	t.Run("failed chart is deselected with an error", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		ws := env.Workspace(t, testutil.MakeID())

		c := env.MoversSvc.Toggle(t.Context(), ws, "ZZZZ")
		if len(c.Series) != 0 {
			t.Errorf("Expected empty selection, got %+v", c.Series)
		}
		if c.Error != "Stock not found: ZZZZ" {
			t.Errorf("Expected stock not found error, got %q", c.Error)
		}
	})

	t.Run("clear empties the selection", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		env.Movers.Charts["NVDA"] = testutil.MakeSeries("NVDA", 3, 100)
		ws := env.Workspace(t, testutil.MakeID())
		env.MoversSvc.Toggle(t.Context(), ws, "NVDA")

		c := env.MoversSvc.Clear(ws)
		if len(c.Series) != 0 || len(c.Rows) != 0 {
			t.Errorf("Expected empty chart, got %+v", c)
		}
	})
}
