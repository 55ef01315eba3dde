package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/investifai/investif/internal/apperrors"
	"github.com/investifai/investif/internal/model"
	"github.com/investifai/investif/internal/service"
	"github.com/investifai/investif/internal/testutil"
)

// openFormFor drives the purchase form up to form_visible for ticker.
func openFormFor(t *testing.T, env *testutil.Env, ws *service.Workspace, ticker string) {
	t.Helper()
	if _, err := env.Selector.OpenForm(ws); err != nil {
		t.Fatalf("OpenForm() returned unexpected error: %v", err)
	}
	if _, err := env.Selector.SelectTicker(t.Context(), ws, ticker); err != nil {
		t.Fatalf("SelectTicker() returned unexpected error: %v", err)
	}
}

func TestSelectorService_FormTransitions(t *testing.T) {
	t.Run("open select cancel", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		ws := env.Workspace(t, testutil.CreateUser(t, env.DB).ID)

		form, err := env.Selector.OpenForm(ws)
		if err != nil || form.State != service.FormSelecting {
			t.Fatalf("Expected selecting, got %v (err %v)", form.State, err)
		}
		form, err = env.Selector.SelectTicker(t.Context(), ws, "msft")
		if err != nil || form.State != service.FormVisible || form.Ticker != "MSFT" {
			t.Fatalf("Expected form_visible for MSFT, got %+v (err %v)", form, err)
		}
		form, err = env.Selector.CancelForm(ws)
		if err != nil || form.State != service.FormClosed || form.Ticker != "" {
			t.Errorf("Expected closed form, got %+v (err %v)", form, err)
		}
	})

	t.Run("select without open is rejected", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		ws := env.Workspace(t, testutil.CreateUser(t, env.DB).ID)

		_, err := env.Selector.SelectTicker(t.Context(), ws, "AAPL")
		if !errors.Is(err, apperrors.ErrInvalidFormState) {
			t.Errorf("Expected ErrInvalidFormState, got %v", err)
		}
	})

	t.Run("opening twice is rejected", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		ws := env.Workspace(t, testutil.CreateUser(t, env.DB).ID)

		_, _ = env.Selector.OpenForm(ws)
		_, err := env.Selector.OpenForm(ws)
		if !errors.Is(err, apperrors.ErrInvalidFormState) {
			t.Errorf("Expected ErrInvalidFormState, got %v", err)
		}
	})

	t.Run("unknown symbol keeps the form selecting", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		ws := env.Workspace(t, testutil.CreateUser(t, env.DB).ID)
		_, _ = env.Selector.OpenForm(ws)

		form, err := env.Selector.SelectTicker(t.Context(), ws, "ZZZZ")
		if !errors.Is(err, apperrors.ErrSymbolNotFound) {
			t.Errorf("Expected ErrSymbolNotFound, got %v", err)
		}
		if form.State != service.FormSelecting {
			t.Errorf("Expected selecting, got %s", form.State)
		}
	})

	t.Run("save on closed form is rejected", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		ws := env.Workspace(t, testutil.CreateUser(t, env.DB).ID)

		_, err := env.Selector.Save(t.Context(), ws, service.PurchaseInput{Quantity: 1, Price: testutil.Ptr(10.0)})
		if !errors.Is(err, apperrors.ErrInvalidFormState) {
			t.Errorf("Expected ErrInvalidFormState, got %v", err)
		}
	})
}

func TestSelectorService_Save(t *testing.T) {
	t.Run("date only backfills the historical price", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		user := testutil.CreateUser(t, env.DB)
		ws := env.Workspace(t, user.ID)
		env.Prices.Prices["AAPL"] = 185.64
		openFormFor(t, env, ws, "AAPL")

		date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
		p, err := env.Selector.Save(t.Context(), ws, service.PurchaseInput{Quantity: 10, Date: &date})
		if err != nil {
			t.Fatalf("Save() returned unexpected error: %v", err)
		}
		if p.Price != 185.64 {
			t.Errorf("Expected price 185.64, got %v", p.Price)
		}
		if len(env.Prices.PriceDates) != 1 || !env.Prices.PriceDates[0].Equal(date) {
			t.Errorf("Expected price lookup for %s, got %v", date, env.Prices.PriceDates)
		}

		stored, err := env.Portfolio.GetPositions(t.Context(), user.ID)
		if err != nil {
			t.Fatalf("GetPositions() returned unexpected error: %v", err)
		}
		if len(stored) != 1 || stored[0].Price != 185.64 || !stored[0].PurchaseDate.Equal(date) {
			t.Errorf("Expected stored AAPL at 185.64 on 2024-01-05, got %+v", stored)
		}
		if form := env.Selector.Form(ws); form.State != service.FormClosed {
			t.Errorf("Expected form closed after save, got %s", form.State)
		}
	})

	t.Run("price only dates the purchase today", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		ws := env.Workspace(t, testutil.CreateUser(t, env.DB).ID)
		openFormFor(t, env, ws, "MSFT")

		p, err := env.Selector.Save(t.Context(), ws, service.PurchaseInput{Quantity: 2, Price: testutil.Ptr(410.5)})
		if err != nil {
			t.Fatalf("Save() returned unexpected error: %v", err)
		}
		today := time.Now().UTC().Format(time.DateOnly)
		if p.PurchaseDate.Format(time.DateOnly) != today {
			t.Errorf("Expected purchase date %s, got %s", today, p.PurchaseDate.Format(time.DateOnly))
		}
		if len(env.Prices.PriceDates) != 0 {
			t.Errorf("Expected no price lookup, got %d", len(env.Prices.PriceDates))
		}
	})

	t.Run("duplicate ticker leaves the list unchanged", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		user := testutil.CreateUser(t, env.DB)
		testutil.NewPosition(user.ID).WithTicker("AAPL").WithPrice(150).Build(t, env.DB)
		ws := env.Workspace(t, user.ID)
		openFormFor(t, env, ws, "AAPL")
		sub := env.Portfolio.Subscribe(user.ID)
		defer sub.Close()

		_, err := env.Selector.Save(t.Context(), ws, service.PurchaseInput{Quantity: 1, Price: testutil.Ptr(1.0)})
		if !errors.Is(err, apperrors.ErrDuplicateEntry) {
			t.Errorf("Expected ErrDuplicateEntry, got %v", err)
		}
		if n := len(env.Selector.Positions(ws)); n != 1 {
			t.Errorf("Expected 1 position, got %d", n)
		}

		stored, err := env.Portfolio.GetPositions(t.Context(), user.ID)
		if err != nil {
			t.Fatalf("GetPositions() returned unexpected error: %v", err)
		}
		if len(stored) != 1 || stored[0].Price != 150 {
			t.Errorf("Expected the stored AAPL row untouched, got %+v", stored)
		}
		if n := len(sub.C()); n != 0 {
			t.Errorf("Expected no snapshot to be published, got %d", n)
		}
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		ws := env.Workspace(t, testutil.CreateUser(t, env.DB).ID)
		openFormFor(t, env, ws, "AAPL")

		_, err := env.Selector.Save(t.Context(), ws, service.PurchaseInput{Quantity: 0, Price: testutil.Ptr(1.0)})
		if !errors.Is(err, apperrors.ErrInvalidQuantity) {
			t.Errorf("Expected ErrInvalidQuantity, got %v", err)
		}
		if n := len(env.Selector.Positions(ws)); n != 0 {
			t.Errorf("Expected no positions, got %d", n)
		}
	})

	t.Run("requires price or date", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		ws := env.Workspace(t, testutil.CreateUser(t, env.DB).ID)
		openFormFor(t, env, ws, "AAPL")

		_, err := env.Selector.Save(t.Context(), ws, service.PurchaseInput{Quantity: 1})
		if !errors.Is(err, apperrors.ErrInvalidFormState) {
			t.Errorf("Expected ErrInvalidFormState, got %v", err)
		}
	})

	t.Run("historical price failure mutates nothing", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		ws := env.Workspace(t, testutil.CreateUser(t, env.DB).ID)
		openFormFor(t, env, ws, "TSLA")

		date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
		_, err := env.Selector.Save(t.Context(), ws, service.PurchaseInput{Quantity: 1, Date: &date})
		if !errors.Is(err, apperrors.ErrHistoricalPriceUnavailable) {
			t.Errorf("Expected ErrHistoricalPriceUnavailable, got %v", err)
		}
		if n := len(env.Selector.Positions(ws)); n != 0 {
			t.Errorf("Expected no positions, got %d", n)
		}
		if form := env.Selector.Form(ws); form.State != service.FormVisible {
			t.Errorf("Expected form to stay visible, got %s", form.State)
		}
	})

	t.Run("persistence failure keeps the local position", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		// No user row: the foreign key rejects the write.
		ws := env.Workspace(t, testutil.MakeID())
		openFormFor(t, env, ws, "AAPL")

		if _, err := env.Selector.Save(t.Context(), ws, service.PurchaseInput{Quantity: 1, Price: testutil.Ptr(5.0)}); err != nil {
			t.Fatalf("Save() returned unexpected error: %v", err)
		}
		if n := len(env.Selector.Positions(ws)); n != 1 {
			t.Errorf("Expected local position to remain, got %d", n)
		}
	})
}

func TestSelectorService_Edits(t *testing.T) {
	t.Run("toggle flips active and persists", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		user := testutil.CreateUser(t, env.DB)
		testutil.NewPosition(user.ID).WithTicker("AAPL").Build(t, env.DB)
		ws := env.Workspace(t, user.ID)

		p, err := env.Selector.Toggle(t.Context(), ws, "aapl")
		if err != nil {
			t.Fatalf("Toggle() returned unexpected error: %v", err)
		}
		if p.IsActive {
			t.Error("Expected position to be inactive")
		}
		stored, _ := env.Portfolio.GetPositions(t.Context(), user.ID)
		if stored[0].IsActive {
			t.Error("Expected stored position to be inactive")
		}
	})

	t.Run("reprice rejects non-positive price", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		user := testutil.CreateUser(t, env.DB)
		testutil.NewPosition(user.ID).WithTicker("AAPL").Build(t, env.DB)
		ws := env.Workspace(t, user.ID)

		if _, err := env.Selector.Reprice(t.Context(), ws, "AAPL", 0); err == nil {
			t.Error("Expected error for zero price")
		}
		p, err := env.Selector.Reprice(t.Context(), ws, "AAPL", 99.5)
		if err != nil {
			t.Fatalf("Reprice() returned unexpected error: %v", err)
		}
		if p.Price != 99.5 {
			t.Errorf("Expected price 99.5, got %v", p.Price)
		}
	})

	t.Run("remove drops the position", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		user := testutil.CreateUser(t, env.DB)
		testutil.NewPosition(user.ID).WithTicker("AAPL").Build(t, env.DB)
		testutil.NewPosition(user.ID).WithTicker("MSFT").Build(t, env.DB)
		ws := env.Workspace(t, user.ID)

		if err := env.Selector.Remove(t.Context(), ws, "AAPL"); err != nil {
			t.Fatalf("Remove() returned unexpected error: %v", err)
		}
		positions := env.Selector.Positions(ws)
		if len(positions) != 1 || positions[0].Ticker != "MSFT" {
			t.Errorf("Expected [MSFT], got %v", positions)
		}
		if err := env.Selector.Remove(t.Context(), ws, "AAPL"); !errors.Is(err, apperrors.ErrPositionNotFound) {
			t.Errorf("Expected ErrPositionNotFound, got %v", err)
		}
	})

	t.Run("writes from elsewhere reach the workspace", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		user := testutil.CreateUser(t, env.DB)
		ws := env.Workspace(t, user.ID)

		err := env.Portfolio.SavePosition(t.Context(), user.ID, model.Position{Ticker: "NVDA", Quantity: 1, Price: 1, IsActive: true})
		if err != nil {
			t.Fatalf("SavePosition() returned unexpected error: %v", err)
		}
		positions := env.Selector.Positions(ws)
		if len(positions) != 1 || positions[0].Ticker != "NVDA" {
			t.Errorf("Expected [NVDA], got %v", positions)
		}
	})
}
