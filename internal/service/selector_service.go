package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/investifai/investif/internal/apperrors"
	"github.com/investifai/investif/internal/model"
	"github.com/investifai/investif/internal/symbols"
)

// PurchaseInput is the content of a submitted purchase form.
// At least one of Price and Date must be set.
type PurchaseInput struct {
	Quantity float64
	Price    *float64
	Date     *time.Time
}

// SelectorService is the Stock Selector: it drives the purchase form and
// edits the user's cached position list.
//
// Edits are applied to the workspace first and persisted afterwards. A
// failed write is logged and the local edit stays in place; the next
// snapshot from the store settles the difference.
type SelectorService struct {
	portfolio *PortfolioService
	prices    SeriesSource
	searcher  *symbols.Searcher
	now       func() time.Time
	logger    *slog.Logger
}

// NewSelectorService creates a new SelectorService.
func NewSelectorService(portfolio *PortfolioService, prices SeriesSource, searcher *symbols.Searcher, logger *slog.Logger) *SelectorService {
	return &SelectorService{
		portfolio: portfolio,
		prices:    prices,
		searcher:  searcher,
		now:       time.Now,
		logger:    logger,
	}
}

// Positions returns a copy of the cached position list.
func (s *SelectorService) Positions(ws *Workspace) []model.Position {
	ws.lock()
	defer ws.unlock()
	return copyPositions(ws.positions)
}

// Form returns the purchase form state.
func (s *SelectorService) Form(ws *Workspace) PurchaseForm {
	ws.lock()
	defer ws.unlock()
	return ws.form
}

// OpenForm moves the form from closed to selecting.
func (s *SelectorService) OpenForm(ws *Workspace) (PurchaseForm, error) {
	ws.lock()
	defer ws.unlock()
	err := ws.form.Open()
	return ws.form, err
}

// SelectTicker picks ticker from the symbol universe and shows the details form.
func (s *SelectorService) SelectTicker(ctx context.Context, ws *Workspace, ticker string) (PurchaseForm, error) {
	sym, err := s.searcher.Lookup(ctx, ticker)
	if err != nil {
		return s.Form(ws), err
	}

	ws.lock()
	defer ws.unlock()
	err = ws.form.Select(sym.Symbol)
	return ws.form, err
}

// CancelForm closes the form without saving.
func (s *SelectorService) CancelForm(ws *Workspace) (PurchaseForm, error) {
	ws.lock()
	defer ws.unlock()
	err := ws.form.Cancel()
	return ws.form, err
}

// Save validates the form, backfills the price when only a date was given,
// appends the new position and persists it.
//
// A ticker already in the list yields apperrors.ErrDuplicateEntry and
// nothing changes. With only a price, the purchase date is today (UTC).
func (s *SelectorService) Save(ctx context.Context, ws *Workspace, in PurchaseInput) (model.Position, error) {
	if in.Quantity <= 0 {
		return model.Position{}, fmt.Errorf("%w: must be greater than zero", apperrors.ErrInvalidQuantity)
	}
	if in.Price == nil && in.Date == nil {
		return model.Position{}, fmt.Errorf("%w: price or date is required", apperrors.ErrInvalidFormState)
	}

	ticker, err := s.checkSavable(ws)
	if err != nil {
		return model.Position{}, err
	}

	p := model.Position{
		Ticker:   ticker,
		Quantity: in.Quantity,
		IsActive: true,
	}
	if in.Date != nil {
		p.PurchaseDate = truncateDay(*in.Date)
	} else {
		p.PurchaseDate = truncateDay(s.now())
	}
	if in.Price != nil {
		p.Price = *in.Price
	} else {
		price, err := s.prices.PriceOnDate(ctx, ticker, p.PurchaseDate)
		if err != nil {
			return model.Position{}, err
		}
		p.Price = price
	}

	ws.lock()
	// The lock was released for the price lookup; re-check.
	if t, err := ws.form.ready(); err != nil || t != ticker {
		ws.unlock()
		return model.Position{}, fmt.Errorf("%w: form changed during save", apperrors.ErrInvalidFormState)
	}
	if findPosition(ws.positions, ticker) >= 0 {
		ws.unlock()
		return model.Position{}, fmt.Errorf("%w: %s is already in the portfolio", apperrors.ErrDuplicateEntry, ticker)
	}
	p.UpdatedAt = s.now()
	ws.positions = append(ws.positions, p)
	delete(ws.removed, ticker)
	ws.form.reset()
	ws.unlock()

	s.persist(ctx, ws.UserID, p)
	return p, nil
}

func (s *SelectorService) checkSavable(ws *Workspace) (string, error) {
	ws.lock()
	defer ws.unlock()
	ticker, err := ws.form.ready()
	if err != nil {
		return "", err
	}
	if findPosition(ws.positions, ticker) >= 0 {
		return "", fmt.Errorf("%w: %s is already in the portfolio", apperrors.ErrDuplicateEntry, ticker)
	}
	return ticker, nil
}

// Remove drops ticker from the list.
func (s *SelectorService) Remove(ctx context.Context, ws *Workspace, ticker string) error {
	ticker = normalizeTicker(ticker)

	ws.lock()
	i := findPosition(ws.positions, ticker)
	if i < 0 {
		ws.unlock()
		return fmt.Errorf("%w: %s", apperrors.ErrPositionNotFound, ticker)
	}
	ws.positions = append(ws.positions[:i], ws.positions[i+1:]...)
	ws.removed[ticker] = s.now()
	ws.unlock()

	if err := s.portfolio.DeletePosition(ctx, ws.UserID, ticker); err != nil {
		s.logger.Error("failed to persist position removal", "user_id", ws.UserID, "ticker", ticker, "error", err)
	}
	return nil
}

// Toggle flips whether ticker is plotted.
func (s *SelectorService) Toggle(ctx context.Context, ws *Workspace, ticker string) (model.Position, error) {
	return s.update(ctx, ws, ticker, func(p *model.Position) {
		p.IsActive = !p.IsActive
	})
}

// Reprice sets the purchase price of ticker.
func (s *SelectorService) Reprice(ctx context.Context, ws *Workspace, ticker string, price float64) (model.Position, error) {
	if price <= 0 {
		return model.Position{}, fmt.Errorf("%w: price must be greater than zero", apperrors.ErrInvalidQuantity)
	}
	return s.update(ctx, ws, ticker, func(p *model.Position) {
		p.Price = price
	})
}

func (s *SelectorService) update(ctx context.Context, ws *Workspace, ticker string, edit func(*model.Position)) (model.Position, error) {
	ticker = normalizeTicker(ticker)

	ws.lock()
	i := findPosition(ws.positions, ticker)
	if i < 0 {
		ws.unlock()
		return model.Position{}, fmt.Errorf("%w: %s", apperrors.ErrPositionNotFound, ticker)
	}
	edit(&ws.positions[i])
	ws.positions[i].UpdatedAt = s.now()
	p := ws.positions[i]
	ws.unlock()

	s.persist(ctx, ws.UserID, p)
	return p, nil
}

func (s *SelectorService) persist(ctx context.Context, userID string, p model.Position) {
	if err := s.portfolio.SavePosition(ctx, userID, p); err != nil {
		s.logger.Error("failed to persist position", "user_id", userID, "ticker", p.Ticker, "error", err)
	}
}

func findPosition(positions []model.Position, ticker string) int {
	for i, p := range positions {
		if p.Ticker == ticker {
			return i
		}
	}
	return -1
}

func copyPositions(in []model.Position) []model.Position {
	out := make([]model.Position, len(in))
	copy(out, in)
	return out
}

func normalizeTicker(t string) string {
	return strings.ToUpper(strings.TrimSpace(t))
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
