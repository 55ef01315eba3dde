package service

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/Rhymond/go-money"

	"github.com/investifai/investif/internal/apperrors"
	"github.com/investifai/investif/internal/model"
)

// StartingBalance is the mini-game's opening balance in dollars.
const StartingBalance = 10000.0

// MsgGameOver replaces the feedback once the balance is gone.
const MsgGameOver = "Game Over! You lost all your money."

// GameService runs the stock market mini-game.
type GameService struct {
	events []model.GameEvent
	pick   func(n int) int
}

// NewGameService creates a GameService drawing from events.
func NewGameService(events []model.GameEvent) *GameService {
	return &GameService{events: events, pick: rand.IntN}
}

// New starts a fresh game in the workspace.
func (s *GameService) New(ws *Workspace) model.GameState {
	ws.lock()
	defer ws.unlock()

	ws.game = &model.GameState{
		Balance: StartingBalance,
		History: []float64{StartingBalance},
		Rounds:  []int{0},
		Round:   1,
	}
	ws.game.Event = s.nextEvent()
	return s.snapshot(ws.game)
}

// State returns the current game.
func (s *GameService) State(ws *Workspace) (model.GameState, error) {
	ws.lock()
	defer ws.unlock()
	if ws.game == nil {
		return model.GameState{}, apperrors.ErrGameNotStarted
	}
	return s.snapshot(ws.game), nil
}

// Decide applies decision ("buy", "sell" or "hold") to the current event.
//
// Buying gains the event's change, selling gains its opposite and holding
// leaves the balance as is. A balance at or below zero ends the game.
func (s *GameService) Decide(ws *Workspace, decision string) (model.GameState, error) {
	ws.lock()
	defer ws.unlock()

	g := ws.game
	if g == nil {
		return model.GameState{}, apperrors.ErrGameNotStarted
	}
	if g.Over {
		return s.snapshot(g), apperrors.ErrGameOver
	}
	if g.Event == nil {
		return model.GameState{}, apperrors.ErrGameNotStarted
	}

	ev := *g.Event
	balance := g.Balance
	switch decision {
	case "buy":
		balance *= 1 + ev.Change
	case "sell":
		balance *= 1 - ev.Change
	case "hold":
	default:
		return model.GameState{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidDecision, decision)
	}

	if decision == ev.GoodChoice {
		g.Message = "Good choice! " + ev.Reason
	} else {
		g.Message = fmt.Sprintf("Bad choice! The best move was to %s. %s", ev.GoodChoice, ev.Reason)
	}

	g.Balance = balance
	g.History = append(g.History, balance)
	g.Rounds = append(g.Rounds, g.Round)
	g.Round++

	if balance <= 0 {
		g.Over = true
		g.Event = nil
		g.Message = MsgGameOver
	} else {
		g.Event = s.nextEvent()
	}
	return s.snapshot(g), nil
}

func (s *GameService) nextEvent() *model.GameEvent {
	if len(s.events) == 0 {
		return nil
	}
	ev := s.events[s.pick(len(s.events))]
	return &ev
}

func (s *GameService) snapshot(g *model.GameState) model.GameState {
	out := *g
	out.History = append([]float64(nil), g.History...)
	out.Rounds = append([]int(nil), g.Rounds...)
	if g.Event != nil {
		ev := *g.Event
		out.Event = &ev
	}
	out.BalanceDisplay = FormatBalance(g.Balance)
	return out
}

// FormatBalance renders dollars as a USD amount, e.g. "$10,000.00".
func FormatBalance(dollars float64) string {
	return money.New(int64(math.Round(dollars*100)), money.USD).Display()
}
