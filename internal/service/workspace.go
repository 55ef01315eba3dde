package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/investifai/investif/internal/apperrors"
	"github.com/investifai/investif/internal/chart"
	"github.com/investifai/investif/internal/model"
	"github.com/investifai/investif/internal/nav"
	"github.com/investifai/investif/internal/portfoliosync"
	"github.com/investifai/investif/internal/symbols"
)

// Workspace is one signed-in user's session state: everything the page used
// to keep in component memory. Services lock it for the duration of an
// operation; pending portfolio snapshots are reconciled at that point.
type Workspace struct {
	UserID string

	mu       sync.Mutex
	lastUsed time.Time
	sub      *portfoliosync.Subscription
	search   *symbols.Session

	positions []model.Position
	removed   map[string]time.Time
	form      PurchaseForm

	chartSelection []model.Selection
	chartRange     chart.TimeRange
	chartError     string

	moverSelection []string
	moverError     string

	quizIndex int
	game      *model.GameState
	menu      nav.Menu
}

// lock acquires the workspace and applies pending snapshots.
func (w *Workspace) lock() {
	w.mu.Lock()
	w.syncLocked()
}

func (w *Workspace) unlock() {
	w.mu.Unlock()
}

func (w *Workspace) syncLocked() {
	if w.sub == nil {
		return
	}
	for _, snap := range w.sub.Drain() {
		w.positions, w.removed = portfoliosync.Reconcile(w.positions, w.removed, snap)
	}
}

// Search returns the user's symbol search session.
func (w *Workspace) Search() *symbols.Session {
	return w.search
}

// ToggleMenu toggles the mobile menu and returns its new state.
func (w *Workspace) ToggleMenu() nav.Menu {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.menu.Toggle()
	return w.menu
}

// Navigate resolves path and closes the menu, as following a link does.
func (w *Workspace) Navigate(path string) nav.Resolution {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.menu.Close()
	return nav.Resolve(path, true)
}

// MenuState returns the current menu state.
func (w *Workspace) MenuState() nav.Menu {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.menu
}

// WorkspaceManager creates, caches and evicts workspaces.
type WorkspaceManager struct {
	portfolio      *PortfolioService
	searcher       *symbols.Searcher
	debounce       time.Duration
	defaultTickers []string
	defaultRange   chart.TimeRange
	now            func() time.Time
	logger         *slog.Logger

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

// WorkspaceOptions holds the defaults new workspaces start with.
type WorkspaceOptions struct {
	SearchDebounce time.Duration
	DefaultTickers []string
	DefaultRange   chart.TimeRange
}

// NewWorkspaceManager creates a WorkspaceManager.
func NewWorkspaceManager(portfolio *PortfolioService, searcher *symbols.Searcher, opts WorkspaceOptions, logger *slog.Logger) *WorkspaceManager {
	if opts.DefaultRange == "" {
		opts.DefaultRange = chart.DefaultRange
	}
	return &WorkspaceManager{
		portfolio:      portfolio,
		searcher:       searcher,
		debounce:       opts.SearchDebounce,
		defaultTickers: opts.DefaultTickers,
		defaultRange:   opts.DefaultRange,
		now:            time.Now,
		logger:         logger,
		workspaces:     make(map[string]*Workspace),
	}
}

// Get returns the workspace of userID, creating it on first use. A new
// workspace subscribes to the user's snapshots before loading positions so
// no write in between is missed.
func (m *WorkspaceManager) Get(ctx context.Context, userID string) (*Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ws, ok := m.workspaces[userID]; ok {
		ws.mu.Lock()
		ws.lastUsed = m.now()
		ws.mu.Unlock()
		return ws, nil
	}

	sub := m.portfolio.Subscribe(userID)
	positions, err := m.portfolio.GetPositions(ctx, userID)
	if err != nil {
		sub.Close()
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrievePositions, err)
	}

	selection := make([]model.Selection, 0, len(m.defaultTickers))
	for _, t := range m.defaultTickers {
		selection = append(selection, model.Selection{Ticker: t, Active: true})
	}

	ws := &Workspace{
		UserID:         userID,
		lastUsed:       m.now(),
		sub:            sub,
		search:         symbols.NewSession(m.searcher, m.debounce),
		positions:      positions,
		removed:        make(map[string]time.Time),
		chartSelection: selection,
		chartRange:     m.defaultRange,
	}
	m.workspaces[userID] = ws
	m.logger.Debug("workspace created", "user_id", userID, "positions", len(positions))
	return ws, nil
}

// Evict drops the workspace of userID, closing its subscription.
func (m *WorkspaceManager) Evict(userID string) {
	m.mu.Lock()
	ws, ok := m.workspaces[userID]
	delete(m.workspaces, userID)
	m.mu.Unlock()

	if ok {
		ws.sub.Close()
		m.logger.Debug("workspace evicted", "user_id", userID)
	}
}

// EvictIdle drops workspaces unused for longer than idle and returns how many.
func (m *WorkspaceManager) EvictIdle(idle time.Duration) int {
	cutoff := m.now().Add(-idle)

	m.mu.Lock()
	var stale []*Workspace
	for id, ws := range m.workspaces {
		ws.mu.Lock()
		last := ws.lastUsed
		ws.mu.Unlock()
		if last.Before(cutoff) {
			stale = append(stale, ws)
			delete(m.workspaces, id)
		}
	}
	m.mu.Unlock()

	for _, ws := range stale {
		ws.sub.Close()
	}
	if len(stale) > 0 {
		m.logger.Info("evicted idle workspaces", "count", len(stale))
	}
	return len(stale)
}

// Len returns the number of live workspaces.
func (m *WorkspaceManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.workspaces)
}
