package testutil

import (
	"database/sql"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/investifai/investif/internal/auth"
	"github.com/investifai/investif/internal/logging"
	"github.com/investifai/investif/internal/model"
	"github.com/investifai/investif/internal/portfoliosync"
	"github.com/investifai/investif/internal/repository"
	"github.com/investifai/investif/internal/seriescache"
	"github.com/investifai/investif/internal/service"
	"github.com/investifai/investif/internal/symbols"
)

// Env bundles the services of one test, all backed by the same database
// and fake upstreams.
type Env struct {
	DB         *sql.DB
	Hub        *portfoliosync.Hub
	Prices     *FakeSeriesSource
	Movers     *FakeMoversSource
	Summarizer *FakeSummarizer
	Series     *seriescache.Cache
	Charts     *seriescache.Cache
	Searcher   *symbols.Searcher
	Portfolio  *service.PortfolioService
	Workspaces *service.WorkspaceManager
	Selector   *service.SelectorService
	Chart      *service.ChartService
	MoversSvc  *service.MoversService
	Summary    *service.SummaryService
	Delta      *service.DeltaService
	Auth       *service.AuthService
}

// NewTestEnv wires every service against a fresh database.
//
// Example usage:
//
//	env := testutil.NewTestEnv(t)
//	env.Prices.Series["AAPL"] = testutil.MakeSeries("AAPL", 30, 100)
//	ws := env.Workspace(t, testutil.CreateUser(t, env.DB).ID)
func NewTestEnv(t *testing.T) *Env {
	t.Helper()

	logger := logging.Discard()
	db := SetupTestDB(t)

	env := &Env{
		DB:         db,
		Hub:        portfoliosync.NewHub(portfoliosync.DefaultBuffer, logger),
		Prices:     NewFakeSeriesSource(),
		Movers:     NewFakeMoversSource(),
		Summarizer: &FakeSummarizer{},
		Searcher:   symbols.NewSearcher(symbols.StaticProvider{}, logger),
	}
	env.Series = seriescache.New("prices", env.Prices.FetchSeries, time.Hour, logger)
	env.Charts = seriescache.New("charts", env.Movers.ChartSeries, time.Hour, logger)
	env.Portfolio = service.NewPortfolioService(repository.NewPositionRepository(db), env.Hub, logger)
	env.Workspaces = service.NewWorkspaceManager(env.Portfolio, env.Searcher, service.WorkspaceOptions{
		SearchDebounce: 10 * time.Millisecond,
		DefaultTickers: []string{"AAPL"},
	}, logger)
	env.Selector = service.NewSelectorService(env.Portfolio, env.Prices, env.Searcher, logger)
	env.Chart = service.NewChartService(env.Series, logger)
	env.MoversSvc = service.NewMoversService(env.Movers, env.Charts, logger)
	env.Summary = service.NewSummaryService(env.Summarizer, logger)
	env.Delta = service.NewDeltaService(env.Series, logger)

	tokens, err := auth.NewTokenIssuer("", time.Hour, logger)
	if err != nil {
		t.Fatalf("Failed to create token issuer: %v", err)
	}
	env.Auth = service.NewAuthService(repository.NewUserRepository(db), tokens, env.Workspaces, logger)
	return env
}

// Workspace returns the workspace of userID, failing the test on error.
func (e *Env) Workspace(t *testing.T, userID string) *service.Workspace {
	t.Helper()
	ws, err := e.Workspaces.Get(t.Context(), userID)
	if err != nil {
		t.Fatalf("Failed to get workspace: %v", err)
	}
	return ws
}

func NewTestPortfolioService(t *testing.T, db *sql.DB) *service.PortfolioService {
	t.Helper()

	return service.NewPortfolioService(
		repository.NewPositionRepository(db),
		portfoliosync.NewHub(portfoliosync.DefaultBuffer, logging.Discard()),
		logging.Discard(),
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()
	return service.NewSystemService(db, map[string]bool{"gemini": false, "finnhub": false})
}

// MakeSeries builds an ascending daily series of n points starting on
// 2024-01-01, priced base, base+1, ...
//
// Example usage:
//
//	s := testutil.MakeSeries("AAPL", 3, 100)
//	// Labels: 2024-01-01..2024-01-03, Prices: 100, 101, 102
func MakeSeries(ticker string, n int, base float64) model.PriceSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := model.PriceSeries{Ticker: ticker}
	for i := 0; i < n; i++ {
		s.Labels = append(s.Labels, start.AddDate(0, 0, i).Format(time.DateOnly))
		s.Prices = append(s.Prices, base+float64(i))
	}
	return s
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeEmail generates a unique email address for testing.
//
// Example usage:
//
//	email := testutil.MakeEmail("ada")
//	// Returns: "ada.x1y2z3@example.com"
func MakeEmail(base string) string {
	if base == "" {
		base = "user"
	}
	return fmt.Sprintf("%s.%s@example.com", base, randomAlphanumeric(6))
}

// MakeTicker generates a stock ticker symbol for testing.
//
// Example usage:
//
//	ticker := testutil.MakeTicker("AAPL")
//	// Returns: "AAPL1A2B"
func MakeTicker(base string) string {
	if base == "" {
		base = "TEST"
	}
	return base + randomAlphanumeric(4)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
