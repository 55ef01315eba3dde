package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/investifai/investif/internal/api"
	"github.com/investifai/investif/internal/auth"
	"github.com/investifai/investif/internal/chart"
	"github.com/investifai/investif/internal/config"
	"github.com/investifai/investif/internal/content"
	"github.com/investifai/investif/internal/database"
	"github.com/investifai/investif/internal/gateway"
	"github.com/investifai/investif/internal/logging"
	"github.com/investifai/investif/internal/portfoliosync"
	"github.com/investifai/investif/internal/repository"
	"github.com/investifai/investif/internal/scheduler"
	"github.com/investifai/investif/internal/seriescache"
	"github.com/investifai/investif/internal/service"
	"github.com/investifai/investif/internal/summarizer"
	"github.com/investifai/investif/internal/symbols"
	"github.com/investifai/investif/internal/version"
	"github.com/investifai/investif/internal/yahoo"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("connected to database", "path", cfg.Database.Path)

	gw := gateway.NewClient(cfg.Gateway.BaseURL, cfg.Gateway.Timeout, logger)

	var prices service.SeriesSource = gw
	if cfg.Gateway.PriceSource == "yahoo" {
		prices = yahoo.NewFinanceClient(cfg.Gateway.Timeout, logger)
	}

	var provider symbols.Provider = symbols.StaticProvider{}
	if cfg.Finnhub.Token != "" {
		fh, err := symbols.NewFinnhubProvider(cfg.Finnhub.Token, cfg.Finnhub.Exchange)
		if err != nil {
			return err
		}
		provider = fh
	}
	searcher := symbols.NewSearcher(provider, logger)

	var backend service.Summarizer = summarizer.NewGateway(gw)
	if cfg.Gemini.APIKey != "" {
		gem, err := summarizer.NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			return err
		}
		backend = gem
	}

	defaultRange, err := chart.ParseTimeRange(cfg.Chart.DefaultRange)
	if err != nil {
		return err
	}
	questions, err := content.Questions()
	if err != nil {
		return err
	}
	events, err := content.Events()
	if err != nil {
		return err
	}

	tokens, err := auth.NewTokenIssuer(cfg.Auth.FernetKey, cfg.Auth.TokenTTL, logger)
	if err != nil {
		return err
	}

	// Caches
	seriesCache := seriescache.New("prices", prices.FetchSeries, cfg.Cache.SeriesTTL, logger)
	chartCache := seriescache.New("movers", gw.ChartSeries, cfg.Cache.SeriesTTL, logger)

	// Create services
	hub := portfoliosync.NewHub(portfoliosync.DefaultBuffer, logger)
	portfolioService := service.NewPortfolioService(repository.NewPositionRepository(db), hub, logger)
	workspaces := service.NewWorkspaceManager(portfolioService, searcher, service.WorkspaceOptions{
		SearchDebounce: cfg.Chart.SearchDebounce,
		DefaultTickers: cfg.Chart.DefaultTickers,
		DefaultRange:   defaultRange,
	}, logger)
	moversService := service.NewMoversService(gw, chartCache, logger)

	svc := api.Services{
		System: service.NewSystemService(db, map[string]bool{
			"gemini":  cfg.Gemini.APIKey != "",
			"finnhub": cfg.Finnhub.Token != "",
		}),
		Auth:       service.NewAuthService(repository.NewUserRepository(db), tokens, workspaces, logger),
		Portfolio:  portfolioService,
		Workspaces: workspaces,
		Selector:   service.NewSelectorService(portfolioService, prices, searcher, logger),
		Chart:      service.NewChartService(seriesCache, logger),
		Movers:     moversService,
		Summary:    service.NewSummaryService(backend, logger),
		Delta:      service.NewDeltaService(seriesCache, logger),
		Quiz:       service.NewQuizService(questions),
		Game:       service.NewGameService(events),
	}

	sched := scheduler.NewScheduler(ctx, moversService, workspaces, cfg.Workspace.IdleTimeout, logger, seriesCache, chartCache)
	if err := sched.RegisterAll(cfg.Schedule.MoversCron, cfg.Schedule.SweepCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	// Create HTTP server. No WriteTimeout: the subscribe endpoint holds its
	// connection open and manages its own deadlines.
	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.NewRouter(svc, cfg, logger),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			"addr", cfg.Server.Addr,
			"version", version.Version,
			"price_source", cfg.Gateway.PriceSource,
			"summarizer", backend.Name())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server exited")
	return nil
}
