package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/investifai/investif/internal/api/handlers"
	custommiddleware "github.com/investifai/investif/internal/api/middleware"
	"github.com/investifai/investif/internal/config"
	"github.com/investifai/investif/internal/service"
)

// Services is everything the router dispatches to.
type Services struct {
	System     *service.SystemService
	Auth       *service.AuthService
	Portfolio  *service.PortfolioService
	Workspaces *service.WorkspaceManager
	Selector   *service.SelectorService
	Chart      *service.ChartService
	Movers     *service.MoversService
	Summary    *service.SummaryService
	Delta      *service.DeltaService
	Quiz       *service.QuizService
	Game       *service.GameService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(logger))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	requireAuth := custommiddleware.RequireAuth(svc.Auth)
	optionalAuth := custommiddleware.OptionalAuth(svc.Auth)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/auth", func(r chi.Router) {
			authHandler := handlers.NewAuthHandler(svc.Auth)
			r.Post("/signup", authHandler.SignUp)
			r.Post("/signin", authHandler.SignIn)
			r.With(requireAuth).Post("/signout", authHandler.SignOut)
			r.With(requireAuth).Get("/me", authHandler.Me)
		})

		r.Route("/nav", func(r chi.Router) {
			navHandler := handlers.NewNavHandler(svc.Workspaces)
			r.With(optionalAuth).Get("/", navHandler.Nav)
			r.With(requireAuth).Post("/menu/toggle", navHandler.ToggleMenu)
		})

		r.With(requireAuth).Get("/symbols", handlers.NewSymbolHandler(svc.Workspaces).Search)

		r.Route("/portfolio", func(r chi.Router) {
			r.Use(requireAuth)
			portfolioHandler := handlers.NewPortfolioHandler(svc.Workspaces, svc.Selector, svc.Chart, svc.Delta, svc.Summary)
			subscribeHandler := handlers.NewSubscribeHandler(svc.Portfolio, cfg.CORS.AllowedOrigins)

			r.Get("/", portfolioHandler.View)
			r.Get("/view", portfolioHandler.View)
			r.Get("/subscribe", subscribeHandler.Subscribe)
			r.Get("/positions", portfolioHandler.Positions)
			r.Route("/positions/{ticker}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateTickerMiddleware)
				r.Delete("/", portfolioHandler.RemovePosition)
				r.Post("/toggle", portfolioHandler.TogglePosition)
				r.Put("/price", portfolioHandler.RepricePosition)
			})
			r.Route("/form", func(r chi.Router) {
				r.Get("/", portfolioHandler.Form)
				r.Post("/open", portfolioHandler.OpenForm)
				r.Post("/select", portfolioHandler.SelectTicker)
				r.Post("/cancel", portfolioHandler.CancelForm)
				r.Post("/save", portfolioHandler.SaveForm)
			})
			r.Get("/delta", portfolioHandler.Deltas)
			r.Get("/chart", portfolioHandler.Chart)
			r.Get("/summary", portfolioHandler.Summary)
		})

		r.Route("/chart", func(r chi.Router) {
			r.Use(requireAuth)
			chartHandler := handlers.NewChartHandler(svc.Workspaces, svc.Chart)
			r.Get("/", chartHandler.Chart)
			r.Get("/state", chartHandler.State)
			r.Post("/tickers", chartHandler.AddTicker)
			r.Put("/range", chartHandler.SetRange)
			r.Route("/tickers/{ticker}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateTickerMiddleware)
				r.Delete("/", chartHandler.RemoveTicker)
				r.Post("/toggle", chartHandler.ToggleTicker)
			})
		})

		r.Route("/movers", func(r chi.Router) {
			moversHandler := handlers.NewMoversHandler(svc.Workspaces, svc.Movers)
			r.Get("/", moversHandler.Movers)
			r.With(custommiddleware.ValidateTickerMiddleware).Get("/company/{ticker}", moversHandler.CompanyName)
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/chart", moversHandler.Chart)
				r.Delete("/chart", moversHandler.Clear)
				r.With(custommiddleware.ValidateTickerMiddleware).Post("/chart/{ticker}/toggle", moversHandler.Toggle)
			})
		})

		r.Route("/learn", func(r chi.Router) {
			learnHandler := handlers.NewLearnHandler(svc.Workspaces, svc.Quiz, svc.Game)
			r.Post("/quiz/answer", learnHandler.Answer)
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/quiz/random", learnHandler.RandomQuestion)
				r.Get("/quiz/current", learnHandler.CurrentQuestion)
				r.Post("/game/new", learnHandler.NewGame)
				r.Get("/game", learnHandler.Game)
				r.Post("/game/decision", learnHandler.Decide)
			})
		})
	})

	return r
}
