package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ndewijer/stock-ledger-backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/stock-ledger-backend/internal/api/middleware"
	"github.com/ndewijer/stock-ledger-backend/internal/config"
	"github.com/ndewijer/stock-ledger-backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	authService *service.AuthService,
	transactionService *service.TransactionService,
	portfolioService *service.PortfolioService,
	cfg *config.Config,
	log zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(log))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	systemHandler := handlers.NewSystemHandler(systemService)
	r.Get("/", systemHandler.Root)

	requireAuth := custommiddleware.Authenticate(authService)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
			r.Get("/status", systemHandler.Status)
		})

		r.Route("/auth", func(r chi.Router) {
			authHandler := handlers.NewAuthHandler(authService)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
			})
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Use(requireAuth)

			transactionHandler := handlers.NewTransactionHandler(transactionService)
			portfolioHandler := handlers.NewPortfolioHandler(portfolioService)

			r.Post("/", transactionHandler.CreateTransaction)
			r.Get("/", transactionHandler.ListTransactions)

			// static segments win over {uuid}, so "portfolio" is never parsed as an ID
			r.Get("/portfolio/summary", portfolioHandler.PortfolioSummary)
			r.Get("/portfolio/{symbol}", portfolioHandler.StockSummary)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", transactionHandler.GetTransaction)
				r.Put("/", transactionHandler.UpdateTransaction)
				r.Delete("/", transactionHandler.DeleteTransaction)
			})
		})
	})

	return r
}
