package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/stock-ledger-backend/internal/api/middleware"
	"github.com/ndewijer/stock-ledger-backend/internal/api/response"
	"github.com/ndewijer/stock-ledger-backend/internal/apperrors"
	"github.com/ndewijer/stock-ledger-backend/internal/service"
)

// PortfolioHandler serves the valuation summaries derived from the user's transactions.
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// PortfolioSummary handles GET requests for the summary of every symbol the
// user has transacted. A user without transactions gets empty totals.
//
// Endpoint: GET /api/transactions/portfolio/summary
// Response: 200 OK with model.PortfolioSummary
// Error: 500 Internal Server Error if the summary cannot be computed
func (h *PortfolioHandler) PortfolioSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.portfolioService.GetPortfolioSummary(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		respondInternal(w, r, apperrors.ErrFailedToGetPortfolioSummary.Error(), err)
		return
	}

	response.Respond(w, r, http.StatusOK, summary)
}

// StockSummary handles GET requests for the summary of one symbol.
// The symbol is matched case-insensitively.
//
// Endpoint: GET /api/transactions/portfolio/{symbol}
// Response: 200 OK with model.StockSummary
// Error: 400 Bad Request if the symbol is blank
// Error: 404 Not Found if the user has no transactions for the symbol
// Error: 500 Internal Server Error if the summary cannot be computed
func (h *PortfolioHandler) StockSummary(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	summary, err := h.portfolioService.GetStockSummary(r.Context(), middleware.UserIDFromContext(r.Context()), symbol)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNoSymbolData):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrNoSymbolData.Error(), "")
		case errors.Is(err, apperrors.ErrInvalidSymbol):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidSymbol.Error(), "")
		default:
			respondInternal(w, r, apperrors.ErrFailedToGetStockSummary.Error(), err)
		}
		return
	}

	response.Respond(w, r, http.StatusOK, summary)
}
