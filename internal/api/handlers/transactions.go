package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/stock-ledger-backend/internal/api/middleware"
	"github.com/ndewijer/stock-ledger-backend/internal/api/request"
	"github.com/ndewijer/stock-ledger-backend/internal/api/response"
	"github.com/ndewijer/stock-ledger-backend/internal/apperrors"
	"github.com/ndewijer/stock-ledger-backend/internal/service"
)

// TransactionHandler handles HTTP requests for transaction endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the transactionService. Every call is scoped to the
// authenticated user.
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler with the provided service dependency.
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// CreateTransaction handles POST requests to record a new transaction.
// The total amount is computed server-side from quantity and price.
//
// Endpoint: POST /api/transactions
// Request Body: request.CreateTransactionRequest
// Response: 201 Created with model.Transaction
// Error: 400 Bad Request if the body is invalid
// Error: 500 Internal Server Error if creation fails
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateTransactionRequest](w, r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	tx, err := h.transactionService.CreateTransaction(r.Context(), middleware.UserIDFromContext(r.Context()), req)
	if err != nil {
		if respondValidation(w, err) {
			return
		}
		respondInternal(w, r, "failed to create transaction", err)
		return
	}

	response.Respond(w, r, http.StatusCreated, tx)
}

// ListTransactions handles GET requests for a page of the user's transactions,
// newest first.
//
// Endpoint: GET /api/transactions?stock_symbol=&page=&page_size=
// Response: 200 OK with model.TransactionPage
// Error: 400 Bad Request if a query parameter is invalid
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := request.ParseTransactionListParams(r.URL.Query())
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	page, err := h.transactionService.ListTransactions(r.Context(), middleware.UserIDFromContext(r.Context()), filter)
	if err != nil {
		respondInternal(w, r, apperrors.ErrFailedToRetrieveTransactions.Error(), err)
		return
	}

	response.Respond(w, r, http.StatusOK, page)
}

// GetTransaction handles GET requests to retrieve a single transaction.
//
// Endpoint: GET /api/transactions/{uuid}
// Response: 200 OK with model.Transaction
// Error: 400 Bad Request if the ID is invalid (validated by middleware)
// Error: 404 Not Found if the transaction does not exist or belongs to another user
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "uuid")

	tx, err := h.transactionService.GetTransaction(r.Context(), middleware.UserIDFromContext(r.Context()), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrTransactionNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTransactionNotFound.Error(), "")
			return
		}
		respondInternal(w, r, apperrors.ErrFailedToRetrieveTransaction.Error(), err)
		return
	}

	response.Respond(w, r, http.StatusOK, tx)
}

// UpdateTransaction handles PUT requests to change an existing transaction.
// Only fields present in the body are changed.
//
// Endpoint: PUT /api/transactions/{uuid}
// Request Body: request.UpdateTransactionRequest
// Response: 200 OK with the updated model.Transaction
// Error: 400 Bad Request if the body is invalid
// Error: 404 Not Found if the transaction does not exist or belongs to another user
// Error: 500 Internal Server Error if the update fails
func (h *TransactionHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.UpdateTransactionRequest](w, r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	tx, err := h.transactionService.UpdateTransaction(r.Context(), middleware.UserIDFromContext(r.Context()), id, req)
	if err != nil {
		switch {
		case respondValidation(w, err):
		case errors.Is(err, apperrors.ErrTransactionNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTransactionNotFound.Error(), "")
		default:
			respondInternal(w, r, "failed to update transaction", err)
		}
		return
	}

	response.Respond(w, r, http.StatusOK, tx)
}

// DeleteTransaction handles DELETE requests to remove a transaction.
//
// Endpoint: DELETE /api/transactions/{uuid}
// Response: 204 No Content
// Error: 404 Not Found if the transaction does not exist or belongs to another user
// Error: 500 Internal Server Error if deletion fails
func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "uuid")

	if err := h.transactionService.DeleteTransaction(r.Context(), middleware.UserIDFromContext(r.Context()), id); err != nil {
		if errors.Is(err, apperrors.ErrTransactionNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTransactionNotFound.Error(), "")
			return
		}
		respondInternal(w, r, "failed to delete transaction", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
