package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/stock-ledger-backend/internal/apperrors"
	"github.com/ndewijer/stock-ledger-backend/internal/model"
	"github.com/ndewijer/stock-ledger-backend/internal/repository"
	"github.com/ndewijer/stock-ledger-backend/internal/valuation"
)

// maxConcurrentSymbolLoads bounds the per-symbol queries of a portfolio summary.
const maxConcurrentSymbolLoads = 4

// PortfolioService computes valuation summaries from stored transactions.
// Summaries are derived on every call and never stored.
type PortfolioService struct {
	transactionRepo *repository.TransactionRepository
	log             zerolog.Logger
}

// NewPortfolioService creates a new PortfolioService.
func NewPortfolioService(transactionRepo *repository.TransactionRepository, log zerolog.Logger) *PortfolioService {
	return &PortfolioService{
		transactionRepo: transactionRepo,
		log:             log.With().Str("service", "portfolio").Logger(),
	}
}

// GetStockSummary returns the summary of one symbol.
// Returns apperrors.ErrNoSymbolData when ownerID has no transactions for it.
func (s *PortfolioService) GetStockSummary(ctx context.Context, ownerID, symbol string) (model.StockSummary, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return model.StockSummary{}, apperrors.ErrInvalidSymbol
	}

	txs, err := s.transactionRepo.ListBySymbol(ctx, ownerID, symbol)
	if err != nil {
		return model.StockSummary{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToGetStockSummary, err)
	}

	summary, ok := valuation.SummarizeSymbol(txs)
	if !ok {
		return model.StockSummary{}, apperrors.ErrNoSymbolData
	}
	return summary, nil
}

// GetPortfolioSummary returns the summary of every symbol ownerID has
// transacted, in first-recorded order, with portfolio totals.
//
// Each symbol's rows are loaded concurrently. The reads are not one snapshot;
// a write landing in between is reflected in some symbols only.
func (s *PortfolioService) GetPortfolioSummary(ctx context.Context, ownerID string) (model.PortfolioSummary, error) {
	symbols, err := s.transactionRepo.DistinctSymbols(ctx, ownerID)
	if err != nil {
		return model.PortfolioSummary{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToGetPortfolioSummary, err)
	}

	loaded := make([][]model.Transaction, len(symbols))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSymbolLoads)
	for i, symbol := range symbols {
		g.Go(func() error {
			txs, err := s.transactionRepo.ListBySymbol(gctx, ownerID, symbol)
			if err != nil {
				return fmt.Errorf("symbol %s: %w", symbol, err)
			}
			loaded[i] = txs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.PortfolioSummary{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToGetPortfolioSummary, err)
	}

	bySymbol := make(map[string][]model.Transaction, len(symbols))
	for i, symbol := range symbols {
		bySymbol[symbol] = loaded[i]
	}

	summary := valuation.SummarizePortfolio(ownerID, symbols, bySymbol)
	s.log.Debug().
		Str("user_id", ownerID).
		Int("symbols", summary.SymbolCount).
		Msg("portfolio summary computed")
	return summary, nil
}

// GetPortfolioSnapshot returns the same summary as GetPortfolioSummary from a
// single query, so every symbol reflects the same state of the ledger.
func (s *PortfolioService) GetPortfolioSnapshot(ctx context.Context, ownerID string) (model.PortfolioSummary, error) {
	txs, err := s.transactionRepo.ListAll(ctx, ownerID)
	if err != nil {
		return model.PortfolioSummary{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToGetPortfolioSummary, err)
	}

	symbols, bySymbol := valuation.GroupBySymbol(txs)
	return valuation.SummarizePortfolio(ownerID, symbols, bySymbol), nil
}
