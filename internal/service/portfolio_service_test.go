package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/stock-ledger-backend/internal/apperrors"
	"github.com/ndewijer/stock-ledger-backend/internal/testutil"
)

// TestPortfolioService_GetStockSummary tests per-symbol summaries over stored data.
//
// WHY: A sell must not reduce invested capital or the average cost, and a
// symbol without data must be distinguishable from a zero position.
func TestPortfolioService_GetStockSummary(t *testing.T) {
	t.Run("buy then sell", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)
		user := testutil.NewUser().Build(t, db)

		testutil.NewTransaction(user.ID).WithQuantity(100).WithUnitPrice(245.50).WithFee(12.50).Build(t, db)
		testutil.NewTransaction(user.ID).Sell().WithQuantity(50).WithUnitPrice(260).WithFee(5).Build(t, db)

		summary, err := svc.GetStockSummary(context.Background(), user.ID, "thyao")
		require.NoError(t, err)

		assert.Equal(t, "THYAO", summary.Symbol)
		assert.Equal(t, 50.0, summary.NetQuantity)
		assert.Equal(t, 245.50, summary.AverageCost)
		assert.Equal(t, 24550.00, summary.TotalInvested)
		assert.Equal(t, 17.50, summary.TotalFees)
		assert.Equal(t, 100.0, summary.TotalBuyQuantity)
		assert.Equal(t, 50.0, summary.TotalSellQuantity)
	})

	t.Run("no data", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)
		user := testutil.NewUser().Build(t, db)

		_, err := svc.GetStockSummary(context.Background(), user.ID, "THYAO")
		assert.True(t, errors.Is(err, apperrors.ErrNoSymbolData))
	})

	t.Run("other users' data is invisible", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)
		owner := testutil.NewUser().Build(t, db)
		other := testutil.NewUser().Build(t, db)
		testutil.NewTransaction(owner.ID).Build(t, db)

		_, err := svc.GetStockSummary(context.Background(), other.ID, "THYAO")
		assert.ErrorIs(t, err, apperrors.ErrNoSymbolData)
	})

	t.Run("display name from stored transactions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)
		user := testutil.NewUser().Build(t, db)
		testutil.NewTransaction(user.ID).WithDisplayName("Turk Hava Yollari").Build(t, db)
		testutil.NewTransaction(user.ID).Build(t, db)

		summary, err := svc.GetStockSummary(context.Background(), user.ID, "THYAO")
		require.NoError(t, err)
		require.NotNil(t, summary.DisplayName)
		assert.Equal(t, "Turk Hava Yollari", *summary.DisplayName)
	})
}

// TestPortfolioService_GetPortfolioSummary tests the aggregate view.
//
// WHY: Symbols are loaded concurrently; the result must still be complete,
// deterministic in order and consistent with the per-symbol summaries.
func TestPortfolioService_GetPortfolioSummary(t *testing.T) {
	t.Run("two symbols", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)
		user := testutil.NewUser().Build(t, db)

		testutil.NewTransaction(user.ID).WithSymbol("THYAO").WithQuantity(100).WithUnitPrice(245.50).WithFee(12.50).Build(t, db)
		testutil.NewTransaction(user.ID).WithSymbol("ASELS").WithQuantity(40).WithUnitPrice(52.25).WithFee(3).Build(t, db)

		summary, err := svc.GetPortfolioSummary(context.Background(), user.ID)
		require.NoError(t, err)

		assert.Equal(t, user.ID, summary.OwnerID)
		assert.Equal(t, 2, summary.SymbolCount)
		require.Len(t, summary.Symbols, 2)
		assert.Equal(t, "THYAO", summary.Symbols[0].Symbol)
		assert.Equal(t, "ASELS", summary.Symbols[1].Symbol)
		assert.Equal(t, 26640.0, summary.TotalInvested)
		assert.Equal(t, 15.5, summary.TotalFees)
	})

	t.Run("many symbols match per-symbol summaries", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)
		user := testutil.NewUser().Build(t, db)

		symbols := []string{"AKBNK", "ASELS", "BIMAS", "EREGL", "GARAN", "KCHOL", "SISE", "THYAO", "TUPRS"}
		for i, symbol := range symbols {
			testutil.NewTransaction(user.ID).WithSymbol(symbol).WithQuantity(float64(i + 1)).WithUnitPrice(10).Build(t, db)
			testutil.NewTransaction(user.ID).WithSymbol(symbol).Sell().WithQuantity(1).WithUnitPrice(12).WithFee(0.5).Build(t, db)
		}

		summary, err := svc.GetPortfolioSummary(context.Background(), user.ID)
		require.NoError(t, err)
		require.Equal(t, len(symbols), summary.SymbolCount)

		for i, s := range summary.Symbols {
			assert.Equal(t, symbols[i], s.Symbol)
			single, err := svc.GetStockSummary(context.Background(), user.ID, s.Symbol)
			require.NoError(t, err)
			assert.Equal(t, single, s)
		}
		// 10 * (1+...+9)
		assert.Equal(t, 450.0, summary.TotalInvested)
		assert.Equal(t, 4.5, summary.TotalFees)
	})

	t.Run("empty portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)
		user := testutil.NewUser().Build(t, db)

		summary, err := svc.GetPortfolioSummary(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, summary.SymbolCount)
		assert.NotNil(t, summary.Symbols)
		assert.Empty(t, summary.Symbols)
	})

	t.Run("closed database", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)
		db.Close()

		_, err := svc.GetPortfolioSummary(context.Background(), testutil.MakeID())
		assert.ErrorIs(t, err, apperrors.ErrFailedToGetPortfolioSummary)
	})
}

func TestPortfolioService_GetPortfolioSnapshot(t *testing.T) {
	t.Run("matches the per-symbol summary", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)
		user := testutil.NewUser().Build(t, db)
		other := testutil.NewUser().Build(t, db)

		testutil.NewTransaction(user.ID).WithSymbol("THYAO").WithQuantity(100).WithUnitPrice(245.50).WithFee(12.50).Build(t, db)
		testutil.NewTransaction(user.ID).WithSymbol("ASELS").WithQuantity(40).WithUnitPrice(52.25).WithFee(3).Build(t, db)
		testutil.NewTransaction(user.ID).WithSymbol("THYAO").Sell().WithQuantity(30).WithUnitPrice(260).WithFee(4.75).Build(t, db)
		testutil.NewTransaction(other.ID).WithSymbol("GARAN").WithQuantity(5).WithUnitPrice(10).Build(t, db)

		snapshot, err := svc.GetPortfolioSnapshot(context.Background(), user.ID)
		require.NoError(t, err)
		summary, err := svc.GetPortfolioSummary(context.Background(), user.ID)
		require.NoError(t, err)

		assert.Equal(t, summary, snapshot)
		require.Len(t, snapshot.Symbols, 2)
		assert.Equal(t, "THYAO", snapshot.Symbols[0].Symbol)
		assert.Equal(t, 70.0, snapshot.Symbols[0].NetQuantity)
	})

	t.Run("empty portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)

		snapshot, err := svc.GetPortfolioSnapshot(context.Background(), testutil.MakeID())
		require.NoError(t, err)
		assert.Equal(t, 0, snapshot.SymbolCount)
		assert.NotNil(t, snapshot.Symbols)
	})

	t.Run("closed database", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)
		db.Close()

		_, err := svc.GetPortfolioSnapshot(context.Background(), testutil.MakeID())
		assert.ErrorIs(t, err, apperrors.ErrFailedToGetPortfolioSummary)
	})
}
