// Package valuation folds a user's transaction history into cost-basis
// summaries. It performs no I/O and never returns an error: every well-formed
// transaction set has a defined result.
//
// The fold is commutative. Transactions may arrive in any order; only the
// cosmetic display name depends on iteration order.
package valuation

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/stock-ledger-backend/internal/model"
)

const (
	quantityPlaces = 4
	currencyPlaces = 2
)

// accumulator carries the running totals of a single symbol.
type accumulator struct {
	buyQty      decimal.Decimal
	buyAmount   decimal.Decimal
	sellQty     decimal.Decimal
	fees        decimal.Decimal
	displayName *string
}

// fold adds one transaction to the running totals. Fees count for both sides.
func (a *accumulator) fold(tx model.Transaction) {
	switch tx.Kind {
	case model.KindBuy:
		a.buyQty = a.buyQty.Add(finite(tx.Quantity))
		a.buyAmount = a.buyAmount.Add(finite(tx.GrossAmount))
	case model.KindSell:
		a.sellQty = a.sellQty.Add(finite(tx.Quantity))
	}
	a.fees = a.fees.Add(finite(tx.Fee))
	if tx.DisplayName != nil {
		a.displayName = tx.DisplayName
	}
}

func (a *accumulator) averageCost() decimal.Decimal {
	if a.buyQty.IsZero() {
		return decimal.Zero
	}
	return a.buyAmount.Div(a.buyQty)
}

func (a *accumulator) summary(symbol string) model.StockSummary {
	return model.StockSummary{
		Symbol:            symbol,
		DisplayName:       a.displayName,
		NetQuantity:       roundFloat(a.buyQty.Sub(a.sellQty), quantityPlaces),
		AverageCost:       roundFloat(a.averageCost(), quantityPlaces),
		TotalInvested:     roundFloat(a.buyAmount, currencyPlaces),
		TotalFees:         roundFloat(a.fees, currencyPlaces),
		TotalBuyQuantity:  roundFloat(a.buyQty, quantityPlaces),
		TotalSellQuantity: roundFloat(a.sellQty, quantityPlaces),
	}
}

// SummarizeSymbol computes the summary of one symbol's transactions.
// The boolean is false only when txs is empty, which callers report as
// "no data" rather than a zero-filled summary.
func SummarizeSymbol(txs []model.Transaction) (model.StockSummary, bool) {
	if len(txs) == 0 {
		return model.StockSummary{}, false
	}

	var acc accumulator
	for _, tx := range txs {
		acc.fold(tx)
	}
	return acc.summary(strings.ToUpper(txs[0].Symbol)), true
}

// SummarizePortfolio runs SummarizeSymbol for every symbol in symbols and
// totals the results in that order. Symbols without transactions are skipped.
//
// Portfolio totals are the sums of the already rounded per-symbol values so
// that they always agree with the listed stocks.
func SummarizePortfolio(ownerID string, symbols []string, bySymbol map[string][]model.Transaction) model.PortfolioSummary {
	result := model.PortfolioSummary{
		OwnerID: ownerID,
		Symbols: make([]model.StockSummary, 0, len(symbols)),
	}

	invested := decimal.Zero
	fees := decimal.Zero
	for _, symbol := range symbols {
		summary, ok := SummarizeSymbol(bySymbol[symbol])
		if !ok {
			continue
		}
		invested = invested.Add(decimal.NewFromFloat(summary.TotalInvested))
		fees = fees.Add(decimal.NewFromFloat(summary.TotalFees))
		result.Symbols = append(result.Symbols, summary)
	}

	result.TotalInvested = roundFloat(invested, currencyPlaces)
	result.TotalFees = roundFloat(fees, currencyPlaces)
	result.SymbolCount = len(result.Symbols)
	return result
}

// GroupBySymbol splits an unfiltered transaction list by uppercase symbol.
// The returned slice holds the symbols in first-seen order.
func GroupBySymbol(txs []model.Transaction) ([]string, map[string][]model.Transaction) {
	symbols := make([]string, 0)
	groups := make(map[string][]model.Transaction)
	for _, tx := range txs {
		symbol := strings.ToUpper(tx.Symbol)
		if _, ok := groups[symbol]; !ok {
			symbols = append(symbols, symbol)
		}
		groups[symbol] = append(groups[symbol], tx)
	}
	return symbols, groups
}

// finite converts a stored value for accumulation. NaN and infinities count
// as zero.
func finite(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// roundFloat rounds d and converts it back, saturating at the largest float64.
func roundFloat(d decimal.Decimal, places int32) float64 {
	f := d.Round(places).InexactFloat64()
	if math.IsInf(f, 0) {
		return math.Copysign(math.MaxFloat64, f)
	}
	return f
}
