package model

// StockSummary is the cost-basis view of one symbol, derived from every
// transaction the user recorded for it. It is recomputed on each request and
// never persisted.
//
// Quantities and AverageCost are rounded to four decimal places, currency
// totals to two.
type StockSummary struct {
	Symbol            string  `json:"stock_symbol"`
	DisplayName       *string `json:"stock_name"`
	NetQuantity       float64 `json:"total_quantity"`      // bought minus sold, may be negative
	AverageCost       float64 `json:"average_cost"`        // buy amount / buy quantity, 0 without buys
	TotalInvested     float64 `json:"total_invested"`      // cumulative buy amount, sells do not reduce it
	TotalFees         float64 `json:"total_commission"`    // fees of buys and sells
	TotalBuyQuantity  float64 `json:"total_buy_quantity"`  // sum of BUY quantities
	TotalSellQuantity float64 `json:"total_sell_quantity"` // sum of SELL quantities
}

// PortfolioSummary aggregates every symbol a user has transacted.
type PortfolioSummary struct {
	OwnerID       string         `json:"user_id"`
	TotalInvested float64        `json:"total_invested"`
	TotalFees     float64        `json:"total_commission"`
	SymbolCount   int            `json:"stock_count"`
	Symbols       []StockSummary `json:"stocks"`
}
