package request

// CreateTransactionRequest is the body of POST /api/transactions.
// transaction_date accepts "2006-01-02" or RFC3339 and defaults to now.
type CreateTransactionRequest struct {
	StockSymbol     string   `json:"stock_symbol"`
	StockName       *string  `json:"stock_name,omitempty"`
	TransactionType string   `json:"transaction_type"`
	Quantity        float64  `json:"quantity"`
	PricePerUnit    float64  `json:"price_per_unit"`
	Commission      *float64 `json:"commission,omitempty"`
	TransactionDate *string  `json:"transaction_date,omitempty"`
	Notes           *string  `json:"notes,omitempty"`
}

// UpdateTransactionRequest is the body of PUT /api/transactions/{uuid}.
// Only the fields present are changed.
type UpdateTransactionRequest struct {
	StockSymbol     *string  `json:"stock_symbol,omitempty"`
	StockName       *string  `json:"stock_name,omitempty"`
	TransactionType *string  `json:"transaction_type,omitempty"`
	Quantity        *float64 `json:"quantity,omitempty"`
	PricePerUnit    *float64 `json:"price_per_unit,omitempty"`
	Commission      *float64 `json:"commission,omitempty"`
	TransactionDate *string  `json:"transaction_date,omitempty"`
	Notes           *string  `json:"notes,omitempty"`
}
