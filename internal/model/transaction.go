package model

import (
	"math"
	"time"
)

// TransactionKind is the side of a recorded trade.
type TransactionKind string

const (
	KindBuy  TransactionKind = "BUY"
	KindSell TransactionKind = "SELL"
)

// ValidTransactionKinds contains the allowed transaction kinds.
var ValidTransactionKinds = map[TransactionKind]bool{
	KindBuy:  true,
	KindSell: true,
}

// IsValid reports whether k is one of the supported kinds.
func (k TransactionKind) IsValid() bool {
	return ValidTransactionKinds[k]
}

// Transaction represents a single BUY or SELL recorded by a user.
// GrossAmount is always Quantity * UnitPrice and is computed server-side.
// JSON names follow the wire contract used by the desktop client.
type Transaction struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"-"`
	Symbol      string          `json:"stock_symbol"`
	DisplayName *string         `json:"stock_name"`
	Kind        TransactionKind `json:"transaction_type"`
	Quantity    float64         `json:"quantity"`
	UnitPrice   float64         `json:"price_per_unit"`
	GrossAmount float64         `json:"total_amount"`
	Fee         float64         `json:"commission"`
	OccurredAt  time.Time       `json:"transaction_date"`
	Note        *string         `json:"notes"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Pagination bounds for transaction listings.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// TransactionFilter for querying a user's transactions.
// Symbol is matched case-insensitively; an empty Symbol matches everything.
type TransactionFilter struct {
	Symbol   string
	Page     int
	PageSize int
}

// Offset returns the number of rows to skip for the filter's page.
// Pages beyond the addressable range saturate at math.MaxInt.
func (f TransactionFilter) Offset() int {
	if f.Page < 1 || f.PageSize < 1 {
		return 0
	}
	if f.Page-1 > math.MaxInt/f.PageSize {
		return math.MaxInt
	}
	return (f.Page - 1) * f.PageSize
}

// TransactionPage is one page of a transaction listing with the total match count.
type TransactionPage struct {
	Transactions []Transaction `json:"transactions"`
	TotalCount   int           `json:"total_count"`
	Page         int           `json:"page"`
	PageSize     int           `json:"page_size"`
}
