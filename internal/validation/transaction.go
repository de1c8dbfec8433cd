package validation

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/ndewijer/stock-ledger-backend/internal/api/request"
	"github.com/ndewijer/stock-ledger-backend/internal/model"
)

// Field limits of a transaction.
const (
	MaxSymbolLength      = 20
	MaxDisplayNameLength = 200
	MaxNoteLength        = 500

	// Upper bounds for numeric fields. Their products and sums stay finite.
	MaxQuantity   = 1e12
	MaxUnitPrice  = 1e12
	MaxCommission = 1e12
)

// ValidateCreateTransaction validates a transaction creation request.
//
// Required fields:
//   - stock_symbol: 1-20 characters after trimming
//   - transaction_type: BUY or SELL (case-insensitive)
//   - quantity: positive, at most 1e12
//   - price_per_unit: positive, at most 1e12
//
// Optional fields (validated if provided):
//   - stock_name: at most 200 characters
//   - commission: between 0 and 1e12
//   - transaction_date: YYYY-MM-DD or RFC3339
//   - notes: at most 500 characters
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateTransaction(req request.CreateTransactionRequest) error {
	errors := make(map[string]string)

	validateSymbol(errors, req.StockSymbol)
	validateKind(errors, req.TransactionType)

	validatePositive(errors, "quantity", req.Quantity, MaxQuantity)
	validatePositive(errors, "price_per_unit", req.PricePerUnit, MaxUnitPrice)

	validateOptional(errors, req.StockName, req.Commission, req.TransactionDate, req.Notes)

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateUpdateTransaction validates a transaction update request.
// All fields are optional, but if provided, they must meet the same constraints as create.
func ValidateUpdateTransaction(req request.UpdateTransactionRequest) error {
	errors := make(map[string]string)

	if req.StockSymbol != nil {
		validateSymbol(errors, *req.StockSymbol)
	}
	if req.TransactionType != nil {
		validateKind(errors, *req.TransactionType)
	}
	if req.Quantity != nil {
		validatePositive(errors, "quantity", *req.Quantity, MaxQuantity)
	}
	if req.PricePerUnit != nil {
		validatePositive(errors, "price_per_unit", *req.PricePerUnit, MaxUnitPrice)
	}

	validateOptional(errors, req.StockName, req.Commission, req.TransactionDate, req.Notes)

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateGrossAmount rejects a quantity * price_per_unit product that is not
// a finite number. Update requests are checked against the merged values.
func ValidateGrossAmount(gross float64) error {
	if math.IsNaN(gross) || math.IsInf(gross, 0) {
		return &Error{Fields: map[string]string{
			"total_amount": "quantity * price_per_unit is out of range",
		}}
	}
	return nil
}

func validatePositive(errors map[string]string, field string, value, limit float64) {
	switch {
	case math.IsNaN(value) || value <= 0:
		errors[field] = field + " must be positive"
	case value > limit:
		errors[field] = fmt.Sprintf("%s must be at most %g", field, limit)
	}
}

func validateSymbol(errors map[string]string, symbol string) {
	symbol = strings.TrimSpace(symbol)
	switch {
	case symbol == "":
		errors["stock_symbol"] = "stock_symbol is required"
	case utf8.RuneCountInString(symbol) > MaxSymbolLength:
		errors["stock_symbol"] = fmt.Sprintf("stock_symbol must be at most %d characters", MaxSymbolLength)
	}
}

func validateKind(errors map[string]string, kind string) {
	if strings.TrimSpace(kind) == "" {
		errors["transaction_type"] = "transaction_type is required"
	} else if !model.TransactionKind(strings.ToUpper(kind)).IsValid() {
		errors["transaction_type"] = fmt.Sprintf("invalid transaction_type: %s", kind)
	}
}

func validateOptional(errors map[string]string, name *string, fee *float64, date *string, note *string) {
	if name != nil && utf8.RuneCountInString(*name) > MaxDisplayNameLength {
		errors["stock_name"] = fmt.Sprintf("stock_name must be at most %d characters", MaxDisplayNameLength)
	}
	if fee != nil {
		switch {
		case math.IsNaN(*fee) || *fee < 0:
			errors["commission"] = "commission cannot be negative"
		case *fee > MaxCommission:
			errors["commission"] = fmt.Sprintf("commission must be at most %g", float64(MaxCommission))
		}
	}
	if date != nil {
		if _, err := ParseTime(*date); err != nil {
			errors["transaction_date"] = err.Error()
		}
	}
	if note != nil && utf8.RuneCountInString(*note) > MaxNoteLength {
		errors["notes"] = fmt.Sprintf("notes must be at most %d characters", MaxNoteLength)
	}
}
