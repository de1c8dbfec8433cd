package validation

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/ndewijer/stock-ledger-backend/internal/api/request"
)

func strPtr(s string) *string { return &s }
func floatPtr(f float64) *float64 { return &f }

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var vErr *Error
	if !errors.As(err, &vErr) {
		t.Fatalf("Expected *validation.Error, got %v", err)
	}
	return vErr.Fields
}

func TestValidateCreateTransaction(t *testing.T) {
	valid := request.CreateTransactionRequest{
		StockSymbol:     "thyao",
		TransactionType: "buy",
		Quantity:        100,
		PricePerUnit:    245.50,
	}

	t.Run("valid request with lowercase type", func(t *testing.T) {
		if err := ValidateCreateTransaction(valid); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("all required fields missing", func(t *testing.T) {
		fields := fieldErrors(t, ValidateCreateTransaction(request.CreateTransactionRequest{}))
		for _, f := range []string{"stock_symbol", "transaction_type", "quantity", "price_per_unit"} {
			if _, ok := fields[f]; !ok {
				t.Errorf("Expected error for %s, got %v", f, fields)
			}
		}
	})

	tests := []struct {
		name  string
		mod   func(r *request.CreateTransactionRequest)
		field string
	}{
		{"symbol too long", func(r *request.CreateTransactionRequest) { r.StockSymbol = strings.Repeat("A", 21) }, "stock_symbol"},
		{"blank symbol", func(r *request.CreateTransactionRequest) { r.StockSymbol = "   " }, "stock_symbol"},
		{"unknown type", func(r *request.CreateTransactionRequest) { r.TransactionType = "DIVIDEND" }, "transaction_type"},
		{"zero quantity", func(r *request.CreateTransactionRequest) { r.Quantity = 0 }, "quantity"},
		{"negative price", func(r *request.CreateTransactionRequest) { r.PricePerUnit = -1 }, "price_per_unit"},
		{"negative commission", func(r *request.CreateTransactionRequest) { r.Commission = floatPtr(-0.01) }, "commission"},
		{"quantity above limit", func(r *request.CreateTransactionRequest) { r.Quantity = 1e200 }, "quantity"},
		{"price above limit", func(r *request.CreateTransactionRequest) { r.PricePerUnit = 1e200 }, "price_per_unit"},
		{"NaN quantity", func(r *request.CreateTransactionRequest) { r.Quantity = math.NaN() }, "quantity"},
		{"infinite price", func(r *request.CreateTransactionRequest) { r.PricePerUnit = math.Inf(1) }, "price_per_unit"},
		{"commission above limit", func(r *request.CreateTransactionRequest) { r.Commission = floatPtr(1e13) }, "commission"},
		{"bad date", func(r *request.CreateTransactionRequest) { r.TransactionDate = strPtr("15/01/2024") }, "transaction_date"},
		{"name too long", func(r *request.CreateTransactionRequest) { r.StockName = strPtr(strings.Repeat("n", 201)) }, "stock_name"},
		{"notes too long", func(r *request.CreateTransactionRequest) { r.Notes = strPtr(strings.Repeat("n", 501)) }, "notes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mod(&req)
			fields := fieldErrors(t, ValidateCreateTransaction(req))
			if _, ok := fields[tt.field]; !ok {
				t.Errorf("Expected error for %s, got %v", tt.field, fields)
			}
		})
	}

	t.Run("values at the limits are fine", func(t *testing.T) {
		req := valid
		req.Quantity = MaxQuantity
		req.PricePerUnit = MaxUnitPrice
		req.Commission = floatPtr(MaxCommission)
		if err := ValidateCreateTransaction(req); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("zero commission and RFC3339 date are fine", func(t *testing.T) {
		req := valid
		req.Commission = floatPtr(0)
		req.TransactionDate = strPtr("2024-01-15T10:30:00Z")
		if err := ValidateCreateTransaction(req); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})
}

func TestValidateUpdateTransaction(t *testing.T) {
	t.Run("empty update is valid", func(t *testing.T) {
		if err := ValidateUpdateTransaction(request.UpdateTransactionRequest{}); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("provided fields are checked", func(t *testing.T) {
		fields := fieldErrors(t, ValidateUpdateTransaction(request.UpdateTransactionRequest{
			Quantity:        floatPtr(0),
			TransactionType: strPtr("HOLD"),
			StockSymbol:     strPtr(""),
		}))
		if len(fields) != 3 {
			t.Errorf("Expected 3 field errors, got %v", fields)
		}
	})

	t.Run("provided amounts are bounded", func(t *testing.T) {
		fields := fieldErrors(t, ValidateUpdateTransaction(request.UpdateTransactionRequest{
			Quantity:     floatPtr(1e200),
			PricePerUnit: floatPtr(math.Inf(1)),
		}))
		if _, ok := fields["quantity"]; !ok {
			t.Errorf("Expected quantity error, got %v", fields)
		}
		if _, ok := fields["price_per_unit"]; !ok {
			t.Errorf("Expected price_per_unit error, got %v", fields)
		}
	})
}

func TestValidateGrossAmount(t *testing.T) {
	if err := ValidateGrossAmount(1e24); err != nil {
		t.Errorf("Expected no error for a finite amount, got %v", err)
	}
	for _, gross := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		fields := fieldErrors(t, ValidateGrossAmount(gross))
		if _, ok := fields["total_amount"]; !ok {
			t.Errorf("Expected total_amount error for %v, got %v", gross, fields)
		}
	}
}

func TestValidateRegister(t *testing.T) {
	valid := request.RegisterRequest{Email: "ayse@example.com", Username: "ayse", Password: "secret1"}

	if err := ValidateRegister(valid); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	tests := []struct {
		name  string
		mod   func(r *request.RegisterRequest)
		field string
	}{
		{"bad email", func(r *request.RegisterRequest) { r.Email = "not-an-email" }, "email"},
		{"display-name email", func(r *request.RegisterRequest) { r.Email = "Ayse <ayse@example.com>" }, "email"},
		{"short username", func(r *request.RegisterRequest) { r.Username = "ab" }, "username"},
		{"short password", func(r *request.RegisterRequest) { r.Password = "12345" }, "password"},
		{"password over 72 bytes", func(r *request.RegisterRequest) { r.Password = strings.Repeat("ş", 40) }, "password"},
		{"long full name", func(r *request.RegisterRequest) { r.FullName = strPtr(strings.Repeat("x", 201)) }, "full_name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mod(&req)
			fields := fieldErrors(t, ValidateRegister(req))
			if _, ok := fields[tt.field]; !ok {
				t.Errorf("Expected error for %s, got %v", tt.field, fields)
			}
		})
	}
}

func TestValidateUUID(t *testing.T) {
	if err := ValidateUUID("550e8400-e29b-41d4-a716-446655440000"); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if err := ValidateUUID("nope"); !errors.Is(err, ErrInvalidUUID) {
		t.Errorf("Expected ErrInvalidUUID, got %v", err)
	}
}
