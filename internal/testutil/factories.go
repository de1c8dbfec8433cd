package testutil

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ndewijer/stock-ledger-backend/internal/model"
	"github.com/ndewijer/stock-ledger-backend/internal/repository"
)

// DefaultPassword is the clear-text password of users created by UserBuilder.
const DefaultPassword = "s3cret-pass"

// UserBuilder provides a fluent interface for creating test users.
//
// Example usage:
//
//	// Simple creation with defaults
//	user := testutil.NewUser().Build(t, db)
//
//	// Customized user
//	user := testutil.NewUser().
//	    WithEmail("ayse@example.com").
//	    Inactive().
//	    Build(t, db)
type UserBuilder struct {
	ID       string
	Email    string
	Username string
	Password string
	FullName *string
	IsActive bool
}

// NewUser creates a UserBuilder with unique email and username.
func NewUser() *UserBuilder {
	suffix := strings.ToLower(randomAlphanumeric(8))
	return &UserBuilder{
		ID:       MakeID(),
		Email:    "user-" + suffix + "@example.com",
		Username: "user_" + suffix,
		Password: DefaultPassword,
		IsActive: true,
	}
}

// WithEmail sets a custom email.
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.Email = email
	return b
}

// WithUsername sets a custom username.
func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.Username = username
	return b
}

// WithPassword sets a custom clear-text password.
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.Password = password
	return b
}

// WithFullName sets the optional full name.
func (b *UserBuilder) WithFullName(name string) *UserBuilder {
	b.FullName = &name
	return b
}

// Inactive marks the account as disabled.
func (b *UserBuilder) Inactive() *UserBuilder {
	b.IsActive = false
	return b
}

// Build creates the user in the database and returns it.
func (b *UserBuilder) Build(t *testing.T, db *sql.DB) model.User {
	t.Helper()

	// MinCost keeps the suite fast; verification does not depend on the cost.
	hashed, err := bcrypt.GenerateFromPassword([]byte(b.Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash test password: %v", err)
	}

	now := time.Now().UTC()
	user := model.User{
		ID:             b.ID,
		Email:          strings.ToLower(b.Email),
		Username:       b.Username,
		HashedPassword: string(hashed),
		FullName:       b.FullName,
		IsActive:       b.IsActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := repository.NewUserRepository(db).Create(t.Context(), user); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// TransactionBuilder provides a fluent interface for creating test transactions.
//
// Example usage:
//
//	tx := testutil.NewTransaction(user.ID).
//	    WithSymbol("ASELS").
//	    Sell().
//	    WithQuantity(25).
//	    Build(t, db)
type TransactionBuilder struct {
	ID          string
	OwnerID     string
	Symbol      string
	DisplayName *string
	Kind        model.TransactionKind
	Quantity    float64
	UnitPrice   float64
	Fee         float64
	OccurredAt  time.Time
	Note        *string
	CreatedAt   time.Time
}

// NewTransaction creates a TransactionBuilder for ownerID with defaults:
// BUY 100 THYAO at 245.50 on 2024-01-15.
func NewTransaction(ownerID string) *TransactionBuilder {
	return &TransactionBuilder{
		ID:         MakeID(),
		OwnerID:    ownerID,
		Symbol:     "THYAO",
		Kind:       model.KindBuy,
		Quantity:   100,
		UnitPrice:  245.50,
		OccurredAt: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		CreatedAt:  time.Now().UTC(),
	}
}

// WithID sets a custom ID.
func (b *TransactionBuilder) WithID(id string) *TransactionBuilder {
	b.ID = id
	return b
}

// WithSymbol sets the symbol. It is stored uppercase, as the service would.
func (b *TransactionBuilder) WithSymbol(symbol string) *TransactionBuilder {
	b.Symbol = strings.ToUpper(symbol)
	return b
}

// WithDisplayName sets the stock name.
func (b *TransactionBuilder) WithDisplayName(name string) *TransactionBuilder {
	b.DisplayName = &name
	return b
}

// Buy makes the transaction a BUY.
func (b *TransactionBuilder) Buy() *TransactionBuilder {
	b.Kind = model.KindBuy
	return b
}

// Sell makes the transaction a SELL.
func (b *TransactionBuilder) Sell() *TransactionBuilder {
	b.Kind = model.KindSell
	return b
}

// WithQuantity sets the quantity.
func (b *TransactionBuilder) WithQuantity(qty float64) *TransactionBuilder {
	b.Quantity = qty
	return b
}

// WithUnitPrice sets the price per unit.
func (b *TransactionBuilder) WithUnitPrice(price float64) *TransactionBuilder {
	b.UnitPrice = price
	return b
}

// WithFee sets the commission.
func (b *TransactionBuilder) WithFee(fee float64) *TransactionBuilder {
	b.Fee = fee
	return b
}

// WithOccurredAt sets the trade time.
func (b *TransactionBuilder) WithOccurredAt(at time.Time) *TransactionBuilder {
	b.OccurredAt = at
	return b
}

// WithNote sets the free-text note.
func (b *TransactionBuilder) WithNote(note string) *TransactionBuilder {
	b.Note = &note
	return b
}

// WithCreatedAt sets the creation time.
func (b *TransactionBuilder) WithCreatedAt(at time.Time) *TransactionBuilder {
	b.CreatedAt = at
	return b
}

// Build creates the transaction in the database and returns it.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	tx := model.Transaction{
		ID:          b.ID,
		OwnerID:     b.OwnerID,
		Symbol:      b.Symbol,
		DisplayName: b.DisplayName,
		Kind:        b.Kind,
		Quantity:    b.Quantity,
		UnitPrice:   b.UnitPrice,
		GrossAmount: b.Quantity * b.UnitPrice,
		Fee:         b.Fee,
		OccurredAt:  b.OccurredAt.UTC(),
		Note:        b.Note,
		CreatedAt:   b.CreatedAt.UTC(),
	}

	if err := repository.NewTransactionRepository(db, nil).Insert(t.Context(), tx); err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}

	return tx
}

// CreateTransactions creates count BUY transactions of symbol for ownerID.
func CreateTransactions(t *testing.T, db *sql.DB, ownerID, symbol string, count int) []model.Transaction {
	t.Helper()

	txs := make([]model.Transaction, count)
	for i := range count {
		txs[i] = NewTransaction(ownerID).
			WithSymbol(symbol).
			WithOccurredAt(time.Date(2024, 1, 1+i, 10, 0, 0, 0, time.UTC)).
			Build(t, db)
	}
	return txs
}
