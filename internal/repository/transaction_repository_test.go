package repository_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/fernet/fernet-go"

	"github.com/ndewijer/stock-ledger-backend/internal/apperrors"
	"github.com/ndewijer/stock-ledger-backend/internal/model"
	"github.com/ndewijer/stock-ledger-backend/internal/repository"
	"github.com/ndewijer/stock-ledger-backend/internal/security"
	"github.com/ndewijer/stock-ledger-backend/internal/testutil"
)

func TestTransactionRepository_GetIsOwnerScoped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewTransactionRepository(db, nil)
	ctx := context.Background()

	owner := testutil.NewUser().Build(t, db)
	other := testutil.NewUser().Build(t, db)
	tx := testutil.NewTransaction(owner.ID).WithDisplayName("Turk Hava Yollari").WithNote("first lot").Build(t, db)

	got, err := repo.Get(ctx, owner.ID, tx.ID)
	if err != nil {
		t.Fatalf("Get() returned unexpected error: %v", err)
	}
	if got.Symbol != "THYAO" || got.Quantity != 100 || got.GrossAmount != 24550 {
		t.Errorf("Unexpected transaction: %+v", got)
	}
	if got.DisplayName == nil || *got.DisplayName != "Turk Hava Yollari" {
		t.Errorf("Expected display name to round trip, got %v", got.DisplayName)
	}
	if got.Note == nil || *got.Note != "first lot" {
		t.Errorf("Expected note to round trip, got %v", got.Note)
	}
	if !got.OccurredAt.Equal(tx.OccurredAt) {
		t.Errorf("Expected occurred at %v, got %v", tx.OccurredAt, got.OccurredAt)
	}

	_, err = repo.Get(ctx, other.ID, tx.ID)
	if !errors.Is(err, apperrors.ErrTransactionNotFound) {
		t.Errorf("Expected ErrTransactionNotFound for other user, got %v", err)
	}
}

func TestTransactionRepository_UpdateAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewTransactionRepository(db, nil)
	ctx := context.Background()

	owner := testutil.NewUser().Build(t, db)
	other := testutil.NewUser().Build(t, db)
	tx := testutil.NewTransaction(owner.ID).Build(t, db)

	t.Run("update by other user is not found", func(t *testing.T) {
		hijack := tx
		hijack.OwnerID = other.ID
		hijack.Quantity = 1
		if err := repo.Update(ctx, hijack); !errors.Is(err, apperrors.ErrTransactionNotFound) {
			t.Errorf("Expected ErrTransactionNotFound, got %v", err)
		}
	})

	t.Run("update by owner", func(t *testing.T) {
		updated := tx
		updated.Quantity = 150
		updated.GrossAmount = 150 * 245.50
		if err := repo.Update(ctx, updated); err != nil {
			t.Fatalf("Update() returned unexpected error: %v", err)
		}
		got, _ := repo.Get(ctx, owner.ID, tx.ID)
		if got.GrossAmount != 36825 {
			t.Errorf("Expected gross amount 36825, got %v", got.GrossAmount)
		}
	})

	t.Run("delete by other user is not found", func(t *testing.T) {
		if err := repo.Delete(ctx, other.ID, tx.ID); !errors.Is(err, apperrors.ErrTransactionNotFound) {
			t.Errorf("Expected ErrTransactionNotFound, got %v", err)
		}
		testutil.AssertRowCount(t, db, "stock_transaction", 1)
	})

	t.Run("delete by owner", func(t *testing.T) {
		if err := repo.Delete(ctx, owner.ID, tx.ID); err != nil {
			t.Fatalf("Delete() returned unexpected error: %v", err)
		}
		testutil.AssertRowCount(t, db, "stock_transaction", 0)
		if err := repo.Delete(ctx, owner.ID, tx.ID); !errors.Is(err, apperrors.ErrTransactionNotFound) {
			t.Errorf("Expected ErrTransactionNotFound on second delete, got %v", err)
		}
	})
}

func TestTransactionRepository_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewTransactionRepository(db, nil)
	ctx := context.Background()

	owner := testutil.NewUser().Build(t, db)
	other := testutil.NewUser().Build(t, db)

	day := func(d int) time.Time { return time.Date(2024, 3, d, 12, 0, 0, 0, time.UTC) }
	testutil.NewTransaction(owner.ID).WithSymbol("THYAO").WithOccurredAt(day(1)).Build(t, db)
	testutil.NewTransaction(owner.ID).WithSymbol("ASELS").WithOccurredAt(day(3)).Build(t, db)
	testutil.NewTransaction(owner.ID).WithSymbol("THYAO").WithOccurredAt(day(2)).Build(t, db)
	testutil.NewTransaction(other.ID).WithSymbol("THYAO").WithOccurredAt(day(4)).Build(t, db)

	t.Run("newest first with total", func(t *testing.T) {
		txs, total, err := repo.List(ctx, owner.ID, model.TransactionFilter{Page: 1, PageSize: 20})
		if err != nil {
			t.Fatalf("List() returned unexpected error: %v", err)
		}
		if total != 3 || len(txs) != 3 {
			t.Fatalf("Expected 3 transactions, got %d (total %d)", len(txs), total)
		}
		for i := 1; i < len(txs); i++ {
			if txs[i].OccurredAt.After(txs[i-1].OccurredAt) {
				t.Errorf("Transactions not ordered by date descending at index %d", i)
			}
		}
	})

	t.Run("page beyond the addressable range is empty", func(t *testing.T) {
		txs, total, err := repo.List(ctx, owner.ID, model.TransactionFilter{Page: math.MaxInt, PageSize: 20})
		if err != nil {
			t.Fatalf("List() returned unexpected error: %v", err)
		}
		if len(txs) != 0 {
			t.Errorf("Expected no transactions, got %d", len(txs))
		}
		if total != 3 {
			t.Errorf("Expected total 3, got %d", total)
		}
	})

	t.Run("symbol filter is case-insensitive", func(t *testing.T) {
		txs, total, err := repo.List(ctx, owner.ID, model.TransactionFilter{Symbol: "thyao", Page: 1, PageSize: 20})
		if err != nil {
			t.Fatalf("List() returned unexpected error: %v", err)
		}
		if total != 2 || len(txs) != 2 {
			t.Errorf("Expected 2 THYAO transactions, got %d (total %d)", len(txs), total)
		}
	})

	t.Run("paging", func(t *testing.T) {
		txs, total, err := repo.List(ctx, owner.ID, model.TransactionFilter{Page: 2, PageSize: 2})
		if err != nil {
			t.Fatalf("List() returned unexpected error: %v", err)
		}
		if total != 3 {
			t.Errorf("Expected total 3, got %d", total)
		}
		if len(txs) != 1 || !txs[0].OccurredAt.Equal(day(1)) {
			t.Errorf("Expected the oldest transaction on page 2, got %+v", txs)
		}
	})

	t.Run("distinct symbols in first-seen order", func(t *testing.T) {
		symbols, err := repo.DistinctSymbols(ctx, owner.ID)
		if err != nil {
			t.Fatalf("DistinctSymbols() returned unexpected error: %v", err)
		}
		if len(symbols) != 2 || symbols[0] != "THYAO" || symbols[1] != "ASELS" {
			t.Errorf("Expected [THYAO ASELS], got %v", symbols)
		}
	})

	t.Run("list by symbol", func(t *testing.T) {
		txs, err := repo.ListBySymbol(ctx, owner.ID, "Thyao")
		if err != nil {
			t.Fatalf("ListBySymbol() returned unexpected error: %v", err)
		}
		if len(txs) != 2 {
			t.Errorf("Expected 2 transactions, got %d", len(txs))
		}
	})

	t.Run("list all excludes other users", func(t *testing.T) {
		txs, err := repo.ListAll(ctx, owner.ID)
		if err != nil {
			t.Fatalf("ListAll() returned unexpected error: %v", err)
		}
		if len(txs) != 3 {
			t.Errorf("Expected 3 transactions, got %d", len(txs))
		}
	})
}

func TestTransactionRepository_EncryptedNotes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	var key fernet.Key
	if err := key.Generate(); err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	cipher, err := security.NewNoteCipher(key.Encode())
	if err != nil {
		t.Fatalf("NewNoteCipher() returned unexpected error: %v", err)
	}
	repo := repository.NewTransactionRepository(db, cipher)

	owner := testutil.NewUser().Build(t, db)
	note := "broker account 2"
	tx := model.Transaction{
		ID:          testutil.MakeID(),
		OwnerID:     owner.ID,
		Symbol:      "GARAN",
		Kind:        model.KindBuy,
		Quantity:    10,
		UnitPrice:   50,
		GrossAmount: 500,
		OccurredAt:  time.Now(),
		Note:        &note,
		CreatedAt:   time.Now(),
	}
	if err := repo.Insert(ctx, tx); err != nil {
		t.Fatalf("Insert() returned unexpected error: %v", err)
	}

	var stored string
	if err := db.QueryRow(`SELECT notes FROM stock_transaction WHERE id = ?`, tx.ID).Scan(&stored); err != nil {
		t.Fatalf("Failed to read stored note: %v", err)
	}
	if stored == note {
		t.Error("Expected note to be encrypted at rest")
	}

	got, err := repo.Get(ctx, owner.ID, tx.ID)
	if err != nil {
		t.Fatalf("Get() returned unexpected error: %v", err)
	}
	if got.Note == nil || *got.Note != note {
		t.Errorf("Expected decrypted note %q, got %v", note, got.Note)
	}
}

func TestTransactionRepository_DuplicateID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewTransactionRepository(db, nil)

	owner := testutil.NewUser().Build(t, db)
	tx := testutil.NewTransaction(owner.ID).Build(t, db)

	err := repo.Insert(context.Background(), tx)
	if !errors.Is(err, apperrors.ErrDuplicateEntry) {
		t.Errorf("Expected ErrDuplicateEntry, got %v", err)
	}
}
