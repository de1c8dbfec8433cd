package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ndewijer/stock-ledger-backend/internal/apperrors"
	"github.com/ndewijer/stock-ledger-backend/internal/model"
	"github.com/ndewijer/stock-ledger-backend/internal/repository"
	"github.com/ndewijer/stock-ledger-backend/internal/testutil"
)

func TestUserRepository(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	existing := testutil.NewUser().WithEmail("ayse@example.com").WithUsername("ayse").WithFullName("Ayse Yilmaz").Build(t, db)

	t.Run("get by email ignores case", func(t *testing.T) {
		u, err := repo.GetByEmail(ctx, "AYSE@example.com")
		if err != nil {
			t.Fatalf("GetByEmail() returned unexpected error: %v", err)
		}
		if u.ID != existing.ID || !u.IsActive {
			t.Errorf("Unexpected user: %+v", u)
		}
		if u.FullName == nil || *u.FullName != "Ayse Yilmaz" {
			t.Errorf("Expected full name, got %v", u.FullName)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := repo.GetByID(ctx, testutil.MakeID())
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			t.Errorf("Expected ErrUserNotFound, got %v", err)
		}
	})

	duplicate := func(email, username string) error {
		now := time.Now()
		return repo.Create(ctx, model.User{
			ID: testutil.MakeID(), Email: email, Username: username,
			HashedPassword: "x", IsActive: true, CreatedAt: now, UpdatedAt: now,
		})
	}

	t.Run("duplicate email", func(t *testing.T) {
		if err := duplicate("ayse@example.com", "other"); !errors.Is(err, apperrors.ErrDuplicateEntry) {
			t.Errorf("Expected ErrDuplicateEntry, got %v", err)
		}
	})

	t.Run("duplicate username", func(t *testing.T) {
		if err := duplicate("other@example.com", "ayse"); !errors.Is(err, apperrors.ErrDuplicateEntry) {
			t.Errorf("Expected ErrDuplicateEntry, got %v", err)
		}
	})

	t.Run("set active", func(t *testing.T) {
		if err := repo.SetActive(ctx, existing.ID, false); err != nil {
			t.Fatalf("SetActive() returned unexpected error: %v", err)
		}
		u, _ := repo.GetByID(ctx, existing.ID)
		if u.IsActive {
			t.Error("Expected user to be inactive")
		}
	})
}

func TestRevokedTokenRepository(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewRevokedTokenRepository(db)
	ctx := context.Background()
	user := testutil.NewUser().Build(t, db)
	now := time.Now()

	if err := repo.Revoke(ctx, "jti-live", user.ID, now.Add(time.Hour)); err != nil {
		t.Fatalf("Revoke() returned unexpected error: %v", err)
	}
	if err := repo.Revoke(ctx, "jti-live", user.ID, now.Add(time.Hour)); err != nil {
		t.Errorf("Second Revoke() returned unexpected error: %v", err)
	}
	if err := repo.Revoke(ctx, "jti-old", user.ID, now.Add(-time.Hour)); err != nil {
		t.Fatalf("Revoke() returned unexpected error: %v", err)
	}

	revoked, err := repo.IsRevoked(ctx, "jti-live")
	if err != nil || !revoked {
		t.Errorf("Expected jti-live to be revoked, got %v (err %v)", revoked, err)
	}
	revoked, err = repo.IsRevoked(ctx, "jti-unknown")
	if err != nil || revoked {
		t.Errorf("Expected jti-unknown not to be revoked, got %v (err %v)", revoked, err)
	}

	removed, err := repo.DeleteExpired(ctx, now)
	if err != nil {
		t.Fatalf("DeleteExpired() returned unexpected error: %v", err)
	}
	if removed != 1 {
		t.Errorf("Expected 1 expired revocation removed, got %d", removed)
	}
	testutil.AssertRowCount(t, db, "revoked_token", 1)
}
