package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ndewijer/stock-ledger-backend/internal/api/request"
	"github.com/ndewijer/stock-ledger-backend/internal/apperrors"
	"github.com/ndewijer/stock-ledger-backend/internal/model"
	"github.com/ndewijer/stock-ledger-backend/internal/repository"
	"github.com/ndewijer/stock-ledger-backend/internal/security"
	"github.com/ndewijer/stock-ledger-backend/internal/validation"
)

// AuthService handles registration, login and access-token checks.
type AuthService struct {
	userRepo    *repository.UserRepository
	revokedRepo *repository.RevokedTokenRepository
	tokens      *security.TokenIssuer
	log         zerolog.Logger
	now         func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	userRepo *repository.UserRepository,
	revokedRepo *repository.RevokedTokenRepository,
	tokens *security.TokenIssuer,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		revokedRepo: revokedRepo,
		tokens:      tokens,
		log:         log.With().Str("service", "auth").Logger(),
		now:         time.Now,
	}
}

// Register creates an active account. A taken email or username returns
// apperrors.ErrDuplicateEntry without saying which one.
func (s *AuthService) Register(ctx context.Context, req request.RegisterRequest) (model.User, error) {
	if err := validation.ValidateRegister(req); err != nil {
		return model.User{}, err
	}

	hashed, err := security.HashPassword(req.Password)
	if err != nil {
		return model.User{}, err
	}

	now := s.now().UTC()
	user := model.User{
		ID:             uuid.New().String(),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Username:       strings.TrimSpace(req.Username),
		HashedPassword: hashed,
		FullName:       req.FullName,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateEntry) {
			s.log.Warn().Str("username", user.Username).Msg("registration rejected: email or username taken")
			return model.User{}, apperrors.ErrDuplicateEntry
		}
		return model.User{}, fmt.Errorf("failed to register user: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return user, nil
}

// Login checks credentials and issues an access token.
// Unknown emails, wrong passwords and over-long passwords all yield
// apperrors.ErrInvalidCredentials; a disabled account yields apperrors.ErrInactiveUser.
func (s *AuthService) Login(ctx context.Context, req request.LoginRequest) (model.AuthToken, error) {
	if err := validation.ValidateLogin(req); err != nil {
		return model.AuthToken{}, err
	}

	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if errors.Is(err, apperrors.ErrUserNotFound) {
		s.log.Warn().Msg("failed login attempt")
		return model.AuthToken{}, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return model.AuthToken{}, fmt.Errorf("failed to load user: %w", err)
	}

	if !security.VerifyPassword(req.Password, user.HashedPassword) {
		s.log.Warn().Str("user_id", user.ID).Msg("failed login attempt")
		return model.AuthToken{}, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		s.log.Warn().Str("user_id", user.ID).Msg("login attempt on inactive account")
		return model.AuthToken{}, apperrors.ErrInactiveUser
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return model.AuthToken{}, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return model.AuthToken{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	}, nil
}

// Authenticate resolves a bearer token to its principal. Revoked tokens and
// tokens of deleted users yield apperrors.ErrInvalidToken.
func (s *AuthService) Authenticate(ctx context.Context, token string) (model.Principal, error) {
	principal, err := s.tokens.Parse(token)
	if err != nil {
		return model.Principal{}, err
	}

	revoked, err := s.revokedRepo.IsRevoked(ctx, principal.TokenID)
	if err != nil {
		return model.Principal{}, err
	}
	if revoked {
		return model.Principal{}, fmt.Errorf("%w: token revoked", apperrors.ErrInvalidToken)
	}

	user, err := s.userRepo.GetByID(ctx, principal.UserID)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return model.Principal{}, fmt.Errorf("%w: unknown subject", apperrors.ErrInvalidToken)
	}
	if err != nil {
		return model.Principal{}, err
	}
	if !user.IsActive {
		return model.Principal{}, apperrors.ErrInactiveUser
	}

	return principal, nil
}

// CurrentUser returns the account of userID.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (model.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// Logout revokes the principal's token until it expires.
func (s *AuthService) Logout(ctx context.Context, principal model.Principal) error {
	if err := s.revokedRepo.Revoke(ctx, principal.TokenID, principal.UserID, principal.ExpiresAt); err != nil {
		return err
	}
	s.log.Info().Str("user_id", principal.UserID).Msg("user logged out")
	return nil
}

// PurgeExpiredRevocations drops revocations of tokens that have expired anyway.
func (s *AuthService) PurgeExpiredRevocations(ctx context.Context) (int64, error) {
	return s.revokedRepo.DeleteExpired(ctx, s.now())
}
