package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ndewijer/stock-ledger-backend/internal/api/response"
	"github.com/ndewijer/stock-ledger-backend/internal/apperrors"
	"github.com/ndewijer/stock-ledger-backend/internal/model"
)

type principalKey struct{}

// TokenAuthenticator resolves a bearer token to the caller it identifies.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (model.Principal, error)
}

// Authenticate rejects requests without a valid bearer token and stores the
// caller's principal in the request context.
//
//   - missing, malformed, expired or revoked token: 401 with WWW-Authenticate: Bearer
//   - disabled account: 403
func Authenticate(auth TokenAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				Unauthorized(w, "not authenticated")
				return
			}

			principal, err := auth.Authenticate(r.Context(), token)
			switch {
			case errors.Is(err, apperrors.ErrInactiveUser):
				response.RespondError(w, http.StatusForbidden, "this account has been disabled", "")
				return
			case errors.Is(err, apperrors.ErrInvalidToken), errors.Is(err, apperrors.ErrMissingSecret):
				Unauthorized(w, apperrors.ErrInvalidToken.Error())
				return
			case err != nil:
				response.RespondError(w, http.StatusInternalServerError, "failed to authenticate", "")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// Unauthorized writes a 401 carrying the Bearer challenge.
func Unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	response.RespondError(w, http.StatusUnauthorized, message, "")
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// WithPrincipal returns a context carrying principal.
func WithPrincipal(ctx context.Context, principal model.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// PrincipalFromContext returns the authenticated caller, if any.
func PrincipalFromContext(ctx context.Context) (model.Principal, bool) {
	principal, ok := ctx.Value(principalKey{}).(model.Principal)
	return principal, ok
}

// UserIDFromContext returns the authenticated user's ID or "".
func UserIDFromContext(ctx context.Context) string {
	principal, _ := PrincipalFromContext(ctx)
	return principal.UserID
}
