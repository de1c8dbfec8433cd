package handlers

import (
	"errors"
	"mime"
	"net/http"

	"github.com/ndewijer/stock-ledger-backend/internal/api/middleware"
	"github.com/ndewijer/stock-ledger-backend/internal/api/request"
	"github.com/ndewijer/stock-ledger-backend/internal/api/response"
	"github.com/ndewijer/stock-ledger-backend/internal/apperrors"
	"github.com/ndewijer/stock-ledger-backend/internal/service"
)

// registrationFailedMessage does not say whether the email or the username was taken.
const registrationFailedMessage = "registration failed, please check your details"

// AuthHandler handles account and session endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates a new account.
//
// Endpoint: POST /api/auth/register
// Request Body: request.RegisterRequest
// Response: 201 Created with model.User
// Error: 400 Bad Request if the body is invalid or the email/username is taken
// Error: 500 Internal Server Error if the account cannot be stored
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.RegisterRequest](w, r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	user, err := h.authService.Register(r.Context(), req)
	if err != nil {
		switch {
		case respondValidation(w, err):
		case errors.Is(err, apperrors.ErrDuplicateEntry):
			response.RespondError(w, http.StatusBadRequest, registrationFailedMessage, "")
		default:
			respondInternal(w, r, "failed to register user", err)
		}
		return
	}

	response.Respond(w, r, http.StatusCreated, user)
}

// Login exchanges credentials for an access token. The body is either JSON
// ({"email", "password"}) or an OAuth2 password form where "username"
// carries the email.
//
// Endpoint: POST /api/auth/login
// Response: 200 OK with model.AuthToken
// Error: 400 Bad Request if the body cannot be read
// Error: 401 Unauthorized if the credentials are wrong
// Error: 403 Forbidden if the account is disabled
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := parseLogin(w, r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	token, err := h.authService.Login(r.Context(), req)
	if err != nil {
		switch {
		case respondValidation(w, err):
		case errors.Is(err, apperrors.ErrInvalidCredentials):
			middleware.Unauthorized(w, apperrors.ErrInvalidCredentials.Error())
		case errors.Is(err, apperrors.ErrInactiveUser):
			response.RespondError(w, http.StatusForbidden, apperrors.ErrInactiveUser.Error(), "")
		default:
			respondInternal(w, r, "failed to log in", err)
		}
		return
	}

	response.Respond(w, r, http.StatusOK, token)
}

func parseLogin(w http.ResponseWriter, r *http.Request) (request.LoginRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return request.LoginRequest{}, errors.New("invalid form body")
		}
		return request.LoginRequest{
			Email:    r.PostFormValue("username"),
			Password: r.PostFormValue("password"),
		}, nil
	default:
		return parseJSON[request.LoginRequest](w, r)
	}
}

// Me returns the authenticated user.
//
// Endpoint: GET /api/auth/me
// Response: 200 OK with model.User
// Error: 401 Unauthorized if the account no longer exists
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.CurrentUser(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			middleware.Unauthorized(w, apperrors.ErrInvalidToken.Error())
			return
		}
		respondInternal(w, r, "failed to load user", err)
		return
	}

	response.Respond(w, r, http.StatusOK, user)
}

// Logout revokes the access token used for this request.
//
// Endpoint: POST /api/auth/logout
// Response: 204 No Content
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		middleware.Unauthorized(w, "not authenticated")
		return
	}

	if err := h.authService.Logout(r.Context(), principal); err != nil {
		respondInternal(w, r, "failed to log out", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
