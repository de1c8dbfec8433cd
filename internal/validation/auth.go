package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/ndewijer/stock-ledger-backend/internal/api/request"
)

// Account field limits. Passwords are additionally capped at 72 bytes by bcrypt.
const (
	MaxEmailLength    = 255
	MinUsernameLength = 3
	MaxUsernameLength = 100
	MinPasswordLength = 6
	MaxPasswordLength = 100
	MaxPasswordBytes  = 72
	MaxFullNameLength = 200
)

// ValidateRegister validates a registration request.
func ValidateRegister(req request.RegisterRequest) error {
	errors := make(map[string]string)

	email := strings.TrimSpace(req.Email)
	if email == "" {
		errors["email"] = "email is required"
	} else if len(email) > MaxEmailLength {
		errors["email"] = fmt.Sprintf("email must be at most %d characters", MaxEmailLength)
	} else if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		errors["email"] = "email is not a valid address"
	}

	username := strings.TrimSpace(req.Username)
	if n := utf8.RuneCountInString(username); n < MinUsernameLength || n > MaxUsernameLength {
		errors["username"] = fmt.Sprintf("username must be between %d and %d characters", MinUsernameLength, MaxUsernameLength)
	}

	switch n := utf8.RuneCountInString(req.Password); {
	case n < MinPasswordLength || n > MaxPasswordLength:
		errors["password"] = fmt.Sprintf("password must be between %d and %d characters", MinPasswordLength, MaxPasswordLength)
	case len(req.Password) > MaxPasswordBytes:
		errors["password"] = fmt.Sprintf("password cannot be longer than %d bytes", MaxPasswordBytes)
	}

	if req.FullName != nil && utf8.RuneCountInString(*req.FullName) > MaxFullNameLength {
		errors["full_name"] = fmt.Sprintf("full_name must be at most %d characters", MaxFullNameLength)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateLogin only checks presence; wrong credentials are reported by the auth service.
func ValidateLogin(req request.LoginRequest) error {
	errors := make(map[string]string)
	if strings.TrimSpace(req.Email) == "" {
		errors["email"] = "email is required"
	}
	if req.Password == "" {
		errors["password"] = "password is required"
	}
	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
