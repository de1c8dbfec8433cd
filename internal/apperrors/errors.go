package apperrors

import "errors"

// Domain entity errors represent missing entities in the system.
// These errors indicate that a requested resource does not exist for the caller.
var (
	// ErrTransactionNotFound indicates that a transaction with the given ID does not
	// exist or is owned by another user.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrNoSymbolData indicates that the user has no transactions for a symbol.
	ErrNoSymbolData = errors.New("no data found for this stock")

	// ErrUserNotFound indicates that a user with the given ID or email does not exist.
	ErrUserNotFound = errors.New("user not found")
)

// Business logic errors represent validation failures or constraint violations.
var (
	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")

	ErrInvalidSymbol = errors.New("symbol is required")
)

// Identity errors are returned by the authentication layer.
var (
	// ErrInvalidCredentials is returned for an unknown email and for a wrong password alike.
	ErrInvalidCredentials = errors.New("incorrect email or password")

	// ErrInactiveUser indicates that the account exists but has been disabled.
	ErrInactiveUser = errors.New("inactive user")

	// ErrInvalidToken covers malformed, expired, wrongly signed and revoked access tokens.
	ErrInvalidToken = errors.New("could not validate credentials")

	// ErrMissingSecret is returned when token signing is attempted without a key.
	ErrMissingSecret = errors.New("secret key is not configured")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
var (
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrieveTransaction  = errors.New("failed to retrieve transaction")
	ErrFailedToGetPortfolioSummary  = errors.New("failed to get portfolio summary")
	ErrFailedToGetStockSummary      = errors.New("failed to get stock summary")
	ErrFailedToGetVersionInfo       = errors.New("failed to get version information")
	ErrFailedToGetSystemStatus      = errors.New("failed to get system status")

	// ErrBackupNotConfigured is returned when an upload is requested without a bucket.
	ErrBackupNotConfigured = errors.New("backup bucket is not configured")
)
