// Package version holds build metadata injected at link time.
package version

// Version is overridden with -ldflags "-X github.com/ndewijer/stock-ledger-backend/internal/version.Version=v1.2.3".
var Version = "dev"

// Name is the service name reported by the banner and CLI.
const Name = "Stock Ledger API"
