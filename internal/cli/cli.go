// Package cli implements the ledgerctl administration commands.
package cli

import (
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"github.com/ndewijer/stock-ledger-backend/internal/config"
	"github.com/ndewijer/stock-ledger-backend/internal/database"
)

// App carries what every command needs. Commands open the database lazily so
// that "version" works without one.
type App struct {
	Config *config.Config
	Log    zerolog.Logger
	Out    io.Writer
	Err    io.Writer

	db *sql.DB
}

// NewApp creates an App writing to stdout and stderr.
func NewApp(cfg *config.Config, log zerolog.Logger) *App {
	return &App{
		Config: cfg,
		Log:    log,
		Out:    os.Stdout,
		Err:    os.Stderr,
	}
}

// DB opens the configured database on first use.
func (a *App) DB() (*sql.DB, error) {
	if a.db != nil {
		return a.db, nil
	}
	db, err := database.Open(a.Config.Database.Path)
	if err != nil {
		return nil, err
	}
	a.db = db
	return db, nil
}

// Close releases the database if it was opened.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

// fail prints an error the way every command reports them.
func (a *App) fail(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(a.Err, "Error: "+format+"\n", args...)
	return subcommands.ExitFailure
}

// Register the subcommands.
func Register(c *subcommands.Commander, app *App) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&migrateCmd{app: app}, "database")
	c.Register(&backupCmd{app: app}, "database")
	c.Register(&summaryCmd{app: app}, "ledger")
	c.Register(&versionCmd{app: app}, "")
}
