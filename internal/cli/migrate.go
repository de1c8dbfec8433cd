package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/ndewijer/stock-ledger-backend/internal/database"
)

type migrateCmd struct {
	app  *App
	down bool
}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "apply or roll back database migrations" }
func (*migrateCmd) Usage() string {
	return `migrate [-down]

  Applies every pending migration to the configured database (DB_PATH).
  With -down, rolls back the most recent migration instead.
`
}

func (c *migrateCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.down, "down", false, "Roll back the most recent migration")
}

func (c *migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	db, err := c.app.DB()
	if err != nil {
		return c.app.fail("opening database: %v", err)
	}

	if c.down {
		version, err := database.Rollback(ctx, db)
		if err != nil {
			return c.app.fail("rolling back: %v", err)
		}
		fmt.Fprintf(c.app.Out, "Rolled back migration %d\n", version)
		return subcommands.ExitSuccess
	}

	applied, err := database.Migrate(ctx, db)
	if err != nil {
		return c.app.fail("migrating: %v", err)
	}
	if applied == 0 {
		fmt.Fprintln(c.app.Out, "Database schema is up to date")
		return subcommands.ExitSuccess
	}
	fmt.Fprintf(c.app.Out, "Applied %d migration(s)\n", applied)
	return subcommands.ExitSuccess
}
