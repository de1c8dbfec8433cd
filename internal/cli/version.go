package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/ndewijer/stock-ledger-backend/internal/database"
	"github.com/ndewijer/stock-ledger-backend/internal/version"
)

type versionCmd struct {
	app *App
}

func (*versionCmd) Name() string             { return "version" }
func (*versionCmd) Synopsis() string         { return "print application and schema versions" }
func (*versionCmd) Usage() string            { return "version\n" }
func (*versionCmd) SetFlags(_ *flag.FlagSet) {}

func (c *versionCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	fmt.Fprintf(c.app.Out, "%s %s\n", version.Name, version.Version)

	db, err := c.app.DB()
	if err != nil {
		fmt.Fprintf(c.app.Out, "schema: unavailable (%v)\n", err)
		return subcommands.ExitSuccess
	}
	current, latest, err := database.SchemaVersion(ctx, db)
	if err != nil {
		fmt.Fprintf(c.app.Out, "schema: unavailable (%v)\n", err)
		return subcommands.ExitSuccess
	}

	fmt.Fprintf(c.app.Out, "schema: %s (latest %s)\n", current, latest)
	if current != latest {
		fmt.Fprintln(c.app.Out, "run 'ledgerctl migrate' to upgrade")
	}
	return subcommands.ExitSuccess
}
