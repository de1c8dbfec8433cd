package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/ndewijer/stock-ledger-backend/internal/backup"
	"github.com/ndewijer/stock-ledger-backend/internal/database"
)

type backupCmd struct {
	app *App
	out string
}

func (*backupCmd) Name() string     { return "backup" }
func (*backupCmd) Synopsis() string { return "copy the database locally or to object storage" }
func (*backupCmd) Usage() string {
	return `backup [-out <file>]

  With -out, writes a consistent copy of the database to <file>, which must
  not exist yet. Without it, uploads a copy to the configured bucket
  (BACKUP_BUCKET and friends).
`
}

func (c *backupCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.out, "out", "", "Write the copy to this local file instead of uploading it")
}

func (c *backupCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	db, err := c.app.DB()
	if err != nil {
		return c.app.fail("opening database: %v", err)
	}

	if c.out != "" {
		if err := database.BackupTo(ctx, db, c.out); err != nil {
			return c.app.fail("%v", err)
		}
		fmt.Fprintf(c.app.Out, "Database copied to %s\n", c.out)
		return subcommands.ExitSuccess
	}

	cfg := c.app.Config.Backup
	uploader, err := backup.NewS3Uploader(ctx, cfg)
	if err != nil {
		return c.app.fail("%v (set BACKUP_BUCKET or pass -out)", err)
	}

	location, err := backup.NewService(db, uploader, cfg, c.app.Log).Run(ctx)
	if err != nil {
		return c.app.fail("%v", err)
	}
	fmt.Fprintf(c.app.Out, "Database uploaded to %s\n", location)
	return subcommands.ExitSuccess
}
