// Command ledgerctl administers a stock ledger database.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/google/subcommands"

	"github.com/ndewijer/stock-ledger-backend/internal/cli"
	"github.com/ndewijer/stock-ledger-backend/internal/config"
	"github.com/ndewijer/stock-ledger-backend/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading configuration: %v\n", err)
		return int(subcommands.ExitFailure)
	}

	log := logging.New(logging.Config{Level: cfg.Log.Level, Pretty: true, Output: os.Stderr})

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	app := cli.NewApp(cfg, log)
	defer app.Close()
	cli.Register(commander, app)

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return int(commander.Execute(ctx))
}
