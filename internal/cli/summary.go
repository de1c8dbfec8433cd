package cli

import (
	"context"
	"errors"
	"flag"

	"github.com/google/subcommands"

	"github.com/ndewijer/stock-ledger-backend/internal/apperrors"
	"github.com/ndewijer/stock-ledger-backend/internal/repository"
	"github.com/ndewijer/stock-ledger-backend/internal/security"
	"github.com/ndewijer/stock-ledger-backend/internal/service"
)

type summaryCmd struct {
	app      *App
	email    string
	currency string
	plain    bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display a user's portfolio summary" }
func (*summaryCmd) Usage() string {
	return `summary -user <email> [-currency <code>] [-plain]

  Prints the cost basis of every stock the user has transacted, computed from
  the stored transactions.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "user", "", "Email of the account to report on (required)")
	f.StringVar(&c.currency, "currency", "", "ISO 4217 code for amounts. Defaults to LEDGER_CURRENCY.")
	f.BoolVar(&c.plain, "plain", false, "Print raw markdown instead of rendering it")
}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if c.email == "" {
		return c.app.fail("-user is required")
	}
	currency := c.currency
	if currency == "" {
		currency = c.app.Config.Currency
	}
	if !knownCurrency(currency) {
		return c.app.fail("unknown currency %q", currency)
	}

	db, err := c.app.DB()
	if err != nil {
		return c.app.fail("opening database: %v", err)
	}

	user, err := repository.NewUserRepository(db).GetByEmail(ctx, c.email)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return c.app.fail("no user with email %s", c.email)
	}
	if err != nil {
		return c.app.fail("loading user: %v", err)
	}

	cipher, err := security.NewNoteCipher(c.app.Config.Auth.NotesKey)
	if err != nil {
		return c.app.fail("%v", err)
	}
	portfolio := service.NewPortfolioService(repository.NewTransactionRepository(db, cipher), c.app.Log)

	summary, err := portfolio.GetPortfolioSnapshot(ctx, user.ID)
	if err != nil {
		return c.app.fail("computing summary: %v", err)
	}

	md := SummaryMarkdown(user.Username, summary, currency)
	if err := printMarkdown(c.app.Out, md, c.plain); err != nil {
		return c.app.fail("rendering: %v", err)
	}
	return subcommands.ExitSuccess
}
