package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/stock-ledger-backend/internal/model"
)

// SummaryMarkdown renders a portfolio summary as a markdown document.
func SummaryMarkdown(owner string, s model.PortfolioSummary, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Portfolio of %s\n\n", owner)

	if len(s.Symbols) == 0 {
		fmt.Fprintln(&b, "No transactions recorded yet.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Stock | Quantity | Avg. cost | Invested | Commission | Bought | Sold |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|")
	for _, st := range s.Symbols {
		name := st.Symbol
		if st.DisplayName != nil && *st.DisplayName != "" {
			name = fmt.Sprintf("%s (%s)", st.Symbol, escapeCell(*st.DisplayName))
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			name,
			formatQuantity(st.NetQuantity),
			formatUnitPrice(st.AverageCost, currency),
			formatMoney(st.TotalInvested, currency),
			formatMoney(st.TotalFees, currency),
			formatQuantity(st.TotalBuyQuantity),
			formatQuantity(st.TotalSellQuantity),
		)
	}

	fmt.Fprintf(&b, "\n**%d stocks**, %s invested, %s commission\n",
		s.SymbolCount,
		formatMoney(s.TotalInvested, currency),
		formatMoney(s.TotalFees, currency),
	)
	return b.String()
}

// knownCurrency reports whether go-money knows code.
func knownCurrency(code string) bool {
	return money.GetCurrency(code) != nil
}

// formatMoney prints amount with the currency's symbol and separators.
// Amounts are rounded to the currency's minor unit.
func formatMoney(amount float64, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return decimal.NewFromFloat(amount).StringFixed(2)
	}
	minor := decimal.NewFromFloat(amount).Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), cur.Code).Display()
}

// unitPricePlaces matches the precision of a summary's average cost.
const unitPricePlaces = 4

// formatUnitPrice prints a per-share amount like formatMoney but keeps four
// decimal places regardless of the currency's minor unit.
func formatUnitPrice(amount float64, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return decimal.NewFromFloat(amount).StringFixed(unitPricePlaces)
	}
	f := money.NewFormatter(unitPricePlaces, cur.Decimal, cur.Thousand, cur.Grapheme, cur.Template)
	return f.Format(decimal.NewFromFloat(amount).Shift(unitPricePlaces).Round(0).IntPart())
}

// formatQuantity drops trailing zeros: 120 and 0.5, not 120.0000.
func formatQuantity(q float64) string {
	return decimal.NewFromFloat(q).Round(4).String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// printMarkdown renders md for the terminal, or writes it untouched when plain.
func printMarkdown(w io.Writer, md string, plain bool) error {
	if plain {
		_, err := io.WriteString(w, md)
		return err
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return err
	}
	out, err := r.Render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
