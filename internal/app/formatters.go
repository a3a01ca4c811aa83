package app

import (
	"fmt"
	"strings"

	"github.com/nsebridge/neo/internal/models"
)

// formatBalances renders a holdings snapshot as markdown.
func formatBalances(userID string, tokens []models.TokenBalance, stocks []models.StockBalance) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Holdings for %s\n\n", userID)

	b.WriteString("## Ledger Tokens\n\n")
	if len(tokens) == 0 {
		b.WriteString("No token holdings found.\n")
	} else {
		b.WriteString("| Symbol | Balance | Token ID |\n")
		b.WriteString("|--------|---------|----------|\n")
		for _, t := range tokens {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", t.Symbol, t.Balance.String(), t.TokenID)
		}
	}

	b.WriteString("\n## NSE Stocks\n\n")
	if len(stocks) == 0 {
		b.WriteString("No stock holdings found.\n")
	} else {
		b.WriteString("| Code | Quantity | Locked |\n")
		b.WriteString("|------|----------|--------|\n")
		for _, s := range stocks {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", s.StockCode, s.Quantity.String(), s.LockedQuantity.String())
		}
	}

	return b.String()
}

// formatSnapshot renders a valued portfolio as markdown.
func formatSnapshot(snapshot *models.PortfolioSnapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Portfolio Value for %s\n\n", snapshot.UserID)
	fmt.Fprintf(&b, "As of: %s\n\n", snapshot.AsOf.Format("2006-01-02 15:04:05 MST"))

	if len(snapshot.Priced) > 0 {
		b.WriteString("| Asset | Quantity | Unit Price (KES) | Value (KES) |\n")
		b.WriteString("|-------|----------|------------------|-------------|\n")
		for _, p := range snapshot.Priced {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				p.Symbol, p.Quantity.String(), p.UnitPriceKES.StringFixed(2), p.ValueKES.StringFixed(2))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "**Total: KES %s**\n", snapshot.TotalValueKES.StringFixed(2))

	if len(snapshot.Unpriced) > 0 {
		fmt.Fprintf(&b, "\nNo price available for: %s. These assets are excluded from the total.\n",
			strings.Join(snapshot.Unpriced, ", "))
	}

	return b.String()
}

// formatTrendComparison renders per-symbol sentiment for trend analysis.
func formatTrendComparison(codes []string, report map[string]*models.MarketNews) string {
	var b strings.Builder

	b.WriteString("# Market Trends\n")

	for _, code := range codes {
		news := report[code]
		if news == nil {
			continue
		}

		fmt.Fprintf(&b, "\n## %s (%s)\n\n", news.Symbol, news.Overall)
		for _, line := range news.Summary {
			fmt.Fprintf(&b, "- %s\n", line)
		}

		for _, item := range news.Items {
			fmt.Fprintf(&b, "\n**%s** (%s)\n%s\n%s\n", item.Title, item.Sentiment, item.Description, item.URL)
		}
	}

	return b.String()
}

// formatMarketReport renders the aggregated news report.
func formatMarketReport(codes []string, report map[string]*models.MarketNews) string {
	var b strings.Builder

	b.WriteString("# Market Report\n\n")
	fmt.Fprintf(&b, "Stocks covered: %s\n", strings.Join(codes, ", "))

	for _, code := range codes {
		news := report[code]
		if news == nil {
			continue
		}

		fmt.Fprintf(&b, "\n## %s\n\nSentiment: %s\n\n", news.Symbol, news.Overall)
		for _, line := range news.Summary {
			fmt.Fprintf(&b, "- %s\n", line)
		}
		for _, item := range news.Items {
			fmt.Fprintf(&b, "- [%s] %s\n", item.Sentiment, item.Title)
		}
	}

	return b.String()
}

// formatActionResults renders the outcome of a trading batch.
func formatActionResults(results []models.ActionResult) string {
	var b strings.Builder

	b.WriteString("# Trading Actions\n\n")

	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
		}
	}
	fmt.Fprintf(&b, "%d of %d actions completed.\n", succeeded, len(results))

	for i, r := range results {
		status := "FAILED"
		if r.Success {
			status = "OK"
		}

		fmt.Fprintf(&b, "\n## %d. %s %s %s: %s\n\n",
			i+1, r.Action.Kind, r.Action.Amount.String(), r.Action.StockCode, status)
		fmt.Fprintf(&b, "%s\n", r.Message)

		if r.TxID != "" {
			fmt.Fprintf(&b, "Transaction: %s\n", r.TxID)
		}
		if r.FeeCharged {
			b.WriteString("Usage fee charged.\n")
		}
		if r.AuditError != "" {
			fmt.Fprintf(&b, "Audit log warning: %s\n", r.AuditError)
		}
		if r.FeeError != "" {
			fmt.Fprintf(&b, "Fee warning: %s\n", r.FeeError)
		}
	}

	return b.String()
}
