package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/aliveevie/invoice-flow-btc/invoice"
)

// =============================================================================
// TERMINAL RENDERING
// =============================================================================

var (
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")) // Gold
	paidStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#32CD32")) // LimeGreen
	expiredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080")) // Gray
	headerStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
)

func statusStyle(status invoice.Status) lipgloss.Style {
	switch status {
	case invoice.StatusPaid:
		return paidStyle
	case invoice.StatusExpired:
		return expiredStyle
	default:
		return pendingStyle
	}
}

func renderStatus(status invoice.Status) string {
	return statusStyle(status).Render(string(status))
}

func printInvoiceTable(out io.Writer, invoices []invoice.Invoice) {
	fmt.Fprintf(out, "%s\n", headerStyle.Render(fmt.Sprintf(
		"%-36s  %-14s  %-10s  %-10s  %s", "ID", "AMOUNT (BTC)", "USD", "STATUS", "CREATED")))

	for _, inv := range invoices {
		created := time.UnixMilli(inv.CreatedAt).Local().Format("2006-01-02 15:04")
		// Pad before styling so ANSI codes don't skew the column width.
		status := statusStyle(inv.Status).Render(fmt.Sprintf("%-10s", inv.Status))
		fmt.Fprintf(out, "%-36s  %-14s  %-10s  %s  %s\n",
			inv.ID,
			inv.AmountBTC,
			"$"+inv.AmountUSD,
			status,
			mutedStyle.Render(created),
		)
	}
}
