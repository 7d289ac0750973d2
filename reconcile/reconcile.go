/*
Package reconcile drives the pending -> paid transition.

PURPOSE:
  Compares a freshly observed on-chain balance against an invoice's
  requested amount and, when settled, replaces the stored invoice with
  a paid copy. Overpayment counts as settled; underpayment does not.

FAILURE POLICY:
  A balance lookup failure means "no settlement yet". It never blocks
  the invoice from remaining pending and never surfaces as an error to
  the transition itself.

IDEMPOTENCY:
  Checking an already-paid invoice is a no-op: no fetch, no rewrite,
  and AmountUSD is never re-derived.

SEE ALSO:
  - reconcile/watcher.go: periodic checks over all pending invoices
*/
package reconcile

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/aliveevie/invoice-flow-btc/invoice"
	"github.com/aliveevie/invoice-flow-btc/provider"
	"github.com/aliveevie/invoice-flow-btc/store"
)

// IsSettled reports whether an observed balance covers the requested
// amount. Not an exact match: observed >= requested.
func IsSettled(observed, requested decimal.Decimal) bool {
	return observed.GreaterThanOrEqual(requested)
}

// Reconciler checks invoices against live balances.
type Reconciler struct {
	Balances provider.BalanceSource
	Store    *store.Gateway
	Logger   *slog.Logger
}

func New(balances provider.BalanceSource, gateway *store.Gateway, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{Balances: balances, Store: gateway, Logger: logger}
}

// Check fetches the balance for a pending invoice and applies the paid
// transition when settled. The returned invoice is the caller's fresh
// view; if it was marked paid, the stored copy is replaced by id (a
// no-op when the invoice is no longer in the collection). A balance
// fetch failure leaves the invoice pending and returns no error.
func (r *Reconciler) Check(ctx context.Context, inv invoice.Invoice) (invoice.Invoice, error) {
	if inv.Status == invoice.StatusPaid {
		return inv, nil
	}

	observed, err := r.Balances.FetchBalance(ctx, inv.RecipientAddress)
	if err != nil {
		r.Logger.Warn("balance lookup failed, invoice stays pending",
			"invoice_id", inv.ID,
			"error", err,
		)
		return inv, nil
	}

	if !IsSettled(observed, inv.Amount()) {
		return inv, nil
	}

	paid := inv.MarkPaid()
	if err := r.Store.ReplaceByID(ctx, paid); err != nil {
		return paid, err
	}

	r.Logger.Info("invoice settled",
		"invoice_id", paid.ID,
		"amount_btc", paid.AmountBTC,
		"observed_balance", observed.String(),
	)
	return paid, nil
}
