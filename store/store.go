/*
Package store persists the invoice history.

PURPOSE:
  The entire history is a single JSON array kept under one named slot.
  The Gateway owns the array semantics (guard filtering, ordering,
  whole-collection replacement); the Medium owns the bytes. Different
  media can back the slot: a file, memory, or SQLite.

TRUST POLICY:
  The gateway never partially trusts its medium. A missing slot, a
  corrupt blob, a non-array payload, or a malformed element all degrade
  to "empty" or "dropped"; nothing a medium returns can crash a caller.
  Malformed entries are dropped on load, never rewritten on save.

ORDERING:
  Newest-first by CreatedAt is a load-time contract. Save writes the
  caller's sequence as given.

IMPLEMENTATIONS:
  - file.go:          Atomic file-backed slot (production default)
  - memory.go:        In-memory slot for tests and dev
  - sqlite/sqlite.go: Single-row slot table in SQLite
*/
package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"

	"github.com/samber/lo"

	"github.com/aliveevie/invoice-flow-btc/invoice"
)

// Slot is the storage key the invoice history lives under.
const Slot = "invoice_flow_history_btc"

// =============================================================================
// MEDIUM - Raw single-slot byte storage
// =============================================================================

// Medium is raw storage for one named blob. Read returns (nil, nil)
// when the slot is absent; Write replaces the blob atomically from the
// caller's perspective; Delete removes the slot entirely.
type Medium interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, payload []byte) error
	Delete(ctx context.Context) error
}

// =============================================================================
// GATEWAY - Invoice collection over a Medium
// =============================================================================

// Gateway reads and writes the invoice collection.
type Gateway struct {
	medium Medium
	logger *slog.Logger
}

// NewGateway creates a gateway over the given medium. A nil logger
// falls back to the default slog logger.
func NewGateway(medium Medium, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{medium: medium, logger: logger}
}

// Load returns the stored invoices, newest first. Load is total: an
// absent slot, unreadable medium, unparsable blob, or non-array payload
// all return an empty sequence, and elements failing the shape guard
// are silently dropped.
func (g *Gateway) Load(ctx context.Context) []invoice.Invoice {
	raw, err := g.medium.Read(ctx)
	if err != nil {
		g.logger.Warn("invoice store unreadable, treating as empty", "error", err)
		return []invoice.Invoice{}
	}
	if len(raw) == 0 {
		return []invoice.Invoice{}
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		g.logger.Warn("invoice store corrupt, treating as empty", "error", err)
		return []invoice.Invoice{}
	}

	invoices := lo.FilterMap(elements, func(element json.RawMessage, _ int) (invoice.Invoice, bool) {
		return invoice.Coerce(element)
	})
	if dropped := len(elements) - len(invoices); dropped > 0 {
		g.logger.Warn("dropped malformed invoice entries", "count", dropped)
	}

	sort.SliceStable(invoices, func(i, j int) bool {
		return invoices[i].CreatedAt > invoices[j].CreatedAt
	})
	return invoices
}

// Save replaces the whole stored collection with the given sequence.
func (g *Gateway) Save(ctx context.Context, invoices []invoice.Invoice) error {
	if invoices == nil {
		invoices = []invoice.Invoice{}
	}
	payload, err := json.Marshal(invoices)
	if err != nil {
		return err
	}
	return g.medium.Write(ctx, payload)
}

// Clear removes the stored collection entirely.
func (g *Gateway) Clear(ctx context.Context) error {
	return g.medium.Delete(ctx)
}

// Add prepends a new invoice and saves the collection.
func (g *Gateway) Add(ctx context.Context, inv invoice.Invoice) error {
	invoices := append([]invoice.Invoice{inv}, g.Load(ctx)...)
	return g.Save(ctx, invoices)
}

// Get returns the stored invoice with the given id.
func (g *Gateway) Get(ctx context.Context, id string) (invoice.Invoice, bool) {
	return lo.Find(g.Load(ctx), func(inv invoice.Invoice) bool {
		return inv.ID == id
	})
}

// ReplaceByID swaps the stored invoice with the same id for the given
// one. If no invoice with that id exists (e.g. the history was cleared
// meanwhile), persistence is a no-op and no error is returned.
func (g *Gateway) ReplaceByID(ctx context.Context, inv invoice.Invoice) error {
	invoices := g.Load(ctx)
	replaced := false
	for i := range invoices {
		if invoices[i].ID == inv.ID {
			invoices[i] = inv
			replaced = true
			break
		}
	}
	if !replaced {
		return nil
	}
	return g.Save(ctx, invoices)
}
