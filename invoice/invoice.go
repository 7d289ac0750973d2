/*
Package invoice provides the core payment-request domain model.

PURPOSE:
  This package contains the Invoice record, its construction and
  validation rules, and the one-way status transition from pending to
  paid. Whether an invoice travels through local storage, a share link,
  or the HTTP API, this package defines the single canonical shape and
  the rules for trusting it.

KEY CONCEPTS IN THIS FILE (invoice.go):
  - Invoice: An immutable payment request (replaced wholesale on change)
  - PriceSnapshot: BTC/USD rate captured at creation time
  - Draft: Unvalidated user input for a new invoice
  - Factory: Injects the clock and id source into creation

DESIGN PRINCIPLES:
  1. Immutability: Invoices are never mutated, only replaced
  2. Precision: Uses decimal.Decimal to avoid floating-point errors
  3. Snapshot pricing: AmountUSD is derived once and never recomputed
  4. Total decoding: untrusted input passes the shape guard or vanishes

USAGE:
  factory := invoice.NewFactory()
  inv, err := factory.Create(draft, price)

SEE ALSO:
  - validation.go: Address and amount syntax rules
  - guard.go: Structural trust boundary for decoded JSON
  - sharelink/: URL-safe token codec built on this model
*/
package invoice

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// INVOICE - Payment request record
// =============================================================================

// Status is the lifecycle state of an invoice.
// The only transition current logic performs is pending -> paid.
// StatusExpired is reserved: the guard accepts it, nothing produces it.
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusExpired Status = "expired"
)

// Valid reports whether s is one of the enumerated statuses.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusPaid || s == StatusExpired
}

// Invoice is a payment request. The JSON field names are the wire
// contract shared by the persisted store and the share token; they must
// not change without an out-of-band migration.
type Invoice struct {
	ID               string `json:"id"`
	RecipientAddress string `json:"recipientAddress"`
	AmountBTC        string `json:"amountBtc"`
	AmountUSD        string `json:"amountUsd"`
	Description      string `json:"description"`
	CreatedAt        int64  `json:"createdAt"`
	Status           Status `json:"status"`
}

// MarkPaid returns a copy of the invoice with status paid.
// Idempotent: marking an already-paid invoice returns it unchanged,
// and AmountUSD is never re-derived.
func (inv Invoice) MarkPaid() Invoice {
	if inv.Status == StatusPaid {
		return inv
	}
	paid := inv
	paid.Status = StatusPaid
	return paid
}

// Amount returns the requested amount as a decimal.
// AmountBTC is canonical by construction, so this cannot fail for
// invoices built by this package; a zero decimal is returned otherwise.
func (inv Invoice) Amount() decimal.Decimal {
	d, err := decimal.NewFromString(inv.AmountBTC)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// PaymentURI renders the BIP-21 style payment URI for the invoice.
// Purely a projection; no validation is re-run.
func (inv Invoice) PaymentURI() string {
	address := strings.TrimSpace(inv.RecipientAddress)
	amount := strings.TrimSpace(inv.AmountBTC)
	return "bitcoin:" + address + "?amount=" + url.QueryEscape(amount)
}

// =============================================================================
// PRICE SNAPSHOT
// =============================================================================

// PriceSnapshot is the BTC/USD rate at a point in time. It is injected
// into invoice creation and copied into AmountUSD; it is not part of
// invoice identity and is never refreshed retroactively.
type PriceSnapshot struct {
	USD         decimal.Decimal
	LastUpdated time.Time
}

// =============================================================================
// DRAFT + FACTORY
// =============================================================================

// Draft is unvalidated user input for a new invoice.
type Draft struct {
	RecipientAddress string
	AmountBTC        string
	Description      string
}

// Validate applies address and amount validation in order and returns
// the first failure. The draft is not mutated.
func (d Draft) Validate() (decimal.Decimal, error) {
	if !IsValidAddress(d.RecipientAddress) {
		return decimal.Zero, &ValidationError{
			Field:   "recipientAddress",
			Message: "Enter a valid BTC address (legacy or bc1).",
		}
	}

	amount, err := ParseAmount(d.AmountBTC)
	if err != nil {
		return decimal.Zero, &ValidationError{
			Field:   "amountBtc",
			Message: "Enter a valid BTC amount (up to 8 decimals).",
		}
	}

	return amount, nil
}

// Factory creates invoices. The id source and clock are injected so
// callers (and tests) control identity and time.
type Factory struct {
	NewID func() string
	Now   func() time.Time
}

// NewFactory returns a factory backed by UUIDv4 ids and the wall clock.
func NewFactory() *Factory {
	return &Factory{
		NewID: uuid.NewString,
		Now:   time.Now,
	}
}

// Create validates the draft and builds a pending invoice. AmountUSD is
// computed once from the snapshot rate, fixed to two decimals. AmountBTC
// is stored in canonical form. The new invoice is returned; persisting
// it is the caller's responsibility.
func (f *Factory) Create(draft Draft, price PriceSnapshot) (Invoice, error) {
	amount, err := draft.Validate()
	if err != nil {
		return Invoice{}, err
	}

	return Invoice{
		ID:               f.NewID(),
		RecipientAddress: strings.TrimSpace(draft.RecipientAddress),
		AmountBTC:        FormatAmount(amount),
		AmountUSD:        amount.Mul(price.USD).StringFixed(2),
		Description:      strings.TrimSpace(draft.Description),
		CreatedAt:        f.Now().UnixMilli(),
		Status:           StatusPending,
	}, nil
}
