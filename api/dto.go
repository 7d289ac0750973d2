/*
dto.go - Request/response types for the invoice API

PURPOSE:
  The invoice itself crosses the wire in its canonical JSON shape (the
  same shape the share token and the store use), so handlers return
  invoice.Invoice directly. The types here cover everything around it.

NAMING CONVENTION:
  - *Request: Request body types from clients
  - *DTO: Response types returned to clients
*/
package api

import "github.com/aliveevie/invoice-flow-btc/invoice"

// CreateInvoiceRequest is the request to create an invoice. Field names
// match the invoice wire shape the frontend already speaks.
type CreateInvoiceRequest struct {
	RecipientAddress string `json:"recipientAddress"`
	AmountBTC        string `json:"amountBtc"`
	Description      string `json:"description"`
}

// ShareLinkDTO is the share projection of an invoice.
type ShareLinkDTO struct {
	Token     string `json:"token"`
	PayPath   string `json:"payPath"`
	ShareLink string `json:"shareLink,omitempty"`
}

// PriceDTO is the current price snapshot.
type PriceDTO struct {
	USD         float64 `json:"usd"`
	LastUpdated int64   `json:"lastUpdated"`
}

// CheckResultDTO is the outcome of a settlement check.
type CheckResultDTO struct {
	Invoice invoice.Invoice `json:"invoice"`
	Settled bool            `json:"settled"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Details any    `json:"details,omitempty"`
}
