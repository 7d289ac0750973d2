/*
handlers.go - HTTP handlers for the invoice API

PURPOSE:
  Exposes the invoice domain over REST. Handles HTTP request/response
  and JSON serialization, and delegates everything else to the domain
  packages.

ENDPOINTS:
  GET    /api/invoices            List invoice history (newest first)
  POST   /api/invoices            Create an invoice from a draft
  DELETE /api/invoices            Clear the whole history
  GET    /api/invoices/{id}       Get a single invoice
  POST   /api/invoices/{id}/check Check settlement against live balance
  GET    /api/invoices/{id}/share Share token / link projection
  GET    /api/invoices/{id}/qr    Payment URI as a PNG QR code
  GET    /api/pay?data=<token>    Decode a share token
  GET    /api/price               Current BTC/USD snapshot

ERROR HANDLING:
  - 400: Validation errors, invalid input
  - 404: Unknown invoice id, undecodable share token
  - 502: Price providers exhausted
  - 500: Store write failures

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aliveevie/invoice-flow-btc/invoice"
	"github.com/aliveevie/invoice-flow-btc/provider"
	"github.com/aliveevie/invoice-flow-btc/qrcode"
	"github.com/aliveevie/invoice-flow-btc/reconcile"
	"github.com/aliveevie/invoice-flow-btc/sharelink"
	"github.com/aliveevie/invoice-flow-btc/store"
)

// priceCacheTTL is how long a fetched price snapshot is served before
// the provider chain is consulted again.
const priceCacheTTL = time.Minute

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store      *store.Gateway
	Prices     provider.PriceSource
	Reconciler *reconcile.Reconciler
	Factory    *invoice.Factory
	Logger     *slog.Logger

	priceMu    sync.Mutex
	lastPrice  invoice.PriceSnapshot
	priceFresh bool
}

// NewHandler creates a handler with the given collaborators.
func NewHandler(gateway *store.Gateway, prices provider.PriceSource, reconciler *reconcile.Reconciler, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Store:      gateway,
		Prices:     prices,
		Reconciler: reconciler,
		Factory:    invoice.NewFactory(),
		Logger:     logger,
	}
}

// currentPrice returns a cached snapshot when fresh, otherwise asks the
// provider chain.
func (h *Handler) currentPrice(r *http.Request) (invoice.PriceSnapshot, error) {
	h.priceMu.Lock()
	defer h.priceMu.Unlock()

	if h.priceFresh && time.Since(h.lastPrice.LastUpdated) < priceCacheTTL {
		return h.lastPrice, nil
	}

	snapshot, err := h.Prices.FetchPrice(r.Context())
	if err != nil {
		return invoice.PriceSnapshot{}, err
	}
	h.lastPrice = snapshot
	h.priceFresh = true
	return snapshot, nil
}

// =============================================================================
// INVOICE HANDLERS
// =============================================================================

// ListInvoices returns the invoice history, newest first.
func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Load(r.Context()))
}

// CreateInvoice validates a draft, snapshots the current price, and
// persists the new invoice.
func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req CreateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	price, err := h.currentPrice(r)
	if err != nil {
		writeError(w, http.StatusBadGateway, "Price providers unavailable", err)
		return
	}

	draft := invoice.Draft{
		RecipientAddress: req.RecipientAddress,
		AmountBTC:        req.AmountBTC,
		Description:      req.Description,
	}
	inv, err := h.Factory.Create(draft, price)
	if err != nil {
		var verr *invoice.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: verr.Message, Field: verr.Field})
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid invoice draft", err)
		return
	}

	if err := h.Store.Add(r.Context(), inv); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save invoice", err)
		return
	}

	writeJSON(w, http.StatusCreated, inv)
}

// GetInvoice returns a single invoice by id.
func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Invoice not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// ClearInvoices removes the whole history.
func (h *Handler) ClearInvoices(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Clear(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to clear invoices", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CheckInvoice runs a settlement check against the live balance.
func (h *Handler) CheckInvoice(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Invoice not found", nil)
		return
	}

	updated, err := h.Reconciler.Check(r.Context(), inv)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to persist settlement", err)
		return
	}

	writeJSON(w, http.StatusOK, CheckResultDTO{
		Invoice: updated,
		Settled: updated.Status == invoice.StatusPaid,
	})
}

// =============================================================================
// SHARE HANDLERS
// =============================================================================

// ShareInvoice returns the share token for an invoice, plus the full
// link when an origin is supplied (?origin=https://host).
func (h *Handler) ShareInvoice(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Invoice not found", nil)
		return
	}

	token := sharelink.Encode(inv)
	dto := ShareLinkDTO{
		Token:   token,
		PayPath: sharelink.BuildPayPath(token),
	}
	if origin := r.URL.Query().Get("origin"); origin != "" {
		dto.ShareLink = sharelink.BuildShareLink(origin, token)
	}
	writeJSON(w, http.StatusOK, dto)
}

// DecodePayToken decodes a share token into an invoice. An undecodable
// token is a 404, never a 500: corrupt shared data is treated as if it
// never existed.
func (h *Handler) DecodePayToken(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("data")
	if token == "" {
		writeError(w, http.StatusBadRequest, "Missing data parameter", nil)
		return
	}

	inv, ok := sharelink.Decode(token)
	if !ok {
		writeError(w, http.StatusNotFound, "Share token does not decode to an invoice", nil)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// InvoiceQR renders the invoice's payment URI as a PNG QR code.
func (h *Handler) InvoiceQR(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Invoice not found", nil)
		return
	}

	size := qrcode.DefaultSize
	if raw := r.URL.Query().Get("size"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			size = parsed
		}
	}

	img, err := qrcode.PNG(inv.PaymentURI(), size)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render QR code", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(img)
}

// =============================================================================
// PRICE HANDLER
// =============================================================================

// GetPrice returns the current BTC/USD snapshot.
func (h *Handler) GetPrice(w http.ResponseWriter, r *http.Request) {
	price, err := h.currentPrice(r)
	if err != nil {
		writeError(w, http.StatusBadGateway, "Price providers unavailable", err)
		return
	}

	usd, _ := price.USD.Float64()
	writeJSON(w, http.StatusOK, PriceDTO{
		USD:         usd,
		LastUpdated: price.LastUpdated.UnixMilli(),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
