/*
Package provider talks to the external price and balance services.

PURPOSE:
  The core never depends on a concrete HTTP provider; it consumes the
  PriceSource and BalanceSource interfaces defined here. This package
  supplies the production implementations: the blockchain.info ticker
  with a Coinbase spot fallback for price, and Blockchair for address
  balance. All requests carry a bounded timeout and treat non-success
  responses as ordinary failures.

FALLBACK MODEL:
  Price providers form an ordered chain tried in sequence. A definitive
  failure is reported only after every provider is exhausted. Balance
  has no fallback: a failed lookup simply means "no settlement yet" to
  the caller.

SEE ALSO:
  - reconcile/: consumes BalanceSource
  - api/handlers.go: consumes PriceSource
*/
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aliveevie/invoice-flow-btc/invoice"
)

// DefaultPriceTimeout bounds a single price request.
const DefaultPriceTimeout = 10 * time.Second

// ErrAllProvidersFailed is returned by a Chain once every provider in
// sequence has failed.
var ErrAllProvidersFailed = errors.New("could not fetch BTC price from any provider")

// PriceSource fetches the current BTC/USD rate.
type PriceSource interface {
	FetchPrice(ctx context.Context) (invoice.PriceSnapshot, error)
}

// =============================================================================
// BLOCKCHAIN.INFO TICKER - Primary price provider
// =============================================================================

// BlockchainInfo fetches the rate from the blockchain.info ticker
// (public, no key required).
type BlockchainInfo struct {
	BaseURL string
	Client  *http.Client
}

func NewBlockchainInfo() *BlockchainInfo {
	return &BlockchainInfo{
		BaseURL: "https://blockchain.info",
		Client:  &http.Client{Timeout: DefaultPriceTimeout},
	}
}

func (p *BlockchainInfo) FetchPrice(ctx context.Context) (invoice.PriceSnapshot, error) {
	var payload struct {
		USD struct {
			Last float64 `json:"last"`
		} `json:"USD"`
	}
	if err := getJSON(ctx, p.Client, p.BaseURL+"/ticker", &payload); err != nil {
		return invoice.PriceSnapshot{}, err
	}
	if payload.USD.Last <= 0 {
		return invoice.PriceSnapshot{}, errors.New("unexpected ticker format from blockchain.info")
	}

	return invoice.PriceSnapshot{
		USD:         decimal.NewFromFloat(payload.USD.Last),
		LastUpdated: time.Now(),
	}, nil
}

// =============================================================================
// COINBASE SPOT - Fallback price provider
// =============================================================================

// Coinbase fetches the BTC-USD spot rate from the Coinbase public API.
type Coinbase struct {
	BaseURL string
	Client  *http.Client
}

func NewCoinbase() *Coinbase {
	return &Coinbase{
		BaseURL: "https://api.coinbase.com",
		Client:  &http.Client{Timeout: DefaultPriceTimeout},
	}
}

func (p *Coinbase) FetchPrice(ctx context.Context) (invoice.PriceSnapshot, error) {
	var payload struct {
		Data struct {
			Amount string `json:"amount"`
		} `json:"data"`
	}
	if err := getJSON(ctx, p.Client, p.BaseURL+"/v2/prices/BTC-USD/spot", &payload); err != nil {
		return invoice.PriceSnapshot{}, err
	}

	rate, err := decimal.NewFromString(payload.Data.Amount)
	if err != nil || !rate.IsPositive() {
		return invoice.PriceSnapshot{}, errors.New("unexpected ticker format from coinbase")
	}

	return invoice.PriceSnapshot{
		USD:         rate,
		LastUpdated: time.Now(),
	}, nil
}

// =============================================================================
// CHAIN - Ordered fallback over multiple sources
// =============================================================================

// Chain tries each source in order and returns the first success.
type Chain struct {
	Sources []PriceSource
}

// NewChain builds the production chain: blockchain.info, then Coinbase.
func NewChain() *Chain {
	return &Chain{Sources: []PriceSource{NewBlockchainInfo(), NewCoinbase()}}
}

func (c *Chain) FetchPrice(ctx context.Context) (invoice.PriceSnapshot, error) {
	var lastErr error
	for _, source := range c.Sources {
		snapshot, err := source.FetchPrice(ctx)
		if err == nil {
			return snapshot, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		return invoice.PriceSnapshot{}, ErrAllProvidersFailed
	}
	return invoice.PriceSnapshot{}, fmt.Errorf("%w: %w", ErrAllProvidersFailed, lastErr)
}

// =============================================================================
// HELPERS
// =============================================================================

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
