package provider

import (
	"context"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultBalanceTimeout bounds a single balance request. Balance
// lookups tolerate a slower provider than price lookups.
const DefaultBalanceTimeout = 15 * time.Second

// BalanceSource fetches the observed on-chain balance for an address,
// denominated in BTC. A failed lookup is an ordinary error; callers
// treat it as "not settled", never as fatal.
type BalanceSource interface {
	FetchBalance(ctx context.Context, address string) (decimal.Decimal, error)
}

// =============================================================================
// BLOCKCHAIR - Address balance provider
// =============================================================================

// Blockchair reads the confirmed balance from the Blockchair address
// dashboard endpoint.
type Blockchair struct {
	BaseURL string
	Client  *http.Client
}

func NewBlockchair() *Blockchair {
	return &Blockchair{
		BaseURL: "https://api.blockchair.com",
		Client:  &http.Client{Timeout: DefaultBalanceTimeout},
	}
}

func (p *Blockchair) FetchBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	var payload struct {
		Data map[string]struct {
			Address struct {
				Balance int64 `json:"balance"`
			} `json:"address"`
		} `json:"data"`
	}
	url := p.BaseURL + "/bitcoin/dashboards/address/" + address
	if err := getJSON(ctx, p.Client, url, &payload); err != nil {
		return decimal.Zero, err
	}

	// An unknown address comes back with a zero balance, not an error.
	entry := payload.Data[address]
	return decimal.New(entry.Address.Balance, -8), nil
}
