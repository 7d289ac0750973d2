package store_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliveevie/invoice-flow-btc/invoice"
	"github.com/aliveevie/invoice-flow-btc/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestGateway() (*store.Gateway, *store.Memory) {
	medium := store.NewMemory()
	return store.NewGateway(medium, nil), medium
}

func testInvoice(id string, createdAt int64) invoice.Invoice {
	return invoice.Invoice{
		ID:               id,
		RecipientAddress: "1BoatSLRHtKNngkdXEeobR76b53LETtpyT",
		AmountBTC:        "0.0015",
		AmountUSD:        "135.00",
		Description:      "Design work",
		CreatedAt:        createdAt,
		Status:           invoice.StatusPending,
	}
}

// =============================================================================
// RESILIENCE
// =============================================================================

func TestGateway_Load_EmptyWhenAbsent(t *testing.T) {
	gateway, _ := newTestGateway()
	assert.Empty(t, gateway.Load(context.Background()))
}

func TestGateway_Load_DropsMalformedEntries(t *testing.T) {
	// GIVEN: a store with one well-formed and one malformed entry
	// THEN: loading returns exactly the well-formed one

	gateway, medium := newTestGateway()

	good := testInvoice("inv-good", 1)
	goodRaw, err := json.Marshal(good)
	require.NoError(t, err)

	bad := map[string]any{
		"id":               "inv-bad",
		"recipientAddress": "1BoatSLRHtKNngkdXEeobR76b53LETtpyT",
		"amountBtc":        "0.0015",
		"amountUsd":        "135.00",
		"description":      "",
		"createdAt":        2,
		"status":           "bogus",
	}
	badRaw, err := json.Marshal(bad)
	require.NoError(t, err)

	medium.Seed([]byte(`[` + string(goodRaw) + `,` + string(badRaw) + `]`))

	loaded := gateway.Load(context.Background())
	require.Len(t, loaded, 1)
	assert.Equal(t, good, loaded[0])
}

func TestGateway_Load_NonArrayContent(t *testing.T) {
	for _, blob := range []string{`{}`, `"invoices"`, `42`, `null`, `garbage`} {
		gateway, medium := newTestGateway()
		medium.Seed([]byte(blob))

		loaded := gateway.Load(context.Background())
		assert.Empty(t, loaded, blob)
		assert.NotNil(t, loaded, blob)
	}
}

// =============================================================================
// ORDERING
// =============================================================================

func TestGateway_Load_NewestFirst(t *testing.T) {
	// Order is a load-time contract regardless of save order.
	gateway, _ := newTestGateway()
	ctx := context.Background()

	older := testInvoice("inv-old", 100)
	newer := testInvoice("inv-new", 200)
	require.NoError(t, gateway.Save(ctx, []invoice.Invoice{older, newer}))

	loaded := gateway.Load(ctx)
	require.Len(t, loaded, 2)
	assert.Equal(t, "inv-new", loaded[0].ID)
	assert.Equal(t, "inv-old", loaded[1].ID)
}

// =============================================================================
// MUTATIONS
// =============================================================================

func TestGateway_SaveLoadRoundTrip(t *testing.T) {
	gateway, _ := newTestGateway()
	ctx := context.Background()

	invoices := []invoice.Invoice{testInvoice("inv-1", 2), testInvoice("inv-2", 1)}
	require.NoError(t, gateway.Save(ctx, invoices))
	assert.Equal(t, invoices, gateway.Load(ctx))
}

func TestGateway_Add_Prepends(t *testing.T) {
	gateway, _ := newTestGateway()
	ctx := context.Background()

	require.NoError(t, gateway.Add(ctx, testInvoice("inv-1", 1)))
	require.NoError(t, gateway.Add(ctx, testInvoice("inv-2", 2)))

	loaded := gateway.Load(ctx)
	require.Len(t, loaded, 2)
	assert.Equal(t, "inv-2", loaded[0].ID)
}

func TestGateway_Clear(t *testing.T) {
	gateway, _ := newTestGateway()
	ctx := context.Background()

	require.NoError(t, gateway.Add(ctx, testInvoice("inv-1", 1)))
	require.NoError(t, gateway.Clear(ctx))
	assert.Empty(t, gateway.Load(ctx))
}

func TestGateway_ReplaceByID(t *testing.T) {
	gateway, _ := newTestGateway()
	ctx := context.Background()

	inv := testInvoice("inv-1", 1)
	require.NoError(t, gateway.Add(ctx, inv))

	require.NoError(t, gateway.ReplaceByID(ctx, inv.MarkPaid()))

	loaded, ok := gateway.Get(ctx, "inv-1")
	require.True(t, ok)
	assert.Equal(t, invoice.StatusPaid, loaded.Status)
}

func TestGateway_ReplaceByID_AbsentIsNoOp(t *testing.T) {
	// The invoice was cleared meanwhile; persistence must be a silent
	// no-op, not an error and not an insert.
	gateway, _ := newTestGateway()
	ctx := context.Background()

	require.NoError(t, gateway.ReplaceByID(ctx, testInvoice("inv-gone", 1).MarkPaid()))
	assert.Empty(t, gateway.Load(ctx))
}

// =============================================================================
// FILE MEDIUM
// =============================================================================

func TestFileMedium_RoundTrip(t *testing.T) {
	ctx := context.Background()
	medium := store.NewFile(t.TempDir() + "/nested/invoices.json")

	// Absent file reads as absent, not as an error.
	raw, err := medium.Read(ctx)
	require.NoError(t, err)
	assert.Nil(t, raw)

	require.NoError(t, medium.Write(ctx, []byte(`[1]`)))
	raw, err = medium.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte(`[1]`), raw)

	require.NoError(t, medium.Delete(ctx))
	raw, err = medium.Read(ctx)
	require.NoError(t, err)
	assert.Nil(t, raw)

	// Deleting an already-absent slot is fine.
	require.NoError(t, medium.Delete(ctx))
}

func TestFileMedium_GatewayIntegration(t *testing.T) {
	ctx := context.Background()
	gateway := store.NewGateway(store.NewFile(t.TempDir()+"/invoices.json"), nil)

	inv := testInvoice("inv-1", 1)
	require.NoError(t, gateway.Add(ctx, inv))

	loaded := gateway.Load(ctx)
	require.Len(t, loaded, 1)
	assert.Equal(t, inv, loaded[0])
}
