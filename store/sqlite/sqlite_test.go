package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliveevie/invoice-flow-btc/invoice"
	"github.com/aliveevie/invoice-flow-btc/store"
	"github.com/aliveevie/invoice-flow-btc/store/sqlite"
)

func newTestMedium(t *testing.T) *sqlite.Medium {
	medium, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { medium.Close() })
	return medium
}

func TestMedium_AbsentSlot(t *testing.T) {
	medium := newTestMedium(t)

	raw, err := medium.Read(context.Background())
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestMedium_WriteReadDelete(t *testing.T) {
	medium := newTestMedium(t)
	ctx := context.Background()

	require.NoError(t, medium.Write(ctx, []byte(`["a"]`)))
	raw, err := medium.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte(`["a"]`), raw)

	// Overwrite replaces the slot wholesale.
	require.NoError(t, medium.Write(ctx, []byte(`["b"]`)))
	raw, err = medium.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte(`["b"]`), raw)

	require.NoError(t, medium.Delete(ctx))
	raw, err = medium.Read(ctx)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestMedium_GatewayIntegration(t *testing.T) {
	// The gateway's corruption policy applies to a damaged row too.
	medium := newTestMedium(t)
	ctx := context.Background()
	gateway := store.NewGateway(medium, nil)

	inv := invoice.Invoice{
		ID:               "inv-1",
		RecipientAddress: "1BoatSLRHtKNngkdXEeobR76b53LETtpyT",
		AmountBTC:        "0.0015",
		AmountUSD:        "135.00",
		Description:      "",
		CreatedAt:        1,
		Status:           invoice.StatusPending,
	}
	require.NoError(t, gateway.Add(ctx, inv))

	loaded := gateway.Load(ctx)
	require.Len(t, loaded, 1)
	assert.Equal(t, inv, loaded[0])

	require.NoError(t, medium.Write(ctx, []byte(`corrupt`)))
	assert.Empty(t, gateway.Load(ctx))
}
