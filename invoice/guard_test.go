package invoice_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliveevie/invoice-flow-btc/invoice"
)

func wellFormedJSON() map[string]any {
	return map[string]any{
		"id":               "inv-1",
		"recipientAddress": "1BoatSLRHtKNngkdXEeobR76b53LETtpyT",
		"amountBtc":        "0.0015",
		"amountUsd":        "135.00",
		"description":      "Design work",
		"createdAt":        int64(1700000000000),
		"status":           "pending",
	}
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

// =============================================================================
// SHAPE GUARD SOUNDNESS
// =============================================================================

func TestCoerce_AcceptsExactSchema(t *testing.T) {
	inv, ok := invoice.Coerce(mustMarshal(t, wellFormedJSON()))
	require.True(t, ok)

	assert.Equal(t, "inv-1", inv.ID)
	assert.Equal(t, "0.0015", inv.AmountBTC)
	assert.Equal(t, int64(1700000000000), inv.CreatedAt)
	assert.Equal(t, invoice.StatusPending, inv.Status)
}

func TestCoerce_RejectsAnyMissingField(t *testing.T) {
	// GIVEN: a well-formed object
	// WHEN: any single required field is removed
	// THEN: the guard rejects; it never defaults the hole

	for field := range wellFormedJSON() {
		obj := wellFormedJSON()
		delete(obj, field)

		_, ok := invoice.Coerce(mustMarshal(t, obj))
		assert.False(t, ok, "missing %q should be rejected", field)
	}
}

func TestCoerce_RejectsWrongTypedFields(t *testing.T) {
	tests := []struct {
		field string
		value any
	}{
		{"id", 42},
		{"recipientAddress", true},
		{"amountBtc", 0.0015},
		{"amountUsd", 135},
		{"description", nil},
		{"createdAt", "1700000000000"},
		{"status", 1},
	}

	for _, tc := range tests {
		obj := wellFormedJSON()
		obj[tc.field] = tc.value

		_, ok := invoice.Coerce(mustMarshal(t, obj))
		assert.False(t, ok, "wrong-typed %q should be rejected", tc.field)
	}
}

func TestCoerce_StatusEnum(t *testing.T) {
	for _, status := range []string{"pending", "paid", "expired"} {
		obj := wellFormedJSON()
		obj["status"] = status
		_, ok := invoice.Coerce(mustMarshal(t, obj))
		assert.True(t, ok, status)
	}

	obj := wellFormedJSON()
	obj["status"] = "bogus"
	_, ok := invoice.Coerce(mustMarshal(t, obj))
	assert.False(t, ok)
}

func TestCoerce_RejectsNonObjects(t *testing.T) {
	for _, raw := range []string{`null`, `[]`, `"invoice"`, `42`, `not json at all`, ``} {
		_, ok := invoice.Coerce([]byte(raw))
		assert.False(t, ok, raw)
	}
}

func TestCoerce_ToleratesUnknownFields(t *testing.T) {
	// Extra fields are ignored, matching the stored-blob forward
	// tolerance: only the known schema is checked.
	obj := wellFormedJSON()
	obj["somethingNew"] = "ignored"

	inv, ok := invoice.Coerce(mustMarshal(t, obj))
	require.True(t, ok)
	assert.Equal(t, "inv-1", inv.ID)
}
