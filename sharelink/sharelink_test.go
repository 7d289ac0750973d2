package sharelink_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliveevie/invoice-flow-btc/invoice"
	"github.com/aliveevie/invoice-flow-btc/sharelink"
)

func sampleInvoice() invoice.Invoice {
	return invoice.Invoice{
		ID:               "inv-1",
		RecipientAddress: "1BoatSLRHtKNngkdXEeobR76b53LETtpyT",
		AmountBTC:        "0.0015",
		AmountUSD:        "135.00",
		Description:      "Design work",
		CreatedAt:        1700000000000,
		Status:           invoice.StatusPending,
	}
}

// =============================================================================
// ROUND TRIP
// =============================================================================

func TestEncodeDecode_RoundTrip(t *testing.T) {
	// GIVEN: a valid invoice
	// THEN: decode(encode(v)) equals v field-for-field

	original := sampleInvoice()
	token := sharelink.Encode(original)

	decoded, ok := sharelink.Decode(token)
	require.True(t, ok)
	assert.Equal(t, original, decoded)
}

func TestEncodeDecode_RoundTrip_NonASCII(t *testing.T) {
	// A naive character-code encoding corrupts multi-byte text; the
	// byte-safe transform must not.
	original := sampleInvoice()
	original.Description = "Дизайн 北京 façade ✓ ?&=#"

	token := sharelink.Encode(original)
	decoded, ok := sharelink.Decode(token)
	require.True(t, ok)
	assert.Equal(t, original.Description, decoded.Description)
}

func TestEncode_URLSafeAlphabet(t *testing.T) {
	token := sharelink.Encode(sampleInvoice())

	assert.NotContains(t, token, "+")
	assert.NotContains(t, token, "/")
	assert.NotContains(t, token, "=")
}

// =============================================================================
// DECODE TOTALITY
// =============================================================================

func TestDecode_MalformedInputsYieldNoResult(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"not base64", "!!!!"},
		{"base64 of non-json", "bm90IGpzb24"},                 // "not json"
		{"base64 of wrong shape", "eyJpZCI6ICJpbnYtMSJ9"},     // {"id": "inv-1"}
		{"base64 of a json array", "WyJpbnYtMSJd"},            // ["inv-1"]
		{"invalid utf-8 payload", "_w"},                       // 0xff
		{"truncated token", sharelink.Encode(sampleInvoice())[:10]},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := sharelink.Decode(tc.token)
			assert.False(t, ok)
		})
	}
}

func TestDecode_BogusStatusRejectedByGuard(t *testing.T) {
	inv := sampleInvoice()
	inv.Status = invoice.Status("bogus")

	_, ok := sharelink.Decode(sharelink.Encode(inv))
	assert.False(t, ok)
}

func TestDecode_AcceptsStandardBase64Variant(t *testing.T) {
	// Tokens produced by an encoder that kept + / = must still decode:
	// the substitution is reversed and padding restored before decoding.
	token := sharelink.Encode(sampleInvoice())
	padded := token
	if pad := len(padded) % 4; pad != 0 {
		padded += strings.Repeat("=", 4-pad)
	}

	decoded, ok := sharelink.Decode(padded)
	require.True(t, ok)
	assert.Equal(t, sampleInvoice(), decoded)
}

// =============================================================================
// LINK CONSTRUCTION AND EXTRACTION
// =============================================================================

func TestBuildPayPathAndShareLink(t *testing.T) {
	assert.Equal(t, "/pay?data=abc", sharelink.BuildPayPath("abc"))
	assert.Equal(t, "https://pay.example.com/#/pay?data=abc",
		sharelink.BuildShareLink("https://pay.example.com", "abc"))
}

func TestExtractToken_Inverse(t *testing.T) {
	token := sharelink.Encode(sampleInvoice())
	link := sharelink.BuildShareLink("https://pay.example.com", token)

	fragment := link[strings.Index(link, "#"):]
	extracted, ok := sharelink.ExtractToken(fragment)
	require.True(t, ok)
	assert.Equal(t, token, extracted)
}

func TestExtractToken_Deviations(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
	}{
		{"no leading hash", "/pay?data=abc"},
		{"no query", "#/pay"},
		{"wrong path", "#/checkout?data=abc"},
		{"path prefix only", "#/payments?data=abc"},
		{"missing data param", "#/pay?other=abc"},
		{"empty data param", "#/pay?data="},
		{"empty fragment", "#"},
		{"empty string", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := sharelink.ExtractToken(tc.fragment)
			assert.False(t, ok)
		})
	}
}

func TestExtractToken_ExtraParamsTolerated(t *testing.T) {
	extracted, ok := sharelink.ExtractToken("#/pay?utm=x&data=abc")
	require.True(t, ok)
	assert.Equal(t, "abc", extracted)
}
