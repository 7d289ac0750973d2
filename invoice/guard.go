/*
guard.go - Structural trust boundary for untrusted JSON

PURPOSE:
  A share token and a storage blob both arrive as untrusted bytes. The
  shape guard is the only path from those bytes into an Invoice value:
  every field must be present with the exact JSON primitive type, and
  status must be one of the enumerated values. The guard never coerces
  or defaults missing fields; a partially-shaped object is rejected.

DESIGN:
  Decoding goes through a shadow struct of pointer fields. A wrong-typed
  field fails json.Unmarshal, a missing field leaves a nil pointer, and
  both collapse into the same "no result" outcome.
*/
package invoice

import "encoding/json"

type invoiceShadow struct {
	ID               *string `json:"id"`
	RecipientAddress *string `json:"recipientAddress"`
	AmountBTC        *string `json:"amountBtc"`
	AmountUSD        *string `json:"amountUsd"`
	Description      *string `json:"description"`
	CreatedAt        *int64  `json:"createdAt"`
	Status           *string `json:"status"`
}

func (s invoiceShadow) complete() bool {
	return s.ID != nil &&
		s.RecipientAddress != nil &&
		s.AmountBTC != nil &&
		s.AmountUSD != nil &&
		s.Description != nil &&
		s.CreatedAt != nil &&
		s.Status != nil &&
		Status(*s.Status).Valid()
}

// Coerce accepts raw JSON as an Invoice only if it matches the schema
// exactly. Total: malformed JSON, a non-object value, a missing field,
// a wrong-typed field, or an unknown status all yield (zero, false).
func Coerce(raw []byte) (Invoice, bool) {
	var shadow invoiceShadow
	if err := json.Unmarshal(raw, &shadow); err != nil {
		return Invoice{}, false
	}
	if !shadow.complete() {
		return Invoice{}, false
	}

	return Invoice{
		ID:               *shadow.ID,
		RecipientAddress: *shadow.RecipientAddress,
		AmountBTC:        *shadow.AmountBTC,
		AmountUSD:        *shadow.AmountUSD,
		Description:      *shadow.Description,
		CreatedAt:        *shadow.CreatedAt,
		Status:           Status(*shadow.Status),
	}, true
}
