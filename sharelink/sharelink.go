/*
Package sharelink turns an invoice into a URL-safe token and back.

PURPOSE:
  A share link carries a complete invoice statelessly: the sender
  encodes, the receiver decodes, and no server-side lookup is needed.
  Encoding is canonical JSON -> base64 -> URL-safe alphabet with the
  padding stripped. Decoding is the exact inverse and is total: any
  malformed input (base64, UTF-8, JSON, or shape) yields "no result",
  never an error the caller must distinguish.

INVARIANTS:
  - The byte transform is UTF-8 safe; non-ASCII descriptions survive
    the round trip intact.
  - Decode(Encode(inv)) == inv for every structurally valid invoice.
  - Tokens travel in a URL fragment as "#/pay?data=<token>".

SEE ALSO:
  - invoice/guard.go: the shape check every decoded token passes
*/
package sharelink

import (
	"encoding/base64"
	"encoding/json"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/aliveevie/invoice-flow-btc/invoice"
)

// PayPath is the fragment path a share link routes to.
const PayPath = "/pay"

// Encode serializes the invoice into a URL-safe share token: canonical
// JSON bytes, standard base64, then + -> -, / -> _ with padding removed.
func Encode(inv invoice.Invoice) string {
	raw, _ := json.Marshal(inv)
	encoded := base64.StdEncoding.EncodeToString(raw)
	encoded = strings.ReplaceAll(encoded, "+", "-")
	encoded = strings.ReplaceAll(encoded, "/", "_")
	return strings.TrimRight(encoded, "=")
}

// Decode reverses Encode. Total: any token that does not decode to a
// structurally valid invoice yields (zero, false).
func Decode(token string) (invoice.Invoice, bool) {
	restored := strings.ReplaceAll(token, "-", "+")
	restored = strings.ReplaceAll(restored, "_", "/")
	if pad := len(restored) % 4; pad != 0 {
		restored += strings.Repeat("=", 4-pad)
	}

	raw, err := base64.StdEncoding.DecodeString(restored)
	if err != nil {
		return invoice.Invoice{}, false
	}
	if !utf8.Valid(raw) {
		return invoice.Invoice{}, false
	}

	return invoice.Coerce(raw)
}

// BuildPayPath returns the in-app path carrying a token.
func BuildPayPath(token string) string {
	return PayPath + "?data=" + token
}

// BuildShareLink returns the full shareable URL for a token, rooted at
// the given origin (e.g. "https://pay.example.com").
func BuildShareLink(origin, token string) string {
	return origin + "/#" + BuildPayPath(token)
}

// ExtractToken pulls the share token out of a URL fragment. The
// fragment must start with "#", its path portion (before the first "?")
// must equal PayPath, and the "data" query parameter must be present.
// Any deviation yields (zero, false), never an error.
func ExtractToken(fragment string) (string, bool) {
	if !strings.HasPrefix(fragment, "#") {
		return "", false
	}
	normalized := fragment[1:]

	queryIndex := strings.Index(normalized, "?")
	if queryIndex == -1 {
		return "", false
	}
	if normalized[:queryIndex] != PayPath {
		return "", false
	}

	params, err := url.ParseQuery(normalized[queryIndex+1:])
	if err != nil {
		return "", false
	}

	token := params.Get("data")
	if token == "" {
		return "", false
	}
	return token, true
}
