/*
validation.go - Address and amount syntax rules

PURPOSE:
  Pure functions that gate invoice construction. The address check is a
  heuristic syntactic filter, not a checksum verification: it may accept
  a string that is not a spendable address, but it must never reject a
  well-formed one.

RULES:
  Address:
    - trimmed input, length in [14, 90]
    - "bc1" prefix: lowercase alphanumeric only
    - "1" or "3" prefix: length in [26, 35], base58 charset
      (alphanumeric excluding 0, O, I, l)
    - anything else: invalid
  Amount:
    - digits, optional dot, 1-8 fractional digits; nothing else
    - strictly positive, at most the 21,000,000 supply cap

SEE ALSO:
  - invoice.go: Draft.Validate wires these into construction
*/
package invoice

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxSupply is the total BTC supply cap; amounts above it are rejected.
var MaxSupply = decimal.NewFromInt(21_000_000)

var (
	segwitCharset = regexp.MustCompile(`^[a-z0-9]+$`)
	base58Charset = regexp.MustCompile(`^[123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz]+$`)
	amountPattern = regexp.MustCompile(`^\d+(\.\d{1,8})?$`)
)

// IsValidAddress reports whether address looks like a BTC address.
// Heuristic only: false positives are acceptable, false negatives on
// well-formed addresses are not.
func IsValidAddress(address string) bool {
	trimmed := strings.TrimSpace(address)
	if len(trimmed) < 14 || len(trimmed) > 90 {
		return false
	}

	if strings.HasPrefix(trimmed, "bc1") {
		return segwitCharset.MatchString(trimmed)
	}

	// Base58 legacy (P2PKH/P2SH) heuristics.
	if strings.HasPrefix(trimmed, "1") || strings.HasPrefix(trimmed, "3") {
		if len(trimmed) < 26 || len(trimmed) > 35 {
			return false
		}
		return base58Charset.MatchString(trimmed)
	}

	return false
}

// ParseAmount parses a BTC amount string. It accepts only plain decimal
// notation with up to 8 fractional digits: no sign, no exponent, no
// whitespace beyond a surrounding trim. The value must be positive and
// at most MaxSupply.
func ParseAmount(value string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(value)
	if !amountPattern.MatchString(trimmed) {
		return decimal.Zero, ErrInvalidAmount
	}

	parsed, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !parsed.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	if parsed.GreaterThan(MaxSupply) {
		return decimal.Zero, ErrAmountExceedsSupply
	}

	return parsed, nil
}

// FormatAmount renders an amount to its canonical display form: fixed
// to 8 fractional digits, then trailing zeros and a dangling decimal
// point stripped. FormatAmount(ParseAmount(s)) is idempotent.
func FormatAmount(value decimal.Decimal) string {
	fixed := value.StringFixed(8)
	fixed = strings.TrimRight(fixed, "0")
	return strings.TrimSuffix(fixed, ".")
}
