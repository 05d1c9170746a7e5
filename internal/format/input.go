package format

import (
	"strings"

	"github.com/shopspring/decimal"
)

// NormalizeCurrencyInput rewrites a numeric field value with exactly two decimals,
// the way the value input is fixed up when it loses focus. Input that does not
// parse as a number is returned untouched and changed is false.
func NormalizeCurrencyInput(raw string) (normalized string, changed bool) {
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return raw, false
	}
	out := v.StringFixed(2)
	return out, out != raw
}
