package sheet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Vendor sheets format prices as "$1,234.50", " 12.5 ", "N/A" or a bare
// dash. Cleaning strips the noise; an empty-ish cell means "no value",
// never zero.

var noValueTokens = map[string]bool{
	"":    true,
	"-":   true,
	"--":  true,
	"n/a": true,
	"na":  true,
	"tbd": true,
}

var currencyReplacer = strings.NewReplacer("$", "", "€", "", "£", "", "¥", "", ",", "", " ", "")

// cleanNumeric strips currency symbols, thousands separators and
// whitespace. The bool reports whether the cell held a value at all.
func cleanNumeric(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if noValueTokens[strings.ToLower(trimmed)] {
		return "", false
	}
	return currencyReplacer.Replace(trimmed), true
}

// ParseMoney parses a currency-formatted cell. A nil result with nil
// error means the cell was empty.
func ParseMoney(raw string) (*decimal.Decimal, error) {
	cleaned, ok := cleanNumeric(raw)
	if !ok {
		return nil, nil
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("invalid numeric value %q", strings.TrimSpace(raw))
	}
	return &d, nil
}

// ParseQuantity parses an integer cell such as a case-pack count. A nil
// result with nil error means the cell was empty.
func ParseQuantity(raw string) (*int, error) {
	cleaned, ok := cleanNumeric(raw)
	if !ok {
		return nil, nil
	}
	// tolerate "12.0" style exports
	if f, err := strconv.ParseFloat(cleaned, 64); err == nil && f == float64(int(f)) {
		n := int(f)
		return &n, nil
	}
	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return nil, fmt.Errorf("invalid quantity %q", strings.TrimSpace(raw))
	}
	return &n, nil
}
