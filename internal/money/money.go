// Package money handles amounts in Brazilian reais stored as integer cents.
package money

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Cents is an amount in centavos.
type Cents int64

var ErrInvalidAmount = errors.New("invalid amount")

var hundred = decimal.NewFromInt(100)

// Parse reads a user-typed amount into cents. Both "1.234,56" and "1234.56"
// are accepted, with or without an "R$" prefix.
//
// Format examples: "10,00" -> 1000, "R$ 1.234,56" -> 123456, "-588,74" -> -58874.
func Parse(s string) (Cents, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "R$")
	clean = strings.ReplaceAll(clean, " ", "")
	clean = strings.ReplaceAll(clean, "\u00a0", "")

	if strings.Contains(clean, ",") {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	}

	if clean == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	return Cents(d.Mul(hundred).Round(0).IntPart()), nil
}

// FromDecimal converts a decimal amount in reais to cents, rounding half away
// from zero.
func FromDecimal(d decimal.Decimal) Cents {
	return Cents(d.Mul(hundred).Round(0).IntPart())
}

// Decimal returns c as a decimal amount in reais.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// Mul multiplies c by an integer quantity.
func (c Cents) Mul(qty int) Cents {
	return c * Cents(qty)
}

// String formats c the way receipts show it: "R$ 1.234,56".
func (c Cents) String() string {
	if c < 0 {
		return "-R$ " + Plain(-c)
	}

	return "R$ " + Plain(c)
}

// Plain formats c without the currency symbol: "1.234,56".
func Plain(c Cents) string {
	neg := c < 0
	if neg {
		c = -c
	}

	units := strconv.FormatInt(int64(c)/100, 10)
	frac := int64(c) % 100

	var sb strings.Builder

	if neg {
		sb.WriteByte('-')
	}

	for i, r := range units {
		if i > 0 && (len(units)-i)%3 == 0 {
			sb.WriteByte('.')
		}

		sb.WriteRune(r)
	}

	fmt.Fprintf(&sb, ",%02d", frac)

	return sb.String()
}
