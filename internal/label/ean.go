// Package label builds shelf labels: EAN-13 barcodes, price tiles and the
// A4 sheet they are printed on.
package label

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"strings"
	"unicode"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/ean"
)

// ErrInvalidEAN13 is returned for codes that do not have exactly 12 digits.
var ErrInvalidEAN13 = errors.New("invalid code for EAN-13")

// InvalidCodeText is printed in place of the barcode of an invalid code.
const InvalidCodeText = "Código inválido para EAN-13"

// Normalize strips everything that is not a digit.
func Normalize(code string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			return r
		}

		return -1
	}, code)
}

// ValidEAN13 reports whether code has exactly 12 digits once normalized. The
// 13th digit is always computed, never taken from the input.
func ValidEAN13(code string) bool {
	return len(Normalize(code)) == 12
}

// CheckDigit computes the EAN-13 check digit of a 12-digit code.
func CheckDigit(code string) (int, error) {
	digits := Normalize(code)
	if len(digits) != 12 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidEAN13, code)
	}

	sum := 0

	for i, r := range digits {
		d := int(r - '0')
		if i%2 == 1 {
			d *= 3
		}

		sum += d
	}

	return (10 - sum%10) % 10, nil
}

// Complete returns the full 13-digit code with its check digit.
func Complete(code string) (string, error) {
	check, err := CheckDigit(code)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%d", Normalize(code), check), nil
}

// BarcodePNG renders the EAN-13 bars of a 12-digit code as a PNG of the
// given pixel size.
func BarcodePNG(code string, width, height int) ([]byte, error) {
	digits := Normalize(code)
	if len(digits) != 12 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEAN13, code)
	}

	bc, err := ean.Encode(digits)
	if err != nil {
		return nil, fmt.Errorf("encoding ean-13: %w", err)
	}

	scaled, err := barcode.Scale(bc, width, height)
	if err != nil {
		return nil, fmt.Errorf("scaling barcode: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}

	return buf.Bytes(), nil
}
