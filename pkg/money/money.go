package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInexactDivision is returned when a fee computation would require
// rounding. The transfer fee policy is exact division: the quotient may
// not carry more fractional digits than the amount it was derived from.
var ErrInexactDivision = errors.New("inexact division")

// TransferFee computes the 1% card-transfer fee as amount/100 without
// rounding. An amount of 250000 yields 2500; an amount of 250050 would
// need a fractional fee and fails with ErrInexactDivision.
func TransferFee(amount decimal.Decimal) (decimal.Decimal, error) {
	fee := amount.Shift(-2)
	if !fee.Equal(fee.Truncate(scale(amount))) {
		return decimal.Decimal{}, ErrInexactDivision
	}
	return fee.Truncate(scale(amount)), nil
}

func scale(d decimal.Decimal) int32 {
	if d.Exponent() < 0 {
		return -d.Exponent()
	}
	return 0
}

// Format renders an amount as rupiah with thousand separators,
// e.g. "Rp 1.000.000". Fractional digits are dropped.
func Format(amount decimal.Decimal) string {
	return "Rp " + group(amount.Truncate(0))
}

// FormatWithDecimals renders an amount with exactly two fractional
// digits, e.g. "Rp 1.000.000,50".
func FormatWithDecimals(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)
	sep := strings.LastIndex(fixed, ".")
	whole, frac := fixed[:sep], fixed[sep+1:]
	d, _ := decimal.NewFromString(whole)
	return "Rp " + group(d) + "," + frac
}

func group(d decimal.Decimal) string {
	s := d.String()
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
