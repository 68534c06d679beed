package money

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestTransferFee_WholeAmount(t *testing.T) {
	amount := decimal.NewFromInt(250000)

	fee, err := TransferFee(amount)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fee.Equal(decimal.NewFromInt(2500)) {
		t.Errorf("expected fee 2500, got %s", fee)
	}
}

func TestTransferFee_FractionalAmountExact(t *testing.T) {
	// 2500.00 has two fractional digits, so a fee of 25 fits the scale.
	amount, _ := decimal.NewFromString("2500.00")

	fee, err := TransferFee(amount)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fee.Equal(decimal.NewFromInt(25)) {
		t.Errorf("expected fee 25, got %s", fee)
	}
}

func TestTransferFee_InexactWholeAmount(t *testing.T) {
	// 250050 / 100 = 2500.5: the quotient needs a fractional digit the
	// amount does not carry.
	amount := decimal.NewFromInt(250050)

	_, err := TransferFee(amount)

	if !errors.Is(err, ErrInexactDivision) {
		t.Fatalf("expected ErrInexactDivision, got %v", err)
	}
}

func TestTransferFee_InexactFractionalAmount(t *testing.T) {
	// 2500.5 / 100 = 25.005 needs three fractional digits, the amount
	// carries one.
	amount, _ := decimal.NewFromString("2500.5")

	_, err := TransferFee(amount)

	if !errors.Is(err, ErrInexactDivision) {
		t.Fatalf("expected ErrInexactDivision, got %v", err)
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1000000", "Rp 1.000.000"},
		{"250000", "Rp 250.000"},
		{"999", "Rp 999"},
		{"0", "Rp 0"},
		{"-50000", "Rp -50.000"},
	}

	for _, c := range cases {
		d, _ := decimal.NewFromString(c.in)
		if got := Format(d); got != c.want {
			t.Errorf("Format(%s) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatWithDecimals(t *testing.T) {
	d, _ := decimal.NewFromString("1000000.5")

	if got := FormatWithDecimals(d); got != "Rp 1.000.000,50" {
		t.Errorf("got %q, want %q", got, "Rp 1.000.000,50")
	}
}
