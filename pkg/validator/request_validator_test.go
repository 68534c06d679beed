package validator

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"banking_core/internal/domain"
)

func TestValidateOperation_ValidTransfer(t *testing.T) {
	v := NewRequestValidator()

	amount, err := v.ValidateOperation(OperationRequest{
		Type:                     domain.TypeCardTransfer,
		OriginAccountNumber:      "1234567890",
		DestinationAccountNumber: "0987654321",
		Amount:                   "250000",
		PIN:                      1234,
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !amount.Equal(decimal.NewFromInt(250000)) {
		t.Errorf("expected amount 250000, got %s", amount)
	}
}

func TestValidateOperation_UnknownType(t *testing.T) {
	v := NewRequestValidator()

	_, err := v.ValidateOperation(OperationRequest{
		Type:                "PAYMENT",
		OriginAccountNumber: "1234567890",
		Amount:              "100",
	})

	if !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestValidateOperation_BadAccountNumber(t *testing.T) {
	v := NewRequestValidator()

	_, err := v.ValidateOperation(OperationRequest{
		Type:                domain.TypeDeposit,
		OriginAccountNumber: "12345",
		Amount:              "100",
	})

	if !errors.Is(err, ErrInvalidAccountNumber) {
		t.Fatalf("expected ErrInvalidAccountNumber, got %v", err)
	}
}

func TestValidateOperation_BadAmount(t *testing.T) {
	v := NewRequestValidator()

	for _, amount := range []string{"", "abc", "0", "-5"} {
		_, err := v.ValidateOperation(OperationRequest{
			Type:                domain.TypeDeposit,
			OriginAccountNumber: "1234567890",
			Amount:              amount,
		})
		if !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("amount %q: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
}

func TestValidateOperation_MonthlyChargeNeedsNoAmount(t *testing.T) {
	v := NewRequestValidator()

	amount, err := v.ValidateOperation(OperationRequest{
		Type:                domain.TypeMonthlyCharge,
		OriginAccountNumber: "1234567890",
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !amount.IsZero() {
		t.Errorf("expected zero amount, got %s", amount)
	}
}

func TestValidateOperation_TransferNeedsDestination(t *testing.T) {
	v := NewRequestValidator()

	_, err := v.ValidateOperation(OperationRequest{
		Type:                domain.TypeTransfer,
		OriginAccountNumber: "1234567890",
		Amount:              "100",
	})

	if !errors.Is(err, ErrMissingDestination) {
		t.Fatalf("expected ErrMissingDestination, got %v", err)
	}
}

func TestValidateOperation_CardPINRange(t *testing.T) {
	v := NewRequestValidator()

	_, err := v.ValidateOperation(OperationRequest{
		Type:                domain.TypeCardWithdraw,
		OriginAccountNumber: "1234567890",
		Amount:              "100",
		PIN:                 1_000_000,
	})

	if !errors.Is(err, ErrInvalidPIN) {
		t.Fatalf("expected ErrInvalidPIN, got %v", err)
	}
}

func TestValidateOperation_CollectsMultipleProblems(t *testing.T) {
	v := NewRequestValidator()

	_, err := v.ValidateOperation(OperationRequest{
		Type:                domain.TypeCardTransfer,
		OriginAccountNumber: "bad",
		Amount:              "-1",
		PIN:                 -1,
	})

	if !errors.Is(err, ErrInvalidAccountNumber) || !errors.Is(err, ErrInvalidAmount) ||
		!errors.Is(err, ErrMissingDestination) || !errors.Is(err, ErrInvalidPIN) {
		t.Fatalf("expected all problems joined, got %v", err)
	}
}
