package validator

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"

	"banking_core/internal/domain"
)

var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidAccountNumber = errors.New("invalid account number")
	ErrInvalidType          = errors.New("invalid transaction type")
	ErrMissingDestination   = errors.New("destination account required")
	ErrInvalidPIN           = errors.New("invalid PIN format")
)

// RequestValidator screens API requests for shape problems before they
// reach the engine. Business rules (balances, limits, PIN match) stay
// in the engine.
type RequestValidator struct {
	accountNumberRegex *regexp.Regexp
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{
		accountNumberRegex: regexp.MustCompile(`^[0-9]{10}$`),
	}
}

type OperationRequest struct {
	Type                     domain.TransactionType
	OriginAccountNumber      string
	DestinationAccountNumber string
	Amount                   string
	PIN                      int
}

var knownTypes = map[domain.TransactionType]struct{}{
	domain.TypeMonthlyCharge: {},
	domain.TypeTransfer:      {},
	domain.TypeDeposit:       {},
	domain.TypeWithdraw:      {},
	domain.TypeCardTransfer:  {},
	domain.TypeCardDeposit:   {},
	domain.TypeCardWithdraw:  {},
}

func (v *RequestValidator) ValidateOperation(req OperationRequest) (decimal.Decimal, error) {
	var errs []error

	if _, ok := knownTypes[req.Type]; !ok {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidType, req.Type))
	}

	if !v.accountNumberRegex.MatchString(req.OriginAccountNumber) {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidAccountNumber, req.OriginAccountNumber))
	}

	amount := decimal.Zero
	if req.Type != domain.TypeMonthlyCharge {
		parsed, err := decimal.NewFromString(req.Amount)
		if err != nil || parsed.Sign() <= 0 {
			errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidAmount, req.Amount))
		} else {
			amount = parsed
		}
	}

	switch req.Type {
	case domain.TypeTransfer, domain.TypeCardTransfer:
		if !v.accountNumberRegex.MatchString(req.DestinationAccountNumber) {
			errs = append(errs, ErrMissingDestination)
		}
	}

	switch req.Type {
	case domain.TypeCardTransfer, domain.TypeCardDeposit, domain.TypeCardWithdraw:
		if req.PIN < 0 || req.PIN > 999999 {
			errs = append(errs, ErrInvalidPIN)
		}
	}

	if len(errs) > 0 {
		return decimal.Decimal{}, errors.Join(errs...)
	}
	return amount, nil
}
