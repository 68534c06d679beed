package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	"banking_core/pkg/money"
)

type ErrorKind string

const (
	KindValidation        ErrorKind = "validation"
	KindNotFound          ErrorKind = "not_found"
	KindAuthentication    ErrorKind = "authentication"
	KindInsufficientFunds ErrorKind = "insufficient_funds"
	KindLimitExceeded     ErrorKind = "limit_exceeded"
	KindArithmeticPolicy  ErrorKind = "arithmetic_policy"
)

// Error is the structured failure every engine and service operation
// returns. Kind drives errors.Is matching and HTTP mapping, Code is a
// stable machine identifier, and Context carries enough detail to render
// both a user message and a technical diagnostic without re-querying
// state.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Context map[string]any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches any *Error of the same kind, so callers can write
// errors.Is(err, domain.ErrInsufficientFunds) regardless of which
// operation produced the failure.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code != "" {
		return t.Code == e.Code
	}
	return t.Kind == e.Kind
}

// Kind sentinels for errors.Is.
var (
	ErrValidation        = &Error{Kind: KindValidation}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrAuthentication    = &Error{Kind: KindAuthentication}
	ErrInsufficientFunds = &Error{Kind: KindInsufficientFunds}
	ErrLimitExceeded     = &Error{Kind: KindLimitExceeded}
	ErrArithmeticPolicy  = &Error{Kind: KindArithmeticPolicy}
)

func InvalidAmount(amount decimal.Decimal) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    "INVALID_TRANSACTION_AMOUNT",
		Message: fmt.Sprintf("invalid transaction amount: %s", amount),
		Context: map[string]any{"amount": amount},
	}
}

func SameAccountTransfer(accountNumber string) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    "SAME_ACCOUNT_TRANSFER",
		Message: fmt.Sprintf("cannot transfer to same account %s", accountNumber),
		Context: map[string]any{"account_number": accountNumber},
	}
}

func AccountNotFound(accountNumber string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Code:    "ACCOUNT_NOT_FOUND",
		Message: fmt.Sprintf("account %s not found", accountNumber),
		Context: map[string]any{"account_number": accountNumber},
	}
}

func CardNotFound(accountID string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Code:    "CARD_NOT_FOUND",
		Message: fmt.Sprintf("no card assigned to account %s", accountID),
		Context: map[string]any{"account_id": accountID},
	}
}

func CardTypeNotFound(cardTypeID string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Code:    "CARD_TYPE_NOT_FOUND",
		Message: fmt.Sprintf("card type %s not found", cardTypeID),
		Context: map[string]any{"card_type_id": cardTypeID},
	}
}

func TransactionNotFound(transactionID string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Code:    "TRANSACTION_NOT_FOUND",
		Message: fmt.Sprintf("transaction %s not found", transactionID),
		Context: map[string]any{"transaction_id": transactionID},
	}
}

func CustomerNotFound(customerID string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Code:    "CUSTOMER_NOT_FOUND",
		Message: fmt.Sprintf("customer %s not found", customerID),
		Context: map[string]any{"customer_id": customerID},
	}
}

func CustomerAlreadyExists(email string) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    "CUSTOMER_ALREADY_EXISTS",
		Message: fmt.Sprintf("customer with email %s already exists", email),
		Context: map[string]any{"email": email},
	}
}

func InvalidCustomerData(reason string) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    "INVALID_CUSTOMER_DATA",
		Message: reason,
		Context: map[string]any{"reason": reason},
	}
}

func InvalidPIN(cardID string) *Error {
	return &Error{
		Kind:    KindAuthentication,
		Code:    "INVALID_PIN",
		Message: fmt.Sprintf("wrong PIN for card %s", cardID),
		Context: map[string]any{"card_id": cardID},
	}
}

// InsufficientBalance carries the current balance, the amount the
// operation needed, and the shortfall between them.
func InsufficientBalance(accountNumber string, balance, required decimal.Decimal) *Error {
	return &Error{
		Kind: KindInsufficientFunds,
		Code: "INSUFFICIENT_BALANCE",
		Message: fmt.Sprintf("balance %s is not enough for %s",
			money.Format(balance), money.Format(required)),
		Context: map[string]any{
			"account_number": accountNumber,
			"balance":        balance,
			"required":       required,
			"shortfall":      required.Sub(balance),
		},
	}
}

// DailyLimitExceeded reports the total the operation would have reached
// and the ceiling for the channel, including the excess over it.
func DailyLimitExceeded(accountNumber string, channel TransactionType, currentTotal, limit decimal.Decimal) *Error {
	return &Error{
		Kind: KindLimitExceeded,
		Code: "DAILY_LIMIT_EXCEEDED",
		Message: fmt.Sprintf("daily %s limit exceeded: %s over limit %s",
			channel, money.Format(currentTotal), money.Format(limit)),
		Context: map[string]any{
			"account_number": accountNumber,
			"channel":        channel,
			"current_total":  currentTotal,
			"limit":          limit,
			"excess":         currentTotal.Sub(limit),
		},
	}
}

func InexactFee(amount decimal.Decimal) *Error {
	return &Error{
		Kind:    KindArithmeticPolicy,
		Code:    "INEXACT_FEE_DIVISION",
		Message: fmt.Sprintf("transfer fee for %s cannot be computed without rounding", amount),
		Context: map[string]any{"amount": amount},
	}
}
