package domain

import (
	"crypto/rand"
	"math/big"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountSavings     AccountType = "SAVINGS"
	AccountGiro        AccountType = "GIRO"
	AccountTimeDeposit AccountType = "TIME_DEPOSIT"
	AccountCredit      AccountType = "CREDIT"
	AccountBusiness    AccountType = "BUSINESS"
)

// Account is an immutable value. Balance changes go through WithBalance
// so the stored record is always replaced wholesale, never mutated in place.
type Account struct {
	ID                 string          `json:"id"`
	AccountNumber      string          `json:"account_number"`
	Balance            decimal.Decimal `json:"balance"`
	AccountType        AccountType     `json:"account_type"`
	CustomerID         string          `json:"customer_id"`
	DailyTransferLimit decimal.Decimal `json:"daily_transfer_limit"`
	DailyWithdrawLimit decimal.Decimal `json:"daily_withdraw_limit"`
}

func (a Account) WithBalance(balance decimal.Decimal) Account {
	a.Balance = balance
	return a
}

// NewAccountNumber returns a random 10-digit account number. Uniqueness
// among stored accounts is the repository's concern.
func NewAccountNumber() string {
	return randomDigits(10)
}

// NewCardNumber returns a random 10-digit card number.
func NewCardNumber() string {
	return randomDigits(10)
}

func randomDigits(n int) string {
	digits := make([]byte, n)
	for i := range digits {
		v, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			panic(err)
		}
		digits[i] = byte('0' + v.Int64())
	}
	if digits[0] == '0' {
		digits[0] = '1'
	}
	return string(digits)
}
