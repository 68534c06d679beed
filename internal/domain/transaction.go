package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TypeMonthlyCharge TransactionType = "MONTHLY_CHARGE"
	TypeTransfer      TransactionType = "TRANSFER"
	TypeDeposit       TransactionType = "DEPOSIT"
	TypeWithdraw      TransactionType = "WITHDRAW"
	TypeCardTransfer  TransactionType = "TRANSFER_VIA_CARD"
	TypeCardDeposit   TransactionType = "DEPOSIT_VIA_CARD"
	TypeCardWithdraw  TransactionType = "WITHDRAW_VIA_CARD"
)

// Transaction is the append-only audit record of one applied operation.
// Date is the calendar-day bucket key used by limit accounting; daily
// totals are always recomputed from these records, never cached.
type Transaction struct {
	ID                   string          `json:"id"`
	AccountID            string          `json:"account_id"`
	DestinationAccountID string          `json:"destination_account_id,omitempty"`
	Amount               decimal.Decimal `json:"amount"`
	Type                 TransactionType `json:"type"`
	Date                 string          `json:"date"`
	Timestamp            time.Time       `json:"timestamp"`
}

func NewTransaction(t TransactionType, accountID string, amount decimal.Decimal, date string, at time.Time) Transaction {
	return Transaction{
		AccountID: accountID,
		Amount:    amount,
		Type:      t,
		Date:      date,
		Timestamp: at,
	}
}

func (tx Transaction) WithDestination(accountID string) Transaction {
	tx.DestinationAccountID = accountID
	return tx
}
