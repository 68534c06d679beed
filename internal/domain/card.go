package domain

import "github.com/shopspring/decimal"

// Card links an account to a card type. One active card per account.
// The engine reads cards, it never writes them; PIN changes go through
// the account service.
type Card struct {
	ID          string `json:"id"`
	AccountID   string `json:"account_id"`
	CardNumber  string `json:"card_number"`
	PIN         int    `json:"-"`
	CardTypeID  string `json:"card_type_id"`
	Active      bool   `json:"active"`
	ExpiredDate string `json:"expired_date"`
}

func (c Card) WithPIN(pin int) Card {
	c.PIN = pin
	return c
}

// CardType is shared by many cards and immutable once created.
// MinimumBalance is declared but not enforced by any operation.
type CardType struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Description        string          `json:"description"`
	MonthlyPrice       decimal.Decimal `json:"monthly_price"`
	DailyTransferLimit decimal.Decimal `json:"daily_transfer_limit"`
	DailyWithdrawLimit decimal.Decimal `json:"daily_withdraw_limit"`
	DailyDepositLimit  decimal.Decimal `json:"daily_deposit_limit"`
	MinimumBalance     decimal.Decimal `json:"minimum_balance"`
}
