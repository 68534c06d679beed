package engine

import (
	"context"

	"github.com/shopspring/decimal"

	"banking_core/internal/domain"
)

// dailyTotal sums the amounts of all transactions of one channel for an
// account on one calendar date. It is recomputed from the transaction
// log on every call; no running counter exists that could drift from
// the audit trail. MONTHLY_CHARGE records are never counted because no
// channel requests them.
func (e *TransactionEngine) dailyTotal(ctx context.Context, accountID, date string, channel domain.TransactionType) (decimal.Decimal, error) {
	txs, err := e.transactions.FindByAccountIDAndDate(ctx, accountID, date)
	if err != nil {
		return decimal.Decimal{}, err
	}

	total := decimal.Zero
	for _, tx := range txs {
		if tx.Type != channel {
			continue
		}
		total = total.Add(tx.Amount)
	}
	return total, nil
}

// Named daily-total reads, used by the engine's own limit checks and
// exposed as a reporting surface.

func (e *TransactionEngine) TotalDailyCardTransfer(ctx context.Context, accountID, date string) (decimal.Decimal, error) {
	return e.dailyTotal(ctx, accountID, date, domain.TypeCardTransfer)
}

func (e *TransactionEngine) TotalDailyTransfer(ctx context.Context, accountID, date string) (decimal.Decimal, error) {
	return e.dailyTotal(ctx, accountID, date, domain.TypeTransfer)
}

func (e *TransactionEngine) TotalDailyCardWithdraw(ctx context.Context, accountID, date string) (decimal.Decimal, error) {
	return e.dailyTotal(ctx, accountID, date, domain.TypeCardWithdraw)
}

func (e *TransactionEngine) TotalDailyWithdraw(ctx context.Context, accountID, date string) (decimal.Decimal, error) {
	return e.dailyTotal(ctx, accountID, date, domain.TypeWithdraw)
}

func (e *TransactionEngine) TotalDailyCardDeposit(ctx context.Context, accountID, date string) (decimal.Decimal, error) {
	return e.dailyTotal(ctx, accountID, date, domain.TypeCardDeposit)
}

func (e *TransactionEngine) TotalDailyDeposit(ctx context.Context, accountID, date string) (decimal.Decimal, error) {
	return e.dailyTotal(ctx, accountID, date, domain.TypeDeposit)
}
