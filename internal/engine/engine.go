package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"banking_core/internal/clock"
	"banking_core/internal/domain"
	"banking_core/internal/repository"
	"banking_core/pkg/money"
)

// TransactionEngine validates, applies, and records every
// balance-changing operation. Each operation is synchronous and binary:
// it either persists a transaction record together with the affected
// balance updates and returns that record, or it changes nothing and
// returns a *domain.Error.
type TransactionEngine struct {
	accounts     repository.AccountRepository
	cards        repository.CardRepository
	cardTypes    repository.CardTypeRepository
	transactions repository.TransactionRepository
	clock        clock.Clock
	locks        *accountLocks
	logger       *slog.Logger
}

func NewTransactionEngine(
	accounts repository.AccountRepository,
	cards repository.CardRepository,
	cardTypes repository.CardTypeRepository,
	transactions repository.TransactionRepository,
	clk clock.Clock,
	logger *slog.Logger,
) *TransactionEngine {
	if logger == nil {
		logger = slog.Default()
	}

	return &TransactionEngine{
		accounts:     accounts,
		cards:        cards,
		cardTypes:    cardTypes,
		transactions: transactions,
		clock:        clk,
		locks:        newAccountLocks(),
		logger:       logger,
	}
}

// SendMoneyUsingCard transfers amount between two accounts through the
// card channel. A 1% fee is added to the debit; the fee must be exactly
// computable. The card type's daily transfer limit is checked against
// the principal, not the fee-inclusive debit.
func (e *TransactionEngine) SendMoneyUsingCard(ctx context.Context, originNumber, destinationNumber string, amount decimal.Decimal, pin int) (domain.Transaction, error) {
	if amount.Sign() <= 0 {
		return domain.Transaction{}, domain.InvalidAmount(amount)
	}
	if originNumber == destinationNumber {
		return domain.Transaction{}, domain.SameAccountTransfer(originNumber)
	}

	origin, err := e.accountByNumber(ctx, originNumber)
	if err != nil {
		return domain.Transaction{}, err
	}
	destination, err := e.accountByNumber(ctx, destinationNumber)
	if err != nil {
		return domain.Transaction{}, err
	}

	unlock := e.locks.acquire(origin.ID, destination.ID)
	defer unlock()

	origin, destination, err = e.refreshPair(ctx, origin.ID, destination.ID)
	if err != nil {
		return domain.Transaction{}, err
	}

	card, err := e.cardForAccount(ctx, origin.ID)
	if err != nil {
		return domain.Transaction{}, err
	}
	if card.PIN != pin {
		return domain.Transaction{}, domain.InvalidPIN(card.ID)
	}
	cardType, err := e.cardTypeByID(ctx, card.CardTypeID)
	if err != nil {
		return domain.Transaction{}, err
	}

	fee, err := money.TransferFee(amount)
	if err != nil {
		return domain.Transaction{}, domain.InexactFee(amount)
	}
	totalDebit := amount.Add(fee)
	originFinal := origin.Balance.Sub(totalDebit)
	destinationFinal := destination.Balance.Add(amount)

	if originFinal.IsNegative() {
		return domain.Transaction{}, domain.InsufficientBalance(originNumber, origin.Balance, totalDebit)
	}

	date, now := e.clock.Today(), e.clock.Now()
	total, err := e.TotalDailyCardTransfer(ctx, origin.ID, date)
	if err != nil {
		return domain.Transaction{}, err
	}
	if total.Add(amount).GreaterThan(cardType.DailyTransferLimit) {
		return domain.Transaction{}, domain.DailyLimitExceeded(originNumber, domain.TypeCardTransfer, total.Add(amount), cardType.DailyTransferLimit)
	}

	return e.applyTransfer(ctx, domain.TypeCardTransfer, origin, destination, totalDebit, originFinal, destinationFinal, date, now)
}

// SendMoneyViaTeller transfers amount between two accounts at the
// teller: no card, no PIN, no fee. The account's own daily transfer
// limit applies.
func (e *TransactionEngine) SendMoneyViaTeller(ctx context.Context, originNumber, destinationNumber string, amount decimal.Decimal) (domain.Transaction, error) {
	if amount.Sign() <= 0 {
		return domain.Transaction{}, domain.InvalidAmount(amount)
	}
	if originNumber == destinationNumber {
		return domain.Transaction{}, domain.SameAccountTransfer(originNumber)
	}

	origin, err := e.accountByNumber(ctx, originNumber)
	if err != nil {
		return domain.Transaction{}, err
	}
	destination, err := e.accountByNumber(ctx, destinationNumber)
	if err != nil {
		return domain.Transaction{}, err
	}

	unlock := e.locks.acquire(origin.ID, destination.ID)
	defer unlock()

	origin, destination, err = e.refreshPair(ctx, origin.ID, destination.ID)
	if err != nil {
		return domain.Transaction{}, err
	}

	originFinal := origin.Balance.Sub(amount)
	destinationFinal := destination.Balance.Add(amount)

	if originFinal.IsNegative() {
		return domain.Transaction{}, domain.InsufficientBalance(originNumber, origin.Balance, amount)
	}

	date, now := e.clock.Today(), e.clock.Now()
	total, err := e.TotalDailyTransfer(ctx, origin.ID, date)
	if err != nil {
		return domain.Transaction{}, err
	}
	if total.Add(amount).GreaterThan(origin.DailyTransferLimit) {
		return domain.Transaction{}, domain.DailyLimitExceeded(originNumber, domain.TypeTransfer, total.Add(amount), origin.DailyTransferLimit)
	}

	return e.applyTransfer(ctx, domain.TypeTransfer, origin, destination, amount, originFinal, destinationFinal, date, now)
}

func (e *TransactionEngine) WithdrawMoneyUsingCard(ctx context.Context, accountNumber string, amount decimal.Decimal, pin int) (domain.Transaction, error) {
	if amount.Sign() <= 0 {
		return domain.Transaction{}, domain.InvalidAmount(amount)
	}

	account, err := e.accountByNumber(ctx, accountNumber)
	if err != nil {
		return domain.Transaction{}, err
	}

	unlock := e.locks.acquire(account.ID)
	defer unlock()

	account, err = e.accounts.FindByID(ctx, account.ID)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("reload account: %w", err)
	}

	card, err := e.cardForAccount(ctx, account.ID)
	if err != nil {
		return domain.Transaction{}, err
	}
	if card.PIN != pin {
		return domain.Transaction{}, domain.InvalidPIN(card.ID)
	}
	cardType, err := e.cardTypeByID(ctx, card.CardTypeID)
	if err != nil {
		return domain.Transaction{}, err
	}

	finalBalance := account.Balance.Sub(amount)
	if finalBalance.IsNegative() {
		return domain.Transaction{}, domain.InsufficientBalance(accountNumber, account.Balance, amount)
	}

	date, now := e.clock.Today(), e.clock.Now()
	total, err := e.TotalDailyCardWithdraw(ctx, account.ID, date)
	if err != nil {
		return domain.Transaction{}, err
	}
	if total.Add(amount).GreaterThan(cardType.DailyWithdrawLimit) {
		return domain.Transaction{}, domain.DailyLimitExceeded(accountNumber, domain.TypeCardWithdraw, total.Add(amount), cardType.DailyWithdrawLimit)
	}

	return e.applySingle(ctx, domain.TypeCardWithdraw, account, amount, finalBalance, date, now)
}

func (e *TransactionEngine) WithdrawMoneyViaTeller(ctx context.Context, accountNumber string, amount decimal.Decimal) (domain.Transaction, error) {
	if amount.Sign() <= 0 {
		return domain.Transaction{}, domain.InvalidAmount(amount)
	}

	account, err := e.accountByNumber(ctx, accountNumber)
	if err != nil {
		return domain.Transaction{}, err
	}

	unlock := e.locks.acquire(account.ID)
	defer unlock()

	account, err = e.accounts.FindByID(ctx, account.ID)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("reload account: %w", err)
	}

	finalBalance := account.Balance.Sub(amount)
	if finalBalance.IsNegative() {
		return domain.Transaction{}, domain.InsufficientBalance(accountNumber, account.Balance, amount)
	}

	date, now := e.clock.Today(), e.clock.Now()
	total, err := e.TotalDailyWithdraw(ctx, account.ID, date)
	if err != nil {
		return domain.Transaction{}, err
	}
	if total.Add(amount).GreaterThan(account.DailyWithdrawLimit) {
		return domain.Transaction{}, domain.DailyLimitExceeded(accountNumber, domain.TypeWithdraw, total.Add(amount), account.DailyWithdrawLimit)
	}

	return e.applySingle(ctx, domain.TypeWithdraw, account, amount, finalBalance, date, now)
}

func (e *TransactionEngine) DepositMoneyUsingCard(ctx context.Context, accountNumber string, amount decimal.Decimal, pin int) (domain.Transaction, error) {
	if amount.Sign() <= 0 {
		return domain.Transaction{}, domain.InvalidAmount(amount)
	}

	account, err := e.accountByNumber(ctx, accountNumber)
	if err != nil {
		return domain.Transaction{}, err
	}

	unlock := e.locks.acquire(account.ID)
	defer unlock()

	account, err = e.accounts.FindByID(ctx, account.ID)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("reload account: %w", err)
	}

	card, err := e.cardForAccount(ctx, account.ID)
	if err != nil {
		return domain.Transaction{}, err
	}
	if card.PIN != pin {
		return domain.Transaction{}, domain.InvalidPIN(card.ID)
	}
	cardType, err := e.cardTypeByID(ctx, card.CardTypeID)
	if err != nil {
		return domain.Transaction{}, err
	}

	finalBalance := account.Balance.Add(amount)

	date, now := e.clock.Today(), e.clock.Now()
	total, err := e.TotalDailyCardDeposit(ctx, account.ID, date)
	if err != nil {
		return domain.Transaction{}, err
	}
	if total.Add(amount).GreaterThan(cardType.DailyDepositLimit) {
		return domain.Transaction{}, domain.DailyLimitExceeded(accountNumber, domain.TypeCardDeposit, total.Add(amount), cardType.DailyDepositLimit)
	}

	return e.applySingle(ctx, domain.TypeCardDeposit, account, amount, finalBalance, date, now)
}

// DepositMoneyViaTeller credits the account with no daily limit check;
// teller deposits are unconstrained.
func (e *TransactionEngine) DepositMoneyViaTeller(ctx context.Context, accountNumber string, amount decimal.Decimal) (domain.Transaction, error) {
	if amount.Sign() <= 0 {
		return domain.Transaction{}, domain.InvalidAmount(amount)
	}

	account, err := e.accountByNumber(ctx, accountNumber)
	if err != nil {
		return domain.Transaction{}, err
	}

	unlock := e.locks.acquire(account.ID)
	defer unlock()

	account, err = e.accounts.FindByID(ctx, account.ID)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("reload account: %w", err)
	}

	finalBalance := account.Balance.Add(amount)
	date, now := e.clock.Today(), e.clock.Now()

	return e.applySingle(ctx, domain.TypeDeposit, account, amount, finalBalance, date, now)
}

// ApplyCardMonthlyCharge debits the card type's monthly fee. The charge
// is exempt from daily-limit accounting.
func (e *TransactionEngine) ApplyCardMonthlyCharge(ctx context.Context, accountNumber string) (domain.Transaction, error) {
	account, err := e.accountByNumber(ctx, accountNumber)
	if err != nil {
		return domain.Transaction{}, err
	}

	unlock := e.locks.acquire(account.ID)
	defer unlock()

	account, err = e.accounts.FindByID(ctx, account.ID)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("reload account: %w", err)
	}

	card, err := e.cardForAccount(ctx, account.ID)
	if err != nil {
		return domain.Transaction{}, err
	}
	cardType, err := e.cardTypeByID(ctx, card.CardTypeID)
	if err != nil {
		return domain.Transaction{}, err
	}

	updatedBalance := account.Balance.Sub(cardType.MonthlyPrice)
	if updatedBalance.IsNegative() {
		return domain.Transaction{}, domain.InsufficientBalance(accountNumber, account.Balance, cardType.MonthlyPrice)
	}

	date, now := e.clock.Today(), e.clock.Now()
	return e.applySingle(ctx, domain.TypeMonthlyCharge, account, cardType.MonthlyPrice, updatedBalance, date, now)
}

// Transaction looks up one audit record by id.
func (e *TransactionEngine) Transaction(ctx context.Context, id string) (domain.Transaction, error) {
	tx, err := e.transactions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Transaction{}, domain.TransactionNotFound(id)
		}
		return domain.Transaction{}, err
	}
	return tx, nil
}

// AccountByNumber exposes account lookup for callers that report
// balances; the engine itself is the only balance writer.
func (e *TransactionEngine) AccountByNumber(ctx context.Context, number string) (domain.Account, error) {
	return e.accountByNumber(ctx, number)
}

func (e *TransactionEngine) accountByNumber(ctx context.Context, number string) (domain.Account, error) {
	account, err := e.accounts.FindByAccountNumber(ctx, number)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Account{}, domain.AccountNotFound(number)
		}
		return domain.Account{}, err
	}
	return account, nil
}

func (e *TransactionEngine) cardForAccount(ctx context.Context, accountID string) (domain.Card, error) {
	card, err := e.cards.FindByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Card{}, domain.CardNotFound(accountID)
		}
		return domain.Card{}, err
	}
	return card, nil
}

func (e *TransactionEngine) cardTypeByID(ctx context.Context, id string) (domain.CardType, error) {
	cardType, err := e.cardTypes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.CardType{}, domain.CardTypeNotFound(id)
		}
		return domain.CardType{}, err
	}
	return cardType, nil
}

// refreshPair reloads both accounts by id once their locks are held, so
// the balances the checks run against cannot be stale.
func (e *TransactionEngine) refreshPair(ctx context.Context, originID, destinationID string) (domain.Account, domain.Account, error) {
	origin, err := e.accounts.FindByID(ctx, originID)
	if err != nil {
		return domain.Account{}, domain.Account{}, fmt.Errorf("reload origin account: %w", err)
	}
	destination, err := e.accounts.FindByID(ctx, destinationID)
	if err != nil {
		return domain.Account{}, domain.Account{}, fmt.Errorf("reload destination account: %w", err)
	}
	return origin, destination, nil
}

// applyTransfer commits one transfer as a unit: both balance writes and
// the transaction record land together or not at all. On a failed write
// the already-applied writes are rolled back before returning.
func (e *TransactionEngine) applyTransfer(
	ctx context.Context,
	txType domain.TransactionType,
	origin, destination domain.Account,
	amount, originFinal, destinationFinal decimal.Decimal,
	date string,
	at time.Time,
) (domain.Transaction, error) {
	record := domain.NewTransaction(txType, origin.ID, amount, date, at).WithDestination(destination.ID)

	if _, err := e.accounts.Update(ctx, origin.WithBalance(originFinal)); err != nil {
		return domain.Transaction{}, fmt.Errorf("update origin account: %w", err)
	}
	if _, err := e.accounts.Update(ctx, destination.WithBalance(destinationFinal)); err != nil {
		_, _ = e.accounts.Update(ctx, origin)
		return domain.Transaction{}, fmt.Errorf("update destination account: %w", err)
	}
	saved, err := e.transactions.Save(ctx, record)
	if err != nil {
		_, _ = e.accounts.Update(ctx, origin)
		_, _ = e.accounts.Update(ctx, destination)
		return domain.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	e.logger.InfoContext(ctx, "transfer applied",
		slog.String("type", string(txType)),
		slog.String("origin_account", origin.AccountNumber),
		slog.String("destination_account", destination.AccountNumber),
		slog.String("amount", amount.String()))
	return saved, nil
}

// applySingle commits one single-account operation the same way.
func (e *TransactionEngine) applySingle(
	ctx context.Context,
	txType domain.TransactionType,
	account domain.Account,
	amount, finalBalance decimal.Decimal,
	date string,
	at time.Time,
) (domain.Transaction, error) {
	record := domain.NewTransaction(txType, account.ID, amount, date, at)

	if _, err := e.accounts.Update(ctx, account.WithBalance(finalBalance)); err != nil {
		return domain.Transaction{}, fmt.Errorf("update account: %w", err)
	}
	saved, err := e.transactions.Save(ctx, record)
	if err != nil {
		_, _ = e.accounts.Update(ctx, account)
		return domain.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	e.logger.InfoContext(ctx, "operation applied",
		slog.String("type", string(txType)),
		slog.String("account", account.AccountNumber),
		slog.String("amount", amount.String()))
	return saved, nil
}
