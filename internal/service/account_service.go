package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"banking_core/internal/clock"
	"banking_core/internal/domain"
	"banking_core/internal/repository"
)

// Default account-level teller ceilings for newly opened accounts.
var (
	defaultDailyTransferLimit = decimal.NewFromInt(5_000_000)
	defaultDailyWithdrawLimit = decimal.NewFromInt(10_000_000)
)

type AccountService struct {
	accounts  repository.AccountRepository
	cards     repository.CardRepository
	cardTypes repository.CardTypeRepository
	clock     clock.Clock
	logger    *slog.Logger
}

func NewAccountService(
	accounts repository.AccountRepository,
	cards repository.CardRepository,
	cardTypes repository.CardTypeRepository,
	clk clock.Clock,
	logger *slog.Logger,
) *AccountService {
	if logger == nil {
		logger = slog.Default()
	}

	return &AccountService{
		accounts:  accounts,
		cards:     cards,
		cardTypes: cardTypes,
		clock:     clk,
		logger:    logger,
	}
}

type CreateAccountInput struct {
	CustomerID     string
	AccountType    domain.AccountType
	InitialBalance decimal.Decimal
}

// CreateAccount opens an account with a generated 10-digit number and
// the default daily teller limits. The generated number is retried on
// the unlikely collision with an existing one.
func (s *AccountService) CreateAccount(ctx context.Context, input CreateAccountInput) (domain.Account, error) {
	if input.InitialBalance.IsNegative() {
		return domain.Account{}, domain.InvalidAmount(input.InitialBalance)
	}

	account := domain.Account{
		AccountNumber:      domain.NewAccountNumber(),
		Balance:            input.InitialBalance,
		AccountType:        input.AccountType,
		CustomerID:         input.CustomerID,
		DailyTransferLimit: defaultDailyTransferLimit,
		DailyWithdrawLimit: defaultDailyWithdrawLimit,
	}

	for {
		saved, err := s.accounts.Save(ctx, account)
		if errors.Is(err, repository.ErrDuplicate) {
			account.AccountNumber = domain.NewAccountNumber()
			continue
		}
		if err != nil {
			return domain.Account{}, fmt.Errorf("save account: %w", err)
		}

		s.logger.InfoContext(ctx, "account created",
			slog.String("account_number", saved.AccountNumber),
			slog.String("customer_id", saved.CustomerID))
		return saved, nil
	}
}

// AssignCard issues a card for the account with a generated card
// number, valid for three years from today.
func (s *AccountService) AssignCard(ctx context.Context, accountID, cardTypeID string, pin int) (domain.Card, error) {
	if _, err := s.accounts.FindByID(ctx, accountID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Card{}, domain.AccountNotFound(accountID)
		}
		return domain.Card{}, err
	}
	if _, err := s.cardTypes.FindByID(ctx, cardTypeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Card{}, domain.CardTypeNotFound(cardTypeID)
		}
		return domain.Card{}, err
	}

	card := domain.Card{
		AccountID:   accountID,
		CardNumber:  domain.NewCardNumber(),
		PIN:         pin,
		CardTypeID:  cardTypeID,
		Active:      true,
		ExpiredDate: s.clock.Now().AddDate(3, 0, 0).Format("2006-01-02"),
	}

	saved, err := s.cards.Save(ctx, card)
	if err != nil {
		return domain.Card{}, fmt.Errorf("save card: %w", err)
	}

	s.logger.InfoContext(ctx, "card assigned",
		slog.String("account_id", accountID),
		slog.String("card_number", saved.CardNumber))
	return saved, nil
}

// UpdatePIN replaces the card PIN after verifying the old one.
func (s *AccountService) UpdatePIN(ctx context.Context, accountID string, oldPIN, newPIN int) error {
	card, err := s.cards.FindByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.CardNotFound(accountID)
		}
		return err
	}

	if card.PIN != oldPIN {
		return domain.InvalidPIN(card.ID)
	}

	if _, err := s.cards.Update(ctx, card.WithPIN(newPIN)); err != nil {
		return fmt.Errorf("update card: %w", err)
	}

	s.logger.InfoContext(ctx, "card PIN updated", slog.String("account_id", accountID))
	return nil
}
