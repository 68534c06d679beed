package repository

import (
	"context"
	"errors"

	"banking_core/internal/domain"
)

type AccountRepository interface {
	Save(ctx context.Context, account domain.Account) (domain.Account, error)
	FindByID(ctx context.Context, id string) (domain.Account, error)
	FindByAccountNumber(ctx context.Context, number string) (domain.Account, error)
	FindByCustomerID(ctx context.Context, customerID string) ([]domain.Account, error)
	Update(ctx context.Context, account domain.Account) (domain.Account, error)
}

type CardRepository interface {
	Save(ctx context.Context, card domain.Card) (domain.Card, error)
	FindByAccountID(ctx context.Context, accountID string) (domain.Card, error)
	FindByCardNumber(ctx context.Context, number string) (domain.Card, error)
	Update(ctx context.Context, card domain.Card) (domain.Card, error)
}

type CardTypeRepository interface {
	Save(ctx context.Context, cardType domain.CardType) (domain.CardType, error)
	FindByID(ctx context.Context, id string) (domain.CardType, error)
	FindAll(ctx context.Context) ([]domain.CardType, error)
}

type TransactionRepository interface {
	// Save assigns identity and appends; stored transactions are never
	// mutated or deleted.
	Save(ctx context.Context, tx domain.Transaction) (domain.Transaction, error)
	FindByID(ctx context.Context, id string) (domain.Transaction, error)
	// FindByAccountIDAndDate returns transactions whose source account
	// and calendar-day bucket both match.
	FindByAccountIDAndDate(ctx context.Context, accountID, date string) ([]domain.Transaction, error)
	FindByAccountID(ctx context.Context, accountID string, limit, offset int) ([]domain.Transaction, error)
}

type CustomerRepository interface {
	Save(ctx context.Context, customer domain.Customer) (domain.Customer, error)
	FindByID(ctx context.Context, id string) (domain.Customer, error)
	FindByEmail(ctx context.Context, email string) (domain.Customer, error)
	Update(ctx context.Context, customer domain.Customer) (domain.Customer, error)
}

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate entry")
)
