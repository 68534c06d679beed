package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"banking_core/internal/domain"
	"banking_core/internal/repository"
)

type AccountRepository struct {
	mu            sync.RWMutex
	accounts      map[string]domain.Account
	numberIndex   map[string]string
	customerIndex map[string][]string
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts:      make(map[string]domain.Account),
		numberIndex:   make(map[string]string),
		customerIndex: make(map[string][]string),
	}
}

func (r *AccountRepository) Save(ctx context.Context, account domain.Account) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.numberIndex[account.AccountNumber]; exists {
		return domain.Account{}, fmt.Errorf("%w: account number %s", repository.ErrDuplicate, account.AccountNumber)
	}

	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	if _, exists := r.accounts[account.ID]; exists {
		return domain.Account{}, fmt.Errorf("%w: account %s", repository.ErrDuplicate, account.ID)
	}

	r.accounts[account.ID] = account
	r.numberIndex[account.AccountNumber] = account.ID
	r.customerIndex[account.CustomerID] = append(r.customerIndex[account.CustomerID], account.ID)

	return account, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, exists := r.accounts[id]
	if !exists {
		return domain.Account{}, fmt.Errorf("%w: account %s", repository.ErrNotFound, id)
	}
	return account, nil
}

func (r *AccountRepository) FindByAccountNumber(ctx context.Context, number string) (domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.numberIndex[number]
	if !exists {
		return domain.Account{}, fmt.Errorf("%w: account number %s", repository.ErrNotFound, number)
	}
	return r.accounts[id], nil
}

func (r *AccountRepository) FindByCustomerID(ctx context.Context, customerID string) ([]domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids, exists := r.customerIndex[customerID]
	if !exists {
		return nil, fmt.Errorf("%w: customer %s", repository.ErrNotFound, customerID)
	}

	result := make([]domain.Account, 0, len(ids))
	for _, id := range ids {
		if account, ok := r.accounts[id]; ok {
			result = append(result, account)
		}
	}
	return result, nil
}

func (r *AccountRepository) Update(ctx context.Context, account domain.Account) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[account.ID]; !exists {
		return domain.Account{}, fmt.Errorf("%w: account %s", repository.ErrNotFound, account.ID)
	}

	r.accounts[account.ID] = account
	return account, nil
}
