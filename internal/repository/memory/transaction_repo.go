package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"banking_core/internal/domain"
	"banking_core/internal/repository"
)

type TransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]domain.Transaction
	sourceIndex  map[string][]string
}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{
		transactions: make(map[string]domain.Transaction),
		sourceIndex:  make(map[string][]string),
	}
}

func (r *TransactionRepository) Save(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if _, exists := r.transactions[tx.ID]; exists {
		return domain.Transaction{}, fmt.Errorf("%w: transaction %s", repository.ErrDuplicate, tx.ID)
	}

	r.transactions[tx.ID] = tx
	r.sourceIndex[tx.AccountID] = append(r.sourceIndex[tx.AccountID], tx.ID)

	return tx, nil
}

func (r *TransactionRepository) FindByID(ctx context.Context, id string) (domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tx, exists := r.transactions[id]
	if !exists {
		return domain.Transaction{}, fmt.Errorf("%w: transaction %s", repository.ErrNotFound, id)
	}
	return tx, nil
}

// FindByAccountIDAndDate matches on the source account only; an account
// that merely received a transfer does not consume its own daily limits.
func (r *TransactionRepository) FindByAccountIDAndDate(ctx context.Context, accountID, date string) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []domain.Transaction
	for _, id := range r.sourceIndex[accountID] {
		tx := r.transactions[id]
		if tx.Date == date {
			result = append(result, tx)
		}
	}
	return result, nil
}

func (r *TransactionRepository) FindByAccountID(ctx context.Context, accountID string, limit, offset int) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.sourceIndex[accountID]
	txs := make([]domain.Transaction, 0, len(ids))
	for _, id := range ids {
		txs = append(txs, r.transactions[id])
	}

	sort.Slice(txs, func(i, j int) bool {
		return txs[i].Timestamp.After(txs[j].Timestamp)
	})

	if offset >= len(txs) {
		return []domain.Transaction{}, nil
	}
	end := offset + limit
	if end > len(txs) {
		end = len(txs)
	}
	return txs[offset:end], nil
}
