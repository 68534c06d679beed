package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"banking_core/internal/domain"
	"banking_core/internal/repository"
)

type CardRepository struct {
	mu           sync.RWMutex
	cards        map[string]domain.Card
	accountIndex map[string]string
	numberIndex  map[string]string
}

func NewCardRepository() *CardRepository {
	return &CardRepository{
		cards:        make(map[string]domain.Card),
		accountIndex: make(map[string]string),
		numberIndex:  make(map[string]string),
	}
}

func (r *CardRepository) Save(ctx context.Context, card domain.Card) (domain.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accountIndex[card.AccountID]; exists {
		return domain.Card{}, fmt.Errorf("%w: account %s already has a card", repository.ErrDuplicate, card.AccountID)
	}
	if _, exists := r.numberIndex[card.CardNumber]; exists {
		return domain.Card{}, fmt.Errorf("%w: card number %s", repository.ErrDuplicate, card.CardNumber)
	}

	if card.ID == "" {
		card.ID = uuid.NewString()
	}

	r.cards[card.ID] = card
	r.accountIndex[card.AccountID] = card.ID
	r.numberIndex[card.CardNumber] = card.ID

	return card, nil
}

func (r *CardRepository) FindByAccountID(ctx context.Context, accountID string) (domain.Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.accountIndex[accountID]
	if !exists {
		return domain.Card{}, fmt.Errorf("%w: no card for account %s", repository.ErrNotFound, accountID)
	}
	return r.cards[id], nil
}

func (r *CardRepository) FindByCardNumber(ctx context.Context, number string) (domain.Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.numberIndex[number]
	if !exists {
		return domain.Card{}, fmt.Errorf("%w: card number %s", repository.ErrNotFound, number)
	}
	return r.cards[id], nil
}

func (r *CardRepository) Update(ctx context.Context, card domain.Card) (domain.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.cards[card.ID]; !exists {
		return domain.Card{}, fmt.Errorf("%w: card %s", repository.ErrNotFound, card.ID)
	}

	r.cards[card.ID] = card
	return card, nil
}
