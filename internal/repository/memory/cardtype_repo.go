package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"banking_core/internal/domain"
	"banking_core/internal/repository"
)

type CardTypeRepository struct {
	mu        sync.RWMutex
	cardTypes map[string]domain.CardType
}

func NewCardTypeRepository() *CardTypeRepository {
	return &CardTypeRepository{
		cardTypes: make(map[string]domain.CardType),
	}
}

func (r *CardTypeRepository) Save(ctx context.Context, cardType domain.CardType) (domain.CardType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cardType.ID == "" {
		cardType.ID = uuid.NewString()
	}
	if _, exists := r.cardTypes[cardType.ID]; exists {
		return domain.CardType{}, fmt.Errorf("%w: card type %s", repository.ErrDuplicate, cardType.ID)
	}

	r.cardTypes[cardType.ID] = cardType
	return cardType, nil
}

func (r *CardTypeRepository) FindByID(ctx context.Context, id string) (domain.CardType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cardType, exists := r.cardTypes[id]
	if !exists {
		return domain.CardType{}, fmt.Errorf("%w: card type %s", repository.ErrNotFound, id)
	}
	return cardType, nil
}

func (r *CardTypeRepository) FindAll(ctx context.Context) ([]domain.CardType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.CardType, 0, len(r.cardTypes))
	for _, cardType := range r.cardTypes {
		result = append(result, cardType)
	}
	return result, nil
}
