package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"banking_core/internal/domain"
	"banking_core/internal/repository"
)

type CustomerRepository struct {
	mu         sync.RWMutex
	customers  map[string]domain.Customer
	emailIndex map[string]string
}

func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{
		customers:  make(map[string]domain.Customer),
		emailIndex: make(map[string]string),
	}
}

func (r *CustomerRepository) Save(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.emailIndex[customer.Email]; exists {
		return domain.Customer{}, fmt.Errorf("%w: email %s", repository.ErrDuplicate, customer.Email)
	}

	if customer.ID == "" {
		customer.ID = uuid.NewString()
	}

	r.customers[customer.ID] = customer
	r.emailIndex[customer.Email] = customer.ID

	return customer, nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id string) (domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customer, exists := r.customers[id]
	if !exists {
		return domain.Customer{}, fmt.Errorf("%w: customer %s", repository.ErrNotFound, id)
	}
	return customer, nil
}

func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.emailIndex[email]
	if !exists {
		return domain.Customer{}, fmt.Errorf("%w: email %s", repository.ErrNotFound, email)
	}
	return r.customers[id], nil
}

func (r *CustomerRepository) Update(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.customers[customer.ID]
	if !exists {
		return domain.Customer{}, fmt.Errorf("%w: customer %s", repository.ErrNotFound, customer.ID)
	}

	if existing.Email != customer.Email {
		if _, taken := r.emailIndex[customer.Email]; taken {
			return domain.Customer{}, fmt.Errorf("%w: email %s", repository.ErrDuplicate, customer.Email)
		}
		delete(r.emailIndex, existing.Email)
		r.emailIndex[customer.Email] = customer.ID
	}

	r.customers[customer.ID] = customer
	return customer, nil
}
