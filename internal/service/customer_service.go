package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"banking_core/internal/domain"
	"banking_core/internal/repository"
)

type CustomerService struct {
	customers repository.CustomerRepository
	logger    *slog.Logger
}

func NewCustomerService(customers repository.CustomerRepository, logger *slog.Logger) *CustomerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CustomerService{customers: customers, logger: logger}
}

type CreateCustomerInput struct {
	Name        string
	Email       string
	PhoneNumber string
	Address     string
	DateOfBirth string
}

func (s *CustomerService) CreateCustomer(ctx context.Context, input CreateCustomerInput) (domain.Customer, error) {
	if input.Name == "" || input.Email == "" {
		return domain.Customer{}, domain.InvalidCustomerData("name and email are required")
	}

	customer := domain.Customer{
		Name:        input.Name,
		Email:       input.Email,
		PhoneNumber: input.PhoneNumber,
		Address:     input.Address,
		DateOfBirth: input.DateOfBirth,
	}

	saved, err := s.customers.Save(ctx, customer)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.Customer{}, domain.CustomerAlreadyExists(input.Email)
		}
		return domain.Customer{}, fmt.Errorf("save customer: %w", err)
	}

	s.logger.InfoContext(ctx, "customer created", slog.String("customer_id", saved.ID))
	return saved, nil
}

// UpdateCustomerInput carries only the fields to change; nil fields
// keep their stored value.
type UpdateCustomerInput struct {
	Name        *string
	Email       *string
	PhoneNumber *string
	Address     *string
	DateOfBirth *string
}

func (u UpdateCustomerInput) isEmpty() bool {
	return u.Name == nil && u.Email == nil && u.PhoneNumber == nil && u.Address == nil && u.DateOfBirth == nil
}

func (s *CustomerService) UpdateCustomer(ctx context.Context, customerID string, input UpdateCustomerInput) (domain.Customer, error) {
	if input.isEmpty() {
		return domain.Customer{}, domain.InvalidCustomerData("no fields to update")
	}

	existing, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Customer{}, domain.CustomerNotFound(customerID)
		}
		return domain.Customer{}, err
	}

	if input.Email != nil && *input.Email != existing.Email {
		if _, err := s.customers.FindByEmail(ctx, *input.Email); err == nil {
			return domain.Customer{}, domain.CustomerAlreadyExists(*input.Email)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return domain.Customer{}, err
		}
	}

	updated := existing
	if input.Name != nil {
		updated.Name = *input.Name
	}
	if input.Email != nil {
		updated.Email = *input.Email
	}
	if input.PhoneNumber != nil {
		updated.PhoneNumber = *input.PhoneNumber
	}
	if input.Address != nil {
		updated.Address = *input.Address
	}
	if input.DateOfBirth != nil {
		updated.DateOfBirth = *input.DateOfBirth
	}

	saved, err := s.customers.Update(ctx, updated)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("update customer: %w", err)
	}

	s.logger.InfoContext(ctx, "customer updated", slog.String("customer_id", customerID))
	return saved, nil
}
