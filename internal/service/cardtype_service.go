package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"banking_core/internal/domain"
	"banking_core/internal/repository"
)

type CardTypeService struct {
	cardTypes repository.CardTypeRepository
	logger    *slog.Logger
}

func NewCardTypeService(cardTypes repository.CardTypeRepository, logger *slog.Logger) *CardTypeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CardTypeService{cardTypes: cardTypes, logger: logger}
}

type CreateCardTypeInput struct {
	Name               string
	Description        string
	MonthlyPrice       decimal.Decimal
	DailyTransferLimit decimal.Decimal
	DailyWithdrawLimit decimal.Decimal
	DailyDepositLimit  decimal.Decimal
	MinimumBalance     decimal.Decimal
}

func (s *CardTypeService) CreateCardType(ctx context.Context, input CreateCardTypeInput) (domain.CardType, error) {
	cardType := domain.CardType{
		Name:               input.Name,
		Description:        input.Description,
		MonthlyPrice:       input.MonthlyPrice,
		DailyTransferLimit: input.DailyTransferLimit,
		DailyWithdrawLimit: input.DailyWithdrawLimit,
		DailyDepositLimit:  input.DailyDepositLimit,
		MinimumBalance:     input.MinimumBalance,
	}

	saved, err := s.cardTypes.Save(ctx, cardType)
	if err != nil {
		return domain.CardType{}, fmt.Errorf("save card type: %w", err)
	}

	s.logger.InfoContext(ctx, "card type created", slog.String("name", saved.Name))
	return saved, nil
}
