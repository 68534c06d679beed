package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"banking_core/internal/clock"
	"banking_core/internal/domain"
	"banking_core/internal/repository/memory"
)

func newAccountService(t *testing.T) (*AccountService, *memory.AccountRepository, *memory.CardRepository, *memory.CardTypeRepository) {
	t.Helper()
	accounts := memory.NewAccountRepository()
	cards := memory.NewCardRepository()
	cardTypes := memory.NewCardTypeRepository()
	fixed := &clock.Fixed{Time: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)}
	return NewAccountService(accounts, cards, cardTypes, fixed, nil), accounts, cards, cardTypes
}

func TestAccountService_CreateAccount(t *testing.T) {
	ctx := context.Background()
	svc, accounts, _, _ := newAccountService(t)

	created, err := svc.CreateAccount(ctx, CreateAccountInput{
		CustomerID:     "c1",
		AccountType:    domain.AccountSavings,
		InitialBalance: decimal.NewFromInt(100_000),
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created.AccountNumber) != 10 {
		t.Errorf("expected 10-digit account number, got %q", created.AccountNumber)
	}
	if !created.DailyTransferLimit.Equal(decimal.NewFromInt(5_000_000)) {
		t.Errorf("expected default transfer limit 5000000, got %s", created.DailyTransferLimit)
	}
	if !created.DailyWithdrawLimit.Equal(decimal.NewFromInt(10_000_000)) {
		t.Errorf("expected default withdraw limit 10000000, got %s", created.DailyWithdrawLimit)
	}

	stored, err := accounts.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !stored.Balance.Equal(decimal.NewFromInt(100_000)) {
		t.Errorf("expected stored balance 100000, got %s", stored.Balance)
	}
}

func TestAccountService_CreateAccount_NegativeBalance(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newAccountService(t)

	_, err := svc.CreateAccount(ctx, CreateAccountInput{
		CustomerID:     "c1",
		AccountType:    domain.AccountSavings,
		InitialBalance: decimal.NewFromInt(-1),
	})

	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAccountService_AssignCard(t *testing.T) {
	ctx := context.Background()
	svc, accounts, _, cardTypes := newAccountService(t)

	account, _ := accounts.Save(ctx, domain.Account{AccountNumber: "1234567890", CustomerID: "c1"})
	cardType, _ := cardTypes.Save(ctx, domain.CardType{Name: "Gold"})

	card, err := svc.AssignCard(ctx, account.ID, cardType.ID, 1234)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !card.Active {
		t.Error("expected card to be active")
	}
	if card.ExpiredDate != "2029-09-01" {
		t.Errorf("expected expiry three years out, got %s", card.ExpiredDate)
	}
	if len(card.CardNumber) != 10 {
		t.Errorf("expected 10-digit card number, got %q", card.CardNumber)
	}
}

func TestAccountService_AssignCard_UnknownCardType(t *testing.T) {
	ctx := context.Background()
	svc, accounts, _, _ := newAccountService(t)

	account, _ := accounts.Save(ctx, domain.Account{AccountNumber: "1234567890", CustomerID: "c1"})

	_, err := svc.AssignCard(ctx, account.ID, "missing", 1234)

	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAccountService_UpdatePIN(t *testing.T) {
	ctx := context.Background()
	svc, accounts, cards, cardTypes := newAccountService(t)

	account, _ := accounts.Save(ctx, domain.Account{AccountNumber: "1234567890", CustomerID: "c1"})
	cardType, _ := cardTypes.Save(ctx, domain.CardType{Name: "Gold"})
	if _, err := svc.AssignCard(ctx, account.ID, cardType.ID, 1234); err != nil {
		t.Fatalf("assign card: %v", err)
	}

	if err := svc.UpdatePIN(ctx, account.ID, 9999, 4321); !errors.Is(err, domain.ErrAuthentication) {
		t.Fatalf("expected authentication error on wrong old PIN, got %v", err)
	}

	if err := svc.UpdatePIN(ctx, account.ID, 1234, 4321); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	card, _ := cards.FindByAccountID(ctx, account.ID)
	if card.PIN != 4321 {
		t.Errorf("expected PIN 4321, got %d", card.PIN)
	}
}

func TestCustomerService_CreateAndDuplicate(t *testing.T) {
	ctx := context.Background()
	svc := NewCustomerService(memory.NewCustomerRepository(), nil)

	created, err := svc.CreateCustomer(ctx, CreateCustomerInput{Name: "Ayu", Email: "ayu@example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated customer ID")
	}

	_, err = svc.CreateCustomer(ctx, CreateCustomerInput{Name: "Other", Email: "ayu@example.com"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for duplicate email, got %v", err)
	}
}

func TestCustomerService_CreateCustomer_MissingFields(t *testing.T) {
	ctx := context.Background()
	svc := NewCustomerService(memory.NewCustomerRepository(), nil)

	_, err := svc.CreateCustomer(ctx, CreateCustomerInput{Name: "NoEmail"})

	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCustomerService_UpdateCustomer(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewCustomerRepository()
	svc := NewCustomerService(repo, nil)

	created, _ := svc.CreateCustomer(ctx, CreateCustomerInput{Name: "Ayu", Email: "ayu@example.com", PhoneNumber: "0811111111"})

	if _, err := svc.UpdateCustomer(ctx, created.ID, UpdateCustomerInput{}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for empty update, got %v", err)
	}

	newName := "Ayu Lestari"
	updated, err := svc.UpdateCustomer(ctx, created.ID, UpdateCustomerInput{Name: &newName})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "Ayu Lestari" {
		t.Errorf("expected updated name, got %s", updated.Name)
	}
	if updated.PhoneNumber != "0811111111" {
		t.Errorf("expected phone number preserved, got %s", updated.PhoneNumber)
	}

	other, _ := svc.CreateCustomer(ctx, CreateCustomerInput{Name: "Budi", Email: "budi@example.com"})
	takenEmail := "ayu@example.com"
	if _, err := svc.UpdateCustomer(ctx, other.ID, UpdateCustomerInput{Email: &takenEmail}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for taken email, got %v", err)
	}
}

func TestCardTypeService_CreateCardType(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewCardTypeRepository()
	svc := NewCardTypeService(repo, nil)

	created, err := svc.CreateCardType(ctx, CreateCardTypeInput{
		Name:               "Platinum",
		MonthlyPrice:       decimal.NewFromInt(100_000),
		DailyTransferLimit: decimal.NewFromInt(100_000_000),
		DailyWithdrawLimit: decimal.NewFromInt(20_000_000),
		DailyDepositLimit:  decimal.NewFromInt(50_000_000),
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated card type ID")
	}

	all, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected 1 card type, got %d", len(all))
	}
}

func TestNotificationService_DeliversQueuedMessages(t *testing.T) {
	ctx := context.Background()
	email := &MockEmailService{}
	sms := &MockSMSService{}
	svc := NewNotificationService(email, sms, 2, nil)

	tx := domain.Transaction{
		ID:     "tx1",
		Type:   domain.TypeTransfer,
		Amount: decimal.NewFromInt(250_000),
		Date:   "2026-09-01",
	}

	if err := svc.SendTransactionNotice(ctx, tx, "ayu@example.com", NotificationEmail); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.SendLimitAlert(ctx, "ayu@example.com", "1234567890", domain.TypeCardTransfer,
		decimal.NewFromInt(55_000_000), decimal.NewFromInt(50_000_000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := svc.Shutdown(shutdownCtx); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	if email.Count() != 2 {
		t.Errorf("expected 2 emails delivered, got %d", email.Count())
	}
	if sms.Count() != 0 {
		t.Errorf("expected no SMS delivered, got %d", sms.Count())
	}
}
