package internal_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"banking_core/internal/api"
	"banking_core/internal/clock"
	"banking_core/internal/domain"
	"banking_core/internal/engine"
	"banking_core/internal/repository/memory"
	"banking_core/internal/service"
	"banking_core/pkg/crypto"
	"banking_core/pkg/metrics"
)

type testEnv struct {
	accounts     *memory.AccountRepository
	cards        *memory.CardRepository
	cardTypes    *memory.CardTypeRepository
	transactions *memory.TransactionRepository
	customers    *memory.CustomerRepository

	clock         *clock.Fixed
	engine        *engine.TransactionEngine
	notifications *service.NotificationService
	email         *service.MockEmailService
	signer        *crypto.Signer
	handler       *api.APIHandler
	mux           *http.ServeMux
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	accounts := memory.NewAccountRepository()
	cards := memory.NewCardRepository()
	cardTypes := memory.NewCardTypeRepository()
	transactions := memory.NewTransactionRepository()
	customers := memory.NewCustomerRepository()
	fixed := &clock.Fixed{Time: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)}

	eng := engine.NewTransactionEngine(accounts, cards, cardTypes, transactions, fixed, nil)

	email := &service.MockEmailService{}
	notifications := service.NewNotificationService(email, &service.MockSMSService{}, 2, nil)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = notifications.Shutdown(ctx)
	})

	signer := crypto.NewSigner("test-secret", nil)
	handler := api.NewAPIHandler(eng, customers, notifications, metrics.NewMetricsCollector(nil), signer, nil)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	return &testEnv{
		accounts:      accounts,
		cards:         cards,
		cardTypes:     cardTypes,
		transactions:  transactions,
		customers:     customers,
		clock:         fixed,
		engine:        eng,
		notifications: notifications,
		email:         email,
		signer:        signer,
		handler:       handler,
		mux:           mux,
	}
}

func seedCardedAccount(t *testing.T, env *testEnv, number string, balance int64, pin int) domain.Account {
	t.Helper()
	ctx := context.Background()

	customer, err := env.customers.Save(ctx, domain.Customer{Name: "Holder " + number, Email: number + "@example.com"})
	if err != nil {
		t.Fatalf("save customer: %v", err)
	}

	account, err := env.accounts.Save(ctx, domain.Account{
		AccountNumber:      number,
		Balance:            decimal.NewFromInt(balance),
		AccountType:        domain.AccountSavings,
		CustomerID:         customer.ID,
		DailyTransferLimit: decimal.NewFromInt(5_000_000),
		DailyWithdrawLimit: decimal.NewFromInt(10_000_000),
	})
	if err != nil {
		t.Fatalf("save account: %v", err)
	}

	cardType, err := env.cardTypes.Save(ctx, domain.CardType{
		Name:               "Gold-" + number,
		MonthlyPrice:       decimal.NewFromInt(50_000),
		DailyTransferLimit: decimal.NewFromInt(50_000_000),
		DailyWithdrawLimit: decimal.NewFromInt(10_000_000),
		DailyDepositLimit:  decimal.NewFromInt(20_000_000),
	})
	if err != nil {
		t.Fatalf("save card type: %v", err)
	}

	if _, err := env.cards.Save(ctx, domain.Card{
		AccountID:  account.ID,
		CardNumber: domain.NewCardNumber(),
		PIN:        pin,
		CardTypeID: cardType.ID,
		Active:     true,
	}); err != nil {
		t.Fatalf("save card: %v", err)
	}

	return account
}

func postOperation(t *testing.T, env *testEnv, req api.OperationRequest) (*httptest.ResponseRecorder, api.OperationResponse, api.ErrorResponse) {
	t.Helper()

	b, _ := json.Marshal(req)
	r := httptest.NewRequest("POST", "/api/v1/operations", bytes.NewReader(b))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	env.mux.ServeHTTP(w, r)

	var ok api.OperationResponse
	var fail api.ErrorResponse
	body := w.Body.Bytes()
	if w.Code < 400 {
		_ = json.Unmarshal(body, &ok)
	} else {
		_ = json.Unmarshal(body, &fail)
	}
	return w, ok, fail
}

func TestAPI_CardTransferEndToEnd(t *testing.T) {
	env := setup(t)
	origin := seedCardedAccount(t, env, "1000000001", 1_000_000, 1234)
	destination := seedCardedAccount(t, env, "1000000002", 0, 5678)

	w, resp, _ := postOperation(t, env, api.OperationRequest{
		Type:                     domain.TypeCardTransfer,
		OriginAccountNumber:      "1000000001",
		DestinationAccountNumber: "1000000002",
		Amount:                   "250000",
		PIN:                      1234,
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if resp.TransactionID == "" {
		t.Fatal("expected transaction id in response")
	}
	if resp.Amount != "252500" {
		t.Errorf("expected fee-inclusive amount 252500, got %s", resp.Amount)
	}

	reloaded, _ := env.accounts.FindByID(context.Background(), origin.ID)
	if !reloaded.Balance.Equal(decimal.NewFromInt(747_500)) {
		t.Errorf("expected origin balance 747500, got %s", reloaded.Balance)
	}
	dest, _ := env.accounts.FindByID(context.Background(), destination.ID)
	if !dest.Balance.Equal(decimal.NewFromInt(250_000)) {
		t.Errorf("expected destination balance 250000, got %s", dest.Balance)
	}

	// The record is retrievable through the API.
	r := httptest.NewRequest("GET", "/api/v1/transactions?id="+resp.TransactionID, nil)
	w2 := httptest.NewRecorder()
	env.mux.ServeHTTP(w2, r)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200 on lookup, got %d", w2.Code)
	}
	var tx domain.Transaction
	if err := json.Unmarshal(w2.Body.Bytes(), &tx); err != nil {
		t.Fatalf("decode transaction: %v", err)
	}
	if tx.Type != domain.TypeCardTransfer {
		t.Errorf("expected TRANSFER_VIA_CARD, got %s", tx.Type)
	}
}

func TestAPI_DailyTotalEndpoint(t *testing.T) {
	env := setup(t)
	seedCardedAccount(t, env, "1000000001", 1_000_000, 1234)
	seedCardedAccount(t, env, "1000000002", 0, 5678)

	if w, _, fail := postOperation(t, env, api.OperationRequest{
		Type:                     domain.TypeCardTransfer,
		OriginAccountNumber:      "1000000001",
		DestinationAccountNumber: "1000000002",
		Amount:                   "250000",
		PIN:                      1234,
	}); w.Code != http.StatusCreated {
		t.Fatalf("transfer failed: %d %s", w.Code, fail.Error)
	}

	r := httptest.NewRequest("GET", "/api/v1/accounts/daily-total?account_number=1000000001&channel=TRANSFER_VIA_CARD&date=2026-09-01", nil)
	w := httptest.NewRecorder()
	env.mux.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp api.DailyTotalResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != "252500" {
		t.Errorf("expected total 252500, got %s", resp.Total)
	}
}

func TestAPI_ErrorStatusMapping(t *testing.T) {
	env := setup(t)
	seedCardedAccount(t, env, "1000000001", 100_000, 1234)
	seedCardedAccount(t, env, "1000000002", 0, 5678)

	cases := []struct {
		name       string
		req        api.OperationRequest
		wantStatus int
		wantCode   string
	}{
		{
			name: "insufficient funds conflict",
			req: api.OperationRequest{
				Type:                domain.TypeWithdraw,
				OriginAccountNumber: "1000000001",
				Amount:              "150000",
			},
			wantStatus: http.StatusConflict,
			wantCode:   "INSUFFICIENT_BALANCE",
		},
		{
			name: "wrong PIN unauthorized",
			req: api.OperationRequest{
				Type:                domain.TypeCardWithdraw,
				OriginAccountNumber: "1000000001",
				Amount:              "50000",
				PIN:                 9999,
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "INVALID_PIN",
		},
		{
			name: "unknown account not found",
			req: api.OperationRequest{
				Type:                domain.TypeDeposit,
				OriginAccountNumber: "9999999999",
				Amount:              "100",
			},
			wantStatus: http.StatusNotFound,
			wantCode:   "ACCOUNT_NOT_FOUND",
		},
		{
			name: "inexact fee bad request",
			req: api.OperationRequest{
				Type:                     domain.TypeCardTransfer,
				OriginAccountNumber:      "1000000001",
				DestinationAccountNumber: "1000000002",
				Amount:                   "50050",
				PIN:                      1234,
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INEXACT_FEE_DIVISION",
		},
		{
			name: "shape problem rejected before the engine",
			req: api.OperationRequest{
				Type:                domain.TypeDeposit,
				OriginAccountNumber: "123",
				Amount:              "100",
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, _, fail := postOperation(t, env, tc.req)
			if w.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tc.wantStatus, w.Code, w.Body.String())
			}
			if fail.Code != tc.wantCode {
				t.Errorf("expected code %s, got %s", tc.wantCode, fail.Code)
			}
		})
	}
}

func TestAPI_SignatureVerification(t *testing.T) {
	env := setup(t)
	seedCardedAccount(t, env, "1000000001", 1_000_000, 1234)

	timestamp := time.Now().Unix()
	signature := env.signer.SignRequest("1000000001", "100000", timestamp)

	w, _, _ := postOperation(t, env, api.OperationRequest{
		Type:                domain.TypeDeposit,
		OriginAccountNumber: "1000000001",
		Amount:              "100000",
		Timestamp:           timestamp,
		Signature:           signature,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected signed request to pass, got %d: %s", w.Code, w.Body.String())
	}

	w, _, fail := postOperation(t, env, api.OperationRequest{
		Type:                domain.TypeDeposit,
		OriginAccountNumber: "1000000001",
		Amount:              "100000",
		Timestamp:           timestamp,
		Signature:           "tampered",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad signature, got %d", w.Code)
	}
	if fail.Code != "INVALID_SIGNATURE" {
		t.Errorf("expected INVALID_SIGNATURE, got %s", fail.Code)
	}
}

func TestAPI_NotifiesAccountHolder(t *testing.T) {
	env := setup(t)
	seedCardedAccount(t, env, "1000000001", 1_000_000, 1234)

	w, _, _ := postOperation(t, env, api.OperationRequest{
		Type:                domain.TypeWithdraw,
		OriginAccountNumber: "1000000001",
		Amount:              "100000",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("withdrawal failed: %d", w.Code)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := env.notifications.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	if env.email.Count() != 1 {
		t.Errorf("expected one email notice, got %d", env.email.Count())
	}
}

func TestAPI_HealthCheck(t *testing.T) {
	env := setup(t)

	r := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()
	env.mux.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
