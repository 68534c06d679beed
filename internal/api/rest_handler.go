package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"banking_core/internal/domain"
	"banking_core/internal/engine"
	"banking_core/internal/repository"
	"banking_core/internal/service"
	"banking_core/pkg/crypto"
	"banking_core/pkg/metrics"
	"banking_core/pkg/validator"
)

type APIHandler struct {
	engine         *engine.TransactionEngine
	customers      repository.CustomerRepository
	notifications  *service.NotificationService
	metrics        *metrics.MetricsCollector
	signer         *crypto.Signer
	validator      *validator.RequestValidator
	logger         *slog.Logger
	requestTimeout time.Duration
}

func NewAPIHandler(
	eng *engine.TransactionEngine,
	customers repository.CustomerRepository,
	notifications *service.NotificationService,
	collector *metrics.MetricsCollector,
	signer *crypto.Signer,
	logger *slog.Logger,
) *APIHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &APIHandler{
		engine:         eng,
		customers:      customers,
		notifications:  notifications,
		metrics:        collector,
		signer:         signer,
		validator:      validator.NewRequestValidator(),
		logger:         logger,
		requestTimeout: 30 * time.Second,
	}
}

type OperationRequest struct {
	Type                     domain.TransactionType `json:"type"`
	OriginAccountNumber      string                 `json:"origin_account_number"`
	DestinationAccountNumber string                 `json:"destination_account_number,omitempty"`
	Amount                   string                 `json:"amount,omitempty"`
	PIN                      int                    `json:"pin,omitempty"`
	Timestamp                int64                  `json:"timestamp,omitempty"`
	Signature                string                 `json:"signature,omitempty"`
}

type OperationResponse struct {
	TransactionID string                 `json:"transaction_id"`
	Type          domain.TransactionType `json:"type"`
	AccountID     string                 `json:"account_id"`
	Amount        string                 `json:"amount"`
	Date          string                 `json:"date"`
	Message       string                 `json:"message,omitempty"`
}

type DailyTotalResponse struct {
	AccountNumber string                 `json:"account_number"`
	Channel       domain.TransactionType `json:"channel"`
	Date          string                 `json:"date"`
	Total         string                 `json:"total"`
}

type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}

func (h *APIHandler) CreateOperationHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	var req OperationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "Invalid request body", http.StatusBadRequest, "INVALID_REQUEST", nil)
		return
	}

	amount, err := h.validator.ValidateOperation(validator.OperationRequest{
		Type:                     req.Type,
		OriginAccountNumber:      req.OriginAccountNumber,
		DestinationAccountNumber: req.DestinationAccountNumber,
		Amount:                   req.Amount,
		PIN:                      req.PIN,
	})
	if err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest, "VALIDATION_ERROR", nil)
		return
	}

	if req.Signature != "" {
		valid, verr := h.signer.VerifyRequest(req.OriginAccountNumber, req.Amount, req.Timestamp, req.Signature)
		if verr != nil || !valid {
			h.sendError(w, "Invalid request signature", http.StatusUnauthorized, "INVALID_SIGNATURE", nil)
			return
		}
	}

	var tx domain.Transaction
	switch req.Type {
	case domain.TypeCardTransfer:
		tx, err = h.engine.SendMoneyUsingCard(ctx, req.OriginAccountNumber, req.DestinationAccountNumber, amount, req.PIN)
	case domain.TypeTransfer:
		tx, err = h.engine.SendMoneyViaTeller(ctx, req.OriginAccountNumber, req.DestinationAccountNumber, amount)
	case domain.TypeCardWithdraw:
		tx, err = h.engine.WithdrawMoneyUsingCard(ctx, req.OriginAccountNumber, amount, req.PIN)
	case domain.TypeWithdraw:
		tx, err = h.engine.WithdrawMoneyViaTeller(ctx, req.OriginAccountNumber, amount)
	case domain.TypeCardDeposit:
		tx, err = h.engine.DepositMoneyUsingCard(ctx, req.OriginAccountNumber, amount, req.PIN)
	case domain.TypeDeposit:
		tx, err = h.engine.DepositMoneyViaTeller(ctx, req.OriginAccountNumber, amount)
	case domain.TypeMonthlyCharge:
		tx, err = h.engine.ApplyCardMonthlyCharge(ctx, req.OriginAccountNumber)
	default:
		h.sendError(w, "Unknown operation type", http.StatusBadRequest, "VALIDATION_ERROR", nil)
		return
	}

	duration := time.Since(startTime)

	if err != nil {
		status, code, contextData := h.classifyError(err)
		h.metrics.RecordRejected(string(req.Type), code, duration)
		h.logger.WarnContext(ctx, "operation rejected",
			slog.String("type", string(req.Type)),
			slog.String("origin_account", req.OriginAccountNumber),
			slog.String("error", err.Error()))
		h.sendError(w, err.Error(), status, code, contextData)
		return
	}

	h.metrics.RecordApplied(string(req.Type), duration)
	h.publishBalance(ctx, req.OriginAccountNumber)
	if req.DestinationAccountNumber != "" {
		h.publishBalance(ctx, req.DestinationAccountNumber)
	}
	h.notifyCustomer(ctx, req.OriginAccountNumber, tx)

	h.sendJSON(w, OperationResponse{
		TransactionID: tx.ID,
		Type:          tx.Type,
		AccountID:     tx.AccountID,
		Amount:        tx.Amount.String(),
		Date:          tx.Date,
		Message:       "Operation applied successfully",
	}, http.StatusCreated)

	h.logger.InfoContext(ctx, "operation applied",
		slog.String("transaction_id", tx.ID),
		slog.String("type", string(tx.Type)),
		slog.String("origin_account", req.OriginAccountNumber))
}

func (h *APIHandler) GetTransactionHandler(w http.ResponseWriter, r *http.Request) {
	transactionID := r.URL.Query().Get("id")
	if transactionID == "" {
		h.sendError(w, "Transaction ID is required", http.StatusBadRequest, "MISSING_ID", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	tx, err := h.engine.Transaction(ctx, transactionID)
	if err != nil {
		status, code, contextData := h.classifyError(err)
		h.sendError(w, err.Error(), status, code, contextData)
		return
	}

	h.sendJSON(w, tx, http.StatusOK)
}

// GetDailyTotalHandler reports how much of a channel's daily allowance
// an account has already consumed.
func (h *APIHandler) GetDailyTotalHandler(w http.ResponseWriter, r *http.Request) {
	accountNumber := r.URL.Query().Get("account_number")
	if accountNumber == "" {
		h.sendError(w, "Account number is required", http.StatusBadRequest, "MISSING_ACCOUNT_NUMBER", nil)
		return
	}
	channel := domain.TransactionType(r.URL.Query().Get("channel"))

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	account, err := h.engine.AccountByNumber(ctx, accountNumber)
	if err != nil {
		status, code, contextData := h.classifyError(err)
		h.sendError(w, err.Error(), status, code, contextData)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	var total decimal.Decimal
	switch channel {
	case domain.TypeCardTransfer:
		total, err = h.engine.TotalDailyCardTransfer(ctx, account.ID, date)
	case domain.TypeTransfer:
		total, err = h.engine.TotalDailyTransfer(ctx, account.ID, date)
	case domain.TypeCardWithdraw:
		total, err = h.engine.TotalDailyCardWithdraw(ctx, account.ID, date)
	case domain.TypeWithdraw:
		total, err = h.engine.TotalDailyWithdraw(ctx, account.ID, date)
	case domain.TypeCardDeposit:
		total, err = h.engine.TotalDailyCardDeposit(ctx, account.ID, date)
	case domain.TypeDeposit:
		total, err = h.engine.TotalDailyDeposit(ctx, account.ID, date)
	default:
		h.sendError(w, "Unknown channel", http.StatusBadRequest, "INVALID_CHANNEL", nil)
		return
	}
	if err != nil {
		h.sendError(w, "Failed to compute daily total", http.StatusInternalServerError, "SERVER_ERROR", nil)
		return
	}

	h.sendJSON(w, DailyTotalResponse{
		AccountNumber: accountNumber,
		Channel:       channel,
		Date:          date,
		Total:         total.String(),
	}, http.StatusOK)
}

func (h *APIHandler) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   "1.0.0",
	}
	h.sendJSON(w, response, http.StatusOK)
}

// classifyError maps the domain error taxonomy onto HTTP statuses.
// Anything that is not a *domain.Error is an internal failure.
func (h *APIHandler) classifyError(err error) (int, string, map[string]any) {
	var domErr *domain.Error
	if !errors.As(err, &domErr) {
		return http.StatusInternalServerError, "SERVER_ERROR", nil
	}

	switch domErr.Kind {
	case domain.KindValidation, domain.KindArithmeticPolicy:
		return http.StatusBadRequest, domErr.Code, domErr.Context
	case domain.KindAuthentication:
		return http.StatusUnauthorized, domErr.Code, domErr.Context
	case domain.KindNotFound:
		return http.StatusNotFound, domErr.Code, domErr.Context
	case domain.KindInsufficientFunds, domain.KindLimitExceeded:
		return http.StatusConflict, domErr.Code, domErr.Context
	default:
		return http.StatusInternalServerError, domErr.Code, domErr.Context
	}
}

func (h *APIHandler) publishBalance(ctx context.Context, accountNumber string) {
	account, err := h.engine.AccountByNumber(ctx, accountNumber)
	if err != nil {
		return
	}
	h.metrics.UpdateAccountBalance(account.AccountNumber, account.Balance.InexactFloat64())
}

// notifyCustomer queues a best-effort notice to the account owner; a
// missing customer or full queue never fails the operation.
func (h *APIHandler) notifyCustomer(ctx context.Context, accountNumber string, tx domain.Transaction) {
	if h.notifications == nil {
		return
	}

	account, err := h.engine.AccountByNumber(ctx, accountNumber)
	if err != nil {
		return
	}
	customer, err := h.customers.FindByID(ctx, account.CustomerID)
	if err != nil {
		return
	}

	if err := h.notifications.SendTransactionNotice(ctx, tx, customer.Email, service.NotificationEmail); err != nil {
		h.logger.WarnContext(ctx, "notification not queued",
			slog.String("transaction_id", tx.ID),
			slog.String("error", err.Error()))
	}
}

func (h *APIHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", slog.String("error", err.Error()))
	}
}

func (h *APIHandler) sendError(w http.ResponseWriter, message string, statusCode int, code string, contextData map[string]any) {
	errorResponse := ErrorResponse{
		Error:   message,
		Code:    code,
		Context: contextData,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(errorResponse)

	h.logger.Warn("API error response",
		slog.String("message", message),
		slog.String("code", code),
		slog.Int("status", statusCode))
}

func (h *APIHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/operations", h.CreateOperationHandler)
	mux.HandleFunc("GET /api/v1/transactions", h.GetTransactionHandler)
	mux.HandleFunc("GET /api/v1/accounts/daily-total", h.GetDailyTotalHandler)
	mux.HandleFunc("GET /api/health", h.HealthCheckHandler)
}
