package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"banking_core/internal/domain"
	"banking_core/pkg/money"
)

type NotificationType string

const (
	NotificationEmail NotificationType = "email"
	NotificationSMS   NotificationType = "sms"
)

// NotificationService queues customer-facing notices about applied and
// rejected operations and delivers them from a worker pool.
type NotificationService struct {
	emailService EmailService
	smsService   SMSService
	messageQueue chan NotificationMessage
	workers      int
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	wg           sync.WaitGroup
	logger       *slog.Logger
}

type NotificationMessage struct {
	Type      NotificationType
	Recipient string
	Subject   string
	Message   string
	Metadata  map[string]string
	CreatedAt time.Time
}

type EmailService interface {
	SendEmail(to, subject, body string) error
}

type SMSService interface {
	SendSMS(to, message string) error
}

func NewNotificationService(
	emailService EmailService,
	smsService SMSService,
	workers int,
	logger *slog.Logger,
) *NotificationService {
	if logger == nil {
		logger = slog.Default()
	}

	service := &NotificationService{
		emailService: emailService,
		smsService:   smsService,
		messageQueue: make(chan NotificationMessage, 1000),
		workers:      workers,
		shutdownChan: make(chan struct{}),
		logger:       logger,
	}

	service.startWorkers()

	return service
}

// SendTransactionNotice queues a notice about one applied transaction.
func (s *NotificationService) SendTransactionNotice(
	ctx context.Context,
	tx domain.Transaction,
	recipient string,
	notificationType NotificationType,
) error {
	var subject, message string

	switch tx.Type {
	case domain.TypeMonthlyCharge:
		subject = "Monthly Card Charge"
		message = fmt.Sprintf("A monthly card fee of %s was charged to your account.", money.Format(tx.Amount))
	case domain.TypeTransfer, domain.TypeCardTransfer:
		subject = "Transfer Completed"
		message = fmt.Sprintf("Your transfer of %s has been completed.", money.Format(tx.Amount))
	case domain.TypeWithdraw, domain.TypeCardWithdraw:
		subject = "Withdrawal Completed"
		message = fmt.Sprintf("Your withdrawal of %s has been completed.", money.Format(tx.Amount))
	default:
		subject = "Deposit Completed"
		message = fmt.Sprintf("Your deposit of %s has been completed.", money.Format(tx.Amount))
	}

	notification := NotificationMessage{
		Type:      notificationType,
		Recipient: recipient,
		Subject:   subject,
		Message:   message,
		Metadata: map[string]string{
			"transaction_id":   tx.ID,
			"transaction_type": string(tx.Type),
			"date":             tx.Date,
		},
		CreatedAt: time.Now(),
	}

	select {
	case s.messageQueue <- notification:
		s.logger.Info("notification queued",
			slog.String("type", string(notificationType)),
			slog.String("recipient", recipient),
			slog.String("transaction_id", tx.ID))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SendLimitAlert queues an alert when a daily ceiling rejected an
// operation, carrying the would-be total and the configured limit.
func (s *NotificationService) SendLimitAlert(
	ctx context.Context,
	recipient string,
	accountNumber string,
	channel domain.TransactionType,
	total, limit decimal.Decimal,
) error {
	notification := NotificationMessage{
		Type:      NotificationEmail,
		Recipient: recipient,
		Subject:   fmt.Sprintf("Daily %s Limit Reached", channel),
		Message: fmt.Sprintf(
			"An operation on account %s was declined: the daily %s total would reach %s against a limit of %s.",
			accountNumber, channel, money.Format(total), money.Format(limit),
		),
		Metadata: map[string]string{
			"account_number": accountNumber,
			"channel":        string(channel),
		},
		CreatedAt: time.Now(),
	}

	select {
	case s.messageQueue <- notification:
		s.logger.Warn("limit alert queued",
			slog.String("account_number", accountNumber),
			slog.String("channel", string(channel)))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *NotificationService) startWorkers() {
	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}
}

func (s *NotificationService) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case msg := <-s.messageQueue:
			s.processNotification(msg, id)
		case <-s.shutdownChan:
			// Drain whatever was queued before the shutdown signal.
			for {
				select {
				case msg := <-s.messageQueue:
					s.processNotification(msg, id)
				default:
					return
				}
			}
		}
	}
}

func (s *NotificationService) processNotification(msg NotificationMessage, workerID int) {
	var err error

	switch msg.Type {
	case NotificationEmail:
		err = s.emailService.SendEmail(msg.Recipient, msg.Subject, msg.Message)
	case NotificationSMS:
		err = s.smsService.SendSMS(msg.Recipient, msg.Message)
	default:
		err = fmt.Errorf("unknown notification type: %s", msg.Type)
	}

	if err != nil {
		s.logger.Error("failed to send notification",
			slog.String("type", string(msg.Type)),
			slog.String("recipient", msg.Recipient),
			slog.String("error", err.Error()),
			slog.Int("worker_id", workerID))
		return
	}

	s.logger.Info("notification sent",
		slog.String("type", string(msg.Type)),
		slog.String("recipient", msg.Recipient),
		slog.Int("worker_id", workerID))
}

// Shutdown stops the workers after they drain the queue. Safe to call
// more than once.
func (s *NotificationService) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() { close(s.shutdownChan) })

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("notification service shutdown complete")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type MockEmailService struct {
	mu         sync.Mutex
	SentEmails []struct {
		To      string
		Subject string
		Body    string
	}
}

func (m *MockEmailService) SendEmail(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SentEmails = append(m.SentEmails, struct {
		To      string
		Subject string
		Body    string
	}{to, subject, body})
	return nil
}

func (m *MockEmailService) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SentEmails)
}

type MockSMSService struct {
	mu      sync.Mutex
	SentSMS []struct {
		To      string
		Message string
	}
}

func (m *MockSMSService) SendSMS(to, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SentSMS = append(m.SentSMS, struct {
		To      string
		Message string
	}{to, message})
	return nil
}

func (m *MockSMSService) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SentSMS)
}
