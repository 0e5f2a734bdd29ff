// Package payment содержит бизнес-логику платёжного цикла с ручной
// проверкой: подача заявки пользователем и решения администратора.
package payment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/consultation-aggregator/internal/models"
	"github.com/magabrotheeeer/consultation-aggregator/internal/storage/repository"
)

// Repository определяет методы для работы с платежами в хранилище.
type Repository interface {
	// GetUserByEmail возвращает пользователя или ErrUserNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// ExistsPaymentByTransactionID сообщает, подавалась ли уже такая транзакция.
	ExistsPaymentByTransactionID(ctx context.Context, transactionID string) (bool, error)
	// CreatePayment сохраняет заявку со статусом pending и возвращает её ID.
	CreatePayment(ctx context.Context, transactionID, userEmail, amount string) (int, error)
	// ListPayments возвращает все заявки, новые первыми.
	ListPayments(ctx context.Context) ([]*models.Payment, error)
	// ApprovePayment одобряет заявку и выдаёт плательщику премиум.
	ApprovePayment(ctx context.Context, id int, adminEmail string) error
	// RejectPayment отклоняет заявку с причиной, не трогая пользователя.
	RejectPayment(ctx context.Context, id int, adminEmail, reason string) error
}

// Service реализует платёжный цикл поверх хранилища.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Submit регистрирует заявку пользователя на оплату для ручной проверки.
// Повтор transaction_id возвращает ErrPaymentExists и новой строки не создаёт.
func (s *Service) Submit(ctx context.Context, email string, req models.SubmitPaymentRequest) (int, error) {
	const op = "services.payment.Submit"

	if _, err := s.repo.GetUserByEmail(ctx, email); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	exists, err := s.repo.ExistsPaymentByTransactionID(ctx, req.TransactionID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return 0, fmt.Errorf("%s: %w", op, repository.ErrPaymentExists)
	}

	id, err := s.repo.CreatePayment(ctx, req.TransactionID, email, req.Amount)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("payment submitted",
		slog.Int("payment_id", id), slog.String("user", email))
	return id, nil
}

// List возвращает все заявки на оплату для панели администратора.
func (s *Service) List(ctx context.Context) ([]*models.Payment, error) {
	return s.repo.ListPayments(ctx)
}

// Approve одобряет заявку от имени администратора. Переход выполняется
// хранилищем условно, повторная обработка возвращает ErrPaymentAlreadyProcessed.
func (s *Service) Approve(ctx context.Context, adminEmail string, paymentID int) error {
	if err := s.repo.ApprovePayment(ctx, paymentID, adminEmail); err != nil {
		return err
	}
	s.log.Info("payment approved",
		slog.Int("payment_id", paymentID), slog.String("admin", adminEmail))
	return nil
}

// Reject отклоняет заявку с указанием причины. Запись пользователя не меняется.
func (s *Service) Reject(ctx context.Context, adminEmail string, paymentID int, reason string) error {
	if err := s.repo.RejectPayment(ctx, paymentID, adminEmail, reason); err != nil {
		return err
	}
	s.log.Info("payment rejected",
		slog.Int("payment_id", paymentID), slog.String("admin", adminEmail))
	return nil
}
