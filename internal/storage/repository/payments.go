package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/consultation-aggregator/internal/models"
)

const paymentColumns = `id, transaction_id, user_email, amount, status,
			      created_at, approved_at, approved_by, rejection_reason`

func scanPayment(scan func(dest ...any) error) (*models.Payment, error) {
	p := &models.Payment{}
	var approvedAt sql.NullTime
	var approvedBy, rejectionReason sql.NullString
	if err := scan(&p.ID, &p.TransactionID, &p.UserEmail, &p.Amount, &p.Status,
		&p.CreatedAt, &approvedAt, &approvedBy, &rejectionReason); err != nil {
		return nil, err
	}
	if approvedAt.Valid {
		p.ApprovedAt = &approvedAt.Time
	}
	p.ApprovedBy = approvedBy.String
	p.RejectionReason = rejectionReason.String
	return p, nil
}

// CreatePayment сохраняет новую заявку на оплату со статусом pending
// и возвращает её ID. Повтор transaction_id возвращает ErrPaymentExists:
// уникальный индекс закрывает гонку двух одновременных отправок.
func (s *Storage) CreatePayment(ctx context.Context, transactionID, userEmail, amount string) (int, error) {
	const op = "storage.CreatePayment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO payments (transaction_id, user_email, amount, status)
			  VALUES ($1, $2, $3, 'pending')
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query, transactionID, userEmail, amount).Scan(&newID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, fmt.Errorf("%s: %w", op, ErrPaymentExists)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ExistsPaymentByTransactionID сообщает, была ли уже подана заявка
// с таким transaction_id.
func (s *Storage) ExistsPaymentByTransactionID(ctx context.Context, transactionID string) (bool, error) {
	const op = "storage.ExistsPaymentByTransactionID"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id FROM payments WHERE transaction_id = $1`
	var id int
	err := s.DB.QueryRowContext(ctx, query, transactionID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// ListPayments возвращает все заявки на оплату, новые первыми.
func (s *Storage) ListPayments(ctx context.Context) ([]*models.Payment, error) {
	const op = "storage.ListPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + paymentColumns + `
			  FROM payments
			  ORDER BY id DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetPayment возвращает заявку на оплату по её ID.
func (s *Storage) GetPayment(ctx context.Context, id int) (*models.Payment, error) {
	const op = "storage.GetPayment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + paymentColumns + `
			  FROM payments
			  WHERE id = $1`
	p, err := scanPayment(s.DB.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrPaymentNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// resolvePendingTransitionFailure выясняет, почему условный UPDATE со
// status = 'pending' никого не затронул: заявки нет вовсе или она уже
// обработана другим администратором.
func (s *Storage) resolvePendingTransitionFailure(ctx context.Context, tx *sql.Tx, id int) error {
	var status string
	err := tx.QueryRowContext(ctx, `SELECT status FROM payments WHERE id = $1`, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPaymentNotFound
	}
	if err != nil {
		return err
	}
	return ErrPaymentAlreadyProcessed
}

// ApprovePayment переводит заявку pending -> approved и в той же транзакции
// выдаёт плательщику премиум на один месяц от момента одобрения.
// Переход условный (WHERE status = 'pending'), поэтому двойная обработка
// одной заявки невозможна.
func (s *Storage) ApprovePayment(ctx context.Context, id int, adminEmail string) error {
	const op = "storage.ApprovePayment"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `UPDATE payments
			  SET status = 'approved',
			      approved_at = NOW(),
			      approved_by = $2
			  WHERE id = $1 AND status = 'pending'
			  RETURNING user_email`
	var userEmail string
	err = tx.QueryRowContext(ctx, query, id, adminEmail).Scan(&userEmail)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, s.resolvePendingTransitionFailure(ctx, tx, id))
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query = `UPDATE users
			 SET is_premium = TRUE,
			     premium_expires_at = NOW() + INTERVAL '1 month'
			 WHERE email = $1`
	if _, err = tx.ExecContext(ctx, query, userEmail); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RejectPayment переводит заявку pending -> rejected с сохранением причины.
// Запись пользователя не меняется.
func (s *Storage) RejectPayment(ctx context.Context, id int, adminEmail, reason string) error {
	const op = "storage.RejectPayment"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `UPDATE payments
			  SET status = 'rejected',
			      rejection_reason = $3,
			      approved_at = NOW(),
			      approved_by = $2
			  WHERE id = $1 AND status = 'pending'`
	res, err := tx.ExecContext(ctx, query, id, adminEmail, reason)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, s.resolvePendingTransitionFailure(ctx, tx, id))
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
