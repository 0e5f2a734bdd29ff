package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/consultation-aggregator/internal/models"
)

const userColumns = `id, name, email, credits, is_premium, premium_expires_at,
			      is_admin, monthly_consultations, consultations_reset_date, created_at`

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var premiumExpiresAt, consultationsResetDate sql.NullTime
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Credits, &u.IsPremium,
		&premiumExpiresAt, &u.IsAdmin, &u.MonthlyConsultations,
		&consultationsResetDate, &u.CreatedAt); err != nil {
		return nil, err
	}
	if premiumExpiresAt.Valid {
		u.PremiumExpiresAt = &premiumExpiresAt.Time
	}
	if consultationsResetDate.Valid {
		u.ConsultationsResetDate = &consultationsResetDate.Time
	}
	return u, nil
}

// UpsertUser сохраняет пользователя при первом аутентифицированном запросе
// и возвращает его запись. Повторный вызов для существующего email
// возвращает уже сохранённую запись.
func (s *Storage) UpsertUser(ctx context.Context, name, email string, credits int) (*models.User, error) {
	const op = "storage.UpsertUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (name, email, credits)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (email) DO UPDATE SET name = users.name
			  RETURNING ` + userColumns
	user, err := scanUser(s.DB.QueryRowContext(ctx, query, name, email, credits))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// GetUserByEmail возвращает пользователя по его email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE email = $1`
	user, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// ConsumeConsultationSlot атомарно расходует одну консультацию месячной
// квоты бесплатного тарифа: сброс счётчика при смене календарного месяца,
// проверка лимита и инкремент выполняются одним условным UPDATE, поэтому
// параллельные запросы одного пользователя не могут ни задвоить инкремент,
// ни пропустить сброс.
//
// Возвращает значение счётчика после инкремента. Если лимит исчерпан,
// возвращает текущее значение счётчика и ErrQuotaExceeded.
func (s *Storage) ConsumeConsultationSlot(ctx context.Context, email string, limit int) (int, error) {
	const op = "storage.ConsumeConsultationSlot"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET monthly_consultations = CASE
			          WHEN consultations_reset_date IS NULL
			               OR date_trunc('month', consultations_reset_date) <> date_trunc('month', NOW())
			          THEN 1
			          ELSE monthly_consultations + 1
			      END,
			      consultations_reset_date = CASE
			          WHEN consultations_reset_date IS NULL
			               OR date_trunc('month', consultations_reset_date) <> date_trunc('month', NOW())
			          THEN NOW()
			          ELSE consultations_reset_date
			      END
			  WHERE email = $1
			    AND (consultations_reset_date IS NULL
			         OR date_trunc('month', consultations_reset_date) <> date_trunc('month', NOW())
			         OR monthly_consultations < $2)
			  RETURNING monthly_consultations`
	var used int
	err := s.DB.QueryRowContext(ctx, query, email, limit).Scan(&used)
	if err == nil {
		return used, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	// UPDATE никого не затронул: либо пользователя нет, либо лимит исчерпан.
	var current int
	err = s.DB.QueryRowContext(ctx,
		`SELECT monthly_consultations FROM users WHERE email = $1`, email).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return current, fmt.Errorf("%s: %w", op, ErrQuotaExceeded)
}
