// Package user содержит бизнес-логику работы с пользователями:
// создание записи при первом аутентифицированном запросе и проверку
// административных прав.
package user

import (
	"context"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/consultation-aggregator/internal/models"
	"github.com/magabrotheeeer/consultation-aggregator/internal/storage/repository"
)

// Кредиты, выдаваемые новому пользователю при первом входе.
const startingCredits = 10

// Repository определяет методы для работы с пользователями в хранилище.
type Repository interface {
	// UpsertUser сохраняет пользователя при первом входе и возвращает запись.
	UpsertUser(ctx context.Context, name, email string, credits int) (*models.User, error)
	// GetUserByEmail возвращает пользователя или ErrUserNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Service реализует бизнес-логику работы с пользователями.
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

// EnsureUser возвращает запись пользователя, создавая её при первом входе.
func (s *Service) EnsureUser(ctx context.Context, name, email string) (*models.User, error) {
	if name == "" {
		name = "User"
	}
	user, err := s.repo.UpsertUser(ctx, name, email, startingCredits)
	if err != nil {
		return nil, err
	}
	s.log.Info("ensured user", slog.String("email", email))
	return user, nil
}

// IsAdmin сообщает, обладает ли пользователь административными правами.
// Отсутствие записи пользователя означает отсутствие прав, а не ошибку.
func (s *Service) IsAdmin(ctx context.Context, email string) (bool, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.IsAdmin, nil
}
