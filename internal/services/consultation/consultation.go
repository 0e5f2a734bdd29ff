// Package consultation содержит бизнес-логику консультационных сессий:
// квоту бесплатного тарифа, жизненный цикл сессии, переписку с персоной
// специалиста, отчёты и анализ лабораторных отчётов.
package consultation

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/consultation-aggregator/internal/doctors"
	"github.com/magabrotheeeer/consultation-aggregator/internal/models"
	"github.com/magabrotheeeer/consultation-aggregator/internal/storage/repository"
	"github.com/magabrotheeeer/consultation-aggregator/internal/trends"
)

// ErrNotOwner возвращается при попытке доступа к чужой сессии.
var ErrNotOwner = errors.New("session belongs to another user")

// QuotaError возвращается, когда бесплатный пользователь исчерпал
// месячный лимит консультаций.
type QuotaError struct {
	Limit int
	Used  int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("monthly consultation limit reached: %d of %d used", e.Used, e.Limit)
}

// Repository определяет методы хранилища, нужные консультационному сервису.
type Repository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// ConsumeConsultationSlot атомарно расходует слот месячной квоты.
	ConsumeConsultationSlot(ctx context.Context, email string, limit int) (int, error)
	CreateSession(ctx context.Context, sessionID, createdBy, notes string,
		selectedDoctor *models.DoctorAgent) (*models.ConsultationSession, error)
	GetSessionByID(ctx context.Context, sessionID string) (*models.ConsultationSession, error)
	ListSessionsByUser(ctx context.Context, email string) ([]*models.ConsultationSession, error)
	AppendConversation(ctx context.Context, sessionID string, turns []models.ConversationTurn) error
	SaveReport(ctx context.Context, sessionID string, report *models.SessionReport) error
	AppendLabReport(ctx context.Context, sessionID string, analysis *models.LabReportAnalysis) error
}

// Assistant описывает интерфейс языковой модели для консультационных сценариев.
type Assistant interface {
	SuggestDoctors(ctx context.Context, notes string, catalog []models.DoctorAgent) ([]models.DoctorAgent, error)
	ConsultationReply(ctx context.Context, session *models.ConsultationSession, message string) (string, error)
	GeneralReply(ctx context.Context, message string, history []models.ConversationTurn) (string, error)
	GenerateSessionReport(ctx context.Context, session *models.ConsultationSession) (*models.SessionReport, error)
	AnalyzeLabReport(ctx context.Context, reportName, reportText string) (*models.LabReportAnalysis, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service реализует бизнес-логику консультаций, включая кеширование.
type Service struct {
	repo      Repository
	cache     Cache
	assistant Assistant
	log       *slog.Logger
	limit     int
}

// New создает новый экземпляр Service с месячным лимитом консультаций
// для бесплатного тарифа.
func New(repo Repository, cache Cache, assistant Assistant, log *slog.Logger, limit int) *Service {
	return &Service{
		repo:      repo,
		cache:     cache,
		assistant: assistant,
		log:       log,
		limit:     limit,
	}
}

func sessionCacheKey(sessionID string) string {
	return "session:" + sessionID
}

// CreateSession открывает новую консультационную сессию. Для бесплатного
// тарифа сначала расходуется слот месячной квоты; при исчерпании лимита
// возвращается QuotaError и сессия не создаётся.
func (s *Service) CreateSession(ctx context.Context, email string, req models.CreateSessionRequest) (*models.ConsultationSession, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if !user.IsPremium {
		used, err := s.repo.ConsumeConsultationSlot(ctx, email, s.limit)
		if errors.Is(err, repository.ErrQuotaExceeded) {
			return nil, &QuotaError{Limit: s.limit, Used: used}
		}
		if err != nil {
			return nil, err
		}
		s.log.Info("consultation slot consumed",
			slog.String("user", email), slog.Int("used", used))
	}

	sessionID := uuid.NewString()
	session, err := s.repo.CreateSession(ctx, sessionID, email, req.Notes, req.SelectedDoctor)
	if err != nil {
		return nil, err
	}
	s.log.Info("created consultation session", slog.String("session_id", sessionID))

	cacheKey := sessionCacheKey(sessionID)
	if err := s.cache.Set(cacheKey, session, time.Hour); err != nil {
		s.log.Warn("failed to cache session", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return session, nil
}

// GetSession возвращает сессию по её идентификатору, используя кеш.
// Чужую сессию может читать только администратор: для не-владельца
// запрашивающий читается из хранилища и проверяется его флаг is_admin.
func (s *Service) GetSession(ctx context.Context, email, sessionID string) (*models.ConsultationSession, error) {
	var session *models.ConsultationSession
	cacheKey := sessionCacheKey(sessionID)
	found, err := s.cache.Get(cacheKey, &session)
	if err != nil {
		s.log.Warn("failed to read session from cache", slog.String("key", cacheKey), slog.Any("err", err))
		found = false
	}
	if !found {
		session, err = s.repo.GetSessionByID(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(cacheKey, session, time.Hour); err != nil {
			s.log.Warn("failed to cache session", slog.String("key", cacheKey), slog.Any("err", err))
		}
	}

	if session.CreatedBy != email {
		user, err := s.repo.GetUserByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if !user.IsAdmin {
			return nil, ErrNotOwner
		}
	}
	return session, nil
}

// ListSessions возвращает сессии пользователя, новые первыми.
func (s *Service) ListSessions(ctx context.Context, email string) ([]*models.ConsultationSession, error) {
	return s.repo.ListSessionsByUser(ctx, email)
}

// ownedSession читает сессию напрямую из хранилища и проверяет владение.
// Используется мутирующими операциями, которым нужна свежая переписка.
func (s *Service) ownedSession(ctx context.Context, email, sessionID string) (*models.ConsultationSession, error) {
	session, err := s.repo.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.CreatedBy != email {
		return nil, ErrNotOwner
	}
	return session, nil
}

// SendMessage отправляет сообщение пользователя персоне специалиста,
// дописывает обе реплики в переписку и возвращает ответ ассистента.
func (s *Service) SendMessage(ctx context.Context, email, sessionID, message string) (string, error) {
	session, err := s.ownedSession(ctx, email, sessionID)
	if err != nil {
		return "", err
	}

	reply, err := s.assistant.ConsultationReply(ctx, session, message)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	turns := []models.ConversationTurn{
		{Role: "user", Content: message, Timestamp: now},
		{Role: "assistant", Content: reply, Timestamp: now},
	}
	if err := s.repo.AppendConversation(ctx, sessionID, turns); err != nil {
		return "", err
	}

	if err := s.cache.Invalidate(sessionCacheKey(sessionID)); err != nil {
		s.log.Warn("failed to invalidate session cache", slog.Any("err", err))
	}
	return reply, nil
}

// Conversation возвращает переписку сессии в исходном порядке.
func (s *Service) Conversation(ctx context.Context, email, sessionID string) ([]models.ConversationTurn, error) {
	session, err := s.ownedSession(ctx, email, sessionID)
	if err != nil {
		return nil, err
	}
	return session.Conversation, nil
}

// GenerateReport составляет итоговый отчёт по переписке сессии и сохраняет
// его, перезаписывая предыдущий.
func (s *Service) GenerateReport(ctx context.Context, email, sessionID string) (*models.SessionReport, error) {
	session, err := s.ownedSession(ctx, email, sessionID)
	if err != nil {
		return nil, err
	}

	report, err := s.assistant.GenerateSessionReport(ctx, session)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveReport(ctx, sessionID, report); err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(sessionCacheKey(sessionID)); err != nil {
		s.log.Warn("failed to invalidate session cache", slog.Any("err", err))
	}
	s.log.Info("session report generated", slog.String("session_id", sessionID))
	return report, nil
}

// UploadLabReport анализирует текст лабораторного отчёта и дописывает
// результат в список загруженных отчётов сессии.
func (s *Service) UploadLabReport(ctx context.Context, email, sessionID string, req models.UploadLabReportRequest) (*models.LabReportAnalysis, error) {
	if _, err := s.ownedSession(ctx, email, sessionID); err != nil {
		return nil, err
	}

	analysis, err := s.assistant.AnalyzeLabReport(ctx, req.ReportName, req.ReportText)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AppendLabReport(ctx, sessionID, analysis); err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(sessionCacheKey(sessionID)); err != nil {
		s.log.Warn("failed to invalidate session cache", slog.Any("err", err))
	}
	s.log.Info("lab report analyzed",
		slog.String("session_id", sessionID), slog.String("report", req.ReportName))
	return analysis, nil
}

// SuggestDoctors подбирает специалистов по жалобам пользователя.
// Бесплатному тарифу предлагаются только персоны без премиум-подписки.
// Результат кешируется по тарифу и хешу заметок.
func (s *Service) SuggestDoctors(ctx context.Context, email, notes string) ([]models.DoctorAgent, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	catalog := doctors.Agents
	tier := "premium"
	if !user.IsPremium {
		tier = "free"
		catalog = make([]models.DoctorAgent, 0, len(doctors.Agents))
		for _, agent := range doctors.Agents {
			if !agent.SubscriptionRequired {
				catalog = append(catalog, agent)
			}
		}
	}

	sum := sha1.Sum([]byte(notes))
	cacheKey := "doctors:suggest:" + tier + ":" + hex.EncodeToString(sum[:])

	var suggested []models.DoctorAgent
	found, err := s.cache.Get(cacheKey, &suggested)
	if err != nil {
		s.log.Warn("failed to read suggestions from cache", slog.Any("err", err))
	}
	if found {
		return suggested, nil
	}

	suggested, err = s.assistant.SuggestDoctors(ctx, notes, catalog)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, suggested, 24*time.Hour); err != nil {
		s.log.Warn("failed to cache suggestions", slog.Any("err", err))
	}
	return suggested, nil
}

// GeneralChat отвечает на сообщение общего чата вне сессии.
func (s *Service) GeneralChat(ctx context.Context, message string, history []models.ConversationTurn) (string, error) {
	return s.assistant.GeneralReply(ctx, message, history)
}

// Trends строит сводку динамики здоровья по сессиям пользователя с отчётами.
func (s *Service) Trends(ctx context.Context, email string) (*trends.Summary, error) {
	sessions, err := s.repo.ListSessionsByUser(ctx, email)
	if err != nil {
		return nil, err
	}
	return trends.Build(sessions), nil
}
