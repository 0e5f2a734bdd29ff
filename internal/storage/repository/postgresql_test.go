package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/consultation-aggregator/internal/models"
)

func TestStorage_UpsertUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	user, err := storage.UpsertUser(ctx, "Test User", "user@example.com", 10)
	require.NoError(t, err)
	assert.Equal(t, "Test User", user.Name)
	assert.Equal(t, 10, user.Credits)

	// Повторный вызов возвращает существующую запись и не перезаписывает имя
	again, err := storage.UpsertUser(ctx, "Another Name", "user@example.com", 10)
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
	assert.Equal(t, "Test User", again.Name)

	var count int
	err = storage.DB.QueryRow("SELECT COUNT(*) FROM users WHERE email = $1", "user@example.com").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStorage_GetUserByEmail(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, "Test User", "user@example.com", false, false)

	ctx := context.Background()

	user, err := storage.GetUserByEmail(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", user.Email)

	_, err = storage.GetUserByEmail(ctx, "ghost@example.com")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestStorage_ConsumeConsultationSlot(t *testing.T) {
	const limit = 5

	t.Run("счётчик растёт до лимита и останавливается", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		factory := NewTestDataFactory(storage)
		factory.CreateUser(t, "Test User", "user@example.com", false, false)

		ctx := context.Background()
		for want := 1; want <= limit; want++ {
			used, err := storage.ConsumeConsultationSlot(ctx, "user@example.com", limit)
			require.NoError(t, err)
			assert.Equal(t, want, used)
		}

		used, err := storage.ConsumeConsultationSlot(ctx, "user@example.com", limit)
		require.ErrorIs(t, err, ErrQuotaExceeded)
		assert.Equal(t, limit, used)
	})

	t.Run("смена календарного месяца сбрасывает счётчик", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		factory := NewTestDataFactory(storage)
		factory.CreateUserWithQuota(t, "user@example.com", limit, time.Now().AddDate(0, -1, 0))

		used, err := storage.ConsumeConsultationSlot(context.Background(), "user@example.com", limit)
		require.NoError(t, err)
		assert.Equal(t, 1, used)
	})

	t.Run("незарегистрированный пользователь", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		_, err := storage.ConsumeConsultationSlot(context.Background(), "ghost@example.com", limit)
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestStorage_CreatePayment(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, "Test User", "user@example.com", false, false)

	ctx := context.Background()

	id, err := storage.CreatePayment(ctx, "UPI123456789", "user@example.com", "499")
	require.NoError(t, err)
	assert.Greater(t, id, 0)

	// Уникальный индекс закрывает повторную отправку той же транзакции
	_, err = storage.CreatePayment(ctx, "UPI123456789", "user@example.com", "499")
	require.ErrorIs(t, err, ErrPaymentExists)

	exists, err := storage.ExistsPaymentByTransactionID(ctx, "UPI123456789")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = storage.ExistsPaymentByTransactionID(ctx, "UPI000000000")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStorage_ApprovePayment(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, "Test User", "user@example.com", false, false)
	factory.CreateUser(t, "Admin", "admin@example.com", false, true)
	paymentID := factory.CreatePendingPayment(t, "UPI123456789", "user@example.com", "499")

	ctx := context.Background()

	err := storage.ApprovePayment(ctx, paymentID, "admin@example.com")
	require.NoError(t, err)

	payment, err := storage.GetPayment(ctx, paymentID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusApproved, payment.Status)
	assert.Equal(t, "admin@example.com", payment.ApprovedBy)
	require.NotNil(t, payment.ApprovedAt)

	// Плательщик получил премиум в той же транзакции
	user, err := storage.GetUserByEmail(ctx, "user@example.com")
	require.NoError(t, err)
	assert.True(t, user.IsPremium)
	require.NotNil(t, user.PremiumExpiresAt)
	assert.True(t, user.PremiumExpiresAt.After(time.Now()))

	// Повторная обработка той же заявки невозможна
	err = storage.ApprovePayment(ctx, paymentID, "admin@example.com")
	require.ErrorIs(t, err, ErrPaymentAlreadyProcessed)

	err = storage.ApprovePayment(ctx, 9999, "admin@example.com")
	require.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestStorage_RejectPayment(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, "Test User", "user@example.com", false, false)
	paymentID := factory.CreatePendingPayment(t, "UPI123456789", "user@example.com", "499")

	ctx := context.Background()

	err := storage.RejectPayment(ctx, paymentID, "admin@example.com", "amount mismatch")
	require.NoError(t, err)

	payment, err := storage.GetPayment(ctx, paymentID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusRejected, payment.Status)
	assert.Equal(t, "amount mismatch", payment.RejectionReason)

	// Отклонение не выдаёт премиум
	user, err := storage.GetUserByEmail(ctx, "user@example.com")
	require.NoError(t, err)
	assert.False(t, user.IsPremium)

	// Отклонённую заявку нельзя одобрить
	err = storage.ApprovePayment(ctx, paymentID, "admin@example.com")
	require.ErrorIs(t, err, ErrPaymentAlreadyProcessed)
}

func TestStorage_ListPayments(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, "Test User", "user@example.com", false, false)
	first := factory.CreatePendingPayment(t, "UPI111", "user@example.com", "499")
	second := factory.CreatePendingPayment(t, "UPI222", "user@example.com", "999")

	payments, err := storage.ListPayments(context.Background())
	require.NoError(t, err)
	require.Len(t, payments, 2)
	// Новые первыми
	assert.Equal(t, second, payments[0].ID)
	assert.Equal(t, first, payments[1].ID)
}

func TestStorage_Sessions(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, "Test User", "user@example.com", false, false)

	ctx := context.Background()
	doctor := &models.DoctorAgent{ID: 3, Specialist: "Heart Specialist"}

	session, err := storage.CreateSession(ctx, "session-1", "user@example.com", "chest pain", doctor)
	require.NoError(t, err)
	assert.Equal(t, "session-1", session.SessionID)
	require.NotNil(t, session.SelectedDoctor)
	assert.Equal(t, "Heart Specialist", session.SelectedDoctor.Specialist)

	_, err = storage.GetSessionByID(ctx, "no-such-session")
	require.ErrorIs(t, err, ErrSessionNotFound)

	// Переписка дописывается, порядок сохраняется
	now := time.Now().UTC().Truncate(time.Second)
	err = storage.AppendConversation(ctx, "session-1", []models.ConversationTurn{
		{Role: "user", Content: "does it hurt at rest?", Timestamp: now},
		{Role: "assistant", Content: "Tell me more about the pain.", Timestamp: now},
	})
	require.NoError(t, err)

	err = storage.AppendConversation(ctx, "session-1", []models.ConversationTurn{
		{Role: "user", Content: "only during exercise", Timestamp: now},
	})
	require.NoError(t, err)

	got, err := storage.GetSessionByID(ctx, "session-1")
	require.NoError(t, err)
	require.Len(t, got.Conversation, 3)
	assert.Equal(t, "does it hurt at rest?", got.Conversation[0].Content)
	assert.Equal(t, "only during exercise", got.Conversation[2].Content)

	// Отчёт перезаписывается
	err = storage.SaveReport(ctx, "session-1", &models.SessionReport{ChiefComplaint: "chest pain", RiskLevel: "medium"})
	require.NoError(t, err)
	err = storage.SaveReport(ctx, "session-1", &models.SessionReport{ChiefComplaint: "chest pain", RiskLevel: "high"})
	require.NoError(t, err)

	got, err = storage.GetSessionByID(ctx, "session-1")
	require.NoError(t, err)
	require.NotNil(t, got.Report)
	assert.Equal(t, "high", got.Report.RiskLevel)

	// Лабораторные отчёты только дополняются
	err = storage.AppendLabReport(ctx, "session-1", &models.LabReportAnalysis{ReportName: "CBC", OverallRiskLevel: "low"})
	require.NoError(t, err)
	err = storage.AppendLabReport(ctx, "session-1", &models.LabReportAnalysis{ReportName: "Lipid Panel", OverallRiskLevel: "medium"})
	require.NoError(t, err)

	got, err = storage.GetSessionByID(ctx, "session-1")
	require.NoError(t, err)
	require.Len(t, got.UploadedReports, 2)
	assert.Equal(t, "CBC", got.UploadedReports[0].ReportName)

	// Список сессий пользователя, новые первыми
	_, err = storage.CreateSession(ctx, "session-2", "user@example.com", "headache", nil)
	require.NoError(t, err)

	sessions, err := storage.ListSessionsByUser(ctx, "user@example.com")
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "session-2", sessions[0].SessionID)

	// Мутации несуществующей сессии возвращают ErrSessionNotFound
	err = storage.SaveReport(ctx, "no-such-session", &models.SessionReport{})
	require.ErrorIs(t, err, ErrSessionNotFound)
}
