package payment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/consultation-aggregator/internal/models"
	"github.com/magabrotheeeer/consultation-aggregator/internal/storage/repository"
)

// MockRepository реализует интерфейс payment.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) ExistsPaymentByTransactionID(ctx context.Context, transactionID string) (bool, error) {
	args := m.Called(ctx, transactionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) CreatePayment(ctx context.Context, transactionID, userEmail, amount string) (int, error) {
	args := m.Called(ctx, transactionID, userEmail, amount)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) ListPayments(ctx context.Context) ([]*models.Payment, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]*models.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) ApprovePayment(ctx context.Context, id int, adminEmail string) error {
	args := m.Called(ctx, id, adminEmail)
	return args.Error(0)
}

func (m *MockRepository) RejectPayment(ctx context.Context, id int, adminEmail, reason string) error {
	args := m.Called(ctx, id, adminEmail, reason)
	return args.Error(0)
}

func newTestService(repo *MockRepository) *Service {
	return New(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSubmit(t *testing.T) {
	req := models.SubmitPaymentRequest{TransactionID: "UPI123456789", Amount: "499"}

	tests := []struct {
		name        string
		setupMock   func(*MockRepository)
		expectedID  int
		expectedErr error
	}{
		{
			name: "успешная подача заявки",
			setupMock: func(m *MockRepository) {
				m.On("GetUserByEmail", mock.Anything, "user@example.com").
					Return(&models.User{Email: "user@example.com"}, nil)
				m.On("ExistsPaymentByTransactionID", mock.Anything, "UPI123456789").Return(false, nil)
				m.On("CreatePayment", mock.Anything, "UPI123456789", "user@example.com", "499").Return(42, nil)
			},
			expectedID: 42,
		},
		{
			name: "пользователь не зарегистрирован",
			setupMock: func(m *MockRepository) {
				m.On("GetUserByEmail", mock.Anything, "user@example.com").
					Return(nil, repository.ErrUserNotFound)
			},
			expectedErr: repository.ErrUserNotFound,
		},
		{
			name: "повтор транзакции",
			setupMock: func(m *MockRepository) {
				m.On("GetUserByEmail", mock.Anything, "user@example.com").
					Return(&models.User{Email: "user@example.com"}, nil)
				m.On("ExistsPaymentByTransactionID", mock.Anything, "UPI123456789").Return(true, nil)
			},
			expectedErr: repository.ErrPaymentExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			tt.setupMock(repo)

			id, err := newTestService(repo).Submit(context.Background(), "user@example.com", req)
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedID, id)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestApprove(t *testing.T) {
	tests := []struct {
		name        string
		repoErr     error
		expectedErr error
	}{
		{
			name: "успешное одобрение",
		},
		{
			name:        "заявка уже обработана",
			repoErr:     repository.ErrPaymentAlreadyProcessed,
			expectedErr: repository.ErrPaymentAlreadyProcessed,
		},
		{
			name:        "заявка не найдена",
			repoErr:     repository.ErrPaymentNotFound,
			expectedErr: repository.ErrPaymentNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			repo.On("ApprovePayment", mock.Anything, 42, "admin@example.com").Return(tt.repoErr)

			err := newTestService(repo).Approve(context.Background(), "admin@example.com", 42)
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestReject(t *testing.T) {
	repo := new(MockRepository)
	repo.On("RejectPayment", mock.Anything, 42, "admin@example.com", "amount mismatch").Return(nil)

	err := newTestService(repo).Reject(context.Background(), "admin@example.com", 42, "amount mismatch")
	require.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestList(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ListPayments", mock.Anything).Return([]*models.Payment{
		{ID: 2, Status: models.PaymentStatusPending},
		{ID: 1, Status: models.PaymentStatusApproved},
	}, nil)

	payments, err := newTestService(repo).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, payments, 2)

	repo.AssertExpectations(t)
}

func TestSubmitStorageError(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetUserByEmail", mock.Anything, "user@example.com").
		Return(&models.User{Email: "user@example.com"}, nil)
	repo.On("ExistsPaymentByTransactionID", mock.Anything, "UPI123456789").
		Return(false, errors.New("db error"))

	_, err := newTestService(repo).Submit(context.Background(), "user@example.com",
		models.SubmitPaymentRequest{TransactionID: "UPI123456789", Amount: "499"})
	require.Error(t, err)

	repo.AssertExpectations(t)
}
