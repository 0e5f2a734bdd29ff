package approve

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/consultation-aggregator/internal/http/middlewarectx"
	"github.com/magabrotheeeer/consultation-aggregator/internal/storage/repository"
)

// MockService реализует интерфейс approve.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Approve(ctx context.Context, adminEmail string, paymentID int) error {
	args := m.Called(ctx, adminEmail, paymentID)
	return args.Error(0)
}

func TestApproveHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		email          string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "успешное одобрение заявки",
			body:  `{"paymentId":42}`,
			email: "admin@example.com",
			setupMock: func(m *MockService) {
				m.On("Approve", mock.Anything, "admin@example.com", 42).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"approved"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{"paymentId":`,
			email:          "admin@example.com",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:           "нулевой ID заявки",
			body:           `{"paymentId":0}`,
			email:          "admin@example.com",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"status":"Error"`,
		},
		{
			name:  "заявка не найдена",
			body:  `{"paymentId":404}`,
			email: "admin@example.com",
			setupMock: func(m *MockService) {
				m.On("Approve", mock.Anything, "admin@example.com", 404).
					Return(repository.ErrPaymentNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"payment not found"`,
		},
		{
			name:  "заявка уже обработана",
			body:  `{"paymentId":42}`,
			email: "admin@example.com",
			setupMock: func(m *MockService) {
				m.On("Approve", mock.Anything, "admin@example.com", 42).
					Return(repository.ErrPaymentAlreadyProcessed)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `"error":"payment already processed"`,
		},
		{
			name:  "ошибка сервиса",
			body:  `{"paymentId":42}`,
			email: "admin@example.com",
			setupMock: func(m *MockService) {
				m.On("Approve", mock.Anything, "admin@example.com", 42).
					Return(errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not approve payment"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/admin/payments/approve", strings.NewReader(tt.body))
			req = req.WithContext(context.WithValue(req.Context(), middlewarectx.User, tt.email))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
