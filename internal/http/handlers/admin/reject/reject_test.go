package reject

import (
	"context"
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

// MockService реализует интерфейс reject.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Reject(ctx context.Context, adminEmail string, paymentID int, reason string) error {
	args := m.Called(ctx, adminEmail, paymentID, reason)
	return args.Error(0)
}

func TestRejectHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное отклонение заявки",
			body: `{"paymentId":42,"reason":"amount mismatch"}`,
			setupMock: func(m *MockService) {
				m.On("Reject", mock.Anything, "admin@example.com", 42, "amount mismatch").Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"rejected"`,
		},
		{
			name:           "отсутствует причина отклонения",
			body:           `{"paymentId":42}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"status":"Error"`,
		},
		{
			name: "заявка уже обработана",
			body: `{"paymentId":42,"reason":"amount mismatch"}`,
			setupMock: func(m *MockService) {
				m.On("Reject", mock.Anything, "admin@example.com", 42, "amount mismatch").
					Return(repository.ErrPaymentAlreadyProcessed)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `"error":"payment already processed"`,
		},
		{
			name: "заявка не найдена",
			body: `{"paymentId":404,"reason":"amount mismatch"}`,
			setupMock: func(m *MockService) {
				m.On("Reject", mock.Anything, "admin@example.com", 404, "amount mismatch").
					Return(repository.ErrPaymentNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"payment not found"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/admin/payments/reject", strings.NewReader(tt.body))
			req = req.WithContext(context.WithValue(req.Context(), middlewarectx.User, "admin@example.com"))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
