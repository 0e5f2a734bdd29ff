package create

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
	"github.com/magabrotheeeer/consultation-aggregator/internal/models"
	"github.com/magabrotheeeer/consultation-aggregator/internal/services/consultation"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) CreateSession(ctx context.Context, email string, req models.CreateSessionRequest) (*models.ConsultationSession, error) {
	args := m.Called(ctx, email, req)
	if res := args.Get(0); res != nil {
		return res.(*models.ConsultationSession), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	validBody := `{"notes":"chest pain after exercise","selectedDoctor":{"id":3,"specialist":"Heart Specialist"}}`

	tests := []struct {
		name           string
		body           string
		email          string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "успешное создание сессии",
			body:  validBody,
			email: "user@example.com",
			setupMock: func(m *MockService) {
				session := &models.ConsultationSession{
					SessionID: "4f07fdbb-43a8-4d1e-a8a5-913b0f1f7a10",
					CreatedBy: "user@example.com",
					Notes:     "chest pain after exercise",
				}
				m.On("CreateSession", mock.Anything, "user@example.com", mock.Anything).Return(session, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"sessionId":"4f07fdbb-43a8-4d1e-a8a5-913b0f1f7a10"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{"notes":`,
			email:          "user@example.com",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:           "отсутствуют обязательные поля",
			body:           `{"notes":""}`,
			email:          "user@example.com",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"status":"Error"`,
		},
		{
			name:           "нет email в контексте",
			body:           validBody,
			email:          "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:  "исчерпан месячный лимит",
			body:  validBody,
			email: "user@example.com",
			setupMock: func(m *MockService) {
				m.On("CreateSession", mock.Anything, "user@example.com", mock.Anything).
					Return(nil, &consultation.QuotaError{Limit: 5, Used: 5})
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `"error":"LIMIT_REACHED"`,
		},
		{
			name:  "ошибка сервиса",
			body:  validBody,
			email: "user@example.com",
			setupMock: func(m *MockService) {
				m.On("CreateSession", mock.Anything, "user@example.com", mock.Anything).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not create session"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(tt.body))
			if tt.email != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.User, tt.email))
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
