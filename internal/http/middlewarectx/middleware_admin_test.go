package middlewarectx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockAdminChecker struct {
	mock.Mock
}

func (m *mockAdminChecker) IsAdmin(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func TestAdminMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		ctxEmail       string
		mockSetup      func(m *mockAdminChecker)
		expectedStatus int
	}{
		{
			name:     "Администратор проходит",
			ctxEmail: "admin@example.com",
			mockSetup: func(m *mockAdminChecker) {
				m.On("IsAdmin", mock.Anything, "admin@example.com").Return(true, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:     "Обычный пользователь получает 403",
			ctxEmail: "user@example.com",
			mockSetup: func(m *mockAdminChecker) {
				m.On("IsAdmin", mock.Anything, "user@example.com").Return(false, nil)
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "Нет email в контексте",
			ctxEmail:       "",
			mockSetup:      func(_ *mockAdminChecker) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:     "Ошибка проверки прав",
			ctxEmail: "user@example.com",
			mockSetup: func(m *mockAdminChecker) {
				m.On("IsAdmin", mock.Anything, "user@example.com").Return(false, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := new(mockAdminChecker)
			tt.mockSetup(checker)

			var sawAdminFlag bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				sawAdminFlag, _ = r.Context().Value(Admin).(bool)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/payments", nil)
			if tt.ctxEmail != "" {
				req = req.WithContext(context.WithValue(req.Context(), User, tt.ctxEmail))
			}
			rr := httptest.NewRecorder()

			AdminMiddleware(newDiscardLogger(), checker)(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.True(t, sawAdminFlag)
			}
			checker.AssertExpectations(t)
		})
	}
}
