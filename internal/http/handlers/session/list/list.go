// Package list реализует HTTP-обработчик получения списка сессий
// текущего пользователя, новые первыми.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/consultation-aggregator/internal/http/middlewarectx"
	"github.com/magabrotheeeer/consultation-aggregator/internal/http/response"
	"github.com/magabrotheeeer/consultation-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/consultation-aggregator/internal/models"
)

// Handler обрабатывает запросы списка сессий пользователя.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики консультаций
}

// Service описывает интерфейс бизнес-логики получения списка сессий.
type Service interface {
	ListSessions(ctx context.Context, email string) ([]*models.ConsultationSession, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить список сессий пользователя
// @Description Возвращает все консультационные сессии текущего пользователя, новые первыми.
// @Tags Sessions
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Список сессий"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /sessions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	email, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || email == "" {
		log.Error("email not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	sessions, err := h.service.ListSessions(r.Context(), email)
	if err != nil {
		log.Error("failed to list sessions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list sessions"))
		return
	}

	log.Info("success to list sessions", slog.Int("count", len(sessions)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"list_count": len(sessions),
		"sessions":   sessions,
	}))
}
