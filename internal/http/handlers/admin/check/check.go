// Package check реализует HTTP-обработчик проверки административных прав
// текущего пользователя. Клиент использует ответ, чтобы показать или
// скрыть панель администратора.
package check

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/consultation-aggregator/internal/http/middlewarectx"
	"github.com/magabrotheeeer/consultation-aggregator/internal/http/response"
	"github.com/magabrotheeeer/consultation-aggregator/internal/lib/sl"
)

// Handler обрабатывает запросы проверки административных прав.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики работы с пользователями
}

// Service описывает интерфейс проверки административных прав.
type Service interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Проверить права администратора
// @Description Сообщает, обладает ли текущий пользователь административными правами.
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Признак администратора"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/check [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.check"
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

	isAdmin, err := h.service.IsAdmin(r.Context(), email)
	if err != nil {
		log.Error("failed to check admin rights", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not check admin rights"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"is_admin": isAdmin,
	}))
}
