// Package ensure реализует HTTP-обработчик регистрации пользователя при
// первом аутентифицированном запросе.
//
// Handler берет email и имя из проверенных JWT-клеймов, создает запись
// пользователя при её отсутствии и возвращает актуальную запись в JSON-формате.
// Повторный вызов запись не меняет.
package ensure

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

// Handler обрабатывает запросы регистрации пользователя при первом входе.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики работы с пользователями
}

// Service описывает интерфейс бизнес-логики работы с пользователями.
type Service interface {
	EnsureUser(ctx context.Context, name, email string) (*models.User, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Зарегистрировать текущего пользователя
// @Description Создает запись пользователя при первом входе и возвращает её. Идемпотентна: повторный вызов возвращает существующую запись.
// @Tags Users
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Запись пользователя"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /users [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.ensure"
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
	name, _ := r.Context().Value(middlewarectx.Name).(string)

	user, err := h.service.EnsureUser(r.Context(), name, email)
	if err != nil {
		log.Error("failed to ensure user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not ensure user"))
		return
	}

	log.Info("success to ensure user", slog.String("email", email))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user": user,
	}))
}
