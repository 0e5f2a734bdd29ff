// Package message реализует HTTP-обработчик отправки сообщения персоне
// специалиста внутри консультационной сессии.
//
// Handler валидирует сообщение, проверяет владение сессией через
// бизнес-логику и возвращает ответ ассистента. Обе реплики дописываются
// в переписку сессии.
package message

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/consultation-aggregator/internal/http/middlewarectx"
	"github.com/magabrotheeeer/consultation-aggregator/internal/http/response"
	"github.com/magabrotheeeer/consultation-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/consultation-aggregator/internal/models"
	"github.com/magabrotheeeer/consultation-aggregator/internal/services/consultation"
	"github.com/magabrotheeeer/consultation-aggregator/internal/storage/repository"
)

// Handler обрабатывает сообщения консультационного чата.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики консультаций
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики консультационного чата.
type Service interface {
	SendMessage(ctx context.Context, email, sessionID, message string) (string, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Отправить сообщение специалисту
// @Description Отправляет сообщение персоне специалиста в рамках сессии и возвращает ответ ассистента.
// @Tags Chat
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param sessionId path string true "Идентификатор сессии"
// @Param request body models.ChatMessageRequest true "Сообщение пользователя"
// @Success 200 {object} map[string]any "Ответ ассистента"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Сессия принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Сессия не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /sessions/{sessionId}/messages [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.chat.message"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sessionID := chi.URLParam(r, "sessionId")

	var req models.ChatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	email, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || email == "" {
		log.Error("email not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	reply, err := h.service.SendMessage(r.Context(), email, sessionID, req.Message)
	switch {
	case errors.Is(err, repository.ErrSessionNotFound):
		log.Error("session not found", slog.String("session_id", sessionID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("session not found"))
		return
	case errors.Is(err, consultation.ErrNotOwner):
		log.Error("access to foreign session denied", slog.String("user", email))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("access denied"))
		return
	case err != nil:
		log.Error("failed to send message", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not send message"))
		return
	}

	log.Info("success to send message", slog.String("session_id", sessionID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"reply": reply,
	}))
}
