// Package read реализует HTTP-обработчик получения консультационной сессии
// по её идентификатору.
//
// Handler извлекает sessionId из URL-параметров и email пользователя из
// контекста, вызывает бизнес-логику чтения сессии и возвращает её данные
// в JSON-формате. Чужая сессия доступна только администратору.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/consultation-aggregator/internal/http/middlewarectx"
	"github.com/magabrotheeeer/consultation-aggregator/internal/http/response"
	"github.com/magabrotheeeer/consultation-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/consultation-aggregator/internal/models"
	"github.com/magabrotheeeer/consultation-aggregator/internal/services/consultation"
	"github.com/magabrotheeeer/consultation-aggregator/internal/storage/repository"
)

// Handler обрабатывает запросы на получение сессии по уникальному идентификатору.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики консультаций
}

// Service описывает интерфейс бизнес-логики чтения сессии.
// Доступ администратора к чужой сессии разрешает сервис по флагу
// пользователя в хранилище.
type Service interface {
	GetSession(ctx context.Context, email, sessionID string) (*models.ConsultationSession, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить сессию по ID
// @Description Возвращает консультационную сессию с перепиской, отчётом и загруженными лабораторными отчётами.
// @Tags Sessions
// @Produce  json
// @Security BearerAuth
// @Param sessionId path string true "Идентификатор сессии"
// @Success 200 {object} map[string]any "Данные сессии"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Сессия принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Сессия не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /sessions/{sessionId} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sessionID := chi.URLParam(r, "sessionId")
	if sessionID == "" {
		log.Error("sessionId missing in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("sessionId is required"))
		return
	}

	email, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || email == "" {
		log.Error("email not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}
	session, err := h.service.GetSession(r.Context(), email, sessionID)
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
		log.Error("failed to read session", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read session"))
		return
	}

	log.Info("success to read session", slog.String("session_id", sessionID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"session": session,
	}))
}
