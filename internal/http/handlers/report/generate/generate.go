// Package generate реализует HTTP-обработчик формирования итогового
// медицинского отчёта по переписке консультационной сессии.
//
// Повторный вызов перезаписывает предыдущий отчёт сессии.
package generate

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

// Handler обрабатывает запросы генерации отчёта сессии.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики консультаций
}

// Service описывает интерфейс бизнес-логики генерации отчёта.
type Service interface {
	GenerateReport(ctx context.Context, email, sessionID string) (*models.SessionReport, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Сформировать отчёт по сессии
// @Description Составляет структурированный медицинский отчёт по переписке сессии и сохраняет его, перезаписывая предыдущий.
// @Tags Reports
// @Produce  json
// @Security BearerAuth
// @Param sessionId path string true "Идентификатор сессии"
// @Success 200 {object} map[string]any "Сформированный отчёт"
// @Failure 403 {object} response.ErrorResponse "Сессия принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Сессия не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /sessions/{sessionId}/report [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report.generate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sessionID := chi.URLParam(r, "sessionId")

	email, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || email == "" {
		log.Error("email not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	report, err := h.service.GenerateReport(r.Context(), email, sessionID)
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
		log.Error("failed to generate report", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not generate report"))
		return
	}

	log.Info("success to generate report", slog.String("session_id", sessionID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"report": report,
	}))
}
