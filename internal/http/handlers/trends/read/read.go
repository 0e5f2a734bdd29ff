// Package read реализует HTTP-обработчик сводки динамики здоровья,
// построенной по отчётам консультационных сессий пользователя.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/consultation-aggregator/internal/http/middlewarectx"
	"github.com/magabrotheeeer/consultation-aggregator/internal/http/response"
	"github.com/magabrotheeeer/consultation-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/consultation-aggregator/internal/trends"
)

// Handler обрабатывает запросы сводки динамики здоровья.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики консультаций
}

// Service описывает интерфейс бизнес-логики построения сводки.
type Service interface {
	Trends(ctx context.Context, email string) (*trends.Summary, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить динамику здоровья
// @Description Возвращает сводку по сессиям пользователя с отчётами: частота симптомов, уровни риска, посещения специалистов.
// @Tags Trends
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Сводка динамики здоровья"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /trends [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.trends.read"
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

	summary, err := h.service.Trends(r.Context(), email)
	if err != nil {
		log.Error("failed to build health trends", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build health trends"))
		return
	}

	log.Info("success to build health trends",
		slog.Int("consultations", summary.TotalConsultations))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"trends": summary,
	}))
}
