// Package health реализует HTTP-обработчик проверки готовности сервиса.
package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/consultation-aggregator/internal/http/response"
	"github.com/magabrotheeeer/consultation-aggregator/internal/lib/sl"
)

// Pinger описывает интерфейс проверки доступности хранилища.
type Pinger interface {
	CheckDatabaseReady(ctx context.Context) error
}

// Handler обрабатывает запросы проверки готовности.
type Handler struct {
	log    *slog.Logger
	pinger Pinger
}

// New создает новый Handler с переданными логгером и хранилищем.
func New(log *slog.Logger, pinger Pinger) *Handler {
	return &Handler{
		log:    log,
		pinger: pinger,
	}
}

// ServeHTTP godoc
// @Summary Проверить готовность сервиса
// @Description Проверяет доступность базы данных и возвращает статус сервиса.
// @Tags Health
// @Produce  json
// @Success 200 {object} map[string]any "Сервис готов"
// @Failure 503 {object} response.ErrorResponse "База данных недоступна"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	if err := h.pinger.CheckDatabaseReady(r.Context()); err != nil {
		h.log.Error("database is not ready", sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("database is not ready"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"status": "ok",
	}))
}
