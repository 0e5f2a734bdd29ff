// Package list реализует HTTP-обработчик получения каталога специалистов.
package list

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/consultation-aggregator/internal/doctors"
	"github.com/magabrotheeeer/consultation-aggregator/internal/http/response"
)

// Handler обрабатывает запросы каталога специалистов.
type Handler struct {
	log *slog.Logger
}

// New создает новый Handler с переданным логгером.
func New(log *slog.Logger) *Handler {
	return &Handler{
		log: log,
	}
}

// ServeHTTP godoc
// @Summary Получить каталог специалистов
// @Description Возвращает полный каталог виртуальных специалистов с признаком доступности на бесплатном тарифе.
// @Tags Doctors
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Каталог специалистов"
// @Router /doctors [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.OKWithData(map[string]any{
		"doctors": doctors.Agents,
	}))
}
