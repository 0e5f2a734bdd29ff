// Package paymentlist реализует HTTP-обработчик списка заявок на оплату
// для панели администратора.
package paymentlist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/consultation-aggregator/internal/http/response"
	"github.com/magabrotheeeer/consultation-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/consultation-aggregator/internal/models"
)

// Handler обрабатывает запросы списка заявок на оплату.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики платежей
}

// Service описывает интерфейс бизнес-логики списка заявок.
type Service interface {
	List(ctx context.Context) ([]*models.Payment, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить список заявок на оплату
// @Description Возвращает все заявки на оплату во всех статусах, новые первыми. Доступно только администраторам.
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Список заявок"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Требуются права администратора"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/payments [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.paymentlist"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	payments, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list payments", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list payments"))
		return
	}

	log.Info("success to list payments", slog.Int("count", len(payments)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"list_count": len(payments),
		"payments":   payments,
	}))
}
