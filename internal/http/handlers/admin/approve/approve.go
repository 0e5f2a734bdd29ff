// Package approve реализует HTTP-обработчик одобрения заявки на оплату.
//
// Одобрение переводит заявку из статуса pending в approved и выдаёт
// плательщику премиум на месяц. Заявка в любом другом статусе
// возвращает 409.
package approve

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/consultation-aggregator/internal/http/middlewarectx"
	"github.com/magabrotheeeer/consultation-aggregator/internal/http/response"
	"github.com/magabrotheeeer/consultation-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/consultation-aggregator/internal/models"
	"github.com/magabrotheeeer/consultation-aggregator/internal/storage/repository"
)

// Handler обрабатывает одобрение заявок на оплату.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики платежей
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики одобрения заявки.
type Service interface {
	Approve(ctx context.Context, adminEmail string, paymentID int) error
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
// @Summary Одобрить заявку на оплату
// @Description Переводит заявку из pending в approved и выдаёт плательщику премиум на месяц. Доступно только администраторам.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.ApprovePaymentRequest true "ID заявки"
// @Success 200 {object} map[string]any "Заявка одобрена"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Требуются права администратора"
// @Failure 404 {object} response.ErrorResponse "Заявка не найдена"
// @Failure 409 {object} response.ErrorResponse "Заявка уже обработана"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/payments/approve [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.approve"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.ApprovePaymentRequest
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

	adminEmail, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || adminEmail == "" {
		log.Error("email not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	err := h.service.Approve(r.Context(), adminEmail, req.PaymentID)
	switch {
	case errors.Is(err, repository.ErrPaymentNotFound):
		log.Error("payment not found", slog.Int("payment_id", req.PaymentID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("payment not found"))
		return
	case errors.Is(err, repository.ErrPaymentAlreadyProcessed):
		log.Error("payment already processed", slog.Int("payment_id", req.PaymentID))
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("payment already processed"))
		return
	case err != nil:
		log.Error("failed to approve payment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not approve payment"))
		return
	}

	log.Info("success to approve payment", slog.Int("payment_id", req.PaymentID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"payment_id": req.PaymentID,
		"status":     models.PaymentStatusApproved,
	}))
}
