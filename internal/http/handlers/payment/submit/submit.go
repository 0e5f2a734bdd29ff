// Package submit реализует HTTP-обработчик подачи заявки на оплату.
//
// Handler принимает идентификатор UPI-транзакции и сумму, валидирует их и
// регистрирует заявку со статусом pending для ручной проверки
// администратором. Повтор transaction_id возвращает 409.
package submit

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

// Handler обрабатывает подачу заявок на оплату.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики платежей
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики подачи заявки.
type Service interface {
	Submit(ctx context.Context, email string, req models.SubmitPaymentRequest) (int, error)
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
// @Summary Подать заявку на оплату
// @Description Регистрирует UPI-транзакцию пользователя со статусом pending для ручной проверки администратором.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.SubmitPaymentRequest true "Идентификатор транзакции и сумма"
// @Success 200 {object} map[string]any "ID созданной заявки"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Пользователь не зарегистрирован"
// @Failure 409 {object} response.ErrorResponse "Транзакция уже подана"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /payments [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.submit"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.SubmitPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded")

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	email, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || email == "" {
		log.Error("email not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id, err := h.service.Submit(r.Context(), email, req)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		log.Error("user not found", slog.String("user", email))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
		return
	case errors.Is(err, repository.ErrPaymentExists):
		log.Error("transaction already submitted", slog.String("transaction_id", req.TransactionID))
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("transaction already submitted"))
		return
	case err != nil:
		log.Error("failed to submit payment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not submit payment"))
		return
	}

	log.Info("success to submit payment", slog.Int("payment_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"payment_id": id,
	}))
}
