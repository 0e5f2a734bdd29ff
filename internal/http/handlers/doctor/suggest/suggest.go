// Package suggest реализует HTTP-обработчик подбора специалистов по жалобам
// пациента с помощью языковой модели.
package suggest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/consultation-aggregator/internal/http/middlewarectx"
	"github.com/magabrotheeeer/consultation-aggregator/internal/http/response"
	"github.com/magabrotheeeer/consultation-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/consultation-aggregator/internal/models"
)

// Handler обрабатывает запросы подбора специалистов.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики консультаций
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики подбора специалистов.
// Каталог персон зависит от тарифа запрашивающего пользователя.
type Service interface {
	SuggestDoctors(ctx context.Context, email, notes string) ([]models.DoctorAgent, error)
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
// @Summary Подобрать специалистов по жалобам
// @Description Возвращает подходящих специалистов из каталога на основе описания жалоб пациента.
// @Tags Doctors
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.SuggestDoctorsRequest true "Жалобы пациента"
// @Success 200 {object} map[string]any "Подобранные специалисты"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /doctors/suggest [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.doctor.suggest"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.SuggestDoctorsRequest
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

	email, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || email == "" {
		log.Error("email not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	suggested, err := h.service.SuggestDoctors(r.Context(), email, req.Notes)
	if err != nil {
		log.Error("failed to suggest doctors", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not suggest doctors"))
		return
	}

	log.Info("success to suggest doctors", slog.Int("count", len(suggested)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"doctors": suggested,
	}))
}
