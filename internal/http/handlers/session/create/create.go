// Package create реализует HTTP-обработчик создания консультационной сессии.
//
// Handler принимает JSON-запрос с жалобами пациента и выбранным специалистом,
// валидирует его, извлекает email пользователя из контекста и вызывает
// бизнес-логику создания сессии. Для бесплатного тарифа создание расходует
// слот месячной квоты; при исчерпании лимита возвращается 403 с кодом
// LIMIT_REACHED и текущими значениями лимита.
package create

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
	"github.com/magabrotheeeer/consultation-aggregator/internal/services/consultation"
)

// Handler управляет HTTP-запросами на создание консультационных сессий.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики консультаций
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания сессии.
type Service interface {
	CreateSession(ctx context.Context, email string, req models.CreateSessionRequest) (*models.ConsultationSession, error)
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
// @Summary Создать консультационную сессию
// @Description Создает новую сессию с выбранным специалистом. Для бесплатного тарифа расходует слот месячной квоты.
// @Tags Sessions
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.CreateSessionRequest true "Жалобы пациента и выбранный специалист"
// @Success 200 {object} map[string]any "Созданная сессия"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} map[string]any "Месячный лимит консультаций исчерпан"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании сессии"
// @Router /sessions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.CreateSessionRequest
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

	session, err := h.service.CreateSession(r.Context(), email, req)
	if err != nil {
		var quotaErr *consultation.QuotaError
		if errors.As(err, &quotaErr) {
			log.Info("monthly consultation limit reached",
				slog.String("user", email), slog.Int("used", quotaErr.Used))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, map[string]any{
				"error":   "LIMIT_REACHED",
				"message": "Monthly consultation limit reached. Upgrade to premium for unlimited consultations.",
				"limit":   quotaErr.Limit,
				"used":    quotaErr.Used,
			})
			return
		}
		log.Error("failed to create session", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create session"))
		return
	}

	log.Info("success to create session", slog.String("session_id", session.SessionID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"session": session,
	}))
}
