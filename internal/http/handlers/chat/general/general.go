// Package general реализует HTTP-обработчик общего медицинского чата вне
// консультационной сессии. История переписки передаётся клиентом и на
// сервере не сохраняется.
package general

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/consultation-aggregator/internal/http/response"
	"github.com/magabrotheeeer/consultation-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/consultation-aggregator/internal/models"
)

// Handler обрабатывает сообщения общего чата.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики консультаций
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики общего чата.
type Service interface {
	GeneralChat(ctx context.Context, message string, history []models.ConversationTurn) (string, error)
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
// @Summary Общий медицинский чат
// @Description Отвечает на сообщение вне сессии. История переписки передаётся в теле запроса и не сохраняется.
// @Tags Chat
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.GeneralChatRequest true "Сообщение и история переписки"
// @Success 200 {object} map[string]any "Ответ ассистента"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /chat [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.chat.general"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.GeneralChatRequest
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

	reply, err := h.service.GeneralChat(r.Context(), req.Message, req.History)
	if err != nil {
		log.Error("failed to answer general chat", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not answer message"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"reply": reply,
	}))
}
