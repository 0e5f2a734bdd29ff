// Package upload реализует HTTP-обработчик загрузки лабораторного отчёта
// в консультационную сессию.
//
// Handler принимает текст отчёта, передаёт его языковой модели на анализ и
// дописывает результат в список загруженных отчётов сессии. Принимается
// только извлечённый текст: разбор PDF и изображений остаётся на клиенте.
package upload

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/consultation-aggregator/internal/http/middlewarectx"
	"github.com/magabrotheeeer/consultation-aggregator/internal/http/response"
	"github.com/magabrotheeeer/consultation-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/consultation-aggregator/internal/models"
	"github.com/magabrotheeeer/consultation-aggregator/internal/services/consultation"
	"github.com/magabrotheeeer/consultation-aggregator/internal/storage/repository"
)

// Handler обрабатывает загрузку лабораторных отчётов.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики консультаций
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики анализа лабораторного отчёта.
type Service interface {
	UploadLabReport(ctx context.Context, email, sessionID string, req models.UploadLabReportRequest) (*models.LabReportAnalysis, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// looksLikeFileContent отсекает содержимое файла, присланное вместо
// извлечённого текста: PDF-сигнатуру в начале и NUL-байты.
func looksLikeFileContent(text string) bool {
	return strings.HasPrefix(text, "%PDF-") || strings.ContainsRune(text, 0)
}

// ServeHTTP godoc
// @Summary Загрузить лабораторный отчёт
// @Description Анализирует текст лабораторного отчёта и дописывает результат анализа в сессию.
// @Tags Reports
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param sessionId path string true "Идентификатор сессии"
// @Param request body models.UploadLabReportRequest true "Название и текст отчёта"
// @Success 200 {object} map[string]any "Результат анализа"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Сессия принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Сессия не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /sessions/{sessionId}/lab-reports [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report.upload"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sessionID := chi.URLParam(r, "sessionId")

	var req models.UploadLabReportRequest
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

	if looksLikeFileContent(req.ReportText) {
		log.Error("report text is not plain text", slog.String("report", req.ReportName))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("reportText must contain extracted plain text, not file contents"))
		return
	}

	email, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || email == "" {
		log.Error("email not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	analysis, err := h.service.UploadLabReport(r.Context(), email, sessionID, req)
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
		log.Error("failed to analyze lab report", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not analyze lab report"))
		return
	}

	log.Info("success to analyze lab report",
		slog.String("session_id", sessionID), slog.String("report", req.ReportName))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"analysis": analysis,
	}))
}
