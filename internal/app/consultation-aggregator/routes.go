// Package consultationaggregator предоставляет маршруты для основного приложения.
package consultationaggregator

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	adminapprove "github.com/magabrotheeeer/consultation-aggregator/internal/http/handlers/admin/approve"
	admincheck "github.com/magabrotheeeer/consultation-aggregator/internal/http/handlers/admin/check"
	adminpaymentlist "github.com/magabrotheeeer/consultation-aggregator/internal/http/handlers/admin/paymentlist"
	adminreject "github.com/magabrotheeeer/consultation-aggregator/internal/http/handlers/admin/reject"
	chatgeneral "github.com/magabrotheeeer/consultation-aggregator/internal/http/handlers/chat/general"
	chathistory "github.com/magabrotheeeer/consultation-aggregator/internal/http/handlers/chat/history"
	chatmessage "github.com/magabrotheeeer/consultation-aggregator/internal/http/handlers/chat/message"
	doctorlist "github.com/magabrotheeeer/consultation-aggregator/internal/http/handlers/doctor/list"
	doctorsuggest "github.com/magabrotheeeer/consultation-aggregator/internal/http/handlers/doctor/suggest"
	"github.com/magabrotheeeer/consultation-aggregator/internal/http/handlers/health"
	paymentsubmit "github.com/magabrotheeeer/consultation-aggregator/internal/http/handlers/payment/submit"
	reportgenerate "github.com/magabrotheeeer/consultation-aggregator/internal/http/handlers/report/generate"
	reportupload "github.com/magabrotheeeer/consultation-aggregator/internal/http/handlers/report/upload"
	sessioncreate "github.com/magabrotheeeer/consultation-aggregator/internal/http/handlers/session/create"
	sessionlist "github.com/magabrotheeeer/consultation-aggregator/internal/http/handlers/session/list"
	sessionread "github.com/magabrotheeeer/consultation-aggregator/internal/http/handlers/session/read"
	trendsread "github.com/magabrotheeeer/consultation-aggregator/internal/http/handlers/trends/read"
	userensure "github.com/magabrotheeeer/consultation-aggregator/internal/http/handlers/user/ensure"
	"github.com/magabrotheeeer/consultation-aggregator/internal/http/middlewarectx"
	consultationservice "github.com/magabrotheeeer/consultation-aggregator/internal/services/consultation"
	paymentservice "github.com/magabrotheeeer/consultation-aggregator/internal/services/payment"
	userservice "github.com/magabrotheeeer/consultation-aggregator/internal/services/user"
	"github.com/magabrotheeeer/consultation-aggregator/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, db *repository.Storage,
	tokenParser middlewarectx.TokenParser,
	userService *userservice.Service,
	paymentService *paymentservice.Service,
	consultationService *consultationservice.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Get("/health", health.New(logger, db).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(tokenParser, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/users", userensure.New(logger, userService).ServeHTTP)

			r.Post("/sessions", sessioncreate.New(logger, consultationService).ServeHTTP)
			r.Get("/sessions", sessionlist.New(logger, consultationService).ServeHTTP)
			r.Get("/sessions/{sessionId}", sessionread.New(logger, consultationService).ServeHTTP)
			r.Post("/sessions/{sessionId}/messages", chatmessage.New(logger, consultationService).ServeHTTP)
			r.Get("/sessions/{sessionId}/messages", chathistory.New(logger, consultationService).ServeHTTP)
			r.Post("/sessions/{sessionId}/report", reportgenerate.New(logger, consultationService).ServeHTTP)
			r.Post("/sessions/{sessionId}/lab-reports", reportupload.New(logger, consultationService).ServeHTTP)

			r.Get("/doctors", doctorlist.New(logger).ServeHTTP)
			r.Post("/doctors/suggest", doctorsuggest.New(logger, consultationService).ServeHTTP)

			r.Post("/chat", chatgeneral.New(logger, consultationService).ServeHTTP)
			r.Get("/trends", trendsread.New(logger, consultationService).ServeHTTP)

			r.Post("/payments", paymentsubmit.New(logger, paymentService).ServeHTTP)
			r.Get("/admin/check", admincheck.New(logger, userService).ServeHTTP)

			// Подгруппа только для администраторов
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminMiddleware(logger, userService))
				r.Get("/admin/payments", adminpaymentlist.New(logger, paymentService).ServeHTTP)
				r.Post("/admin/payments/approve", adminapprove.New(logger, paymentService).ServeHTTP)
				r.Post("/admin/payments/reject", adminreject.New(logger, paymentService).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
