// Package consultationaggregator собирает и запускает основное приложение:
// подключение к PostgreSQL и Redis, миграции, клиент языковой модели,
// сервисы и HTTP-сервер.
package consultationaggregator

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/consultation-aggregator/internal/assistant"
	"github.com/magabrotheeeer/consultation-aggregator/internal/cache"
	"github.com/magabrotheeeer/consultation-aggregator/internal/config"
	"github.com/magabrotheeeer/consultation-aggregator/internal/lib/jwt"
	"github.com/magabrotheeeer/consultation-aggregator/internal/migrations"
	consultationservice "github.com/magabrotheeeer/consultation-aggregator/internal/services/consultation"
	paymentservice "github.com/magabrotheeeer/consultation-aggregator/internal/services/payment"
	userservice "github.com/magabrotheeeer/consultation-aggregator/internal/services/user"
	"github.com/magabrotheeeer/consultation-aggregator/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	tokenMaker := jwt.NewJWTMaker(cfg.JWTToken.JWTSecretKey, cfg.JWTToken.TokenTTL)
	assistantClient := assistant.New(cfg.Assistant, logger)

	userService := userservice.New(db, logger)
	paymentService := paymentservice.New(db, logger)
	consultationService := consultationservice.New(db, cacheRedis, assistantClient, logger, cfg.ConsultationLimit)

	router := chi.NewRouter()

	RegisterRoutes(router, logger, db, tokenMaker, userService, paymentService, consultationService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		return err
	}
}
