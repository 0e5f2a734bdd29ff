package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/consultation-aggregator/internal/http/response"
	"github.com/magabrotheeeer/consultation-aggregator/internal/lib/sl"
)

// AdminChecker определяет интерфейс проверки административных прав пользователя.
type AdminChecker interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}

// AdminMiddleware создает middleware, пропускающий дальше только
// администраторов. Единственный источник прав — флаг is_admin в записи
// пользователя.
func AdminMiddleware(log *slog.Logger, users AdminChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, ok := r.Context().Value(User).(string)
			if !ok || email == "" {
				log.Error("user identification missing")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			isAdmin, err := users.IsAdmin(r.Context(), email)
			if err != nil {
				log.Error("failed to check admin rights", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}
			if !isAdmin {
				log.Error("admin access denied", slog.String("user", email))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("admin access required"))
				return
			}

			ctx := context.WithValue(r.Context(), Admin, true)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
