package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-workout-tracker/token-service/internal/pkg/log"
	"github.com/go-workout-tracker/token-service/internal/transport/http/httperr"
)

// Recover перехватывает панику обработчика, логирует её и отвечает
// единым конвертом 500. Паника не должна ронять процесс целиком.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					lg := log.From(r.Context())
					lg.LogAttrs(r.Context(), slog.LevelError, "panic",
						slog.Any("recover", rec),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
					)

					httperr.WriteError(w, r, errors.New("panic recovered"))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
