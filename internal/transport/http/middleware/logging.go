package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-workout-tracker/token-service/internal/pkg/log"
)

// Logging кладёт request-scoped логгер в контекст запроса и по
// завершении пишет одну итоговую запись "http" с методом, путём,
// статусом, длительностью и объёмом ответа. Если RequestID подключён
// раньше по цепочке, request_id попадает в атрибуты логгера.
func Logging(base *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lg := base
			if lg == nil {
				lg = slog.Default()
			}

			if rid := r.Header.Get(headerRequestID); rid != "" {
				lg = lg.With(slog.String("request_id", rid))
			}

			start := time.Now()
			sw := newStatusWriter(w)
			ctx := log.Into(r.Context(), lg)

			next.ServeHTTP(sw, r.WithContext(ctx))

			lg.LogAttrs(ctx, slog.LevelInfo, "http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.status),
				slog.Duration("dur", time.Since(start)),
				slog.Int("bytes", sw.count),
			)
		})
	}
}
