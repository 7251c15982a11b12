// Package http собирает HTTP-слой токен-сервиса: маршруты, middleware
// и обработчики. Слой тонкий: разобрать запрос, вызвать сервис,
// отобразить результат или ошибку в единый конверт.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/go-workout-tracker/token-service/internal/service"
	"github.com/go-workout-tracker/token-service/internal/transport/http/middleware"
)

// Options — параметры сборки роутера.
type Options struct {
	// Logger — базовый логгер; Logging строит из него request-scoped
	// логгеры с request_id.
	Logger *slog.Logger
	// Timeout — дедлайн обработки одного запроса; значение <= 0
	// отключает middleware таймаута.
	Timeout time.Duration
}

// NewRouter собирает готовый http.Handler сервиса.
//
// Порядок middleware фиксирован: Recover первым, чтобы перехватить
// панику из любого нижележащего слоя; затем RequestID и Logging,
// чтобы каждый запрос получил сквозной id и request-scoped логгер.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recover(),
		middleware.RequestID(),
		middleware.Logging(opts.Logger),
	)

	if opts.Timeout > 0 {
		r.Use(middleware.Timeout(opts.Timeout))
	}

	h := NewHandlers(svc)

	r.Post("/tokens", h.IssueTokens)
	r.Post("/tokens/refresh", h.RefreshTokens)
	r.Post("/tokens/revoke", h.RevokeToken)
	r.Get("/tokens/validate", h.ValidateToken)

	return r
}
