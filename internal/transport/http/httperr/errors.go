// Package httperr задаёт единый формат ошибочного HTTP-ответа
// токен-сервиса и отображение сервисных ошибок на статусы.
//
// Формат конверта:
//
//	{"error": {"code": "...", "message": "...", "request_id": "..."}}
//
// Коды верификации (TOKEN_EXPIRED, INVALID_SIGNATURE и далее) приходят
// из сервисного слоя как есть и образуют закрытый словарь для клиентов:
// по коду в теле 401 клиент отличает "токен протух, пора на refresh"
// от "токен отозван, нужна повторная аутентификация". Транспортные
// коды (INVALID_ARGUMENT, UNAUTHENTICATED, INTERNAL) добавляются здесь.
package httperr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-workout-tracker/token-service/internal/service"
)

// Транспортные коды ошибок, не являющиеся исходами верификации.
const (
	codeInvalidArgument = "INVALID_ARGUMENT"
	codeUnauthenticated = "UNAUTHENTICATED"
	codeInternal        = "INTERNAL"
)

// ErrInvalidArgument — некорректное тело или параметры запроса.
// Ответ: 400 INVALID_ARGUMENT.
var ErrInvalidArgument = errors.New("invalid argument")

// APIError — тело ошибки внутри конверта.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — конверт ошибочного ответа.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP переводит ошибку сервиса в HTTP-статус и конверт.
//
// Отображение закрыто: ошибки верификации (*service.AuthError) дают
// 401 со своим кодом, ErrInvalidAuthHeader — 401 UNAUTHENTICATED,
// ErrInvalidArgument — 400, всё остальное — 500 INTERNAL без
// деталей (внутренности хранилища наружу не протекают).
func ToHTTP(err error) (int, ErrorResponse) {
	var authErr *service.AuthError

	switch {
	case errors.As(err, &authErr):
		return http.StatusUnauthorized, envelope(string(authErr.Code), authErr.Message)
	case errors.Is(err, service.ErrInvalidAuthHeader):
		return http.StatusUnauthorized, envelope(codeUnauthenticated, "missing or malformed authorization header")
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest, envelope(codeInvalidArgument, "invalid request")
	default:
		return http.StatusInternalServerError, envelope(codeInternal, "internal error")
	}
}

// WriteError пишет ошибку в ответ в едином конверте, дополняя его
// сквозным request id из заголовка запроса (его проставляет
// middleware.RequestID).
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func envelope(code, message string) ErrorResponse {
	return ErrorResponse{Error: APIError{Code: code, Message: message}}
}
