package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
)

// headerRequestID — имя заголовка сквозного идентификатора запроса.
const headerRequestID = "X-Request-Id"

// RequestID гарантирует наличие идентификатора запроса: берёт его из
// входящего заголовка X-Request-Id или генерирует новый. Идентификатор
// проставляется в заголовок ответа и в заголовок запроса, откуда его
// читают Logging и конструктор ошибочного ответа.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := r.Header.Get(headerRequestID)
			if rid == "" {
				rid = genID()
			}

			w.Header().Set(headerRequestID, rid)
			r.Header.Set(headerRequestID, rid)

			next.ServeHTTP(w, r)
		})
	}
}

// genID возвращает 16 случайных байт в hex (32 символа).
func genID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		// Вырожденный случай: без случайности остаёмся с пустым id,
		// запрос при этом обслуживается.
		return ""
	}

	return hex.EncodeToString(b[:])
}
