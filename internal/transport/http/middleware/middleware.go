// Package middleware содержит HTTP middleware токен-сервиса:
// сквозной request id, структурное логирование запросов, перехват
// паник и таймаут обработки.
//
// Порядок подключения (внешний -> внутренний): Recover -> RequestID ->
// Logging -> Timeout. Recover стоит первым, чтобы поймать панику
// из любого нижележащего слоя, включая сами middleware.
package middleware

import "net/http"

// Middleware — стандартная сигнатура HTTP middleware.
type Middleware func(http.Handler) http.Handler

// Chain последовательно оборачивает обработчик h в перечисленные
// middleware. Первый элемент списка становится самым внешним.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}

	return h
}

// statusWriter — обёртка над http.ResponseWriter для захвата статуса
// ответа и количества записанных байт. До первого WriteHeader статус
// считается 200, как и в net/http.
type statusWriter struct {
	http.ResponseWriter
	status int
	count  int
}

func newStatusWriter(w http.ResponseWriter) *statusWriter {
	return &statusWriter{ResponseWriter: w, status: http.StatusOK}
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.count += n

	return n, err
}
