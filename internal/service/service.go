// service содержит бизнес-логику сервиса токенов:
// выпуск пар access/refresh, пятишаговую проверку, отзыв и ротацию
// refresh-токенов поверх интерфейсов из пакетов storage и cache.
//
// Основные аспекты:
//   - Пакет не хранит состояние запроса внутри Service; экземпляр Service
//     безопасен для конкурентного использования из разных горутин при условии,
//     что переданное хранилище (storage.Storage) потокобезопасно.
//   - Исходы проверки токена выражены закрытым типом AuthError; транспорт
//     маппит их на HTTP-коды (см. комментарии к переменным ошибок ниже).
package service

import (
	"errors"

	"github.com/go-workout-tracker/token-service/internal/cache"
	"github.com/go-workout-tracker/token-service/internal/pkg/clock"
	"github.com/go-workout-tracker/token-service/internal/storage"
	"github.com/go-workout-tracker/token-service/internal/token"
)

// Code — машинный код исхода проверки токена. Набор закрыт:
// новые коды добавляются только вместе с новым шагом проверки.
type Code string

const (
	CodeTokenExpired          Code = "TOKEN_EXPIRED"
	CodeInvalidSignature      Code = "INVALID_SIGNATURE"
	CodeInvalidTokenType      Code = "INVALID_TOKEN_TYPE"
	CodeInvalidTokenStructure Code = "INVALID_TOKEN_STRUCTURE"
	CodeTokenRevoked          Code = "TOKEN_REVOKED"
	CodeSessionInvalidated    Code = "SESSION_INVALIDATED"
)

// AuthError — закрытый тип ошибок проверки токена. Код однозначно
// идентифицирует исход, текст безопасен для выдачи клиенту.
// Сопоставляется через errors.Is с пакетными переменными ниже либо
// через errors.As с switch по Code.
type AuthError struct {
	Code    Code
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// Is сравнивает ошибки по коду, а не по указателю, чтобы errors.Is
// работал и для самостоятельно сконструированных *AuthError.
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	return ok && t.Code == e.Code
}

var (
	// ErrTokenExpired — срок действия токена истёк (шаг 1 проверки).
	// Транспорт: HTTP 401, код TOKEN_EXPIRED (сигнал клиенту на silent refresh).
	ErrTokenExpired = &AuthError{Code: CodeTokenExpired, Message: "token expired"}

	// ErrInvalidSignature — подпись не прошла проверку либо токен не
	// разбирается как JWT (шаг 1). Транспорт: HTTP 401.
	ErrInvalidSignature = &AuthError{Code: CodeInvalidSignature, Message: "invalid token signature"}

	// ErrInvalidTokenType — вид токена не совпал с ожидаемым, например
	// refresh предъявлен вместо access (шаг 3). Транспорт: HTTP 401.
	ErrInvalidTokenType = &AuthError{Code: CodeInvalidTokenType, Message: "invalid token type"}

	// ErrInvalidTokenStructure — в клеймах нет jti или sub (шаг 2),
	// либо на отзыв передан нечитаемый токен. Транспорт: HTTP 401.
	ErrInvalidTokenStructure = &AuthError{Code: CodeInvalidTokenStructure, Message: "invalid token structure"}

	// ErrTokenRevoked — jti найден в чёрном списке (шаг 4). Недоступность
	// чёрного списка даёт тот же исход (fail closed). Транспорт: HTTP 401.
	ErrTokenRevoked = &AuthError{Code: CodeTokenRevoked, Message: "token revoked"}

	// ErrSessionInvalidated — refresh-сессия мертва: записи нет, она
	// отозвана или истекла (шаг 5). Недоступность хранилища даёт тот же
	// исход (fail closed). Транспорт: HTTP 401.
	ErrSessionInvalidated = &AuthError{Code: CodeSessionInvalidated, Message: "session invalidated"}
)

var (
	// ErrRefreshTokenCollision — не удалось сохранить refresh-токен с
	// уникальным jti после повторной попытки (крайне редкий случай).
	// Транспорт: HTTP 500.
	ErrRefreshTokenCollision = errors.New("refresh token jti collision")

	// ErrPartialRotation — новая пара выпущена, но старый токен не удалось
	// полностью погасить. Возвращается ВМЕСТЕ с ненулевой парой; транспорт
	// отдаёт пару клиенту и пишет предупреждение в лог.
	ErrPartialRotation = errors.New("rotation partially completed")

	// ErrMalformedClaims — клеймы нарушают контракт уже после успешной
	// проверки; указывает на ошибку в коде, а не на недоверенный ввод.
	// Транспорт: HTTP 500.
	ErrMalformedClaims = errors.New("malformed token claims")

	// ErrInvalidAuthHeader — заголовок Authorization отсутствует или не
	// имеет формата "Bearer <token>". Транспорт: HTTP 401.
	ErrInvalidAuthHeader = errors.New("invalid authorization header")
)

// Service реализует жизненный цикл токенов поверх кодека и хранилища.
type Service struct {
	storage storage.Storage
	codec   *token.Codec
	clk     clock.Clock
	rcache  cache.RevocationCache // может быть nil, если кэш не сконфигурирован
}

// New создаёт новый экземпляр Service. Нулевые часы заменяются системными.
func New(storage storage.Storage, codec *token.Codec, clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.System()
	}

	return &Service{
		storage: storage,
		codec:   codec,
		clk:     clk,
	}
}

// SetRevocationCache устанавливает кэш отозванных токенов (опционально).
func (s *Service) SetRevocationCache(c cache.RevocationCache) {
	s.rcache = c
}
