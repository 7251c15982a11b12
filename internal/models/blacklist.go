package models

import "time"

// RevocationReason - причина попадания токена в чёрный список.
type RevocationReason string

const (
	// ReasonLogout - явный выход пользователя.
	ReasonLogout RevocationReason = "logout"
	// ReasonTokenRefresh - отзыв старого refresh-токена при ротации.
	ReasonTokenRefresh RevocationReason = "token_refresh"
)

// BlacklistEntry - строка таблицы blacklisted_tokens, одна на отозванный jti.
//
// Запись неизменяемая: вставляется в момент отзыва и удаляется janitor-ом,
// когда проходит ExpiresAt (дальше токен отклонит собственная проверка exp).
// Вставка идемпотентна: повторная вставка того же jti - успех, не ошибка.
type BlacklistEntry struct {
	// JTI - идентификатор отозванного токена, первичный ключ.
	JTI string
	// UserID - субъект токена.
	UserID string
	// ExpiresAt - срок жизни исходного токена (UTC); после него запись
	// можно удалять.
	ExpiresAt time.Time
	// Reason - logout | token_refresh.
	Reason RevocationReason
	// CreatedAt - момент отзыва (UTC).
	CreatedAt time.Time
}
