package models

import "time"

// TokenStatus - статус записи refresh-токена в хранилище.
type TokenStatus string

const (
	// StatusActive - токен выдан и ещё не отозван.
	StatusActive TokenStatus = "active"
	// StatusRevoked - токен отозван (logout или ротация); переход ровно один раз.
	StatusRevoked TokenStatus = "revoked"
)

// RefreshTokenRecord - строка таблицы refresh_tokens, одна на выданный
// refresh-токен.
//
// Запись создаётся в статусе active при выпуске токена. Истечение срока
// не является отдельным статусом: оно выводится сравнением ExpiresAt с
// текущим временем. Сырой токен не хранится, только его хэш.
type RefreshTokenRecord struct {
	// JTI - уникальный идентификатор токена, первичный ключ.
	JTI string
	// UserID - субъект, которому выдан токен.
	UserID string
	// TokenHash - sha256 от компактной формы токена (base64url).
	TokenHash string
	// Status - active | revoked.
	Status TokenStatus
	// ExpiresAt - момент истечения токена (UTC), копия клейма exp.
	ExpiresAt time.Time
	// CreatedAt - момент выдачи (UTC).
	CreatedAt time.Time
	// RevokedAt - момент отзыва; nil, пока запись активна.
	RevokedAt *time.Time
}
