package models

import "time"

// TokenPair - пара токенов, выдаваемая при входе и при ротации.
//
// Описание:
//   - AccessToken - короткоживущий JWT для доступа к API;
//   - RefreshToken - долгоживущий JWT, предъявляется только для выпуска
//     новой пары; на сервере хранится хэш и статус его записи;
//   - AccessExpiresAt - момент истечения access-токена (UTC), чтобы клиент
//     мог планировать обновление без разбора клеймов.
type TokenPair struct {
	// AccessToken - JWT для авторизации запросов.
	AccessToken string
	// RefreshToken - JWT для обновления пары.
	RefreshToken string
	// AccessExpiresAt - время истечения действия access-токена (UTC).
	AccessExpiresAt time.Time
}
