// redact предоставляет утилиты безопасного редактирования чувствительных
// данных для логов. Цель — исключить утечки секретов, сохранив при этом
// полезный для отладки контекст (хост и имя базы остаются видимыми).
package redact

import "net/url"

// URL маскирует пароль в userinfo-части URL подключения.
//
// Правила:
//   - пароль заменяется на "xxxxx", имя пользователя сохраняется;
//   - хост, порт, путь и параметры возвращаются без изменений;
//   - строка, которая не разбирается как URL, редактируется целиком.
//
// Примеры:
//
//	"postgres://app:s3cret@db:5432/tokens" -> "postgres://app:xxxxx@db:5432/tokens"
//	"redis://:pass@cache:6379/0"           -> "redis://:xxxxx@cache:6379/0"
//	"://broken"                            -> "***"
func URL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "***"
	}

	return u.Redacted()
}
