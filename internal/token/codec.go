// Package token реализует кодек JWT-токенов: подпись, разбор без проверки
// подписи и верификацию подписи со сроком действия.
//
// Кодек не знает про хранилище и чёрный список: он чистая функция от
// полезной нагрузки, секрета и часов. Состав wire-формата: sub, role,
// type, jti, iat, exp, iss. Access- и refresh-токены подписываются
// разными секретами, чтобы утечка одного не позволяла подделать другой вид.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/go-workout-tracker/token-service/internal/config"
	"github.com/go-workout-tracker/token-service/internal/pkg/clock"
)

// Kind - вид токена, значение клейма type.
type Kind string

const (
	// KindAccess - короткоживущий токен доступа к API.
	KindAccess Kind = "access"
	// KindRefresh - долгоживущий токен для выпуска новой пары.
	KindRefresh Kind = "refresh"
)

// Сентинельные ошибки кодека. Сервисный слой переводит их в машиночитаемые
// коды аутентификации.
var (
	// ErrExpired - подпись верна, но срок действия токена истёк.
	ErrExpired = errors.New("token expired")
	// ErrInvalid - подпись неверна, токен структурно не разбирается
	// либо клейм type неизвестен.
	ErrInvalid = errors.New("invalid token")
)

// Claims - полезная нагрузка токена.
type Claims struct {
	Role string `json:"role"`
	Kind Kind   `json:"type"`
	jwt.RegisteredClaims
}

// Codec подписывает и проверяет токены обоих видов.
type Codec struct {
	secrets map[Kind][]byte
	ttls    map[Kind]time.Duration
	issuer  string
	clk     clock.Clock
}

// NewCodec валидирует конфигурацию и собирает кодек.
// Отсутствующий секрет или неположительный TTL - ошибка конфигурации,
// обнаруживаемая на старте, а не при первой подписи.
func NewCodec(cfg config.TokensConfig, clk clock.Clock) (*Codec, error) {
	const op = "token.codec.NewCodec"

	if cfg.AccessSecret == "" {
		return nil, fmt.Errorf("%s: access token secret is empty", op)
	}
	if cfg.RefreshSecret == "" {
		return nil, fmt.Errorf("%s: refresh token secret is empty", op)
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, fmt.Errorf("%s: access and refresh secrets must differ", op)
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, fmt.Errorf("%s: token TTLs must be positive", op)
	}

	if clk == nil {
		clk = clock.System()
	}

	return &Codec{
		secrets: map[Kind][]byte{
			KindAccess:  []byte(cfg.AccessSecret),
			KindRefresh: []byte(cfg.RefreshSecret),
		},
		ttls: map[Kind]time.Duration{
			KindAccess:  cfg.AccessTTL,
			KindRefresh: cfg.RefreshTTL,
		},
		issuer: cfg.Issuer,
		clk:    clk,
	}, nil
}

// Sign выпускает токен вида kind для пары (userID, role): свежий jti,
// iat/exp от внутренних часов, подпись HS256 секретом этого вида.
// Возвращает компактную форму и клеймы (вызывающему нужны jti и exp,
// чтобы завести запись в хранилище).
func (c *Codec) Sign(userID, role string, kind Kind) (string, *Claims, error) {
	const op = "token.codec.Sign"

	secret, ok := c.secrets[kind]
	if !ok {
		return "", nil, fmt.Errorf("%s: unknown token kind %q", op, kind)
	}

	now := c.clk.Now().UTC()
	claims := &Claims{
		Role: role,
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttls[kind])),
			Issuer:    c.issuer,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	return signed, claims, nil
}

// Decode разбирает токен без проверки подписи. Используется только для
// извлечения jti/exp из заведомо недоверенного токена (например, при
// отзыве); результату нельзя доверять без Verify.
func (c *Codec) Decode(tokenStr string) (*Claims, error) {
	const op = "token.codec.Decode"

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalid)
	}

	return claims, nil
}

// Verify проверяет подпись и срок действия токена.
//
// Секрет выбирается по клейму type самого токена: клейм находится под
// подписью, поэтому подмена type ломает подпись и даёт ErrInvalid.
// Сверка type с ожидаемым видом остаётся за вызывающим: так предъявление
// refresh-токена в access-контексте различимо как ошибка вида, а не подписи.
func (c *Codec) Verify(tokenStr string) (*Claims, error) {
	const op = "token.codec.Verify"

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("%s: %w", op, ErrInvalid)
			}

			claims, ok := t.Claims.(*Claims)
			if !ok {
				return nil, fmt.Errorf("%s: %w", op, ErrInvalid)
			}

			secret, ok := c.secrets[claims.Kind]
			if !ok {
				return nil, fmt.Errorf("%s: %w", op, ErrInvalid)
			}

			return secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5*time.Second),
		jwt.WithIssuer(c.issuer),
		jwt.WithTimeFunc(c.clk.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, ErrExpired)
		}

		return nil, fmt.Errorf("%s: %w", op, ErrInvalid)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalid)
	}

	return claims, nil
}
