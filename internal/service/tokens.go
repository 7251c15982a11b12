package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-workout-tracker/token-service/internal/models"
	"github.com/go-workout-tracker/token-service/internal/pkg/log"
	"github.com/go-workout-tracker/token-service/internal/storage"
	"github.com/go-workout-tracker/token-service/internal/token"
)

// IssueTokenPair выпускает пару access/refresh для пользователя.
// Access-токен не персистится; refresh-токен записывается в хранилище,
// и при неудаче записи пара не выдаётся целиком.
func (s *Service) IssueTokenPair(ctx context.Context, userID, role string) (*models.TokenPair, error) {
	const op = "service.tokens.IssueTokenPair"

	lg := log.From(ctx)

	access, accessClaims, err := s.codec.Sign(userID, role, token.KindAccess)
	if err != nil {
		lg.Error("access_token_sign_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	refresh, err := s.issueRefreshToken(ctx, userID, role)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.TokenPair{
		AccessToken:     access,
		RefreshToken:    refresh,
		AccessExpiresAt: accessClaims.ExpiresAt.Time,
	}, nil
}

// issueRefreshToken подписывает refresh-токен и сохраняет его запись.
// Коллизия jti (дубликат первичного ключа) ретраится ровно один раз
// со свежим jti, после чего ошибка поднимается наверх.
func (s *Service) issueRefreshToken(ctx context.Context, userID, role string) (string, error) {
	const (
		op          = "service.tokens.issueRefreshToken"
		maxAttempts = 2
	)

	lg := log.From(ctx)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		signed, claims, err := s.codec.Sign(userID, role, token.KindRefresh)
		if err != nil {
			lg.Error("refresh_token_sign_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
			return "", fmt.Errorf("%s: %w", op, err)
		}

		rec := &models.RefreshTokenRecord{
			JTI:       claims.ID,
			UserID:    userID,
			TokenHash: hashToken(signed),
			Status:    models.StatusActive,
			ExpiresAt: claims.ExpiresAt.Time,
			CreatedAt: claims.IssuedAt.Time,
		}

		if err := s.storage.SaveRefreshToken(ctx, rec); err != nil {
			if errors.Is(err, storage.ErrAlreadyExists) {
				lg.Warn("refresh_jti_collision",
					slog.String("op", op),
					slog.String("jti", claims.ID),
				)
				continue
			}

			lg.Error("save_refresh_token_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
			return "", fmt.Errorf("%s: %w", op, err)
		}

		return signed, nil
	}

	lg.Error("refresh_collision_exceeded",
		slog.String("op", op),
	)

	return "", fmt.Errorf("%s: %w", op, ErrRefreshTokenCollision)
}

// VerifyAccessToken проверяет access-токен и возвращает его клеймы.
func (s *Service) VerifyAccessToken(ctx context.Context, tokenStr string) (*token.Claims, error) {
	const op = "service.tokens.VerifyAccessToken"

	claims, err := s.verifyToken(ctx, tokenStr, token.KindAccess)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return claims, nil
}

// VerifyRefreshToken проверяет refresh-токен, включая живость его
// сессии в хранилище, и возвращает клеймы.
func (s *Service) VerifyRefreshToken(ctx context.Context, tokenStr string) (*token.Claims, error) {
	const op = "service.tokens.VerifyRefreshToken"

	claims, err := s.verifyToken(ctx, tokenStr, token.KindRefresh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return claims, nil
}

// verifyToken — общая проверка токена, строго в пять шагов:
//
//  1. подпись и срок действия (кодек);
//  2. структурная полнота клеймов (jti, sub);
//  3. совпадение вида токена с ожидаемым;
//  4. отсутствие jti в чёрном списке;
//  5. живость refresh-сессии (только для refresh-токенов).
//
// Порядок шагов фиксирован: истёкший токен всегда даёт TOKEN_EXPIRED,
// а не код более позднего шага.
func (s *Service) verifyToken(ctx context.Context, tokenStr string, expected token.Kind) (*token.Claims, error) {
	const op = "service.tokens.verifyToken"

	lg := log.From(ctx)

	claims, err := s.codec.Verify(tokenStr)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidSignature)
	}

	if claims.ID == "" || claims.Subject == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidTokenStructure)
	}

	if claims.Kind != expected {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidTokenType)
	}

	// Недоступность чёрного списка трактуется как отзыв (fail closed);
	// причина остаётся в серверном логе и не уходит клиенту.
	revoked, err := s.isBlacklisted(ctx, claims.ID)
	if err != nil {
		lg.Error("blacklist_check_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w", op, ErrTokenRevoked)
	}

	if revoked {
		return nil, fmt.Errorf("%s: %w", op, ErrTokenRevoked)
	}

	if expected == token.KindRefresh {
		if err := s.checkRefreshLiveness(ctx, claims.ID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return claims, nil
}

// isBlacklisted проверяет jti сначала в кэше отзыва (если он подключён),
// затем в БД. Кэш хранит только положительное членство, поэтому промах
// или ошибка кэша ничего не доказывают и приводят к запросу в БД.
func (s *Service) isBlacklisted(ctx context.Context, jti string) (bool, error) {
	const op = "service.tokens.isBlacklisted"

	if s.rcache != nil {
		hit, err := s.rcache.IsRevoked(ctx, jti)
		if err != nil {
			log.From(ctx).Warn("revocation_cache_check_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
		} else if hit {
			return true, nil
		}
	}

	return s.storage.IsTokenBlacklisted(ctx, jti)
}

// checkRefreshLiveness гарантирует, что refresh-сессия жива: запись
// существует, активна и не истекла по часам сервиса. Недоступность
// хранилища трактуется как инвалидированная сессия (fail closed).
func (s *Service) checkRefreshLiveness(ctx context.Context, jti string) error {
	const op = "service.tokens.checkRefreshLiveness"

	lg := log.From(ctx)

	rec, err := s.storage.RefreshTokenByID(ctx, jti)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("refresh_lookup_not_found",
				slog.String("op", op),
			)
		} else {
			lg.Error("refresh_lookup_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
		}

		return fmt.Errorf("%s: %w", op, ErrSessionInvalidated)
	}

	if rec.Status != models.StatusActive {
		lg.Warn("refresh_session_revoked",
			slog.String("op", op),
			slog.String("user_id", rec.UserID),
		)
		return fmt.Errorf("%s: %w", op, ErrSessionInvalidated)
	}

	if !rec.ExpiresAt.After(s.clk.Now()) {
		lg.Warn("refresh_session_expired",
			slog.String("op", op),
			slog.String("user_id", rec.UserID),
		)
		return fmt.Errorf("%s: %w", op, ErrSessionInvalidated)
	}

	return nil
}

// ExtractBearerToken извлекает токен из заголовка Authorization
// формата "Bearer <token>".
func ExtractBearerToken(header string) (string, error) {
	const prefix = "Bearer "

	if !strings.HasPrefix(header, prefix) {
		return "", ErrInvalidAuthHeader
	}

	tokenStr := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if tokenStr == "" {
		return "", ErrInvalidAuthHeader
	}

	return tokenStr, nil
}

// hashToken возвращает base64url(sha256) компактной формы токена.
// Сырые refresh-токены в БД не хранятся.
func hashToken(tokenStr string) string {
	sum := sha256.Sum256([]byte(tokenStr))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
