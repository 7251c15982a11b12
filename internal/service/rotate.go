package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-workout-tracker/token-service/internal/models"
	"github.com/go-workout-tracker/token-service/internal/pkg/log"
	"github.com/go-workout-tracker/token-service/internal/storage"
	"github.com/go-workout-tracker/token-service/internal/token"
)

// RotateRefreshToken выпускает новую пару по действующему refresh-токену
// и гасит старый: его jti уходит в чёрный список (reason=token_refresh),
// запись помечается revoked. Новая пара выпускается ДО отзыва старого
// токена, чтобы сбой поздних шагов не оставил клиента вовсе без токенов:
// в этом случае пара возвращается вместе с ErrPartialRotation.
func (s *Service) RotateRefreshToken(ctx context.Context, oldToken string) (*models.TokenPair, error) {
	const op = "service.rotate.RotateRefreshToken"

	lg := log.From(ctx)

	// Полная пятишаговая проверка: отозванный, истёкший или чужой
	// токен ротации не подлежит.
	claims, err := s.verifyToken(ctx, oldToken, token.KindRefresh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Клеймы уже прошли структурную проверку; нарушение контракта здесь
	// означает ошибку в коде, а не недоверенный ввод.
	if claims.Subject == "" || claims.ID == "" || claims.Kind != token.KindRefresh {
		return nil, fmt.Errorf("%s: %w", op, ErrMalformedClaims)
	}

	pair, err := s.IssueTokenPair(ctx, claims.Subject, claims.Role)
	if err != nil {
		// Старый токен не тронут, клиент может повторить попытку.
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.retireToken(ctx, claims, models.ReasonTokenRefresh); err != nil {
		lg.Warn("rotation_cleanup_failed",
			slog.String("op", op),
			slog.String("jti", claims.ID),
			slog.String("err", err.Error()),
		)
		return pair, fmt.Errorf("%s: %w", op, ErrPartialRotation)
	}

	return pair, nil
}

// Revoke отзывает предъявленный токен (logout и подобное). Подпись и
// срок действия не проверяются: отзыв уже истёкшего токена безвреден,
// а из клеймов нужны только jti, sub и exp. Пустая причина трактуется
// как logout.
func (s *Service) Revoke(ctx context.Context, tokenStr string, reason models.RevocationReason) error {
	const op = "service.rotate.Revoke"

	claims, err := s.codec.Decode(tokenStr)
	if err != nil {
		return fmt.Errorf("%s: %w", op, ErrInvalidTokenStructure)
	}

	if claims.ID == "" || claims.Subject == "" {
		return fmt.Errorf("%s: %w", op, ErrInvalidTokenStructure)
	}

	if reason == "" {
		reason = models.ReasonLogout
	}

	if err := s.retireToken(ctx, claims, reason); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// retireToken гасит токен: заносит jti в чёрный список (идемпотентно),
// прогревает кэш отзыва и для refresh-токенов помечает запись revoked.
// Ноль затронутых строк на последнем шаге — не ошибка: запись уже
// погашена конкурентной ротацией.
func (s *Service) retireToken(ctx context.Context, claims *token.Claims, reason models.RevocationReason) error {
	const op = "service.rotate.retireToken"

	lg := log.From(ctx)

	now := s.clk.Now()

	// У токена без exp (возможен только на пути Revoke, где подпись не
	// проверяется) запись чёрного списка живёт до ближайшей уборки.
	expiresAt := now
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	entry := &models.BlacklistEntry{
		JTI:       claims.ID,
		UserID:    claims.Subject,
		ExpiresAt: expiresAt,
		Reason:    reason,
		CreatedAt: now,
	}

	if err := s.storage.BlacklistToken(ctx, entry); err != nil {
		lg.Error("blacklist_insert_failed",
			slog.String("op", op),
			slog.String("jti", claims.ID),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("%s: %w", op, err)
	}

	s.cacheRevocation(ctx, entry)

	if claims.Kind != token.KindRefresh {
		return nil
	}

	if _, err := s.storage.RevokeRefreshTokenIfActive(ctx, claims.ID, now); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Записи нет вовсе; jti уже в чёрном списке, этого достаточно.
			lg.Warn("revoke_refresh_not_found",
				slog.String("op", op),
				slog.String("jti", claims.ID),
			)
			return nil
		}

		lg.Error("revoke_refresh_failed",
			slog.String("op", op),
			slog.String("jti", claims.ID),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// cacheRevocation — best-effort прогрев кэша отзыва; ошибки кэша не
// влияют на исход операции, истина остаётся за БД.
func (s *Service) cacheRevocation(ctx context.Context, entry *models.BlacklistEntry) {
	const op = "service.rotate.cacheRevocation"

	if s.rcache == nil {
		return
	}

	ttl := entry.ExpiresAt.Sub(s.clk.Now())
	if err := s.rcache.MarkRevoked(ctx, entry, ttl); err != nil {
		log.From(ctx).Warn("revocation_cache_write_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
	}
}
