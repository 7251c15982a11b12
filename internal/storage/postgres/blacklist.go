package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/go-workout-tracker/token-service/internal/models"
)

// BlacklistToken добавляет jti в чёрный список.
// ON CONFLICT DO NOTHING делает вставку идемпотентной: два конкурентных
// отзыва одного токена оба завершаются успехом.
func (s *Storage) BlacklistToken(ctx context.Context, entry *models.BlacklistEntry) error {
	const op = "storage.postgres.BlacklistToken"

	query := `
        INSERT INTO blacklisted_tokens(jti, user_id, expires_at, reason, created_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (jti) DO NOTHING
    `

	_, err := s.db.Exec(ctx, query,
		entry.JTI,
		entry.UserID,
		entry.ExpiresAt,
		string(entry.Reason),
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// IsTokenBlacklisted сообщает, присутствует ли jti в чёрном списке.
func (s *Storage) IsTokenBlacklisted(ctx context.Context, jti string) (bool, error) {
	const op = "storage.postgres.IsTokenBlacklisted"

	query := `
        SELECT EXISTS(SELECT 1 FROM blacklisted_tokens WHERE jti = $1)
    `

	var blacklisted bool
	if err := s.db.QueryRow(ctx, query, jti).Scan(&blacklisted); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return blacklisted, nil
}

// DeleteExpiredBlacklistEntries удаляет записи с expires_at <= now.
func (s *Storage) DeleteExpiredBlacklistEntries(ctx context.Context, now time.Time) (int64, error) {
	const op = "storage.postgres.DeleteExpiredBlacklistEntries"

	query := `
        DELETE FROM blacklisted_tokens
        WHERE expires_at <= $1
    `

	cmdTag, err := s.db.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return cmdTag.RowsAffected(), nil
}
