package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/go-workout-tracker/token-service/internal/models"
	"github.com/go-workout-tracker/token-service/internal/storage"
)

// SaveRefreshToken сохраняет запись нового refresh-токена.
func (s *Storage) SaveRefreshToken(ctx context.Context, rec *models.RefreshTokenRecord) error {
	const op = "storage.postgres.SaveRefreshToken"

	query := `
        INSERT INTO refresh_tokens(jti, user_id, token_hash, status, expires_at, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `

	_, err := s.db.Exec(ctx, query,
		rec.JTI,
		rec.UserID,
		rec.TokenHash,
		string(rec.Status),
		rec.ExpiresAt,
		rec.CreatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// RefreshTokenByID находит запись refresh-токена по jti.
func (s *Storage) RefreshTokenByID(ctx context.Context, jti string) (*models.RefreshTokenRecord, error) {
	const op = "storage.postgres.RefreshTokenByID"

	query := `
        SELECT jti, user_id, token_hash, status, expires_at, created_at, revoked_at
        FROM refresh_tokens
        WHERE jti = $1
    `

	var (
		rec    models.RefreshTokenRecord
		status string
	)
	err := s.db.QueryRow(ctx, query, jti).Scan(
		&rec.JTI,
		&rec.UserID,
		&rec.TokenHash,
		&status,
		&rec.ExpiresAt,
		&rec.CreatedAt,
		&rec.RevokedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rec.Status = models.TokenStatus(status)

	return &rec, nil
}

// RevokeRefreshTokenIfActive помечает запись отозванной, если она ещё активна.
// Возвращает:
//
//	(true, nil)  - запись была активна и отозвана сейчас;
//	(false, nil) - запись существует, но уже была отозвана;
//	(false, ErrNotFound) - записи нет.
func (s *Storage) RevokeRefreshTokenIfActive(ctx context.Context, jti string, revokedAt time.Time) (bool, error) {
	const op = "storage.postgres.RevokeRefreshTokenIfActive"

	const upd = `
		UPDATE refresh_tokens
		SET status = 'revoked', revoked_at = $2
		WHERE jti = $1 AND status = 'active'
		RETURNING user_id
	`

	var userID string
	err := s.db.QueryRow(ctx, upd, jti, revokedAt).Scan(&userID)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	const sel = `
		SELECT status
		FROM refresh_tokens
		WHERE jti = $1
	`

	var status string
	err = s.db.QueryRow(ctx, sel, jti).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return false, fmt.Errorf("%s: %w", op, err)
	}

	return false, nil
}

// DeleteExpiredRefreshTokens удаляет записи с expires_at <= now.
func (s *Storage) DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	const op = "storage.postgres.DeleteExpiredRefreshTokens"

	query := `
        DELETE FROM refresh_tokens
        WHERE expires_at <= $1
    `

	cmdTag, err := s.db.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return cmdTag.RowsAffected(), nil
}
