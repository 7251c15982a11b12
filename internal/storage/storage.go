// Package storage задаёт контракт персистентного слоя сервиса токенов.
//
// Слой нарочно минимальный: точечные вставки и выборки по первичному
// ключу плюс условные обновления. Межтабличных транзакций нет -
// корректность достигается идемпотентными построчными предикатами.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/go-workout-tracker/token-service/internal/models"
)

var (
	// ErrNotFound - запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists - нарушение уникальности первичного ключа (jti).
	ErrAlreadyExists = errors.New("already exists")
)

// RefreshTokenStorage выполняет операции над записями refresh-токенов.
type RefreshTokenStorage interface {
	// SaveRefreshToken сохраняет запись нового refresh-токена.
	// Повторная вставка того же jti -> ErrAlreadyExists.
	SaveRefreshToken(ctx context.Context, rec *models.RefreshTokenRecord) error
	// RefreshTokenByID находит запись по jti.
	RefreshTokenByID(ctx context.Context, jti string) (*models.RefreshTokenRecord, error)
	// RevokeRefreshTokenIfActive помечает запись отозванной, если она ещё активна.
	// Возвращает:
	//
	//	(true, nil)  - запись была активна и отозвана сейчас;
	//	(false, nil) - запись существует, но уже была отозвана;
	//	(false, ErrNotFound) - записи нет.
	RevokeRefreshTokenIfActive(ctx context.Context, jti string, revokedAt time.Time) (bool, error)
	// DeleteExpiredRefreshTokens удаляет записи с expires_at <= now,
	// возвращает число удалённых строк.
	DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)
}

// BlacklistStorage выполняет операции над чёрным списком отозванных токенов.
type BlacklistStorage interface {
	// BlacklistToken добавляет jti в чёрный список. Идемпотентна:
	// повторная вставка того же jti - успех, не ошибка.
	BlacklistToken(ctx context.Context, entry *models.BlacklistEntry) error
	// IsTokenBlacklisted сообщает, присутствует ли jti в чёрном списке.
	IsTokenBlacklisted(ctx context.Context, jti string) (bool, error)
	// DeleteExpiredBlacklistEntries удаляет записи с expires_at <= now,
	// возвращает число удалённых строк.
	DeleteExpiredBlacklistEntries(ctx context.Context, now time.Time) (int64, error)
}

// Storage задаёт контракт работы с БД.
type Storage interface {
	RefreshTokenStorage
	BlacklistStorage
	Close()
}
