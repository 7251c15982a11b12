// Package cache реализует Redis-кэш отозванных токенов.
//
// Кэш хранит только положительные записи: наличие ключа означает, что
// jti отозван. Отсутствие ключа ничего не доказывает, поэтому промах
// кэша всегда перепроверяется в Postgres.
package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/go-workout-tracker/token-service/internal/models"
)

// RevocationCache — минимальный контракт кэша отозванных jti.
type RevocationCache interface {
	// MarkRevoked сохраняет jti как отозванный с TTL (обычно ExpiresAt-now).
	MarkRevoked(ctx context.Context, e *models.BlacklistEntry, ttl time.Duration) error
	// IsRevoked сообщает, есть ли jti среди отозванных.
	IsRevoked(ctx context.Context, jti string) (bool, error)
	// Close закрывает клиент Redis.
	Close() error
}

type redisCache struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisCache создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// Если prefix пустой — используется "tokens:bl:".
func NewRedisCache(redisURL, prefix string) (RevocationCache, error) {
	if prefix == "" {
		prefix = "tokens:bl:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &redisCache{rdb: rdb, prefix: prefix}, nil
}

func (c *redisCache) key(jti string) string { return c.prefix + jti }

// Храним как Redis Hash с полями: uid, rsn, exp (unix).
func (c *redisCache) MarkRevoked(ctx context.Context, e *models.BlacklistEntry, ttl time.Duration) error {
	if ttl <= 0 {
		// Токен уже истёк, кэшировать нечего.
		return nil
	}

	kv := map[string]string{
		"uid": e.UserID,
		"rsn": string(e.Reason),
		"exp": strconv.FormatInt(e.ExpiresAt.Unix(), 10),
	}

	pipe := c.rdb.TxPipeline()
	pipe.HSet(ctx, c.key(e.JTI), kv)
	pipe.Expire(ctx, c.key(e.JTI), ttl)

	_, err := pipe.Exec(ctx)
	return err
}

func (c *redisCache) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, c.key(jti)).Result()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func (c *redisCache) Close() error { return c.rdb.Close() }
