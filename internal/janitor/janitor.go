// Package janitor реализует фоновую уборку просроченных записей токенов.
//
// Просроченный токен и так не проходит проверку (по exp и по живости
// сессии), уборка лишь возвращает место в БД. Поэтому сбои прохода
// логируются и никогда не фатальны.
package janitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-workout-tracker/token-service/internal/pkg/clock"
	"github.com/go-workout-tracker/token-service/internal/pkg/log"
	"github.com/go-workout-tracker/token-service/internal/storage"
)

// Janitor периодически удаляет из хранилища просроченные записи
// чёрного списка и refresh-токенов.
type Janitor struct {
	storage  storage.Storage
	interval time.Duration
	clk      clock.Clock
}

// New создаёт уборщик. Нулевые часы заменяются системными.
func New(storage storage.Storage, interval time.Duration, clk clock.Clock) *Janitor {
	if clk == nil {
		clk = clock.System()
	}

	return &Janitor{
		storage:  storage,
		interval: interval,
		clk:      clk,
	}
}

// Run крутит цикл уборки до отмены контекста. Первый проход выполняется
// сразу, не дожидаясь первого тика. Неположительный интервал выключает
// уборку совсем.
func (j *Janitor) Run(ctx context.Context) {
	const op = "janitor.janitor.Run"

	lg := log.From(ctx)

	if j.interval <= 0 {
		lg.Info("janitor_disabled", slog.String("op", op))
		return
	}

	lg.Info("janitor_start",
		slog.String("op", op),
		slog.Duration("interval", j.interval),
	)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.Sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			lg.Info("janitor_stop", slog.String("op", op))
			return
		case <-ticker.C:
			j.Sweep(ctx)
		}
	}
}

// Sweep выполняет один проход по обеим таблицам. Ошибка одной таблицы
// не отменяет уборку другой.
func (j *Janitor) Sweep(ctx context.Context) {
	const op = "janitor.janitor.Sweep"

	lg := log.From(ctx)

	now := j.clk.Now()

	blacklisted, err := j.storage.DeleteExpiredBlacklistEntries(ctx, now)
	if err != nil {
		lg.Error("janitor_blacklist_sweep_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
	}

	refresh, err := j.storage.DeleteExpiredRefreshTokens(ctx, now)
	if err != nil {
		lg.Error("janitor_refresh_sweep_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
	}

	lg.Info("janitor_sweep_done",
		slog.String("op", op),
		slog.Int64("blacklist_deleted", blacklisted),
		slog.Int64("refresh_deleted", refresh),
	)
}
