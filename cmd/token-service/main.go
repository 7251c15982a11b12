package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/go-workout-tracker/token-service/internal/cache"
	"github.com/go-workout-tracker/token-service/internal/config"
	"github.com/go-workout-tracker/token-service/internal/janitor"
	logctx "github.com/go-workout-tracker/token-service/internal/pkg/log"
	"github.com/go-workout-tracker/token-service/internal/pkg/redact"
	"github.com/go-workout-tracker/token-service/internal/service"
	"github.com/go-workout-tracker/token-service/internal/storage/postgres"
	"github.com/go-workout-tracker/token-service/internal/token"
	transport "github.com/go-workout-tracker/token-service/internal/transport/http"
)

// Константы для определения окружения.
const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting application", "env", cfg.Env)

	// Корневой контекст по сигналам.
	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	// Подключение к БД c таймаутом.
	dbCtx, dbCancel := context.WithTimeout(rootCtx, 10*time.Second)
	str, err := postgres.New(dbCtx, cfg.DB.DatabaseURL)
	dbCancel()
	if err != nil {
		log.Error("postgres_connect_failed", slog.String("err", err.Error()))
		rootCancel()
		os.Exit(1)
	}
	log.Info("postgres_connected", slog.String("db", redact.URL(cfg.DB.DatabaseURL)))

	// Кодек токенов: здесь же отсекаются одинаковые секреты и нулевые TTL.
	codec, err := token.NewCodec(cfg.Tokens, nil)
	if err != nil {
		log.Error("token_codec_init_failed", slog.String("err", err.Error()))
		rootCancel()
		str.Close()
		os.Exit(1)
	}

	// Сервис.
	srvc := service.New(str, codec, nil)
	log.Info("service_initialized")

	// Кэш отзыва подключается только при заданном REDIS_URL; заданный,
	// но недоступный Redis — ошибка конфигурации, а не повод работать
	// молча без кэша.
	var rcache cache.RevocationCache
	if cfg.Redis.RedisURL != "" {
		rcache, err = cache.NewRedisCache(cfg.Redis.RedisURL, "")
		if err != nil {
			log.Error("redis_connect_failed", slog.String("err", err.Error()))
			rootCancel()
			str.Close()
			os.Exit(1)
		}
		srvc.SetRevocationCache(rcache)
		log.Info("redis_connected", slog.String("redis", redact.URL(cfg.Redis.RedisURL)))
	}

	// Фоновая уборка просроченных записей обеих таблиц.
	jan := janitor.New(str, cfg.Janitor.Interval, nil)
	go jan.Run(logctx.Into(rootCtx, log))

	var ready int32 // 0 — not ready; 1 — ready

	api := transport.NewRouter(srvc, transport.Options{
		Logger:  log,
		Timeout: cfg.Timeouts.Service,
	})

	// Служебные маршруты живут вне цепочки middleware API: скрейпы
	// и пробы не засоряют request-лог.
	mux := http.NewServeMux()
	mux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if atomic.LoadInt32(&ready) == 1 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}
		http.Error(w, "not ready", http.StatusServiceUnavailable)
	})

	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", api)

	addr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Error("http_listen_failed",
			slog.String("addr", addr),
			slog.String("err", err.Error()),
		)
		rootCancel()
		closeDeps(str, rcache)
		os.Exit(1)
	}
	log.Info("http_listen_start", slog.String("addr", addr))

	// Сервис готов: readiness=1.
	atomic.StoreInt32(&ready, 1)

	serveErrCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	// Ожидание сигнала завершения или фатальной ошибки сервера.
	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("http_serve_failed", slog.String("err", err.Error()))
		}
	}

	// Снимаем ready: пробы перестают пускать трафик.
	atomic.StoreInt32(&ready, 0)

	// Graceful stop с таймаутом.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_force_stop", slog.String("err", err.Error()))
		_ = httpSrv.Close()
	} else {
		log.Info("http_stopped")
	}
	shutdownCancel()

	// Явная очистка перед выходом.
	rootCancel()
	closeDeps(str, rcache)

	log.Info("service_stopped")
	os.Exit(0)
}

// closeDeps закрывает внешние зависимости в обратном порядке подключения.
func closeDeps(str *postgres.Storage, rcache cache.RevocationCache) {
	if rcache != nil {
		_ = rcache.Close()
	}
	str.Close()
}

// setupLogger настраивает slog по окружению.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}

	return log
}
