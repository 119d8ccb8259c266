package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	healthcheck "github.com/vladislavdragonenkov/showroom/internal/health"
	"github.com/vladislavdragonenkov/showroom/internal/version"
)

// Драйверы хранилища.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config описывает настройки запуска приложения.
type Config struct {
	// OpsAddr — адрес служебного HTTP-сервера (/metrics, /healthz, /livez, /readyz).
	OpsAddr string
	// StorageDriver — memory или postgres.
	StorageDriver string
	// PostgresDSN используется при StorageDriver=postgres.
	PostgresDSN string
	// KafkaBrokers — список брокеров через запятую; пустая строка отключает Kafka.
	KafkaBrokers string
}

// DefaultConfig возвращает конфигурацию для локальной разработки.
func DefaultConfig() Config {
	return Config{
		OpsAddr:       ":9090",
		StorageDriver: StorageMemory,
	}
}

// Run собирает зависимости и держит служебный HTTP-сервер до отмены контекста.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps, err := NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	healthHandler := healthcheck.NewHandler(version.String())
	if deps.Store != nil {
		healthHandler.RegisterChecker("postgres", healthcheck.NewSimpleChecker("postgres", func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return deps.Store.Ping(pingCtx)
		}))
	}

	srv := newOpsServer(cfg.OpsAddr, healthHandler)
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("служебный сервер слушает %s (/metrics, /healthz, /livez, /readyz)", cfg.OpsAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем сервер")
		shutdownHTTP(srv, logger)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// newOpsServer собирает служебный HTTP-сервер с метриками и health-проверками.
func newOpsServer(addr string, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	return &http.Server{Addr: addr, Handler: mux}
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("ops server shutdown with error")
	}
}
