package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/showroom/internal/app"
	"github.com/vladislavdragonenkov/showroom/internal/version"
)

// setupLogger настраивает формат и уровень логирования для сервиса.
func setupLogger() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)
}

// readConfig формирует конфигурацию приложения, позволяя переопределить
// настройки через переменные окружения.
func readConfig() app.Config {
	cfg := app.DefaultConfig()
	if v := os.Getenv("SHOWROOM_OPS_ADDR"); v != "" {
		cfg.OpsAddr = v
	}
	if v := os.Getenv("SHOWROOM_STORAGE"); v != "" {
		cfg.StorageDriver = v
	}
	if v := os.Getenv("SHOWROOM_POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
		cfg.StorageDriver = app.StoragePostgres
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = v
	}
	return cfg
}

func main() {
	setupLogger()
	cfg := readConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"ops_addr": cfg.OpsAddr,
		"storage":  cfg.StorageDriver,
		"build":    version.Current().Version,
	}).Info("запускаем showroom")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("showroom остановлен")
}
