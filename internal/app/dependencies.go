package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/showroom/internal/domain"
	"github.com/vladislavdragonenkov/showroom/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/showroom/internal/service/auth"
	"github.com/vladislavdragonenkov/showroom/internal/service/caroptions"
	"github.com/vladislavdragonenkov/showroom/internal/service/cars"
	"github.com/vladislavdragonenkov/showroom/internal/service/catalog"
	"github.com/vladislavdragonenkov/showroom/internal/service/fulfillment"
	"github.com/vladislavdragonenkov/showroom/internal/service/orders"
	"github.com/vladislavdragonenkov/showroom/internal/service/users"
	"github.com/vladislavdragonenkov/showroom/internal/storage/memory"
	"github.com/vladislavdragonenkov/showroom/internal/storage/postgres"
)

// Dependencies содержит все зависимости приложения: репозитории, сервисы и
// опциональные внешние подключения (PostgreSQL, Kafka).
type Dependencies struct {
	Users      domain.UserRepository
	Models     domain.CarModelRepository
	Categories domain.OptionCategoryRepository
	Options    domain.OptionRepository
	Cars       domain.CarRepository
	CarOptions domain.CarOptionRepository
	Orders     domain.OrderRepository

	Gate          *auth.Gate
	Fulfillment   *fulfillment.Workflow
	CarsSvc       *cars.Service
	CarOptionsSvc *caroptions.Service
	CatalogSvc    *catalog.Service
	OrdersSvc     *orders.Service
	UsersSvc      *users.Service

	Store    *postgres.Store // nil при storage=memory
	Producer *kafka.Producer // nil если Kafka не настроен
	Logger   *log.Entry
}

// NewDependencies собирает зависимости согласно конфигурации: выбирает
// хранилище (memory или postgres) и подключает Kafka, если заданы брокеры.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	deps := &Dependencies{Logger: logger}

	switch cfg.StorageDriver {
	case StorageMemory:
		state := memory.NewVehicleState()
		deps.Users = memory.NewUserRepository()
		deps.Models = memory.NewCarModelRepository()
		deps.Categories = memory.NewOptionCategoryRepository()
		deps.Options = memory.NewOptionRepository()
		deps.Cars = memory.NewCarRepository(state)
		deps.CarOptions = memory.NewCarOptionRepository(state)
		deps.Orders = memory.NewOrderRepository(state)
		logger.Info("используем in-memory хранилище")
	case StoragePostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		deps.Store = store
		deps.Users = postgres.NewUserRepository(store)
		deps.Models = postgres.NewCarModelRepository(store)
		deps.Categories = postgres.NewOptionCategoryRepository(store)
		deps.Options = postgres.NewOptionRepository(store)
		deps.Cars = postgres.NewCarRepository(store)
		deps.CarOptions = postgres.NewCarOptionRepository(store)
		deps.Orders = postgres.NewOrderRepository(store)
		logger.Info("используем PostgreSQL хранилище")
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}

	producer, err := initKafkaProducer(cfg.KafkaBrokers, logger)
	if err == nil && producer != nil {
		deps.Producer = producer
	}

	deps.Gate = auth.NewGate(logger.WithField("component", "auth"))
	unique := fulfillment.NewUniquenessValidator(deps.Cars)

	fulfillmentLogger := logger.WithField("component", "fulfillment")
	ordersLogger := logger.WithField("component", "orders")
	carsLogger := logger.WithField("component", "cars")
	if deps.Producer != nil {
		deps.Fulfillment = fulfillment.NewWorkflowWithKafka(
			deps.Models, deps.Users, deps.Options, deps.Orders,
			deps.Gate, unique, deps.Producer, fulfillmentLogger,
		)
		deps.OrdersSvc = orders.NewServiceWithKafka(deps.Orders, deps.Users, deps.Gate, deps.Producer, ordersLogger)
		deps.CarsSvc = cars.NewServiceWithKafka(deps.Cars, deps.Users, deps.Gate, unique, deps.Producer, carsLogger)
	} else {
		deps.Fulfillment = fulfillment.NewWorkflow(
			deps.Models, deps.Users, deps.Options, deps.Orders,
			deps.Gate, unique, fulfillmentLogger,
		)
		deps.OrdersSvc = orders.NewService(deps.Orders, deps.Users, deps.Gate, ordersLogger)
		deps.CarsSvc = cars.NewService(deps.Cars, deps.Users, deps.Gate, unique, carsLogger)
	}

	deps.CarOptionsSvc = caroptions.NewService(deps.CarOptions, deps.Cars, deps.Gate, logger.WithField("component", "car-options"))
	deps.CatalogSvc = catalog.NewService(deps.Models, deps.Categories, deps.Options, deps.Cars, deps.Gate, logger.WithField("component", "catalog"))
	deps.UsersSvc = users.NewService(deps.Users, deps.Gate, logger.WithField("component", "users"))

	return deps, nil
}

// Close освобождает внешние подключения.
func (d *Dependencies) Close() {
	closeKafka(d.Producer, d.Logger)
	if d.Store != nil {
		if err := d.Store.Close(); err != nil {
			d.Logger.WithError(err).Warn("failed to close postgres store")
		}
	}
}
