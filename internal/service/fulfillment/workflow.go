package fulfillment

import (
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/showroom/internal/domain"
	"github.com/vladislavdragonenkov/showroom/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/showroom/internal/metrics"
	"github.com/vladislavdragonenkov/showroom/internal/service/auth"
)

// SkipReason объясняет, почему запрошенная опция не попала в заказ.
type SkipReason string

const (
	// SkipReasonNotFound — опция с таким ID не найдена.
	SkipReasonNotFound SkipReason = "not_found"
	// SkipReasonWrongModel — опция принадлежит другой модели.
	SkipReasonWrongModel SkipReason = "wrong_model"
)

// SkippedOption — диагностическая запись о пропущенной опции.
type SkippedOption struct {
	OptionID string
	Reason   SkipReason
}

// CreateOrderInput — вход workflow оформления заказа.
type CreateOrderInput struct {
	VIN                string
	RegistrationNumber string
	InsurancePolicy    string
	// Image — имя файла изображения машины; пустое значение означает
	// стоковое изображение модели.
	Image      string
	CarModelID string
	OwnerID    string
	OptionIDs  []string
}

// Result — созданный заказ плюс список пропущенных опций, чтобы вызывающая
// сторона видела, что именно не было установлено.
type Result struct {
	Order   domain.Order
	Skipped []SkippedOption
}

// Workflow оформляет покупку: создаёт машину, устанавливает совместимые опции,
// считает итоговую цену и сохраняет заказ атомарно.
type Workflow struct {
	models  domain.CarModelRepository
	users   domain.UserRepository
	options domain.OptionRepository
	orders  domain.OrderRepository

	gate   *auth.Gate
	unique *UniquenessValidator

	logger   *log.Entry
	metrics  *metrics.FulfillmentMetrics
	producer *kafka.Producer // опциональный producer для событий заказов
}

// NewWorkflow создаёт рабочий экземпляр workflow.
func NewWorkflow(
	models domain.CarModelRepository,
	users domain.UserRepository,
	options domain.OptionRepository,
	orders domain.OrderRepository,
	gate *auth.Gate,
	unique *UniquenessValidator,
	logger *log.Entry,
) *Workflow {
	if logger == nil {
		logger = log.New().WithField("component", "fulfillment")
	}
	return &Workflow{
		models:  models,
		users:   users,
		options: options,
		orders:  orders,
		gate:    gate,
		unique:  unique,
		logger:  logger,
		metrics: metrics.NewFulfillmentMetrics(),
	}
}

// NewWorkflowWithKafka создаёт workflow, публикующий события заказов в Kafka.
func NewWorkflowWithKafka(
	models domain.CarModelRepository,
	users domain.UserRepository,
	options domain.OptionRepository,
	orders domain.OrderRepository,
	gate *auth.Gate,
	unique *UniquenessValidator,
	producer *kafka.Producer,
	logger *log.Entry,
) *Workflow {
	w := NewWorkflow(models, users, options, orders, gate, unique, logger)
	w.producer = producer
	return w
}

// NewWorkflowWithoutMetrics создаёт workflow без метрик (для тестов).
func NewWorkflowWithoutMetrics(
	models domain.CarModelRepository,
	users domain.UserRepository,
	options domain.OptionRepository,
	orders domain.OrderRepository,
	gate *auth.Gate,
	unique *UniquenessValidator,
	logger *log.Entry,
) *Workflow {
	w := NewWorkflow(models, users, options, orders, gate, unique, logger)
	w.metrics = nil
	return w
}

// CreateOrder выполняет оформление заказа: авторизация, резолв модели и владельца,
// проверка уникальности идентификаторов, установка совместимых опций и атомарное
// сохранение заказа с машиной. Несовместимые и неизвестные опции пропускаются и
// попадают в Result.Skipped; дубль опции в одном запросе — конфликт, заказ не
// сохраняется.
func (w *Workflow) CreateOrder(actor domain.Actor, in CreateOrderInput) (Result, error) {
	start := time.Now()
	if w.metrics != nil {
		w.metrics.RecordFulfillmentStarted()
	}
	defer func() {
		if w.metrics != nil {
			w.metrics.RecordFulfillmentFinished()
			w.metrics.RecordFulfillmentDuration(time.Since(start))
		}
	}()

	if err := w.gate.Authorize(actor, auth.ActionCreateOrder, ""); err != nil {
		w.recordFailure("access_denied")
		return Result{}, err
	}

	if err := validateInput(in); err != nil {
		w.recordFailure("bad_request")
		return Result{}, err
	}

	model, err := w.models.Get(in.CarModelID)
	if err != nil {
		w.recordFailure(failureReason(err))
		return Result{}, err
	}

	owner, err := w.users.Get(in.OwnerID)
	if err != nil {
		w.recordFailure(failureReason(err))
		return Result{}, err
	}

	now := time.Now().UTC()
	car := domain.Car{
		ID:                 uuid.NewString(),
		VIN:                in.VIN,
		RegistrationNumber: in.RegistrationNumber,
		InsurancePolicy:    in.InsurancePolicy,
		Image:              in.Image,
		OwnerID:            owner.ID,
		CarModelID:         model.ID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if car.Image == "" {
		car.Image = model.Image
	}

	if err := w.unique.EnsureUnique(car); err != nil {
		w.recordFailure(failureReason(err))
		return Result{}, err
	}

	totalMinor := model.PriceMinor
	skipped := make([]SkippedOption, 0)
	attached := make(map[string]struct{}, len(in.OptionIDs))

	for _, optionID := range in.OptionIDs {
		option, err := w.options.Get(optionID)
		if err != nil {
			if domain.IsNotFound(err) {
				w.skipOption(optionID, SkipReasonNotFound, &skipped)
				continue
			}
			w.recordFailure("storage")
			return Result{}, err
		}

		if option.CarModelID != model.ID {
			w.skipOption(optionID, SkipReasonWrongModel, &skipped)
			continue
		}

		// Дубль опции в рамках одного запроса — конфликт, а не пропуск.
		if _, dup := attached[option.ID]; dup {
			w.recordFailure("conflict")
			return Result{}, domain.Conflictf("car option with option %s and car %s", option.ID, car.ID)
		}
		attached[option.ID] = struct{}{}

		car.Options = append(car.Options, domain.CarOption{
			ID:        uuid.NewString(),
			OptionID:  option.ID,
			CarID:     car.ID,
			CreatedAt: now,
		})
		totalMinor += option.PriceMinor
		if w.metrics != nil {
			w.metrics.RecordOptionAttached()
		}
	}

	order := domain.Order{
		ID:              uuid.NewString(),
		TotalPriceMinor: totalMinor,
		Car:             car,
		CustomerID:      owner.ID,
		SalesmanID:      actor.ID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// Шаги 4–7 опираются на атомарный Create: уникальный constraint в хранилище —
	// последняя линия защиты от гонки между проверкой и вставкой.
	if err := w.orders.Create(order); err != nil {
		w.recordFailure(failureReason(err))
		return Result{}, err
	}

	if w.metrics != nil {
		w.metrics.RecordOrderCreated(order.TotalPriceMinor)
	}
	w.logger.WithFields(log.Fields{
		"order_id":    order.ID,
		"car_id":      car.ID,
		"customer_id": order.CustomerID,
		"salesman_id": order.SalesmanID,
		"total_minor": order.TotalPriceMinor,
		"skipped":     len(skipped),
	}).Info("order created")

	w.publishCreatedEvents(order, skipped)

	return Result{Order: order, Skipped: skipped}, nil
}

func (w *Workflow) skipOption(optionID string, reason SkipReason, skipped *[]SkippedOption) {
	*skipped = append(*skipped, SkippedOption{OptionID: optionID, Reason: reason})
	if w.metrics != nil {
		w.metrics.RecordOptionSkipped(string(reason))
	}
	w.logger.WithFields(log.Fields{
		"option_id": optionID,
		"reason":    reason,
	}).Warn("requested option skipped")
}

func (w *Workflow) recordFailure(reason string) {
	if w.metrics != nil {
		w.metrics.RecordOrderFailed(reason)
	}
}

// publishCreatedEvents отправляет события после фиксации транзакции; публикация
// best-effort и не влияет на результат оформления.
func (w *Workflow) publishCreatedEvents(order domain.Order, skipped []SkippedOption) {
	if w.producer == nil {
		return
	}

	metadata := map[string]any{
		"options_attached": len(order.Car.Options),
	}
	if len(skipped) > 0 {
		ids := make([]string, 0, len(skipped))
		for _, s := range skipped {
			ids = append(ids, s.OptionID)
		}
		metadata["options_skipped"] = ids
	}

	event := kafka.NewOrderEvent(
		kafka.EventTypeOrderCreated,
		order.ID,
		order.CustomerID,
		order.SalesmanID,
		order.Car.ID,
		order.TotalPriceMinor,
		metadata,
	)
	if err := w.producer.PublishOrderEvent(event); err != nil {
		w.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to publish order created event")
	}

	carEvent := kafka.NewCarEvent(kafka.EventTypeCarRegistered, order.Car.ID, order.Car.OwnerID, nil)
	if err := w.producer.PublishCarEvent(carEvent); err != nil {
		w.logger.WithError(err).WithField("car_id", order.Car.ID).Warn("failed to publish car registered event")
	}
}

func validateInput(in CreateOrderInput) error {
	switch {
	case in.VIN == "":
		return domain.BadRequestf("vin is required")
	case in.RegistrationNumber == "":
		return domain.BadRequestf("registration number is required")
	case in.InsurancePolicy == "":
		return domain.BadRequestf("insurance policy is required")
	case in.CarModelID == "":
		return domain.BadRequestf("car model id is required")
	case in.OwnerID == "":
		return domain.BadRequestf("owner id is required")
	}
	return nil
}

// failureReason переводит ошибку в метку причины для метрик.
func failureReason(err error) string {
	switch {
	case domain.IsNotFound(err):
		return "not_found"
	case domain.IsConflict(err):
		return "conflict"
	case domain.IsAccessDenied(err):
		return "access_denied"
	default:
		return "storage"
	}
}
