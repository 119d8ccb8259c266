package orders

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/showroom/internal/domain"
	"github.com/vladislavdragonenkov/showroom/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/showroom/internal/service/auth"
)

// Service — запросы и удаление заказов. Создание заказов — в пакете fulfillment.
type Service struct {
	orders   domain.OrderRepository
	users    domain.UserRepository
	gate     *auth.Gate
	logger   *log.Entry
	producer *kafka.Producer // опциональный producer для событий заказов
}

// NewService создаёт сервис запросов по заказам.
func NewService(
	orders domain.OrderRepository,
	users domain.UserRepository,
	gate *auth.Gate,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "orders")
	}
	return &Service{orders: orders, users: users, gate: gate, logger: logger}
}

// NewServiceWithKafka создаёт сервис, публикующий события удаления заказов.
func NewServiceWithKafka(
	orders domain.OrderRepository,
	users domain.UserRepository,
	gate *auth.Gate,
	producer *kafka.Producer,
	logger *log.Entry,
) *Service {
	s := NewService(orders, users, gate, logger)
	s.producer = producer
	return s
}

// GetByID возвращает заказ; клиент видит только собственный.
func (s *Service) GetByID(actor domain.Actor, orderID string) (domain.Order, error) {
	order, err := s.orders.Get(orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if err := s.gate.Authorize(actor, auth.ActionReadOrder, order.CustomerID); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// List возвращает все заказы; клиент получает только свои.
func (s *Service) List(actor domain.Actor) ([]domain.Order, error) {
	if err := s.gate.Authorize(actor, auth.ActionReadOrder, actor.ID); err != nil {
		return nil, err
	}
	if s.gate.ScopeToOwn(actor) {
		return s.orders.ListByCustomer(actor.ID)
	}
	return s.orders.List()
}

// ListByCustomer возвращает заказы клиента; сам клиент может запросить только себя.
func (s *Service) ListByCustomer(actor domain.Actor, customerID string) ([]domain.Order, error) {
	if _, err := s.users.Get(customerID); err != nil {
		return nil, err
	}
	if err := s.gate.Authorize(actor, auth.ActionReadOrder, customerID); err != nil {
		return nil, err
	}
	return s.orders.ListByCustomer(customerID)
}

// ListBySalesman возвращает заказы продавца; клиентам недоступно.
func (s *Service) ListBySalesman(actor domain.Actor, salesmanID string) ([]domain.Order, error) {
	if err := s.gate.Authorize(actor, auth.ActionReadOrder, actor.ID); err != nil {
		return nil, err
	}
	if s.gate.ScopeToOwn(actor) {
		return nil, domain.AccessDeniedf("customer %s may not view salesman order history", actor.ID)
	}
	if _, err := s.users.Get(salesmanID); err != nil {
		return nil, err
	}
	return s.orders.ListBySalesman(salesmanID)
}

// ListByCreatedBetween возвращает заказы за интервал; клиент видит только свои.
func (s *Service) ListByCreatedBetween(actor domain.Actor, from, to time.Time) ([]domain.Order, error) {
	if err := s.gate.Authorize(actor, auth.ActionReadOrder, actor.ID); err != nil {
		return nil, err
	}
	orders, err := s.orders.ListByCreatedBetween(from, to)
	if err != nil {
		return nil, err
	}
	if !s.gate.ScopeToOwn(actor) {
		return orders, nil
	}
	own := make([]domain.Order, 0, len(orders))
	for _, order := range orders {
		if order.CustomerID == actor.ID {
			own = append(own, order)
		}
	}
	return own, nil
}

// Delete удаляет заказ и каскадно его машину с опциями.
func (s *Service) Delete(actor domain.Actor, orderID string) error {
	if err := s.gate.Authorize(actor, auth.ActionDeleteOrder, ""); err != nil {
		return err
	}

	order, err := s.orders.Get(orderID)
	if err != nil {
		return err
	}
	if err := s.orders.Delete(orderID); err != nil {
		return err
	}

	s.logger.WithFields(log.Fields{
		"order_id": orderID,
		"car_id":   order.Car.ID,
		"actor_id": actor.ID,
	}).Info("order deleted")

	if s.producer != nil {
		event := kafka.NewOrderEvent(
			kafka.EventTypeOrderDeleted,
			order.ID,
			order.CustomerID,
			order.SalesmanID,
			order.Car.ID,
			order.TotalPriceMinor,
			nil,
		)
		if err := s.producer.PublishOrderEvent(event); err != nil {
			s.logger.WithError(err).WithField("order_id", orderID).Warn("failed to publish order deleted event")
		}
	}

	return nil
}
