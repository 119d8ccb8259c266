package kafka

import "time"

// EventType определяет тип события
type EventType string

const (
	// События заказов
	EventTypeOrderCreated EventType = "order.created"
	EventTypeOrderDeleted EventType = "order.deleted"

	// События машин
	EventTypeCarRegistered EventType = "car.registered"
	EventTypeCarUpdated    EventType = "car.updated"
)

// Topics для Kafka
const (
	TopicOrderEvents = "showroom.order.events"
	TopicCarEvents   = "showroom.car.events"
)

// OrderEvent представляет событие жизненного цикла заказа.
type OrderEvent struct {
	EventType       EventType      `json:"event_type"`
	OrderID         string         `json:"order_id"`
	CustomerID      string         `json:"customer_id"`
	SalesmanID      string         `json:"salesman_id"`
	CarID           string         `json:"car_id"`
	TotalPriceMinor int64          `json:"total_price_minor"`
	Timestamp       time.Time      `json:"timestamp"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

// CarEvent представляет событие жизненного цикла машины.
type CarEvent struct {
	EventType EventType      `json:"event_type"`
	CarID     string         `json:"car_id"`
	OwnerID   string         `json:"owner_id"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewOrderEvent создаёт событие заказа с текущей меткой времени.
func NewOrderEvent(eventType EventType, orderID, customerID, salesmanID, carID string, totalMinor int64, metadata map[string]any) *OrderEvent {
	return &OrderEvent{
		EventType:       eventType,
		OrderID:         orderID,
		CustomerID:      customerID,
		SalesmanID:      salesmanID,
		CarID:           carID,
		TotalPriceMinor: totalMinor,
		Timestamp:       time.Now(),
		Metadata:        metadata,
	}
}

// NewCarEvent создаёт событие машины с текущей меткой времени.
func NewCarEvent(eventType EventType, carID, ownerID string, metadata map[string]any) *CarEvent {
	return &CarEvent{
		EventType: eventType,
		CarID:     carID,
		OwnerID:   ownerID,
		Timestamp: time.Now(),
		Metadata:  metadata,
	}
}
