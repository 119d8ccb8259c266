package memory

import (
	"sort"
	"time"

	"github.com/vladislavdragonenkov/showroom/internal/domain"
)

// orderRepositoryInMemory — in-memory реализация OrderRepository поверх общего состояния.
type orderRepositoryInMemory struct {
	state *VehicleState
}

// NewOrderRepository возвращает in-memory репозиторий заказов для локальной разработки и тестов.
func NewOrderRepository(state *VehicleState) domain.OrderRepository {
	return &orderRepositoryInMemory{state: state}
}

// Create сохраняет заказ вместе с машиной и её опциями. Все проверки уникальности
// выполняются до первой записи, поэтому операция атомарна: либо записывается всё,
// либо ничего.
func (r *orderRepositoryInMemory) Create(order domain.Order) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	car := order.Car

	if _, exists := r.state.orders[order.ID]; exists {
		return domain.Conflictf("order %s", order.ID)
	}
	if _, exists := r.state.cars[car.ID]; exists {
		return domain.Conflictf("car %s", car.ID)
	}
	if r.state.identifierTaken(registrationOf, car.RegistrationNumber, car.ID) {
		return domain.Conflictf("car with registration number %s", car.RegistrationNumber)
	}
	if r.state.identifierTaken(insurancePolicyOf, car.InsurancePolicy, car.ID) {
		return domain.Conflictf("car with insurance policy %s", car.InsurancePolicy)
	}
	if r.state.identifierTaken(vinOf, car.VIN, car.ID) {
		return domain.Conflictf("car with vin %s", car.VIN)
	}

	seen := make(map[string]struct{}, len(car.Options))
	for _, co := range car.Options {
		if _, dup := seen[co.OptionID]; dup {
			return domain.Conflictf("car option with option %s and car %s", co.OptionID, co.CarID)
		}
		seen[co.OptionID] = struct{}{}
		if _, exists := r.state.findCarOption(co.OptionID, co.CarID); exists {
			return domain.Conflictf("car option with option %s and car %s", co.OptionID, co.CarID)
		}
	}

	for _, co := range car.Options {
		r.state.carOptions[co.ID] = co
	}
	carRow := car
	carRow.Options = nil
	r.state.cars[car.ID] = carRow
	r.state.orders[order.ID] = orderRow{
		ID:              order.ID,
		TotalPriceMinor: order.TotalPriceMinor,
		CarID:           car.ID,
		CustomerID:      order.CustomerID,
		SalesmanID:      order.SalesmanID,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
	return nil
}

// Get возвращает заказ с машиной и опциями или ErrNotFound.
func (r *orderRepositoryInMemory) Get(id string) (domain.Order, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	row, ok := r.state.orders[id]
	if !ok {
		return domain.Order{}, domain.NotFoundf("order %s", id)
	}
	return r.materialize(row), nil
}

// List возвращает все заказы (новые первыми).
func (r *orderRepositoryInMemory) List() ([]domain.Order, error) {
	return r.listWhere(func(orderRow) bool { return true }), nil
}

// ListByCustomer возвращает заказы клиента.
func (r *orderRepositoryInMemory) ListByCustomer(customerID string) ([]domain.Order, error) {
	return r.listWhere(func(row orderRow) bool { return row.CustomerID == customerID }), nil
}

// ListBySalesman возвращает заказы, оформленные продавцом.
func (r *orderRepositoryInMemory) ListBySalesman(salesmanID string) ([]domain.Order, error) {
	return r.listWhere(func(row orderRow) bool { return row.SalesmanID == salesmanID }), nil
}

// ListByCreatedBetween возвращает заказы, созданные в интервале [from, to].
func (r *orderRepositoryInMemory) ListByCreatedBetween(from, to time.Time) ([]domain.Order, error) {
	return r.listWhere(func(row orderRow) bool {
		return !row.CreatedAt.Before(from) && !row.CreatedAt.After(to)
	}), nil
}

// Delete удаляет заказ и каскадно его машину вместе со связями.
func (r *orderRepositoryInMemory) Delete(id string) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	row, ok := r.state.orders[id]
	if !ok {
		return domain.NotFoundf("order %s", id)
	}
	for coID, co := range r.state.carOptions {
		if co.CarID == row.CarID {
			delete(r.state.carOptions, coID)
		}
	}
	delete(r.state.cars, row.CarID)
	delete(r.state.orders, id)
	return nil
}

func (r *orderRepositoryInMemory) listWhere(keep func(orderRow) bool) []domain.Order {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	result := make([]domain.Order, 0)
	for _, row := range r.state.orders {
		if !keep(row) {
			continue
		}
		result = append(result, r.materialize(row))
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result
}

// materialize собирает агрегат заказа. Вызывается под блокировкой.
func (r *orderRepositoryInMemory) materialize(row orderRow) domain.Order {
	car, _ := r.state.materializeCar(row.CarID)
	return domain.Order{
		ID:              row.ID,
		TotalPriceMinor: row.TotalPriceMinor,
		Car:             car,
		CustomerID:      row.CustomerID,
		SalesmanID:      row.SalesmanID,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
