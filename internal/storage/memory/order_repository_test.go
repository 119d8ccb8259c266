package memory

import (
	"sync"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/showroom/internal/domain"
)

func buildOrder(suffix string, createdAt time.Time) domain.Order {
	car := domain.Car{
		ID:                 "car-" + suffix,
		VIN:                "VIN-" + suffix,
		RegistrationNumber: "REG-" + suffix,
		InsurancePolicy:    "INS-" + suffix,
		OwnerID:            "customer-" + suffix,
		CarModelID:         "model-1",
		CreatedAt:          createdAt,
		UpdatedAt:          createdAt,
		Options: []domain.CarOption{
			{ID: "co-" + suffix, OptionID: "opt-" + suffix, CarID: "car-" + suffix, CreatedAt: createdAt},
		},
	}
	return domain.Order{
		ID:              "order-" + suffix,
		TotalPriceMinor: 2100000,
		Car:             car,
		CustomerID:      car.OwnerID,
		SalesmanID:      "salesman-1",
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
}

func TestOrderCreateAndGet(t *testing.T) {
	state := NewVehicleState()
	orders := NewOrderRepository(state)

	order := buildOrder("1", time.Now().UTC())
	if err := orders.Create(order); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := orders.Get(order.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.TotalPriceMinor != order.TotalPriceMinor {
		t.Errorf("expected total %d, got %d", order.TotalPriceMinor, got.TotalPriceMinor)
	}
	if got.Car.ID != order.Car.ID {
		t.Errorf("expected car %s, got %s", order.Car.ID, got.Car.ID)
	}
	if len(got.Car.Options) != 1 {
		t.Fatalf("expected 1 car option, got %d", len(got.Car.Options))
	}

	// Машина и связь доступны через свои репозитории.
	cars := NewCarRepository(state)
	if _, err := cars.Get(order.Car.ID); err != nil {
		t.Errorf("car should exist after order create: %v", err)
	}
	carOptions := NewCarOptionRepository(state)
	if _, err := carOptions.FindByOptionAndCar("opt-1", "car-1"); err != nil {
		t.Errorf("car option should exist after order create: %v", err)
	}
}

func TestOrderCreateAtomicOnConflict(t *testing.T) {
	state := NewVehicleState()
	orders := NewOrderRepository(state)
	now := time.Now().UTC()

	if err := orders.Create(buildOrder("1", now)); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Второй заказ конфликтует по VIN: ничего из агрегата не должно записаться.
	second := buildOrder("2", now)
	second.Car.VIN = "VIN-1"
	err := orders.Create(second)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}

	if _, err := orders.Get(second.ID); !domain.IsNotFound(err) {
		t.Errorf("order must not be stored, got %v", err)
	}
	cars := NewCarRepository(state)
	if _, err := cars.Get(second.Car.ID); !domain.IsNotFound(err) {
		t.Errorf("car must not be stored, got %v", err)
	}
	carOptions := NewCarOptionRepository(state)
	if _, err := carOptions.Get("co-2"); !domain.IsNotFound(err) {
		t.Errorf("car option must not be stored, got %v", err)
	}
}

func TestOrderCreateDuplicateCarOption(t *testing.T) {
	state := NewVehicleState()
	orders := NewOrderRepository(state)

	order := buildOrder("1", time.Now().UTC())
	order.Car.Options = append(order.Car.Options, domain.CarOption{
		ID: "co-dup", OptionID: "opt-1", CarID: "car-1",
	})

	err := orders.Create(order)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict on duplicate (option, car) pair, got %v", err)
	}
	if _, err := orders.Get(order.ID); !domain.IsNotFound(err) {
		t.Errorf("order must not be stored, got %v", err)
	}
}

func TestOrderListFilters(t *testing.T) {
	state := NewVehicleState()
	orders := NewOrderRepository(state)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	first := buildOrder("1", base)
	second := buildOrder("2", base.Add(time.Hour))
	second.SalesmanID = "salesman-2"
	if err := orders.Create(first); err != nil {
		t.Fatalf("create first: %v", err)
	}
	if err := orders.Create(second); err != nil {
		t.Fatalf("create second: %v", err)
	}

	all, err := orders.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(all))
	}
	// Новые первыми.
	if all[0].ID != second.ID {
		t.Errorf("expected newest first, got %s", all[0].ID)
	}

	byCustomer, err := orders.ListByCustomer(first.CustomerID)
	if err != nil {
		t.Fatalf("list by customer: %v", err)
	}
	if len(byCustomer) != 1 || byCustomer[0].ID != first.ID {
		t.Errorf("expected only first order for customer, got %v", byCustomer)
	}

	bySalesman, err := orders.ListBySalesman("salesman-2")
	if err != nil {
		t.Fatalf("list by salesman: %v", err)
	}
	if len(bySalesman) != 1 || bySalesman[0].ID != second.ID {
		t.Errorf("expected only second order for salesman-2, got %v", bySalesman)
	}

	window, err := orders.ListByCreatedBetween(base.Add(30*time.Minute), base.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("list by created between: %v", err)
	}
	if len(window) != 1 || window[0].ID != second.ID {
		t.Errorf("expected only second order in window, got %v", window)
	}
}

func TestOrderDeleteCascades(t *testing.T) {
	state := NewVehicleState()
	orders := NewOrderRepository(state)

	order := buildOrder("1", time.Now().UTC())
	if err := orders.Create(order); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := orders.Delete(order.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := orders.Get(order.ID); !domain.IsNotFound(err) {
		t.Errorf("order must be gone, got %v", err)
	}
	cars := NewCarRepository(state)
	if _, err := cars.Get(order.Car.ID); !domain.IsNotFound(err) {
		t.Errorf("car must be gone after order delete, got %v", err)
	}
	carOptions := NewCarOptionRepository(state)
	list, err := carOptions.ListByCar(order.Car.ID)
	if err != nil {
		t.Fatalf("list by car: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("car options must be gone after order delete, got %d", len(list))
	}

	// Освобождённые идентификаторы снова доступны.
	if err := orders.Create(buildOrder("1", time.Now().UTC())); err != nil {
		t.Errorf("identifiers must be reusable after delete: %v", err)
	}
}

func TestOrderDeleteNotFound(t *testing.T) {
	orders := NewOrderRepository(NewVehicleState())
	if err := orders.Delete("missing"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestOrderCreateConcurrentSameVIN(t *testing.T) {
	state := NewVehicleState()
	orders := NewOrderRepository(state)

	now := time.Now().UTC()
	first := buildOrder("1", now)
	second := buildOrder("2", now)
	second.Car.VIN = first.Car.VIN

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, order := range []domain.Order{first, second} {
		wg.Add(1)
		go func(i int, order domain.Order) {
			defer wg.Done()
			errs[i] = orders.Create(order)
		}(i, order)
	}
	wg.Wait()

	var created, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			created++
		case domain.IsConflict(err):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if created != 1 || conflicts != 1 {
		t.Fatalf("expected exactly one winner, got created=%d conflicts=%d", created, conflicts)
	}

	stored, err := orders.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored order, got %d", len(stored))
	}
}
