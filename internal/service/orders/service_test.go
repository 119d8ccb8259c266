package orders

import (
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/showroom/internal/domain"
	"github.com/vladislavdragonenkov/showroom/internal/service/auth"
	"github.com/vladislavdragonenkov/showroom/internal/storage/memory"
)

type ordersFixture struct {
	svc      *Service
	state    *memory.VehicleState
	orders   domain.OrderRepository
	salesman domain.Actor
	customer domain.Actor
	other    domain.Actor

	ownOrder     domain.Order
	foreignOrder domain.Order
}

func newOrdersFixture(t *testing.T) *ordersFixture {
	t.Helper()

	f := &ordersFixture{state: memory.NewVehicleState()}
	f.orders = memory.NewOrderRepository(f.state)
	users := memory.NewUserRepository()

	now := time.Now().UTC()
	for _, u := range []domain.User{
		{ID: "salesman-1", Email: "s@showroom.test", Role: domain.RoleSalesman, Status: domain.UserStatusActive, CreatedAt: now, UpdatedAt: now},
		{ID: "customer-1", Email: "c1@showroom.test", Role: domain.RoleCustomer, Status: domain.UserStatusActive, CreatedAt: now, UpdatedAt: now},
		{ID: "customer-2", Email: "c2@showroom.test", Role: domain.RoleCustomer, Status: domain.UserStatusActive, CreatedAt: now, UpdatedAt: now},
	} {
		if err := users.Create(u); err != nil {
			t.Fatalf("create user %s: %v", u.ID, err)
		}
	}
	f.salesman = domain.Actor{ID: "salesman-1", Role: domain.RoleSalesman, Status: domain.UserStatusActive}
	f.customer = domain.Actor{ID: "customer-1", Role: domain.RoleCustomer, Status: domain.UserStatusActive}
	f.other = domain.Actor{ID: "customer-2", Role: domain.RoleCustomer, Status: domain.UserStatusActive}

	f.ownOrder = seedOrderFor(t, f.orders, "1", "customer-1", now)
	f.foreignOrder = seedOrderFor(t, f.orders, "2", "customer-2", now.Add(time.Minute))

	f.svc = NewService(f.orders, users, auth.NewGate(nil), nil)
	return f
}

func seedOrderFor(t *testing.T, orders domain.OrderRepository, suffix, customerID string, createdAt time.Time) domain.Order {
	t.Helper()
	order := domain.Order{
		ID:              "order-" + suffix,
		TotalPriceMinor: 2000000,
		Car: domain.Car{
			ID:                 "car-" + suffix,
			VIN:                "VIN-" + suffix,
			RegistrationNumber: "REG-" + suffix,
			InsurancePolicy:    "INS-" + suffix,
			OwnerID:            customerID,
			CarModelID:         "model-1",
			CreatedAt:          createdAt,
			UpdatedAt:          createdAt,
		},
		CustomerID: customerID,
		SalesmanID: "salesman-1",
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
	if err := orders.Create(order); err != nil {
		t.Fatalf("seed order %s: %v", suffix, err)
	}
	return order
}

func TestGetByIDOwnership(t *testing.T) {
	f := newOrdersFixture(t)

	if _, err := f.svc.GetByID(f.salesman, f.ownOrder.ID); err != nil {
		t.Errorf("salesman must read any order: %v", err)
	}
	if _, err := f.svc.GetByID(f.customer, f.ownOrder.ID); err != nil {
		t.Errorf("customer must read own order: %v", err)
	}
	if _, err := f.svc.GetByID(f.customer, f.foreignOrder.ID); !domain.IsAccessDenied(err) {
		t.Errorf("customer must not read foreign order, got %v", err)
	}
	if _, err := f.svc.GetByID(f.salesman, "missing"); !domain.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestListScoping(t *testing.T) {
	f := newOrdersFixture(t)

	all, err := f.svc.List(f.salesman)
	if err != nil {
		t.Fatalf("salesman list: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("salesman must see both orders, got %d", len(all))
	}

	own, err := f.svc.List(f.customer)
	if err != nil {
		t.Fatalf("customer list: %v", err)
	}
	if len(own) != 1 || own[0].ID != f.ownOrder.ID {
		t.Errorf("customer must see only own orders, got %v", own)
	}
}

func TestListByCustomer(t *testing.T) {
	f := newOrdersFixture(t)

	orders, err := f.svc.ListByCustomer(f.customer, "customer-1")
	if err != nil {
		t.Fatalf("customer lists own orders: %v", err)
	}
	if len(orders) != 1 {
		t.Errorf("expected 1 order, got %d", len(orders))
	}

	if _, err := f.svc.ListByCustomer(f.customer, "customer-2"); !domain.IsAccessDenied(err) {
		t.Errorf("customer must not list foreign orders, got %v", err)
	}
	if _, err := f.svc.ListByCustomer(f.salesman, "missing"); !domain.IsNotFound(err) {
		t.Errorf("unknown customer must be not found, got %v", err)
	}
}

func TestListBySalesman(t *testing.T) {
	f := newOrdersFixture(t)

	orders, err := f.svc.ListBySalesman(f.salesman, "salesman-1")
	if err != nil {
		t.Fatalf("list by salesman: %v", err)
	}
	if len(orders) != 2 {
		t.Errorf("expected 2 orders, got %d", len(orders))
	}

	if _, err := f.svc.ListBySalesman(f.customer, "salesman-1"); !domain.IsAccessDenied(err) {
		t.Errorf("customer must not view salesman history, got %v", err)
	}
}

func TestListByCreatedBetweenScoping(t *testing.T) {
	f := newOrdersFixture(t)
	from := f.ownOrder.CreatedAt.Add(-time.Minute)
	to := f.foreignOrder.CreatedAt.Add(time.Minute)

	all, err := f.svc.ListByCreatedBetween(f.salesman, from, to)
	if err != nil {
		t.Fatalf("salesman interval: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 orders, got %d", len(all))
	}

	own, err := f.svc.ListByCreatedBetween(f.customer, from, to)
	if err != nil {
		t.Fatalf("customer interval: %v", err)
	}
	if len(own) != 1 || own[0].CustomerID != f.customer.ID {
		t.Errorf("customer interval must be filtered to own orders, got %v", own)
	}
}

func TestDeleteCascadesAndDenies(t *testing.T) {
	f := newOrdersFixture(t)

	if err := f.svc.Delete(f.customer, f.ownOrder.ID); !domain.IsAccessDenied(err) {
		t.Fatalf("customer must not delete orders, got %v", err)
	}

	if err := f.svc.Delete(f.salesman, f.ownOrder.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.orders.Get(f.ownOrder.ID); !domain.IsNotFound(err) {
		t.Errorf("order must be gone, got %v", err)
	}
	cars := memory.NewCarRepository(f.state)
	if _, err := cars.Get(f.ownOrder.Car.ID); !domain.IsNotFound(err) {
		t.Errorf("car must be gone after order delete, got %v", err)
	}

	if err := f.svc.Delete(f.salesman, "missing"); !domain.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestOrderListsDeniedForInactiveActor(t *testing.T) {
	f := newOrdersFixture(t)

	from := time.Now().UTC().Add(-time.Hour)
	to := time.Now().UTC().Add(time.Hour)

	inactive := domain.Actor{ID: "customer-1", Role: domain.RoleCustomer, Status: domain.UserStatusInactive}
	if _, err := f.svc.List(inactive); !errors.Is(err, domain.ErrAccountInactive) {
		t.Fatalf("List for inactive customer: want ErrAccountInactive, got %v", err)
	}
	if _, err := f.svc.ListBySalesman(inactive, "salesman-1"); !errors.Is(err, domain.ErrAccountInactive) {
		t.Fatalf("ListBySalesman for inactive customer: want ErrAccountInactive, got %v", err)
	}
	if _, err := f.svc.ListByCreatedBetween(inactive, from, to); !errors.Is(err, domain.ErrAccountInactive) {
		t.Fatalf("ListByCreatedBetween for inactive customer: want ErrAccountInactive, got %v", err)
	}

	inactiveSalesman := domain.Actor{ID: "salesman-1", Role: domain.RoleSalesman, Status: domain.UserStatusInactive}
	if _, err := f.svc.List(inactiveSalesman); !errors.Is(err, domain.ErrAccountInactive) {
		t.Fatalf("List for inactive salesman: want ErrAccountInactive, got %v", err)
	}
}
