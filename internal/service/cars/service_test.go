package cars

import (
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/showroom/internal/domain"
	"github.com/vladislavdragonenkov/showroom/internal/service/auth"
	"github.com/vladislavdragonenkov/showroom/internal/service/fulfillment"
	"github.com/vladislavdragonenkov/showroom/internal/storage/memory"
)

type carsFixture struct {
	svc      *Service
	cars     domain.CarRepository
	salesman domain.Actor
	customer domain.Actor

	ownCar     domain.Car
	foreignCar domain.Car
}

func newCarsFixture(t *testing.T) *carsFixture {
	t.Helper()

	state := memory.NewVehicleState()
	orders := memory.NewOrderRepository(state)
	users := memory.NewUserRepository()
	f := &carsFixture{cars: memory.NewCarRepository(state)}

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

	f.ownCar = seedCarFor(t, orders, "1", "customer-1", now)
	f.foreignCar = seedCarFor(t, orders, "2", "customer-2", now)

	unique := fulfillment.NewUniquenessValidator(f.cars)
	f.svc = NewService(f.cars, users, auth.NewGate(nil), unique, nil)
	return f
}

func seedCarFor(t *testing.T, orders domain.OrderRepository, suffix, ownerID string, createdAt time.Time) domain.Car {
	t.Helper()
	car := domain.Car{
		ID:                 "car-" + suffix,
		VIN:                "VIN-" + suffix,
		RegistrationNumber: "REG-" + suffix,
		InsurancePolicy:    "INS-" + suffix,
		OwnerID:            ownerID,
		CarModelID:         "model-1",
		CreatedAt:          createdAt,
		UpdatedAt:          createdAt,
	}
	order := domain.Order{
		ID:         "order-" + suffix,
		Car:        car,
		CustomerID: ownerID,
		SalesmanID: "salesman-1",
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
	if err := orders.Create(order); err != nil {
		t.Fatalf("seed car %s: %v", suffix, err)
	}
	return car
}

func TestCarReadsRespectOwnership(t *testing.T) {
	f := newCarsFixture(t)

	if _, err := f.svc.GetByID(f.salesman, f.foreignCar.ID); err != nil {
		t.Errorf("salesman must read any car: %v", err)
	}
	if _, err := f.svc.GetByID(f.customer, f.ownCar.ID); err != nil {
		t.Errorf("customer must read own car: %v", err)
	}
	if _, err := f.svc.GetByID(f.customer, f.foreignCar.ID); !domain.IsAccessDenied(err) {
		t.Errorf("customer must not read foreign car, got %v", err)
	}

	if _, err := f.svc.GetByVIN(f.customer, "VIN-1"); err != nil {
		t.Errorf("customer must read own car by vin: %v", err)
	}
	if _, err := f.svc.GetByVIN(f.customer, "VIN-2"); !domain.IsAccessDenied(err) {
		t.Errorf("customer must not read foreign car by vin, got %v", err)
	}
	if _, err := f.svc.GetByRegistrationNumber(f.salesman, "REG-2"); err != nil {
		t.Errorf("get by registration: %v", err)
	}
	if _, err := f.svc.GetByInsurancePolicy(f.salesman, "INS-2"); err != nil {
		t.Errorf("get by insurance: %v", err)
	}
}

func TestCarListScoping(t *testing.T) {
	f := newCarsFixture(t)

	all, err := f.svc.List(f.salesman)
	if err != nil {
		t.Fatalf("salesman list: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("salesman must see both cars, got %d", len(all))
	}

	own, err := f.svc.List(f.customer)
	if err != nil {
		t.Fatalf("customer list: %v", err)
	}
	if len(own) != 1 || own[0].ID != f.ownCar.ID {
		t.Errorf("customer must see only own cars, got %v", own)
	}

	byModel, err := f.svc.ListByCarModel(f.customer, "model-1")
	if err != nil {
		t.Fatalf("customer list by model: %v", err)
	}
	if len(byModel) != 1 || byModel[0].OwnerID != f.customer.ID {
		t.Errorf("model listing must be scoped for customer, got %v", byModel)
	}
}

func TestCarUpdatePatch(t *testing.T) {
	f := newCarsFixture(t)

	newReg := "X999XX199"
	updated, err := f.svc.Update(f.salesman, f.ownCar.ID, UpdateInput{RegistrationNumber: &newReg})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.RegistrationNumber != newReg {
		t.Errorf("expected registration %q, got %q", newReg, updated.RegistrationNumber)
	}
	if updated.VIN != f.ownCar.VIN {
		t.Errorf("vin must be unchanged, got %q", updated.VIN)
	}

	// Смена владельца.
	newOwner := "customer-2"
	updated, err = f.svc.Update(f.salesman, f.ownCar.ID, UpdateInput{OwnerID: &newOwner})
	if err != nil {
		t.Fatalf("update owner: %v", err)
	}
	if updated.OwnerID != newOwner {
		t.Errorf("expected owner %q, got %q", newOwner, updated.OwnerID)
	}
}

func TestCarUpdateConflicts(t *testing.T) {
	f := newCarsFixture(t)

	foreignVIN := "VIN-2"
	if _, err := f.svc.Update(f.salesman, f.ownCar.ID, UpdateInput{VIN: &foreignVIN}); !domain.IsConflict(err) {
		t.Errorf("expected conflict on foreign vin, got %v", err)
	}

	// Повторная установка собственного значения не конфликт.
	ownVIN := "VIN-1"
	if _, err := f.svc.Update(f.salesman, f.ownCar.ID, UpdateInput{VIN: &ownVIN}); err != nil {
		t.Errorf("own vin must not conflict: %v", err)
	}

	missingOwner := "missing"
	if _, err := f.svc.Update(f.salesman, f.ownCar.ID, UpdateInput{OwnerID: &missingOwner}); !domain.IsNotFound(err) {
		t.Errorf("unknown owner must be not found, got %v", err)
	}
}

func TestCarUpdateDeniedForCustomer(t *testing.T) {
	f := newCarsFixture(t)

	vin := "VIN-9"
	if _, err := f.svc.Update(f.customer, f.ownCar.ID, UpdateInput{VIN: &vin}); !domain.IsAccessDenied(err) {
		t.Fatalf("customer must not update cars, got %v", err)
	}
}

func TestCarListsDeniedForInactiveActor(t *testing.T) {
	f := newCarsFixture(t)

	inactive := domain.Actor{ID: "customer-1", Role: domain.RoleCustomer, Status: domain.UserStatusInactive}
	if _, err := f.svc.List(inactive); !errors.Is(err, domain.ErrAccountInactive) {
		t.Fatalf("List for inactive customer: want ErrAccountInactive, got %v", err)
	}
	if _, err := f.svc.ListByCarModel(inactive, "model-1"); !errors.Is(err, domain.ErrAccountInactive) {
		t.Fatalf("ListByCarModel for inactive customer: want ErrAccountInactive, got %v", err)
	}

	// Деактивация закрывает листинги и для ролей, которым разрешено всё.
	inactiveSalesman := domain.Actor{ID: "salesman-1", Role: domain.RoleSalesman, Status: domain.UserStatusInactive}
	if _, err := f.svc.List(inactiveSalesman); !errors.Is(err, domain.ErrAccountInactive) {
		t.Fatalf("List for inactive salesman: want ErrAccountInactive, got %v", err)
	}
}
