package memory

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/showroom/internal/domain"
)

func seedOrder(t *testing.T, state *VehicleState, suffix string) domain.Order {
	t.Helper()
	order := buildOrder(suffix, time.Now().UTC())
	if err := NewOrderRepository(state).Create(order); err != nil {
		t.Fatalf("seed order %s: %v", suffix, err)
	}
	return order
}

func TestCarLookups(t *testing.T) {
	state := NewVehicleState()
	cars := NewCarRepository(state)
	order := seedOrder(t, state, "1")

	byVIN, err := cars.GetByVIN("VIN-1")
	if err != nil {
		t.Fatalf("get by vin: %v", err)
	}
	if byVIN.ID != order.Car.ID {
		t.Errorf("expected car %s, got %s", order.Car.ID, byVIN.ID)
	}
	if len(byVIN.Options) != 1 {
		t.Errorf("expected options materialized, got %d", len(byVIN.Options))
	}

	if _, err := cars.GetByRegistrationNumber("REG-1"); err != nil {
		t.Errorf("get by registration: %v", err)
	}
	if _, err := cars.GetByInsurancePolicy("INS-1"); err != nil {
		t.Errorf("get by insurance: %v", err)
	}
	if _, err := cars.GetByVIN("missing"); !domain.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}

	taken, err := cars.ExistsByVIN("VIN-1")
	if err != nil || !taken {
		t.Errorf("vin must be taken, got %v %v", taken, err)
	}
	free, err := cars.ExistsByVIN("VIN-9")
	if err != nil || free {
		t.Errorf("vin must be free, got %v %v", free, err)
	}
}

func TestCarListByOwnerAndModel(t *testing.T) {
	state := NewVehicleState()
	cars := NewCarRepository(state)
	seedOrder(t, state, "1")
	seedOrder(t, state, "2")

	all, err := cars.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 cars, got %d", len(all))
	}

	own, err := cars.ListByOwner("customer-1")
	if err != nil {
		t.Fatalf("list by owner: %v", err)
	}
	if len(own) != 1 || own[0].OwnerID != "customer-1" {
		t.Errorf("expected only customer-1 cars, got %v", own)
	}

	byModel, err := cars.ListByCarModel("model-1")
	if err != nil {
		t.Fatalf("list by model: %v", err)
	}
	if len(byModel) != 2 {
		t.Errorf("expected 2 cars of model-1, got %d", len(byModel))
	}
}

func TestCarSaveUniqueness(t *testing.T) {
	state := NewVehicleState()
	cars := NewCarRepository(state)
	first := seedOrder(t, state, "1")
	seedOrder(t, state, "2")

	// Обновление с собственными значениями проходит.
	car := first.Car
	car.Options = nil
	car.Image = "updated.png"
	if err := cars.Save(car); err != nil {
		t.Fatalf("save with own identifiers: %v", err)
	}
	got, err := cars.Get(car.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Image != "updated.png" {
		t.Errorf("expected updated image, got %q", got.Image)
	}
	if len(got.Options) != 1 {
		t.Errorf("save must not drop car options, got %d", len(got.Options))
	}

	// Чужой VIN — конфликт.
	car.VIN = "VIN-2"
	if err := cars.Save(car); !domain.IsConflict(err) {
		t.Errorf("expected conflict on foreign vin, got %v", err)
	}

	// Несуществующая машина.
	missing := first.Car
	missing.ID = "car-9"
	missing.VIN, missing.RegistrationNumber, missing.InsurancePolicy = "VIN-9", "REG-9", "INS-9"
	if err := cars.Save(missing); !domain.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestCarSavePreservesCreatedAt(t *testing.T) {
	state := NewVehicleState()
	cars := NewCarRepository(state)
	order := seedOrder(t, state, "1")

	car := order.Car
	car.Options = nil
	car.CreatedAt = time.Time{}
	car.UpdatedAt = time.Now().UTC().Add(time.Hour)
	if err := cars.Save(car); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := cars.Get(car.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.CreatedAt.Equal(order.Car.CreatedAt) {
		t.Errorf("created_at must be preserved: want %v, got %v", order.Car.CreatedAt, got.CreatedAt)
	}
}
