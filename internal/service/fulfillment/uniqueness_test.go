package fulfillment

import (
	"strings"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/showroom/internal/domain"
	"github.com/vladislavdragonenkov/showroom/internal/storage/memory"
)

// seedCar кладёт машину с заказом в состояние, чтобы идентификаторы стали занятыми.
func seedCar(t *testing.T, orders domain.OrderRepository, car domain.Car) {
	t.Helper()
	now := time.Now().UTC()
	order := domain.Order{
		ID:         "order-" + car.ID,
		Car:        car,
		CustomerID: car.OwnerID,
		SalesmanID: "salesman-1",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := orders.Create(order); err != nil {
		t.Fatalf("seed car %s: %v", car.ID, err)
	}
}

func existingCar() domain.Car {
	return domain.Car{
		ID:                 "car-1",
		VIN:                "VIN-1",
		RegistrationNumber: "REG-1",
		InsurancePolicy:    "INS-1",
		OwnerID:            "customer-1",
		CarModelID:         "model-1",
	}
}

func TestEnsureUniqueAllFree(t *testing.T) {
	state := memory.NewVehicleState()
	v := NewUniquenessValidator(memory.NewCarRepository(state))

	err := v.EnsureUnique(domain.Car{VIN: "VIN-9", RegistrationNumber: "REG-9", InsurancePolicy: "INS-9"})
	if err != nil {
		t.Fatalf("expected no conflict, got %v", err)
	}
}

func TestEnsureUniqueFailFastOrder(t *testing.T) {
	state := memory.NewVehicleState()
	cars := memory.NewCarRepository(state)
	seedCar(t, memory.NewOrderRepository(state), existingCar())
	v := NewUniquenessValidator(cars)

	tests := []struct {
		name      string
		candidate domain.Car
		wantField string
	}{
		{
			// У кандидата заняты все три идентификатора: регистрационный номер проверяется первым.
			name:      "registration first",
			candidate: domain.Car{VIN: "VIN-1", RegistrationNumber: "REG-1", InsurancePolicy: "INS-1"},
			wantField: "registration number",
		},
		{
			name:      "insurance second",
			candidate: domain.Car{VIN: "VIN-1", RegistrationNumber: "REG-9", InsurancePolicy: "INS-1"},
			wantField: "insurance policy",
		},
		{
			name:      "vin last",
			candidate: domain.Car{VIN: "VIN-1", RegistrationNumber: "REG-9", InsurancePolicy: "INS-9"},
			wantField: "vin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.EnsureUnique(tt.candidate)
			if !domain.IsConflict(err) {
				t.Fatalf("expected conflict, got %v", err)
			}
			if got := err.Error(); !strings.Contains(got, tt.wantField) {
				t.Errorf("expected %q in error, got %q", tt.wantField, got)
			}
		})
	}
}

func TestEnsureAvailableSelfExclusion(t *testing.T) {
	state := memory.NewVehicleState()
	cars := memory.NewCarRepository(state)
	car := existingCar()
	seedCar(t, memory.NewOrderRepository(state), car)
	v := NewUniquenessValidator(cars)

	// Собственные значения машины не считаются коллизией.
	if err := v.EnsureRegistrationAvailable("REG-1", car.ID); err != nil {
		t.Errorf("own registration number must be available: %v", err)
	}
	if err := v.EnsureInsurancePolicyAvailable("INS-1", car.ID); err != nil {
		t.Errorf("own insurance policy must be available: %v", err)
	}
	if err := v.EnsureVINAvailable("VIN-1", car.ID); err != nil {
		t.Errorf("own vin must be available: %v", err)
	}

	// Для другой машины те же значения заняты.
	if err := v.EnsureVINAvailable("VIN-1", "car-2"); !domain.IsConflict(err) {
		t.Errorf("expected conflict for foreign vin, got %v", err)
	}

	// Свободные значения доступны любой машине.
	if err := v.EnsureVINAvailable("VIN-9", "car-2"); err != nil {
		t.Errorf("free vin must be available: %v", err)
	}
}
