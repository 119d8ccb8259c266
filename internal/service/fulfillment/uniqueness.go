package fulfillment

import (
	"fmt"

	"github.com/vladislavdragonenkov/showroom/internal/domain"
)

// UniquenessValidator проверяет уникальность идентификаторов машины по хранилищу.
type UniquenessValidator struct {
	cars domain.CarRepository
}

// NewUniquenessValidator создаёт валидатор поверх репозитория машин.
func NewUniquenessValidator(cars domain.CarRepository) *UniquenessValidator {
	return &UniquenessValidator{cars: cars}
}

// EnsureUnique проверяет идентификаторы кандидата в порядке: регистрационный номер,
// страховой полис, VIN. Первая коллизия возвращает ErrAlreadyExists с именем поля
// и значением; остальные поля не проверяются.
func (v *UniquenessValidator) EnsureUnique(car domain.Car) error {
	taken, err := v.cars.ExistsByRegistrationNumber(car.RegistrationNumber)
	if err != nil {
		return fmt.Errorf("check registration number: %w", err)
	}
	if taken {
		return domain.Conflictf("car with registration number %s", car.RegistrationNumber)
	}

	taken, err = v.cars.ExistsByInsurancePolicy(car.InsurancePolicy)
	if err != nil {
		return fmt.Errorf("check insurance policy: %w", err)
	}
	if taken {
		return domain.Conflictf("car with insurance policy %s", car.InsurancePolicy)
	}

	taken, err = v.cars.ExistsByVIN(car.VIN)
	if err != nil {
		return fmt.Errorf("check vin: %w", err)
	}
	if taken {
		return domain.Conflictf("car with vin %s", car.VIN)
	}

	return nil
}

// EnsureRegistrationAvailable проверяет занятость регистрационного номера,
// исключая саму обновляемую машину.
func (v *UniquenessValidator) EnsureRegistrationAvailable(value, excludeCarID string) error {
	existing, err := v.cars.GetByRegistrationNumber(value)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("check registration number: %w", err)
	}
	if existing.ID != excludeCarID {
		return domain.Conflictf("car with registration number %s", value)
	}
	return nil
}

// EnsureInsurancePolicyAvailable проверяет занятость страхового полиса,
// исключая саму обновляемую машину.
func (v *UniquenessValidator) EnsureInsurancePolicyAvailable(value, excludeCarID string) error {
	existing, err := v.cars.GetByInsurancePolicy(value)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("check insurance policy: %w", err)
	}
	if existing.ID != excludeCarID {
		return domain.Conflictf("car with insurance policy %s", value)
	}
	return nil
}

// EnsureVINAvailable проверяет занятость VIN, исключая саму обновляемую машину.
func (v *UniquenessValidator) EnsureVINAvailable(value, excludeCarID string) error {
	existing, err := v.cars.GetByVIN(value)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("check vin: %w", err)
	}
	if existing.ID != excludeCarID {
		return domain.Conflictf("car with vin %s", value)
	}
	return nil
}
