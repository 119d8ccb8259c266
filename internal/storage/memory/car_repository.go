package memory

import (
	"sort"

	"github.com/vladislavdragonenkov/showroom/internal/domain"
)

// carRepositoryInMemory — in-memory реализация CarRepository поверх общего состояния.
type carRepositoryInMemory struct {
	state *VehicleState
}

// NewCarRepository возвращает in-memory репозиторий машин для локальной разработки и тестов.
func NewCarRepository(state *VehicleState) domain.CarRepository {
	return &carRepositoryInMemory{state: state}
}

// Get возвращает машину с её опциями или ErrNotFound.
func (r *carRepositoryInMemory) Get(id string) (domain.Car, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	car, ok := r.state.materializeCar(id)
	if !ok {
		return domain.Car{}, domain.NotFoundf("car %s", id)
	}
	return car, nil
}

func (r *carRepositoryInMemory) GetByVIN(vin string) (domain.Car, error) {
	return r.getByIdentifier(vinOf, vin, "car with vin %s")
}

func (r *carRepositoryInMemory) GetByRegistrationNumber(registrationNumber string) (domain.Car, error) {
	return r.getByIdentifier(registrationOf, registrationNumber, "car with registration number %s")
}

func (r *carRepositoryInMemory) GetByInsurancePolicy(insurancePolicy string) (domain.Car, error) {
	return r.getByIdentifier(insurancePolicyOf, insurancePolicy, "car with insurance policy %s")
}

func (r *carRepositoryInMemory) getByIdentifier(get func(domain.Car) string, value, format string) (domain.Car, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	for id, car := range r.state.cars {
		if get(car) == value {
			materialized, _ := r.state.materializeCar(id)
			return materialized, nil
		}
	}
	return domain.Car{}, domain.NotFoundf(format, value)
}

func (r *carRepositoryInMemory) ExistsByVIN(vin string) (bool, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()
	return r.state.identifierTaken(vinOf, vin, ""), nil
}

func (r *carRepositoryInMemory) ExistsByRegistrationNumber(registrationNumber string) (bool, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()
	return r.state.identifierTaken(registrationOf, registrationNumber, ""), nil
}

func (r *carRepositoryInMemory) ExistsByInsurancePolicy(insurancePolicy string) (bool, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()
	return r.state.identifierTaken(insurancePolicyOf, insurancePolicy, ""), nil
}

// List возвращает все машины, отсортированные по времени создания (новые первыми).
func (r *carRepositoryInMemory) List() ([]domain.Car, error) {
	return r.listWhere(func(domain.Car) bool { return true }), nil
}

// ListByOwner возвращает машины владельца.
func (r *carRepositoryInMemory) ListByOwner(ownerID string) ([]domain.Car, error) {
	return r.listWhere(func(c domain.Car) bool { return c.OwnerID == ownerID }), nil
}

// ListByCarModel возвращает машины указанной модели.
func (r *carRepositoryInMemory) ListByCarModel(carModelID string) ([]domain.Car, error) {
	return r.listWhere(func(c domain.Car) bool { return c.CarModelID == carModelID }), nil
}

func (r *carRepositoryInMemory) listWhere(keep func(domain.Car) bool) []domain.Car {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	result := make([]domain.Car, 0)
	for id, car := range r.state.cars {
		if !keep(car) {
			continue
		}
		materialized, _ := r.state.materializeCar(id)
		result = append(result, materialized)
	}
	sortCars(result)
	return result
}

// Save перезаписывает машину, проверяя уникальность идентификаторов
// среди всех остальных машин (self-exclusion по ID).
func (r *carRepositoryInMemory) Save(car domain.Car) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	current, ok := r.state.cars[car.ID]
	if !ok {
		return domain.NotFoundf("car %s", car.ID)
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

	// Связи машина–опция неизменяемы через Save; сохраняем без них.
	car.Options = nil
	car.CreatedAt = current.CreatedAt
	r.state.cars[car.ID] = car
	return nil
}

func sortCars(cars []domain.Car) {
	sort.Slice(cars, func(i, j int) bool {
		if !cars[i].CreatedAt.Equal(cars[j].CreatedAt) {
			return cars[i].CreatedAt.After(cars[j].CreatedAt)
		}
		return cars[i].ID > cars[j].ID
	})
}

var _ domain.CarRepository = (*carRepositoryInMemory)(nil)
