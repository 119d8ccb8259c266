package memory

import (
	"sync"
	"time"

	"github.com/vladislavdragonenkov/showroom/internal/domain"
)

// orderRow — нормализованная строка заказа; машина материализуется при чтении.
type orderRow struct {
	ID              string
	TotalPriceMinor int64
	CarID           string
	CustomerID      string
	SalesmanID      string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// VehicleState — общее in-memory состояние агрегата заказа: машины, их опции
// и заказы живут под одним мьютексом, чтобы Create заказа был атомарным.
type VehicleState struct {
	mu         sync.RWMutex
	cars       map[string]domain.Car       // без Options; связи лежат отдельно
	carOptions map[string]domain.CarOption // по ID связи
	orders     map[string]orderRow
}

// NewVehicleState создаёт пустое состояние для машин, связей и заказов.
func NewVehicleState() *VehicleState {
	return &VehicleState{
		cars:       make(map[string]domain.Car),
		carOptions: make(map[string]domain.CarOption),
		orders:     make(map[string]orderRow),
	}
}

// materializeCar собирает машину с её опциями. Вызывается под блокировкой.
func (s *VehicleState) materializeCar(id string) (domain.Car, bool) {
	car, ok := s.cars[id]
	if !ok {
		return domain.Car{}, false
	}
	car.Options = s.optionsOfCar(id)
	return car, true
}

// optionsOfCar возвращает связи машины в стабильном порядке. Вызывается под блокировкой.
func (s *VehicleState) optionsOfCar(carID string) []domain.CarOption {
	options := make([]domain.CarOption, 0)
	for _, co := range s.carOptions {
		if co.CarID == carID {
			options = append(options, co)
		}
	}
	sortCarOptions(options)
	return options
}

// findCarOption ищет связь по паре (optionID, carID). Вызывается под блокировкой.
func (s *VehicleState) findCarOption(optionID, carID string) (domain.CarOption, bool) {
	for _, co := range s.carOptions {
		if co.OptionID == optionID && co.CarID == carID {
			return co, true
		}
	}
	return domain.CarOption{}, false
}

// identifierTaken проверяет занятость идентификатора машины, исключая excludeCarID.
// Вызывается под блокировкой.
func (s *VehicleState) identifierTaken(get func(domain.Car) string, value, excludeCarID string) bool {
	if value == "" {
		return false
	}
	for _, car := range s.cars {
		if car.ID == excludeCarID {
			continue
		}
		if get(car) == value {
			return true
		}
	}
	return false
}

func vinOf(c domain.Car) string                { return c.VIN }
func registrationOf(c domain.Car) string       { return c.RegistrationNumber }
func insurancePolicyOf(c domain.Car) string    { return c.InsurancePolicy }
