package memory

import (
	"sort"

	"github.com/vladislavdragonenkov/showroom/internal/domain"
)

// carOptionRepositoryInMemory — in-memory реализация CarOptionRepository (только чтение;
// строки создаются внутри агрегата заказа).
type carOptionRepositoryInMemory struct {
	state *VehicleState
}

// NewCarOptionRepository возвращает in-memory репозиторий связей машина–опция.
func NewCarOptionRepository(state *VehicleState) domain.CarOptionRepository {
	return &carOptionRepositoryInMemory{state: state}
}

// Get возвращает связь по идентификатору или ErrNotFound.
func (r *carOptionRepositoryInMemory) Get(id string) (domain.CarOption, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	co, ok := r.state.carOptions[id]
	if !ok {
		return domain.CarOption{}, domain.NotFoundf("car option %s", id)
	}
	return co, nil
}

// FindByOptionAndCar возвращает связь по уникальной паре или ErrNotFound.
func (r *carOptionRepositoryInMemory) FindByOptionAndCar(optionID, carID string) (domain.CarOption, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	co, ok := r.state.findCarOption(optionID, carID)
	if !ok {
		return domain.CarOption{}, domain.NotFoundf("car option with option %s and car %s", optionID, carID)
	}
	return co, nil
}

// ListByCar возвращает опции, установленные на машине.
func (r *carOptionRepositoryInMemory) ListByCar(carID string) ([]domain.CarOption, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()
	return r.state.optionsOfCar(carID), nil
}

// ListByOption возвращает все связи с указанной опцией.
func (r *carOptionRepositoryInMemory) ListByOption(optionID string) ([]domain.CarOption, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	result := make([]domain.CarOption, 0)
	for _, co := range r.state.carOptions {
		if co.OptionID == optionID {
			result = append(result, co)
		}
	}
	sortCarOptions(result)
	return result, nil
}

func sortCarOptions(options []domain.CarOption) {
	sort.Slice(options, func(i, j int) bool {
		if !options[i].CreatedAt.Equal(options[j].CreatedAt) {
			return options[i].CreatedAt.Before(options[j].CreatedAt)
		}
		return options[i].ID < options[j].ID
	})
}

var _ domain.CarOptionRepository = (*carOptionRepositoryInMemory)(nil)
