package memory

import (
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/showroom/internal/domain"
)

// carModelRepositoryInMemory — простая in-memory реализация CarModelRepository.
type carModelRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.CarModel
}

// NewCarModelRepository возвращает in-memory репозиторий моделей для локальной разработки и тестов.
func NewCarModelRepository() domain.CarModelRepository {
	return &carModelRepositoryInMemory{
		items: make(map[string]domain.CarModel),
	}
}

// Create сохраняет модель, если ID и пара (name, make_year) свободны.
func (r *carModelRepositoryInMemory) Create(model domain.CarModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[model.ID]; exists {
		return domain.Conflictf("car model %s", model.ID)
	}
	for _, existing := range r.items {
		if existing.Name == model.Name && existing.MakeYear == model.MakeYear {
			return domain.Conflictf("car model %s of year %d", model.Name, model.MakeYear)
		}
	}
	r.items[model.ID] = model
	return nil
}

// Get возвращает модель или ErrNotFound.
func (r *carModelRepositoryInMemory) Get(id string) (domain.CarModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	model, ok := r.items[id]
	if !ok {
		return domain.CarModel{}, domain.NotFoundf("car model %s", id)
	}
	return model, nil
}

// GetByNameAndYear возвращает модель по уникальной паре или ErrNotFound.
func (r *carModelRepositoryInMemory) GetByNameAndYear(name string, makeYear int) (domain.CarModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, model := range r.items {
		if model.Name == name && model.MakeYear == makeYear {
			return model, nil
		}
	}
	return domain.CarModel{}, domain.NotFoundf("car model %s of year %d", name, makeYear)
}

// List возвращает все модели.
func (r *carModelRepositoryInMemory) List() ([]domain.CarModel, error) {
	return r.listWhere(func(domain.CarModel) bool { return true }), nil
}

// ListByManufacturer возвращает модели указанного производителя.
func (r *carModelRepositoryInMemory) ListByManufacturer(manufacturer string) ([]domain.CarModel, error) {
	return r.listWhere(func(m domain.CarModel) bool { return m.Manufacturer == manufacturer }), nil
}

// ListByMakeYearBetween возвращает модели с годом выпуска в диапазоне [from, to].
func (r *carModelRepositoryInMemory) ListByMakeYearBetween(from, to int) ([]domain.CarModel, error) {
	return r.listWhere(func(m domain.CarModel) bool { return m.MakeYear >= from && m.MakeYear <= to }), nil
}

// Save перезаписывает существующую модель с проверкой пары (name, make_year).
func (r *carModelRepositoryInMemory) Save(model domain.CarModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[model.ID]
	if !ok {
		return domain.NotFoundf("car model %s", model.ID)
	}
	for _, existing := range r.items {
		if existing.ID != model.ID && existing.Name == model.Name && existing.MakeYear == model.MakeYear {
			return domain.Conflictf("car model %s of year %d", model.Name, model.MakeYear)
		}
	}
	model.CreatedAt = current.CreatedAt
	r.items[model.ID] = model
	return nil
}

// Delete удаляет модель или возвращает ErrNotFound.
func (r *carModelRepositoryInMemory) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.NotFoundf("car model %s", id)
	}
	delete(r.items, id)
	return nil
}

func (r *carModelRepositoryInMemory) listWhere(keep func(domain.CarModel) bool) []domain.CarModel {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.CarModel, 0)
	for _, model := range r.items {
		if keep(model) {
			result = append(result, model)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result
}

var _ domain.CarModelRepository = (*carModelRepositoryInMemory)(nil)
