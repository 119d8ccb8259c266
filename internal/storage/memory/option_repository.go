package memory

import (
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/showroom/internal/domain"
)

// optionCategoryRepositoryInMemory — простая in-memory реализация OptionCategoryRepository.
type optionCategoryRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.OptionCategory
}

// NewOptionCategoryRepository возвращает in-memory репозиторий категорий опций.
func NewOptionCategoryRepository() domain.OptionCategoryRepository {
	return &optionCategoryRepositoryInMemory{
		items: make(map[string]domain.OptionCategory),
	}
}

// Create сохраняет категорию, если ID и имя свободны.
func (r *optionCategoryRepositoryInMemory) Create(category domain.OptionCategory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[category.ID]; exists {
		return domain.Conflictf("option category %s", category.ID)
	}
	for _, existing := range r.items {
		if existing.Name == category.Name {
			return domain.Conflictf("option category %s", category.Name)
		}
	}
	r.items[category.ID] = category
	return nil
}

// Get возвращает категорию или ErrNotFound.
func (r *optionCategoryRepositoryInMemory) Get(id string) (domain.OptionCategory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	category, ok := r.items[id]
	if !ok {
		return domain.OptionCategory{}, domain.NotFoundf("option category %s", id)
	}
	return category, nil
}

// GetByName возвращает категорию по имени или ErrNotFound.
func (r *optionCategoryRepositoryInMemory) GetByName(name string) (domain.OptionCategory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, category := range r.items {
		if category.Name == name {
			return category, nil
		}
	}
	return domain.OptionCategory{}, domain.NotFoundf("option category %s", name)
}

// List возвращает все категории.
func (r *optionCategoryRepositoryInMemory) List() ([]domain.OptionCategory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.OptionCategory, 0, len(r.items))
	for _, category := range r.items {
		result = append(result, category)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// Save перезаписывает существующую категорию с проверкой уникальности имени.
func (r *optionCategoryRepositoryInMemory) Save(category domain.OptionCategory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[category.ID]
	if !ok {
		return domain.NotFoundf("option category %s", category.ID)
	}
	for _, existing := range r.items {
		if existing.ID != category.ID && existing.Name == category.Name {
			return domain.Conflictf("option category %s", category.Name)
		}
	}
	category.CreatedAt = current.CreatedAt
	r.items[category.ID] = category
	return nil
}

// Delete удаляет категорию или возвращает ErrNotFound.
func (r *optionCategoryRepositoryInMemory) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.NotFoundf("option category %s", id)
	}
	delete(r.items, id)
	return nil
}

var _ domain.OptionCategoryRepository = (*optionCategoryRepositoryInMemory)(nil)

// optionRepositoryInMemory — простая in-memory реализация OptionRepository.
type optionRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Option
}

// NewOptionRepository возвращает in-memory репозиторий опций.
func NewOptionRepository() domain.OptionRepository {
	return &optionRepositoryInMemory{
		items: make(map[string]domain.Option),
	}
}

// Create сохраняет опцию, если ID и тройка (name, model, category) свободны.
func (r *optionRepositoryInMemory) Create(option domain.Option) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[option.ID]; exists {
		return domain.Conflictf("option %s", option.ID)
	}
	for _, existing := range r.items {
		if existing.Name == option.Name &&
			existing.CarModelID == option.CarModelID &&
			existing.OptionCategoryID == option.OptionCategoryID {
			return domain.Conflictf("option %s for car model %s and category %s",
				option.Name, option.CarModelID, option.OptionCategoryID)
		}
	}
	r.items[option.ID] = option
	return nil
}

// Get возвращает опцию или ErrNotFound.
func (r *optionRepositoryInMemory) Get(id string) (domain.Option, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	option, ok := r.items[id]
	if !ok {
		return domain.Option{}, domain.NotFoundf("option %s", id)
	}
	return option, nil
}

// ListByCarModel возвращает опции указанной модели.
func (r *optionRepositoryInMemory) ListByCarModel(carModelID string) ([]domain.Option, error) {
	return r.listWhere(func(o domain.Option) bool { return o.CarModelID == carModelID }), nil
}

// ListByCarModelAndCategory возвращает опции модели в указанной категории.
func (r *optionRepositoryInMemory) ListByCarModelAndCategory(carModelID, categoryID string) ([]domain.Option, error) {
	return r.listWhere(func(o domain.Option) bool {
		return o.CarModelID == carModelID && o.OptionCategoryID == categoryID
	}), nil
}

// ListByCategory возвращает опции категории по всем моделям.
func (r *optionRepositoryInMemory) ListByCategory(categoryID string) ([]domain.Option, error) {
	return r.listWhere(func(o domain.Option) bool { return o.OptionCategoryID == categoryID }), nil
}

// FindByNameModelCategory ищет опцию по уникальной тройке или возвращает ErrNotFound.
func (r *optionRepositoryInMemory) FindByNameModelCategory(name, carModelID, categoryID string) (domain.Option, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, option := range r.items {
		if option.Name == name && option.CarModelID == carModelID && option.OptionCategoryID == categoryID {
			return option, nil
		}
	}
	return domain.Option{}, domain.NotFoundf("option %s for car model %s and category %s", name, carModelID, categoryID)
}

// Save перезаписывает существующую опцию.
func (r *optionRepositoryInMemory) Save(option domain.Option) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[option.ID]
	if !ok {
		return domain.NotFoundf("option %s", option.ID)
	}
	option.CreatedAt = current.CreatedAt
	r.items[option.ID] = option
	return nil
}

func (r *optionRepositoryInMemory) listWhere(keep func(domain.Option) bool) []domain.Option {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Option, 0)
	for _, option := range r.items {
		if keep(option) {
			result = append(result, option)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

var _ domain.OptionRepository = (*optionRepositoryInMemory)(nil)
