package memory

import (
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/showroom/internal/domain"
)

// userRepositoryInMemory — простая in-memory реализация UserRepository.
type userRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.User
}

// NewUserRepository возвращает in-memory репозиторий пользователей для локальной разработки и тестов.
func NewUserRepository() domain.UserRepository {
	return &userRepositoryInMemory{
		items: make(map[string]domain.User),
	}
}

// Create сохраняет нового пользователя, если ID и email свободны.
func (r *userRepositoryInMemory) Create(user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[user.ID]; exists {
		return domain.Conflictf("user %s", user.ID)
	}
	for _, existing := range r.items {
		if existing.Email == user.Email {
			return domain.Conflictf("user with email %s", user.Email)
		}
	}
	r.items[user.ID] = user
	return nil
}

// Get возвращает пользователя или ErrNotFound.
func (r *userRepositoryInMemory) Get(id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.items[id]
	if !ok {
		return domain.User{}, domain.NotFoundf("user %s", id)
	}
	return user, nil
}

// GetByEmail возвращает пользователя по адресу почты или ErrNotFound.
func (r *userRepositoryInMemory) GetByEmail(email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.items {
		if user.Email == email {
			return user, nil
		}
	}
	return domain.User{}, domain.NotFoundf("user with email %s", email)
}

// Save перезаписывает существующего пользователя.
func (r *userRepositoryInMemory) Save(user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[user.ID]
	if !ok {
		return domain.NotFoundf("user %s", user.ID)
	}
	for _, existing := range r.items {
		if existing.ID != user.ID && existing.Email == user.Email {
			return domain.Conflictf("user with email %s", user.Email)
		}
	}
	user.CreatedAt = current.CreatedAt
	r.items[user.ID] = user
	return nil
}

// List возвращает всех пользователей (новые первыми).
func (r *userRepositoryInMemory) List() ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.User, 0, len(r.items))
	for _, user := range r.items {
		result = append(result, user)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

var _ domain.UserRepository = (*userRepositoryInMemory)(nil)
