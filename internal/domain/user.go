package domain

import "time"

// Role определяет уровень доступа пользователя в шоуруме.
type Role string

const (
	// RoleAdmin — полный доступ ко всем операциям и данным.
	RoleAdmin Role = "ADMIN"
	// RoleSalesman — продавец: создание заказов, машин и опций, чтение любых записей.
	RoleSalesman Role = "SALESMAN"
	// RoleCustomer — клиент: только чтение собственных данных.
	RoleCustomer Role = "CUSTOMER"
)

// UserStatus описывает состояние учётной записи.
type UserStatus string

const (
	// UserStatusActive — учётная запись активна.
	UserStatusActive UserStatus = "ACTIVE"
	// UserStatusInactive — учётная запись деактивирована (soft delete).
	UserStatusInactive UserStatus = "INACTIVE"
)

// User представляет учётную запись: клиент, продавец или администратор.
type User struct {
	ID        string
	Email     string
	Role      Role
	Status    UserStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Actor — аутентифицированный пользователь текущей операции.
// Передаётся явным параметром в каждый сервисный вызов, а не через ambient-контекст.
type Actor struct {
	ID     string
	Role   Role
	Status UserStatus
}

// ActorFromUser формирует Actor из учётной записи.
func ActorFromUser(u User) Actor {
	return Actor{ID: u.ID, Role: u.Role, Status: u.Status}
}
