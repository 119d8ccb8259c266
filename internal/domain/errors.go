package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAccessDenied — у актора нет роли или владения, необходимых для операции.
	ErrAccessDenied = errors.New("access denied")
	// ErrNotFound — запрошенная сущность отсутствует в хранилище.
	ErrNotFound = errors.New("information not found")
	// ErrAlreadyExists — нарушение уникальности или дублирующая комбинация.
	ErrAlreadyExists = errors.New("information already exists")
	// ErrBadRequest — некорректный вход (например, неподдерживаемый тип изображения).
	ErrBadRequest = errors.New("bad request")

	// ErrAccountInactive — учётная запись деактивирована; уточнение ErrAccessDenied.
	ErrAccountInactive = fmt.Errorf("account is deactivated: %w", ErrAccessDenied)

	// Замечания инвариантов заказа.
	ErrCustomerRequired   = errors.New("customer_id is required")
	ErrSalesmanRequired   = errors.New("salesman_id is required")
	ErrTotalPriceNegative = errors.New("total_price_minor must be non-negative")
	ErrCustomerNotOwner   = errors.New("order customer must be the car owner")
	ErrDuplicateCarOption = errors.New("option attached to the car more than once")
	ErrTotalPriceMismatch = errors.New("order total does not match model price plus options")
)

// NotFoundf оборачивает ErrNotFound с описанием отсутствующей сущности.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// Conflictf оборачивает ErrAlreadyExists, называя конфликтующее поле и значение.
func Conflictf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrAlreadyExists)...)
}

// BadRequestf оборачивает ErrBadRequest с описанием некорректного входа.
func BadRequestf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrBadRequest)...)
}

// AccessDeniedf оборачивает ErrAccessDenied с причиной отказа.
func AccessDeniedf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrAccessDenied)...)
}

// IsNotFound проверяет, является ли ошибка отсутствием сущности.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict проверяет, является ли ошибка нарушением уникальности.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsAccessDenied проверяет, является ли ошибка отказом в доступе.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}
