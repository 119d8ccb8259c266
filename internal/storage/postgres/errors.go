package postgres

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/showroom/internal/domain"
)

const opTimeout = 5 * time.Second

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
)

// conflictError переводит нарушение уникального constraint в доменный
// ErrAlreadyExists с именем конфликтующего поля; прочие ошибки возвращает как есть.
// Constraint в insert-момент — последняя линия защиты от гонки между проверкой
// уникальности и вставкой.
func conflictError(err error) (error, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err, false
	}

	// Удаление записи каталога, на которую ещё ссылаются машины или опции,
	// упирается в foreign key; для домена это тот же конфликт.
	if pgErr.Code == foreignKeyViolationCode {
		return domain.Conflictf("record is still referenced (%s)", pgErr.ConstraintName), true
	}
	if pgErr.Code != uniqueViolationCode {
		return err, false
	}

	switch pgErr.ConstraintName {
	case "cars_vin_key":
		return domain.Conflictf("car with vin already registered"), true
	case "cars_registration_number_key":
		return domain.Conflictf("car with registration number already registered"), true
	case "cars_insurance_policy_key":
		return domain.Conflictf("car with insurance policy already registered"), true
	case "car_options_option_id_car_id_key":
		return domain.Conflictf("option already attached to car"), true
	case "users_email_key":
		return domain.Conflictf("user with email already registered"), true
	case "car_models_name_make_year_key":
		return domain.Conflictf("car model with name and make year already registered"), true
	case "option_categories_name_key":
		return domain.Conflictf("option category with name already registered"), true
	case "options_name_model_category_key":
		return domain.Conflictf("option with name already registered for model and category"), true
	default:
		return domain.Conflictf("record %s", pgErr.ConstraintName), true
	}
}
