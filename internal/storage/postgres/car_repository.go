package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/showroom/internal/domain"
)

type carRepository struct {
	db *sql.DB
}

// NewCarRepository создаёт PostgreSQL-реализацию CarRepository.
// Машины вставляются только внутри агрегата заказа (OrderRepository.Create).
func NewCarRepository(store *Store) domain.CarRepository {
	return &carRepository{db: store.DB()}
}

const carColumns = `id, vin, registration_number, insurance_policy, image, owner_id, car_model_id, created_at, updated_at`

func (r *carRepository) Get(id string) (domain.Car, error) {
	return r.getWhere(`id = $1`, id, fmt.Sprintf("car %s", id))
}

func (r *carRepository) GetByVIN(vin string) (domain.Car, error) {
	return r.getWhere(`vin = $1`, vin, fmt.Sprintf("car with vin %s", vin))
}

func (r *carRepository) GetByRegistrationNumber(registrationNumber string) (domain.Car, error) {
	return r.getWhere(`registration_number = $1`, registrationNumber,
		fmt.Sprintf("car with registration number %s", registrationNumber))
}

func (r *carRepository) GetByInsurancePolicy(insurancePolicy string) (domain.Car, error) {
	return r.getWhere(`insurance_policy = $1`, insurancePolicy,
		fmt.Sprintf("car with insurance policy %s", insurancePolicy))
}

func (r *carRepository) getWhere(where, arg, notFound string) (domain.Car, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `
		SELECT `+carColumns+`
		FROM cars
		WHERE `+where, arg)
	car, err := scanCar(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Car{}, domain.NotFoundf("%s", notFound)
		}
		return domain.Car{}, fmt.Errorf("select car: %w", err)
	}

	car.Options, err = loadCarOptions(ctx, r.db, car.ID)
	if err != nil {
		return domain.Car{}, err
	}
	return car, nil
}

func (r *carRepository) ExistsByVIN(vin string) (bool, error) {
	return r.exists(`vin = $1`, vin)
}

func (r *carRepository) ExistsByRegistrationNumber(registrationNumber string) (bool, error) {
	return r.exists(`registration_number = $1`, registrationNumber)
}

func (r *carRepository) ExistsByInsurancePolicy(insurancePolicy string) (bool, error) {
	return r.exists(`insurance_policy = $1`, insurancePolicy)
}

func (r *carRepository) exists(where, arg string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var found bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM cars WHERE `+where+`)`, arg).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("car exists check: %w", err)
	}
	return found, nil
}

func (r *carRepository) List() ([]domain.Car, error) {
	return r.listWhere(``)
}

func (r *carRepository) ListByOwner(ownerID string) ([]domain.Car, error) {
	return r.listWhere(`WHERE owner_id = $1`, ownerID)
}

func (r *carRepository) ListByCarModel(carModelID string) ([]domain.Car, error) {
	return r.listWhere(`WHERE car_model_id = $1`, carModelID)
}

func (r *carRepository) listWhere(where string, args ...any) ([]domain.Car, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+carColumns+`
		FROM cars
		`+where+`
		ORDER BY created_at DESC, id DESC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("list cars: %w", err)
	}
	defer rows.Close()

	cars := make([]domain.Car, 0)
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, fmt.Errorf("scan car row: %w", err)
		}
		cars = append(cars, car)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate car rows: %w", err)
	}

	for i := range cars {
		cars[i].Options, err = loadCarOptions(ctx, r.db, cars[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return cars, nil
}

// Save обновляет идентификаторы и владельца машины. Уникальность обеспечивают
// ограничения схемы; связи машина–опция через Save не меняются.
func (r *carRepository) Save(car domain.Car) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE cars
		SET vin = $1, registration_number = $2, insurance_policy = $3, image = $4, owner_id = $5, updated_at = $6
		WHERE id = $7
	`, car.VIN, car.RegistrationNumber, car.InsurancePolicy, car.Image, car.OwnerID, car.UpdatedAt, car.ID)
	if err != nil {
		if mapped, ok := conflictError(err); ok {
			return mapped
		}
		return fmt.Errorf("update car: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.NotFoundf("car %s", car.ID)
	}
	return nil
}

func scanCar(row rowScanner) (domain.Car, error) {
	var car domain.Car
	err := row.Scan(&car.ID, &car.VIN, &car.RegistrationNumber, &car.InsurancePolicy,
		&car.Image, &car.OwnerID, &car.CarModelID, &car.CreatedAt, &car.UpdatedAt)
	return car, err
}

func loadCarOptions(ctx context.Context, db *sql.DB, carID string) ([]domain.CarOption, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, option_id, car_id, created_at
		FROM car_options
		WHERE car_id = $1
		ORDER BY created_at ASC, id ASC
	`, carID)
	if err != nil {
		return nil, fmt.Errorf("list car options: %w", err)
	}
	defer rows.Close()

	options := make([]domain.CarOption, 0)
	for rows.Next() {
		var co domain.CarOption
		if err := rows.Scan(&co.ID, &co.OptionID, &co.CarID, &co.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan car option row: %w", err)
		}
		options = append(options, co)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate car option rows: %w", err)
	}
	return options, nil
}

var _ domain.CarRepository = (*carRepository)(nil)
