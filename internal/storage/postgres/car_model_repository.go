package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/showroom/internal/domain"
)

type carModelRepository struct {
	db *sql.DB
}

// NewCarModelRepository создаёт PostgreSQL-реализацию CarModelRepository.
func NewCarModelRepository(store *Store) domain.CarModelRepository {
	return &carModelRepository{db: store.DB()}
}

const carModelColumns = `id, name, manufacturer, make_year, image, price_minor, created_at, updated_at`

func (r *carModelRepository) Create(model domain.CarModel) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO car_models (`+carModelColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, model.ID, model.Name, model.Manufacturer, model.MakeYear, model.Image, model.PriceMinor, model.CreatedAt, model.UpdatedAt)
	if err != nil {
		if mapped, ok := conflictError(err); ok {
			return mapped
		}
		return fmt.Errorf("insert car model: %w", err)
	}
	return nil
}

func (r *carModelRepository) Get(id string) (domain.CarModel, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `
		SELECT `+carModelColumns+`
		FROM car_models
		WHERE id = $1
	`, id)
	model, err := scanCarModel(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CarModel{}, domain.NotFoundf("car model %s", id)
		}
		return domain.CarModel{}, fmt.Errorf("select car model: %w", err)
	}
	return model, nil
}

func (r *carModelRepository) GetByNameAndYear(name string, makeYear int) (domain.CarModel, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `
		SELECT `+carModelColumns+`
		FROM car_models
		WHERE name = $1 AND make_year = $2
	`, name, makeYear)
	model, err := scanCarModel(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CarModel{}, domain.NotFoundf("car model %s (%d)", name, makeYear)
		}
		return domain.CarModel{}, fmt.Errorf("select car model: %w", err)
	}
	return model, nil
}

func (r *carModelRepository) List() ([]domain.CarModel, error) {
	return r.listWhere(``)
}

func (r *carModelRepository) ListByManufacturer(manufacturer string) ([]domain.CarModel, error) {
	return r.listWhere(`WHERE manufacturer = $1`, manufacturer)
}

func (r *carModelRepository) ListByMakeYearBetween(from, to int) ([]domain.CarModel, error) {
	return r.listWhere(`WHERE make_year BETWEEN $1 AND $2`, from, to)
}

func (r *carModelRepository) listWhere(where string, args ...any) ([]domain.CarModel, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+carModelColumns+`
		FROM car_models
		`+where+`
		ORDER BY make_year DESC, name ASC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("list car models: %w", err)
	}
	defer rows.Close()

	models := make([]domain.CarModel, 0)
	for rows.Next() {
		model, err := scanCarModel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan car model row: %w", err)
		}
		models = append(models, model)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate car model rows: %w", err)
	}
	return models, nil
}

func (r *carModelRepository) Save(model domain.CarModel) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE car_models
		SET name = $1, manufacturer = $2, make_year = $3, image = $4, price_minor = $5, updated_at = $6
		WHERE id = $7
	`, model.Name, model.Manufacturer, model.MakeYear, model.Image, model.PriceMinor, model.UpdatedAt, model.ID)
	if err != nil {
		if mapped, ok := conflictError(err); ok {
			return mapped
		}
		return fmt.Errorf("update car model: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.NotFoundf("car model %s", model.ID)
	}
	return nil
}

func (r *carModelRepository) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM car_models WHERE id = $1`, id)
	if err != nil {
		if mapped, ok := conflictError(err); ok {
			return mapped
		}
		return fmt.Errorf("delete car model: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.NotFoundf("car model %s", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCarModel(row rowScanner) (domain.CarModel, error) {
	var model domain.CarModel
	err := row.Scan(&model.ID, &model.Name, &model.Manufacturer, &model.MakeYear,
		&model.Image, &model.PriceMinor, &model.CreatedAt, &model.UpdatedAt)
	return model, err
}

var _ domain.CarModelRepository = (*carModelRepository)(nil)
