package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/showroom/internal/domain"
)

type carOptionRepository struct {
	db *sql.DB
}

// NewCarOptionRepository создаёт PostgreSQL-реализацию CarOptionRepository.
// Репозиторий только читает: строки вставляются внутри агрегата заказа.
func NewCarOptionRepository(store *Store) domain.CarOptionRepository {
	return &carOptionRepository{db: store.DB()}
}

func (r *carOptionRepository) Get(id string) (domain.CarOption, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var co domain.CarOption
	err := r.db.QueryRowContext(ctx, `
		SELECT id, option_id, car_id, created_at
		FROM car_options
		WHERE id = $1
	`, id).Scan(&co.ID, &co.OptionID, &co.CarID, &co.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CarOption{}, domain.NotFoundf("car option %s", id)
		}
		return domain.CarOption{}, fmt.Errorf("select car option: %w", err)
	}
	return co, nil
}

func (r *carOptionRepository) FindByOptionAndCar(optionID, carID string) (domain.CarOption, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var co domain.CarOption
	err := r.db.QueryRowContext(ctx, `
		SELECT id, option_id, car_id, created_at
		FROM car_options
		WHERE option_id = $1 AND car_id = $2
	`, optionID, carID).Scan(&co.ID, &co.OptionID, &co.CarID, &co.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CarOption{}, domain.NotFoundf("car option with option %s and car %s", optionID, carID)
		}
		return domain.CarOption{}, fmt.Errorf("select car option: %w", err)
	}
	return co, nil
}

func (r *carOptionRepository) ListByCar(carID string) ([]domain.CarOption, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return loadCarOptions(ctx, r.db, carID)
}

func (r *carOptionRepository) ListByOption(optionID string) ([]domain.CarOption, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, option_id, car_id, created_at
		FROM car_options
		WHERE option_id = $1
		ORDER BY created_at ASC, id ASC
	`, optionID)
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

var _ domain.CarOptionRepository = (*carOptionRepository)(nil)
