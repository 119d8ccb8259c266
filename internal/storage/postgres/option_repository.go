package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/showroom/internal/domain"
)

type optionCategoryRepository struct {
	db *sql.DB
}

// NewOptionCategoryRepository создаёт PostgreSQL-реализацию OptionCategoryRepository.
func NewOptionCategoryRepository(store *Store) domain.OptionCategoryRepository {
	return &optionCategoryRepository{db: store.DB()}
}

func (r *optionCategoryRepository) Create(category domain.OptionCategory) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO option_categories (id, name, created_at, updated_at)
		VALUES ($1,$2,$3,$4)
	`, category.ID, category.Name, category.CreatedAt, category.UpdatedAt)
	if err != nil {
		if mapped, ok := conflictError(err); ok {
			return mapped
		}
		return fmt.Errorf("insert option category: %w", err)
	}
	return nil
}

func (r *optionCategoryRepository) Get(id string) (domain.OptionCategory, error) {
	return r.getWhere(`id = $1`, id, fmt.Sprintf("option category %s", id))
}

func (r *optionCategoryRepository) GetByName(name string) (domain.OptionCategory, error) {
	return r.getWhere(`name = $1`, name, fmt.Sprintf("option category %q", name))
}

func (r *optionCategoryRepository) getWhere(where, arg, notFound string) (domain.OptionCategory, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var category domain.OptionCategory
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, created_at, updated_at
		FROM option_categories
		WHERE `+where, arg).Scan(&category.ID, &category.Name, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.OptionCategory{}, domain.NotFoundf("%s", notFound)
		}
		return domain.OptionCategory{}, fmt.Errorf("select option category: %w", err)
	}
	return category, nil
}

func (r *optionCategoryRepository) List() ([]domain.OptionCategory, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, created_at, updated_at
		FROM option_categories
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list option categories: %w", err)
	}
	defer rows.Close()

	categories := make([]domain.OptionCategory, 0)
	for rows.Next() {
		var category domain.OptionCategory
		if err := rows.Scan(&category.ID, &category.Name, &category.CreatedAt, &category.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan option category row: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate option category rows: %w", err)
	}
	return categories, nil
}

func (r *optionCategoryRepository) Save(category domain.OptionCategory) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE option_categories
		SET name = $1, updated_at = $2
		WHERE id = $3
	`, category.Name, category.UpdatedAt, category.ID)
	if err != nil {
		if mapped, ok := conflictError(err); ok {
			return mapped
		}
		return fmt.Errorf("update option category: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.NotFoundf("option category %s", category.ID)
	}
	return nil
}

func (r *optionCategoryRepository) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM option_categories WHERE id = $1`, id)
	if err != nil {
		if mapped, ok := conflictError(err); ok {
			return mapped
		}
		return fmt.Errorf("delete option category: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.NotFoundf("option category %s", id)
	}
	return nil
}

var _ domain.OptionCategoryRepository = (*optionCategoryRepository)(nil)

type optionRepository struct {
	db *sql.DB
}

// NewOptionRepository создаёт PostgreSQL-реализацию OptionRepository.
func NewOptionRepository(store *Store) domain.OptionRepository {
	return &optionRepository{db: store.DB()}
}

const optionColumns = `id, name, price_minor, car_model_id, option_category_id, created_at, updated_at`

func (r *optionRepository) Create(option domain.Option) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO options (`+optionColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, option.ID, option.Name, option.PriceMinor, option.CarModelID, option.OptionCategoryID,
		option.CreatedAt, option.UpdatedAt)
	if err != nil {
		if mapped, ok := conflictError(err); ok {
			return mapped
		}
		return fmt.Errorf("insert option: %w", err)
	}
	return nil
}

func (r *optionRepository) Get(id string) (domain.Option, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `
		SELECT `+optionColumns+`
		FROM options
		WHERE id = $1
	`, id)
	option, err := scanOption(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Option{}, domain.NotFoundf("option %s", id)
		}
		return domain.Option{}, fmt.Errorf("select option: %w", err)
	}
	return option, nil
}

func (r *optionRepository) FindByNameModelCategory(name, carModelID, categoryID string) (domain.Option, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `
		SELECT `+optionColumns+`
		FROM options
		WHERE name = $1 AND car_model_id = $2 AND option_category_id = $3
	`, name, carModelID, categoryID)
	option, err := scanOption(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Option{}, domain.NotFoundf("option %q for model %s", name, carModelID)
		}
		return domain.Option{}, fmt.Errorf("select option: %w", err)
	}
	return option, nil
}

func (r *optionRepository) ListByCarModel(carModelID string) ([]domain.Option, error) {
	return r.listWhere(`WHERE car_model_id = $1`, carModelID)
}

func (r *optionRepository) ListByCarModelAndCategory(carModelID, categoryID string) ([]domain.Option, error) {
	return r.listWhere(`WHERE car_model_id = $1 AND option_category_id = $2`, carModelID, categoryID)
}

func (r *optionRepository) ListByCategory(categoryID string) ([]domain.Option, error) {
	return r.listWhere(`WHERE option_category_id = $1`, categoryID)
}

func (r *optionRepository) listWhere(where string, args ...any) ([]domain.Option, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+optionColumns+`
		FROM options
		`+where+`
		ORDER BY name ASC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("list options: %w", err)
	}
	defer rows.Close()

	options := make([]domain.Option, 0)
	for rows.Next() {
		option, err := scanOption(rows)
		if err != nil {
			return nil, fmt.Errorf("scan option row: %w", err)
		}
		options = append(options, option)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate option rows: %w", err)
	}
	return options, nil
}

func (r *optionRepository) Save(option domain.Option) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE options
		SET name = $1, price_minor = $2, updated_at = $3
		WHERE id = $4
	`, option.Name, option.PriceMinor, option.UpdatedAt, option.ID)
	if err != nil {
		if mapped, ok := conflictError(err); ok {
			return mapped
		}
		return fmt.Errorf("update option: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.NotFoundf("option %s", option.ID)
	}
	return nil
}

func scanOption(row rowScanner) (domain.Option, error) {
	var option domain.Option
	err := row.Scan(&option.ID, &option.Name, &option.PriceMinor, &option.CarModelID,
		&option.OptionCategoryID, &option.CreatedAt, &option.UpdatedAt)
	return option, err
}

var _ domain.OptionRepository = (*optionRepository)(nil)
