package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/showroom/internal/domain"
)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository создаёт PostgreSQL-реализацию UserRepository.
func NewUserRepository(store *Store) domain.UserRepository {
	return &userRepository{db: store.DB()}
}

func (r *userRepository) Create(user domain.User) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, role, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, user.ID, user.Email, string(user.Role), string(user.Status), user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if mapped, ok := conflictError(err); ok {
			return mapped
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *userRepository) Get(id string) (domain.User, error) {
	return r.getWhere(`id = $1`, id, fmt.Sprintf("user %s", id))
}

func (r *userRepository) GetByEmail(email string) (domain.User, error) {
	return r.getWhere(`email = $1`, email, fmt.Sprintf("user with email %s", email))
}

func (r *userRepository) getWhere(where, arg, notFound string) (domain.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var (
		user   domain.User
		role   string
		status string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, role, status, created_at, updated_at
		FROM users
		WHERE `+where, arg).Scan(&user.ID, &user.Email, &role, &status, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.NotFoundf("%s", notFound)
		}
		return domain.User{}, fmt.Errorf("select user: %w", err)
	}
	user.Role = domain.Role(role)
	user.Status = domain.UserStatus(status)
	return user, nil
}

func (r *userRepository) Save(user domain.User) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET email = $1, role = $2, status = $3, updated_at = $4
		WHERE id = $5
	`, user.Email, string(user.Role), string(user.Status), user.UpdatedAt, user.ID)
	if err != nil {
		if mapped, ok := conflictError(err); ok {
			return mapped
		}
		return fmt.Errorf("update user: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.NotFoundf("user %s", user.ID)
	}
	return nil
}

func (r *userRepository) List() ([]domain.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, email, role, status, created_at, updated_at
		FROM users
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var (
			user   domain.User
			role   string
			status string
		)
		if err := rows.Scan(&user.ID, &user.Email, &role, &status, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		user.Role = domain.Role(role)
		user.Status = domain.UserStatus(status)
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}
	return users, nil
}

var _ domain.UserRepository = (*userRepository)(nil)
