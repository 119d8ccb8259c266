package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/showroom/internal/domain"
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

// Create сохраняет заказ вместе с машиной и её опциями в одной транзакции.
// Нарушение любого уникального ограничения откатывает весь агрегат.
func (r *orderRepository) Create(order domain.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, total_price_minor, customer_id, salesman_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, order.ID, order.TotalPriceMinor, order.CustomerID, order.SalesmanID, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		if mapped, ok := conflictError(err); ok {
			return mapped
		}
		return fmt.Errorf("insert order: %w", err)
	}

	car := order.Car
	_, err = tx.ExecContext(ctx, `
		INSERT INTO cars (id, vin, registration_number, insurance_policy, image, owner_id, car_model_id, order_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, car.ID, car.VIN, car.RegistrationNumber, car.InsurancePolicy, car.Image,
		car.OwnerID, car.CarModelID, order.ID, car.CreatedAt, car.UpdatedAt)
	if err != nil {
		if mapped, ok := conflictError(err); ok {
			return mapped
		}
		return fmt.Errorf("insert car: %w", err)
	}

	for _, co := range car.Options {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO car_options (id, option_id, car_id, created_at)
			VALUES ($1,$2,$3,$4)
		`, co.ID, co.OptionID, co.CarID, co.CreatedAt)
		if err != nil {
			if mapped, ok := conflictError(err); ok {
				return mapped
			}
			return fmt.Errorf("insert car option: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

const orderSelect = `
	SELECT o.id, o.total_price_minor, o.customer_id, o.salesman_id, o.created_at, o.updated_at,
	       c.id, c.vin, c.registration_number, c.insurance_policy, c.image, c.owner_id, c.car_model_id, c.created_at, c.updated_at
	FROM orders o
	JOIN cars c ON c.order_id = o.id
`

func (r *orderRepository) Get(id string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, orderSelect+`WHERE o.id = $1`, id)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.NotFoundf("order %s", id)
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}

	order.Car.Options, err = loadCarOptions(ctx, r.db, order.Car.ID)
	if err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

func (r *orderRepository) List() ([]domain.Order, error) {
	return r.listWhere(``)
}

func (r *orderRepository) ListByCustomer(customerID string) ([]domain.Order, error) {
	return r.listWhere(`WHERE o.customer_id = $1`, customerID)
}

func (r *orderRepository) ListBySalesman(salesmanID string) ([]domain.Order, error) {
	return r.listWhere(`WHERE o.salesman_id = $1`, salesmanID)
}

func (r *orderRepository) ListByCreatedBetween(from, to time.Time) ([]domain.Order, error) {
	return r.listWhere(`WHERE o.created_at BETWEEN $1 AND $2`, from, to)
}

func (r *orderRepository) listWhere(where string, args ...any) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, orderSelect+where+`
		ORDER BY o.created_at DESC, o.id DESC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	for i := range orders {
		orders[i].Car.Options, err = loadCarOptions(ctx, r.db, orders[i].Car.ID)
		if err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// Delete удаляет заказ; машина и её опции удаляются каскадом по внешним ключам.
func (r *orderRepository) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.NotFoundf("order %s", id)
	}
	return nil
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var order domain.Order
	err := row.Scan(
		&order.ID, &order.TotalPriceMinor, &order.CustomerID, &order.SalesmanID,
		&order.CreatedAt, &order.UpdatedAt,
		&order.Car.ID, &order.Car.VIN, &order.Car.RegistrationNumber, &order.Car.InsurancePolicy,
		&order.Car.Image, &order.Car.OwnerID, &order.Car.CarModelID,
		&order.Car.CreatedAt, &order.Car.UpdatedAt,
	)
	return order, err
}

var _ domain.OrderRepository = (*orderRepository)(nil)
