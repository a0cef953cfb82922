// Package postgres implements the service repositories on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-purchase-orderflow/internal/domain"
	"github.com/imrishuroy/go-purchase-orderflow/internal/storage/postgres/migrations"
)

// ErrDuplicateID is returned when an insert collides with an existing primary key.
var ErrDuplicateID = errors.New("postgres: row with this id already exists")

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Open connects to dsn, verifies the connection and applies migrations.
func Open(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := migrations.Apply(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return NewStore(pool), nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	const query = `SELECT id, name FROM customers WHERE id = $1`

	var c domain.Customer
	err := s.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

func (s *Store) CountOrdersSince(ctx context.Context, customerID int64, since time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM orders WHERE customer_id = $1 AND order_date >= $2`

	var n int
	if err := s.pool.QueryRow(ctx, query, customerID, since.UTC()).Scan(&n); err != nil {
		return 0, fmt.Errorf("count orders since: %w", err)
	}
	return n, nil
}

func (s *Store) CountOrders(ctx context.Context, customerID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM orders WHERE customer_id = $1`

	var n int
	if err := s.pool.QueryRow(ctx, query, customerID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

// InsertOrder writes the order and sets its generated id. The value travels
// as text so numeric precision is never routed through float64.
func (s *Store) InsertOrder(ctx context.Context, order *domain.Order) error {
	const stmt = `
INSERT INTO orders (customer_id, value, order_date)
VALUES ($1, $2::numeric, $3)
RETURNING id`

	order.OrderDate = order.OrderDate.UTC()
	err := s.pool.QueryRow(ctx, stmt, order.CustomerID, order.Value.String(), order.OrderDate).Scan(&order.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateID
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (s *Store) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	const query = `SELECT id, customer_id, value::text, order_date FROM orders WHERE id = $1`

	var (
		o     domain.Order
		value string
	)
	err := s.pool.QueryRow(ctx, query, id).Scan(&o.ID, &o.CustomerID, &value, &o.OrderDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if o.Value, err = decimal.NewFromString(value); err != nil {
		return nil, fmt.Errorf("parse order value %q: %w", value, err)
	}
	o.OrderDate = o.OrderDate.UTC()
	return &o, nil
}

func (s *Store) ListProducts(ctx context.Context, offset, limit int) ([]domain.Product, int, error) {
	total, err := s.countRows(ctx, `SELECT COUNT(*) FROM products`)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}
	rows, err := s.pool.Query(ctx, `SELECT id, name FROM products ORDER BY id OFFSET $1 LIMIT $2`, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Product, error) {
		var p domain.Product
		err := row.Scan(&p.ID, &p.Name)
		return p, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("scan products: %w", err)
	}
	return items, total, nil
}

func (s *Store) ListCustomers(ctx context.Context, offset, limit int) ([]domain.Customer, int, error) {
	total, err := s.countRows(ctx, `SELECT COUNT(*) FROM customers`)
	if err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}
	rows, err := s.pool.Query(ctx, `SELECT id, name FROM customers ORDER BY id OFFSET $1 LIMIT $2`, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Customer, error) {
		var c domain.Customer
		err := row.Scan(&c.ID, &c.Name)
		return c, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("scan customers: %w", err)
	}
	return items, total, nil
}

func (s *Store) InsertNumber(ctx context.Context, n *domain.RandomNumber) error {
	const stmt = `INSERT INTO random_numbers (number) VALUES ($1) RETURNING id`

	if err := s.pool.QueryRow(ctx, stmt, n.Number).Scan(&n.ID); err != nil {
		return fmt.Errorf("insert number: %w", err)
	}
	return nil
}

func (s *Store) countRows(ctx context.Context, query string) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
