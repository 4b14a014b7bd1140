package repository

import (
	"context"
	"errors"

	"github.com/RaikyD/order-verification-service/internal/domain"
	"github.com/RaikyD/order-verification-service/internal/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderRepo interface {
	AddOrder(ctx context.Context, order *domain.Order) error
	GetOrderByID(ctx context.Context, id int64) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	SaveOrder(ctx context.Context, order *domain.Order) error
	DeleteOrder(ctx context.Context, id int64) error

	ListByClientAndNumber(ctx context.Context, client, number string) ([]domain.Order, error)
	ListByClient(ctx context.Context, client string) ([]domain.Order, error)
	TopByPrice(ctx context.Context, limit int) ([]domain.Order, error)
}

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(p *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: p}
}

// AddOrder вставляет заказ; id назначает база (bigserial)
func (p *OrderRepository) AddOrder(ctx context.Context, o *domain.Order) error {
	err := p.pool.QueryRow(ctx,
		`INSERT INTO orders (number, client, price, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		o.Number,
		o.Client,
		o.Price,
		o.Status,
	).Scan(&o.ID)

	if err != nil {
		logger.Warn("Error occured while inserting into orders", "err", err)
		return err
	}
	return nil
}

func (p *OrderRepository) GetOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	var o domain.Order
	err := p.pool.QueryRow(ctx,
		`SELECT id, number, client, price, status FROM orders WHERE id = $1`,
		id,
	).Scan(&o.ID, &o.Number, &o.Client, &o.Price, &o.Status)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		logger.Warn("Error while selecting order", "id", id, "err", err)
		return nil, err
	}
	return &o, nil
}

func (p *OrderRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return p.list(ctx,
		`SELECT id, number, client, price, status FROM orders ORDER BY id`)
}

// SaveOrder перезаписывает запись целиком; если такого id нет — вставляет
// (семантика save как в CRUD-репозиториях)
func (p *OrderRepository) SaveOrder(ctx context.Context, o *domain.Order) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO orders (id, number, client, price, status)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE
		 SET number = EXCLUDED.number,
		     client = EXCLUDED.client,
		     price  = EXCLUDED.price,
		     status = EXCLUDED.status`,
		o.ID, o.Number, o.Client, o.Price, o.Status,
	)
	if err != nil {
		logger.Warn("Error while saving order", "id", o.ID, "err", err)
	}
	return err
}

// DeleteOrder идемпотентен: отсутствие строки — не ошибка
func (p *OrderRepository) DeleteOrder(ctx context.Context, id int64) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		logger.Warn("Error while deleting order", "id", id, "err", err)
	}
	return err
}

func (p *OrderRepository) ListByClientAndNumber(ctx context.Context, client, number string) ([]domain.Order, error) {
	return p.list(ctx,
		`SELECT id, number, client, price, status FROM orders
		 WHERE client = $1 AND number = $2 ORDER BY id`,
		client, number)
}

func (p *OrderRepository) ListByClient(ctx context.Context, client string) ([]domain.Order, error) {
	return p.list(ctx,
		`SELECT id, number, client, price, status FROM orders
		 WHERE client = $1 ORDER BY id`,
		client)
}

func (p *OrderRepository) TopByPrice(ctx context.Context, limit int) ([]domain.Order, error) {
	return p.list(ctx,
		`SELECT id, number, client, price, status FROM orders
		 ORDER BY price DESC LIMIT $1`,
		limit)
}

func (p *OrderRepository) list(ctx context.Context, sql string, args ...any) ([]domain.Order, error) {
	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Warn("Error while querying orders", "err", err)
		return nil, err
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.Number, &o.Client, &o.Price, &o.Status); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
