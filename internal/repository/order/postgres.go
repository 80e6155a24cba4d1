package order

import (
	"context"
	"errors"
	"fmt"

	"foodorder/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderColumns = `id::text, number, user_id::text, status, total_cents, created_at, updated_at`

const orderLineColumns = `id::text, order_id::text, menu_item_id::text, restaurant_id::text, name, description,
unit_price_cents, quantity, total_cents, created_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Materialize(ctx context.Context, in MaterializeInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Lock the source carts so a concurrent materialization of the same
	// carts blocks here and finds them gone after this commit.
	rows, err := tx.Query(ctx, `
SELECT id::text FROM carts WHERE id = ANY($1) FOR UPDATE
`, in.CartIDs)
	if err != nil {
		return nil, err
	}
	lockedIDs, err := collectIDs(rows)
	if err != nil {
		return nil, err
	}
	if len(lockedIDs) == 0 {
		return nil, domain.ErrEmptyCart
	}

	lineRows, err := tx.Query(ctx, `
SELECT menu_item_id::text, restaurant_id::text, name, description,
	unit_price_cents, quantity, total_cents
FROM cart_lines
WHERE cart_id = ANY($1)
ORDER BY created_at ASC
`, lockedIDs)
	if err != nil {
		return nil, err
	}
	lines, err := collectSourceLines(lineRows)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	var copiedTotal int64
	for _, l := range lines {
		copiedTotal += l.TotalCents
	}
	if copiedTotal != in.ExpectedTotalCents {
		return nil, fmt.Errorf("order total invariant violated: copied lines sum to %d, cart totals reported %d",
			copiedTotal, in.ExpectedTotalCents)
	}

	var order domain.Order
	if err := tx.QueryRow(ctx, `
INSERT INTO orders (number, user_id, status, total_cents)
VALUES ($1, $2, $3, $4)
RETURNING `+orderColumns+`
`, in.Number, in.UserID, domain.OrderPending, copiedTotal).Scan(
		&order.ID,
		&order.Number,
		&order.UserID,
		&order.Status,
		&order.TotalCents,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		return nil, err
	}

	for _, l := range lines {
		if _, err := tx.Exec(ctx, `
INSERT INTO order_lines (order_id, menu_item_id, restaurant_id, name, description,
	unit_price_cents, quantity, total_cents)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`, order.ID, l.MenuItemID, l.RestaurantID, l.Name, l.Description,
			l.UnitPriceCents, l.Quantity, l.TotalCents); err != nil {
			return nil, err
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE cart_id = ANY($1)`, lockedIDs); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM carts WHERE id = ANY($1)`, lockedIDs); err != nil {
		return nil, err
	}

	orderLines, err := fetchLines(ctx, tx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Lines = orderLines

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	err := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id).Scan(
		&order.ID,
		&order.Number,
		&order.UserID,
		&order.Status,
		&order.TotalCents,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	lines, err := fetchLines(ctx, r.pool, order.ID)
	if err != nil {
		return nil, err
	}
	order.Lines = lines
	return &order, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC
`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID,
			&order.Number,
			&order.UserID,
			&order.Status,
			&order.TotalCents,
			&order.CreatedAt,
			&order.UpdatedAt,
		); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		lines, err := fetchLines(ctx, r.pool, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Lines = lines
	}
	return orders, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) (*domain.Order, error) {
	var order domain.Order
	err := r.pool.QueryRow(ctx, `
UPDATE orders
SET status = $1, updated_at = now()
WHERE id = $2 AND status = $3
RETURNING `+orderColumns+`
`, to, id, from).Scan(
		&order.ID,
		&order.Number,
		&order.UserID,
		&order.Status,
		&order.TotalCents,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either the order is gone or a concurrent transition won.
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, domain.ErrInvalidTransition
		}
		return nil, err
	}

	lines, err := fetchLines(ctx, r.pool, order.ID)
	if err != nil {
		return nil, err
	}
	order.Lines = lines
	return &order, nil
}

type sourceLine struct {
	MenuItemID     string
	RestaurantID   string
	Name           string
	Description    string
	UnitPriceCents int64
	Quantity       int
	TotalCents     int64
}

func collectIDs(rows pgx.Rows) ([]string, error) {
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func collectSourceLines(rows pgx.Rows) ([]sourceLine, error) {
	defer rows.Close()
	var lines []sourceLine
	for rows.Next() {
		var l sourceLine
		if err := rows.Scan(
			&l.MenuItemID,
			&l.RestaurantID,
			&l.Name,
			&l.Description,
			&l.UnitPriceCents,
			&l.Quantity,
			&l.TotalCents,
		); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func fetchLines(ctx context.Context, q querier, orderID string) ([]domain.OrderLine, error) {
	rows, err := q.Query(ctx, `
SELECT `+orderLineColumns+`
FROM order_lines
WHERE order_id = $1
ORDER BY created_at ASC, id ASC
`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(
			&line.ID,
			&line.OrderID,
			&line.MenuItemID,
			&line.RestaurantID,
			&line.Name,
			&line.Description,
			&line.UnitPriceCents,
			&line.Quantity,
			&line.TotalCents,
			&line.CreatedAt,
		); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
