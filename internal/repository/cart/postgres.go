package cart

import (
	"context"
	"errors"

	"foodorder/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const cartColumns = `id::text, user_id::text, scope_key, total_cents, created_at, updated_at`

const lineColumns = `id::text, cart_id::text, menu_item_id::text, restaurant_id::text, name, description,
unit_price_cents, quantity, total_cents, item_created_at, item_updated_at, created_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, userID, scopeKey string) (*domain.Cart, error) {
	const q = `
INSERT INTO carts (user_id, scope_key, total_cents)
VALUES ($1, $2, 0)
RETURNING ` + cartColumns + `
`
	var cart domain.Cart
	if err := r.pool.QueryRow(ctx, q, userID, scopeKey).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.ScopeKey,
		&cart.TotalCents,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Cart, error) {
	return r.fetchCart(ctx, `SELECT `+cartColumns+` FROM carts WHERE id = $1`, id)
}

func (r *postgresRepo) GetByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	const q = `
SELECT ` + cartColumns + `
FROM carts
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT 1
`
	return r.fetchCart(ctx, q, userID)
}

func (r *postgresRepo) ListByScope(ctx context.Context, scopeKey string) ([]domain.Cart, error) {
	const q = `SELECT ` + cartColumns + ` FROM carts WHERE scope_key = $1 ORDER BY created_at ASC`
	return r.fetchCarts(ctx, q, scopeKey)
}

func (r *postgresRepo) ListAll(ctx context.Context) ([]domain.Cart, error) {
	const q = `SELECT ` + cartColumns + ` FROM carts ORDER BY created_at ASC`
	return r.fetchCarts(ctx, q)
}

// AddLine appends a snapshot line for the menu item or, if the cart already
// holds a line for it, increments quantity and line total by the new
// contribution. The cart total is recomputed from line totals in the same
// transaction.
func (r *postgresRepo) AddLine(ctx context.Context, cartID string, item domain.MenuItem, quantity int) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var lineID string
	var existingQty int
	var unitPrice int64
	err = tx.QueryRow(ctx, `
SELECT id::text, quantity, unit_price_cents
FROM cart_lines
WHERE cart_id = $1 AND menu_item_id = $2
`, cartID, item.ID).Scan(&lineID, &existingQty, &unitPrice)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	if err == nil {
		newQty := existingQty + quantity
		newTotal := unitPrice * int64(newQty)
		if _, err := tx.Exec(ctx, `
UPDATE cart_lines
SET quantity = $1, total_cents = $2
WHERE id = $3
`, newQty, newTotal, lineID); err != nil {
			return err
		}
	} else {
		total := item.PriceCents * int64(quantity)
		if _, err := tx.Exec(ctx, `
INSERT INTO cart_lines (cart_id, menu_item_id, restaurant_id, name, description,
	unit_price_cents, quantity, total_cents, item_created_at, item_updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`, cartID, item.ID, item.RestaurantID, item.Name, item.Description,
			item.PriceCents, quantity, total, item.CreatedAt, item.UpdatedAt); err != nil {
			return err
		}
	}

	if err := updateCartTotal(ctx, tx, cartID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) SetLineQuantity(ctx context.Context, cartID, menuItemID string, quantity int) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var unitPrice int64
	err = tx.QueryRow(ctx, `
SELECT unit_price_cents
FROM cart_lines
WHERE cart_id = $1 AND menu_item_id = $2
`, cartID, menuItemID).Scan(&unitPrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	total := unitPrice * int64(quantity)
	if _, err := tx.Exec(ctx, `
UPDATE cart_lines
SET quantity = $1, total_cents = $2
WHERE cart_id = $3 AND menu_item_id = $4
`, quantity, total, cartID, menuItemID); err != nil {
		return err
	}

	if err := updateCartTotal(ctx, tx, cartID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) DeleteLine(ctx context.Context, cartID, menuItemID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
DELETE FROM cart_lines
WHERE cart_id = $1 AND menu_item_id = $2
`, cartID, menuItemID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	if err := updateCartTotal(ctx, tx, cartID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) Clear(ctx context.Context, cartID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE cart_id = $1`, cartID); err != nil {
		return err
	}
	if err := updateCartTotal(ctx, tx, cartID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) fetchCart(ctx context.Context, query string, args ...interface{}) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.ScopeKey,
		&cart.TotalCents,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	lines, err := r.fetchLines(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Lines = lines
	return &cart, nil
}

func (r *postgresRepo) fetchCarts(ctx context.Context, query string, args ...interface{}) ([]domain.Cart, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var carts []domain.Cart
	for rows.Next() {
		var cart domain.Cart
		if err := rows.Scan(
			&cart.ID,
			&cart.UserID,
			&cart.ScopeKey,
			&cart.TotalCents,
			&cart.CreatedAt,
			&cart.UpdatedAt,
		); err != nil {
			return nil, err
		}
		carts = append(carts, cart)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range carts {
		lines, err := r.fetchLines(ctx, carts[i].ID)
		if err != nil {
			return nil, err
		}
		carts[i].Lines = lines
	}
	return carts, nil
}

func (r *postgresRepo) fetchLines(ctx context.Context, cartID string) ([]domain.CartLine, error) {
	const q = `
SELECT ` + lineColumns + `
FROM cart_lines
WHERE cart_id = $1
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, q, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(
			&line.ID,
			&line.CartID,
			&line.MenuItemID,
			&line.RestaurantID,
			&line.Name,
			&line.Description,
			&line.UnitPriceCents,
			&line.Quantity,
			&line.TotalCents,
			&line.ItemCreatedAt,
			&line.ItemUpdatedAt,
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

// updateCartTotal recomputes the cart total from its line totals rather than
// adjusting it incrementally, so totals cannot drift.
func updateCartTotal(ctx context.Context, tx pgx.Tx, cartID string) error {
	_, err := tx.Exec(ctx, `
UPDATE carts
SET total_cents = COALESCE((
	SELECT SUM(total_cents)
	FROM cart_lines
	WHERE cart_id = $1
), 0),
    updated_at = now()
WHERE id = $1
`, cartID)
	return err
}
