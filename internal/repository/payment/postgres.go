package payment

import (
	"context"
	"errors"

	"foodorder/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const paymentColumns = `id::text, order_id::text, restaurant_id::text, menu_item_ids, amount_cents, status, method, created_at, updated_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) CreateBatch(ctx context.Context, orderID string, payments []domain.Payment) ([]domain.Payment, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx, `
SELECT EXISTS (SELECT 1 FROM payments WHERE order_id = $1)
`, orderID).Scan(&exists); err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrConflict
	}

	out := make([]domain.Payment, 0, len(payments))
	for _, p := range payments {
		var created domain.Payment
		err := tx.QueryRow(ctx, `
INSERT INTO payments (order_id, restaurant_id, menu_item_ids, amount_cents, status, method)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING `+paymentColumns+`
`, orderID, p.RestaurantID, p.MenuItemIDs, p.AmountCents, p.Status, p.Method).Scan(
			&created.ID,
			&created.OrderID,
			&created.RestaurantID,
			&created.MenuItemIDs,
			&created.AmountCents,
			&created.Status,
			&created.Method,
			&created.CreatedAt,
			&created.UpdatedAt,
		)
		if err != nil {
			// The unique (order_id, restaurant_id) index backs the EXISTS
			// guard against concurrent partition calls.
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return nil, domain.ErrConflict
			}
			return nil, err
		}
		out = append(out, created)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	return r.fetchOne(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
}

func (r *postgresRepo) ListByOrder(ctx context.Context, orderID string) ([]domain.Payment, error) {
	return r.fetchMany(ctx, `
SELECT `+paymentColumns+` FROM payments WHERE order_id = $1 ORDER BY created_at ASC, id ASC
`, orderID)
}

func (r *postgresRepo) ListByOrders(ctx context.Context, orderIDs []string) ([]domain.Payment, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	return r.fetchMany(ctx, `
SELECT `+paymentColumns+` FROM payments WHERE order_id = ANY($1) ORDER BY created_at ASC, id ASC
`, orderIDs)
}

func (r *postgresRepo) UpdateStatusFrom(ctx context.Context, id string, from, to domain.PaymentStatus) (*domain.Payment, error) {
	p, err := r.fetchOne(ctx, `
UPDATE payments
SET status = $1, updated_at = now()
WHERE id = $2 AND status = $3
RETURNING `+paymentColumns+`
`, to, id, from)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, domain.ErrInvalidTransition
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) ForceStatus(ctx context.Context, id string, status domain.PaymentStatus) (*domain.Payment, error) {
	return r.fetchOne(ctx, `
UPDATE payments
SET status = $1, updated_at = now()
WHERE id = $2
RETURNING `+paymentColumns+`
`, status, id)
}

func (r *postgresRepo) SetMethod(ctx context.Context, id string, method domain.PaymentMethod) (*domain.Payment, error) {
	return r.fetchOne(ctx, `
UPDATE payments
SET method = $1, updated_at = now()
WHERE id = $2
RETURNING `+paymentColumns+`
`, method, id)
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) fetchOne(ctx context.Context, query string, args ...interface{}) (*domain.Payment, error) {
	var p domain.Payment
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&p.ID,
		&p.OrderID,
		&p.RestaurantID,
		&p.MenuItemIDs,
		&p.AmountCents,
		&p.Status,
		&p.Method,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) fetchMany(ctx context.Context, query string, args ...interface{}) ([]domain.Payment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(
			&p.ID,
			&p.OrderID,
			&p.RestaurantID,
			&p.MenuItemIDs,
			&p.AmountCents,
			&p.Status,
			&p.Method,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return payments, nil
}
