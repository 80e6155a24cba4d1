package menuitem

import (
	"context"
	"errors"

	"foodorder/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const columns = `id::text, restaurant_id::text, name, description, price_cents, created_at, updated_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, in CreateInput) (*domain.MenuItem, error) {
	item, err := r.fetchOne(ctx, `
INSERT INTO menu_items (restaurant_id, name, description, price_cents)
VALUES ($1, $2, $3, $4)
RETURNING `+columns+`
`, in.RestaurantID, in.Name, in.Description, in.PriceCents)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.MenuItem, error) {
	return r.fetchOne(ctx, `SELECT `+columns+` FROM menu_items WHERE id = $1`, id)
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.MenuItem, error) {
	return r.fetchMany(ctx, `SELECT `+columns+` FROM menu_items ORDER BY created_at ASC`)
}

func (r *postgresRepo) ListByRestaurant(ctx context.Context, restaurantID string) ([]domain.MenuItem, error) {
	return r.fetchMany(ctx, `
SELECT `+columns+` FROM menu_items WHERE restaurant_id = $1 ORDER BY created_at ASC
`, restaurantID)
}

func (r *postgresRepo) Update(ctx context.Context, id string, in UpdateInput) (*domain.MenuItem, error) {
	return r.fetchOne(ctx, `
UPDATE menu_items
SET name = COALESCE($1, name),
    description = COALESCE($2, description),
    price_cents = COALESCE($3, price_cents),
    updated_at = now()
WHERE id = $4
RETURNING `+columns+`
`, in.Name, in.Description, in.PriceCents, id)
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) fetchOne(ctx context.Context, query string, args ...interface{}) (*domain.MenuItem, error) {
	var item domain.MenuItem
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&item.ID,
		&item.RestaurantID,
		&item.Name,
		&item.Description,
		&item.PriceCents,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *postgresRepo) fetchMany(ctx context.Context, query string, args ...interface{}) ([]domain.MenuItem, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.MenuItem
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(
			&item.ID,
			&item.RestaurantID,
			&item.Name,
			&item.Description,
			&item.PriceCents,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
