package restaurant

import (
	"context"
	"errors"

	"foodorder/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const columns = `id::text, name, description, location, created_at, updated_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, in CreateInput) (*domain.Restaurant, error) {
	return r.fetchOne(ctx, `
INSERT INTO restaurants (name, description, location)
VALUES ($1, $2, $3)
RETURNING `+columns+`
`, in.Name, in.Description, in.Location)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Restaurant, error) {
	return r.fetchOne(ctx, `SELECT `+columns+` FROM restaurants WHERE id = $1`, id)
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Restaurant, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM restaurants ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Restaurant
	for rows.Next() {
		var rest domain.Restaurant
		if err := rows.Scan(
			&rest.ID,
			&rest.Name,
			&rest.Description,
			&rest.Location,
			&rest.CreatedAt,
			&rest.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rest)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) Update(ctx context.Context, id string, in UpdateInput) (*domain.Restaurant, error) {
	return r.fetchOne(ctx, `
UPDATE restaurants
SET name = COALESCE($1, name),
    description = COALESCE($2, description),
    location = COALESCE($3, location),
    updated_at = now()
WHERE id = $4
RETURNING `+columns+`
`, in.Name, in.Description, in.Location, id)
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM restaurants WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) fetchOne(ctx context.Context, query string, args ...interface{}) (*domain.Restaurant, error) {
	var rest domain.Restaurant
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&rest.ID,
		&rest.Name,
		&rest.Description,
		&rest.Location,
		&rest.CreatedAt,
		&rest.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &rest, nil
}
