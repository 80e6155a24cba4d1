package cart

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"foodorder/internal/domain"
	"foodorder/internal/migrate"
	"github.com/jackc/pgx/v5/pgxpool"
)

func TestPostgres_TotalTracksLines(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	userID := insertUser(ctx, t, pool, "shopper@example.com")
	repo := NewPostgres(pool)

	cart, err := repo.Create(ctx, userID, "downtown")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	assertStoredTotal(ctx, t, pool, cart.ID, 0)

	margherita := testItem("00000000-0000-0000-0000-000000000001", "Margherita", 1250)
	butterChicken := testItem("00000000-0000-0000-0000-000000000002", "Butter Chicken", 1590)

	if err := repo.AddLine(ctx, cart.ID, margherita, 2); err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	assertStoredTotal(ctx, t, pool, cart.ID, 2500)

	// Adding the same item again merges into the existing line.
	if err := repo.AddLine(ctx, cart.ID, margherita, 1); err != nil {
		t.Fatalf("AddLine again: %v", err)
	}
	assertStoredTotal(ctx, t, pool, cart.ID, 3750)

	got, err := repo.GetByID(ctx, cart.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.Lines) != 1 {
		t.Fatalf("expected merged line, got %d lines", len(got.Lines))
	}
	if got.Lines[0].Quantity != 3 || got.Lines[0].TotalCents != 3750 {
		t.Fatalf("unexpected merged line %+v", got.Lines[0])
	}

	if err := repo.AddLine(ctx, cart.ID, butterChicken, 1); err != nil {
		t.Fatalf("AddLine second item: %v", err)
	}
	assertStoredTotal(ctx, t, pool, cart.ID, 5340)

	if err := repo.SetLineQuantity(ctx, cart.ID, margherita.ID, 1); err != nil {
		t.Fatalf("SetLineQuantity: %v", err)
	}
	assertStoredTotal(ctx, t, pool, cart.ID, 2840)

	if err := repo.DeleteLine(ctx, cart.ID, butterChicken.ID); err != nil {
		t.Fatalf("DeleteLine: %v", err)
	}
	assertStoredTotal(ctx, t, pool, cart.ID, 1250)

	if err := repo.Clear(ctx, cart.ID); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	assertStoredTotal(ctx, t, pool, cart.ID, 0)
}

func TestPostgres_LineMutationsOnMissingItem(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	userID := insertUser(ctx, t, pool, "shopper2@example.com")
	repo := NewPostgres(pool)

	cart, err := repo.Create(ctx, userID, "downtown")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	missing := "00000000-0000-0000-0000-0000000000ff"
	if err := repo.SetLineQuantity(ctx, cart.ID, missing, 2); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := repo.DeleteLine(ctx, cart.ID, missing); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	assertStoredTotal(ctx, t, pool, cart.ID, 0)
}

func testItem(id, name string, priceCents int64) domain.MenuItem {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return domain.MenuItem{
		ID:           id,
		RestaurantID: "00000000-0000-0000-0000-00000000000a",
		Name:         name,
		PriceCents:   priceCents,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// assertStoredTotal checks both the denormalized cart total and that it
// matches the sum of the stored line totals.
func assertStoredTotal(ctx context.Context, t *testing.T, pool *pgxpool.Pool, cartID string, want int64) {
	t.Helper()
	var stored, summed int64
	if err := pool.QueryRow(ctx, `
SELECT c.total_cents, COALESCE((SELECT SUM(total_cents) FROM cart_lines WHERE cart_id = c.id), 0)
FROM carts c
WHERE c.id = $1
`, cartID).Scan(&stored, &summed); err != nil {
		t.Fatalf("read cart total: %v", err)
	}
	if stored != want {
		t.Fatalf("stored total = %d, want %d", stored, want)
	}
	if stored != summed {
		t.Fatalf("stored total %d does not match line sum %d", stored, summed)
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `
TRUNCATE payments, order_lines, orders, cart_lines, carts, tokens, users RESTART IDENTITY CASCADE
`); err != nil {
		t.Fatalf("reset tables: %v", err)
	}
}

func insertUser(ctx context.Context, t *testing.T, pool *pgxpool.Pool, email string) string {
	t.Helper()
	var id string
	if err := pool.QueryRow(ctx, `
INSERT INTO users (name, email, password_hash, role, location)
VALUES ('Test Shopper', $1, 'x', 'member', 'downtown')
RETURNING id::text
`, email).Scan(&id); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return id
}
