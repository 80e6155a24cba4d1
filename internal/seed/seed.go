package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type menuItemSeed struct {
	Name        string
	Description string
	PriceCents  int64
}

type restaurantSeed struct {
	Name        string
	Description string
	Location    string
	Items       []menuItemSeed
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	if err := ensureUser(ctx, pool, "Admin", "admin@example.com", "Admin1234", "admin", "downtown"); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	if err := ensureUser(ctx, pool, "Downtown Manager", "manager@example.com", "Manager1234", "manager", "downtown"); err != nil {
		return fmt.Errorf("ensure manager: %w", err)
	}
	if err := ensureUser(ctx, pool, "Demo Member", "member@example.com", "Member1234", "member", "downtown"); err != nil {
		return fmt.Errorf("ensure member: %w", err)
	}

	restaurants := []restaurantSeed{
		{
			Name:        "Luigi's Pizzeria",
			Description: "Wood-fired pizza and pasta",
			Location:    "downtown",
			Items: []menuItemSeed{
				{Name: "Margherita", Description: "Tomato, mozzarella, basil", PriceCents: 1250},
				{Name: "Quattro Formaggi", Description: "Four cheese pizza", PriceCents: 1490},
				{Name: "Spaghetti Carbonara", Description: "Guanciale and pecorino", PriceCents: 1350},
			},
		},
		{
			Name:        "Spice Route",
			Description: "North Indian kitchen",
			Location:    "downtown",
			Items: []menuItemSeed{
				{Name: "Butter Chicken", Description: "With basmati rice", PriceCents: 1590},
				{Name: "Garlic Naan", Description: "", PriceCents: 350},
			},
		},
		{
			Name:        "Sushi Kado",
			Description: "Omakase counter and takeaway rolls",
			Location:    "riverside",
			Items: []menuItemSeed{
				{Name: "Salmon Nigiri Set", Description: "Eight pieces", PriceCents: 2200},
				{Name: "California Roll", Description: "", PriceCents: 980},
			},
		},
	}

	for _, r := range restaurants {
		if err := upsertRestaurant(ctx, pool, r); err != nil {
			return fmt.Errorf("upsert restaurant %s: %w", r.Name, err)
		}
	}

	return nil
}

func ensureUser(ctx context.Context, pool *pgxpool.Pool, name, email, password, role, location string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO users (name, email, password_hash, role, location)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (email) DO UPDATE
SET name = EXCLUDED.name,
    role = EXCLUDED.role,
    location = EXCLUDED.location
`
	_, err = pool.Exec(ctx, q, name, email, string(hashed), role, location)
	return err
}

func upsertRestaurant(ctx context.Context, pool *pgxpool.Pool, r restaurantSeed) error {
	const insert = `
INSERT INTO restaurants (name, description, location)
SELECT $1, $2, $3
WHERE NOT EXISTS (SELECT 1 FROM restaurants WHERE name = $1)
`
	if _, err := pool.Exec(ctx, insert, r.Name, r.Description, r.Location); err != nil {
		return err
	}

	var restaurantID string
	if err := pool.QueryRow(ctx, `SELECT id::text FROM restaurants WHERE name = $1`, r.Name).Scan(&restaurantID); err != nil {
		return err
	}

	for _, item := range r.Items {
		const q = `
INSERT INTO menu_items (restaurant_id, name, description, price_cents)
SELECT $1, $2, $3, $4
WHERE NOT EXISTS (SELECT 1 FROM menu_items WHERE restaurant_id = $1 AND name = $2)
`
		if _, err := pool.Exec(ctx, q, restaurantID, item.Name, item.Description, item.PriceCents); err != nil {
			return err
		}
	}
	return nil
}
