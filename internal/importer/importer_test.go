package importer

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"foodorder/internal/domain"
	menuitemrepo "foodorder/internal/repository/menuitem"
	restaurantrepo "foodorder/internal/repository/restaurant"
)

type memRestaurants struct {
	items []domain.Restaurant
}

func (m *memRestaurants) Create(_ context.Context, in restaurantrepo.CreateInput) (*domain.Restaurant, error) {
	r := domain.Restaurant{
		ID:          fmt.Sprintf("r%d", len(m.items)+1),
		Name:        in.Name,
		Description: in.Description,
		Location:    in.Location,
	}
	m.items = append(m.items, r)
	return &r, nil
}

func (m *memRestaurants) GetByID(_ context.Context, id string) (*domain.Restaurant, error) {
	for i := range m.items {
		if m.items[i].ID == id {
			return &m.items[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memRestaurants) List(_ context.Context) ([]domain.Restaurant, error) {
	return m.items, nil
}

func (m *memRestaurants) Update(_ context.Context, _ string, _ restaurantrepo.UpdateInput) (*domain.Restaurant, error) {
	return nil, domain.ErrNotFound
}

func (m *memRestaurants) Delete(_ context.Context, _ string) error { return nil }

type memItems struct {
	items   []domain.MenuItem
	updated []string
}

func (m *memItems) Create(_ context.Context, in menuitemrepo.CreateInput) (*domain.MenuItem, error) {
	item := domain.MenuItem{
		ID:           fmt.Sprintf("i%d", len(m.items)+1),
		RestaurantID: in.RestaurantID,
		Name:         in.Name,
		Description:  in.Description,
		PriceCents:   in.PriceCents,
	}
	m.items = append(m.items, item)
	return &item, nil
}

func (m *memItems) GetByID(_ context.Context, id string) (*domain.MenuItem, error) {
	for i := range m.items {
		if m.items[i].ID == id {
			return &m.items[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memItems) List(_ context.Context) ([]domain.MenuItem, error) {
	return m.items, nil
}

func (m *memItems) ListByRestaurant(_ context.Context, restaurantID string) ([]domain.MenuItem, error) {
	var out []domain.MenuItem
	for _, item := range m.items {
		if item.RestaurantID == restaurantID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *memItems) Update(_ context.Context, id string, in menuitemrepo.UpdateInput) (*domain.MenuItem, error) {
	for i := range m.items {
		if m.items[i].ID == id {
			if in.Description != nil {
				m.items[i].Description = *in.Description
			}
			if in.PriceCents != nil {
				m.items[i].PriceCents = *in.PriceCents
			}
			m.updated = append(m.updated, id)
			return &m.items[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memItems) Delete(_ context.Context, _ string) error { return nil }

func TestCSVImporter_Run(t *testing.T) {
	csvData := `restaurant.name,restaurant.description,restaurant.location,item.name,item.description,item.price_cents
Luigi's Pizzeria,Wood-fired pizza,downtown,Margherita,Tomato and mozzarella,1250
,,,Quattro Formaggi,Four cheese,1490
Spice Route,North Indian kitchen,downtown,Butter Chicken,With rice,1590`

	restaurants := &memRestaurants{}
	items := &memItems{}
	imp := NewCSVImporter(strings.NewReader(csvData), restaurants, items)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 menu items imported, got %d", count)
	}
	if len(restaurants.items) != 2 {
		t.Fatalf("expected 2 restaurants, got %d", len(restaurants.items))
	}
	if restaurants.items[0].Name != "Luigi's Pizzeria" || restaurants.items[0].Location != "downtown" {
		t.Fatalf("unexpected restaurant data: %+v", restaurants.items[0])
	}
	if items.items[0].Name != "Margherita" || items.items[0].PriceCents != 1250 {
		t.Fatalf("unexpected item data: %+v", items.items[0])
	}
	if items.items[0].RestaurantID != items.items[1].RestaurantID {
		t.Fatalf("continuation rows must attach to the current restaurant")
	}
	if items.items[2].RestaurantID == items.items[0].RestaurantID {
		t.Fatalf("third item should belong to the second restaurant")
	}
}

func TestCSVImporter_RunIsIdempotent(t *testing.T) {
	csvData := `restaurant.name,restaurant.description,restaurant.location,item.name,item.description,item.price_cents
Luigi's Pizzeria,Wood-fired pizza,downtown,Margherita,Tomato and mozzarella,1250`

	restaurants := &memRestaurants{}
	items := &memItems{}

	for i := 0; i < 2; i++ {
		imp := NewCSVImporter(strings.NewReader(csvData), restaurants, items)
		if _, err := imp.Run(context.Background()); err != nil {
			t.Fatalf("import run %d: %v", i, err)
		}
	}

	if len(restaurants.items) != 1 {
		t.Fatalf("expected 1 restaurant after rerun, got %d", len(restaurants.items))
	}
	if len(items.items) != 1 {
		t.Fatalf("expected 1 menu item after rerun, got %d", len(items.items))
	}
	if len(items.updated) != 1 {
		t.Fatalf("expected the rerun to update the existing item")
	}
}

func TestCSVImporter_ItemBeforeRestaurant(t *testing.T) {
	csvData := `restaurant.name,restaurant.description,restaurant.location,item.name,item.description,item.price_cents
,,,Orphan Item,No home,100`

	imp := NewCSVImporter(strings.NewReader(csvData), &memRestaurants{}, &memItems{})
	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatalf("expected error for orphan item row")
	}
}

func TestCSVImporter_MissingLocation(t *testing.T) {
	csvData := `restaurant.name,restaurant.description,restaurant.location,item.name,item.description,item.price_cents
No Location,,,Item,,100`

	imp := NewCSVImporter(strings.NewReader(csvData), &memRestaurants{}, &memItems{})
	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatalf("expected error for missing location")
	}
}
