package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"foodorder/internal/domain"
	menuitemrepo "foodorder/internal/repository/menuitem"
	restaurantrepo "foodorder/internal/repository/restaurant"
)

// CSVImporter reads menu CSV exports and inserts/updates restaurants with
// their menu items. The format groups rows: a row with a restaurant name
// starts a new restaurant, following rows with a blank restaurant column are
// its menu items.
type CSVImporter struct {
	reader      *csv.Reader
	restaurants restaurantrepo.Repository
	items       menuitemrepo.Repository
}

func NewCSVImporter(r io.Reader, restaurants restaurantrepo.Repository, items menuitemrepo.Repository) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		restaurants: restaurants,
		items:       items,
	}
}

type restaurantRow struct {
	Name        string
	Description string
	Location    string
	Items       []itemRow
}

type itemRow struct {
	Name        string
	Description string
	PriceCents  int64
}

// Run parses CSV rows and upserts restaurants with their menu items. It
// returns the number of menu items written.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	var (
		current  *restaurantRow
		imported int
	)

	flush := func() error {
		if current == nil {
			return nil
		}
		n, err := i.save(ctx, current)
		imported += n
		current = nil
		return err
	}

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		restName := pick(record, index, "restaurant.name")
		if restName != "" {
			if err := flush(); err != nil {
				return imported, err
			}
			current = &restaurantRow{
				Name:        restName,
				Description: pick(record, index, "restaurant.description"),
				Location:    pick(record, index, "restaurant.location"),
			}
		}

		item := parseItem(record, index)
		if item == nil {
			continue
		}
		if current == nil {
			return imported, fmt.Errorf("menu item %q appears before any restaurant row", item.Name)
		}
		current.Items = append(current.Items, *item)
	}

	if err := flush(); err != nil {
		return imported, err
	}
	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *restaurantRow) (int, error) {
	if row.Location == "" {
		return 0, fmt.Errorf("restaurant %q has no location", row.Name)
	}

	restaurantID, err := i.ensureRestaurant(ctx, row)
	if err != nil {
		return 0, fmt.Errorf("ensure restaurant %q: %w", row.Name, err)
	}

	existing, err := i.items.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return 0, fmt.Errorf("list menu items for %q: %w", row.Name, err)
	}
	byName := make(map[string]domain.MenuItem, len(existing))
	for _, item := range existing {
		byName[item.Name] = item
	}

	written := 0
	for _, item := range row.Items {
		if prev, ok := byName[item.Name]; ok {
			_, err = i.items.Update(ctx, prev.ID, menuitemrepo.UpdateInput{
				Description: &item.Description,
				PriceCents:  &item.PriceCents,
			})
		} else {
			_, err = i.items.Create(ctx, menuitemrepo.CreateInput{
				RestaurantID: restaurantID,
				Name:         item.Name,
				Description:  item.Description,
				PriceCents:   item.PriceCents,
			})
		}
		if err != nil {
			return written, fmt.Errorf("write menu item %q: %w", item.Name, err)
		}
		written++
	}
	return written, nil
}

func (i *CSVImporter) ensureRestaurant(ctx context.Context, row *restaurantRow) (string, error) {
	all, err := i.restaurants.List(ctx)
	if err != nil {
		return "", err
	}
	for _, r := range all {
		if r.Name == row.Name {
			return r.ID, nil
		}
	}
	created, err := i.restaurants.Create(ctx, restaurantrepo.CreateInput{
		Name:        row.Name,
		Description: row.Description,
		Location:    row.Location,
	})
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

func parseItem(record []string, index map[string]int) *itemRow {
	name := pick(record, index, "item.name")
	if name == "" {
		return nil
	}
	var cents int64
	if centStr := pick(record, index, "item.price_cents"); centStr != "" {
		cents, _ = strconv.ParseInt(centStr, 10, 64)
	}
	return &itemRow{
		Name:        name,
		Description: pick(record, index, "item.description"),
		PriceCents:  cents,
	}
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[h] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
