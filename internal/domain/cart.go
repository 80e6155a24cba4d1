package domain

import "time"

// Cart is the mutable pre-order collection of line items owned by one user.
// ScopeKey partitions cart visibility for elevated roles (see authz).
type Cart struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	ScopeKey   string     `json:"scopeKey"`
	TotalCents int64      `json:"totalCents"`
	Lines      []CartLine `json:"lines"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// CartLine carries a value snapshot of the menu item taken when the line was
// written. Later catalog changes never alter the line.
type CartLine struct {
	ID             string    `json:"id"`
	CartID         string    `json:"cartId"`
	MenuItemID     string    `json:"menuItemId"`
	RestaurantID   string    `json:"restaurantId"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	Quantity       int       `json:"quantity"`
	TotalCents     int64     `json:"totalCents"`
	ItemCreatedAt  time.Time `json:"itemCreatedAt"`
	ItemUpdatedAt  time.Time `json:"itemUpdatedAt"`
	CreatedAt      time.Time `json:"createdAt"`
}

// SumLines returns the sum of line totals, which must always equal TotalCents.
func (c Cart) SumLines() int64 {
	var sum int64
	for _, l := range c.Lines {
		sum += l.TotalCents
	}
	return sum
}
