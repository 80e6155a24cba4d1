package domain

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// CanTransitionTo implements the order state machine: pending may move to
// completed or cancelled, both terminal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s != OrderPending {
		return false
	}
	return next == OrderCompleted || next == OrderCancelled
}

// Order is an immutable snapshot of line items folded in from one or more
// carts. Lines are value copies; only Status ever changes after creation.
type Order struct {
	ID         string      `json:"id"`
	Number     string      `json:"number"`
	UserID     string      `json:"userId"`
	Status     OrderStatus `json:"status"`
	TotalCents int64       `json:"totalCents"`
	Lines      []OrderLine `json:"lines"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

type OrderLine struct {
	ID             string    `json:"id"`
	OrderID        string    `json:"orderId"`
	MenuItemID     string    `json:"menuItemId"`
	RestaurantID   string    `json:"restaurantId"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	Quantity       int       `json:"quantity"`
	TotalCents     int64     `json:"totalCents"`
	CreatedAt      time.Time `json:"createdAt"`
}

// SumLines returns the sum of line totals, which must equal TotalCents.
func (o Order) SumLines() int64 {
	var sum int64
	for _, l := range o.Lines {
		sum += l.TotalCents
	}
	return sum
}
