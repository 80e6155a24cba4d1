package order

import (
	"context"

	"foodorder/internal/domain"
)

// MaterializeInput names the source carts to fold into one order.
// ExpectedTotalCents is the sum of the cart totals observed by the caller;
// the repository re-reads the lines under lock and refuses to create an
// order whose copied line totals disagree with it.
type MaterializeInput struct {
	UserID             string
	Number             string
	CartIDs            []string
	ExpectedTotalCents int64
}

type Repository interface {
	// Materialize creates the order from the given carts and deletes them in
	// a single transaction. Returns domain.ErrEmptyCart when the carts hold
	// no lines by the time they are locked.
	Materialize(ctx context.Context, in MaterializeInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	// UpdateStatus transitions the order from one status to another in a
	// single conditional update. Returns domain.ErrInvalidTransition when the
	// order is no longer in the expected status, domain.ErrNotFound when it
	// does not exist.
	UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) (*domain.Order, error)
}
