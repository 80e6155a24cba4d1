package payment

import (
	"context"

	"foodorder/internal/domain"
)

type Repository interface {
	// CreateBatch inserts all payments for one order in a single transaction.
	// Returns domain.ErrConflict when any payment already exists for the
	// order, so partitioning the same order twice is a detected error rather
	// than silent duplication.
	CreateBatch(ctx context.Context, orderID string, payments []domain.Payment) ([]domain.Payment, error)
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	ListByOrder(ctx context.Context, orderID string) ([]domain.Payment, error)
	ListByOrders(ctx context.Context, orderIDs []string) ([]domain.Payment, error)
	// UpdateStatusFrom transitions a payment in one conditional update; used
	// by administrative updates that respect the payment state machine.
	UpdateStatusFrom(ctx context.Context, id string, from, to domain.PaymentStatus) (*domain.Payment, error)
	// ForceStatus overwrites the status unconditionally; used by order-level
	// propagation, which wins regardless of the payment's current state.
	ForceStatus(ctx context.Context, id string, status domain.PaymentStatus) (*domain.Payment, error)
	SetMethod(ctx context.Context, id string, method domain.PaymentMethod) (*domain.Payment, error)
	Delete(ctx context.Context, id string) error
}
