package order

import (
	"context"
	"log"
	"strings"

	"foodorder/internal/authz"
	"foodorder/internal/domain"
	orderrepo "foodorder/internal/repository/order"
	"github.com/google/uuid"
)

type Service struct {
	orders   ordersRepo
	carts    cartsGetter
	payments paymentsRepo
	guard    *authz.Guard
	events   EventPublisher
	logger   *log.Logger
}

type ordersRepo interface {
	Materialize(ctx context.Context, in orderrepo.MaterializeInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) (*domain.Order, error)
}

type cartsGetter interface {
	GetCarts(ctx context.Context, id domain.Identity) ([]domain.Cart, error)
}

type paymentsRepo interface {
	ListByOrder(ctx context.Context, orderID string) ([]domain.Payment, error)
	ListByOrders(ctx context.Context, orderIDs []string) ([]domain.Payment, error)
	ForceStatus(ctx context.Context, id string, status domain.PaymentStatus) (*domain.Payment, error)
}

// EventPublisher emits order lifecycle notifications. A nil publisher
// disables eventing; publish failures never fail the request.
type EventPublisher interface {
	OrderCreated(ctx context.Context, order domain.Order) error
	OrderStatusChanged(ctx context.Context, order domain.Order) error
}

func New(orders orderrepo.Repository, carts cartsGetter, payments paymentsRepo, guard *authz.Guard, events EventPublisher, logger *log.Logger) *Service {
	return &Service{
		orders:   orders,
		carts:    carts,
		payments: payments,
		guard:    guard,
		events:   events,
		logger:   logger,
	}
}

// PropagationFailure records a payment that could not follow an order-level
// status change. The order change itself has already been applied.
type PropagationFailure struct {
	PaymentID string `json:"paymentId"`
	Reason    string `json:"reason"`
}

// StatusResult is what a status transition returns: the updated order, the
// payments that followed it, and the ones that did not.
type StatusResult struct {
	Order    *domain.Order        `json:"order"`
	Payments []domain.Payment     `json:"payments"`
	Failures []PropagationFailure `json:"failures,omitempty"`
}

// Create folds every cart visible to the identity into one immutable pending
// order and deletes the source carts atomically. Payment partitioning is the
// caller's next step.
func (s *Service) Create(ctx context.Context, id domain.Identity) (*domain.Order, error) {
	carts, err := s.carts.GetCarts(ctx, id)
	if err != nil {
		return nil, err
	}

	// Only carts with lines are consumed; an empty cart contributes nothing
	// and must survive the materialization.
	var cartIDs []string
	var total int64
	for _, c := range carts {
		if len(c.Lines) == 0 {
			continue
		}
		cartIDs = append(cartIDs, c.ID)
		total += c.TotalCents
	}
	if len(cartIDs) == 0 {
		return nil, domain.ErrEmptyCart
	}

	order, err := s.orders.Materialize(ctx, orderrepo.MaterializeInput{
		UserID:             id.UserID,
		Number:             newOrderNumber(),
		CartIDs:            cartIDs,
		ExpectedTotalCents: total,
	})
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		if err := s.events.OrderCreated(ctx, *order); err != nil {
			s.logger.Printf("publish order created %s: %v", order.ID, err)
		}
	}
	return order, nil
}

// Get returns a single order after the ownership check.
func (s *Service) Get(ctx context.Context, id domain.Identity, orderID string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.CanAccessOrder(id, order.UserID); err != nil {
		return nil, err
	}
	return order, nil
}

// List returns the identity's own orders together with their payments.
func (s *Service) List(ctx context.Context, id domain.Identity) ([]domain.Order, []domain.Payment, error) {
	orders, err := s.orders.ListByUser(ctx, id.UserID)
	if err != nil {
		return nil, nil, err
	}
	orderIDs := make([]string, 0, len(orders))
	for _, o := range orders {
		orderIDs = append(orderIDs, o.ID)
	}
	payments, err := s.payments.ListByOrders(ctx, orderIDs)
	if err != nil {
		return nil, nil, err
	}
	return orders, payments, nil
}

// UpdateStatus drives the order state machine and propagates the transition
// onto the order's payments. Per-payment propagation failures are collected
// in the result; the order update stands regardless.
func (s *Service) UpdateStatus(ctx context.Context, id domain.Identity, orderID string, next domain.OrderStatus) (*StatusResult, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.CanAccessOrder(id, order.UserID); err != nil {
		return nil, err
	}
	if !next.Valid() || !order.Status.CanTransitionTo(next) {
		return nil, domain.ErrInvalidTransition
	}

	updated, err := s.orders.UpdateStatus(ctx, orderID, order.Status, next)
	if err != nil {
		return nil, err
	}

	result := &StatusResult{Order: updated, Payments: []domain.Payment{}}
	s.propagate(ctx, result, next)

	if s.events != nil {
		if err := s.events.OrderStatusChanged(ctx, *updated); err != nil {
			s.logger.Printf("publish order status %s: %v", updated.ID, err)
		}
	}
	return result, nil
}

// Cancel transitions a pending order to cancelled. A completed order cannot
// be cancelled.
func (s *Service) Cancel(ctx context.Context, id domain.Identity, orderID string) (*StatusResult, error) {
	return s.UpdateStatus(ctx, id, orderID, domain.OrderCancelled)
}

func (s *Service) propagate(ctx context.Context, result *StatusResult, next domain.OrderStatus) {
	target := domain.PaymentCancelled
	if next == domain.OrderCompleted {
		target = domain.PaymentCompleted
	}

	payments, err := s.payments.ListByOrder(ctx, result.Order.ID)
	if err != nil {
		result.Failures = append(result.Failures, PropagationFailure{Reason: "list payments: " + err.Error()})
		return
	}
	for _, p := range payments {
		updated, err := s.payments.ForceStatus(ctx, p.ID, target)
		if err != nil {
			s.logger.Printf("propagate %s to payment %s: %v", target, p.ID, err)
			result.Failures = append(result.Failures, PropagationFailure{PaymentID: p.ID, Reason: err.Error()})
			continue
		}
		result.Payments = append(result.Payments, *updated)
	}
}

func newOrderNumber() string {
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}
