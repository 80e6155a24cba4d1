package payment

import (
	"context"
	"fmt"

	"foodorder/internal/authz"
	"foodorder/internal/domain"
	paymentrepo "foodorder/internal/repository/payment"
)

type Service struct {
	payments paymentsRepo
	orders   ordersGetter
	guard    *authz.Guard
}

type paymentsRepo interface {
	CreateBatch(ctx context.Context, orderID string, payments []domain.Payment) ([]domain.Payment, error)
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	ListByOrder(ctx context.Context, orderID string) ([]domain.Payment, error)
	UpdateStatusFrom(ctx context.Context, id string, from, to domain.PaymentStatus) (*domain.Payment, error)
	SetMethod(ctx context.Context, id string, method domain.PaymentMethod) (*domain.Payment, error)
	Delete(ctx context.Context, id string) error
}

type ordersGetter interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
}

func New(payments paymentrepo.Repository, orders ordersGetter, guard *authz.Guard) *Service {
	return &Service{payments: payments, orders: orders, guard: guard}
}

// Partition splits the order's lines by restaurant and creates one pending
// payment per restaurant. The payment amounts sum to the order total and the
// menu-item id sets form a disjoint cover of the order's items. Partitioning
// the same order twice fails with domain.ErrConflict.
func (s *Service) Partition(ctx context.Context, order *domain.Order) ([]domain.Payment, error) {
	if len(order.Lines) == 0 {
		return nil, fmt.Errorf("order %s has no lines to partition", order.ID)
	}

	index := make(map[string]int)
	var groups []domain.Payment
	for _, line := range order.Lines {
		i, ok := index[line.RestaurantID]
		if !ok {
			i = len(groups)
			index[line.RestaurantID] = i
			groups = append(groups, domain.Payment{
				OrderID:      order.ID,
				RestaurantID: line.RestaurantID,
				Status:       domain.PaymentPending,
				Method:       domain.MethodCreditCard,
			})
		}
		groups[i].AmountCents += line.TotalCents
		if !contains(groups[i].MenuItemIDs, line.MenuItemID) {
			groups[i].MenuItemIDs = append(groups[i].MenuItemIDs, line.MenuItemID)
		}
	}

	var partitioned int64
	for _, g := range groups {
		partitioned += g.AmountCents
	}
	if partitioned != order.TotalCents {
		return nil, fmt.Errorf("payment partition invariant violated: payments sum to %d, order total is %d",
			partitioned, order.TotalCents)
	}

	return s.payments.CreateBatch(ctx, order.ID, groups)
}

// Get returns one payment; visibility follows the parent order's ownership.
func (s *Service) Get(ctx context.Context, id domain.Identity, paymentID string) (*domain.Payment, error) {
	p, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeView(ctx, id, p.OrderID); err != nil {
		return nil, err
	}
	return p, nil
}

// ListByOrder returns all payments derived from one order.
func (s *Service) ListByOrder(ctx context.Context, id domain.Identity, orderID string) ([]domain.Payment, error) {
	if err := s.authorizeView(ctx, id, orderID); err != nil {
		return nil, err
	}
	payments, err := s.payments.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if payments == nil {
		payments = []domain.Payment{}
	}
	return payments, nil
}

// UpdateStatus is the administrative override for a single payment. It
// respects the payment state machine: only pending payments may transition.
func (s *Service) UpdateStatus(ctx context.Context, id domain.Identity, paymentID string, status domain.PaymentStatus) (*domain.Payment, error) {
	if err := s.guard.CanAdministerPayments(id); err != nil {
		return nil, err
	}
	if !status.Valid() || status == domain.PaymentPending {
		return nil, domain.ErrInvalidTransition
	}
	return s.payments.UpdateStatusFrom(ctx, paymentID, domain.PaymentPending, status)
}

// UpdateMethod changes how a payment will be settled.
func (s *Service) UpdateMethod(ctx context.Context, id domain.Identity, paymentID string, method domain.PaymentMethod) (*domain.Payment, error) {
	if err := s.guard.CanAdministerPayments(id); err != nil {
		return nil, err
	}
	if !method.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", domain.ErrValidation, method)
	}
	return s.payments.SetMethod(ctx, paymentID, method)
}

// Delete removes a payment record; explicit administrative action only.
func (s *Service) Delete(ctx context.Context, id domain.Identity, paymentID string) error {
	if err := s.guard.CanAdministerPayments(id); err != nil {
		return err
	}
	return s.payments.Delete(ctx, paymentID)
}

func (s *Service) authorizeView(ctx context.Context, id domain.Identity, orderID string) error {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	return s.guard.CanViewPayment(id, order.UserID)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
