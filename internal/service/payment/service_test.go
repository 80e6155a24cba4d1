package payment

import (
	"context"
	"testing"

	"foodorder/internal/authz"
	"foodorder/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPayments struct {
	created       []domain.Payment
	createErr     error
	lastCreateFor string
	byID          *domain.Payment
	byIDErr       error
	listed        []domain.Payment
	updated       *domain.Payment
	updateErr     error
	lastFrom      domain.PaymentStatus
	lastTo        domain.PaymentStatus
	lastMethod    domain.PaymentMethod
	deleted       []string
}

func (s *stubPayments) CreateBatch(_ context.Context, orderID string, payments []domain.Payment) ([]domain.Payment, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.lastCreateFor = orderID
	s.created = payments
	return payments, nil
}

func (s *stubPayments) GetByID(_ context.Context, _ string) (*domain.Payment, error) {
	return s.byID, s.byIDErr
}

func (s *stubPayments) ListByOrder(_ context.Context, _ string) ([]domain.Payment, error) {
	return s.listed, nil
}

func (s *stubPayments) UpdateStatusFrom(_ context.Context, _ string, from, to domain.PaymentStatus) (*domain.Payment, error) {
	s.lastFrom = from
	s.lastTo = to
	return s.updated, s.updateErr
}

func (s *stubPayments) SetMethod(_ context.Context, _ string, method domain.PaymentMethod) (*domain.Payment, error) {
	s.lastMethod = method
	return s.updated, s.updateErr
}

func (s *stubPayments) Delete(_ context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

type stubOrders struct {
	order *domain.Order
	err   error
}

func (s *stubOrders) GetByID(_ context.Context, _ string) (*domain.Order, error) {
	return s.order, s.err
}

func newService(payments *stubPayments, orders *stubOrders) *Service {
	return &Service{payments: payments, orders: orders, guard: authz.New()}
}

func admin() domain.Identity {
	return domain.Identity{UserID: "a1", Role: domain.RoleAdmin}
}

func multiRestaurantOrder() *domain.Order {
	return &domain.Order{
		ID:         "o1",
		UserID:     "u1",
		TotalCents: 5080,
		Lines: []domain.OrderLine{
			{MenuItemID: "i1", RestaurantID: "r1", TotalCents: 2500},
			{MenuItemID: "i2", RestaurantID: "r2", TotalCents: 980},
			{MenuItemID: "i3", RestaurantID: "r1", TotalCents: 1250},
			{MenuItemID: "i1", RestaurantID: "r1", TotalCents: 350},
		},
	}
}

func TestPartitionGroupsByRestaurant(t *testing.T) {
	payments := &stubPayments{}
	svc := newService(payments, &stubOrders{})

	got, err := svc.Partition(context.Background(), multiRestaurantOrder())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "o1", payments.lastCreateFor)

	// First-seen restaurant order is preserved.
	assert.Equal(t, "r1", got[0].RestaurantID)
	assert.Equal(t, "r2", got[1].RestaurantID)

	assert.Equal(t, int64(4100), got[0].AmountCents)
	assert.Equal(t, int64(980), got[1].AmountCents)

	// Item id sets are deduplicated and disjoint.
	assert.Equal(t, []string{"i1", "i3"}, got[0].MenuItemIDs)
	assert.Equal(t, []string{"i2"}, got[1].MenuItemIDs)

	for _, p := range got {
		assert.Equal(t, domain.PaymentPending, p.Status)
		assert.Equal(t, domain.MethodCreditCard, p.Method)
	}
}

func TestPartitionAmountsSumToOrderTotal(t *testing.T) {
	order := multiRestaurantOrder()
	svc := newService(&stubPayments{}, &stubOrders{})

	got, err := svc.Partition(context.Background(), order)
	require.NoError(t, err)

	var sum int64
	for _, p := range got {
		sum += p.AmountCents
	}
	assert.Equal(t, order.TotalCents, sum)
}

func TestPartitionTotalMismatch(t *testing.T) {
	order := multiRestaurantOrder()
	order.TotalCents = 9999
	svc := newService(&stubPayments{}, &stubOrders{})

	_, err := svc.Partition(context.Background(), order)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invariant")
}

func TestPartitionEmptyOrder(t *testing.T) {
	svc := newService(&stubPayments{}, &stubOrders{})
	_, err := svc.Partition(context.Background(), &domain.Order{ID: "o1"})
	assert.Error(t, err)
}

func TestPartitionTwiceConflicts(t *testing.T) {
	payments := &stubPayments{createErr: domain.ErrConflict}
	svc := newService(payments, &stubOrders{})

	_, err := svc.Partition(context.Background(), multiRestaurantOrder())
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestGetFollowsOrderOwnership(t *testing.T) {
	payments := &stubPayments{byID: &domain.Payment{ID: "p1", OrderID: "o1"}}
	orders := &stubOrders{order: &domain.Order{ID: "o1", UserID: "owner"}}
	svc := newService(payments, orders)

	_, err := svc.Get(context.Background(), domain.Identity{UserID: "intruder", Role: domain.RoleMember}, "p1")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := svc.Get(context.Background(), domain.Identity{UserID: "owner", Role: domain.RoleMember}, "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", got.ID)
}

func TestListByOrderAlwaysSlice(t *testing.T) {
	orders := &stubOrders{order: &domain.Order{ID: "o1", UserID: "u1"}}
	svc := newService(&stubPayments{}, orders)

	got, err := svc.ListByOrder(context.Background(), domain.Identity{UserID: "u1", Role: domain.RoleMember}, "o1")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestUpdateStatusAdminOnly(t *testing.T) {
	svc := newService(&stubPayments{}, &stubOrders{})
	_, err := svc.UpdateStatus(context.Background(), domain.Identity{UserID: "u1", Role: domain.RoleMember}, "p1", domain.PaymentCompleted)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdateStatusRejectsPendingTarget(t *testing.T) {
	svc := newService(&stubPayments{}, &stubOrders{})
	_, err := svc.UpdateStatus(context.Background(), admin(), "p1", domain.PaymentPending)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = svc.UpdateStatus(context.Background(), admin(), "p1", "wired")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestUpdateStatusOnlyFromPending(t *testing.T) {
	payments := &stubPayments{updated: &domain.Payment{ID: "p1", Status: domain.PaymentCompleted}}
	svc := newService(payments, &stubOrders{})

	got, err := svc.UpdateStatus(context.Background(), admin(), "p1", domain.PaymentCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, got.Status)
	assert.Equal(t, domain.PaymentPending, payments.lastFrom)
	assert.Equal(t, domain.PaymentCompleted, payments.lastTo)
}

func TestUpdateStatusConflictFromRepo(t *testing.T) {
	payments := &stubPayments{updateErr: domain.ErrInvalidTransition}
	svc := newService(payments, &stubOrders{})

	_, err := svc.UpdateStatus(context.Background(), admin(), "p1", domain.PaymentFailed)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestUpdateMethodValidation(t *testing.T) {
	svc := newService(&stubPayments{}, &stubOrders{})
	_, err := svc.UpdateMethod(context.Background(), admin(), "p1", "bitcoin")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateMethodHappyPath(t *testing.T) {
	payments := &stubPayments{updated: &domain.Payment{ID: "p1", Method: domain.MethodUPI}}
	svc := newService(payments, &stubOrders{})

	got, err := svc.UpdateMethod(context.Background(), admin(), "p1", domain.MethodUPI)
	require.NoError(t, err)
	assert.Equal(t, domain.MethodUPI, got.Method)
	assert.Equal(t, domain.MethodUPI, payments.lastMethod)
}

func TestDeleteAdminOnly(t *testing.T) {
	payments := &stubPayments{}
	svc := newService(payments, &stubOrders{})

	err := svc.Delete(context.Background(), domain.Identity{UserID: "u1", Role: domain.RoleMember}, "p1")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = svc.Delete(context.Background(), admin(), "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, payments.deleted)
}

func TestContains(t *testing.T) {
	assert.True(t, contains([]string{"a", "b"}, "b"))
	assert.False(t, contains([]string{"a", "b"}, "c"))
	assert.False(t, contains(nil, "a"))
}
