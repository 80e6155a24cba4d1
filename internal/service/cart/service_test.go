package cart

import (
	"context"
	"errors"
	"testing"

	"foodorder/internal/authz"
	"foodorder/internal/domain"
)

type stubRepo struct {
	createCart     *domain.Cart
	createErr      error
	byID           map[string]*domain.Cart
	byIDErr        error
	byUser         *domain.Cart
	byUserErr      error
	scopeCarts     []domain.Cart
	scopeErr       error
	allCarts       []domain.Cart
	allErr         error
	addLineErr     error
	setQuantityErr error
	deleteLineErr  error
	clearErr       error

	lastAddCartID   string
	lastAddItem     domain.MenuItem
	lastAddQty      int
	lastSetCartID   string
	lastSetItemID   string
	lastSetQty      int
	lastDeleteItem  string
	lastClearCartID string
}

func (s *stubRepo) Create(_ context.Context, _, _ string) (*domain.Cart, error) {
	return s.createCart, s.createErr
}

func (s *stubRepo) GetByID(_ context.Context, id string) (*domain.Cart, error) {
	if s.byIDErr != nil {
		return nil, s.byIDErr
	}
	if c, ok := s.byID[id]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubRepo) GetByUser(_ context.Context, _ string) (*domain.Cart, error) {
	return s.byUser, s.byUserErr
}

func (s *stubRepo) ListByScope(_ context.Context, _ string) ([]domain.Cart, error) {
	return s.scopeCarts, s.scopeErr
}

func (s *stubRepo) ListAll(_ context.Context) ([]domain.Cart, error) {
	return s.allCarts, s.allErr
}

func (s *stubRepo) AddLine(_ context.Context, cartID string, item domain.MenuItem, quantity int) error {
	s.lastAddCartID = cartID
	s.lastAddItem = item
	s.lastAddQty = quantity
	return s.addLineErr
}

func (s *stubRepo) SetLineQuantity(_ context.Context, cartID, menuItemID string, quantity int) error {
	s.lastSetCartID = cartID
	s.lastSetItemID = menuItemID
	s.lastSetQty = quantity
	return s.setQuantityErr
}

func (s *stubRepo) DeleteLine(_ context.Context, cartID, menuItemID string) error {
	s.lastDeleteItem = menuItemID
	return s.deleteLineErr
}

func (s *stubRepo) Clear(_ context.Context, cartID string) error {
	s.lastClearCartID = cartID
	return s.clearErr
}

type stubCatalog struct {
	item *domain.MenuItem
	err  error
}

func (s *stubCatalog) GetByID(_ context.Context, _ string) (*domain.MenuItem, error) {
	return s.item, s.err
}

func member(userID string) domain.Identity {
	return domain.Identity{UserID: userID, Role: domain.RoleMember, Scope: "downtown"}
}

func TestGetCartsMemberNoCart(t *testing.T) {
	svc := &Service{carts: &stubRepo{byUserErr: domain.ErrNotFound}, guard: authz.New()}
	got, err := svc.GetCarts(context.Background(), member("u1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty slice, got %#v", got)
	}
}

func TestGetCartsMemberOwnCart(t *testing.T) {
	own := &domain.Cart{ID: "c1", UserID: "u1"}
	svc := &Service{carts: &stubRepo{byUser: own}, guard: authz.New()}
	got, err := svc.GetCarts(context.Background(), member("u1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "c1" {
		t.Fatalf("unexpected carts: %+v", got)
	}
}

func TestGetCartsManagerScope(t *testing.T) {
	repo := &stubRepo{scopeCarts: []domain.Cart{{ID: "c1"}, {ID: "c2"}}}
	svc := &Service{carts: repo, guard: authz.New()}
	got, err := svc.GetCarts(context.Background(), domain.Identity{UserID: "m1", Role: domain.RoleManager, Scope: "downtown"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 carts, got %d", len(got))
	}
}

func TestGetCartsAdminAll(t *testing.T) {
	repo := &stubRepo{allCarts: []domain.Cart{{ID: "c1"}, {ID: "c2"}, {ID: "c3"}}}
	svc := &Service{carts: repo, guard: authz.New()}
	got, err := svc.GetCarts(context.Background(), domain.Identity{UserID: "a1", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 carts, got %d", len(got))
	}
}

func TestAddItemQuantityValidation(t *testing.T) {
	svc := &Service{carts: &stubRepo{}, catalog: &stubCatalog{}, guard: authz.New()}
	_, err := svc.AddItem(context.Background(), member("u1"), "i1", 0)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddItemUnknownMenuItem(t *testing.T) {
	svc := &Service{carts: &stubRepo{}, catalog: &stubCatalog{err: domain.ErrNotFound}, guard: authz.New()}
	_, err := svc.AddItem(context.Background(), member("u1"), "missing", 1)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddItemCreatesCartLazily(t *testing.T) {
	created := &domain.Cart{ID: "c1", UserID: "u1", ScopeKey: "downtown"}
	repo := &stubRepo{
		byUserErr:  domain.ErrNotFound,
		createCart: created,
		byID:       map[string]*domain.Cart{"c1": created},
	}
	item := &domain.MenuItem{ID: "i1", RestaurantID: "r1", Name: "Margherita", PriceCents: 1250}
	svc := &Service{carts: repo, catalog: &stubCatalog{item: item}, guard: authz.New()}

	got, err := svc.AddItem(context.Background(), member("u1"), "i1", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "c1" {
		t.Fatalf("unexpected cart: %+v", got)
	}
	if repo.lastAddCartID != "c1" || repo.lastAddQty != 2 || repo.lastAddItem.ID != "i1" {
		t.Fatalf("add line not called as expected: %s %d %s", repo.lastAddCartID, repo.lastAddQty, repo.lastAddItem.ID)
	}
}

func TestAddItemForeignCartForbidden(t *testing.T) {
	foreign := &domain.Cart{ID: "c2", UserID: "other", ScopeKey: "riverside"}
	repo := &stubRepo{byUser: foreign}
	item := &domain.MenuItem{ID: "i1"}
	svc := &Service{carts: repo, catalog: &stubCatalog{item: item}, guard: authz.New()}

	// GetByUser returning someone else's cart must still be rejected.
	_, err := svc.AddItem(context.Background(), domain.Identity{UserID: "u1", Role: domain.RoleMember}, "i1", 1)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestUpdateItemNoCart(t *testing.T) {
	svc := &Service{carts: &stubRepo{byUserErr: domain.ErrNotFound}, guard: authz.New()}
	_, err := svc.UpdateItem(context.Background(), member("u1"), "i1", 2)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateItemHappyPath(t *testing.T) {
	own := &domain.Cart{ID: "c1", UserID: "u1"}
	repo := &stubRepo{byUser: own, byID: map[string]*domain.Cart{"c1": own}}
	svc := &Service{carts: repo, guard: authz.New()}
	got, err := svc.UpdateItem(context.Background(), member("u1"), "i1", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "c1" {
		t.Fatalf("unexpected cart: %+v", got)
	}
	if repo.lastSetCartID != "c1" || repo.lastSetItemID != "i1" || repo.lastSetQty != 5 {
		t.Fatalf("set quantity not called as expected")
	}
}

func TestManagerMutatesScopeCart(t *testing.T) {
	scoped := domain.Cart{ID: "c9", UserID: "member1", ScopeKey: "downtown"}
	repo := &stubRepo{
		byUserErr:  domain.ErrNotFound,
		scopeCarts: []domain.Cart{scoped},
		byID:       map[string]*domain.Cart{"c9": &scoped},
	}
	svc := &Service{carts: repo, guard: authz.New()}
	got, err := svc.UpdateItem(context.Background(), domain.Identity{UserID: "m1", Role: domain.RoleManager, Scope: "downtown"}, "i1", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "c9" {
		t.Fatalf("unexpected cart: %+v", got)
	}
}

func TestRemoveItemHappyPath(t *testing.T) {
	own := &domain.Cart{ID: "c1", UserID: "u1"}
	repo := &stubRepo{byUser: own, byID: map[string]*domain.Cart{"c1": own}}
	svc := &Service{carts: repo, guard: authz.New()}
	if _, err := svc.RemoveItem(context.Background(), member("u1"), "i1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastDeleteItem != "i1" {
		t.Fatalf("delete line not called")
	}
}

func TestClearCartHappyPath(t *testing.T) {
	own := &domain.Cart{ID: "c1", UserID: "u1"}
	repo := &stubRepo{byUser: own, byID: map[string]*domain.Cart{"c1": own}}
	svc := &Service{carts: repo, guard: authz.New()}
	if _, err := svc.ClearCart(context.Background(), member("u1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastClearCartID != "c1" {
		t.Fatalf("clear not called")
	}
}

func TestClearCartRepoError(t *testing.T) {
	own := &domain.Cart{ID: "c1", UserID: "u1"}
	repo := &stubRepo{byUser: own, clearErr: errors.New("boom")}
	svc := &Service{carts: repo, guard: authz.New()}
	if _, err := svc.ClearCart(context.Background(), member("u1")); err == nil || err.Error() != "boom" {
		t.Fatalf("expected repo error, got %v", err)
	}
}
