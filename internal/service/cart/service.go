package cart

import (
	"context"
	"errors"
	"fmt"

	"foodorder/internal/authz"
	"foodorder/internal/domain"
	cartrepo "foodorder/internal/repository/cart"
)

type Service struct {
	carts   cartRepo
	catalog catalogRepo
	guard   *authz.Guard
}

type cartRepo interface {
	Create(ctx context.Context, userID, scopeKey string) (*domain.Cart, error)
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	ListByScope(ctx context.Context, scopeKey string) ([]domain.Cart, error)
	ListAll(ctx context.Context) ([]domain.Cart, error)
	AddLine(ctx context.Context, cartID string, item domain.MenuItem, quantity int) error
	SetLineQuantity(ctx context.Context, cartID, menuItemID string, quantity int) error
	DeleteLine(ctx context.Context, cartID, menuItemID string) error
	Clear(ctx context.Context, cartID string) error
}

type catalogRepo interface {
	GetByID(ctx context.Context, id string) (*domain.MenuItem, error)
}

func New(carts cartrepo.Repository, catalog catalogRepo, guard *authz.Guard) *Service {
	return &Service{carts: carts, catalog: catalog, guard: guard}
}

// GetCarts returns the carts visible to the identity: the member's own cart,
// every cart in a manager's scope, or all carts for an admin. The result is
// always a slice, empty when nothing exists.
func (s *Service) GetCarts(ctx context.Context, id domain.Identity) ([]domain.Cart, error) {
	switch id.Role {
	case domain.RoleAdmin:
		carts, err := s.carts.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		return nonNil(carts), nil
	case domain.RoleManager:
		carts, err := s.carts.ListByScope(ctx, id.Scope)
		if err != nil {
			return nil, err
		}
		return nonNil(carts), nil
	default:
		cart, err := s.carts.GetByUser(ctx, id.UserID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return []domain.Cart{}, nil
			}
			return nil, err
		}
		return []domain.Cart{*cart}, nil
	}
}

// AddItem resolves the menu item, lazily creates a cart for the identity when
// none is visible, and appends or increments the snapshot line.
func (s *Service) AddItem(ctx context.Context, id domain.Identity, menuItemID string, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrValidation)
	}

	item, err := s.catalog.GetByID(ctx, menuItemID)
	if err != nil {
		return nil, err
	}

	cart, err := s.resolveCart(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		cart, err = s.carts.Create(ctx, id.UserID, id.Scope)
		if err != nil {
			return nil, err
		}
	}

	if err := s.guard.CanAccessCart(id, cart.UserID, cart.ScopeKey); err != nil {
		return nil, err
	}
	if err := s.carts.AddLine(ctx, cart.ID, *item, quantity); err != nil {
		return nil, err
	}
	return s.carts.GetByID(ctx, cart.ID)
}

// UpdateItem replaces the quantity of an existing line.
func (s *Service) UpdateItem(ctx context.Context, id domain.Identity, menuItemID string, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrValidation)
	}

	cart, err := s.resolveCart(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.CanAccessCart(id, cart.UserID, cart.ScopeKey); err != nil {
		return nil, err
	}
	if err := s.carts.SetLineQuantity(ctx, cart.ID, menuItemID, quantity); err != nil {
		return nil, err
	}
	return s.carts.GetByID(ctx, cart.ID)
}

// RemoveItem deletes a line from the cart.
func (s *Service) RemoveItem(ctx context.Context, id domain.Identity, menuItemID string) (*domain.Cart, error) {
	cart, err := s.resolveCart(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.CanAccessCart(id, cart.UserID, cart.ScopeKey); err != nil {
		return nil, err
	}
	if err := s.carts.DeleteLine(ctx, cart.ID, menuItemID); err != nil {
		return nil, err
	}
	return s.carts.GetByID(ctx, cart.ID)
}

// ClearCart empties the cart's lines, resetting its total to zero.
func (s *Service) ClearCart(ctx context.Context, id domain.Identity) (*domain.Cart, error) {
	cart, err := s.resolveCart(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.CanAccessCart(id, cart.UserID, cart.ScopeKey); err != nil {
		return nil, err
	}
	if err := s.carts.Clear(ctx, cart.ID); err != nil {
		return nil, err
	}
	return s.carts.GetByID(ctx, cart.ID)
}

// resolveCart picks the cart a mutating operation targets: the identity's own
// cart when it has one, otherwise the first cart in the identity's visibility
// set for elevated roles. Members with no cart get ErrNotFound.
func (s *Service) resolveCart(ctx context.Context, id domain.Identity) (*domain.Cart, error) {
	cart, err := s.carts.GetByUser(ctx, id.UserID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	var carts []domain.Cart
	switch id.Role {
	case domain.RoleAdmin:
		carts, err = s.carts.ListAll(ctx)
	case domain.RoleManager:
		carts, err = s.carts.ListByScope(ctx, id.Scope)
	default:
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(carts) == 0 {
		return nil, domain.ErrNotFound
	}
	return &carts[0], nil
}

func nonNil(carts []domain.Cart) []domain.Cart {
	if carts == nil {
		return []domain.Cart{}
	}
	return carts
}
