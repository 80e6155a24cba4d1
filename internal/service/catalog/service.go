// Package catalog exposes restaurant and menu item CRUD plus the lookup the
// cart service uses to snapshot items.
package catalog

import (
	"context"
	"fmt"

	"foodorder/internal/authz"
	"foodorder/internal/domain"
	menuitemrepo "foodorder/internal/repository/menuitem"
	restaurantrepo "foodorder/internal/repository/restaurant"
)

type Service struct {
	restaurants restaurantrepo.Repository
	items       menuitemrepo.Repository
	guard       *authz.Guard
}

func New(restaurants restaurantrepo.Repository, items menuitemrepo.Repository, guard *authz.Guard) *Service {
	return &Service{restaurants: restaurants, items: items, guard: guard}
}

type RestaurantInput struct {
	Name        string
	Description string
	Location    string
}

func (s *Service) CreateRestaurant(ctx context.Context, id domain.Identity, in RestaurantInput) (*domain.Restaurant, error) {
	if err := s.guard.CanManageCatalog(id); err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name required", domain.ErrValidation)
	}
	if in.Location == "" {
		return nil, fmt.Errorf("%w: location required", domain.ErrValidation)
	}
	return s.restaurants.Create(ctx, restaurantrepo.CreateInput{
		Name:        in.Name,
		Description: in.Description,
		Location:    in.Location,
	})
}

func (s *Service) GetRestaurant(ctx context.Context, restID string) (*domain.Restaurant, error) {
	return s.restaurants.GetByID(ctx, restID)
}

func (s *Service) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	out, err := s.restaurants.List(ctx)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Restaurant{}
	}
	return out, nil
}

func (s *Service) UpdateRestaurant(ctx context.Context, id domain.Identity, restID string, in restaurantrepo.UpdateInput) (*domain.Restaurant, error) {
	if err := s.guard.CanManageCatalog(id); err != nil {
		return nil, err
	}
	return s.restaurants.Update(ctx, restID, in)
}

func (s *Service) DeleteRestaurant(ctx context.Context, id domain.Identity, restID string) error {
	if err := s.guard.CanManageCatalog(id); err != nil {
		return err
	}
	return s.restaurants.Delete(ctx, restID)
}

type MenuItemInput struct {
	RestaurantID string
	Name         string
	Description  string
	PriceCents   int64
}

func (s *Service) CreateMenuItem(ctx context.Context, id domain.Identity, in MenuItemInput) (*domain.MenuItem, error) {
	if err := s.guard.CanManageCatalog(id); err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name required", domain.ErrValidation)
	}
	if in.PriceCents < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}
	if _, err := s.restaurants.GetByID(ctx, in.RestaurantID); err != nil {
		return nil, err
	}
	return s.items.Create(ctx, menuitemrepo.CreateInput{
		RestaurantID: in.RestaurantID,
		Name:         in.Name,
		Description:  in.Description,
		PriceCents:   in.PriceCents,
	})
}

func (s *Service) GetMenuItem(ctx context.Context, itemID string) (*domain.MenuItem, error) {
	return s.items.GetByID(ctx, itemID)
}

func (s *Service) ListMenuItems(ctx context.Context, restaurantID string) ([]domain.MenuItem, error) {
	var out []domain.MenuItem
	var err error
	if restaurantID == "" {
		out, err = s.items.List(ctx)
	} else {
		out, err = s.items.ListByRestaurant(ctx, restaurantID)
	}
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.MenuItem{}
	}
	return out, nil
}

func (s *Service) UpdateMenuItem(ctx context.Context, id domain.Identity, itemID string, in menuitemrepo.UpdateInput) (*domain.MenuItem, error) {
	if err := s.guard.CanManageCatalog(id); err != nil {
		return nil, err
	}
	if in.PriceCents != nil && *in.PriceCents < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}
	return s.items.Update(ctx, itemID, in)
}

func (s *Service) DeleteMenuItem(ctx context.Context, id domain.Identity, itemID string) error {
	if err := s.guard.CanManageCatalog(id); err != nil {
		return err
	}
	return s.items.Delete(ctx, itemID)
}
