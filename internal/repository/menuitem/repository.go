package menuitem

import (
	"context"

	"foodorder/internal/domain"
)

type CreateInput struct {
	RestaurantID string
	Name         string
	Description  string
	PriceCents   int64
}

type UpdateInput struct {
	Name        *string
	Description *string
	PriceCents  *int64
}

type Repository interface {
	Create(ctx context.Context, in CreateInput) (*domain.MenuItem, error)
	GetByID(ctx context.Context, id string) (*domain.MenuItem, error)
	List(ctx context.Context) ([]domain.MenuItem, error)
	ListByRestaurant(ctx context.Context, restaurantID string) ([]domain.MenuItem, error)
	Update(ctx context.Context, id string, in UpdateInput) (*domain.MenuItem, error)
	Delete(ctx context.Context, id string) error
}
