package restaurant

import (
	"context"

	"foodorder/internal/domain"
)

type CreateInput struct {
	Name        string
	Description string
	Location    string
}

type UpdateInput struct {
	Name        *string
	Description *string
	Location    *string
}

type Repository interface {
	Create(ctx context.Context, in CreateInput) (*domain.Restaurant, error)
	GetByID(ctx context.Context, id string) (*domain.Restaurant, error)
	List(ctx context.Context) ([]domain.Restaurant, error)
	Update(ctx context.Context, id string, in UpdateInput) (*domain.Restaurant, error)
	Delete(ctx context.Context, id string) error
}
