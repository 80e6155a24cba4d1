package user

import (
	"context"

	"foodorder/internal/domain"
)

// UpdateInput carries optional account changes; nil fields keep the stored
// value.
type UpdateInput struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Location     *string
}

type Repository interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, id string, in UpdateInput) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
