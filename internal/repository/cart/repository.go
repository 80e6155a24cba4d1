package cart

import (
	"context"

	"foodorder/internal/domain"
)

type Repository interface {
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
