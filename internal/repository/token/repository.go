package token

import (
	"context"
	"time"
)

type Token struct {
	Token     string
	UserID    string
	Kind      string
	ExpiresAt time.Time
	CreatedAt time.Time
}

type Repository interface {
	Create(ctx context.Context, token Token) error
	Get(ctx context.Context, token string) (*Token, error)
	Delete(ctx context.Context, token string) error
	// DeleteByUser removes every token issued to the user. Deleting zero
	// rows is not an error.
	DeleteByUser(ctx context.Context, userID string) error
}
