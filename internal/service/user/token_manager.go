package user

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"foodorder/internal/domain"
	tokenrepo "foodorder/internal/repository/token"
)

type tokenMeta struct {
	UserID    string
	Kind      string
	ExpiresAt time.Time
}

type tokenManager struct {
	repo tokenrepo.Repository
}

func newTokenManager(repo tokenrepo.Repository) *tokenManager {
	return &tokenManager{repo: repo}
}

func (m *tokenManager) Issue(ctx context.Context, userID, kind string, ttl time.Duration) (string, error) {
	expiresAt := time.Now().Add(ttl)
	for i := 0; i < 5; i++ {
		token, err := randomToken()
		if err != nil {
			return "", err
		}
		err = m.repo.Create(ctx, tokenrepo.Token{
			Token:     token,
			UserID:    userID,
			Kind:      kind,
			ExpiresAt: expiresAt,
		})
		if err == nil {
			return token, nil
		}
		if !errors.Is(err, domain.ErrAlreadyExists) {
			return "", err
		}
	}
	return "", errors.New("could not issue unique token")
}

func (m *tokenManager) Validate(ctx context.Context, token string) (tokenMeta, bool) {
	rec, err := m.repo.Get(ctx, token)
	if err != nil {
		return tokenMeta{}, false
	}
	if time.Now().After(rec.ExpiresAt) {
		// Best effort cleanup; the token is invalid either way.
		_ = m.repo.Delete(ctx, token)
		return tokenMeta{}, false
	}
	return tokenMeta{
		UserID:    rec.UserID,
		Kind:      rec.Kind,
		ExpiresAt: rec.ExpiresAt,
	}, true
}

// Revoke discards a single token. A token that is already gone counts as
// revoked.
func (m *tokenManager) Revoke(ctx context.Context, token string) error {
	err := m.repo.Delete(ctx, token)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

// RevokeAll discards every token issued to the user.
func (m *tokenManager) RevokeAll(ctx context.Context, userID string) error {
	return m.repo.DeleteByUser(ctx, userID)
}

func randomToken() (string, error) {
	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf[:]), nil
}
