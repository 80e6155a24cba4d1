package menuitem

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"foodorder/internal/domain"
	"github.com/redis/go-redis/v9"
)

// cachedRepo fronts lookups by id with Redis. Cart aggregation resolves a
// menu item on every add-to-cart, so this is the hot read path. Writes pass
// through and invalidate. Cache failures degrade to the database.
type cachedRepo struct {
	Repository
	client  *redis.Client
	baseTTL time.Duration
}

func NewCached(repo Repository, client *redis.Client) Repository {
	return &cachedRepo{
		Repository: repo,
		client:     client,
		baseTTL:    15 * time.Minute,
	}
}

func (r *cachedRepo) GetByID(ctx context.Context, id string) (*domain.MenuItem, error) {
	if data, err := r.client.Get(ctx, cacheKey(id)).Bytes(); err == nil {
		var item domain.MenuItem
		if err := json.Unmarshal(data, &item); err == nil {
			return &item, nil
		}
	} else if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	item, err := r.Repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(item); err == nil {
		jitter := time.Duration(rand.Intn(300)) * time.Second
		r.client.Set(ctx, cacheKey(id), data, r.baseTTL+jitter)
	}
	return item, nil
}

func (r *cachedRepo) Update(ctx context.Context, id string, in UpdateInput) (*domain.MenuItem, error) {
	item, err := r.Repository.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	r.client.Del(ctx, cacheKey(id))
	return item, nil
}

func (r *cachedRepo) Delete(ctx context.Context, id string) error {
	if err := r.Repository.Delete(ctx, id); err != nil {
		return err
	}
	r.client.Del(ctx, cacheKey(id))
	return nil
}

func cacheKey(id string) string {
	return fmt.Sprintf("menuitem:%s", id)
}
