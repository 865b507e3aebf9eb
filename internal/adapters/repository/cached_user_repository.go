package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/lifeos/internal/core/domain"
)

var _ domain.UserRepository = (*CachedUserRepository)(nil)

const userCacheTTL = 30 * time.Minute

// CachedUserRepository fronts the subject lookup done on every authenticated request.
// Users are never mutated after creation, so entries only expire.
type CachedUserRepository struct {
	next   domain.UserRepository
	cache  *redis.Client
	logger *slog.Logger
}

func NewCachedUserRepository(next domain.UserRepository, cache *redis.Client, logger *slog.Logger) *CachedUserRepository {
	return &CachedUserRepository{
		next:   next,
		cache:  cache,
		logger: logger,
	}
}

func (r *CachedUserRepository) cacheKey(subject string) string {
	return fmt.Sprintf("users:subject:%s", subject)
}

func (r *CachedUserRepository) GetBySubject(ctx context.Context, subject string) (*domain.User, error) {
	key := r.cacheKey(subject)

	val, err := r.cache.Get(ctx, key).Result()
	if err == nil {
		var user domain.User
		if err := json.Unmarshal([]byte(val), &user); err == nil {
			return &user, nil
		}

		r.logger.Warn("corrupted user cache entry, cleaning up", "subject", subject)
		r.cache.Del(ctx, key)
	} else if err != redis.Nil {
		r.logger.Warn("user cache read failed", "error", err)
	}

	user, err := r.next.GetBySubject(ctx, subject)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(user); err == nil {
		if setErr := r.cache.Set(ctx, key, data, userCacheTTL).Err(); setErr != nil {
			r.logger.Warn("user cache write failed", "error", setErr)
		}
	}

	return user, nil
}

func (r *CachedUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.next.GetByID(ctx, id)
}

func (r *CachedUserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.next.Create(ctx, user)
}
