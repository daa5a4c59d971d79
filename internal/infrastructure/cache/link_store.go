package cache

import (
	"context"
	"fmt"
	"time"

	"tienda-backend/internal/domain"
	"tienda-backend/pkg/cache"
)

// LinkCache keeps discovered document -> external id links in memory and,
// when a backing store is given, reads through to it on a miss.
type LinkCache struct {
	cache   cache.CacheService
	ttl     time.Duration
	backing domain.LinkStore
}

// NewLinkCache creates a link store over the cache. backing may be nil.
func NewLinkCache(c cache.CacheService, ttl time.Duration, backing domain.LinkStore) *LinkCache {
	return &LinkCache{cache: c, ttl: ttl, backing: backing}
}

func linkKey(entity, documentID string) string {
	return fmt.Sprintf("link:%s:%s", entity, documentID)
}

func (l *LinkCache) GetLink(ctx context.Context, entity, documentID string) (int64, bool, error) {
	if v, found := l.cache.Get(linkKey(entity, documentID)); found {
		if id, ok := v.(int64); ok {
			return id, true, nil
		}
	}
	if l.backing == nil {
		return 0, false, nil
	}

	id, found, err := l.backing.GetLink(ctx, entity, documentID)
	if err != nil || !found {
		return 0, false, err
	}
	l.cache.Set(linkKey(entity, documentID), id, l.ttl)
	return id, true, nil
}

func (l *LinkCache) SaveLink(ctx context.Context, entity, documentID string, externalID int64) error {
	l.cache.Set(linkKey(entity, documentID), externalID, l.ttl)
	if l.backing == nil {
		return nil
	}
	return l.backing.SaveLink(ctx, entity, documentID, externalID)
}

func (l *LinkCache) DeleteLink(ctx context.Context, entity, documentID string) error {
	l.cache.Delete(linkKey(entity, documentID))
	if l.backing == nil {
		return nil
	}
	return l.backing.DeleteLink(ctx, entity, documentID)
}
