package services

import (
	"context"
	"fmt"
	"time"
)

// Cache is the subset of pkg/cache the workflows use for read-through
// lookups. *cache.Cache satisfies it; a disabled cache misses every Get
// and turns Set/Del into no-ops.
type Cache interface {
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// cacheTTL bounds staleness for entries whose invalidation is missed
// (e.g. the Del after an update failing against Redis).
const cacheTTL = 5 * time.Minute

func customerCacheKey(id uint) string { return fmt.Sprintf("customer:%d", id) }
func orderCacheKey(id uint) string    { return fmt.Sprintf("order:%d", id) }
