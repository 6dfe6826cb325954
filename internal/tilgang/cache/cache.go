// Package cache keeps person access decisions in Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"

	"supstonad/internal/tilgang/service"
	id "supstonad/pkg/domain"
)

const keyPrefix = "supstonad:tilgang:"

// PersonTilgang decorates a service.PersonTilgang with a Redis cache. Redis
// failures fall through to the wrapped lookup.
type PersonTilgang struct {
	next   service.PersonTilgang
	client redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

// New wraps next. A nil client disables caching.
func New(next service.PersonTilgang, client redis.Cmdable, ttl time.Duration, logger *slog.Logger) *PersonTilgang {
	return &PersonTilgang{next: next, client: client, ttl: ttl, logger: logger}
}

func (c *PersonTilgang) HarTilgang(ctx context.Context, ident id.NavIdent, roller []id.Rolle, fnr id.Fnr) (bool, error) {
	if c.client == nil {
		return c.next.HarTilgang(ctx, ident, roller, fnr)
	}
	key := cacheKey(ident, roller, fnr)

	val, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		return val == "1", nil
	case !errors.Is(err, redis.Nil):
		c.logger.WarnContext(ctx, "tilgang cache read failed", "error", err)
	}

	ok, err := c.next.HarTilgang(ctx, ident, roller, fnr)
	if err != nil {
		return false, err
	}
	stored := "0"
	if ok {
		stored = "1"
	}
	if err := c.client.Set(ctx, key, stored, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "tilgang cache write failed", "error", err)
	}
	return ok, nil
}

// Invalider drops every cached decision for fnr.
func (c *PersonTilgang) Invalider(ctx context.Context, fnr id.Fnr) error {
	if c.client == nil {
		return nil
	}
	pattern := fmt.Sprintf("%s*:%s:*", keyPrefix, fnr)
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("scan tilgang cache: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("delete tilgang cache keys: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// Only the StrengtFortrolig role changes the decision, so the key carries that flag
// instead of the full role list.
func cacheKey(ident id.NavIdent, roller []id.Rolle, fnr id.Fnr) string {
	sf := "0"
	if slices.Contains(roller, id.RolleStrengtFortrolig) {
		sf = "1"
	}
	return fmt.Sprintf("%s%s:%s:%s", keyPrefix, ident, fnr, sf)
}
