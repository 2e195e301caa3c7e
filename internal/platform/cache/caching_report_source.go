// Package cache provides caching decorators for usecase interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"nexusauth/internal/feature/auth/domain/entity"
	"nexusauth/internal/feature/auth/usecase"
)

// DefaultReportTTL is used when no positive TTL is configured.
const DefaultReportTTL = 10 * time.Minute

// DefaultReportNamespace prefixes every report key.
const DefaultReportNamespace = "security:report"

// CachingReportSource decorates a ReportSource with Redis caching.
// A nil client disables caching, and Redis failures fall through to the
// inner source.
type CachingReportSource struct {
	inner     usecase.ReportSource
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.ReportSource = (*CachingReportSource)(nil)

// NewCachingReportSource decorates inner with Redis caching.
// If ttl is 0, it defaults to DefaultReportTTL. If namespace is empty, it uses DefaultReportNamespace.
func NewCachingReportSource(rdb *redis.Client, ttl time.Duration, inner usecase.ReportSource, namespace string) *CachingReportSource {
	if ttl <= 0 {
		ttl = DefaultReportTTL
	}
	if namespace == "" {
		namespace = DefaultReportNamespace
	}
	return &CachingReportSource{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Report returns the cached report for the identity, building and storing it on a miss.
func (c *CachingReportSource) Report(ctx context.Context, identity *entity.Identity) (*entity.SecurityReport, error) {
	if c.rdb == nil {
		return c.inner.Report(ctx, identity)
	}

	key := c.cacheKey(identity.ID)

	b, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil && len(b) > 0:
		var out entity.SecurityReport
		if err := json.Unmarshal(b, &out); err == nil {
			return &out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	case err != nil && err != redis.Nil:
		slog.Warn("report cache read failed", "key", key, "error", err)
	}

	out, err := c.inner.Report(ctx, identity)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(out); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
			slog.Warn("report cache write failed", "key", key, "error", err)
		}
	}

	return out, nil
}

func (c *CachingReportSource) cacheKey(identityID string) string {
	return fmt.Sprintf("%s:%s", c.namespace, safe(identityID))
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
