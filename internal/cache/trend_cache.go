package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"deal-pulse/internal/domain"

	"github.com/redis/go-redis/v9"
)

// TrendCache keeps computed trend reports warm between sweeps so repeated
// dashboard loads do not rescan sentiment history.
type TrendCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewTrendCache(client redis.Cmdable, ttl time.Duration) *TrendCache {
	return &TrendCache{client: client, ttl: ttl}
}

func trendKey(dealID, period string) string {
	return fmt.Sprintf("trends:%s:%s", dealID, period)
}

// Get returns the cached report, or nil on a miss.
func (c *TrendCache) Get(ctx context.Context, dealID, period string) (*domain.TrendReport, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	raw, err := c.client.Get(ctx, trendKey(dealID, period)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var report domain.TrendReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *TrendCache) Put(ctx context.Context, dealID, period string, report domain.TrendReport) error {
	if c == nil || c.client == nil || c.ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, trendKey(dealID, period), raw, c.ttl).Err()
}

// Invalidate drops every cached period for a deal after new records land.
func (c *TrendCache) Invalidate(ctx context.Context, dealID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	keys := make([]string, 0, len(domain.SupportedPeriods))
	for _, period := range domain.SupportedPeriods {
		keys = append(keys, trendKey(dealID, period))
	}
	return c.client.Del(ctx, keys...).Err()
}
