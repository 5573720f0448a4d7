package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"github.com/srgjo27/hotel_booking/internal/core/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// QuoteCache keys quotes by a per-room-type version. Bumping the version
// orphans every older quote, which then expires through its TTL.
type QuoteCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewQuoteCache(client *redis.Client, ttl time.Duration) *QuoteCache {
	return &QuoteCache{client: client, ttl: ttl}
}

func VersionKey(roomTypeID int64) string {
	return fmt.Sprintf("quote:version:%d", roomTypeID)
}

func QuoteKey(roomTypeID, version int64, checkIn, checkOut domain.Date) string {
	return fmt.Sprintf("quote:%d:v%d:%s:%s", roomTypeID, version, checkIn, checkOut)
}

func (c *QuoteCache) version(ctx context.Context, roomTypeID int64) (int64, error) {
	v, err := c.client.Get(ctx, VersionKey(roomTypeID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}

	if err != nil {
		return 0, fmt.Errorf("read quote version: %w", err)
	}

	return v, nil
}

// Get returns the cached quote and the version it looked under. Callers pass
// that version back to Set so a quote priced before an invalidation is written
// under the orphaned key.
func (c *QuoteCache) Get(ctx context.Context, roomTypeID int64, checkIn, checkOut domain.Date) (*domain.Quote, int64, bool, error) {
	version, err := c.version(ctx, roomTypeID)
	if err != nil {
		return nil, 0, false, err
	}

	data, err := c.client.Get(ctx, QuoteKey(roomTypeID, version, checkIn, checkOut)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, version, false, nil
	}

	if err != nil {
		return nil, version, false, fmt.Errorf("read quote: %w", err)
	}

	var q domain.Quote
	if err := json.Unmarshal(data, &q); err != nil {
		return nil, version, false, fmt.Errorf("decode quote: %w", err)
	}

	return &q, version, true, nil
}

func (c *QuoteCache) Set(ctx context.Context, version int64, q *domain.Quote) error {
	if q.PromotionCode != "" {
		return nil
	}

	data, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("encode quote: %w", err)
	}

	key := QuoteKey(q.RoomTypeID, version, q.CheckIn, q.CheckOut)
	if err := c.client.Set(ctx, key, string(data), c.ttl).Err(); err != nil {
		return fmt.Errorf("write quote: %w", err)
	}

	return nil
}

func (c *QuoteCache) Invalidate(ctx context.Context, roomTypeID int64) error {
	if err := c.client.Incr(ctx, VersionKey(roomTypeID)).Err(); err != nil {
		return fmt.Errorf("bump quote version: %w", err)
	}

	return nil
}
