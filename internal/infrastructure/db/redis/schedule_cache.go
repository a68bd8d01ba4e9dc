package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/amenitybook/reservation-api/internal/core/domain"
)

const (
	defaultCacheTTL = 10 * time.Minute
	keyPrefix       = "schedule:"
	scanBatch       = 500
)

// ScheduleCache implements ports.ScheduleCache on Redis.
// Key format:
//
//	schedule:amenity:<amenity_id>:<day_bucket>
//	schedule:user:<user_id>
type ScheduleCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewScheduleCache wraps client. A non-positive ttl falls back to 10 minutes.
func NewScheduleCache(client *redis.Client, ttl time.Duration) *ScheduleCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &ScheduleCache{client: client, ttl: ttl}
}

func (s *ScheduleCache) GetAmenityDay(ctx context.Context, amenityID, dayBucket int64) ([]domain.AmenitySlot, bool, error) {
	var slots []domain.AmenitySlot
	ok, err := s.get(ctx, amenityKey(amenityID, dayBucket), &slots)
	return slots, ok, err
}

func (s *ScheduleCache) SetAmenityDay(ctx context.Context, amenityID, dayBucket int64, slots []domain.AmenitySlot) error {
	return s.set(ctx, amenityKey(amenityID, dayBucket), slots)
}

func (s *ScheduleCache) GetUserSchedule(ctx context.Context, userID int64) (domain.UserSchedule, bool, error) {
	var schedule domain.UserSchedule
	ok, err := s.get(ctx, userKey(userID), &schedule)
	return schedule, ok, err
}

func (s *ScheduleCache) SetUserSchedule(ctx context.Context, userID int64, schedule domain.UserSchedule) error {
	return s.set(ctx, userKey(userID), schedule)
}

// Invalidate unlinks every schedule key. Keys written concurrently with the
// scan may survive until their TTL expires.
func (s *ScheduleCache) Invalidate(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, keyPrefix+"*", scanBatch).Iterator()
	keys := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == scanBatch {
			if err := s.client.Unlink(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("cache invalidate: %w", err)
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache invalidate: scan: %w", err)
	}
	if len(keys) > 0 {
		if err := s.client.Unlink(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("cache invalidate: %w", err)
		}
	}
	return nil
}

func (s *ScheduleCache) get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		cacheReads.WithLabelValues("miss").Inc()
		return false, nil
	}
	if err != nil {
		cacheReads.WithLabelValues("error").Inc()
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		cacheReads.WithLabelValues("error").Inc()
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	cacheReads.WithLabelValues("hit").Inc()
	return true, nil
}

func (s *ScheduleCache) set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func amenityKey(amenityID, dayBucket int64) string {
	return fmt.Sprintf("%samenity:%d:%d", keyPrefix, amenityID, dayBucket)
}

func userKey(userID int64) string {
	return fmt.Sprintf("%suser:%d", keyPrefix, userID)
}
