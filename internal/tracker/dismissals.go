package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisDismissals keeps one Redis set of dismissed application ids per user.
// The whole set expires ttl after the most recent dismissal.
type RedisDismissals struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisDismissals returns a Dismissals backed by rdb.
func NewRedisDismissals(rdb *redis.Client, ttl time.Duration) *RedisDismissals {
	return &RedisDismissals{rdb: rdb, ttl: ttl}
}

func dismissKey(userID uuid.UUID) string {
	return "tracker:reminders:dismissed:" + userID.String()
}

func (d *RedisDismissals) Dismiss(ctx context.Context, userID, appID uuid.UUID) error {
	key := dismissKey(userID)
	_, err := d.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.SAdd(ctx, key, appID.String())
		p.Expire(ctx, key, d.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("dismiss reminder %s: %w", appID, err)
	}
	return nil
}

func (d *RedisDismissals) Dismissed(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	members, err := d.rdb.SMembers(ctx, dismissKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("load dismissed reminders: %w", err)
	}
	out := make(map[uuid.UUID]bool, len(members))
	for _, m := range members {
		id, err := uuid.Parse(m)
		if err != nil {
			continue
		}
		out[id] = true
	}
	return out, nil
}
