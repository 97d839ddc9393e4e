// Package cache keeps public user projections in Redis. Users are immutable
// once registered, so a cached projection only goes away through its TTL.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kanishk44/social-media/internal/model"
	"github.com/redis/go-redis/v9"
)

const DefaultProfileTTL = 10 * time.Minute

type Profiles struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewProfiles returns a cache that does nothing when redisClient is nil.
func NewProfiles(redisClient *redis.Client, ttl time.Duration) *Profiles {
	if ttl <= 0 {
		ttl = DefaultProfileTTL
	}
	return &Profiles{redis: redisClient, ttl: ttl}
}

// Get reports a miss on any Redis failure so callers fall through to
// Postgres.
func (p *Profiles) Get(ctx context.Context, id string) (model.PublicUser, bool) {
	if p == nil || p.redis == nil {
		return model.PublicUser{}, false
	}
	raw, err := p.redis.Get(ctx, profileKey(id)).Bytes()
	if err != nil {
		return model.PublicUser{}, false
	}
	var user model.PublicUser
	if err := json.Unmarshal(raw, &user); err != nil {
		return model.PublicUser{}, false
	}
	return user, true
}

func (p *Profiles) Set(ctx context.Context, user model.PublicUser) error {
	if p == nil || p.redis == nil {
		return nil
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return p.redis.Set(ctx, profileKey(user.ID), raw, p.ttl).Err()
}

func profileKey(id string) string {
	return "profile:" + id
}
