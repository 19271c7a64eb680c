package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"skywings/config"
	"skywings/internal/domain"
)

// offersKey is shared by every search in the process. Last write wins; the
// whole result set is replaced, never merged.
const offersKey = "cache:offers:recent"

type RedisCache struct {
	client    *redis.Client
	offersTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, offersTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:    redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		offersTTL: offersTTL,
	}
}

// GetOffers returns the most recently cached result set, or nil after the TTL
// has elapsed. A nil result is not an error: callers must treat it as "offer
// no longer resolvable".
func (c *RedisCache) GetOffers(ctx context.Context) ([]domain.FlightOffer, error) {
	data, err := c.client.Get(ctx, offersKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var offers []domain.FlightOffer
	if err := json.Unmarshal(data, &offers); err != nil {
		return nil, err
	}
	return offers, nil
}

func (c *RedisCache) PutOffers(ctx context.Context, offers []domain.FlightOffer) error {
	payload, err := json.Marshal(offers)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, offersKey, payload, c.offersTTL).Err()
}

// ResolveOffer finds a single cached offer by id. Returns (nil, nil) when the
// set has expired or the id is unknown.
func (c *RedisCache) ResolveOffer(ctx context.Context, id string) (*domain.FlightOffer, error) {
	offers, err := c.GetOffers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range offers {
		if offers[i].ID == id {
			return &offers[i], nil
		}
	}
	return nil, nil
}
