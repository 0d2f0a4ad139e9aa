package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/sistertele/phonestore/internal/redisx"
)

// Store persists whole cart snapshots in Redis, one key per cart id.
// The full line-item list is written after every mutation; a missing or
// corrupt value loads as an empty cart rather than an error.
type Store struct {
	Redis *redis.Client
}

func (s *Store) Load(ctx context.Context, cartID string) (*Cart, error) {
	key := fmt.Sprintf(redisx.KeyCart, cartID)
	raw, err := s.Redis.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return &Cart{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart %s: %w", cartID, err)
	}

	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		logrus.WithError(err).WithField("cart_id", cartID).Warn("discarding corrupt cart value")
		return &Cart{}, nil
	}
	return &Cart{Items: items}, nil
}

func (s *Store) Save(ctx context.Context, cartID string, c *Cart) error {
	key := fmt.Sprintf(redisx.KeyCart, cartID)
	b, err := json.Marshal(c.Items)
	if err != nil {
		return fmt.Errorf("encode cart %s: %w", cartID, err)
	}
	if err := s.Redis.Set(ctx, key, b, redisx.TTLCart).Err(); err != nil {
		return fmt.Errorf("save cart %s: %w", cartID, err)
	}
	return nil
}
