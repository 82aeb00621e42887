package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrConflict is returned when a cart keeps changing underneath an update
var ErrConflict = errors.New("cart changed concurrently")

// maxUpdateAttempts bounds optimistic retries of Update
const maxUpdateAttempts = 50

// Store persists carts per user
type Store interface {
	Load(ctx context.Context, userID string) (*Cart, error)
	Update(ctx context.Context, userID string, fn func(*Cart) error) (*Cart, error)
	Delete(ctx context.Context, userID string) error
}

// RedisStore keeps each cart as a JSON document under cart:<userID>.
// Reads and writes both refresh the TTL, so only idle carts expire.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a new cart store
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func cartKey(userID string) string {
	return fmt.Sprintf("cart:%s", userID)
}

func decode(raw []byte, err error) (*Cart, error) {
	if errors.Is(err, redis.Nil) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	c := New()
	if err := json.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	if c.Items == nil {
		c.Clear()
	}
	return c, nil
}

// Load returns the user's cart, or an empty cart if none is stored
func (s *RedisStore) Load(ctx context.Context, userID string) (*Cart, error) {
	return decode(s.client.GetEx(ctx, cartKey(userID), s.ttl).Bytes())
}

// Update applies fn to the stored cart and writes the result in one
// WATCH/MULTI transaction. If another request changes the cart first, fn
// runs again on the fresh cart. An error from fn aborts without writing.
func (s *RedisStore) Update(ctx context.Context, userID string, fn func(*Cart) error) (*Cart, error) {
	key := cartKey(userID)
	var updated *Cart

	txf := func(tx *redis.Tx) error {
		c, err := decode(tx.Get(ctx, key).Bytes())
		if err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}

		var raw []byte
		if !c.Empty() {
			if raw, err = json.Marshal(c); err != nil {
				return fmt.Errorf("failed to encode cart: %w", err)
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if raw == nil {
				pipe.Del(ctx, key)
			} else {
				pipe.Set(ctx, key, raw, s.ttl)
			}
			return nil
		})
		if err != nil {
			return err
		}
		updated = c
		return nil
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, ErrConflict
}

// Delete removes the user's cart
func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
