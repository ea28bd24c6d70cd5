package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists wizard drafts in redis so an interrupted booking
// survives restarts and instances share state. Drafts expire after the
// configured TTL; the TTL is refreshed on every save so an active user never
// loses a draft mid-flow.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	clock  Clock
}

func NewRedisStore(client *redis.Client, ttl time.Duration, clock Clock) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, clock: clock}
}

func draftKey(userID uint) string {
	return fmt.Sprintf("booking:draft:%d", userID)
}

func (s *RedisStore) Get(ctx context.Context, userID uint) (*Wizard, error) {
	raw, err := s.client.Get(ctx, draftKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading booking draft: %w", err)
	}
	var w Wizard
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("decoding booking draft: %w", err)
	}
	w.AttachClock(s.clock)
	return &w, nil
}

func (s *RedisStore) Save(ctx context.Context, userID uint, w *Wizard) error {
	raw, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("encoding booking draft: %w", err)
	}
	if err := s.client.Set(ctx, draftKey(userID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("saving booking draft: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, userID uint) error {
	if err := s.client.Del(ctx, draftKey(userID)).Err(); err != nil {
		return fmt.Errorf("deleting booking draft: %w", err)
	}
	return nil
}
