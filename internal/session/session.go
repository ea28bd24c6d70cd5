// Package session tracks which users are logged in and lets other components
// observe login and logout. The authoritative copy lives in redis so every
// API instance sees the same sessions; a local map serves reads when redis is
// not configured (tests, single instance).
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"vetcita/internal/domain"
)

var ErrNotFound = errors.New("session not found")

type Session struct {
	UserID   uint        `json:"userId"`
	Email    string      `json:"email"`
	Nombre   string      `json:"nombre"`
	Role     domain.Role `json:"role"`
	IssuedAt time.Time   `json:"issuedAt"`
}

type EventType string

const (
	EventLogin  EventType = "login"
	EventLogout EventType = "logout"
)

// Event is delivered to subscribers on session changes. Session is nil for
// logout events.
type Event struct {
	Type    EventType
	UserID  uint
	Session *Session
}

// Store holds active sessions and notifies subscribers of changes.
// Subscribers are called synchronously under no lock; they must not call
// back into the store.
type Store struct {
	mu      sync.RWMutex
	local   map[uint]Session
	subs    map[int]func(Event)
	nextSub int

	client *redis.Client // nil means memory only
	ttl    time.Duration
}

// NewStore builds a session store. A nil redis client keeps sessions in
// memory only.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{
		local:  make(map[uint]Session),
		subs:   make(map[int]func(Event)),
		client: client,
		ttl:    ttl,
	}
}

// Subscribe registers an observer for session events and returns a function
// that removes it.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify(ev Event) {
	s.mu.RLock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()
	for _, fn := range fns {
		fn(ev)
	}
}

func sessionKey(userID uint) string {
	return fmt.Sprintf("session:%d", userID)
}

// Set records a login.
func (s *Store) Set(ctx context.Context, sess Session) error {
	if s.client != nil {
		raw, err := json.Marshal(sess)
		if err != nil {
			return fmt.Errorf("encoding session: %w", err)
		}
		if err := s.client.Set(ctx, sessionKey(sess.UserID), raw, s.ttl).Err(); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}
	}
	s.mu.Lock()
	s.local[sess.UserID] = sess
	s.mu.Unlock()

	s.notify(Event{Type: EventLogin, UserID: sess.UserID, Session: &sess})
	return nil
}

// Get returns the active session for a user, or ErrNotFound.
func (s *Store) Get(ctx context.Context, userID uint) (*Session, error) {
	if s.client != nil {
		raw, err := s.client.Get(ctx, sessionKey(userID)).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("loading session: %w", err)
		}
		var sess Session
		if err := json.Unmarshal(raw, &sess); err != nil {
			return nil, fmt.Errorf("decoding session: %w", err)
		}
		return &sess, nil
	}

	s.mu.RLock()
	sess, ok := s.local[userID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return &sess, nil
}

// Delete records a logout. Deleting an absent session still notifies so
// observers can clean up regardless.
func (s *Store) Delete(ctx context.Context, userID uint) error {
	if s.client != nil {
		if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
			return fmt.Errorf("deleting session: %w", err)
		}
	}
	s.mu.Lock()
	delete(s.local, userID)
	s.mu.Unlock()

	s.notify(Event{Type: EventLogout, UserID: userID})
	return nil
}
