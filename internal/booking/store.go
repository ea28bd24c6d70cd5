package booking

import (
	"context"
	"sync"
)

// Store keeps one in-progress wizard per user. Implementations attach the
// given clock to every wizard they return.
type Store interface {
	// Get returns the user's wizard, or ErrDraftNotFound.
	Get(ctx context.Context, userID uint) (*Wizard, error)

	// Save persists the wizard state.
	Save(ctx context.Context, userID uint, w *Wizard) error

	// Delete discards the user's wizard. Deleting a missing draft is not
	// an error.
	Delete(ctx context.Context, userID uint) error
}

// MemoryStore is an in-process Store, used in tests and single-instance
// deployments.
type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[uint]Wizard
	clock  Clock
}

func NewMemoryStore(clock Clock) *MemoryStore {
	return &MemoryStore{drafts: make(map[uint]Wizard), clock: clock}
}

func (s *MemoryStore) Get(_ context.Context, userID uint) (*Wizard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.drafts[userID]
	if !ok {
		return nil, ErrDraftNotFound
	}
	cp := w
	cp.AttachClock(s.clock)
	return &cp, nil
}

func (s *MemoryStore) Save(_ context.Context, userID uint, w *Wizard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[userID] = *w
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, userID)
	return nil
}
