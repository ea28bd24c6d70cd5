package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vetcita/internal/domain"
)

func TestStoreSetGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil, time.Hour)

	_, err := store.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	sess := Session{UserID: 1, Email: "ana@example.com", Nombre: "Ana", Role: domain.RoleClient}
	require.NoError(t, store.Set(ctx, sess))

	got, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", got.Email)
	assert.Equal(t, domain.RoleClient, got.Role)

	require.NoError(t, store.Delete(ctx, 1))
	_, err = store.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreNotifiesObservers(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil, time.Hour)

	var events []Event
	unsubscribe := store.Subscribe(func(ev Event) {
		events = append(events, ev)
	})

	require.NoError(t, store.Set(ctx, Session{UserID: 7, Role: domain.RoleClient}))
	require.NoError(t, store.Delete(ctx, 7))

	require.Len(t, events, 2)
	assert.Equal(t, EventLogin, events[0].Type)
	assert.Equal(t, uint(7), events[0].UserID)
	require.NotNil(t, events[0].Session)
	assert.Equal(t, EventLogout, events[1].Type)
	assert.Nil(t, events[1].Session)

	// After unsubscribing no further events arrive.
	unsubscribe()
	require.NoError(t, store.Set(ctx, Session{UserID: 8, Role: domain.RoleClient}))
	assert.Len(t, events, 2)
}

func TestMultipleSubscribers(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil, time.Hour)

	var a, b int
	store.Subscribe(func(Event) { a++ })
	store.Subscribe(func(Event) { b++ })

	require.NoError(t, store.Set(ctx, Session{UserID: 1, Role: domain.RoleClient}))
	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)
}
