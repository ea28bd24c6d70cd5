package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Now)

	_, err := store.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrDraftNotFound)

	w := New(time.Now)
	require.NoError(t, w.SelectPet(4))
	require.NoError(t, w.ConfirmPet())
	require.NoError(t, store.Save(ctx, 1, w))

	got, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, StepSelectService, got.Step)
	assert.Equal(t, uint(4), got.Draft.MascotaID)

	// Drafts are isolated per user.
	_, err = store.Get(ctx, 2)
	assert.ErrorIs(t, err, ErrDraftNotFound)

	// The stored copy does not alias the caller's wizard.
	got.Draft.MascotaID = 99
	again, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, uint(4), again.Draft.MascotaID)

	require.NoError(t, store.Delete(ctx, 1))
	_, err = store.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrDraftNotFound)

	// Deleting an absent draft is fine.
	assert.NoError(t, store.Delete(ctx, 1))
}

func TestStoredWizardUsesStoreClock(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	store := NewMemoryStore(clk.Now)

	w := wizardAt(t, clk, StepConfirm)
	w.FailSubmit("Error al agendar la cita. Intenta nuevamente.")
	require.NoError(t, store.Save(ctx, 8, w))

	got, err := store.Get(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, StepConfirm, got.Step)
	assert.True(t, got.Draft.IsComplete())
	require.NotNil(t, got.ActiveAlert())

	// The restored wizard uses the store's clock for expiry.
	clk.Advance(6 * time.Second)
	assert.Nil(t, got.ActiveAlert())
}
