package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock starts on a Wednesday so weekday math is predictable.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// wizardAt drives a fresh wizard to the given step with valid choices.
func wizardAt(t *testing.T, clk *fakeClock, step Step) *Wizard {
	t.Helper()
	w := New(clk.Now)
	if step == StepSelectPet {
		return w
	}
	require.NoError(t, w.SelectPet(7))
	require.NoError(t, w.ConfirmPet())
	if step == StepSelectService {
		return w
	}
	require.NoError(t, w.SetService("consulta-general"))
	require.True(t, w.Advance())
	if step == StepSelectVeterinarian {
		return w
	}
	require.NoError(t, w.SetVeterinarian(3))
	require.True(t, w.Advance())
	if step == StepSelectDateTime {
		return w
	}
	require.NoError(t, w.SetDate("2026-09-04"))
	require.NoError(t, w.SetTime("10:30"))
	require.True(t, w.Advance())
	require.Equal(t, StepConfirm, w.Step)
	return w
}

func TestPetConfirmationDialog(t *testing.T) {
	clk := newFakeClock()
	w := New(clk.Now)

	require.NoError(t, w.SelectPet(7))
	assert.Equal(t, StepSelectPet, w.Step)
	assert.Equal(t, uint(7), w.TentativePetID)
	assert.Zero(t, w.Draft.MascotaID)

	// Declining discards the tentative pet and stays put.
	require.NoError(t, w.DeclinePet())
	assert.Zero(t, w.TentativePetID)
	assert.Equal(t, StepSelectPet, w.Step)

	// Confirming without a tentative pet is rejected.
	assert.ErrorIs(t, w.ConfirmPet(), ErrNoPetSelected)

	require.NoError(t, w.SelectPet(9))
	require.NoError(t, w.ConfirmPet())
	assert.Equal(t, StepSelectService, w.Step)
	assert.Equal(t, uint(9), w.Draft.MascotaID)
	assert.Zero(t, w.TentativePetID)
}

func TestAdvanceRequiresStepChoice(t *testing.T) {
	clk := newFakeClock()

	tests := []struct {
		step    Step
		warning string
	}{
		{StepSelectService, "Por favor, selecciona un servicio"},
		{StepSelectVeterinarian, "Por favor, selecciona un veterinario"},
		{StepSelectDateTime, "Por favor, selecciona una fecha y hora"},
	}

	for _, tt := range tests {
		w := wizardAt(t, clk, tt.step)
		switch tt.step {
		case StepSelectService:
			w.Draft.Servicio = ""
		case StepSelectVeterinarian:
			w.Draft.VeterinarioID = 0
		case StepSelectDateTime:
			w.Draft.Fecha = ""
			w.Draft.Hora = ""
		}
		before := w.Draft

		assert.False(t, w.Advance())
		assert.Equal(t, tt.step, w.Step)
		assert.Equal(t, before, w.Draft)
		require.NotNil(t, w.ActiveAlert())
		assert.Equal(t, AlertWarning, w.ActiveAlert().Level)
		assert.Equal(t, tt.warning, w.ActiveAlert().Message)
	}
}

func TestAdvanceNeedsBothDateAndTime(t *testing.T) {
	clk := newFakeClock()
	w := wizardAt(t, clk, StepSelectDateTime)

	require.NoError(t, w.SetDate("2026-09-04"))
	assert.False(t, w.Advance())
	assert.Equal(t, StepSelectDateTime, w.Step)
	assert.Equal(t, "2026-09-04", w.Draft.Fecha)

	require.NoError(t, w.SetTime("09:00"))
	assert.True(t, w.Advance())
	assert.Equal(t, StepConfirm, w.Step)
}

func TestRetreatClearsOnlyCurrentStepChoices(t *testing.T) {
	clk := newFakeClock()
	w := wizardAt(t, clk, StepConfirm)

	// Step 5 captures nothing of its own.
	w.Retreat()
	assert.Equal(t, StepSelectDateTime, w.Step)
	assert.Equal(t, "2026-09-04", w.Draft.Fecha)
	assert.Equal(t, "10:30", w.Draft.Hora)

	w.Retreat()
	assert.Equal(t, StepSelectVeterinarian, w.Step)
	assert.Empty(t, w.Draft.Fecha)
	assert.Empty(t, w.Draft.Hora)
	assert.Equal(t, uint(3), w.Draft.VeterinarioID)

	w.Retreat()
	assert.Equal(t, StepSelectService, w.Step)
	assert.Zero(t, w.Draft.VeterinarioID)
	assert.Equal(t, "consulta-general", w.Draft.Servicio)

	w.Retreat()
	assert.Equal(t, StepSelectPet, w.Step)
	assert.Empty(t, w.Draft.Servicio)
	assert.Equal(t, uint(7), w.Draft.MascotaID)

	// No-op at step 1.
	w.Retreat()
	assert.Equal(t, StepSelectPet, w.Step)
	assert.Equal(t, uint(7), w.Draft.MascotaID)
}

func TestDateValidation(t *testing.T) {
	clk := newFakeClock()
	w := wizardAt(t, clk, StepSelectDateTime)

	assert.ErrorIs(t, w.SetDate("04-09-2026"), ErrInvalidDate)
	assert.ErrorIs(t, w.SetDate("2026-09-05"), ErrWeekendDate) // Saturday
	assert.ErrorIs(t, w.SetDate("2026-09-06"), ErrWeekendDate) // Sunday
	assert.ErrorIs(t, w.SetDate("2026-09-02"), ErrDateTooSoon) // today
	assert.ErrorIs(t, w.SetDate("2026-09-01"), ErrDateTooSoon) // yesterday
	assert.Empty(t, w.Draft.Fecha)

	assert.NoError(t, w.SetDate("2026-09-03")) // tomorrow, Thursday
	assert.Equal(t, "2026-09-03", w.Draft.Fecha)
}

func TestTimeSlotGrid(t *testing.T) {
	clk := newFakeClock()
	w := wizardAt(t, clk, StepSelectDateTime)

	slots := Slots()
	assert.Equal(t, "08:00", slots[0])
	assert.Equal(t, "22:00", slots[len(slots)-1])
	assert.Len(t, slots, 29)

	assert.ErrorIs(t, w.SetTime("07:30"), ErrInvalidSlot)
	assert.ErrorIs(t, w.SetTime("22:30"), ErrInvalidSlot)
	assert.ErrorIs(t, w.SetTime("10:15"), ErrInvalidSlot)
	assert.NoError(t, w.SetTime("08:00"))
	assert.NoError(t, w.SetTime("22:00"))
}

func TestCancelDialog(t *testing.T) {
	clk := newFakeClock()
	w := wizardAt(t, clk, StepConfirm)

	assert.ErrorIs(t, w.ConfirmCancel(), ErrNoCancelPrompt)

	require.NoError(t, w.RequestCancel())
	assert.True(t, w.CancelPrompt)

	// Declining keeps everything.
	require.NoError(t, w.DeclineCancel())
	assert.False(t, w.CancelPrompt)
	assert.Equal(t, StepConfirm, w.Step)
	assert.True(t, w.Draft.IsComplete())

	require.NoError(t, w.RequestCancel())
	require.NoError(t, w.ConfirmCancel())
	assert.Equal(t, StepSelectPet, w.Step)
	assert.Equal(t, Draft{}, w.Draft)
}

func TestCancelOnlyAtConfirmStep(t *testing.T) {
	clk := newFakeClock()
	w := wizardAt(t, clk, StepSelectVeterinarian)
	assert.ErrorIs(t, w.RequestCancel(), ErrWrongStep)
}

func TestAlertExpiry(t *testing.T) {
	clk := newFakeClock()
	w := wizardAt(t, clk, StepSelectService)
	w.Draft.Servicio = ""

	w.Advance()
	require.NotNil(t, w.ActiveAlert())

	clk.Advance(4 * time.Second)
	assert.NotNil(t, w.ActiveAlert(), "warning lives 5 seconds")

	clk.Advance(2 * time.Second)
	assert.Nil(t, w.ActiveAlert())
}

func TestSuccessAlertExpiresSooner(t *testing.T) {
	clk := newFakeClock()
	w := wizardAt(t, clk, StepConfirm)

	w.CompleteSubmit()
	require.NotNil(t, w.ActiveAlert())
	assert.Equal(t, AlertSuccess, w.ActiveAlert().Level)

	clk.Advance(3 * time.Second)
	assert.NotNil(t, w.ActiveAlert())
	clk.Advance(2 * time.Second)
	assert.Nil(t, w.ActiveAlert())
}

func TestNewerAlertReplacesOlder(t *testing.T) {
	clk := newFakeClock()
	w := wizardAt(t, clk, StepSelectService)
	w.Draft.Servicio = ""
	w.Advance()

	clk.Advance(3 * time.Second)
	w.FailSubmit("Error al agendar la cita. Intenta nuevamente.")

	alert := w.ActiveAlert()
	require.NotNil(t, alert)
	assert.Equal(t, AlertError, alert.Level)

	// The replacement's expiry stands alone.
	clk.Advance(4 * time.Second)
	assert.NotNil(t, w.ActiveAlert())
	clk.Advance(2 * time.Second)
	assert.Nil(t, w.ActiveAlert())
}

func TestSubmitLifecycle(t *testing.T) {
	clk := newFakeClock()

	t.Run("incomplete draft", func(t *testing.T) {
		w := wizardAt(t, clk, StepConfirm)
		w.Draft.Hora = ""
		assert.ErrorIs(t, w.BeginSubmit(), ErrDraftIncomplete)
		assert.Equal(t, StepConfirm, w.Step)
		require.NotNil(t, w.ActiveAlert())
		assert.Equal(t, "Por favor, completa todos los campos de la cita", w.ActiveAlert().Message)
	})

	t.Run("unauthenticated stays at confirm", func(t *testing.T) {
		w := wizardAt(t, clk, StepConfirm)
		require.NoError(t, w.BeginSubmit())
		w.FailSubmitUnauthenticated()
		assert.Equal(t, StepConfirm, w.Step)
		assert.True(t, w.Draft.IsComplete())
		require.NotNil(t, w.ActiveAlert())
		assert.Equal(t, "Error: Usuario no autenticado", w.ActiveAlert().Message)
	})

	t.Run("failure keeps draft for retry", func(t *testing.T) {
		w := wizardAt(t, clk, StepConfirm)
		require.NoError(t, w.BeginSubmit())
		draft := w.Draft
		w.FailSubmit("")
		assert.Equal(t, StepConfirm, w.Step)
		assert.Equal(t, draft, w.Draft)
		require.NotNil(t, w.ActiveAlert())
		assert.Equal(t, AlertError, w.ActiveAlert().Level)
	})

	t.Run("success resets to step one", func(t *testing.T) {
		w := wizardAt(t, clk, StepConfirm)
		require.NoError(t, w.BeginSubmit())
		w.CompleteSubmit()
		assert.Equal(t, StepSelectPet, w.Step)
		assert.Equal(t, Draft{}, w.Draft)
		require.NotNil(t, w.ActiveAlert())
		assert.Equal(t, AlertSuccess, w.ActiveAlert().Level)
	})
}

func TestSetOperationsGuardedByStep(t *testing.T) {
	clk := newFakeClock()
	w := New(clk.Now)

	assert.ErrorIs(t, w.SetService("vacunacion"), ErrWrongStep)
	assert.ErrorIs(t, w.SetVeterinarian(1), ErrWrongStep)
	assert.ErrorIs(t, w.SetDate("2026-09-03"), ErrWrongStep)
	assert.ErrorIs(t, w.SetTime("09:00"), ErrWrongStep)
}
