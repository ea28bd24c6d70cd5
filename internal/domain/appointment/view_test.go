package appointment

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusPtr(s Status) *Status { return &s }

func sample() []*Appointment {
	return []*Appointment{
		{ID: 1, Mascota: "Rex", Estado: StatusPending},
		{ID: 2, Mascota: "Luna", Estado: StatusCompleted},
		{ID: 3, Mascota: "Rex", Estado: StatusCancelled},
		{ID: 4, Mascota: "Misu", Estado: StatusLegacyConfirmed},
		{ID: 5, Mascota: "Luna", Estado: StatusCompleted},
	}
}

func ids(rows []*Appointment) []uint {
	out := make([]uint, 0, len(rows))
	for _, a := range rows {
		out = append(out, a.ID)
	}
	return out
}

func TestModePartition(t *testing.T) {
	rows := sample()

	assert.Equal(t, []uint{1, 4}, ids(NewView(rows, ModeVetPending).Items()))
	assert.Equal(t, []uint{2, 3, 5}, ids(NewView(rows, ModeVetHistory).Items()))
	assert.Equal(t, []uint{1, 4}, ids(NewView(rows, ModeClientPending).Items()))
	assert.Equal(t, []uint{2, 3, 5}, ids(NewView(rows, ModeClientHistory).Items()))
}

func TestSecondaryFiltersCombineWithAnd(t *testing.T) {
	v := NewView(sample(), ModeClientHistory)

	byPet := v.WithFilter(Filter{Mascota: "Luna"})
	assert.Equal(t, []uint{2, 5}, ids(byPet.Items()))

	byStatus := v.WithFilter(Filter{Estado: statusPtr(StatusCancelled)})
	assert.Equal(t, []uint{3}, ids(byStatus.Items()))

	both := v.WithFilter(Filter{Mascota: "Rex", Estado: statusPtr(StatusCompleted)})
	assert.Empty(t, both.Items())
	assert.Equal(t, 1, both.TotalPages())
}

func TestLegacyStatusFilterMatchesPending(t *testing.T) {
	v := NewView(sample(), ModeVetPending)

	// Filtering on the legacy alias finds both the pendiente and the
	// confirmada rows, same as filtering on pendiente.
	legacy := v.WithFilter(Filter{Estado: statusPtr(StatusLegacyConfirmed)})
	assert.Equal(t, []uint{1, 4}, ids(legacy.Items()))

	pending := v.WithFilter(Filter{Estado: statusPtr(StatusPending)})
	assert.Equal(t, ids(pending.Items()), ids(legacy.Items()))
}

func TestFilterChangeResetsPage(t *testing.T) {
	rows := make([]*Appointment, 0, 12)
	for i := 1; i <= 12; i++ {
		rows = append(rows, &Appointment{ID: uint(i), Mascota: "Rex", Estado: StatusCompleted})
	}

	v := NewView(rows, ModeClientHistory).WithPage(3)
	assert.Equal(t, 3, v.Page())

	v = v.WithFilter(Filter{Mascota: "Rex"})
	assert.Equal(t, 1, v.Page())
}

func TestPagination(t *testing.T) {
	rows := make([]*Appointment, 0, 11)
	for i := 1; i <= 11; i++ {
		rows = append(rows, &Appointment{ID: uint(i), Mascota: fmt.Sprintf("m%d", i), Estado: StatusCompleted})
	}
	v := NewView(rows, ModeClientHistory)

	assert.Equal(t, 3, v.TotalPages())
	assert.Equal(t, 11, v.Total())
	assert.Len(t, v.Items(), PageSize)
	assert.Equal(t, []uint{1, 2, 3, 4, 5}, ids(v.Items()))

	assert.Equal(t, []uint{6, 7, 8, 9, 10}, ids(v.WithPage(2).Items()))
	assert.Equal(t, []uint{11}, ids(v.WithPage(3).Items()))

	// Out-of-range pages clamp instead of failing.
	assert.Equal(t, 1, v.WithPage(0).Page())
	assert.Equal(t, 1, v.WithPage(-4).Page())
	assert.Equal(t, 3, v.WithPage(99).Page())
	assert.Equal(t, []uint{11}, ids(v.WithPage(99).Items()))
}

func TestEmptyResultHasOnePage(t *testing.T) {
	v := NewView(nil, ModeClientHistory)
	assert.Equal(t, 1, v.TotalPages())
	assert.Equal(t, 1, v.Page())
	assert.Empty(t, v.Items())
}

func TestUniquePetsIgnoresSecondaryFilter(t *testing.T) {
	v := NewView(sample(), ModeClientHistory)

	// Role filter applies: Rex appears via the cancelled row, Misu is
	// pending-only and excluded.
	assert.Equal(t, []string{"Luna", "Rex"}, v.UniquePets())

	// The secondary filter must not shrink the dropdown.
	narrowed := v.WithFilter(Filter{Mascota: "Luna"})
	assert.Equal(t, []string{"Luna", "Rex"}, narrowed.UniquePets())
}

func TestShrinkingFilterKeepsPageValid(t *testing.T) {
	rows := make([]*Appointment, 0, 20)
	for i := 1; i <= 20; i++ {
		name := "Rex"
		if i%2 == 0 {
			name = "Luna"
		}
		rows = append(rows, &Appointment{ID: uint(i), Mascota: name, Estado: StatusCompleted})
	}

	v := NewView(rows, ModeClientHistory).WithPage(4)
	require.Equal(t, 4, v.Page())

	v = v.WithFilter(Filter{Mascota: "Luna"})
	assert.Equal(t, 1, v.Page())
	assert.Equal(t, 2, v.TotalPages())
	assert.Len(t, v.Items(), PageSize)
}
