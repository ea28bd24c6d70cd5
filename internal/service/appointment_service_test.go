package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vetcita/internal/domain"
	"vetcita/internal/domain/appointment"
	"vetcita/internal/domain/clinicalnote"
	"vetcita/internal/domain/pet"
)

type apptFixture struct {
	svc       *AppointmentService
	repo      *fakeAppointmentRepo
	pets      *fakePetRepo
	clientID  uint
	vetUserID uint
	petID     uint
}

func newApptFixture(t *testing.T) *apptFixture {
	t.Helper()
	ctx := context.Background()

	users := newFakeUserRepo()
	owner := &domain.User{Email: "ana@example.com", Nombre: "Ana", Role: domain.RoleClient, IsActive: true}
	require.NoError(t, users.Create(ctx, owner))

	pets := newFakePetRepo()
	mascota := &pet.Pet{
		DuenoID:         owner.ID,
		Nombre:          "Firulais",
		Especie:         "perro",
		FechaNacimiento: "2022-06-15",
	}
	require.NoError(t, pets.Create(ctx, mascota))

	repo := newFakeAppointmentRepo()
	auditSvc := testAudit()
	t.Cleanup(auditSvc.Close)

	svc := NewAppointmentService(repo, pets, newFakeCatalogRepo(), users, auditSvc, testMetrics(), zap.NewNop())
	return &apptFixture{
		svc:       svc,
		repo:      repo,
		pets:      pets,
		clientID:  owner.ID,
		vetUserID: 100, // fakeCatalogRepo's vet 1 belongs to this account
		petID:     mascota.ID,
	}
}

func (f *apptFixture) schedule(t *testing.T, ctx context.Context) *appointment.Appointment {
	t.Helper()
	a, err := f.svc.Schedule(ctx, &appointment.CreateAppointmentCommand{
		MascotaID:     f.petID,
		ServicioID:    1,
		VeterinarioID: 1,
		ClienteID:     f.clientID,
		Fecha:         nextWeekday(),
		Hora:          "10:30",
	}, "127.0.0.1")
	require.NoError(t, err)
	return a
}

func TestScheduleValidation(t *testing.T) {
	ctx := context.Background()
	f := newApptFixture(t)

	base := appointment.CreateAppointmentCommand{
		MascotaID: f.petID, ServicioID: 1, VeterinarioID: 1, ClienteID: f.clientID,
		Fecha: nextWeekday(), Hora: "10:30",
	}

	bad := base
	bad.Fecha = "30/12/2026"
	_, err := f.svc.Schedule(ctx, &bad, "")
	assert.ErrorIs(t, err, appointment.ErrInvalidDate)

	bad = base
	bad.Hora = "10h30"
	_, err = f.svc.Schedule(ctx, &bad, "")
	assert.ErrorIs(t, err, appointment.ErrInvalidTime)

	bad = base
	bad.Fecha = time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	_, err = f.svc.Schedule(ctx, &bad, "")
	assert.ErrorIs(t, err, appointment.ErrNotInFuture)

	bad = base
	bad.ClienteID = f.clientID + 1
	_, err = f.svc.Schedule(ctx, &bad, "")
	assert.Error(t, err)
}

func TestCancelByEitherParty(t *testing.T) {
	ctx := context.Background()
	f := newApptFixture(t)

	a := f.schedule(t, ctx)
	got, err := f.svc.Cancel(ctx, a.ID, f.clientID, domain.RoleClient, "")
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusCancelled, got.Estado)

	b := f.schedule(t, ctx)
	got, err = f.svc.Cancel(ctx, b.ID, f.vetUserID, domain.RoleVeterinarian, "")
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusCancelled, got.Estado)

	// Terminal records stay put.
	_, err = f.svc.Cancel(ctx, a.ID, f.clientID, domain.RoleClient, "")
	assert.ErrorIs(t, err, appointment.ErrNotPending)
}

func TestCancelRequiresParticipation(t *testing.T) {
	ctx := context.Background()
	f := newApptFixture(t)

	a := f.schedule(t, ctx)
	_, err := f.svc.Cancel(ctx, a.ID, f.clientID+7, domain.RoleClient, "")
	assert.ErrorIs(t, err, appointment.ErrForbidden)

	stored, err := f.repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsPending())
}

func TestAttendIsVetOnly(t *testing.T) {
	ctx := context.Background()
	f := newApptFixture(t)

	a := f.schedule(t, ctx)
	cmd := &AttendCommand{Diagnostico: "otitis", Tratamiento: "gotas"}

	_, err := f.svc.Attend(ctx, a.ID, f.clientID, domain.RoleClient, cmd, "")
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := f.svc.Attend(ctx, a.ID, f.vetUserID, domain.RoleVeterinarian, cmd, "")
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusCompleted, got.Estado)
}

func TestAttendSnapshotUsesAppointmentDate(t *testing.T) {
	ctx := context.Background()
	f := newApptFixture(t)

	a := f.schedule(t, ctx)
	got, err := f.svc.Attend(ctx, a.ID, f.vetUserID, domain.RoleVeterinarian,
		&AttendCommand{Diagnostico: "control", Tratamiento: "ninguno"}, "")
	require.NoError(t, err)

	res := got.ClinicalNote()
	require.Equal(t, clinicalnote.KindStructured, res.Kind)
	require.NotNil(t, res.InformacionMascota)
	assert.Equal(t, "Firulais", res.InformacionMascota.Nombre)

	// Age computed against the appointment date, not decode time.
	wantAge := (&pet.Pet{FechaNacimiento: "2022-06-15"}).AgeAt(got.Fecha)
	if wantAge > 0 {
		require.NotNil(t, res.InformacionMascota.Edad)
		assert.Equal(t, wantAge, *res.InformacionMascota.Edad)
	}
}

func TestAttendRequiresDiagnosisAndTreatment(t *testing.T) {
	ctx := context.Background()
	f := newApptFixture(t)

	a := f.schedule(t, ctx)
	_, err := f.svc.Attend(ctx, a.ID, f.vetUserID, domain.RoleVeterinarian,
		&AttendCommand{Diagnostico: "otitis"}, "")
	assert.ErrorIs(t, err, appointment.ErrConsultIncomplete)

	stored, err := f.repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsPending())
	assert.Empty(t, stored.Notas)
}

func TestStatsAndUpcoming(t *testing.T) {
	ctx := context.Background()
	f := newApptFixture(t)

	first := f.schedule(t, ctx)
	f.schedule(t, ctx)
	third := f.schedule(t, ctx)
	f.schedule(t, ctx)

	_, err := f.svc.Cancel(ctx, first.ID, f.clientID, domain.RoleClient, "")
	require.NoError(t, err)
	_, err = f.svc.Attend(ctx, third.ID, f.vetUserID, domain.RoleVeterinarian,
		&AttendCommand{Diagnostico: "d", Tratamiento: "t"}, "")
	require.NoError(t, err)

	stats, err := f.svc.Stats(ctx, f.clientID, domain.RoleClient)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Pendientes)
	assert.Equal(t, int64(1), stats.Completadas)
	assert.Equal(t, int64(1), stats.Canceladas)

	upcoming, err := f.svc.Upcoming(ctx, f.clientID, domain.RoleClient, 3)
	require.NoError(t, err)
	assert.Len(t, upcoming, 2)
	for _, a := range upcoming {
		assert.True(t, a.IsPending())
	}
}

func TestUpcomingOrdersByDateDescending(t *testing.T) {
	ctx := context.Background()
	f := newApptFixture(t)

	near := time.Now().AddDate(0, 0, 10).Format("2006-01-02")
	far := time.Now().AddDate(0, 0, 20).Format("2006-01-02")
	for _, slot := range []struct{ fecha, hora string }{
		{near, "09:00"},
		{far, "15:00"},
		{near, "11:30"},
	} {
		_, err := f.svc.Schedule(ctx, &appointment.CreateAppointmentCommand{
			MascotaID: f.petID, ServicioID: 1, VeterinarioID: 1, ClienteID: f.clientID,
			Fecha: slot.fecha, Hora: slot.hora,
		}, "")
		require.NoError(t, err)
	}

	upcoming, err := f.svc.Upcoming(ctx, f.clientID, domain.RoleClient, 2)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, far, upcoming[0].Fecha)
	assert.Equal(t, near, upcoming[1].Fecha)
	assert.Equal(t, "11:30", upcoming[1].Hora)
}

func TestListOwnScopes(t *testing.T) {
	ctx := context.Background()
	f := newApptFixture(t)
	f.schedule(t, ctx)

	mine, err := f.svc.ListOwn(ctx, f.clientID, domain.RoleClient)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	other, err := f.svc.ListOwn(ctx, f.clientID+5, domain.RoleClient)
	require.NoError(t, err)
	assert.Empty(t, other)

	vets, err := f.svc.ListOwn(ctx, f.vetUserID, domain.RoleVeterinarian)
	require.NoError(t, err)
	assert.Len(t, vets, 1)
}
