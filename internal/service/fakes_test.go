package service

import (
	"context"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"vetcita/internal/domain"
	"vetcita/internal/domain/appointment"
	"vetcita/internal/domain/catalog"
	"vetcita/internal/domain/pet"
	"vetcita/pkg/metrics"
)

type fakeUserRepo struct {
	nextID uint
	users  map[uint]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[uint]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return domain.ErrEmailExists
		}
	}
	u.ID = r.nextID
	r.nextID++
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, u *domain.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

type fakePetRepo struct {
	nextID uint
	pets   map[uint]*pet.Pet
}

func newFakePetRepo() *fakePetRepo {
	return &fakePetRepo{nextID: 1, pets: make(map[uint]*pet.Pet)}
}

func (r *fakePetRepo) Create(_ context.Context, p *pet.Pet) error {
	p.ID = r.nextID
	r.nextID++
	cp := *p
	r.pets[p.ID] = &cp
	return nil
}

func (r *fakePetRepo) GetByID(_ context.Context, id uint) (*pet.Pet, error) {
	p, ok := r.pets[id]
	if !ok || p.DeletedAt != nil {
		return nil, pet.ErrPetNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePetRepo) ListByOwner(_ context.Context, duenoID uint) ([]*pet.Pet, error) {
	var out []*pet.Pet
	for _, p := range r.pets {
		if p.DuenoID == duenoID && p.DeletedAt == nil {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakePetRepo) Update(_ context.Context, p *pet.Pet) error {
	cp := *p
	r.pets[p.ID] = &cp
	return nil
}

func (r *fakePetRepo) SoftDelete(_ context.Context, id uint) error {
	p, ok := r.pets[id]
	if !ok || p.DeletedAt != nil {
		return pet.ErrPetNotFound
	}
	now := time.Now()
	p.DeletedAt = &now
	return nil
}

type fakeCatalogRepo struct {
	services map[uint]*catalog.Service
	vets     map[uint]*catalog.Veterinarian
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		services: map[uint]*catalog.Service{
			1: {ID: 1, Slug: "consulta-general", Nombre: "Consulta General", Activo: true},
			2: {ID: 2, Slug: "vacunacion", Nombre: "Vacunación", Activo: true},
		},
		vets: map[uint]*catalog.Veterinarian{
			1: {ID: 1, UserID: 100, Nombre: "Dra. García", Activo: true},
		},
	}
}

func (r *fakeCatalogRepo) ListServices(context.Context) ([]*catalog.Service, error) {
	var out []*catalog.Service
	for _, s := range r.services {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeCatalogRepo) GetServiceByID(_ context.Context, id uint) (*catalog.Service, error) {
	s, ok := r.services[id]
	if !ok {
		return nil, catalog.ErrServiceNotFound
	}
	return s, nil
}

func (r *fakeCatalogRepo) ListVeterinarians(context.Context) ([]*catalog.Veterinarian, error) {
	var out []*catalog.Veterinarian
	for _, v := range r.vets {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeCatalogRepo) GetVeterinarianByID(_ context.Context, id uint) (*catalog.Veterinarian, error) {
	v, ok := r.vets[id]
	if !ok {
		return nil, catalog.ErrVeterinarianNotFound
	}
	return v, nil
}

func (r *fakeCatalogRepo) GetVeterinarianByUserID(_ context.Context, userID uint) (*catalog.Veterinarian, error) {
	for _, v := range r.vets {
		if v.UserID == userID {
			return v, nil
		}
	}
	return nil, catalog.ErrVeterinarianNotFound
}

func (r *fakeCatalogRepo) SeedDefaults(context.Context) error { return nil }

type fakeAppointmentRepo struct {
	nextID uint
	rows   map[uint]*appointment.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{nextID: 1, rows: make(map[uint]*appointment.Appointment)}
}

func (r *fakeAppointmentRepo) Create(_ context.Context, a *appointment.Appointment) error {
	a.ID = r.nextID
	r.nextID++
	cp := *a
	r.rows[a.ID] = &cp
	return nil
}

func (r *fakeAppointmentRepo) GetByID(_ context.Context, id uint) (*appointment.Appointment, error) {
	a, ok := r.rows[id]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAppointmentRepo) List(_ context.Context, q *appointment.ListAppointmentsQuery) ([]*appointment.Appointment, error) {
	var out []*appointment.Appointment
	for _, a := range r.rows {
		if q.ClienteID != 0 && a.ClienteID != q.ClienteID {
			continue
		}
		if q.VeterinarioID != 0 && a.VeterinarioID != q.VeterinarioID {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeAppointmentRepo) Update(_ context.Context, a *appointment.Appointment) error {
	if _, ok := r.rows[a.ID]; !ok {
		return appointment.ErrAppointmentNotFound
	}
	cp := *a
	r.rows[a.ID] = &cp
	return nil
}

func (r *fakeAppointmentRepo) CountByEstado(ctx context.Context, q *appointment.ListAppointmentsQuery) (*appointment.StatusCounts, error) {
	rows, err := r.List(ctx, q)
	if err != nil {
		return nil, err
	}
	counts := &appointment.StatusCounts{}
	for _, a := range rows {
		switch a.EffectiveStatus() {
		case appointment.StatusPending:
			counts.Pendientes++
		case appointment.StatusCompleted:
			counts.Completadas++
		case appointment.StatusCancelled:
			counts.Canceladas++
		}
	}
	return counts, nil
}

func (r *fakeAppointmentRepo) ListPendingOnDate(_ context.Context, fecha string) ([]*appointment.Appointment, error) {
	var out []*appointment.Appointment
	for _, a := range r.rows {
		if a.Fecha == fecha && a.IsPending() {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeAuditRepo struct {
	logs []*domain.AuditLog
}

func (r *fakeAuditRepo) Insert(_ context.Context, log *domain.AuditLog) error {
	r.logs = append(r.logs, log)
	return nil
}

func testMetrics() *metrics.Metrics {
	return metrics.New(prometheus.NewRegistry())
}

func testAudit() *AuditService {
	return NewAuditService(&fakeAuditRepo{}, zap.NewNop())
}
