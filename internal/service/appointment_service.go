package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"vetcita/internal/domain"
	"vetcita/internal/domain/appointment"
	"vetcita/internal/domain/catalog"
	"vetcita/internal/domain/pet"
	"vetcita/pkg/metrics"
)

type AppointmentService struct {
	repo        appointment.Repository
	petRepo     pet.Repository
	catalogRepo catalog.Repository
	users       domain.UserRepository
	auditSvc    *AuditService
	metrics     *metrics.Metrics
	log         *zap.Logger
}

func NewAppointmentService(
	repo appointment.Repository,
	petRepo pet.Repository,
	catalogRepo catalog.Repository,
	users domain.UserRepository,
	auditSvc *AuditService,
	m *metrics.Metrics,
	log *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		repo:        repo,
		petRepo:     petRepo,
		catalogRepo: catalogRepo,
		users:       users,
		auditSvc:    auditSvc,
		metrics:     m,
		log:         log,
	}
}

// Schedule creates a pending appointment. Display names are denormalized
// from the pet, catalog and user directories at this moment so the record
// renders without joins for the rest of its life.
func (s *AppointmentService) Schedule(ctx context.Context, cmd *appointment.CreateAppointmentCommand, ip string) (*appointment.Appointment, error) {
	if _, err := time.Parse("2006-01-02", cmd.Fecha); err != nil {
		return nil, appointment.ErrInvalidDate
	}
	if _, err := time.Parse("15:04", cmd.Hora); err != nil {
		return nil, appointment.ErrInvalidTime
	}
	at, err := time.ParseInLocation("2006-01-02 15:04", cmd.Fecha+" "+cmd.Hora, time.Local)
	if err != nil || !at.After(time.Now()) {
		return nil, appointment.ErrNotInFuture
	}

	p, err := s.petRepo.GetByID(ctx, cmd.MascotaID)
	if err != nil {
		return nil, fmt.Errorf("verifying pet: %w", err)
	}
	if p.DuenoID != cmd.ClienteID {
		return nil, pet.ErrNotOwner
	}
	svc, err := s.catalogRepo.GetServiceByID(ctx, cmd.ServicioID)
	if err != nil {
		return nil, fmt.Errorf("verifying service: %w", err)
	}
	vet, err := s.catalogRepo.GetVeterinarianByID(ctx, cmd.VeterinarioID)
	if err != nil {
		return nil, fmt.Errorf("verifying veterinarian: %w", err)
	}
	owner, err := s.users.GetByID(ctx, cmd.ClienteID)
	if err != nil {
		return nil, fmt.Errorf("verifying client: %w", err)
	}

	a := &appointment.Appointment{
		MascotaID:     p.ID,
		ServicioID:    svc.ID,
		VeterinarioID: vet.ID,
		ClienteID:     owner.ID,
		Mascota:       p.Nombre,
		Servicio:      svc.Nombre,
		Veterinario:   vet.Nombre,
		Cliente:       owner.Nombre,
		MascotaFoto:   p.Foto,
		Fecha:         cmd.Fecha,
		Hora:          cmd.Hora,
		Estado:        appointment.StatusPending,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		s.log.Error("failed to create appointment", zap.Error(err))
		return nil, fmt.Errorf("creating appointment: %w", err)
	}

	s.metrics.AppointmentsCreated.Inc()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: owner.ID, UserRole: domain.RoleClient,
		Action: domain.ActionCreate, ResourceType: "appointment", ResourceID: fmt.Sprint(a.ID), IPAddress: ip,
	})
	return a, nil
}

// authorize checks that the caller is a party to the appointment: clients
// see their own, veterinarians see their own schedule.
func (s *AppointmentService) authorize(ctx context.Context, a *appointment.Appointment, callerID uint, callerRole domain.Role) error {
	switch callerRole {
	case domain.RoleClient:
		if a.ClienteID != callerID {
			return appointment.ErrForbidden
		}
	case domain.RoleVeterinarian:
		vet, err := s.catalogRepo.GetVeterinarianByUserID(ctx, callerID)
		if err != nil {
			return appointment.ErrForbidden
		}
		if a.VeterinarioID != vet.ID {
			return appointment.ErrForbidden
		}
	default:
		return appointment.ErrForbidden
	}
	return nil
}

func (s *AppointmentService) Get(ctx context.Context, id, callerID uint, callerRole domain.Role) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, a, callerID, callerRole); err != nil {
		return nil, err
	}
	return a, nil
}

// scopeFor builds the repository query for the caller's side of the
// schedule.
func (s *AppointmentService) scopeFor(ctx context.Context, callerID uint, callerRole domain.Role) (*appointment.ListAppointmentsQuery, error) {
	switch callerRole {
	case domain.RoleClient:
		return &appointment.ListAppointmentsQuery{ClienteID: callerID}, nil
	case domain.RoleVeterinarian:
		vet, err := s.catalogRepo.GetVeterinarianByUserID(ctx, callerID)
		if err != nil {
			return nil, fmt.Errorf("resolving veterinarian: %w", err)
		}
		return &appointment.ListAppointmentsQuery{VeterinarioID: vet.ID}, nil
	}
	return nil, ErrForbidden
}

// ListOwn returns the caller's full role-scoped snapshot, newest first. View
// partitioning, secondary filtering and pagination happen over this snapshot
// in the handler, so every derived listing observes the same state.
func (s *AppointmentService) ListOwn(ctx context.Context, callerID uint, callerRole domain.Role) ([]*appointment.Appointment, error) {
	q, err := s.scopeFor(ctx, callerID, callerRole)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("listing appointments: %w", err)
	}
	for _, a := range rows {
		if res := a.ClinicalNote(); res.Err != nil {
			s.metrics.NoteDecodeFailures.Inc()
			s.log.Warn("unparseable clinical note",
				zap.Uint("appointment_id", a.ID),
				zap.Error(res.Err),
			)
		}
	}
	return rows, nil
}

// Cancel moves a pending appointment to cancelled. Either party may cancel;
// the notes field is left untouched. The returned record is re-read from the
// store after the transition.
func (s *AppointmentService) Cancel(ctx context.Context, id, callerID uint, callerRole domain.Role, ip string) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, a, callerID, callerRole); err != nil {
		return nil, err
	}
	if err := a.Cancel(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("updating appointment: %w", err)
	}

	s.metrics.AppointmentsByStatus.WithLabelValues(string(appointment.StatusCancelled)).Inc()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: domain.ActionUpdate, ResourceType: "appointment", ResourceID: fmt.Sprint(id), IPAddress: ip,
		Changes: `{"estado":"cancelada"}`,
	})
	return s.repo.GetByID(ctx, id)
}

type AttendCommand struct {
	Diagnostico string
	Tratamiento string
}

// Attend completes a pending appointment with the consult outcome. Only the
// attending veterinarian may do this. The notes field is overwritten with
// the encoded clinical payload; the pet snapshot inside it is taken against
// the appointment's date.
func (s *AppointmentService) Attend(ctx context.Context, id, callerID uint, callerRole domain.Role, cmd *AttendCommand, ip string) (*appointment.Appointment, error) {
	if callerRole != domain.RoleVeterinarian {
		return nil, ErrForbidden
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, a, callerID, callerRole); err != nil {
		return nil, err
	}

	p, err := s.petRepo.GetByID(ctx, a.MascotaID)
	if err != nil && !errors.Is(err, pet.ErrPetNotFound) {
		return nil, fmt.Errorf("loading pet: %w", err)
	}
	// A deleted pet still gets a minimal snapshot from the denormalized
	// fields so the clinical record stays self-contained.
	var snap *pet.Pet
	if err == nil {
		snap = p
	} else {
		snap = &pet.Pet{Nombre: a.Mascota}
	}

	if err := a.Attend(cmd.Diagnostico, cmd.Tratamiento, snap.SnapshotAt(a.Fecha)); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("updating appointment: %w", err)
	}

	s.metrics.AppointmentsByStatus.WithLabelValues(string(appointment.StatusCompleted)).Inc()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: domain.ActionUpdate, ResourceType: "appointment", ResourceID: fmt.Sprint(id), IPAddress: ip,
		Changes: `{"estado":"completada"}`,
	})
	return s.repo.GetByID(ctx, id)
}

// Stats aggregates the caller's appointment counts by status for the
// dashboard.
func (s *AppointmentService) Stats(ctx context.Context, callerID uint, callerRole domain.Role) (*appointment.StatusCounts, error) {
	q, err := s.scopeFor(ctx, callerID, callerRole)
	if err != nil {
		return nil, err
	}
	return s.repo.CountByEstado(ctx, q)
}

// Upcoming returns the caller's pending future appointments, at most limit
// entries, ordered fecha then hora descending like the listings.
func (s *AppointmentService) Upcoming(ctx context.Context, callerID uint, callerRole domain.Role, limit int) ([]*appointment.Appointment, error) {
	rows, err := s.ListOwn(ctx, callerID, callerRole)
	if err != nil {
		return nil, err
	}
	today := time.Now().Format("2006-01-02")
	pending := make([]*appointment.Appointment, 0, limit)
	for _, a := range rows {
		if a.IsPending() && a.Fecha >= today {
			pending = append(pending, a)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].Fecha != pending[j].Fecha {
			return pending[i].Fecha > pending[j].Fecha
		}
		return pending[i].Hora > pending[j].Hora
	})
	if len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}
