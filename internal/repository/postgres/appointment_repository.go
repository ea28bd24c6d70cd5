package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"vetcita/internal/domain/appointment"
)

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func (r *AppointmentRepository) Create(ctx context.Context, a *appointment.Appointment) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("inserting appointment: %w", err)
	}
	return nil
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id uint) (*appointment.Appointment, error) {
	var a appointment.Appointment
	err := r.db.WithContext(ctx).First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appointment.ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying appointment: %w", err)
	}
	return &a, nil
}

func scoped(db *gorm.DB, q *appointment.ListAppointmentsQuery) *gorm.DB {
	if q.ClienteID != 0 {
		db = db.Where("cliente_id = ?", q.ClienteID)
	}
	if q.VeterinarioID != 0 {
		db = db.Where("veterinario_id = ?", q.VeterinarioID)
	}
	if q.Estado != nil {
		if *q.Estado == appointment.StatusPending {
			// Legacy "confirmada" rows count as pending.
			db = db.Where("estado IN ?", []appointment.Status{
				appointment.StatusPending, appointment.StatusLegacyConfirmed,
			})
		} else {
			db = db.Where("estado = ?", *q.Estado)
		}
	}
	if q.FechaDesde != "" {
		db = db.Where("fecha >= ?", q.FechaDesde)
	}
	if q.FechaHasta != "" {
		db = db.Where("fecha <= ?", q.FechaHasta)
	}
	return db
}

func (r *AppointmentRepository) List(ctx context.Context, q *appointment.ListAppointmentsQuery) ([]*appointment.Appointment, error) {
	var rows []*appointment.Appointment
	err := scoped(r.db.WithContext(ctx), q).
		Order("fecha DESC, hora DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing appointments: %w", err)
	}
	return rows, nil
}

func (r *AppointmentRepository) Update(ctx context.Context, a *appointment.Appointment) error {
	if err := r.db.WithContext(ctx).Save(a).Error; err != nil {
		return fmt.Errorf("updating appointment: %w", err)
	}
	return nil
}

func (r *AppointmentRepository) CountByEstado(ctx context.Context, q *appointment.ListAppointmentsQuery) (*appointment.StatusCounts, error) {
	type row struct {
		Estado appointment.Status
		N      int64
	}
	var rows []row
	err := scoped(r.db.WithContext(ctx).Model(&appointment.Appointment{}), q).
		Select("estado, COUNT(*) AS n").
		Group("estado").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("counting appointments: %w", err)
	}

	counts := &appointment.StatusCounts{}
	for _, r := range rows {
		switch r.Estado {
		case appointment.StatusPending, appointment.StatusLegacyConfirmed:
			counts.Pendientes += r.N
		case appointment.StatusCompleted:
			counts.Completadas += r.N
		case appointment.StatusCancelled:
			counts.Canceladas += r.N
		}
	}
	return counts, nil
}

func (r *AppointmentRepository) ListPendingOnDate(ctx context.Context, fecha string) ([]*appointment.Appointment, error) {
	var rows []*appointment.Appointment
	err := r.db.WithContext(ctx).
		Where("fecha = ? AND estado IN ?", fecha, []appointment.Status{
			appointment.StatusPending, appointment.StatusLegacyConfirmed,
		}).
		Order("hora ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing pending appointments: %w", err)
	}
	return rows, nil
}
