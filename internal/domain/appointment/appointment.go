package appointment

import (
	"strings"
	"time"

	"vetcita/internal/domain/clinicalnote"
)

// Status is the lifecycle state of an appointment. The stored vocabulary
// includes the legacy value "confirmada" written by an older backend; it is
// read as pending everywhere but never written by this service.
type Status string

const (
	StatusPending   Status = "pendiente"
	StatusCompleted Status = "completada"
	StatusCancelled Status = "cancelada"

	// StatusLegacyConfirmed still exists in old rows. Treated as pending.
	StatusLegacyConfirmed Status = "confirmada"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled, StatusLegacyConfirmed:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type Appointment struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`

	MascotaID     uint `gorm:"column:mascota_id;not null;index" json:"mascotaId"`
	ServicioID    uint `gorm:"column:servicio_id;not null" json:"servicioId"`
	VeterinarioID uint `gorm:"column:veterinario_id;not null;index" json:"veterinarioId"`
	ClienteID     uint `gorm:"column:cliente_id;not null;index" json:"clienteId"`

	// Denormalized display names. Captured at creation so lists render
	// without joins and stay stable if the directories change later.
	Mascota     string `gorm:"column:mascota;type:varchar(100);not null" json:"mascota"`
	Servicio    string `gorm:"column:servicio;type:varchar(100);not null" json:"servicio"`
	Veterinario string `gorm:"column:veterinario;type:varchar(100);not null" json:"veterinario"`
	Cliente     string `gorm:"column:cliente;type:varchar(100);not null" json:"cliente"`
	MascotaFoto string `gorm:"column:mascota_foto;type:text" json:"mascotaFoto,omitempty"`

	// Fecha is a calendar date (YYYY-MM-DD) and Hora a 24h wall time
	// (HH:MM). They are kept as the wire strings: the clinic schedules in
	// local civil time and no timezone math belongs here.
	Fecha string `gorm:"column:fecha;type:varchar(10);not null;index" json:"fecha"`
	Hora  string `gorm:"column:hora;type:varchar(5);not null" json:"hora"`

	Estado Status `gorm:"column:estado;type:varchar(20);not null;default:'pendiente';index" json:"estado"`

	// Notas is free text. For completed appointments it carries the
	// encoded clinical note payload.
	Notas string `gorm:"column:notas;type:text" json:"notas,omitempty"`
}

func (Appointment) TableName() string {
	return "clinical.citas"
}

// EffectiveStatus maps the legacy "confirmada" value onto pending so that
// filtering and transition checks see a three-state machine.
func (a *Appointment) EffectiveStatus() Status {
	if a.Estado == StatusLegacyConfirmed {
		return StatusPending
	}
	return a.Estado
}

func (a *Appointment) IsPending() bool {
	return a.EffectiveStatus() == StatusPending
}

// CanTransitionTo reports whether the move is legal. Only pending records
// move, and only to a terminal state.
func (a *Appointment) CanTransitionTo(next Status) bool {
	return a.IsPending() && next.IsTerminal()
}

// Cancel marks a pending appointment cancelled. Notes are left untouched.
func (a *Appointment) Cancel() error {
	if !a.CanTransitionTo(StatusCancelled) {
		return ErrNotPending
	}
	a.Estado = StatusCancelled
	return nil
}

// Attend completes a pending appointment with the consult outcome. Both
// diagnosis and treatment are mandatory; the notes field is overwritten with
// the encoded clinical payload, including the patient snapshot taken at the
// appointment's date.
func (a *Appointment) Attend(diagnostico, tratamiento string, snap *clinicalnote.Snapshot) error {
	if !a.CanTransitionTo(StatusCompleted) {
		return ErrNotPending
	}
	if strings.TrimSpace(diagnostico) == "" || strings.TrimSpace(tratamiento) == "" {
		return ErrConsultIncomplete
	}
	notas, err := clinicalnote.Encode(diagnostico, tratamiento, snap)
	if err != nil {
		return err
	}
	a.Notas = notas
	a.Estado = StatusCompleted
	return nil
}

// ClinicalNote decodes whatever the notes field holds. Never fails; see
// clinicalnote.Result.
func (a *Appointment) ClinicalNote() clinicalnote.Result {
	return clinicalnote.Decode(a.Notas)
}

type CreateAppointmentCommand struct {
	MascotaID     uint
	ServicioID    uint
	VeterinarioID uint
	ClienteID     uint
	Fecha         string
	Hora          string
}

// ListAppointmentsQuery scopes a listing to one side of the schedule. Exactly
// one of ClienteID / VeterinarioID is set for role-scoped reads; both zero
// means unscoped (jobs, admin tooling).
type ListAppointmentsQuery struct {
	ClienteID     uint
	VeterinarioID uint
	Estado        *Status
	FechaDesde    string
	FechaHasta    string
}

type StatusCounts struct {
	Pendientes  int64
	Completadas int64
	Canceladas  int64
}
