// Package booking implements the appointment booking wizard as an explicit
// state machine. The wizard walks a client through five steps, accumulating a
// draft that only becomes an appointment on submit; until then nothing is
// persisted to the schedule.
package booking

import (
	"fmt"
	"time"
)

type Step int

const (
	StepSelectPet Step = iota + 1
	StepSelectService
	StepSelectVeterinarian
	StepSelectDateTime
	StepConfirm
)

// Clock supplies the current time. Injectable so alert expiry and the
// minimum-date rule are testable.
type Clock func() time.Time

type AlertLevel string

const (
	AlertSuccess AlertLevel = "success"
	AlertWarning AlertLevel = "warning"
	AlertError   AlertLevel = "error"
)

const (
	successAlertTTL = 4 * time.Second
	defaultAlertTTL = 5 * time.Second
)

// Alert is a transient user-facing message. At most one exists at a time; a
// newer alert replaces the older one together with its expiry.
type Alert struct {
	Level     AlertLevel `json:"level"`
	Message   string     `json:"message"`
	ExpiresAt time.Time  `json:"expiresAt"`
}

// Draft holds the choices made so far. Servicio keeps the raw identifier the
// client sent (slug or numeric string); it is resolved at submit time.
type Draft struct {
	MascotaID     uint   `json:"mascotaId,omitempty"`
	Servicio      string `json:"servicio,omitempty"`
	VeterinarioID uint   `json:"veterinarioId,omitempty"`
	Fecha         string `json:"fecha,omitempty"`
	Hora          string `json:"hora,omitempty"`
}

// IsComplete reports whether every field needed for submission is present.
func (d Draft) IsComplete() bool {
	return d.MascotaID != 0 && d.Servicio != "" && d.VeterinarioID != 0 &&
		d.Fecha != "" && d.Hora != ""
}

// Wizard is one user's in-progress booking. It serializes to JSON for the
// draft store; the clock is reattached on load.
type Wizard struct {
	Step  Step  `json:"step"`
	Draft Draft `json:"draft"`

	// TentativePetID is a pet picked at step 1 but not yet confirmed in
	// the confirmation dialog. Zero when no dialog is open.
	TentativePetID uint `json:"tentativePetId,omitempty"`

	// CancelPrompt is true while the step-5 cancel confirmation dialog
	// is open.
	CancelPrompt bool `json:"cancelPrompt,omitempty"`

	Alert *Alert `json:"alert,omitempty"`

	now Clock
}

// New starts a wizard at step 1. A nil clock means time.Now.
func New(clock Clock) *Wizard {
	w := &Wizard{Step: StepSelectPet}
	w.AttachClock(clock)
	return w
}

// AttachClock sets the wizard's clock, defaulting to time.Now. Call after
// deserializing from a store.
func (w *Wizard) AttachClock(clock Clock) {
	if clock == nil {
		clock = time.Now
	}
	w.now = clock
}

func (w *Wizard) setAlert(level AlertLevel, msg string) {
	ttl := defaultAlertTTL
	if level == AlertSuccess {
		ttl = successAlertTTL
	}
	w.Alert = &Alert{Level: level, Message: msg, ExpiresAt: w.now().Add(ttl)}
}

// ActiveAlert returns the current alert, or nil once it has expired. Expiry
// is evaluated on read; an expired alert is also dropped from the state.
func (w *Wizard) ActiveAlert() *Alert {
	if w.Alert == nil {
		return nil
	}
	if !w.now().Before(w.Alert.ExpiresAt) {
		w.Alert = nil
		return nil
	}
	return w.Alert
}

// SelectPet records a tentative pet choice and opens the confirmation
// dialog. Only valid at step 1.
func (w *Wizard) SelectPet(petID uint) error {
	if w.Step != StepSelectPet {
		return ErrWrongStep
	}
	if petID == 0 {
		return ErrNoPetSelected
	}
	w.TentativePetID = petID
	return nil
}

// ConfirmPet commits the tentative pet to the draft and advances to the
// service step.
func (w *Wizard) ConfirmPet() error {
	if w.Step != StepSelectPet {
		return ErrWrongStep
	}
	if w.TentativePetID == 0 {
		return ErrNoPetSelected
	}
	w.Draft.MascotaID = w.TentativePetID
	w.TentativePetID = 0
	w.Step = StepSelectService
	return nil
}

// DeclinePet discards the tentative pet and closes the dialog. The wizard
// stays at step 1.
func (w *Wizard) DeclinePet() error {
	if w.Step != StepSelectPet {
		return ErrWrongStep
	}
	w.TentativePetID = 0
	return nil
}

// SetService records the chosen service identifier. Only valid at step 2.
func (w *Wizard) SetService(servicio string) error {
	if w.Step != StepSelectService {
		return ErrWrongStep
	}
	w.Draft.Servicio = servicio
	return nil
}

// SetVeterinarian records the chosen veterinarian. Only valid at step 3.
func (w *Wizard) SetVeterinarian(vetID uint) error {
	if w.Step != StepSelectVeterinarian {
		return ErrWrongStep
	}
	w.Draft.VeterinarioID = vetID
	return nil
}

// SetDate records the appointment date. The clinic only books weekdays, and
// never sooner than tomorrow.
func (w *Wizard) SetDate(fecha string) error {
	if w.Step != StepSelectDateTime {
		return ErrWrongStep
	}
	d, err := time.Parse("2006-01-02", fecha)
	if err != nil {
		return ErrInvalidDate
	}
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return ErrWeekendDate
	}
	if fecha <= w.now().Format("2006-01-02") {
		return ErrDateTooSoon
	}
	w.Draft.Fecha = fecha
	return nil
}

// SetTime records the appointment time, which must land on the clinic's
// half-hour grid. Only valid at step 4.
func (w *Wizard) SetTime(hora string) error {
	if w.Step != StepSelectDateTime {
		return ErrWrongStep
	}
	if !validSlot(hora) {
		return ErrInvalidSlot
	}
	w.Draft.Hora = hora
	return nil
}

const (
	openingHour = 8
	closingHour = 22
)

// Slots returns the bookable times of a clinic day, every half hour from
// opening to closing inclusive.
func Slots() []string {
	out := make([]string, 0, (closingHour-openingHour)*2+1)
	for h := openingHour; h < closingHour; h++ {
		out = append(out, fmt.Sprintf("%02d:00", h), fmt.Sprintf("%02d:30", h))
	}
	return append(out, fmt.Sprintf("%02d:00", closingHour))
}

func validSlot(hora string) bool {
	for _, s := range Slots() {
		if s == hora {
			return true
		}
	}
	return false
}

// Advance moves to the next step when the current step's choice has been
// made. A missing choice leaves both step and draft untouched and raises a
// single warning; Advance reports whether the wizard moved.
func (w *Wizard) Advance() bool {
	switch w.Step {
	case StepSelectPet:
		// Step 1 advances through ConfirmPet only.
		return false
	case StepSelectService:
		if w.Draft.Servicio == "" {
			w.setAlert(AlertWarning, "Por favor, selecciona un servicio")
			return false
		}
	case StepSelectVeterinarian:
		if w.Draft.VeterinarioID == 0 {
			w.setAlert(AlertWarning, "Por favor, selecciona un veterinario")
			return false
		}
	case StepSelectDateTime:
		if w.Draft.Fecha == "" || w.Draft.Hora == "" {
			w.setAlert(AlertWarning, "Por favor, selecciona una fecha y hora")
			return false
		}
	case StepConfirm:
		return false
	}
	w.Step++
	return true
}

// Retreat moves one step back, clearing exactly the choices captured at the
// step being left. Earlier choices survive. At step 1 it is a no-op.
func (w *Wizard) Retreat() {
	switch w.Step {
	case StepSelectPet:
		return
	case StepSelectService:
		w.Draft.Servicio = ""
	case StepSelectVeterinarian:
		w.Draft.VeterinarioID = 0
	case StepSelectDateTime:
		w.Draft.Fecha = ""
		w.Draft.Hora = ""
	case StepConfirm:
		// Step 5 captures nothing of its own.
	}
	w.Step--
}

// RequestCancel opens the abandon-booking dialog. Only offered at the
// confirmation step.
func (w *Wizard) RequestCancel() error {
	if w.Step != StepConfirm {
		return ErrWrongStep
	}
	w.CancelPrompt = true
	return nil
}

// ConfirmCancel abandons the booking: the draft is cleared and the wizard
// returns to step 1.
func (w *Wizard) ConfirmCancel() error {
	if !w.CancelPrompt {
		return ErrNoCancelPrompt
	}
	w.Reset()
	return nil
}

// DeclineCancel closes the dialog and keeps the draft; the wizard stays at
// the confirmation step.
func (w *Wizard) DeclineCancel() error {
	if !w.CancelPrompt {
		return ErrNoCancelPrompt
	}
	w.CancelPrompt = false
	return nil
}

// Reset returns the wizard to a fresh step 1 with an empty draft. The
// current alert is kept so a just-raised message survives the reset.
func (w *Wizard) Reset() {
	w.Step = StepSelectPet
	w.Draft = Draft{}
	w.TentativePetID = 0
	w.CancelPrompt = false
}

// BeginSubmit validates that the draft is ready to be sent. It does not
// perform the submission; the booking service owns transport and session
// concerns and reports the outcome via CompleteSubmit or FailSubmit.
func (w *Wizard) BeginSubmit() error {
	if w.Step != StepConfirm {
		return ErrWrongStep
	}
	if !w.Draft.IsComplete() {
		w.setAlert(AlertWarning, "Por favor, completa todos los campos de la cita")
		return ErrDraftIncomplete
	}
	return nil
}

// FailSubmitUnauthenticated records a missing session. The wizard stays at
// the confirmation step with the draft intact.
func (w *Wizard) FailSubmitUnauthenticated() {
	w.setAlert(AlertError, "Error: Usuario no autenticado")
}

// FailSubmit records a submission failure. The wizard stays at the
// confirmation step with the draft intact so the user can retry.
func (w *Wizard) FailSubmit(msg string) {
	if msg == "" {
		msg = "Error al agendar la cita. Intenta nuevamente."
	}
	w.setAlert(AlertError, msg)
}

// CompleteSubmit records a successful booking: the draft is cleared, the
// wizard returns to step 1 and a success alert is raised.
func (w *Wizard) CompleteSubmit() {
	w.Reset()
	w.setAlert(AlertSuccess, "¡Cita agendada exitosamente!")
}
