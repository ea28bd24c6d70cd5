package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"vetcita/internal/booking"
	"vetcita/internal/domain/appointment"
	"vetcita/internal/domain/catalog"
	"vetcita/internal/domain/pet"
	"vetcita/internal/session"
	"vetcita/pkg/metrics"
)

// BookingService drives one wizard per user: every operation loads the
// draft, applies a transition and saves the result, so the stored draft is
// always a consistent state.
type BookingService struct {
	drafts   booking.Store
	sessions *session.Store
	petRepo  pet.Repository
	apptSvc  *AppointmentService
	metrics  *metrics.Metrics
	log      *zap.Logger
	clock    booking.Clock
}

func NewBookingService(
	drafts booking.Store,
	sessions *session.Store,
	petRepo pet.Repository,
	apptSvc *AppointmentService,
	m *metrics.Metrics,
	log *zap.Logger,
	clock booking.Clock,
) *BookingService {
	if clock == nil {
		clock = time.Now
	}
	s := &BookingService{
		drafts:   drafts,
		sessions: sessions,
		petRepo:  petRepo,
		apptSvc:  apptSvc,
		metrics:  m,
		log:      log,
		clock:    clock,
	}

	// A logout abandons any booking in progress.
	sessions.Subscribe(func(ev session.Event) {
		if ev.Type != session.EventLogout {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.drafts.Delete(ctx, ev.UserID); err != nil {
			s.log.Warn("failed to discard booking draft on logout",
				zap.Uint("user_id", ev.UserID), zap.Error(err))
		}
	})
	return s
}

// State returns the user's wizard, starting a fresh one if none exists.
func (s *BookingService) State(ctx context.Context, userID uint) (*booking.Wizard, error) {
	w, err := s.drafts.Get(ctx, userID)
	if errors.Is(err, booking.ErrDraftNotFound) {
		return booking.New(s.clock), nil
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

// withWizard runs one transition against the stored draft and persists the
// outcome. The transition error is returned alongside the updated state:
// failed preconditions still change the state (alerts) and must be saved.
func (s *BookingService) withWizard(ctx context.Context, userID uint, fn func(*booking.Wizard) error) (*booking.Wizard, error) {
	w, err := s.State(ctx, userID)
	if err != nil {
		return nil, err
	}
	opErr := fn(w)
	if err := s.drafts.Save(ctx, userID, w); err != nil {
		return nil, fmt.Errorf("saving booking draft: %w", err)
	}
	return w, opErr
}

// SelectPet verifies ownership and opens the pet confirmation dialog.
func (s *BookingService) SelectPet(ctx context.Context, userID, petID uint) (*booking.Wizard, error) {
	p, err := s.petRepo.GetByID(ctx, petID)
	if err != nil {
		return nil, err
	}
	if p.DuenoID != userID {
		return nil, pet.ErrNotOwner
	}
	return s.withWizard(ctx, userID, func(w *booking.Wizard) error {
		return w.SelectPet(petID)
	})
}

func (s *BookingService) ConfirmPet(ctx context.Context, userID uint) (*booking.Wizard, error) {
	return s.withWizard(ctx, userID, func(w *booking.Wizard) error { return w.ConfirmPet() })
}

func (s *BookingService) DeclinePet(ctx context.Context, userID uint) (*booking.Wizard, error) {
	return s.withWizard(ctx, userID, func(w *booking.Wizard) error { return w.DeclinePet() })
}

func (s *BookingService) SetService(ctx context.Context, userID uint, servicio string) (*booking.Wizard, error) {
	if _, err := catalog.ResolveServiceID(servicio); err != nil {
		return nil, err
	}
	return s.withWizard(ctx, userID, func(w *booking.Wizard) error { return w.SetService(servicio) })
}

func (s *BookingService) SetVeterinarian(ctx context.Context, userID, vetID uint) (*booking.Wizard, error) {
	return s.withWizard(ctx, userID, func(w *booking.Wizard) error { return w.SetVeterinarian(vetID) })
}

func (s *BookingService) SetDateTime(ctx context.Context, userID uint, fecha, hora string) (*booking.Wizard, error) {
	return s.withWizard(ctx, userID, func(w *booking.Wizard) error {
		if fecha != "" {
			if err := w.SetDate(fecha); err != nil {
				return err
			}
		}
		if hora != "" {
			return w.SetTime(hora)
		}
		return nil
	})
}

func (s *BookingService) Advance(ctx context.Context, userID uint) (*booking.Wizard, error) {
	return s.withWizard(ctx, userID, func(w *booking.Wizard) error {
		w.Advance()
		return nil
	})
}

func (s *BookingService) Retreat(ctx context.Context, userID uint) (*booking.Wizard, error) {
	return s.withWizard(ctx, userID, func(w *booking.Wizard) error {
		w.Retreat()
		return nil
	})
}

func (s *BookingService) RequestCancel(ctx context.Context, userID uint) (*booking.Wizard, error) {
	return s.withWizard(ctx, userID, func(w *booking.Wizard) error { return w.RequestCancel() })
}

func (s *BookingService) ConfirmCancel(ctx context.Context, userID uint) (*booking.Wizard, error) {
	return s.withWizard(ctx, userID, func(w *booking.Wizard) error { return w.ConfirmCancel() })
}

func (s *BookingService) DeclineCancel(ctx context.Context, userID uint) (*booking.Wizard, error) {
	return s.withWizard(ctx, userID, func(w *booking.Wizard) error { return w.DeclineCancel() })
}

// Submit turns a complete draft into an appointment. The draft survives
// every failure so the user can retry; only success clears it.
func (s *BookingService) Submit(ctx context.Context, userID uint, ip string) (*booking.Wizard, *appointment.Appointment, error) {
	w, err := s.State(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	var created *appointment.Appointment
	submitErr := func() error {
		if err := w.BeginSubmit(); err != nil {
			return err
		}
		if _, err := s.sessions.Get(ctx, userID); err != nil {
			w.FailSubmitUnauthenticated()
			return ErrUnauthenticated
		}
		servicioID, err := catalog.ResolveServiceID(w.Draft.Servicio)
		if err != nil {
			w.FailSubmit("Servicio no válido")
			return err
		}
		created, err = s.apptSvc.Schedule(ctx, &appointment.CreateAppointmentCommand{
			MascotaID:     w.Draft.MascotaID,
			ServicioID:    servicioID,
			VeterinarioID: w.Draft.VeterinarioID,
			ClienteID:     userID,
			Fecha:         w.Draft.Fecha,
			Hora:          w.Draft.Hora,
		}, ip)
		if err != nil {
			w.FailSubmit("Error al agendar la cita. Intenta nuevamente.")
			return err
		}
		w.CompleteSubmit()
		return nil
	}()

	if err := s.drafts.Save(ctx, userID, w); err != nil {
		return nil, nil, fmt.Errorf("saving booking draft: %w", err)
	}

	if submitErr != nil {
		s.metrics.BookingsSubmitted.WithLabelValues("error").Inc()
		return w, nil, submitErr
	}
	s.metrics.BookingsSubmitted.WithLabelValues("success").Inc()
	return w, created, nil
}
