// Package jobs holds the service's scheduled background work.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"vetcita/internal/domain/appointment"
	"vetcita/pkg/metrics"
)

// Notifier delivers a reminder to the appointment's client. The production
// wiring plugs in the clinic's mailer; tests use a recorder.
type Notifier interface {
	NotifyAppointment(ctx context.Context, a *appointment.Appointment) error
}

// LogNotifier is the default Notifier: it only logs. Kept until the clinic's
// mail provider is integrated.
type LogNotifier struct {
	Log *zap.Logger
}

func (n *LogNotifier) NotifyAppointment(_ context.Context, a *appointment.Appointment) error {
	n.Log.Info("appointment reminder",
		zap.Uint("appointment_id", a.ID),
		zap.String("cliente", a.Cliente),
		zap.String("fecha", a.Fecha),
		zap.String("hora", a.Hora),
	)
	return nil
}

// Reminder scans for next-day pending appointments on a cron schedule and
// notifies their clients.
type Reminder struct {
	repo     appointment.Repository
	notifier Notifier
	metrics  *metrics.Metrics
	log      *zap.Logger
	cron     *cron.Cron
}

func NewReminder(repo appointment.Repository, notifier Notifier, m *metrics.Metrics, log *zap.Logger) *Reminder {
	return &Reminder{
		repo:     repo,
		notifier: notifier,
		metrics:  m,
		log:      log,
		cron:     cron.New(),
	}
}

// Start registers the job under the given cron spec and starts the
// scheduler.
func (r *Reminder) Start(spec string) error {
	if _, err := r.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := r.Run(ctx); err != nil {
			r.log.Error("reminder run failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("scheduling reminder job: %w", err)
	}
	r.cron.Start()
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (r *Reminder) Stop() {
	<-r.cron.Stop().Done()
}

// Run sends reminders for every pending appointment scheduled tomorrow.
func (r *Reminder) Run(ctx context.Context) error {
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	rows, err := r.repo.ListPendingOnDate(ctx, tomorrow)
	if err != nil {
		return fmt.Errorf("loading tomorrow's appointments: %w", err)
	}

	var failed int
	for _, a := range rows {
		if err := r.notifier.NotifyAppointment(ctx, a); err != nil {
			failed++
			r.log.Warn("reminder delivery failed",
				zap.Uint("appointment_id", a.ID), zap.Error(err))
			continue
		}
		r.metrics.RemindersSent.Inc()
	}

	r.log.Info("reminder run finished",
		zap.String("fecha", tomorrow),
		zap.Int("total", len(rows)),
		zap.Int("failed", failed),
	)
	return nil
}
