package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the service's prometheus collectors. One instance is built
// at startup and shared; all collectors register against the given registry.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPInFlight        prometheus.Gauge

	AppointmentsCreated  prometheus.Counter
	AppointmentsByStatus *prometheus.CounterVec
	BookingsSubmitted    *prometheus.CounterVec
	NoteDecodeFailures   prometheus.Counter
	RemindersSent        prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vetcita",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vetcita",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		HTTPInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "vetcita",
			Name:      "http_requests_in_flight",
			Help:      "HTTP requests currently being served.",
		}),
		AppointmentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vetcita",
			Name:      "appointments_created_total",
			Help:      "Appointments created.",
		}),
		AppointmentsByStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vetcita",
			Name:      "appointment_transitions_total",
			Help:      "Appointment status transitions by target status.",
		}, []string{"estado"}),
		BookingsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vetcita",
			Name:      "bookings_submitted_total",
			Help:      "Booking wizard submissions by outcome.",
		}, []string{"outcome"}),
		NoteDecodeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vetcita",
			Name:      "clinical_note_decode_failures_total",
			Help:      "Appointment notes that failed to parse as clinical payloads.",
		}),
		RemindersSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vetcita",
			Name:      "reminders_sent_total",
			Help:      "Appointment reminders dispatched by the daily job.",
		}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPInFlight,
		m.AppointmentsCreated,
		m.AppointmentsByStatus,
		m.BookingsSubmitted,
		m.NoteDecodeFailures,
		m.RemindersSent,
	)
	return m
}
