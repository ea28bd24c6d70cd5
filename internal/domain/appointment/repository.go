package appointment

import "context"

type Repository interface {
	// Create persists a new appointment and assigns its ID.
	Create(ctx context.Context, a *Appointment) error

	// GetByID retrieves an appointment by primary key. Returns
	// ErrAppointmentNotFound if not found.
	GetByID(ctx context.Context, id uint) (*Appointment, error)

	// List returns all appointments matching the query, newest fecha first.
	// Secondary filtering and pagination are the view layer's job; the
	// repository only applies the role scope.
	List(ctx context.Context, q *ListAppointmentsQuery) ([]*Appointment, error)

	// Update persists the full record after an in-memory transition.
	Update(ctx context.Context, a *Appointment) error

	// CountByEstado aggregates status counts within the given scope.
	CountByEstado(ctx context.Context, q *ListAppointmentsQuery) (*StatusCounts, error)

	// ListPendingOnDate returns pending appointments scheduled on the
	// given fecha (YYYY-MM-DD), for the reminder job.
	ListPendingOnDate(ctx context.Context, fecha string) ([]*Appointment, error)
}
