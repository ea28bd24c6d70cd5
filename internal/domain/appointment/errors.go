package appointment

import "errors"

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrNotPending          = errors.New("appointment is not pending")
	ErrConsultIncomplete   = errors.New("diagnosis and treatment are required to complete an appointment")
	ErrNotInFuture         = errors.New("appointment date and time must be in the future")
	ErrInvalidDate         = errors.New("invalid appointment date, expected YYYY-MM-DD")
	ErrInvalidTime         = errors.New("invalid appointment time, expected HH:MM")
	ErrForbidden           = errors.New("not allowed to access this appointment")
)
