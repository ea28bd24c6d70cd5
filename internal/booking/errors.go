package booking

import "errors"

var (
	ErrWrongStep       = errors.New("operation not valid at the current step")
	ErrNoPetSelected   = errors.New("no pet selected")
	ErrNoCancelPrompt  = errors.New("no cancel confirmation pending")
	ErrInvalidDate     = errors.New("invalid date, expected YYYY-MM-DD")
	ErrWeekendDate     = errors.New("appointments are only available Monday through Friday")
	ErrDateTooSoon     = errors.New("appointments must be booked at least one day ahead")
	ErrInvalidSlot     = errors.New("time must be a half-hour slot between 08:00 and 22:00")
	ErrDraftIncomplete = errors.New("booking draft is incomplete")
	ErrDraftNotFound   = errors.New("no booking draft in progress")
)
