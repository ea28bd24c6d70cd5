package pet

import "errors"

var (
	ErrPetNotFound        = errors.New("pet not found")
	ErrInvalidSex         = errors.New("invalid sex value")
	ErrInvalidBirthDate   = errors.New("invalid birth date, expected YYYY-MM-DD")
	ErrBirthDateInFuture  = errors.New("birth date cannot be in the future")
	ErrNotOwner           = errors.New("pet does not belong to this user")
	ErrNameRequired       = errors.New("pet name is required")
	ErrSpeciesRequired    = errors.New("pet species is required")
)
