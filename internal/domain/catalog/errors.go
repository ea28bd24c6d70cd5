package catalog

import "errors"

var (
	ErrServiceNotFound      = errors.New("service not found")
	ErrVeterinarianNotFound = errors.New("veterinarian not found")
	ErrUnknownService       = errors.New("unknown service identifier")
)
