package catalog

import "context"

type Repository interface {
	// ListServices returns all active services.
	ListServices(ctx context.Context) ([]*Service, error)

	// GetServiceByID returns ErrServiceNotFound if absent or inactive.
	GetServiceByID(ctx context.Context, id uint) (*Service, error)

	// ListVeterinarians returns all active veterinarians.
	ListVeterinarians(ctx context.Context) ([]*Veterinarian, error)

	// GetVeterinarianByID returns ErrVeterinarianNotFound if absent or
	// inactive.
	GetVeterinarianByID(ctx context.Context, id uint) (*Veterinarian, error)

	// GetVeterinarianByUserID resolves the directory entry of an auth
	// account with the veterinarian role.
	GetVeterinarianByUserID(ctx context.Context, userID uint) (*Veterinarian, error)

	// SeedDefaults inserts the baseline service rows if the table is
	// empty, with IDs matching the slug table.
	SeedDefaults(ctx context.Context) error
}
