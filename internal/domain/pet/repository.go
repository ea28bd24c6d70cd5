package pet

import "context"

type Repository interface {
	// Create persists a new pet and assigns its ID.
	Create(ctx context.Context, p *Pet) error

	// GetByID retrieves a pet by primary key. Returns ErrPetNotFound if
	// not found or soft-deleted.
	GetByID(ctx context.Context, id uint) (*Pet, error)

	// ListByOwner returns all pets of an owner, oldest first.
	ListByOwner(ctx context.Context, duenoID uint) ([]*Pet, error)

	// Update persists the full record.
	Update(ctx context.Context, p *Pet) error

	// SoftDelete marks the pet deleted. Appointments referencing it keep
	// their denormalized copy of the name and photo.
	SoftDelete(ctx context.Context, id uint) error
}
