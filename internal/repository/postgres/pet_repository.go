package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"vetcita/internal/domain/pet"
)

type PetRepository struct {
	db *gorm.DB
}

func NewPetRepository(db *gorm.DB) *PetRepository {
	return &PetRepository{db: db}
}

func (r *PetRepository) Create(ctx context.Context, p *pet.Pet) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("inserting pet: %w", err)
	}
	return nil
}

func (r *PetRepository) GetByID(ctx context.Context, id uint) (*pet.Pet, error) {
	var p pet.Pet
	err := r.db.WithContext(ctx).Where("deleted_at IS NULL").First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pet.ErrPetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying pet: %w", err)
	}
	return &p, nil
}

func (r *PetRepository) ListByOwner(ctx context.Context, duenoID uint) ([]*pet.Pet, error) {
	var pets []*pet.Pet
	err := r.db.WithContext(ctx).
		Where("dueno_id = ? AND deleted_at IS NULL", duenoID).
		Order("created_at ASC").
		Find(&pets).Error
	if err != nil {
		return nil, fmt.Errorf("listing pets: %w", err)
	}
	return pets, nil
}

func (r *PetRepository) Update(ctx context.Context, p *pet.Pet) error {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return fmt.Errorf("updating pet: %w", err)
	}
	return nil
}

func (r *PetRepository) SoftDelete(ctx context.Context, id uint) error {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&pet.Pet{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", &now)
	if res.Error != nil {
		return fmt.Errorf("deleting pet: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return pet.ErrPetNotFound
	}
	return nil
}
