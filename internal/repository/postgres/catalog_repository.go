package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"vetcita/internal/domain/catalog"
)

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) ListServices(ctx context.Context) ([]*catalog.Service, error) {
	var services []*catalog.Service
	err := r.db.WithContext(ctx).
		Where("activo = true").
		Order("id ASC").
		Find(&services).Error
	if err != nil {
		return nil, fmt.Errorf("listing services: %w", err)
	}
	return services, nil
}

func (r *CatalogRepository) GetServiceByID(ctx context.Context, id uint) (*catalog.Service, error) {
	var s catalog.Service
	err := r.db.WithContext(ctx).Where("activo = true").First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, catalog.ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying service: %w", err)
	}
	return &s, nil
}

func (r *CatalogRepository) ListVeterinarians(ctx context.Context) ([]*catalog.Veterinarian, error) {
	var vets []*catalog.Veterinarian
	err := r.db.WithContext(ctx).
		Where("activo = true").
		Order("nombre ASC").
		Find(&vets).Error
	if err != nil {
		return nil, fmt.Errorf("listing veterinarians: %w", err)
	}
	return vets, nil
}

func (r *CatalogRepository) GetVeterinarianByID(ctx context.Context, id uint) (*catalog.Veterinarian, error) {
	var v catalog.Veterinarian
	err := r.db.WithContext(ctx).Where("activo = true").First(&v, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, catalog.ErrVeterinarianNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying veterinarian: %w", err)
	}
	return &v, nil
}

func (r *CatalogRepository) GetVeterinarianByUserID(ctx context.Context, userID uint) (*catalog.Veterinarian, error) {
	var v catalog.Veterinarian
	err := r.db.WithContext(ctx).Where("user_id = ? AND activo = true", userID).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, catalog.ErrVeterinarianNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying veterinarian by user: %w", err)
	}
	return &v, nil
}

// SeedDefaults inserts the baseline services with IDs matching the slug
// resolution table. No-op if any services already exist.
func (r *CatalogRepository) SeedDefaults(ctx context.Context) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&catalog.Service{}).Count(&count).Error; err != nil {
		return fmt.Errorf("counting services: %w", err)
	}
	if count > 0 {
		return nil
	}

	seed := []*catalog.Service{
		{ID: 1, Slug: "consulta-general", Nombre: "Consulta General", Activo: true},
		{ID: 2, Slug: "vacunacion", Nombre: "Vacunación", Activo: true},
		{ID: 3, Slug: "emergencia", Nombre: "Emergencia", Activo: true},
		{ID: 4, Slug: "bano-corte", Nombre: "Baño y Corte", Activo: true},
		{ID: 5, Slug: "cirugia-menor", Nombre: "Cirugía Menor", Activo: true},
		{ID: 6, Slug: "control-postoperatorio", Nombre: "Control Postoperatorio", Activo: true},
	}
	if err := r.db.WithContext(ctx).Create(&seed).Error; err != nil {
		return fmt.Errorf("seeding services: %w", err)
	}
	return nil
}
