package service

import (
	"context"

	"vetcita/internal/domain/catalog"
)

type CatalogService struct {
	repo catalog.Repository
}

func NewCatalogService(repo catalog.Repository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) Services(ctx context.Context) ([]*catalog.Service, error) {
	return s.repo.ListServices(ctx)
}

func (s *CatalogService) Veterinarians(ctx context.Context) ([]*catalog.Veterinarian, error) {
	return s.repo.ListVeterinarians(ctx)
}
