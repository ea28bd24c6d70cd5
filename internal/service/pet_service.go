package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"vetcita/internal/domain"
	"vetcita/internal/domain/pet"
)

type PetService struct {
	repo     pet.Repository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewPetService(repo pet.Repository, auditSvc *AuditService, log *zap.Logger) *PetService {
	return &PetService{repo: repo, auditSvc: auditSvc, log: log}
}

func validateBirthDate(fecha string) error {
	if strings.TrimSpace(fecha) == "" {
		return nil
	}
	d, err := time.Parse("2006-01-02", fecha)
	if err != nil {
		return pet.ErrInvalidBirthDate
	}
	if d.After(time.Now()) {
		return pet.ErrBirthDateInFuture
	}
	return nil
}

func (s *PetService) RegisterPet(ctx context.Context, cmd *pet.CreatePetCommand, ip string) (*pet.Pet, error) {
	if strings.TrimSpace(cmd.Nombre) == "" {
		return nil, pet.ErrNameRequired
	}
	if strings.TrimSpace(cmd.Especie) == "" {
		return nil, pet.ErrSpeciesRequired
	}
	if cmd.Sexo != "" && !cmd.Sexo.IsValid() {
		return nil, pet.ErrInvalidSex
	}
	if err := validateBirthDate(cmd.FechaNacimiento); err != nil {
		return nil, err
	}

	p := &pet.Pet{
		DuenoID:         cmd.DuenoID,
		Nombre:          strings.TrimSpace(cmd.Nombre),
		Especie:         strings.TrimSpace(cmd.Especie),
		Raza:            strings.TrimSpace(cmd.Raza),
		Sexo:            cmd.Sexo,
		FechaNacimiento: strings.TrimSpace(cmd.FechaNacimiento),
		Foto:            cmd.Foto,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		s.log.Error("failed to create pet", zap.Error(err))
		return nil, fmt.Errorf("creating pet: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: cmd.DuenoID, UserRole: domain.RoleClient,
		Action: domain.ActionCreate, ResourceType: "pet", ResourceID: fmt.Sprint(p.ID), IPAddress: ip,
	})
	return p, nil
}

// GetPet returns a pet, enforcing ownership for client callers.
// Veterinarians may read any pet.
func (s *PetService) GetPet(ctx context.Context, id, callerID uint, callerRole domain.Role) (*pet.Pet, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if callerRole == domain.RoleClient && p.DuenoID != callerID {
		return nil, pet.ErrNotOwner
	}
	return p, nil
}

func (s *PetService) ListOwnPets(ctx context.Context, ownerID uint) ([]*pet.Pet, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *PetService) UpdatePet(ctx context.Context, id, callerID uint, callerRole domain.Role, cmd *pet.UpdatePetCommand, ip string) (*pet.Pet, error) {
	p, err := s.GetPet(ctx, id, callerID, callerRole)
	if err != nil {
		return nil, err
	}

	if cmd.Nombre != nil {
		if strings.TrimSpace(*cmd.Nombre) == "" {
			return nil, pet.ErrNameRequired
		}
		p.Nombre = strings.TrimSpace(*cmd.Nombre)
	}
	if cmd.Especie != nil {
		if strings.TrimSpace(*cmd.Especie) == "" {
			return nil, pet.ErrSpeciesRequired
		}
		p.Especie = strings.TrimSpace(*cmd.Especie)
	}
	if cmd.Raza != nil {
		p.Raza = strings.TrimSpace(*cmd.Raza)
	}
	if cmd.Sexo != nil {
		if *cmd.Sexo != "" && !cmd.Sexo.IsValid() {
			return nil, pet.ErrInvalidSex
		}
		p.Sexo = *cmd.Sexo
	}
	if cmd.FechaNacimiento != nil {
		if err := validateBirthDate(*cmd.FechaNacimiento); err != nil {
			return nil, err
		}
		p.FechaNacimiento = strings.TrimSpace(*cmd.FechaNacimiento)
	}
	if cmd.Foto != nil {
		p.Foto = *cmd.Foto
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("updating pet: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: domain.ActionUpdate, ResourceType: "pet", ResourceID: fmt.Sprint(p.ID), IPAddress: ip,
	})
	return p, nil
}

// RemovePet soft-deletes a pet. Past appointments keep their denormalized
// copy of the pet's name and photo.
func (s *PetService) RemovePet(ctx context.Context, id, callerID uint, callerRole domain.Role, ip string) error {
	if _, err := s.GetPet(ctx, id, callerID, callerRole); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("deleting pet: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: domain.ActionDelete, ResourceType: "pet", ResourceID: fmt.Sprint(id), IPAddress: ip,
	})
	return nil
}
