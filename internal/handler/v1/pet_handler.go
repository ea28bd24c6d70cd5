package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vetcita/internal/domain/pet"
	"vetcita/internal/service"
)

type PetHandler struct {
	svc *service.PetService
	log *zap.Logger
}

func NewPetHandler(svc *service.PetService, log *zap.Logger) *PetHandler {
	return &PetHandler{svc: svc, log: log}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}

type petRequest struct {
	Nombre          string  `json:"nombre" binding:"required"`
	Especie         string  `json:"especie" binding:"required"`
	Raza            string  `json:"raza"`
	Sexo            pet.Sex `json:"sexo"`
	FechaNacimiento string  `json:"fechaNacimiento"`
	Foto            string  `json:"foto"`
}

func (h *PetHandler) Create(c *gin.Context) {
	claims, _ := callerFrom(c)
	var req petRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.svc.RegisterPet(c.Request.Context(), &pet.CreatePetCommand{
		DuenoID:         claims.UserID,
		Nombre:          req.Nombre,
		Especie:         req.Especie,
		Raza:            req.Raza,
		Sexo:            req.Sexo,
		FechaNacimiento: req.FechaNacimiento,
		Foto:            req.Foto,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondCreated(c, p)
}

func (h *PetHandler) List(c *gin.Context) {
	claims, _ := callerFrom(c)
	pets, err := h.svc.ListOwnPets(c.Request.Context(), claims.UserID)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, pets)
}

func (h *PetHandler) Get(c *gin.Context) {
	claims, _ := callerFrom(c)
	id, ok := parseID(c)
	if !ok {
		return
	}
	p, err := h.svc.GetPet(c.Request.Context(), id, claims.UserID, claims.Role)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, p)
}

type petUpdateRequest struct {
	Nombre          *string  `json:"nombre"`
	Especie         *string  `json:"especie"`
	Raza            *string  `json:"raza"`
	Sexo            *pet.Sex `json:"sexo"`
	FechaNacimiento *string  `json:"fechaNacimiento"`
	Foto            *string  `json:"foto"`
}

func (h *PetHandler) Update(c *gin.Context) {
	claims, _ := callerFrom(c)
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req petUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.svc.UpdatePet(c.Request.Context(), id, claims.UserID, claims.Role, &pet.UpdatePetCommand{
		Nombre:          req.Nombre,
		Especie:         req.Especie,
		Raza:            req.Raza,
		Sexo:            req.Sexo,
		FechaNacimiento: req.FechaNacimiento,
		Foto:            req.Foto,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, p)
}

func (h *PetHandler) Delete(c *gin.Context) {
	claims, _ := callerFrom(c)
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.RemovePet(c.Request.Context(), id, claims.UserID, claims.Role, c.ClientIP()); err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, gin.H{"message": "pet removed"})
}
