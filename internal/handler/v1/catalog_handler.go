package v1

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vetcita/internal/service"
)

type CatalogHandler struct {
	svc *service.CatalogService
	log *zap.Logger
}

func NewCatalogHandler(svc *service.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{svc: svc, log: log}
}

func (h *CatalogHandler) Services(c *gin.Context) {
	services, err := h.svc.Services(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, services)
}

func (h *CatalogHandler) Veterinarians(c *gin.Context) {
	vets, err := h.svc.Veterinarians(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, vets)
}
