package v1

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vetcita/internal/service"
)

// upcomingLimit caps the "próximas citas" panel.
const upcomingLimit = 3

type DashboardHandler struct {
	svc *service.AppointmentService
	log *zap.Logger
}

func NewDashboardHandler(svc *service.AppointmentService, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{svc: svc, log: log}
}

// Summary returns status counts plus the next few pending appointments for
// the caller's dashboard.
func (h *DashboardHandler) Summary(c *gin.Context) {
	claims, _ := callerFrom(c)
	ctx := c.Request.Context()

	stats, err := h.svc.Stats(ctx, claims.UserID, claims.Role)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	upcoming, err := h.svc.Upcoming(ctx, claims.UserID, claims.Role, upcomingLimit)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	respondOK(c, gin.H{
		"estadisticas": gin.H{
			"pendientes":  stats.Pendientes,
			"completadas": stats.Completadas,
			"canceladas":  stats.Canceladas,
		},
		"proximasCitas": upcoming,
	})
}
