package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vetcita/internal/domain"
	"vetcita/internal/domain/appointment"
	"vetcita/internal/domain/clinicalnote"
	"vetcita/internal/service"
)

type AppointmentHandler struct {
	svc *service.AppointmentService
	log *zap.Logger
}

func NewAppointmentHandler(svc *service.AppointmentService, log *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{svc: svc, log: log}
}

func viewMode(role domain.Role, vista string) appointment.Mode {
	if role == domain.RoleVeterinarian {
		if vista == "pendientes" {
			return appointment.ModeVetPending
		}
		return appointment.ModeVetHistory
	}
	if vista == "pendientes" {
		return appointment.ModeClientPending
	}
	return appointment.ModeClientHistory
}

// List serves every appointment listing: vets get their pending queue
// (?vista=pendientes) or history, clients their dashboard or history. The
// whole role-scoped set is fetched once and partitioned, filtered and paged
// in memory so page numbers and the pet dropdown agree with each other.
func (h *AppointmentHandler) List(c *gin.Context) {
	claims, _ := callerFrom(c)

	rows, err := h.svc.ListOwn(c.Request.Context(), claims.UserID, claims.Role)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	view := appointment.NewView(rows, viewMode(claims.Role, c.Query("vista")))

	filter := appointment.Filter{Mascota: c.Query("mascota")}
	if raw := c.Query("estado"); raw != "" {
		estado := appointment.Status(raw)
		if !estado.IsValid() {
			respondError(c, http.StatusBadRequest, "invalid estado filter")
			return
		}
		filter.Estado = &estado
	}
	view = view.WithFilter(filter)

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid page")
			return
		}
		view = view.WithPage(page)
	}

	respondPaged(c, gin.H{
		"citas":    view.Items(),
		"mascotas": view.UniquePets(),
	}, Meta{
		Page:       view.Page(),
		PageSize:   appointment.PageSize,
		Total:      view.Total(),
		TotalPages: view.TotalPages(),
	})
}

type appointmentDetail struct {
	*appointment.Appointment
	Nota *noteDetail `json:"nota,omitempty"`
}

type noteDetail struct {
	Diagnostico        string                 `json:"diagnostico"`
	Tratamiento        string                 `json:"tratamiento"`
	InformacionMascota *clinicalnote.Snapshot `json:"informacionMascota,omitempty"`
}

func detailOf(a *appointment.Appointment) appointmentDetail {
	d := appointmentDetail{Appointment: a}
	if res := a.ClinicalNote(); res.Kind == clinicalnote.KindStructured {
		d.Nota = &noteDetail{
			Diagnostico:        res.Diagnostico,
			Tratamiento:        res.Tratamiento,
			InformacionMascota: res.InformacionMascota,
		}
	}
	return d
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	claims, _ := callerFrom(c)
	id, ok := parseID(c)
	if !ok {
		return
	}
	a, err := h.svc.Get(c.Request.Context(), id, claims.UserID, claims.Role)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, detailOf(a))
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	claims, _ := callerFrom(c)
	id, ok := parseID(c)
	if !ok {
		return
	}
	a, err := h.svc.Cancel(c.Request.Context(), id, claims.UserID, claims.Role, c.ClientIP())
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, detailOf(a))
}

type attendRequest struct {
	Diagnostico string `json:"diagnostico" binding:"required"`
	Tratamiento string `json:"tratamiento" binding:"required"`
}

func (h *AppointmentHandler) Attend(c *gin.Context) {
	claims, _ := callerFrom(c)
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req attendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.svc.Attend(c.Request.Context(), id, claims.UserID, claims.Role, &service.AttendCommand{
		Diagnostico: req.Diagnostico,
		Tratamiento: req.Tratamiento,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, detailOf(a))
}
