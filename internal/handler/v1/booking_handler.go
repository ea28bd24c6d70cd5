package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vetcita/internal/booking"
	"vetcita/internal/service"
)

type BookingHandler struct {
	svc *service.BookingService
	log *zap.Logger
}

func NewBookingHandler(svc *service.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{svc: svc, log: log}
}

// wizardState is the wire shape of the wizard, with the alert filtered
// through its expiry.
type wizardState struct {
	Step           booking.Step   `json:"step"`
	Draft          booking.Draft  `json:"draft"`
	TentativePetID uint           `json:"tentativePetId,omitempty"`
	CancelPrompt   bool           `json:"cancelPrompt,omitempty"`
	Alert          *booking.Alert `json:"alert,omitempty"`
	Slots          []string       `json:"slots,omitempty"`
}

func stateOf(w *booking.Wizard) wizardState {
	s := wizardState{
		Step:           w.Step,
		Draft:          w.Draft,
		TentativePetID: w.TentativePetID,
		CancelPrompt:   w.CancelPrompt,
		Alert:          w.ActiveAlert(),
	}
	if w.Step == booking.StepSelectDateTime {
		s.Slots = booking.Slots()
	}
	return s
}

func (h *BookingHandler) respondState(c *gin.Context, w *booking.Wizard, err error) {
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, stateOf(w))
}

func (h *BookingHandler) State(c *gin.Context) {
	claims, _ := callerFrom(c)
	w, err := h.svc.State(c.Request.Context(), claims.UserID)
	h.respondState(c, w, err)
}

type selectPetRequest struct {
	MascotaID uint `json:"mascotaId" binding:"required"`
}

func (h *BookingHandler) SelectPet(c *gin.Context) {
	claims, _ := callerFrom(c)
	var req selectPetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	w, err := h.svc.SelectPet(c.Request.Context(), claims.UserID, req.MascotaID)
	h.respondState(c, w, err)
}

func (h *BookingHandler) ConfirmPet(c *gin.Context) {
	claims, _ := callerFrom(c)
	w, err := h.svc.ConfirmPet(c.Request.Context(), claims.UserID)
	h.respondState(c, w, err)
}

func (h *BookingHandler) DeclinePet(c *gin.Context) {
	claims, _ := callerFrom(c)
	w, err := h.svc.DeclinePet(c.Request.Context(), claims.UserID)
	h.respondState(c, w, err)
}

type selectServiceRequest struct {
	Servicio string `json:"servicio" binding:"required"`
}

func (h *BookingHandler) SelectService(c *gin.Context) {
	claims, _ := callerFrom(c)
	var req selectServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	w, err := h.svc.SetService(c.Request.Context(), claims.UserID, req.Servicio)
	h.respondState(c, w, err)
}

type selectVetRequest struct {
	VeterinarioID uint `json:"veterinarioId" binding:"required"`
}

func (h *BookingHandler) SelectVeterinarian(c *gin.Context) {
	claims, _ := callerFrom(c)
	var req selectVetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	w, err := h.svc.SetVeterinarian(c.Request.Context(), claims.UserID, req.VeterinarioID)
	h.respondState(c, w, err)
}

type selectDateTimeRequest struct {
	Fecha string `json:"fecha"`
	Hora  string `json:"hora"`
}

func (h *BookingHandler) SelectDateTime(c *gin.Context) {
	claims, _ := callerFrom(c)
	var req selectDateTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	w, err := h.svc.SetDateTime(c.Request.Context(), claims.UserID, req.Fecha, req.Hora)
	h.respondState(c, w, err)
}

// Advance moves the wizard forward. An unmet precondition is not an HTTP
// error: the state comes back unchanged carrying a warning alert.
func (h *BookingHandler) Advance(c *gin.Context) {
	claims, _ := callerFrom(c)
	w, err := h.svc.Advance(c.Request.Context(), claims.UserID)
	h.respondState(c, w, err)
}

func (h *BookingHandler) Retreat(c *gin.Context) {
	claims, _ := callerFrom(c)
	w, err := h.svc.Retreat(c.Request.Context(), claims.UserID)
	h.respondState(c, w, err)
}

func (h *BookingHandler) RequestCancel(c *gin.Context) {
	claims, _ := callerFrom(c)
	w, err := h.svc.RequestCancel(c.Request.Context(), claims.UserID)
	h.respondState(c, w, err)
}

func (h *BookingHandler) ConfirmCancel(c *gin.Context) {
	claims, _ := callerFrom(c)
	w, err := h.svc.ConfirmCancel(c.Request.Context(), claims.UserID)
	h.respondState(c, w, err)
}

func (h *BookingHandler) DeclineCancel(c *gin.Context) {
	claims, _ := callerFrom(c)
	w, err := h.svc.DeclineCancel(c.Request.Context(), claims.UserID)
	h.respondState(c, w, err)
}

// Submit books the appointment. Failures respond with the wizard state
// (still at the confirmation step, draft intact) so the client can render
// the alert and retry.
func (h *BookingHandler) Submit(c *gin.Context) {
	claims, _ := callerFrom(c)
	w, created, err := h.svc.Submit(c.Request.Context(), claims.UserID, c.ClientIP())
	if err != nil {
		if w != nil {
			c.JSON(http.StatusOK, APIResponse{Success: false, Data: stateOf(w)})
			return
		}
		respondServiceError(c, h.log, err)
		return
	}
	respondCreated(c, gin.H{
		"cita":   created,
		"wizard": stateOf(w),
	})
}
