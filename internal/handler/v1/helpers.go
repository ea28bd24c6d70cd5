package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vetcita/internal/booking"
	"vetcita/internal/domain"
	"vetcita/internal/domain/appointment"
	"vetcita/internal/domain/catalog"
	"vetcita/internal/domain/pet"
	"vetcita/internal/service"
)

// APIResponse is the envelope every endpoint returns. The success flag is
// part of the wire contract with existing clients.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

type Meta struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

func respondPaged(c *gin.Context, data interface{}, meta Meta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

func respondError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Success: false, Error: msg})
}

// respondServiceError maps domain and service errors onto HTTP statuses.
// Unknown errors become opaque 500s; the real cause goes to the log only.
func respondServiceError(c *gin.Context, log *zap.Logger, err error) {
	if ve, ok := service.AsValidation(err); ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			Success: false, Error: ve.Message, Field: ve.Field,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		respondError(c, http.StatusUnauthorized, "not authenticated")
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, service.ErrAccountLocked):
		respondError(c, http.StatusLocked, "account temporarily locked, try again later")
	case errors.Is(err, service.ErrEmailTaken):
		respondError(c, http.StatusConflict, "email already registered")
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, appointment.ErrForbidden),
		errors.Is(err, pet.ErrNotOwner):
		respondError(c, http.StatusForbidden, "forbidden")
	case errors.Is(err, appointment.ErrAppointmentNotFound),
		errors.Is(err, pet.ErrPetNotFound),
		errors.Is(err, catalog.ErrServiceNotFound),
		errors.Is(err, catalog.ErrVeterinarianNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, appointment.ErrNotPending):
		respondError(c, http.StatusConflict, "appointment is not pending")
	case errors.Is(err, appointment.ErrConsultIncomplete),
		errors.Is(err, appointment.ErrNotInFuture),
		errors.Is(err, appointment.ErrInvalidDate),
		errors.Is(err, appointment.ErrInvalidTime),
		errors.Is(err, pet.ErrNameRequired),
		errors.Is(err, pet.ErrSpeciesRequired),
		errors.Is(err, pet.ErrInvalidSex),
		errors.Is(err, pet.ErrInvalidBirthDate),
		errors.Is(err, pet.ErrBirthDateInFuture),
		errors.Is(err, catalog.ErrUnknownService),
		errors.Is(err, domain.ErrInvalidRole):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, booking.ErrWrongStep),
		errors.Is(err, booking.ErrNoPetSelected),
		errors.Is(err, booking.ErrNoCancelPrompt),
		errors.Is(err, booking.ErrDraftIncomplete):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, booking.ErrInvalidDate),
		errors.Is(err, booking.ErrWeekendDate),
		errors.Is(err, booking.ErrDateTooSoon),
		errors.Is(err, booking.ErrInvalidSlot):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		log.Error("unhandled service error",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}

// callerFrom reads the authenticated identity placed by the auth middleware.
func callerFrom(c *gin.Context) (*domain.Claims, bool) {
	v, ok := c.Get(ctxClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*domain.Claims)
	return claims, ok
}
