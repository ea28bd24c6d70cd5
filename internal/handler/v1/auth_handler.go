package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vetcita/internal/domain"
	"vetcita/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
	log *zap.Logger
}

func NewAuthHandler(svc *service.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: log}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Nombre   string `json:"nombre" binding:"required"`
}

type userResponse struct {
	ID     uint        `json:"id"`
	Email  string      `json:"email"`
	Nombre string      `json:"nombre"`
	Role   domain.Role `json:"role"`
}

type authResponse struct {
	User   userResponse      `json:"user"`
	Tokens *domain.TokenPair `json:"tokens"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Nombre: u.Nombre, Role: u.Role}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	u, pair, err := h.svc.Register(c.Request.Context(), &service.RegisterCommand{
		Email:    req.Email,
		Password: req.Password,
		Nombre:   req.Nombre,
		Role:     domain.RoleClient,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondCreated(c, authResponse{User: toUserResponse(u), Tokens: pair})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	u, pair, err := h.svc.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP())
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, authResponse{User: toUserResponse(u), Tokens: pair})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	pair, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, gin.H{"tokens": pair})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := callerFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "not authenticated")
		return
	}
	if err := h.svc.Logout(c.Request.Context(), claims.UserID, claims.Role, c.ClientIP()); err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, gin.H{"message": "logged out"})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	claims, ok := callerFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "not authenticated")
		return
	}
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.ChangePassword(c.Request.Context(), claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, gin.H{"message": "password updated"})
}
