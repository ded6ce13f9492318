package handlers

import (
	"net/http"

	"spacify/internal/domain"
	"spacify/internal/http/middleware"
	"spacify/internal/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) authService(c *gin.Context) services.AuthService {
	svc := h.Auth
	svc.RequestID = middleware.GetRequestID(c)
	return svc
}

// POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req services.LoginInput
	if !BindJSONOrError(c, &req) {
		return
	}
	res, err := h.authService(c).Login(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   res.Token,
		"user":    res.User,
	})
}

// POST /api/auth/register
func (h *Handler) Register(c *gin.Context) {
	var req services.RegisterInput
	if !BindJSONOrError(c, &req) {
		return
	}
	res, err := h.authService(c).Register(c.Request.Context(), req)
	if err != nil {
		if domain.IsConflict(err) {
			// the web client expects 400 for a taken email
			respondError(c, http.StatusBadRequest, "conflict", err.Error(), nil)
			return
		}
		RespondDomainError(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{
		"message": "Registration successful",
		"token":   res.Token,
		"user":    res.User,
	})
}

// GET /api/auth/verify
func (h *Handler) Verify(c *gin.Context) {
	token, err := services.BearerToken(c.GetHeader("Authorization"))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "auth_rejected", "Invalid token", nil)
		return
	}
	user, err := h.authService(c).Verify(c.Request.Context(), token)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"user": user})
}

// POST /api/auth/logout. Tokens are stateless, so this only acknowledges.
func (h *Handler) Logout(c *gin.Context) {
	ok(c, http.StatusOK, gin.H{"message": "Logout successful"})
}
