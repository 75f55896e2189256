package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/learnpath-auth/internal/application"
	"github.com/oksasatya/learnpath-auth/internal/interface/middleware"
	"github.com/oksasatya/learnpath-auth/pkg/response"
	"github.com/oksasatya/learnpath-auth/pkg/validation"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

// Presence is checked by the service so that missing fields are reported
// in a stable order; binding only rejects malformed values.
type registerRequest struct {
	FullName   string `json:"full_name" binding:"omitempty,name"`
	Email      string `json:"email" binding:"omitempty,mail"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	Department string `json:"department" binding:"omitempty,name"`
	Position   string `json:"position" binding:"omitempty,name"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"omitempty,max=254"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	FullName  string     `json:"fullName"`
	LastLogin *time.Time `json:"lastLogin"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, validation.Message(err))
		return
	}

	res, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		FullName:   req.FullName,
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
		Department: req.Department,
		Position:   req.Position,
	})
	if err != nil {
		writeError(c, h.Logger, err, "Registration failed")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"message":  res.Message,
		"redirect": res.Redirect,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, validation.Message(err))
		return
	}

	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.Logger, err, "Login failed")
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"token": res.Token,
		"user": userResponse{
			ID:        res.User.ID,
			Email:     res.User.Email,
			Role:      string(res.User.Role),
			FullName:  res.User.FullName,
			LastLogin: res.User.LastLogin,
		},
		"redirect": res.Redirect,
	})
}

// Me echoes the verified token claims.
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Missing bearer token")
		return
	}
	var expiresAt *time.Time
	if claims.ExpiresAt != nil {
		t := claims.ExpiresAt.Time
		expiresAt = &t
	}
	response.Success(c, http.StatusOK, gin.H{
		"user": gin.H{
			"id":    claims.UserID,
			"email": claims.Email,
			"role":  claims.Role,
		},
		"expiresAt": expiresAt,
	})
}
