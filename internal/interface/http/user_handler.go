package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/learnpath-auth/internal/application"
	"github.com/oksasatya/learnpath-auth/pkg/response"
)

type UserHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.AuthService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type profileResponse struct {
	ID         string    `json:"id"`
	FullName   string    `json:"fullName"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Department string    `json:"department,omitempty"`
	Position   string    `json:"position,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Search queries the user directory: GET /api/users/search?q=&size=
func (h *UserHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))

	profiles, err := h.Svc.SearchUsers(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		writeError(c, h.Logger, err, "Search failed")
		return
	}

	users := make([]profileResponse, 0, len(profiles))
	for _, p := range profiles {
		users = append(users, profileResponse{
			ID:         p.ID,
			FullName:   p.FullName,
			Email:      p.Email,
			Role:       string(p.Role),
			Department: p.Department,
			Position:   p.Position,
			CreatedAt:  p.CreatedAt,
		})
	}
	response.Success(c, http.StatusOK, gin.H{"users": users})
}
