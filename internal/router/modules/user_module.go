package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/learnpath-auth/internal/domain/entity"
	handlers "github.com/oksasatya/learnpath-auth/internal/interface/http"
	"github.com/oksasatya/learnpath-auth/internal/interface/middleware"
	"github.com/oksasatya/learnpath-auth/pkg/helpers"
)

// UserModule exposes the admin-only directory search:
// GET /api/users/search
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
	Limits  Limits
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager, limits Limits) *UserModule {
	return &UserModule{Handler: h, JWT: jwt, Limits: limits}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/api/users")
	users.Use(
		middleware.BearerAuth(m.JWT),
		middleware.RequireRole(entity.RoleAdmin.String()),
		m.Limits.limiter(m.Limits.ProtectedPerMin, middleware.KeyByUserID()),
	)
	users.GET("/search", m.Handler.Search)
}
