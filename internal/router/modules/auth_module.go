package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/learnpath-auth/internal/interface/http"
	"github.com/oksasatya/learnpath-auth/internal/interface/middleware"
	"github.com/oksasatya/learnpath-auth/pkg/helpers"
)

// AuthModule wires credential routes:
// Public: POST /auth/register, POST /auth/login
// Protected: GET /auth/me
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
	Limits  Limits
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager, limits Limits) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt, Limits: limits}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")

	auth.POST("/register", m.Limits.limiter(m.Limits.RegisterPerMin, middleware.KeyByIPAndPath()), m.Handler.Register)
	auth.POST("/login", m.Limits.limiter(m.Limits.LoginPerMin, middleware.KeyByIPAndPath()), m.Handler.Login)

	auth.GET("/me",
		middleware.BearerAuth(m.JWT),
		m.Limits.limiter(m.Limits.ProtectedPerMin, middleware.KeyByUserID()),
		m.Handler.Me,
	)
}
