package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/learnpath-auth/internal/interface/http"
)

// DebugModule serves GET /health and, when enabled, expvar on /debug/vars.
type DebugModule struct {
	Health      *handlers.HealthHandler
	MetricsOpen bool
}

func NewDebugModule(h *handlers.HealthHandler, metrics bool) *DebugModule {
	return &DebugModule{Health: h, MetricsOpen: metrics}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health", m.Health.Health)
	if m.MetricsOpen {
		rg.GET("/debug/vars", gin.WrapH(expvar.Handler()))
	}
}
