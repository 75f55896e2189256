package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/learnpath-auth/internal/interface/middleware"
)

// Limits configures the per-minute redis limiters shared by modules.
// A nil RDB disables limiting.
type Limits struct {
	RDB             *redis.Client
	Logger          *logrus.Logger
	LoginPerMin     int
	RegisterPerMin  int
	ProtectedPerMin int
	BypassPrivate   bool
}

func (l Limits) limiter(max int, key middleware.KeyFunc) gin.HandlerFunc {
	var allow middleware.AllowFunc
	if l.BypassPrivate {
		allow = middleware.AllowPrivateIP()
	}
	return middleware.RateLimit(l.RDB, l.Logger, max, time.Minute, key, allow)
}
