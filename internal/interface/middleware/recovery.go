package middleware

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/learnpath-auth/pkg/response"
)

// Recovery converts panics into a SERVER_ERROR envelope and logs the cause.
func Recovery(logger *logrus.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		logger.WithFields(logrus.Fields{
			"panic":      recovered,
			"route":      normalizePath(c),
			"request_id": c.GetString(RequestIDKey),
		}).Error("panic recovered")
		response.ServerError(c, "")
	})
}
