package middleware

import (
	"net"

	"github.com/gin-gonic/gin"
)

const RealIPKey = "real_ip"

// ForwardedIPHeaders are consulted, in order, only when the direct peer is a
// trusted proxy. Cloudflare sets CF-Connecting-IP.
var ForwardedIPHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// TrustProxies restricts client IP resolution to the given proxies (IPs or
// CIDRs). With none, forwarding headers are ignored and the TCP peer address
// is the client IP.
func TrustProxies(r *gin.Engine, proxies []string) error {
	r.ForwardedByClientIP = true
	r.RemoteIPHeaders = ForwardedIPHeaders
	return r.SetTrustedProxies(proxies)
}

// RealIP sets the client IP into Gin context (key: "real_ip").
// The value comes from c.ClientIP, so it follows the engine's trusted proxies.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(RealIPKey, c.ClientIP())
		c.Next()
	}
}

// ipFromCtx extracts the client IP from Gin context, falling back to "unknown"
func ipFromCtx(c *gin.Context) string {
	if ip := c.GetString(RealIPKey); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

// AllowPrivateIP lets loopback and private-range clients bypass a limiter.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		parsed := net.ParseIP(ipFromCtx(c))
		if parsed == nil {
			return false
		}
		return parsed.IsLoopback() || parsed.IsPrivate()
	}
}
