package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows the marketing site's origin to call the API.
//
// Only frontendURL is allowed unless allowDevOrigins adds the usual localhost
// dev ports. Requests without an Origin header (same-origin, curl, health
// probes) pass through untouched.
func CORSMiddleware(frontendURL string, allowDevOrigins bool) gin.HandlerFunc {
	allowed := map[string]bool{
		strings.TrimRight(frontendURL, "/"): true,
	}
	if allowDevOrigins {
		for _, dev := range []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:3001"} {
			allowed[dev] = true
		}
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		isAllowed := origin == "" || allowed[origin]

		if isAllowed && origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept, Authorization, Origin, X-Requested-With, X-Request-ID")
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Header("Access-Control-Max-Age", "86400") // 24 hours
		}

		// Vary header to ensure caches differentiate by Origin
		c.Header("Vary", "Origin")

		if c.Request.Method == http.MethodOptions {
			if isAllowed {
				c.AbortWithStatus(http.StatusNoContent)
			} else {
				c.AbortWithStatus(http.StatusForbidden)
			}
			return
		}

		c.Next()
	}
}
