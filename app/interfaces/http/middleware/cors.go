package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"repairshop.dev/photo-gateway/config/environment_variables"
)

// CORS lets the dashboards listed in ALLOWED_CORS_HOSTS call the gateway from the browser.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && slices.Contains(environment_variables.EnvironmentVariables.ALLOWED_CORS_HOSTS, origin) {
			header := c.Writer.Header()
			header.Set("Access-Control-Allow-Origin", origin)
			header.Set("Access-Control-Allow-Credentials", "true")
			header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept, Origin, Cache-Control, Last-Event-ID, X-Requested-With")
			header.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			header.Add("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
