package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogging logs one line per request with method, path, status,
// duration and client IP.
func RequestLogging(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Printf("%s %s -> %d (%v) from %s",
			c.Request.Method, path, c.Writer.Status(),
			time.Since(start), c.ClientIP(),
		)
	}
}
