package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger logs one line per HTTP request, including errors attached by handlers.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		line := []any{
			c.Request.Method,
			path,
			c.ClientIP(),
			c.Writer.Status(),
			time.Since(start),
		}
		if subject := c.GetString(SubjectKey); subject != "" {
			log.Printf("[HTTP] %s %s %s %d %v user=%s %s", append(line, subject, c.Errors.String())...)
			return
		}
		log.Printf("[HTTP] %s %s %s %d %v %s", append(line, c.Errors.String())...)
	}
}
