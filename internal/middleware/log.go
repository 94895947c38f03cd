package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// AccessLog writes one line per request: who, what, status and latency.
// Query strings are left out since filters can carry personal data.
func AccessLog(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		who := "-"
		if sess, ok := CurrentSession(c); ok {
			who = sess.Username
		}
		logger.Printf("%s %s %s %d %s %s",
			c.ClientIP(),
			who,
			c.Request.Method,
			c.Writer.Status(),
			c.Request.URL.Path,
			time.Since(start).Round(time.Microsecond),
		)
		for _, e := range c.Errors {
			logger.Printf("error %s %s: %v", c.Request.Method, c.Request.URL.Path, e.Err)
		}
	}
}
