package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// HitRecorder records one endpoint hit per observed request
type HitRecorder interface {
	Hit(ctx context.Context, uri, ip string, timestamp time.Time)
}

// RecordHits reports each request on the wrapped routes to the telemetry
// service. Recording happens after the handler, off the request path, with
// its own deadline so a slow telemetry service cannot hold resources.
func RecordHits(recorder HitRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		uri := c.Request.URL.Path
		ip := c.ClientIP()
		now := time.Now()

		c.Next()

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			recorder.Hit(ctx, uri, ip, now)
		}()
	}
}
