package server

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// requestLogger tags each request with a trace ID and logs it on completion.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		traceID := uuid.NewString()
		if span.SpanContext().IsValid() {
			traceID = span.SpanContext().TraceID().String()
		}
		c.Set("trace_id", traceID)

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		log.Printf("[HTTP] %s %s %d %s trace=%s",
			c.Request.Method, path, c.Writer.Status(), time.Since(start), traceID)
	}
}
