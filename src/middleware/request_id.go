package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// Context key for storing request ID
	RequestIDKey = "request_id"

	// Header names to check for an existing request ID, in priority order
	HeaderXRequestID     = "X-Request-ID"
	HeaderXCorrelationID = "X-Correlation-ID"
	HeaderCFRay          = "CF-Ray"
)

// RequestID extracts the inbound request ID or generates a UUID v4, and
// echoes it on the response so clients can correlate logs.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderXRequestID)
		if requestID == "" {
			requestID = c.GetHeader(HeaderXCorrelationID)
		}
		if requestID == "" {
			requestID = c.GetHeader(HeaderCFRay)
		}
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDKey, requestID)
		c.Header(HeaderXRequestID, requestID)
		c.Next()
	}
}

// GetRequestID returns the request ID stored on the context.
func GetRequestID(c *gin.Context) string {
	if id, ok := c.Get(RequestIDKey); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}
