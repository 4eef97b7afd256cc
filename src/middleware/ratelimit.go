package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/httprate"
)

const (
	// Global rate limit (all endpoints)
	GlobalRPS = 100

	// GraphQL rate limit, keyed by client IP
	GraphQLRequestsPerWindow = 300
	GraphQLWindowDuration    = time.Minute
)

var (
	globalLimiter  *httprate.RateLimiter
	graphqlLimiter *httprate.RateLimiter
)

func init() {
	globalLimiter = httprate.NewRateLimiter(
		GlobalRPS,
		time.Second,
		httprate.WithKeyFuncs(httprate.KeyByIP),
	)

	graphqlLimiter = httprate.NewRateLimiter(
		GraphQLRequestsPerWindow,
		GraphQLWindowDuration,
		httprate.WithKeyFuncs(httprate.KeyByIP),
	)
}

// GlobalRateLimit applies the per-second limit to every route.
func GlobalRateLimit() gin.HandlerFunc {
	return wrapRateLimiter(globalLimiter, time.Second)
}

// GraphQLRateLimit applies the windowed limit to the GraphQL endpoint.
func GraphQLRateLimit() gin.HandlerFunc {
	return wrapRateLimiter(graphqlLimiter, GraphQLWindowDuration)
}

// wrapRateLimiter adapts an httprate limiter to Gin.
func wrapRateLimiter(limiter *httprate.RateLimiter, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		rateLimitExceeded := false

		handler := limiter.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if w.Header().Get("X-RateLimit-Remaining") == "0" {
				rateLimitExceeded = true
			}
			c.Next()
		}))

		writer := &rateLimitResponseWriter{ResponseWriter: c.Writer}
		c.Writer = writer

		handler.ServeHTTP(writer, c.Request)

		if rateLimitExceeded {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", writer.Header().Get("X-RateLimit-Limit"))
		c.Header("X-RateLimit-Remaining", writer.Header().Get("X-RateLimit-Remaining"))
		c.Header("X-RateLimit-Reset", writer.Header().Get("X-RateLimit-Reset"))
	}
}

// rateLimitResponseWriter defers 429 handling to Gin so the JSON error
// body above is the one the client sees.
type rateLimitResponseWriter struct {
	gin.ResponseWriter
	statusCode int
}

func (w *rateLimitResponseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	if statusCode == http.StatusTooManyRequests {
		return
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *rateLimitResponseWriter) Write(b []byte) (int, error) {
	if w.statusCode == http.StatusTooManyRequests {
		return len(b), nil
	}
	return w.ResponseWriter.Write(b)
}
