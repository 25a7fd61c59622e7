package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/reparto-app/reparto-sales-service/internal/metrics"

	"github.com/reparto-app/reparto-sales-service/internal/auth"
	"github.com/reparto-app/reparto-sales-service/internal/models"
	"github.com/reparto-app/reparto-sales-service/internal/repository"
)

const (
	// RequestIDKey is the gin context key holding the request correlation ID.
	RequestIDKey = "request_id"
	// OperatorKey is the gin context key holding the authenticated operator.
	OperatorKey = "operator"

	requestIDHeader = "X-Request-ID"
)

// RequestID attaches a correlation ID to every request. An incoming
// X-Request-ID header is honored; otherwise a new UUID is generated.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(RequestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// GetRequestID returns the request correlation ID, or empty string.
func GetRequestID(c *gin.Context) string {
	id, _ := c.Get(RequestIDKey)
	s, _ := id.(string)
	return s
}

// RequireAuth validates the Bearer token and loads the operator it belongs
// to. Requests without a valid token are rejected with 401.
func RequireAuth(jwtManager *auth.JWTManager, operators repository.OperatorRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, auth.ErrMissingToken)
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, auth.ErrInvalidToken)
			return
		}

		claims, err := jwtManager.Validate(parts[1])
		if err != nil {
			abortUnauthorized(c, auth.ErrInvalidToken)
			return
		}

		operator, err := operators.GetByID(c.Request.Context(), claims.OperatorID)
		if err != nil || operator == nil {
			abortUnauthorized(c, auth.ErrInvalidToken)
			return
		}

		c.Set(OperatorKey, operator)
		c.Next()
	}
}

// CurrentOperator returns the authenticated operator, or nil outside an
// authenticated route.
func CurrentOperator(c *gin.Context) *models.Operator {
	v, _ := c.Get(OperatorKey)
	operator, _ := v.(*models.Operator)
	return operator
}

// Metrics records request latency per route and status.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestDuration.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}

func abortUnauthorized(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
}
