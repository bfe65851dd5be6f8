package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/airport/internal/access"
	"github.com/Domenick1991/airport/internal/auth"
	"github.com/Domenick1991/airport/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	principalKey = "principal"
	requestIDKey = "request_id"
)

type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Authenticate classifies the caller. Requests without credentials continue
// as anonymous; a bad bearer token is rejected immediately.
func Authenticate(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Set(principalKey, access.Anonymous())
			c.Next()
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			writeError(c, fmt.Errorf("malformed authorization header: %w", domain.ErrUnauthorized))
			return
		}
		claims, err := tokens.Verify(strings.TrimSpace(token))
		if err != nil {
			writeError(c, fmt.Errorf("%v: %w", err, domain.ErrUnauthorized))
			return
		}

		c.Set(principalKey, claims.Principal())
		c.Next()
	}
}

// Require gates a route on the access policy.
func Require(res access.Resource, act access.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := access.Authorize(principal(c), res, act); err != nil {
			writeError(c, err)
			return
		}
		c.Next()
	}
}

func principal(c *gin.Context) access.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(access.Principal); ok {
			return p
		}
	}
	return access.Anonymous()
}

// RequestLogger tags every request with an id and logs its outcome.
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()

		status := c.Writer.Status()
		entry := logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		})
		if p := principal(c); p.IsAuthenticated() {
			entry = entry.WithField("user_id", p.UserID)
		}

		switch {
		case status >= 500:
			if last := c.Errors.Last(); last != nil {
				entry = entry.WithError(last.Err)
			}
			entry.Error("request failed")
		case status >= 400:
			entry.Info("request rejected")
		default:
			entry.Info("request completed")
		}
	}
}
