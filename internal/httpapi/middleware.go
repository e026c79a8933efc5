package httpapi

import (
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bustracker/backend/internal/auth"
	"github.com/bustracker/backend/internal/users"
)

const callerKey = "caller"

// RequestLogger tags every request with an id and logs method, path,
// status and duration.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()
		log.Printf("[REQUEST] %s %s %s - status %d - %s",
			requestID, c.Request.Method, c.Request.URL.Path,
			c.Writer.Status(), time.Since(start))
	}
}

// RequireAuth verifies the bearer token, loads the account behind it and
// stores the resulting caller in the request context. Inactive accounts
// are rejected.
func RequireAuth(codec *auth.TokenCodec, store users.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			respondError(c, auth.ErrNotAuthenticated)
			c.Abort()
			return
		}
		userID, err := codec.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}
		user, err := store.FindUserByID(userID)
		if err != nil {
			respondError(c, auth.ErrInvalidCredential)
			c.Abort()
			return
		}
		if !user.IsActive {
			respondError(c, users.ErrAccountInactive)
			c.Abort()
			return
		}
		c.Set(callerKey, auth.Caller{ID: user.ID, Role: user.Role, Authenticated: true})
		c.Next()
	}
}

// callerFrom returns the verified caller, or a zero (anonymous) caller for
// routes that did not pass through RequireAuth.
func callerFrom(c *gin.Context) auth.Caller {
	if v, ok := c.Get(callerKey); ok {
		if caller, ok := v.(auth.Caller); ok {
			return caller
		}
	}
	return auth.Caller{}
}
