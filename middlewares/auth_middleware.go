package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mealyhq/mealy-api/utils"
)

// Context keys set by Authenticate. Handlers read identity from these,
// never from the request body.
const (
	ContextUserID = "userID"
	ContextRole   = "role"
	ContextClaims = "claims"
)

// Authenticate requires a valid bearer token on the request. On success
// the verified claims are stored in the context for the handler and the
// refresh interceptor; on any failure the request is aborted with 401.
func Authenticate(ts *utils.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("authorization header missing"))
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := ts.Parse(tokenString)
		if err != nil || claims.UserID == 0 {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid or expired token"))
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextClaims, claims)

		c.Next()
	}
}

// RequireRoles gates an endpoint to the given roles. Must run after
// Authenticate; a valid identity with the wrong role gets 403.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get(ContextRole)
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
			c.Abort()
			return
		}

		callerRole, _ := roleVal.(string)
		for _, r := range roles {
			if callerRole == r {
				c.Next()
				return
			}
		}

		utils.RespondError(c, http.StatusForbidden,
			errors.New("access denied, required role(s): "+strings.Join(roles, ", ")))
		c.Abort()
	}
}

// GetUserID returns the authenticated caller's user ID from the context.
func GetUserID(c *gin.Context) uint {
	val, _ := c.Get(ContextUserID)
	id, _ := val.(uint)
	return id
}

// GetRole returns the authenticated caller's role from the context.
func GetRole(c *gin.Context) string {
	val, _ := c.Get(ContextRole)
	role, _ := val.(string)
	return role
}
