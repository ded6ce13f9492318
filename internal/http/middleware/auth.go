package middleware

import (
	"net/http"

	"spacify/internal/domain"
	"spacify/internal/services"
	"spacify/internal/utils"

	"github.com/gin-gonic/gin"
)

const authUserKey = "auth_user"

// TokenParser validates a bearer token.
type TokenParser interface {
	ParseToken(raw string) (services.Claims, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller in the context.
func RequireAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := services.BearerToken(c.GetHeader("Authorization"))
		if err == nil {
			var claims services.Claims
			claims, err = parser.ParseToken(token)
			if err == nil {
				c.Set(authUserKey, domain.RequestContext{UserID: claims.UserID, Email: claims.Email})
				c.Next()
				return
			}
		}
		utils.LogEvent(GetRequestID(c), "auth", "require", "rejected path="+c.Request.URL.Path)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success":    false,
			"message":    "Invalid token",
			"request_id": GetRequestID(c),
		})
	}
}

// AuthUser returns the caller set by RequireAuth.
func AuthUser(c *gin.Context) (domain.RequestContext, bool) {
	v, ok := c.Get(authUserKey)
	if !ok {
		return domain.RequestContext{}, false
	}
	rc, ok := v.(domain.RequestContext)
	return rc, ok
}
