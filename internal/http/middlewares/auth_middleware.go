package middlewares

import (
	"net/http"

	"github.com/geocoder89/userhub/internal/auth"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, bool)
}

type AuthMiddleware struct {
	tokens TokenVerifier
}

func NewAuthMiddleware(tokens TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireQueryToken verifies the bearer token carried in the ?<param>= query value.
// Failures get the same 400 shape as any other bad input.
func (m *AuthMiddleware) RequireQueryToken(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Query(param)
		if raw == "" {
			abortBadRequest(c, "Missing or invalid token")
			return
		}

		claims, ok := m.tokens.Verify(raw)
		if !ok {
			abortBadRequest(c, "Missing or invalid token")
			return
		}

		c.Set(CtxUsername, claims.Username)

		c.Next()
	}
}

func UsernameFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxUsername)
	if !ok {
		return "", false
	}
	username, ok := v.(string)
	return username, ok && username != ""
}

func abortBadRequest(c *gin.Context, message string) {
	body := gin.H{
		"success": false,
		"status":  http.StatusBadRequest,
		"error":   message,
	}
	if id, ok := c.Get(CtxRequestID); ok {
		body["requestId"] = id
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, body)
}
