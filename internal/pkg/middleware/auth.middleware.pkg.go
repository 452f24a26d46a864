package middleware

import (
	"net/http"
	types "readafrik-checkout/internal/common/type"
	"readafrik-checkout/internal/pkg/apperr"
	"readafrik-checkout/internal/pkg/helper"
	"readafrik-checkout/internal/pkg/jwt"
	"strings"

	"github.com/gin-gonic/gin"
)

const AuthKey = "auth"

// AuthMiddleware requires a valid admin bearer token.
func AuthMiddleware(tokens *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		send := c.MustGet(SendKey).(func(r *types.Response))

		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			send(helper.ParseResponse(&types.Response{
				Code:  http.StatusUnauthorized,
				Error: apperr.Unauthorized("token not found", nil),
			}))
			return
		}

		admin, err := tokens.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			send(helper.ParseResponse(&types.Response{
				Code:  http.StatusUnauthorized,
				Error: apperr.Unauthorized("invalid token", err),
			}))
			return
		}

		c.Set(AuthKey, *admin)
		c.Next()
	}
}
