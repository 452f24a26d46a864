package middleware

import (
	"net/http"
	types "readafrik-checkout/internal/common/type"

	"github.com/gin-gonic/gin"
)

const SendKey = "send"

// ResponseInit installs the "send" function handlers use to write a service
// response. Failures are rendered as {"error": message}, everything else as
// the response data.
func ResponseInit() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(SendKey, func(r *types.Response) {
			code := r.Code
			if code == 0 {
				code = http.StatusOK
			}

			if code >= http.StatusBadRequest {
				message := r.Message
				if message == "" {
					message = http.StatusText(code)
				}
				c.AbortWithStatusJSON(code, types.ResponseError{Error: message})
				return
			}

			if r.Data == nil {
				c.JSON(code, types.ResponseMessage{Success: true, Message: r.Message})
				return
			}
			c.JSON(code, r.Data)
		})
		c.Next()
	}
}
